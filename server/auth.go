package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenTTL         = 7 * 24 * time.Hour
	bcryptCost       = 12
	minPasswordLen   = 4
	minUsernameLen   = 2
	maxUsernameLen   = 16
	loginRateWindow  = 60 * time.Second
	maxLoginAttempts = 10
	secretSettingKey = "jwt_secret"
)

var (
	ErrBadCredentials = errors.New("invalid username or password")
	ErrUsernameTaken  = errors.New("username already taken")
	ErrRateLimited    = errors.New("too many login attempts, try again later")
)

// accountClaims is the token payload; the subject holds the account id
type accountClaims struct {
	Username string `json:"usr"`
	jwt.RegisteredClaims
}

// Accounts registers and authenticates players. Guests never touch it; a
// logged-in player's account id is attached to their match events.
type Accounts struct {
	db     *DB
	secret []byte
	now    func() time.Time

	rateMu  sync.Mutex
	attempt map[string]*loginWindow // remote addr -> window
}

type loginWindow struct {
	count   int
	resetAt time.Time
}

// NewAccounts creates the account service backed by db
func NewAccounts(db *DB) *Accounts {
	return &Accounts{
		db:      db,
		secret:  loadOrCreateSecret(db),
		now:     time.Now,
		attempt: make(map[string]*loginWindow),
	}
}

// loadOrCreateSecret reads the signing key from settings, generating and
// storing one on first start so tokens survive restarts.
func loadOrCreateSecret(db *DB) []byte {
	if h := db.GetSetting(secretSettingKey); h != "" {
		if b, err := hex.DecodeString(h); err == nil && len(b) == 32 {
			return b
		}
		log.Printf("auth: stored secret is malformed, rotating")
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		log.Fatalf("auth: generate secret: %v", err)
	}
	if err := db.SetSetting(secretSettingKey, hex.EncodeToString(secret)); err != nil {
		log.Printf("auth: could not persist secret: %v", err)
	}
	return secret
}

func validUsername(username string) error {
	if len(username) < minUsernameLen || len(username) > maxUsernameLen {
		return fmt.Errorf("username must be %d-%d characters", minUsernameLen, maxUsernameLen)
	}
	return nil
}

// Register creates an account and returns its id and a fresh token
func (a *Accounts) Register(username, password string) (int64, string, error) {
	username = strings.TrimSpace(username)
	if err := validUsername(username); err != nil {
		return 0, "", err
	}
	if len(password) < minPasswordLen {
		return 0, "", fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}

	taken, err := a.db.UsernameExists(username)
	if err != nil {
		return 0, "", fmt.Errorf("lookup %q: %w", username, err)
	}
	if taken {
		return 0, "", ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return 0, "", fmt.Errorf("hash password: %w", err)
	}
	id, err := a.db.CreatePlayer(username, string(hash))
	if err != nil {
		return 0, "", fmt.Errorf("create account: %w", err)
	}

	token, err := a.issue(id, username)
	if err != nil {
		return 0, "", err
	}
	return id, token, nil
}

// Login checks a password and returns the account id and a fresh token.
// Attempts are limited per remote address.
func (a *Accounts) Login(username, password, addr string) (int64, string, error) {
	if !a.allow(addr) {
		return 0, "", ErrRateLimited
	}

	row, err := a.db.GetPlayerByUsername(strings.TrimSpace(username))
	if err != nil {
		return 0, "", fmt.Errorf("lookup %q: %w", username, err)
	}
	if row == nil || row.PassHash == "" {
		return 0, "", ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(row.PassHash), []byte(password)); err != nil {
		return 0, "", ErrBadCredentials
	}

	token, err := a.issue(row.ID, row.Username)
	if err != nil {
		return 0, "", err
	}
	return row.ID, token, nil
}

// ValidateToken verifies a token and returns the account it was issued for
func (a *Accounts) ValidateToken(tokenStr string) (int64, string, error) {
	var claims accountClaims
	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return 0, "", fmt.Errorf("validate token: %w", err)
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, "", fmt.Errorf("validate token: bad subject %q", claims.Subject)
	}
	return id, claims.Username, nil
}

func (a *Accounts) issue(id int64, username string) (string, error) {
	now := a.now()
	claims := accountClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(id, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (a *Accounts) allow(addr string) bool {
	a.rateMu.Lock()
	defer a.rateMu.Unlock()

	now := a.now()
	w, ok := a.attempt[addr]
	if !ok || now.After(w.resetAt) {
		a.attempt[addr] = &loginWindow{count: 1, resetAt: now.Add(loginRateWindow)}
		return true
	}
	w.count++
	return w.count <= maxLoginAttempts
}

// GuestName makes a display name for players who join without one
func GuestName() string {
	b := make([]byte, 2)
	rand.Read(b)
	return "Guest_" + hex.EncodeToString(b)
}
