package main

import (
	"errors"
	"testing"
	"time"
)

func TestRegisterLoginValidate(t *testing.T) {
	a := NewAccounts(openTestDB(t))

	id, token, err := a.Register("alice", "secret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	gotID, name, err := a.ValidateToken(token)
	if err != nil || gotID != id || name != "alice" {
		t.Errorf("ValidateToken = %d %q %v", gotID, name, err)
	}

	loginID, _, err := a.Login("alice", "secret", "1.2.3.4")
	if err != nil || loginID != id {
		t.Errorf("Login = %d, %v", loginID, err)
	}
	if _, _, err := a.Login("alice", "wrong", "1.2.3.4"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("wrong password: %v", err)
	}
	if _, _, err := a.Login("bob", "secret", "1.2.3.4"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("unknown user: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	a := NewAccounts(openTestDB(t))

	if _, _, err := a.Register("a", "secret"); err == nil {
		t.Error("short username should fail")
	}
	if _, _, err := a.Register("alice", "abc"); err == nil {
		t.Error("short password should fail")
	}
	if _, _, err := a.Register("alice", "secret"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := a.Register("alice", "secret2"); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("duplicate: %v", err)
	}
}

func TestTokenRejectsTamperingAndExpiry(t *testing.T) {
	db := openTestDB(t)
	a := NewAccounts(db)
	_, token, err := a.Register("alice", "secret")
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := a.ValidateToken(token + "x"); err == nil {
		t.Error("tampered token should fail")
	}

	// The secret is persisted, so a second service accepts the token
	b := NewAccounts(db)
	if _, _, err := b.ValidateToken(token); err != nil {
		t.Errorf("token should survive a restart: %v", err)
	}

	b.now = func() time.Time { return time.Now().Add(tokenTTL + time.Hour) }
	if _, _, err := b.ValidateToken(token); err == nil {
		t.Error("expired token should fail")
	}
}

func TestLoginRateLimit(t *testing.T) {
	a := NewAccounts(openTestDB(t))
	for i := 0; i < maxLoginAttempts; i++ {
		if _, _, err := a.Login("nobody", "x", "9.9.9.9"); errors.Is(err, ErrRateLimited) {
			t.Fatalf("limited too early at attempt %d", i+1)
		}
	}
	if _, _, err := a.Login("nobody", "x", "9.9.9.9"); !errors.Is(err, ErrRateLimited) {
		t.Errorf("expected rate limit, got %v", err)
	}
	if _, _, err := a.Login("nobody", "x", "8.8.8.8"); errors.Is(err, ErrRateLimited) {
		t.Error("other addresses have their own window")
	}
}
