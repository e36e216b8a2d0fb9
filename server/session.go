package main

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"
)

const maxSessions = 100

// SessionIdleTimeout is how long a session with no players survives
var SessionIdleTimeout = 2 * time.Minute

var (
	ErrTooManySessions = errors.New("too many active sessions")
	ErrSessionClosed   = errors.New("session closed")
)

// Session is one hosted lane simulation players can join
type Session struct {
	ID         string
	Name       string
	Game       *Game
	MatchID    int64
	emptySince time.Time // zero while players are connected
}

// SessionManager creates, looks up and reaps sessions
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	cfg      SimConfig
	db       *DB       // optional
	matchLog *MatchLog // optional
	stopReap chan struct{}
}

// NewSessionManager creates a SessionManager. db and matchLog may be nil.
func NewSessionManager(cfg SimConfig, db *DB, matchLog *MatchLog) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		db:       db,
		matchLog: matchLog,
		stopReap: make(chan struct{}),
	}
}

// CreateSession starts a new simulation and its tick loop
func (sm *SessionManager) CreateSession(name string) (*Session, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if len(sm.sessions) >= maxSessions {
		return nil, ErrTooManySessions
	}

	id := GenerateUUID()
	var matchID int64
	if sm.db != nil {
		mid, err := sm.db.CreateMatch(id, name)
		if err != nil {
			log.Printf("session %s: record match: %v", id, err)
		}
		matchID = mid
	}

	game, err := NewGame(sm.cfg, sm.matchLog, matchID)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	sess := &Session{
		ID:         id,
		Name:       name,
		Game:       game,
		MatchID:    matchID,
		emptySince: time.Now(),
	}
	sm.sessions[id] = sess
	sm.matchLog.Track(MatchEvent{Type: EvtMatchStart, MatchID: matchID, Data: name})
	go game.Run()
	log.Printf("session %s (%q) started", id, name)
	return sess, nil
}

// GetSession returns a session by ID, nil if absent
func (sm *SessionManager) GetSession(id string) *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[id]
}

// MarkActive clears a session's idle clock. It reports false when the
// session has already been reaped or shut down.
func (sm *SessionManager) MarkActive(id string) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sess, ok := sm.sessions[id]
	if ok {
		sess.emptySince = time.Time{}
	}
	return ok
}

// Join adds a player to sess. The session may have been reaped since it was
// looked up; the player is then taken back out and ErrSessionClosed returned.
func (sm *SessionManager) Join(sess *Session, name string, team *Team) (*Player, error) {
	player, err := sess.Game.AddPlayer(name, team)
	if err != nil {
		return nil, err
	}
	if !sm.MarkActive(sess.ID) {
		sess.Game.RemovePlayer(player.ID)
		return nil, ErrSessionClosed
	}
	return player, nil
}

// RemovePlayer removes a player; an emptied session starts its idle clock
func (sm *SessionManager) RemovePlayer(sessionID, playerID string) {
	sess := sm.GetSession(sessionID)
	if sess == nil {
		return
	}
	sess.Game.RemovePlayer(playerID)
	if sess.Game.PlayerCount() == 0 {
		sm.mu.Lock()
		if sess.emptySince.IsZero() {
			sess.emptySince = time.Now()
		}
		sm.mu.Unlock()
	}
}

// ListSessions returns info about all active sessions, oldest match first
func (sm *SessionManager) ListSessions() []SessionInfo {
	sm.mu.RLock()
	all := make([]*Session, 0, len(sm.sessions))
	for _, sess := range sm.sessions {
		all = append(all, sess)
	}
	sm.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].MatchID != all[j].MatchID {
			return all[i].MatchID < all[j].MatchID
		}
		return all[i].ID < all[j].ID
	})
	list := make([]SessionInfo, 0, len(all))
	for _, sess := range all {
		list = append(list, SessionInfo{
			ID:      sess.ID,
			Name:    sess.Name,
			Players: sess.Game.PlayerCount(),
			Wave:    sess.Game.WaveNumber(),
		})
	}
	return list
}

// Count returns the number of live sessions
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// StartReaper periodically closes sessions that stayed empty too long
func (sm *SessionManager) StartReaper(every time.Duration) {
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sm.reap(time.Now())
			case <-sm.stopReap:
				return
			}
		}
	}()
}

// reap closes sessions idle since before now-SessionIdleTimeout
func (sm *SessionManager) reap(now time.Time) int {
	sm.mu.Lock()
	var dead []*Session
	for id, sess := range sm.sessions {
		if sess.emptySince.IsZero() || now.Sub(sess.emptySince) < SessionIdleTimeout {
			continue
		}
		if sess.Game.PlayerCount() > 0 {
			sess.emptySince = time.Time{}
			continue
		}
		dead = append(dead, sess)
		delete(sm.sessions, id)
	}
	sm.mu.Unlock()

	for _, sess := range dead {
		sm.closeSession(sess)
	}
	return len(dead)
}

// Shutdown stops the reaper and closes every session
func (sm *SessionManager) Shutdown() {
	select {
	case <-sm.stopReap:
	default:
		close(sm.stopReap)
	}

	sm.mu.Lock()
	all := make([]*Session, 0, len(sm.sessions))
	for id, sess := range sm.sessions {
		all = append(all, sess)
		delete(sm.sessions, id)
	}
	sm.mu.Unlock()

	for _, sess := range all {
		sm.closeSession(sess)
	}
}

func (sm *SessionManager) closeSession(sess *Session) {
	sess.Game.Stop()
	ticks, waves := sess.Game.Ticks(), sess.Game.WaveNumber()
	sm.matchLog.Track(MatchEvent{Type: EvtMatchEnd, MatchID: sess.MatchID, Tick: ticks, Data: fmt.Sprint(waves)})
	if sm.db != nil && sess.MatchID != 0 {
		if err := sm.db.FinishMatch(sess.MatchID, ticks, waves); err != nil {
			log.Printf("session %s: finish match: %v", sess.ID, err)
		}
	}
	log.Printf("session %s closed after %d ticks, %d waves", sess.ID, ticks, waves)
}
