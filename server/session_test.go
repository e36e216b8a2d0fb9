package main

import (
	"errors"
	"testing"
	"time"
)

func newTestSessions(t *testing.T) *SessionManager {
	t.Helper()
	sm := NewSessionManager(testConfig(), nil, nil)
	t.Cleanup(sm.Shutdown)
	return sm
}

func TestSessionManagerCreateAndGet(t *testing.T) {
	sm := newTestSessions(t)
	sess, err := sm.CreateSession("Battle")
	if err != nil {
		t.Fatal(err)
	}
	if !uuidRegex.MatchString(sess.ID) {
		t.Errorf("session ID %q is not a valid UUID v4", sess.ID)
	}

	got := sm.GetSession(sess.ID)
	if got == nil || got.Name != "Battle" {
		t.Fatalf("expected to find created session, got %+v", got)
	}
	if sm.GetSession("nonexistent") != nil {
		t.Error("expected nil for non-existent session")
	}
}

func TestSessionManagerListSessions(t *testing.T) {
	sm := newTestSessions(t)
	a, _ := sm.CreateSession("Arena1")
	b, _ := sm.CreateSession("Arena2")
	a.Game.AddPlayer("x", nil)

	list := sm.ListSessions()
	if len(list) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(list))
	}
	players := map[string]int{}
	for _, info := range list {
		players[info.ID] = info.Players
	}
	if players[a.ID] != 1 || players[b.ID] != 0 {
		t.Errorf("unexpected player counts %v", players)
	}
}

func TestSessionManagerLimit(t *testing.T) {
	sm := newTestSessions(t)
	for i := 0; i < maxSessions; i++ {
		if _, err := sm.CreateSession("s"); err != nil {
			t.Fatalf("session %d: %v", i, err)
		}
	}
	if _, err := sm.CreateSession("one too many"); !errors.Is(err, ErrTooManySessions) {
		t.Errorf("expected ErrTooManySessions, got %v", err)
	}
}

func TestSessionManagerReap(t *testing.T) {
	prevIdleTimeout := SessionIdleTimeout
	SessionIdleTimeout = time.Minute
	defer func() {
		SessionIdleTimeout = prevIdleTimeout
	}()

	sm := newTestSessions(t)
	busy, _ := sm.CreateSession("Busy")
	idle, _ := sm.CreateSession("Idle")
	p, err := busy.Game.AddPlayer("P", nil)
	if err != nil {
		t.Fatal(err)
	}
	sm.MarkActive(busy.ID)

	if n := sm.reap(time.Now()); n != 0 {
		t.Fatalf("nothing is idle long enough yet, reaped %d", n)
	}
	if n := sm.reap(time.Now().Add(2 * time.Minute)); n != 1 {
		t.Fatalf("expected the idle session to be reaped, got %d", n)
	}
	if sm.GetSession(idle.ID) != nil || sm.GetSession(busy.ID) == nil {
		t.Error("wrong session reaped")
	}

	sm.RemovePlayer(busy.ID, p.ID)
	if n := sm.reap(time.Now().Add(2 * time.Minute)); n != 1 {
		t.Errorf("emptied session should be reaped, got %d", n)
	}
	if sm.Count() != 0 {
		t.Errorf("expected no sessions left, got %d", sm.Count())
	}
}

func TestSessionManagerJoinAfterReap(t *testing.T) {
	sm := newTestSessions(t)
	sess, _ := sm.CreateSession("Gone")

	// The reaper runs between the lookup and the join
	looked := sm.GetSession(sess.ID)
	if n := sm.reap(time.Now().Add(SessionIdleTimeout + time.Second)); n != 1 {
		t.Fatalf("expected the empty session to be reaped, got %d", n)
	}
	if sm.MarkActive(sess.ID) {
		t.Error("MarkActive should report a reaped session")
	}

	if _, err := sm.Join(looked, "Late", nil); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("expected ErrSessionClosed, got %v", err)
	}
	if looked.Game.PlayerCount() != 0 {
		t.Error("player should be taken back out of the closed game")
	}
}

func TestSessionManagerJoin(t *testing.T) {
	sm := newTestSessions(t)
	sess, _ := sm.CreateSession("Open")
	p, err := sm.Join(sess, "P", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !sess.Game.HasPlayer(p.ID) {
		t.Error("player not in game")
	}
	if n := sm.reap(time.Now().Add(SessionIdleTimeout + time.Second)); n != 0 {
		t.Errorf("joined session should not be reaped, got %d", n)
	}
}

func TestSessionManagerRecordsMatches(t *testing.T) {
	db := openTestDB(t)
	sm := NewSessionManager(testConfig(), db, nil)

	sess, err := sm.CreateSession("Recorded")
	if err != nil {
		t.Fatal(err)
	}
	if sess.MatchID == 0 {
		t.Fatal("session should have a match row")
	}
	sm.Shutdown()

	m, err := db.GetMatch(sess.MatchID)
	if err != nil || m == nil {
		t.Fatalf("GetMatch: %+v %v", m, err)
	}
	if !m.Finished || m.Name != "Recorded" || m.SessionID != sess.ID {
		t.Errorf("unexpected match row %+v", m)
	}
}

func TestRunHeadless(t *testing.T) {
	cfg := testConfig()
	summary, err := RunHeadless(cfg, 30*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Ticks != 300 {
		t.Errorf("expected 300 ticks, got %d", summary.Ticks)
	}
	if summary.Waves != 1 {
		t.Errorf("expected 1 wave, got %d", summary.Waves)
	}
	// One full wave: 6 units from each of 3 spawners per team
	for _, team := range Teams {
		if summary.Minions[team] != 18 {
			t.Errorf("%s: expected 18 minions, got %d", team, summary.Minions[team])
		}
	}
}
