package main

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDBPlayers(t *testing.T) {
	db := openTestDB(t)

	id, err := db.CreatePlayer("alice", "hash")
	if err != nil || id <= 0 {
		t.Fatalf("CreatePlayer: id=%d err=%v", id, err)
	}
	if _, err := db.CreatePlayer("alice", "other"); err == nil {
		t.Error("duplicate username should fail")
	}

	exists, err := db.UsernameExists("alice")
	if err != nil || !exists {
		t.Errorf("UsernameExists(alice) = %v, %v", exists, err)
	}
	p, err := db.GetPlayerByUsername("alice")
	if err != nil || p == nil || p.ID != id || p.PassHash != "hash" {
		t.Errorf("GetPlayerByUsername = %+v, %v", p, err)
	}
	p, err = db.GetPlayerByUsername("nobody")
	if err != nil || p != nil {
		t.Errorf("missing player should be nil, got %+v, %v", p, err)
	}
}

func TestDBSettings(t *testing.T) {
	db := openTestDB(t)
	if v := db.GetSetting("k"); v != "" {
		t.Errorf("unset setting = %q", v)
	}
	if err := db.SetSetting("k", "one"); err != nil {
		t.Fatal(err)
	}
	if err := db.SetSetting("k", "two"); err != nil {
		t.Fatal(err)
	}
	if v := db.GetSetting("k"); v != "two" {
		t.Errorf("setting = %q, want two", v)
	}
}

func TestDBMatches(t *testing.T) {
	db := openTestDB(t)

	first, err := db.CreateMatch("sid-1", "Arena")
	if err != nil {
		t.Fatal(err)
	}
	second, err := db.CreateMatch("sid-2", "Practice")
	if err != nil {
		t.Fatal(err)
	}
	if err := db.FinishMatch(first, 1234, 3); err != nil {
		t.Fatal(err)
	}

	m, err := db.GetMatch(first)
	if err != nil || m == nil {
		t.Fatalf("GetMatch: %+v, %v", m, err)
	}
	if !m.Finished || m.Ticks != 1234 || m.Waves != 3 || m.SessionID != "sid-1" {
		t.Errorf("unexpected finished match %+v", m)
	}

	recent, err := db.RecentMatches(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 || recent[0].ID != second || recent[1].ID != first {
		t.Errorf("RecentMatches should list newest first: %+v", recent)
	}
	if recent[0].Finished {
		t.Error("second match was never finished")
	}

	if m, err := db.GetMatch(999); err != nil || m != nil {
		t.Errorf("missing match: %+v, %v", m, err)
	}
}

func TestDBInsertMatchEvents(t *testing.T) {
	db := openTestDB(t)
	mid, err := db.CreateMatch("sid", "Arena")
	if err != nil {
		t.Fatal(err)
	}

	now := time.Now().UTC()
	events := []MatchEvent{
		{Type: EvtWaveStart, MatchID: mid, Tick: 200, Data: "1", Timestamp: now},
		{Type: EvtCommand, MatchID: mid, PlayerID: 0, Tick: 201, Data: "move", Timestamp: now},
		{Type: EvtCommand, MatchID: mid, Tick: 202, Timestamp: now},
	}
	if err := db.InsertMatchEvents(events); err != nil {
		t.Fatal(err)
	}

	if n, err := db.CountMatchEvents(mid, EvtCommand); err != nil || n != 2 {
		t.Errorf("command events = %d, %v", n, err)
	}
	if n, err := db.CountMatchEvents(mid, EvtWaveStart); err != nil || n != 1 {
		t.Errorf("wave events = %d, %v", n, err)
	}
}
