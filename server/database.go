package main

import (
	"database/sql"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// PlayerRow represents an account in the database
type PlayerRow struct {
	ID        int64
	Username  string
	PassHash  string
	CreatedAt time.Time
}

// MatchRow represents one hosted session
type MatchRow struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"sid"`
	Name      string    `json:"name"`
	Ticks     int64     `json:"ticks"`
	Waves     int       `json:"waves"`
	Finished  bool      `json:"finished"`
	CreatedAt time.Time `json:"created_at"`
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		pass_hash TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS matches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		ticks INTEGER NOT NULL DEFAULT 0,
		waves INTEGER NOT NULL DEFAULT 0,
		finished INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS match_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		match_id INTEGER NOT NULL REFERENCES matches(id),
		event_type TEXT NOT NULL,
		player_id INTEGER,
		tick INTEGER NOT NULL DEFAULT 0,
		data TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_match_events_match ON match_events(match_id, event_type);
	`
	_, err := db.conn.Exec(schema)
	if err != nil {
		log.Printf("db: migration error: %v", err)
	}
	return err
}

// CreatePlayer creates a new account (returns player ID)
func (db *DB) CreatePlayer(username, passHash string) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO players (username, pass_hash) VALUES (?, ?)",
		username, passHash,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetPlayerByUsername returns an account by username, nil if absent
func (db *DB) GetPlayerByUsername(username string) (*PlayerRow, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, pass_hash, created_at FROM players WHERE username = ?",
		username,
	)
	p := &PlayerRow{}
	err := row.Scan(&p.ID, &p.Username, &p.PassHash, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// UsernameExists checks if a username is taken
func (db *DB) UsernameExists(username string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM players WHERE username = ?", username).Scan(&count)
	return count > 0, err
}

// GetSetting returns a stored setting, "" if absent
func (db *DB) GetSetting(key string) string {
	var v string
	if err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&v); err != nil {
		return ""
	}
	return v
}

// SetSetting stores a setting, replacing any previous value
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

// CreateMatch records a new session and returns its match ID
func (db *DB) CreateMatch(sessionID, name string) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO matches (session_id, name) VALUES (?, ?)",
		sessionID, name,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// FinishMatch closes a match with its final tick and wave counts
func (db *DB) FinishMatch(id int64, ticks uint64, waves int) error {
	_, err := db.conn.Exec(
		"UPDATE matches SET ticks = ?, waves = ?, finished = 1 WHERE id = ?",
		int64(ticks), waves, id,
	)
	return err
}

// GetMatch returns a match by ID, nil if absent
func (db *DB) GetMatch(id int64) (*MatchRow, error) {
	row := db.conn.QueryRow(
		"SELECT id, session_id, name, ticks, waves, finished, created_at FROM matches WHERE id = ?",
		id,
	)
	m := &MatchRow{}
	err := row.Scan(&m.ID, &m.SessionID, &m.Name, &m.Ticks, &m.Waves, &m.Finished, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return m, err
}

// RecentMatches returns the latest matches, newest first
func (db *DB) RecentMatches(limit int) ([]MatchRow, error) {
	rows, err := db.conn.Query(
		`SELECT id, session_id, name, ticks, waves, finished, created_at
		FROM matches ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []MatchRow
	for rows.Next() {
		var m MatchRow
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Name, &m.Ticks, &m.Waves, &m.Finished, &m.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// InsertMatchEvents writes a batch of events in one transaction
func (db *DB) InsertMatchEvents(events []MatchEvent) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO match_events (match_id, event_type, player_id, tick, data, created_at) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		pid := sql.NullInt64{Int64: e.PlayerID, Valid: e.PlayerID > 0}
		data := sql.NullString{String: e.Data, Valid: e.Data != ""}
		if _, err := stmt.Exec(e.MatchID, e.Type, pid, int64(e.Tick), data, e.Timestamp.Format(time.RFC3339)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// CountMatchEvents returns how many events of a type a match logged
func (db *DB) CountMatchEvents(matchID int64, eventType string) (int, error) {
	var n int
	err := db.conn.QueryRow(
		"SELECT COUNT(*) FROM match_events WHERE match_id = ? AND event_type = ?",
		matchID, eventType,
	).Scan(&n)
	return n, err
}
