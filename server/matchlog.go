package main

import (
	"log"
	"sync"
	"time"
)

// Event types written to match_events
const (
	EvtMatchStart  = "match_start"
	EvtMatchEnd    = "match_end"
	EvtPlayerJoin  = "player_join"
	EvtPlayerLeave = "player_leave"
	EvtWaveStart   = "wave_start"
	EvtSpawn       = "spawn"
	EvtCommand     = "command"
)

const (
	matchLogBuffer     = 1024
	matchLogBatchSize  = 50
	matchLogFlushEvery = 5 * time.Second
)

// MatchEvent is one row of the match log
type MatchEvent struct {
	Type      string
	MatchID   int64
	PlayerID  int64 // account id, 0 for guests and non-player events
	Tick      uint64
	Data      string
	Timestamp time.Time
}

// MatchLog persists match events from the game loops in batches on a
// background goroutine. Track never blocks a tick: when the buffer is full
// the event is dropped. All methods are safe on a nil *MatchLog.
type MatchLog struct {
	db     *DB
	events chan MatchEvent
	stop   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once

	flushInterval time.Duration
}

// NewMatchLog creates and starts the background writer
func NewMatchLog(db *DB) *MatchLog {
	return newMatchLog(db, matchLogFlushEvery)
}

func newMatchLog(db *DB, flushInterval time.Duration) *MatchLog {
	l := &MatchLog{
		db:            db,
		events:        make(chan MatchEvent, matchLogBuffer),
		stop:          make(chan struct{}),
		flushInterval: flushInterval,
	}
	l.wg.Add(1)
	go l.writer()
	return l
}

// Track enqueues an event for async persistence (non-blocking)
func (l *MatchLog) Track(e MatchEvent) {
	if l == nil {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	select {
	case <-l.stop:
		return
	default:
	}
	select {
	case l.events <- e:
	default:
		// Buffer full: drop rather than stall the game loop
	}
}

// Stop flushes what is buffered and shuts the writer down
func (l *MatchLog) Stop() {
	if l == nil {
		return
	}
	l.once.Do(func() { close(l.stop) })
	l.wg.Wait()
}

func (l *MatchLog) writer() {
	defer l.wg.Done()

	batch := make([]MatchEvent, 0, matchLogBatchSize)
	ticker := time.NewTicker(l.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case e := <-l.events:
			batch = append(batch, e)
			if len(batch) >= matchLogBatchSize {
				l.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				l.flush(batch)
				batch = batch[:0]
			}
		case <-l.stop:
			// Drain whatever is already queued
			for {
				select {
				case e := <-l.events:
					batch = append(batch, e)
				default:
					l.flush(batch)
					return
				}
			}
		}
	}
}

func (l *MatchLog) flush(batch []MatchEvent) {
	if l.db == nil || len(batch) == 0 {
		return
	}
	if err := l.db.InsertMatchEvents(batch); err != nil {
		log.Printf("matchlog: flush %d events: %v", len(batch), err)
	}
}
