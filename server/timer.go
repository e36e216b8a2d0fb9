package main

import "time"

// Timer counts elapsed simulation time toward a fixed duration. A repeating
// timer wraps its elapsed time when it completes; a paused timer ignores Tick.
type Timer struct {
	duration     time.Duration
	elapsed      time.Duration
	repeating    bool
	paused       bool
	finished     bool
	timesCounted int // completions during the last Tick
}

// NewRepeatingTimer returns a running timer that fires every d
func NewRepeatingTimer(d time.Duration) Timer {
	return Timer{duration: d, repeating: true}
}

// Tick advances the timer by dt
func (t *Timer) Tick(dt time.Duration) {
	t.timesCounted = 0
	if t.paused {
		return
	}
	if t.finished && !t.repeating {
		return
	}
	t.elapsed += dt
	if t.elapsed < t.duration {
		t.finished = false
		return
	}
	t.finished = true
	if t.repeating {
		t.timesCounted = int(t.elapsed / t.duration)
		t.elapsed %= t.duration
	} else {
		t.timesCounted = 1
		t.elapsed = t.duration
	}
}

// JustFinished reports whether the last Tick completed at least one cycle
func (t *Timer) JustFinished() bool {
	return t.timesCounted > 0
}

// TimesFinished returns how many cycles completed during the last Tick
func (t *Timer) TimesFinished() int {
	return t.timesCounted
}

func (t *Timer) Pause()   { t.paused = true }
func (t *Timer) Unpause() { t.paused = false }

func (t *Timer) Paused() bool { return t.paused }

// Reset rewinds the timer to zero without touching its paused state
func (t *Timer) Reset() {
	t.elapsed = 0
	t.finished = false
	t.timesCounted = 0
}

func (t *Timer) Elapsed() time.Duration  { return t.elapsed }
func (t *Timer) Duration() time.Duration { return t.duration }

// Remaining returns the time left in the current cycle
func (t *Timer) Remaining() time.Duration {
	return t.duration - t.elapsed
}
