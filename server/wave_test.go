package main

import (
	"testing"
	"time"

	"pgregory.net/rapid"
)

const testStep = 100 * time.Millisecond

// testConfig uses a 10 Hz step so every delay is a whole number of ticks
func testConfig() SimConfig {
	cfg := DefaultSimConfig()
	cfg.TickRate = 10
	return cfg
}

func TestTimerRepeats(t *testing.T) {
	tm := NewRepeatingTimer(time.Second)
	for i := 0; i < 9; i++ {
		tm.Tick(testStep)
		if tm.JustFinished() {
			t.Fatalf("finished early at step %d", i)
		}
	}
	tm.Tick(testStep)
	if !tm.JustFinished() || tm.TimesFinished() != 1 {
		t.Fatalf("expected one completion, got %d", tm.TimesFinished())
	}
	if tm.Elapsed() != 0 {
		t.Errorf("elapsed should wrap to 0, got %v", tm.Elapsed())
	}
	tm.Tick(testStep)
	if tm.JustFinished() {
		t.Error("JustFinished should only hold for the completing tick")
	}
}

func TestTimerLargeStepCountsEveryCycle(t *testing.T) {
	tm := NewRepeatingTimer(time.Second)
	tm.Tick(2500 * time.Millisecond)
	if tm.TimesFinished() != 2 {
		t.Errorf("expected 2 completions, got %d", tm.TimesFinished())
	}
	if tm.Elapsed() != 500*time.Millisecond {
		t.Errorf("expected 500ms left over, got %v", tm.Elapsed())
	}
}

func TestTimerPauseAndReset(t *testing.T) {
	tm := NewRepeatingTimer(time.Second)
	tm.Tick(400 * time.Millisecond)
	tm.Pause()
	tm.Tick(5 * time.Second)
	if tm.Elapsed() != 400*time.Millisecond || tm.JustFinished() {
		t.Fatalf("paused timer advanced: elapsed %v", tm.Elapsed())
	}
	tm.Reset()
	if !tm.Paused() {
		t.Error("Reset must not unpause")
	}
	if tm.Elapsed() != 0 || tm.Remaining() != time.Second {
		t.Errorf("Reset should rewind, elapsed %v remaining %v", tm.Elapsed(), tm.Remaining())
	}
}

func TestWaveManagerStartsIdle(t *testing.T) {
	w := NewWaveManager(testConfig())
	if w.Spawning() {
		t.Fatal("spawn timer must start paused")
	}
	if w.NextWaveIn() != 20*time.Second {
		t.Errorf("first wave in %v, want 20s", w.NextWaveIn())
	}
}

// TestWaveSchedule drives the default pacing for two waves: the wave fires at
// 20s, one unit per second follows from 21s to 26s, and nothing more spawns
// until the next wave at 40s.
func TestWaveSchedule(t *testing.T) {
	w := NewWaveManager(testConfig())

	var starts, spawns []time.Duration
	for now := testStep; now <= 47*time.Second; now += testStep {
		switch w.Advance(testStep) {
		case StepWaveStarted:
			starts = append(starts, now)
		case StepSpawn:
			spawns = append(spawns, now)
		}
		if w.SpawnIndex < 0 || w.SpawnIndex > w.WaveUnits {
			t.Fatalf("spawn index %d out of [0, %d] at %v", w.SpawnIndex, w.WaveUnits, now)
		}
	}

	wantStarts := []time.Duration{20 * time.Second, 40 * time.Second}
	if len(starts) != len(wantStarts) {
		t.Fatalf("wave starts %v, want %v", starts, wantStarts)
	}
	for i := range wantStarts {
		if starts[i] != wantStarts[i] {
			t.Errorf("wave %d started at %v, want %v", i+1, starts[i], wantStarts[i])
		}
	}

	var wantSpawns []time.Duration
	for _, base := range wantStarts {
		for k := 1; k <= 6; k++ {
			wantSpawns = append(wantSpawns, base+time.Duration(k)*time.Second)
		}
	}
	if len(spawns) != len(wantSpawns) {
		t.Fatalf("got %d spawns %v, want %d", len(spawns), spawns, len(wantSpawns))
	}
	for i := range wantSpawns {
		if spawns[i] != wantSpawns[i] {
			t.Errorf("spawn %d at %v, want %v", i, spawns[i], wantSpawns[i])
		}
	}
	if w.Wave != 2 {
		t.Errorf("expected 2 waves, got %d", w.Wave)
	}
	if w.Spawning() {
		t.Error("spawn timer should be paused after the wave completes")
	}
}

func TestWaveWithNoUnitsEndsImmediately(t *testing.T) {
	cfg := testConfig()
	cfg.WaveUnits = 0
	w := NewWaveManager(cfg)

	for now := testStep; now <= 30*time.Second; now += testStep {
		if w.Advance(testStep) == StepSpawn {
			t.Fatalf("spawned at %v with WaveUnits=0", now)
		}
	}
	if w.Wave != 1 || w.Spawning() {
		t.Errorf("wave %d spawning=%v, want wave 1 and idle", w.Wave, w.Spawning())
	}
}

func TestSimulationSpawnsMinionsAtSpawners(t *testing.T) {
	s, err := NewSimulation(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 210; i++ { // 21s: wave start plus the first spawn
		s.Tick(testStep)
	}

	for _, team := range Teams {
		if n := s.CountUnits(team, KindMinion); n != 3 {
			t.Errorf("%s: expected 3 minions after first spawn, got %d", team, n)
		}
	}

	events := s.DrainEvents()
	if len(events) != 2 {
		t.Fatalf("expected wave + spawn events, got %+v", events)
	}
	if events[0].Type != EventWaveStarted || events[0].Tick != 200 {
		t.Errorf("unexpected first event %+v", events[0])
	}
	if events[1].Type != EventUnitsSpawned || events[1].Count != 6 || events[1].Tick != 210 {
		t.Errorf("unexpected spawn event %+v", events[1])
	}
	if len(s.DrainEvents()) != 0 {
		t.Error("DrainEvents should clear the queue")
	}
}

func TestSpawnedMinionHeadsForLaneMidpoint(t *testing.T) {
	s, err := NewSimulation(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	sp := s.Layout().Spawners[0]
	u := s.spawnMinion(sp)

	if u.Action.Type != ActionMove || u.Action.Override != OverrideAttack {
		t.Fatalf("minion action %+v, want attack-move", u.Action)
	}
	if u.Action.Dest != s.Layout().LaneMidpoint(sp.Team, sp.Lane) {
		t.Errorf("minion dest %v, want lane midpoint", u.Action.Dest)
	}
	if u.MidCrossed {
		t.Error("fresh minion must not have crossed mid")
	}
	if !u.Mobile() {
		t.Error("minions must be mobile")
	}
}

func TestWaveSpawnIndexStaysInBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := testConfig()
		cfg.WaveDelay = time.Duration(rapid.IntRange(1, 5000).Draw(t, "waveMs")) * time.Millisecond
		cfg.SpawnDelay = time.Duration(rapid.IntRange(1, 2000).Draw(t, "spawnMs")) * time.Millisecond
		cfg.WaveUnits = rapid.IntRange(0, 10).Draw(t, "units")
		w := NewWaveManager(cfg)

		steps := rapid.SliceOfN(rapid.IntRange(1, 3000), 1, 200).Draw(t, "stepsMs")
		for i, ms := range steps {
			w.Advance(time.Duration(ms) * time.Millisecond)
			if w.SpawnIndex < 0 || w.SpawnIndex > w.WaveUnits {
				t.Fatalf("step %d: spawn index %d out of [0, %d]", i, w.SpawnIndex, w.WaveUnits)
			}
		}
	})
}
