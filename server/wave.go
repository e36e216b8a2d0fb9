package main

import "time"

// WaveStep is what the wave scheduler decided during one tick
type WaveStep int

const (
	StepIdle        WaveStep = 0
	StepWaveStarted WaveStep = 1 // wave timer fired, spawning begins next cycles
	StepSpawn       WaveStep = 2 // spawn one unit at every spawner now
)

// WaveManager paces minion waves. The wave timer repeats forever. The spawn
// timer is paused between waves and runs only while a wave is being emitted,
// so at any time exactly one of them drives spawning.
type WaveManager struct {
	WaveTimer  Timer
	SpawnTimer Timer
	SpawnIndex int // units emitted per spawner in the current wave, in [0, WaveUnits]
	WaveUnits  int
	Wave       int // waves started so far
}

// NewWaveManager returns a manager waiting for its first wave
func NewWaveManager(cfg SimConfig) WaveManager {
	w := WaveManager{
		WaveTimer:  NewRepeatingTimer(cfg.WaveDelay),
		SpawnTimer: NewRepeatingTimer(cfg.SpawnDelay),
		WaveUnits:  cfg.WaveUnits,
	}
	w.SpawnTimer.Pause()
	return w
}

// Spawning reports whether a wave is currently being emitted
func (w *WaveManager) Spawning() bool {
	return !w.SpawnTimer.Paused()
}

// Advance moves both timers forward by dt and reports whether this tick
// starts a wave or emits a unit.
func (w *WaveManager) Advance(dt time.Duration) WaveStep {
	w.WaveTimer.Tick(dt)
	w.SpawnTimer.Tick(dt)

	if !w.Spawning() {
		if !w.WaveTimer.JustFinished() {
			return StepIdle
		}
		// The wave timer is periodic and rewinds itself; only the spawn side
		// needs arming here.
		w.SpawnTimer.Unpause()
		w.SpawnIndex = 0
		w.Wave++
		return StepWaveStarted
	}

	if w.SpawnIndex >= w.WaveUnits {
		w.finishWave()
		return StepIdle
	}
	if !w.SpawnTimer.JustFinished() {
		return StepIdle
	}
	w.SpawnIndex++
	if w.SpawnIndex >= w.WaveUnits {
		w.finishWave()
	}
	return StepSpawn
}

func (w *WaveManager) finishWave() {
	w.SpawnTimer.Pause()
	w.SpawnTimer.Reset()
	w.SpawnIndex = 0
}

// NextWaveIn returns the time until the wave timer fires again
func (w *WaveManager) NextWaveIn() time.Duration {
	return w.WaveTimer.Remaining()
}

// spawnPhase advances the wave scheduler and emits one minion per spawner
// when it asks for a spawn.
func (s *Simulation) spawnPhase(dt time.Duration) {
	switch s.waves.Advance(dt) {
	case StepWaveStarted:
		s.emit(SimEvent{Type: EventWaveStarted, Wave: s.waves.Wave})
	case StepSpawn:
		for _, sp := range s.layout.Spawners {
			s.spawnMinion(sp)
		}
		s.emit(SimEvent{Type: EventUnitsSpawned, Wave: s.waves.Wave, Count: len(s.layout.Spawners)})
	}
}

// spawnMinion places a new minion on a spawner, already marching on its
// lane midpoint.
func (s *Simulation) spawnMinion(sp SpawnerDef) *Unit {
	u := s.addUnit(Unit{
		Kind:      KindMinion,
		Team:      sp.Team,
		Lane:      sp.Lane,
		Pos:       sp.Pos,
		Facing:    sp.Facing,
		Action:    MoveTo(s.layout.LaneMidpoint(sp.Team, sp.Lane), OverrideAttack),
		MoveSpeed: s.cfg.MinionSpeed,
		HP:        s.cfg.MinionHP,
		MaxHP:     s.cfg.MinionHP,
	})
	return u
}
