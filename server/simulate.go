package main

import (
	"fmt"
	"log"
	"time"
)

const localOwner = "local"

// HeadlessSummary is what a headless run reports when it ends
type HeadlessSummary struct {
	Ticks   uint64
	Waves   int
	Minions [2]int
	Units   int
}

func (s HeadlessSummary) String() string {
	return fmt.Sprintf("%d ticks, %d waves, %d units (red minions %d, blue minions %d)",
		s.Ticks, s.Waves, s.Units, s.Minions[TeamRed], s.Minions[TeamBlue])
}

// RunHeadless steps a fresh simulation for d of simulated time as fast as
// possible. One local advocate is placed on red and sent down mid.
func RunHeadless(cfg SimConfig, d time.Duration) (HeadlessSummary, error) {
	sim, err := NewSimulation(cfg)
	if err != nil {
		return HeadlessSummary{}, err
	}
	if _, err := sim.AddAdvocate(localOwner, "Local", TeamRed); err != nil {
		return HeadlessSummary{}, fmt.Errorf("place local advocate: %w", err)
	}
	if _, err := sim.PlayerUnit(localOwner); err != nil {
		return HeadlessSummary{}, err
	}
	sim.Enqueue(Command{
		Owner: localOwner,
		Kind:  CmdAttackMove,
		Point: sim.Layout().EnemyBase(TeamRed),
	})

	step := cfg.TickDuration()
	for elapsed := time.Duration(0); elapsed < d; elapsed += step {
		sim.Tick(step)
		for _, ev := range sim.DrainEvents() {
			if ev.Type == EventWaveStarted {
				log.Printf("tick %d: wave %d started", ev.Tick, ev.Wave)
			}
		}
	}

	return HeadlessSummary{
		Ticks:   sim.TickCount(),
		Waves:   sim.Waves().Wave,
		Minions: [2]int{sim.CountUnits(TeamRed, KindMinion), sim.CountUnits(TeamBlue, KindMinion)},
		Units:   len(sim.Units()),
	}, nil
}
