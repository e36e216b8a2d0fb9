package main

import (
	"fmt"
	"time"
)

// SimConfig holds the tunables of one simulation. It is read once when the
// simulation is built; there is no way to change it on a running session.
type SimConfig struct {
	TickRate int // fixed simulation steps per second

	WaveDelay  time.Duration // period of the wave timer
	SpawnDelay time.Duration // gap between the units of one wave
	WaveUnits  int           // units per spawner per wave

	UnitRadius    float64
	MinionSpeed   float64 // world units per second
	AdvocateSpeed float64

	MapHalf       float64 // the map spans [-MapHalf, MapHalf] on both axes
	SpawnerOffset float64 // distance from base to each lane spawner
	TowersPerLane int
	TowerSpacing  float64 // distance between towers along a lane
	TowerZigZag   float64 // sideways offset alternating between towers

	MinionHP   int
	AdvocateHP int
	TowerHP    int
	CoreHP     int
}

// DefaultSimConfig returns the stock lane configuration
func DefaultSimConfig() SimConfig {
	return SimConfig{
		TickRate:      30,
		WaveDelay:     20 * time.Second,
		SpawnDelay:    1 * time.Second,
		WaveUnits:     6,
		UnitRadius:    18.5,
		MinionSpeed:   90,
		AdvocateSpeed: 140,
		MapHalf:       1000,
		SpawnerOffset: 150,
		TowersPerLane: 3,
		TowerSpacing:  260,
		TowerZigZag:   60,
		MinionHP:      300,
		AdvocateHP:    600,
		TowerHP:       1500,
		CoreHP:        3000,
	}
}

// TickDuration is the fixed step length
func (c SimConfig) TickDuration() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// Validate rejects configurations the simulation cannot run with
func (c SimConfig) Validate() error {
	switch {
	case c.TickRate <= 0:
		return fmt.Errorf("tick rate must be positive, got %d", c.TickRate)
	case c.WaveDelay <= 0 || c.SpawnDelay <= 0:
		return fmt.Errorf("wave and spawn delays must be positive")
	case c.WaveUnits < 0:
		return fmt.Errorf("wave units must not be negative, got %d", c.WaveUnits)
	case c.UnitRadius <= 0:
		return fmt.Errorf("unit radius must be positive, got %v", c.UnitRadius)
	case c.MapHalf <= c.SpawnerOffset:
		return fmt.Errorf("map half size %v must exceed spawner offset %v", c.MapHalf, c.SpawnerOffset)
	}
	return nil
}
