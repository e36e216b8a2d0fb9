package main

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnitNotFound   = errors.New("unit not found")
	ErrPlayerNotFound = errors.New("player unit not found")
)

// SimEventType classifies something the simulation reports to its host
type SimEventType int

const (
	EventWaveStarted  SimEventType = 0
	EventUnitsSpawned SimEventType = 1
)

// SimEvent is drained by the host after each tick for logging
type SimEvent struct {
	Type  SimEventType
	Tick  uint64
	Wave  int
	Count int
}

// Simulation is the whole deterministic game state. It is not safe for
// concurrent use; the owning Game serialises access.
type Simulation struct {
	cfg    SimConfig
	layout *MapLayout
	waves  WaveManager

	units  []*Unit // ascending ID order, which fixes the collision pass order
	byID   map[EntityID]*Unit
	owners map[string]EntityID
	nextID EntityID
	tick   uint64

	commands []Command
	events   []SimEvent
	grid     *SpatialGrid

	mobileBuf []*Unit
	queryBuf  []EntityID
}

// NewSimulation builds the map and places every persistent unit: cores,
// spawners and towers.
func NewSimulation(cfg SimConfig) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	layout := NewMapLayout(cfg)
	s := &Simulation{
		cfg:    cfg,
		layout: layout,
		waves:  NewWaveManager(cfg),
		byID:   make(map[EntityID]*Unit),
		owners: make(map[string]EntityID),
		nextID: 1,
		grid:   NewSpatialGrid(cfg.MapHalf, 4*cfg.UnitRadius),
	}

	for _, team := range Teams {
		s.addUnit(Unit{
			Kind:  KindCore,
			Team:  team,
			Pos:   layout.Base(team),
			HP:    cfg.CoreHP,
			MaxHP: cfg.CoreHP,
		})
	}
	for _, sp := range layout.Spawners {
		s.addUnit(Unit{
			Kind:   KindSpawner,
			Team:   sp.Team,
			Lane:   sp.Lane,
			Pos:    sp.Pos,
			Facing: sp.Facing,
		})
	}
	for _, tw := range layout.Towers {
		s.addUnit(Unit{
			Kind:   KindTower,
			Team:   tw.Team,
			Lane:   tw.Lane,
			Pos:    tw.Pos,
			Facing: layout.EnemyBase(tw.Team).Sub(tw.Pos).Angle(),
			HP:     cfg.TowerHP,
			MaxHP:  cfg.TowerHP,
		})
	}
	return s, nil
}

// Tick advances the simulation by one fixed step. The phase order matters:
// new minions get their first order before anything integrates, and
// collisions are resolved on the positions motion just produced.
func (s *Simulation) Tick(dt time.Duration) {
	s.tick++
	s.applyCommands()
	s.spawnPhase(dt)
	s.resolveActions()
	s.integrateMotion(dt)
	s.collisionPhase()
}

func (s *Simulation) addUnit(u Unit) *Unit {
	u.ID = s.nextID
	s.nextID++
	p := &u
	s.units = append(s.units, p)
	s.byID[p.ID] = p
	return p
}

// AddAdvocate places a player's avatar at their team's base. A player owns
// at most one advocate.
func (s *Simulation) AddAdvocate(owner, name string, team Team) (*Unit, error) {
	if !team.Valid() {
		return nil, fmt.Errorf("invalid team %d", int(team))
	}
	if _, ok := s.owners[owner]; ok {
		return nil, fmt.Errorf("player %s already has an advocate", owner)
	}
	u := s.addUnit(Unit{
		Kind:       KindAdvocate,
		Team:       team,
		Pos:        s.layout.Base(team),
		Facing:     s.layout.EnemyBase(team).Sub(s.layout.Base(team)).Angle(),
		Action:     Stop(OverrideNone),
		MoveSpeed:  s.cfg.AdvocateSpeed,
		MidCrossed: true,
		HP:         s.cfg.AdvocateHP,
		MaxHP:      s.cfg.AdvocateHP,
		Owner:      owner,
		Name:       name,
	})
	s.owners[owner] = u.ID
	return u, nil
}

// Despawn removes a unit. Units pursuing it stop on their next tick.
func (s *Simulation) Despawn(id EntityID) error {
	u, ok := s.byID[id]
	if !ok {
		return ErrUnitNotFound
	}
	delete(s.byID, id)
	if u.Owner != "" {
		delete(s.owners, u.Owner)
	}
	for i, v := range s.units {
		if v.ID == id {
			s.units = append(s.units[:i], s.units[i+1:]...)
			break
		}
	}
	return nil
}

// RemoveAdvocate despawns the avatar owned by a player
func (s *Simulation) RemoveAdvocate(owner string) error {
	u, err := s.PlayerUnit(owner)
	if err != nil {
		return err
	}
	return s.Despawn(u.ID)
}

// PlayerUnit returns the advocate owned by a player
func (s *Simulation) PlayerUnit(owner string) (*Unit, error) {
	id, ok := s.owners[owner]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, owner)
	}
	u, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, owner)
	}
	return u, nil
}

// Unit returns a unit by id
func (s *Simulation) Unit(id EntityID) (*Unit, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, ErrUnitNotFound
	}
	return u, nil
}

// Units returns the live units in ID order. Callers must not modify the slice.
func (s *Simulation) Units() []*Unit {
	return s.units
}

// CountUnits returns how many units of a kind a team has
func (s *Simulation) CountUnits(team Team, kind Kind) int {
	n := 0
	for _, u := range s.units {
		if u.Team == team && u.Kind == kind {
			n++
		}
	}
	return n
}

func (s *Simulation) Layout() *MapLayout  { return s.layout }
func (s *Simulation) Waves() *WaveManager { return &s.waves }
func (s *Simulation) Config() SimConfig   { return s.cfg }
func (s *Simulation) TickCount() uint64   { return s.tick }

func (s *Simulation) emit(e SimEvent) {
	e.Tick = s.tick
	s.events = append(s.events, e)
}

// DrainEvents returns and clears the events emitted since the last call
func (s *Simulation) DrainEvents() []SimEvent {
	out := s.events
	s.events = nil
	return out
}

// States projects every unit into its wire form
func (s *Simulation) States() []UnitState {
	out := make([]UnitState, 0, len(s.units))
	for _, u := range s.units {
		out = append(out, u.ToState())
	}
	return out
}

// WaveState projects the wave scheduler into its wire form
func (s *Simulation) WaveState() WaveState {
	return WaveState{
		Number:   s.waves.Wave,
		Spawning: s.waves.Spawning(),
		Index:    s.waves.SpawnIndex,
		NextIn:   round1(s.waves.NextWaveIn().Seconds()),
	}
}
