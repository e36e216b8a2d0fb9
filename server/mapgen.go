package main

import "math"

// SpawnerDef is a static lane spawner, placed once when the map is built
type SpawnerDef struct {
	Pos    Vec2
	Team   Team
	Lane   Lane
	Facing float64 // toward the opposing base
}

// TowerDef is a static lane tower
type TowerDef struct {
	Pos  Vec2
	Team Team
	Lane Lane
}

// MapLayout is the precomputed geometry of the map. Everything is authored
// in Red's local frame, where the own base is the origin and the map extends
// along +X and +Y, then mirrored into world space for both teams.
type MapLayout struct {
	Half     float64
	frames   [2]teamFrame
	bases    [2]Vec2
	mids     [2][3]Vec2 // [team][lane] world midpoint of each lane
	Spawners []SpawnerDef
	Towers   []TowerDef
}

// NewMapLayout builds the layout for cfg. It is called once per simulation.
func NewMapLayout(cfg SimConfig) *MapLayout {
	m := &MapLayout{
		Half:   cfg.MapHalf,
		frames: teamFrames(cfg.MapHalf),
	}
	side := 2 * cfg.MapHalf

	// Lane corners in the local frame: top runs up the Y axis first, bot runs
	// along the X axis first, mid cuts the diagonal.
	localMid := [3]Vec2{
		LaneTop: V2(0, side),
		LaneMid: V2(cfg.MapHalf, cfg.MapHalf),
		LaneBot: V2(side, 0),
	}
	diag := 1 / math.Sqrt2
	localDir := [3]Vec2{
		LaneTop: V2(0, 1),
		LaneMid: V2(diag, diag),
		LaneBot: V2(1, 0),
	}

	for _, team := range Teams {
		m.bases[team] = m.Reframe(Vec2{}, team, true)
		for _, lane := range Lanes {
			m.mids[team][lane] = m.Reframe(localMid[lane], team, true)
		}
	}

	for _, team := range Teams {
		enemyBase := m.bases[team.Opponent()]
		for _, lane := range Lanes {
			pos := m.Reframe(localDir[lane].Scale(cfg.SpawnerOffset), team, true)
			m.Spawners = append(m.Spawners, SpawnerDef{
				Pos:    pos,
				Team:   team,
				Lane:   lane,
				Facing: enemyBase.Sub(pos).Angle(),
			})
		}
	}

	for _, team := range Teams {
		for _, lane := range Lanes {
			for _, p := range towerZigZag(cfg, localDir[lane]) {
				m.Towers = append(m.Towers, TowerDef{
					Pos:  m.Reframe(p, team, true),
					Team: team,
					Lane: lane,
				})
			}
		}
	}
	return m
}

// towerZigZag places towers along a lane's first leg, alternating to either
// side of the lane line, starting beyond the spawner.
func towerZigZag(cfg SimConfig, dir Vec2) []Vec2 {
	side := V2(-dir.Y, dir.X)
	out := make([]Vec2, 0, cfg.TowersPerLane)
	for i := 0; i < cfg.TowersPerLane; i++ {
		along := cfg.SpawnerOffset + float64(i+1)*cfg.TowerSpacing
		offset := cfg.TowerZigZag
		if i%2 == 1 {
			offset = -offset
		}
		out = append(out, dir.Scale(along).Add(side.Scale(offset)))
	}
	return out
}

// Reframe maps pos between a team's local frame and world space
func (m *MapLayout) Reframe(pos Vec2, team Team, toGlobal bool) Vec2 {
	f := m.frames[team]
	if toGlobal {
		return f.toWorld.Apply(pos)
	}
	return f.toLocal.Apply(pos)
}

// Base returns the world position of a team's base
func (m *MapLayout) Base(team Team) Vec2 {
	return m.bases[team]
}

// EnemyBase returns the base a team's minions march on
func (m *MapLayout) EnemyBase(team Team) Vec2 {
	return m.bases[team.Opponent()]
}

// LaneMidpoint returns the world position where a lane turns toward the
// enemy base
func (m *MapLayout) LaneMidpoint(team Team, lane Lane) Vec2 {
	return m.mids[team][lane]
}
