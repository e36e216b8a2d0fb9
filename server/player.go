package main

// Player is a connected human in a session. The simulation only knows the
// player's advocate unit; everything about the connection lives here.
type Player struct {
	ID           string
	Name         string
	Team         Team
	UnitID       EntityID
	AuthPlayerID int64 // 0 = guest
	Camera       *CameraRig
	Commands     int // accepted this session
}

// NewPlayer creates a player record for a freshly placed advocate
func NewPlayer(id, name string, team Team, unit EntityID) *Player {
	return &Player{
		ID:     id,
		Name:   name,
		Team:   team,
		UnitID: unit,
	}
}

// ResolvePoint turns a command's coordinates into a world point, projecting
// through the player's camera when the command is in screen space.
func (p *Player) ResolvePoint(msg CommandMsg) (Vec2, bool) {
	pt := V2(msg.X, msg.Y)
	if !msg.Screen {
		return pt, true
	}
	if p.Camera == nil {
		return Vec2{}, false
	}
	return p.Camera.Project(pt)
}

// assignTeam auto-balances a new player to the smaller team, red on ties
func assignTeam(players map[string]*Player) Team {
	red, blue := 0, 0
	for _, p := range players {
		if p.Team == TeamRed {
			red++
		} else {
			blue++
		}
	}
	if red <= blue {
		return TeamRed
	}
	return TeamBlue
}
