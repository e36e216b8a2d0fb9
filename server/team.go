package main

import "fmt"

// Team identifies a side. Fixed for the lifetime of a unit.
type Team int

const (
	TeamRed  Team = 0
	TeamBlue Team = 1
)

// Teams lists both sides in a stable order
var Teams = [...]Team{TeamRed, TeamBlue}

func (t Team) String() string {
	switch t {
	case TeamRed:
		return "red"
	case TeamBlue:
		return "blue"
	}
	return fmt.Sprintf("team(%d)", int(t))
}

// Opponent returns the other team
func (t Team) Opponent() Team {
	if t == TeamRed {
		return TeamBlue
	}
	return TeamRed
}

// Valid reports whether t is one of the two playable teams
func (t Team) Valid() bool {
	return t == TeamRed || t == TeamBlue
}

// Lane is one of the three routes between the bases
type Lane int

const (
	LaneTop Lane = 0
	LaneMid Lane = 1
	LaneBot Lane = 2
)

var Lanes = [...]Lane{LaneTop, LaneMid, LaneBot}

func (l Lane) String() string {
	switch l {
	case LaneTop:
		return "top"
	case LaneMid:
		return "mid"
	case LaneBot:
		return "bot"
	}
	return fmt.Sprintf("lane(%d)", int(l))
}

// Affine2 is a 2D linear map plus translation:
//
//	world = M * local + T
type Affine2 struct {
	A, B, C, D float64 // row-major [[A B] [C D]]
	T          Vec2
}

// Apply maps p through the transform
func (f Affine2) Apply(p Vec2) Vec2 {
	return Vec2{
		X: f.A*p.X + f.B*p.Y + f.T.X,
		Y: f.C*p.X + f.D*p.Y + f.T.Y,
	}
}

// Inverse returns the transform undoing f. f must be invertible; the team
// transforms are isometries so this always holds for them.
func (f Affine2) Inverse() Affine2 {
	det := f.A*f.D - f.B*f.C
	inv := Affine2{
		A: f.D / det,
		B: -f.B / det,
		C: -f.C / det,
		D: f.A / det,
	}
	// T' = -M^-1 * T
	inv.T = Vec2{
		X: -(inv.A*f.T.X + inv.B*f.T.Y),
		Y: -(inv.C*f.T.X + inv.D*f.T.Y),
	}
	return inv
}

// teamFrame holds one team's local-to-world transform and its inverse
type teamFrame struct {
	toWorld Affine2
	toLocal Affine2
}

// teamFrames builds the two fixed frames for a square map of the given half
// size. Red's base sits at (-half, -half) with no rotation. Blue's frame is
// Red's reflected across the anti-diagonal, so a table authored once for Red
// lands on the mirrored spots for Blue and "top" stays the same physical lane
// for both sides.
func teamFrames(half float64) [2]teamFrame {
	red := Affine2{A: 1, D: 1, T: V2(-half, -half)}
	blue := Affine2{B: -1, C: -1, T: V2(half, half)}
	return [2]teamFrame{
		TeamRed:  {toWorld: red, toLocal: red.Inverse()},
		TeamBlue: {toWorld: blue, toLocal: blue.Inverse()},
	}
}
