package main

// CheckCollision checks if two circles overlap
func CheckCollision(x1, y1, r1, x2, y2, r2 float64) bool {
	dx := x2 - x1
	dy := y2 - y1
	dist2 := dx*dx + dy*dy
	radSum := r1 + r2
	return dist2 <= radSum*radSum
}

// separationAxis is used when two units sit on exactly the same point and
// the line between their centres has no direction.
var separationAxis = V2(1, 0)

// ResolveCollisions pushes apart every overlapping pair of units, each by
// half the penetration depth along the line between their centres. It is a
// single pass over all pairs: dense clusters may keep some residual overlap
// until later ticks.
func ResolveCollisions(units []*Unit, radius float64) {
	minDist := 2 * radius
	for i := 0; i < len(units); i++ {
		for j := i + 1; j < len(units); j++ {
			separatePair(units[i], units[j], minDist)
		}
	}
}

// separatePair returns true if the pair overlapped and was moved
func separatePair(a, b *Unit, minDist float64) bool {
	if !CheckCollision(a.Pos.X, a.Pos.Y, minDist/2, b.Pos.X, b.Pos.Y, minDist/2) {
		return false
	}
	d := b.Pos.Sub(a.Pos)
	depth := minDist - d.Len()
	if depth <= 0 {
		return false
	}
	axis, ok := d.TryNormalize()
	if !ok {
		axis = separationAxis
	}
	push := axis.Scale(depth / 2)
	a.Pos = a.Pos.Sub(push)
	b.Pos = b.Pos.Add(push)
	return true
}

// collisionPhase resolves overlaps among mobile units. Structures are fixed
// in place and take no part.
func (s *Simulation) collisionPhase() {
	s.mobileBuf = s.mobileBuf[:0]
	for _, u := range s.units {
		if u.Mobile() {
			s.mobileBuf = append(s.mobileBuf, u)
		}
	}
	ResolveCollisions(s.mobileBuf, s.cfg.UnitRadius)
}
