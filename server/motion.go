package main

import "time"

// integrateMotion turns each mobile unit's action into a velocity and moves
// it by one step.
func (s *Simulation) integrateMotion(dt time.Duration) {
	secs := dt.Seconds()
	for _, u := range s.units {
		if !u.Mobile() {
			continue
		}
		u.Velocity = s.velocityFor(u, secs)
		u.Pos = u.Pos.Add(u.Velocity.Scale(secs))
		// A stationary unit keeps whatever heading it had.
		if !u.Velocity.IsZero() {
			u.Facing = u.Velocity.Angle()
		}
	}
}

// velocityFor returns the velocity a unit's action asks for this step
func (s *Simulation) velocityFor(u *Unit, secs float64) Vec2 {
	switch u.Action.Type {
	case ActionMove:
		// Below MoveSpeed on the final step only, so the unit lands on Dest.
		return seek(u.Pos, u.Action.Dest, u.MoveSpeed, secs)
	case ActionAttack:
		if u.Action.Behaviour != BehaviourPursue {
			return Vec2{}
		}
		// Read the target every step so pursuit follows it.
		target, ok := s.byID[u.Action.Target]
		if !ok {
			return Vec2{}
		}
		return seek(u.Pos, target.Pos, u.MoveSpeed, secs)
	}
	return Vec2{}
}

// seek returns a velocity of magnitude speed from pos toward dest. The step
// is shortened so a unit lands on dest instead of overshooting it, and is
// zero when pos already sits on dest.
func seek(pos, dest Vec2, speed, secs float64) Vec2 {
	delta := dest.Sub(pos)
	dir, ok := delta.TryNormalize()
	if !ok {
		return Vec2{}
	}
	if secs > 0 {
		if d := delta.Len(); speed*secs > d {
			speed = d / secs
		}
	}
	return dir.Scale(speed)
}
