package main

// resolveActions runs the per-unit action state machine once. Transitions
// are local to each unit; a unit never reads another unit's action.
func (s *Simulation) resolveActions() {
	for _, u := range s.units {
		s.resolveAction(u)
	}
}

func (s *Simulation) resolveAction(u *Unit) {
	switch u.Action.Type {
	case ActionStop:
		// Terminal until a command arrives.
	case ActionMove:
		if u.Pos.Dist(u.Action.Dest) > s.cfg.UnitRadius {
			return
		}
		if u.MidCrossed {
			u.Action = Stop(u.Action.Override)
			return
		}
		// Second leg: the lane midpoint is reached, march on the enemy base.
		u.MidCrossed = true
		u.Action.Dest = s.layout.EnemyBase(u.Team)
	case ActionAttack:
		if _, ok := s.byID[u.Action.Target]; !ok {
			u.Action = Stop(OverrideNone)
			return
		}
		switch u.Action.Behaviour {
		case BehaviourPursue:
			// TODO: switch to BehaviourStrike once attack range exists
		case BehaviourStrike:
			// TODO: fall back to BehaviourPursue when the target leaves range
		}
	}
}
