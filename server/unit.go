package main

// EntityID identifies a unit within one simulation. IDs are never reused.
type EntityID uint32

// Kind is the archetype of a unit
type Kind int

const (
	KindCore     Kind = 0
	KindSpawner  Kind = 1
	KindTower    Kind = 2
	KindAdvocate Kind = 3 // player avatar
	KindMinion   Kind = 4
)

func (k Kind) String() string {
	switch k {
	case KindCore:
		return "core"
	case KindSpawner:
		return "spawner"
	case KindTower:
		return "tower"
	case KindAdvocate:
		return "advocate"
	case KindMinion:
		return "minion"
	}
	return "unknown"
}

// ActionType tags the active variant of an Action
type ActionType int

const (
	ActionStop   ActionType = 0
	ActionMove   ActionType = 1
	ActionAttack ActionType = 2
)

func (a ActionType) String() string {
	switch a {
	case ActionStop:
		return "stop"
	case ActionMove:
		return "move"
	case ActionAttack:
		return "attack"
	}
	return "unknown"
}

// AttackOverride says whether a stopped or moving unit should engage enemies
// it comes across.
type AttackOverride int

const (
	OverrideNone   AttackOverride = 0
	OverrideAttack AttackOverride = 1
)

// AttackBehaviour is the phase of an attack: closing in or striking
type AttackBehaviour int

const (
	BehaviourPursue AttackBehaviour = 0
	BehaviourStrike AttackBehaviour = 1
)

// Action is the unit's current order. Only the fields of the active Type are
// meaningful: Override for Stop and Move, Dest for Move, Target and Behaviour
// for Attack.
type Action struct {
	Type      ActionType
	Dest      Vec2
	Override  AttackOverride
	Target    EntityID
	Behaviour AttackBehaviour
}

func Stop(o AttackOverride) Action {
	return Action{Type: ActionStop, Override: o}
}

func MoveTo(dest Vec2, o AttackOverride) Action {
	return Action{Type: ActionMove, Dest: dest, Override: o}
}

func AttackTarget(target EntityID, b AttackBehaviour) Action {
	return Action{Type: ActionAttack, Target: target, Behaviour: b}
}

// Unit is one entity on the map. Structures (cores, towers, spawners) have
// zero MoveSpeed and never leave their spot.
type Unit struct {
	ID         EntityID
	Kind       Kind
	Team       Team
	Lane       Lane // meaningful for spawners, towers and minions
	Pos        Vec2
	Facing     float64 // radians from +X
	Velocity   Vec2    // last integrated velocity
	Action     Action
	MoveSpeed  float64
	MidCrossed bool
	HP         int
	MaxHP      int
	Owner      string // player id, advocates only
	Name       string
}

// Mobile reports whether the unit takes part in motion and collision
func (u *Unit) Mobile() bool {
	return u.MoveSpeed > 0
}

// ToState converts to protocol state
func (u *Unit) ToState() UnitState {
	return UnitState{
		ID:     uint32(u.ID),
		Kind:   int(u.Kind),
		Team:   int(u.Team),
		Lane:   int(u.Lane),
		X:      round1(u.Pos.X),
		Y:      round1(u.Pos.Y),
		R:      round2(u.Facing),
		Action: int(u.Action.Type),
		HP:     u.HP,
		MaxHP:  u.MaxHP,
		Owner:  u.Owner,
		Name:   u.Name,
	}
}
