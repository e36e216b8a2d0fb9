package main

import "log"

// CommandKind is a player order
type CommandKind int

const (
	CmdMove       CommandKind = 0
	CmdAttackMove CommandKind = 1
	CmdAttack     CommandKind = 2
	CmdStop       CommandKind = 3
)

var commandNames = map[string]CommandKind{
	"move":        CmdMove,
	"attack_move": CmdAttackMove,
	"attack":      CmdAttack,
	"stop":        CmdStop,
}

// ParseCommandKind maps a wire name to a CommandKind
func ParseCommandKind(name string) (CommandKind, bool) {
	k, ok := commandNames[name]
	return k, ok
}

func (k CommandKind) String() string {
	for name, v := range commandNames {
		if v == k {
			return name
		}
	}
	return "unknown"
}

// Command is one order from a player for their advocate. Point is in world
// coordinates; screen points are projected before they get here.
type Command struct {
	Owner string
	Kind  CommandKind
	Point Vec2
}

// Enqueue queues a command for the start of the next tick. Each owner has at
// most one pending command; a newer one replaces it.
func (s *Simulation) Enqueue(cmd Command) {
	for i := range s.commands {
		if s.commands[i].Owner == cmd.Owner {
			s.commands[i] = cmd
			return
		}
	}
	s.commands = append(s.commands, cmd)
}

// PendingCommands returns the number of queued commands
func (s *Simulation) PendingCommands() int {
	return len(s.commands)
}

// applyCommands applies every queued command and empties the queue.
// Commands for a player without an advocate are dropped.
func (s *Simulation) applyCommands() {
	for _, cmd := range s.commands {
		u, err := s.PlayerUnit(cmd.Owner)
		if err != nil {
			log.Printf("sim: dropping %s command: %v", cmd.Kind, err)
			continue
		}
		s.applyCommand(u, cmd)
	}
	s.commands = s.commands[:0]
}

func (s *Simulation) applyCommand(u *Unit, cmd Command) {
	switch cmd.Kind {
	case CmdStop:
		u.Action = Stop(OverrideNone)
	case CmdMove:
		u.Action = MoveTo(cmd.Point, OverrideNone)
		u.MidCrossed = true // a direct order has no second leg
	case CmdAttackMove:
		u.Action = MoveTo(cmd.Point, OverrideAttack)
		u.MidCrossed = true
	case CmdAttack:
		if target, ok := s.EnemyAt(cmd.Point, u.Team); ok {
			u.Action = AttackTarget(target.ID, BehaviourPursue)
			return
		}
		// Nothing under the cursor: attack-move there instead.
		u.Action = MoveTo(cmd.Point, OverrideAttack)
		u.MidCrossed = true
	}
}
