package protocol

import (
	"fmt"

	"github.com/pthm-cable/botsim/core"
	"github.com/pthm-cable/botsim/vmath"
)

// Action tags the active variant of a Decision.
type Action uint8

const (
	ActionIdle Action = iota
	ActionMove
	ActionGoTo
	ActionEatNearest
	ActionEatByID
	ActionAttackNearest
	ActionAttackByID
	ActionSpawn
	ActionSuicide
)

var actionNames = [...]string{
	ActionIdle:          "idle",
	ActionMove:          "move",
	ActionGoTo:          "goto",
	ActionEatNearest:    "eat_nearest",
	ActionEatByID:       "eat_by_id",
	ActionAttackNearest: "attack_nearest",
	ActionAttackByID:    "attack_by_id",
	ActionSpawn:         "spawn",
	ActionSuicide:       "suicide",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

// Decision is what a policy asks its bot to do this tick.
// Only the fields belonging to Action are read. The zero value is Idle.
type Decision struct {
	Action Action

	Direction     vmath.Vec // Move
	SpeedFraction float64   // Move
	Target        vmath.Vec // GoTo

	TargetID       core.ObjectID // EatByID, AttackByID
	IncludeOwnKind bool          // AttackNearest, AttackByID

	Policy string // Spawn; empty means the parent's policy
	Points int    // Spawn; zero means the configured default
}

func Idle() Decision { return Decision{} }

func Move(dir vmath.Vec, speedFraction float64) Decision {
	return Decision{Action: ActionMove, Direction: dir, SpeedFraction: speedFraction}
}

func GoTo(p vmath.Vec) Decision {
	return Decision{Action: ActionGoTo, Target: p}
}

func EatNearest() Decision { return Decision{Action: ActionEatNearest} }

func EatByID(id core.ObjectID) Decision {
	return Decision{Action: ActionEatByID, TargetID: id}
}

func AttackNearest(includeOwnKind bool) Decision {
	return Decision{Action: ActionAttackNearest, IncludeOwnKind: includeOwnKind}
}

func AttackByID(includeOwnKind bool, id core.ObjectID) Decision {
	return Decision{Action: ActionAttackByID, IncludeOwnKind: includeOwnKind, TargetID: id}
}

func Spawn(policy string, points int) Decision {
	return Decision{Action: ActionSpawn, Policy: policy, Points: points}
}

func Suicide() Decision { return Decision{Action: ActionSuicide} }
