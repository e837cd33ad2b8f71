// Package protocol is the boundary between the simulation and bot policies.
// Policies see only value copies of world state and answer with a Decision.
package protocol

import (
	"image/color"

	"github.com/pthm-cable/botsim/core"
	"github.com/pthm-cable/botsim/vmath"
)

// Shadow is a point-in-time copy of an object's visible state.
type Shadow interface {
	Base() ObjectShadow
}

// ObjectShadow carries the fields every kind exposes.
type ObjectShadow struct {
	ID     core.ObjectID
	Kind   core.Kind
	Pos    vmath.Vec
	Radius float64
}

func (s ObjectShadow) Base() ObjectShadow { return s }

type BotShadow struct {
	ObjectShadow
	Population       string
	Health           float64
	MaxHealth        float64
	Food             float64
	MaxFood          float64
	Vision           float64
	Speed            float64
	Damage           float64
	RecentlyAttacked bool
	Color            color.RGBA
}

type FoodShadow struct {
	ObjectShadow
	Calories    float64
	MaxCalories float64
	Growing     bool
	Decaying    bool
}

type TreeShadow struct {
	ObjectShadow
	Fruits      int
	Cooldown    int
	MaxCooldown int
}

// Nearest is the closest member of one perception partition.
// Object is nil and Distance is -1 when nothing of that kind was seen.
type Nearest[T any] struct {
	Object   *T
	Distance float64
}

// None returns the empty partition result.
func None[T any]() Nearest[T] { return Nearest[T]{Distance: -1} }

// Found reports whether the partition had a member.
func (n Nearest[T]) Found() bool { return n.Object != nil }

// Perception is everything a bot learns about the world in one tick.
type Perception struct {
	Tick    uint64
	Self    BotShadow
	Visible []Shadow

	NearestFood  Nearest[FoodShadow]
	NearestTree  Nearest[TreeShadow]
	NearestBot   Nearest[BotShadow]
	NearestKin   Nearest[BotShadow]
	NearestEnemy Nearest[BotShadow]

	// Outcome of the previous tick's decision.
	LastAction   Action
	LastActionOK bool
}
