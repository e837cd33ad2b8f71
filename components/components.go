// Package components defines ECS components for the simulation.
package components

import (
	"image/color"
	"math"

	"github.com/pthm-cable/botsim/core"
	"github.com/pthm-cable/botsim/protocol"
	"github.com/pthm-cable/botsim/vmath"
)

// Identity is carried by every object. The id slot is written once at spawn.
type Identity struct {
	Slot core.IDSlot
	Kind core.Kind
	Born uint64 // Tick of creation
}

func (i *Identity) ID() core.ObjectID {
	id, _ := i.Slot.Get()
	return id
}

// Position is the object's world position. It is always inside the map.
type Position struct {
	vmath.Vec
}

// Membership records the grid cell that currently lists the object.
type Membership struct {
	Cell core.CellRef
}

// Bot holds the state of a policy-driven agent.
type Bot struct {
	Population string
	Policy     protocol.Policy

	Health vmath.Range
	Food   vmath.Range
	Vision float64
	Speed  float64
	Damage float64
	Color  color.RGBA

	RecentlyAttacked bool
	LastAction       protocol.Action
	LastActionOK     bool
}

// Radius grows with the stomach.
func (b *Bot) Radius() float64 { return BotRadius(b.Food.Max()) }

// Food is a calorie source that grows to its maximum, then decays away.
type Food struct {
	Calories   vmath.Range
	GrowthRate float64
	DecayRate  float64
	Mature     bool
}

func (f *Food) Radius() float64 { return FoodRadius(f.Calories.Value()) }

// Tree drops a ring of fruit every time its cooldown runs out.
type Tree struct {
	Fruits   int
	Cooldown vmath.Counter

	FruitMaxCalories float64
	FruitGrowthRate  float64
	FruitDecayRate   float64
	FruitDistance    float64
}

func (t *Tree) Radius() float64 { return TreeRadius(t.Fruits) }

// BotRadius is the disc whose area matches the food capacity.
func BotRadius(maxFood float64) float64 {
	return max(1, math.Ceil(math.Sqrt(maxFood/math.Pi)))
}

// FoodRadius is the disc whose area matches the calories held.
func FoodRadius(calories float64) float64 {
	return max(1, math.Ceil(math.Sqrt(max(0, calories)/math.Pi)))
}

func TreeRadius(fruits int) float64 {
	return float64(10 + 2*fruits)
}
