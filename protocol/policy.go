package protocol

import (
	"fmt"
	"image/color"
	"maps"
	"slices"

	"github.com/pthm-cable/botsim/core"
	"github.com/pthm-cable/botsim/vmath"
)

// Policy drives one bot. The simulation calls OnBirth once, OnTick every
// tick the bot is alive, and OnDeath once after the bot is removed.
type Policy interface {
	OnBirth(ctx InitContext) Allocation
	OnTick(p Perception) Decision
	OnDeath(ctx KillContext) Ack
}

// PopulationStats are the per-population counters the simulation keeps.
type PopulationStats struct {
	Alive int
	Born  int
	Died  int
}

type InitContext struct {
	ID         core.ObjectID
	Population string
	Pos        vmath.Vec
	Points     int
	Tick       uint64
	Stats      PopulationStats
}

// Allocation distributes evolution points across stats.
// Negative entries count as zero.
type Allocation struct {
	Health int
	Food   int
	Vision int
	Speed  int
	Attack int
	Color  color.RGBA
}

// Total returns the points the allocation spends.
func (a Allocation) Total() int {
	return max(0, a.Health) + max(0, a.Food) + max(0, a.Vision) + max(0, a.Speed) + max(0, a.Attack)
}

// Clamped returns a copy with negative entries raised to zero.
func (a Allocation) Clamped() Allocation {
	a.Health = max(0, a.Health)
	a.Food = max(0, a.Food)
	a.Vision = max(0, a.Vision)
	a.Speed = max(0, a.Speed)
	a.Attack = max(0, a.Attack)
	return a
}

type KillContext struct {
	ID         core.ObjectID
	Population string
	Tick       uint64
	Age        uint64
	Suicide    bool
	Stats      PopulationStats
}

type Ack struct {
	Note string
}

// Factory builds a fresh policy instance for one bot.
type Factory func() Policy

// Registry maps population names to policy factories.
type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory. Registering a name twice is an error.
func (r *Registry) Register(name string, f Factory) error {
	if name == "" || f == nil {
		return fmt.Errorf("registering policy %q: empty name or nil factory", name)
	}
	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("registering policy %q: already registered", name)
	}
	r.factories[name] = f
	return nil
}

// New builds a policy by name.
func (r *Registry) New(name string) (Policy, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("policy %q: %w", name, core.ErrUnknownPolicy)
	}
	return f(), nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.factories[name]
	return ok
}

// Names returns registered names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.factories))
}
