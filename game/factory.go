package game

import (
	"fmt"
	"image/color"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/botsim/components"
	"github.com/pthm-cable/botsim/core"
	"github.com/pthm-cable/botsim/protocol"
	"github.com/pthm-cable/botsim/vmath"
)

// EntitySpec describes an object to create. It is one of BotSpec, FoodSpec
// or TreeSpec.
type EntitySpec interface {
	Kind() core.Kind
	Position() vmath.Vec
}

// BotSpec creates a policy-driven bot.
type BotSpec struct {
	Population string
	Pos        vmath.Vec
	// Points granted to the policy. Zero uses the configured total.
	Points int
	// Policy overrides the registry lookup for Population.
	Policy protocol.Policy
	// Starting fractions of max health and food. Zero uses the configured value.
	HealthFraction float64
	FoodFraction   float64
}

// FoodSpec creates a food item.
type FoodSpec struct {
	Pos         vmath.Vec
	MaxCalories float64
	Calories    float64
	GrowthRate  float64
	DecayRate   float64
	Mature      bool
}

// TreeSpec creates a fruit tree.
type TreeSpec struct {
	Pos      vmath.Vec
	Fruits   int
	Cooldown int // Ticks between drops
	Delay    int // Ticks before the first drop

	FruitMaxCalories float64
	FruitGrowthRate  float64
	FruitDecayRate   float64
	FruitDistance    float64
}

func (BotSpec) Kind() core.Kind { return core.KindBot }
func (FoodSpec) Kind() core.Kind { return core.KindFood }
func (TreeSpec) Kind() core.Kind { return core.KindTree }

func (b BotSpec) Position() vmath.Vec { return b.Pos }
func (f FoodSpec) Position() vmath.Vec { return f.Pos }
func (t TreeSpec) Position() vmath.Vec { return t.Pos }

// Spawn places a new object in the grid and the registry in one step and
// returns its id. It fails with core.ErrOutOfBounds for positions off the map,
// core.ErrNoCell when no cell owns the position, and for bots with
// core.ErrUnknownPolicy or core.ErrOverAllocated when the policy is unusable.
func (s *Simulation) Spawn(spec EntitySpec) (core.ObjectID, error) {
	p := spec.Position()
	if !s.grid.InBounds(p) {
		return 0, fmt.Errorf("spawning %s at (%g, %g): %w", spec.Kind(), p.X, p.Y, core.ErrOutOfBounds)
	}
	ref, ok := s.grid.CellAt(p)
	if !ok {
		return 0, fmt.Errorf("spawning %s at (%g, %g): %w", spec.Kind(), p.X, p.Y, core.ErrNoCell)
	}

	switch sp := spec.(type) {
	case BotSpec:
		return s.spawnBot(sp, ref)
	case FoodSpec:
		return s.spawnFood(sp, ref)
	case TreeSpec:
		return s.spawnTree(sp, ref)
	default:
		return 0, fmt.Errorf("spawning %T: unsupported spec", spec)
	}
}

func (s *Simulation) nextIdentity(kind core.Kind) (components.Identity, core.ObjectID, error) {
	id, err := s.ids.Next()
	if err != nil {
		return components.Identity{}, 0, err
	}
	ident := components.Identity{Kind: kind, Born: s.tick}
	if err := ident.Slot.Set(id); err != nil {
		s.invariant(err)
	}
	return ident, id, nil
}

// commit registers a freshly created entity.
func (s *Simulation) commit(id core.ObjectID, e ecs.Entity, ref core.CellRef, radius float64) {
	if !s.grid.Insert(id, ref) {
		s.invariant(fmt.Errorf("inserting %d into cell %d: %w", id, ref, core.ErrIDReassigned))
	}
	s.entities[id] = e
	s.order = append(s.order, id)
	s.maxRadius = max(s.maxRadius, radius)
}

func (s *Simulation) spawnBot(spec BotSpec, ref core.CellRef) (core.ObjectID, error) {
	policy := spec.Policy
	if policy == nil {
		var err error
		if policy, err = s.registry.New(spec.Population); err != nil {
			return 0, fmt.Errorf("spawning bot: %w", err)
		}
	}

	points := spec.Points
	if points <= 0 {
		points = s.cfg.Points.Total
	}
	ident, id, err := s.nextIdentity(core.KindBot)
	if err != nil {
		return 0, fmt.Errorf("spawning bot: %w", err)
	}

	stats := s.population(spec.Population)
	alloc, err := callBirth(policy, protocol.InitContext{
		ID:         id,
		Population: spec.Population,
		Pos:        spec.Pos,
		Points:     points,
		Tick:       s.tick,
		Stats:      *stats,
	})
	if err != nil {
		return 0, fmt.Errorf("spawning %s bot: %w", spec.Population, err)
	}
	alloc = alloc.Clamped()
	if alloc.Total() > points {
		return 0, fmt.Errorf("spawning %s bot: spent %d of %d points: %w",
			spec.Population, alloc.Total(), points, core.ErrOverAllocated)
	}

	healthFrac := spec.HealthFraction
	if healthFrac <= 0 {
		healthFrac = s.cfg.Bot.InitialHealth
	}
	foodFrac := spec.FoodFraction
	if foodFrac <= 0 {
		foodFrac = s.cfg.Bot.InitialFood
	}
	healthFrac = min(healthFrac, 1)
	foodFrac = min(foodFrac, 1)

	pts := s.cfg.Points
	maxHealth := float64(alloc.Health) * pts.HealthPerPoint
	maxFood := float64(alloc.Food) * pts.FoodPerPoint

	bot := components.Bot{
		Population:   spec.Population,
		Policy:       policy,
		Health:       vmath.MustRange(maxHealth*healthFrac, 0, maxHealth),
		Food:         vmath.MustRange(maxFood*foodFrac, 0, maxFood),
		Vision:       min(float64(alloc.Vision)*pts.VisionPerPoint, s.cfg.Derived.MaxVision),
		Speed:        float64(alloc.Speed) * pts.SpeedPerPoint,
		Damage:       float64(alloc.Attack) * pts.DamagePerPoint,
		Color:        color.RGBA{R: alloc.Color.R, G: alloc.Color.G, B: alloc.Color.B, A: 255},
		LastActionOK: true,
	}
	pos := components.Position{Vec: spec.Pos}
	mem := components.Membership{Cell: ref}

	e := s.botMapper.NewEntity(&ident, &pos, &mem, &bot)
	s.commit(id, e, ref, bot.Radius())

	stats.Alive++
	stats.Born++
	s.collector.RecordBirth()
	if s.cfg.Telemetry.LogEvents {
		slog.Info("bot_born", "id", id, "population", spec.Population, "tick", s.tick, "x", spec.Pos.X, "y", spec.Pos.Y)
	}
	return id, nil
}

func (s *Simulation) spawnFood(spec FoodSpec, ref core.CellRef) (core.ObjectID, error) {
	ident, id, err := s.nextIdentity(core.KindFood)
	if err != nil {
		return 0, fmt.Errorf("spawning food: %w", err)
	}
	maxCal := max(spec.MaxCalories, 0)
	food := components.Food{
		Calories:   vmath.MustRange(spec.Calories, 0, maxCal),
		GrowthRate: spec.GrowthRate,
		DecayRate:  spec.DecayRate,
		Mature:     spec.Mature,
	}
	pos := components.Position{Vec: spec.Pos}
	mem := components.Membership{Cell: ref}

	e := s.foodMapper.NewEntity(&ident, &pos, &mem, &food)
	s.commit(id, e, ref, components.FoodRadius(maxCal))
	return id, nil
}

func (s *Simulation) spawnTree(spec TreeSpec, ref core.CellRef) (core.ObjectID, error) {
	ident, id, err := s.nextIdentity(core.KindTree)
	if err != nil {
		return 0, fmt.Errorf("spawning tree: %w", err)
	}
	tree := components.Tree{
		Fruits:           max(spec.Fruits, 0),
		Cooldown:         vmath.NewCounter(spec.Cooldown),
		FruitMaxCalories: spec.FruitMaxCalories,
		FruitGrowthRate:  spec.FruitGrowthRate,
		FruitDecayRate:   spec.FruitDecayRate,
		FruitDistance:    spec.FruitDistance,
	}
	tree.Cooldown.Reset(spec.Delay)
	pos := components.Position{Vec: spec.Pos}
	mem := components.Membership{Cell: ref}

	e := s.treeMapper.NewEntity(&ident, &pos, &mem, &tree)
	s.commit(id, e, ref, tree.Radius())
	return id, nil
}

// DefaultFood returns a food spec at p using the configured defaults.
func (s *Simulation) DefaultFood(p vmath.Vec) FoodSpec {
	fc := s.cfg.Food
	return FoodSpec{
		Pos:         p,
		MaxCalories: fc.MaxCalories,
		Calories:    fc.InitialCalories,
		GrowthRate:  fc.GrowthRate,
		DecayRate:   fc.DecayRate,
	}
}

// DefaultTree returns a tree spec at p using the configured defaults.
func (s *Simulation) DefaultTree(p vmath.Vec, fruits int) TreeSpec {
	tc := s.cfg.Tree
	return TreeSpec{
		Pos:              p,
		Fruits:           fruits,
		Cooldown:         tc.Cooldown,
		Delay:            tc.Cooldown,
		FruitMaxCalories: tc.FruitMaxCalories,
		FruitGrowthRate:  tc.FruitGrowthRate,
		FruitDecayRate:   tc.FruitDecayRate,
		FruitDistance:    tc.FruitDistance,
	}
}

func (s *Simulation) population(name string) *protocol.PopulationStats {
	st, ok := s.populations[name]
	if !ok {
		st = &protocol.PopulationStats{}
		s.populations[name] = st
	}
	return st
}

// callBirth runs OnBirth, turning a policy panic into an error.
func callBirth(p protocol.Policy, ctx protocol.InitContext) (alloc protocol.Allocation, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("policy OnBirth: %v", r)
		}
	}()
	return p.OnBirth(ctx), nil
}
