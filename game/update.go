package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/botsim/core"
	"github.com/pthm-cable/botsim/protocol"
	"github.com/pthm-cable/botsim/systems"
	"github.com/pthm-cable/botsim/vmath"
)

// updateBot runs metabolism, then asks the policy for a decision and resolves it.
// A bot whose health hits zero during this update still acts this tick; it is
// queued for removal at the start of its next update.
func (s *Simulation) updateBot(id core.ObjectID, e ecs.Entity) {
	bc := s.cfg.Bot
	bot := s.botMap.Get(e)
	if bot.Health.IsMin() {
		s.RequestDestroy(id)
		return
	}
	cell := s.grid.Cell(s.cellMap.Get(e).Cell)

	if bot.Health.Value() < bot.Health.Max() && bot.Food.Value() >= bot.Food.Max()/2 {
		bot.Health.Increase(bc.HealRate)
		bot.Food.Decrease(bc.HealCost)
	}
	bot.Food.Decrease(bc.Metabolism * cell.HungerMultiplier.Value())
	if bot.Food.IsMin() {
		bot.Health.Decrease(bc.StarveDamage)
	}

	self := s.botShadow(id, e)
	p := systems.Perceive(s.grid, s, self, systems.VisionFor(bot.Vision, cell, s.cfg.Derived.MaxVision))
	p.Tick = s.tick
	p.LastAction, p.LastActionOK = bot.LastAction, bot.LastActionOK
	bot.RecentlyAttacked = false

	d := callTick(bot.Policy, p, id)
	ok := s.resolve(id, e, d)

	bot = s.botMap.Get(e)
	bot.LastAction, bot.LastActionOK = d.Action, ok
}

// updateFood grows immature food to its maximum, then decays it away.
func (s *Simulation) updateFood(id core.ObjectID, e ecs.Entity) {
	f := s.foodMap.Get(e)
	if !f.Mature {
		f.Calories.Increase(f.GrowthRate)
		if f.Calories.IsMax() {
			f.Mature = true
		}
		return
	}
	f.Calories.Decrease(f.DecayRate)
	if f.Calories.IsMin() {
		s.RequestDestroy(id)
	}
}

// updateTree counts down and drops a ring of fruit when the countdown ends.
func (s *Simulation) updateTree(e ecs.Entity) {
	t := s.treeMap.Get(e)
	if t.Cooldown.Value() > 0 {
		t.Cooldown.Decrement()
		return
	}
	t.Cooldown.Reset(t.Cooldown.Max())

	center := s.posMap.Get(e).Vec
	for _, p := range vmath.Polygon(center, t.Radius()+t.FruitDistance, t.Fruits) {
		s.enqueue(FoodSpec{
			Pos:         s.grid.Clamp(p),
			MaxCalories: t.FruitMaxCalories,
			Calories:    t.FruitMaxCalories * 0.1,
			GrowthRate:  t.FruitGrowthRate,
			DecayRate:   t.FruitDecayRate,
		})
	}
}

// callTick runs OnTick. A panicking policy idles for the tick.
func callTick(p protocol.Policy, in protocol.Perception, id core.ObjectID) (d protocol.Decision) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("policy_panic", "call", "on_tick", "id", id, "panic", r)
			d = protocol.Idle()
		}
	}()
	return p.OnTick(in)
}
