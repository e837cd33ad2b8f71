package game

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/botsim/core"
	"github.com/pthm-cable/botsim/protocol"
	"github.com/pthm-cable/botsim/systems"
	"github.com/pthm-cable/botsim/vmath"
)

// resolve applies one decision for the bot and reports whether it took effect.
func (s *Simulation) resolve(id core.ObjectID, e ecs.Entity, d protocol.Decision) bool {
	switch d.Action {
	case protocol.ActionIdle:
		return true
	case protocol.ActionMove:
		return s.move(id, e, d.Direction, d.SpeedFraction)
	case protocol.ActionGoTo:
		return s.goTo(id, e, d.Target)
	case protocol.ActionEatNearest:
		return s.eat(id, e, false, 0)
	case protocol.ActionEatByID:
		return s.eat(id, e, true, d.TargetID)
	case protocol.ActionAttackNearest:
		return s.attack(id, e, d.IncludeOwnKind, false, 0)
	case protocol.ActionAttackByID:
		return s.attack(id, e, d.IncludeOwnKind, true, d.TargetID)
	case protocol.ActionSpawn:
		return s.spawnChild(e, d)
	case protocol.ActionSuicide:
		return s.requestDeath(id, true)
	default:
		return false
	}
}

func (s *Simulation) speedOf(e ecs.Entity) float64 {
	bot := s.botMap.Get(e)
	cell := s.grid.Cell(s.cellMap.Get(e).Cell)
	return bot.Speed * cell.SpeedMultiplier.Value()
}

// move steps along dir at a fraction of the bot's speed, clamped to the map.
func (s *Simulation) move(id core.ObjectID, e ecs.Entity, dir vmath.Vec, fraction float64) bool {
	if math.IsNaN(fraction) || !finite(dir) {
		return false
	}
	fraction = max(0, min(fraction, 1))
	step := r2.Scale(s.speedOf(e)*fraction, vmath.Normalize(dir))

	bot := s.botMap.Get(e)
	bot.Food.Decrease(s.cfg.Bot.MoveCost * fraction)

	pos := s.posMap.Get(e)
	s.relocate(id, e, s.grid.Clamp(r2.Add(pos.Vec, step)))
	return true
}

// goTo covers the remaining distance to target if it is within one step.
func (s *Simulation) goTo(id core.ObjectID, e ecs.Entity, target vmath.Vec) bool {
	if !finite(target) {
		return false
	}
	delta := r2.Sub(target, s.posMap.Get(e).Vec)
	dist := r2.Norm(delta)
	if math.IsNaN(dist) || math.IsInf(dist, 0) {
		return false
	}
	if dist == 0 {
		return true
	}
	speed := s.speedOf(e)
	if speed <= 0 {
		return false
	}
	return s.move(id, e, delta, min(1, dist/speed))
}

// finite reports whether both components of v are real numbers.
func finite(v vmath.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// relocate sets the position and keeps cell membership in step with it.
func (s *Simulation) relocate(id core.ObjectID, e ecs.Entity, p vmath.Vec) {
	ref, ok := s.grid.CellAt(p)
	if !ok {
		s.invariant(core.ErrNoCell, "id", id, "x", p.X, "y", p.Y)
		return
	}
	s.posMap.Get(e).Vec = p
	mem := s.cellMap.Get(e)
	if mem.Cell != ref {
		mem.Cell = s.grid.Move(id, mem.Cell, ref)
	}
}

// reach is how far from the bot's centre a target centre can be and still touch.
func (s *Simulation) reach(e ecs.Entity) float64 {
	return s.botMap.Get(e).Radius() + s.maxRadius
}

// eat bites the nearest food, or the food with the given id, if it touches.
func (s *Simulation) eat(id core.ObjectID, e ecs.Entity, byID bool, target core.ObjectID) bool {
	bc := s.cfg.Bot
	bot := s.botMap.Get(e)
	bot.Food.Decrease(bc.EatTax)

	pos := s.posMap.Get(e).Vec
	sh, distSq, found := systems.FindTarget(s.grid, s, s.cellMap.Get(e).Cell, pos, s.reach(e), systems.TargetQuery{
		Kind:    core.KindFood,
		Exclude: id,
		ByID:    byID,
		ID:      target,
		Accept: func(sh protocol.Shadow) bool {
			return !s.dying(sh.Base().ID) && sh.(protocol.FoodShadow).Calories > 0
		},
	})
	if !found || !touching(bot.Radius(), sh.Base().Radius, distSq) {
		s.collector.RecordEat(false, 0)
		return false
	}

	bot.Food.Decrease(bc.ChewCost)
	need := bot.Food.Max() - bot.Food.Value()
	bite := min(max(bc.MinBite, bot.Food.Max()*bc.BiteShare), need)

	food := s.foodMap.Get(s.entities[sh.Base().ID])
	eaten := food.Calories.Take(bite)
	bot.Food.Increase(eaten)
	if food.Calories.IsMin() {
		s.RequestDestroy(sh.Base().ID)
	}

	s.collector.RecordEat(eaten > 0, eaten)
	return eaten > 0
}

// attack damages the nearest bot, or the bot with the given id, if it touches.
func (s *Simulation) attack(id core.ObjectID, e ecs.Entity, includeOwn, byID bool, target core.ObjectID) bool {
	bc := s.cfg.Bot
	bot := s.botMap.Get(e)
	bot.Food.Decrease(bc.AttackTax)

	population := bot.Population
	pos := s.posMap.Get(e).Vec
	sh, distSq, found := systems.FindTarget(s.grid, s, s.cellMap.Get(e).Cell, pos, s.reach(e), systems.TargetQuery{
		Kind:    core.KindBot,
		Exclude: id,
		ByID:    byID,
		ID:      target,
		Accept: func(sh protocol.Shadow) bool {
			if s.dying(sh.Base().ID) {
				return false
			}
			return includeOwn || sh.(protocol.BotShadow).Population != population
		},
	})
	if !found || !touching(bot.Radius(), sh.Base().Radius, distSq) {
		s.collector.RecordAttack(false)
		return false
	}

	victim := s.botMap.Get(s.entities[sh.Base().ID])
	victim.Health.Decrease(bot.Damage)
	victim.RecentlyAttacked = true
	bot.Food.Decrease(bc.AttackCost)

	s.collector.RecordAttack(true)
	return true
}

func touching(ra, rb, distSq float64) bool {
	rr := ra + rb
	return distSq <= rr*rr
}

// spawnChild pays the birth budget from food, then health, and queues the
// child near the parent. A payment that would kill the parent aborts.
func (s *Simulation) spawnChild(e ecs.Entity, d protocol.Decision) bool {
	bot := s.botMap.Get(e)
	population := d.Policy
	if population == "" {
		population = bot.Population
	}
	if !s.registry.Has(population) {
		return false
	}
	points := d.Points
	if points <= 0 {
		points = s.cfg.Points.Total
	}

	cost := float64(points)
	fromFood := min(cost, bot.Food.Value())
	fromHealth := cost - fromFood
	if fromHealth > 0 && bot.Health.Value()-fromHealth <= 0 {
		return false
	}
	bot.Food.Decrease(fromFood)
	bot.Health.Decrease(fromHealth)

	angle := s.rng.Float64() * 2 * math.Pi
	dist := s.rng.Float64() * s.cfg.Bot.SpawnOffset
	at := r2.Add(s.posMap.Get(e).Vec, vmath.V(dist*math.Cos(angle), dist*math.Sin(angle)))
	s.RequestBirth(population, s.grid.Clamp(at), points)
	return true
}
