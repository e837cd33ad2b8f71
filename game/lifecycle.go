package game

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/pthm-cable/botsim/core"
	"github.com/pthm-cable/botsim/protocol"
	"github.com/pthm-cable/botsim/vmath"
)

// RequestDestroy queues id for removal at the end of the tick. It reports
// false when id is unknown or already queued.
func (s *Simulation) RequestDestroy(id core.ObjectID) bool {
	return s.requestDeath(id, false)
}

func (s *Simulation) requestDeath(id core.ObjectID, suicide bool) bool {
	if _, ok := s.entities[id]; !ok {
		return false
	}
	if s.dying(id) {
		return false
	}
	s.pendingDeath[id] = struct{}{}
	s.deaths = append(s.deaths, deathRequest{id: id, suicide: suicide})
	return true
}

// dying reports whether id is queued for removal this tick. Queued objects
// are still listed in the grid but can no longer be eaten or attacked.
func (s *Simulation) dying(id core.ObjectID) bool {
	_, ok := s.pendingDeath[id]
	return ok
}

// RequestBirth queues a bot of the given population at pos. The bot is
// created after all deaths of the current tick have been applied.
func (s *Simulation) RequestBirth(population string, pos vmath.Vec, points int) {
	s.enqueue(BotSpec{Population: population, Pos: pos, Points: points})
}

// PendingBirths returns the number of queued creations.
func (s *Simulation) PendingBirths() int { return len(s.births) }

// PendingDeaths returns the number of queued removals.
func (s *Simulation) PendingDeaths() int { return len(s.deaths) }

func (s *Simulation) enqueue(spec EntitySpec) {
	s.births = append(s.births, spec)
}

// drainDeaths removes every queued object. Bots leave a corpse of food
// behind and their policy is told about the death.
func (s *Simulation) drainDeaths() {
	if len(s.deaths) == 0 {
		return
	}
	queue := s.deaths
	s.deaths = nil

	removed := make(map[core.ObjectID]struct{}, len(queue))
	for _, req := range queue {
		e, ok := s.entities[req.id]
		if !ok {
			continue
		}
		ident := *s.idMap.Get(e)
		pos := s.posMap.Get(e).Vec
		cell := s.cellMap.Get(e).Cell

		var policy protocol.Policy
		var population string
		if ident.Kind == core.KindBot {
			bot := s.botMap.Get(e)
			policy, population = bot.Policy, bot.Population
			calories := s.cfg.Bot.DepositHealth*bot.Health.Max() + s.cfg.Bot.DepositFood*bot.Food.Value()
			// The corpse spawn is a structural change; no component pointer survives it.
			s.depositCorpse(pos, calories)
		}

		if !s.grid.Remove(req.id, cell) {
			s.invariant(fmt.Errorf("removing %d: not listed in cell %d", req.id, cell))
		}
		s.world.RemoveEntity(e)
		delete(s.entities, req.id)
		removed[req.id] = struct{}{}

		if ident.Kind != core.KindBot {
			continue
		}
		stats := s.population(population)
		stats.Alive--
		stats.Died++
		s.collector.RecordDeath(req.suicide)
		if s.cfg.Telemetry.LogEvents {
			slog.Info("bot_died", "id", req.id, "population", population, "tick", s.tick, "suicide", req.suicide)
		}
		callDeath(policy, protocol.KillContext{
			ID:         req.id,
			Population: population,
			Tick:       s.tick,
			Age:        s.tick - ident.Born,
			Suicide:    req.suicide,
			Stats:      *stats,
		})
	}

	s.order = slices.DeleteFunc(s.order, func(id core.ObjectID) bool {
		_, ok := removed[id]
		return ok
	})
	clear(s.pendingDeath)
}

func (s *Simulation) depositCorpse(pos vmath.Vec, calories float64) {
	if calories <= 0 {
		return
	}
	s.spawnInternal(FoodSpec{
		Pos:         pos,
		MaxCalories: calories,
		Calories:    calories,
		DecayRate:   s.cfg.Food.DecayRate,
		Mature:      true,
	})
}

// drainBirths creates every queued object in request order. Policy errors
// fail only the one birth.
func (s *Simulation) drainBirths() {
	if len(s.births) == 0 {
		return
	}
	queue := s.births
	s.births = nil

	for _, spec := range queue {
		if bs, ok := spec.(BotSpec); ok {
			if _, err := s.Spawn(bs); err != nil {
				if errors.Is(err, core.ErrOutOfBounds) || errors.Is(err, core.ErrNoCell) {
					s.invariant(err)
					continue
				}
				s.collector.RecordFailedBirth()
				slog.Warn("birth_failed", "population", bs.Population, "tick", s.tick, "err", err)
			}
			continue
		}
		s.spawnInternal(spec)
	}
}

// spawnInternal creates an object the engine itself decided on. A position
// off the map is an engine bug.
func (s *Simulation) spawnInternal(spec EntitySpec) (core.ObjectID, bool) {
	if !s.grid.InBounds(spec.Position()) {
		s.invariant(fmt.Errorf("internal %s spawn at %v: %w", spec.Kind(), spec.Position(), core.ErrOutOfBounds))
		spec = withPosition(spec, s.grid.Clamp(spec.Position()))
	}
	id, err := s.Spawn(spec)
	if err != nil {
		s.invariant(err)
		return 0, false
	}
	return id, true
}

func withPosition(spec EntitySpec, p vmath.Vec) EntitySpec {
	switch sp := spec.(type) {
	case BotSpec:
		sp.Pos = p
		return sp
	case FoodSpec:
		sp.Pos = p
		return sp
	case TreeSpec:
		sp.Pos = p
		return sp
	}
	return spec
}

// rainFood drops the configured number of fresh food items at random spots.
func (s *Simulation) rainFood() {
	for i := 0; i < s.cfg.MapGen.FoodRainPerTick; i++ {
		s.spawnInternal(s.DefaultFood(s.randomPoint(s.grid.Bounds())))
	}
}

// callDeath runs OnDeath, logging instead of propagating a policy panic.
func callDeath(p protocol.Policy, ctx protocol.KillContext) {
	if p == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("policy_panic", "call", "on_death", "id", ctx.ID, "population", ctx.Population, "panic", r)
		}
	}()
	p.OnDeath(ctx)
}
