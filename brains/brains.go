// Package brains provides example policies for the simulation.
package brains

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"

	"github.com/pthm-cable/botsim/protocol"
	"github.com/pthm-cable/botsim/vmath"
)

// Names of the bundled policies.
const (
	NameWanderer = "wanderer"
	NameForager  = "forager"
	NameHunter   = "hunter"
)

// Register adds every bundled policy to r.
func Register(r *protocol.Registry) error {
	for name, f := range map[string]protocol.Factory{
		NameWanderer: func() protocol.Policy { return &Wanderer{} },
		NameForager:  func() protocol.Policy { return &Forager{} },
		NameHunter:   func() protocol.Policy { return &Hunter{} },
	} {
		if err := r.Register(name, f); err != nil {
			return fmt.Errorf("registering bundled brains: %w", err)
		}
	}
	return nil
}

// split divides points by integer weights. Remainders go to the first weight.
func split(points int, weights ...int) []int {
	total := 0
	for _, w := range weights {
		total += w
	}
	out := make([]int, len(weights))
	if total == 0 || points <= 0 {
		return out
	}
	used := 0
	for i, w := range weights {
		out[i] = points * w / total
		used += out[i]
	}
	out[0] += points - used
	return out
}

func allocate(points int, c color.RGBA, health, food, vision, speed, attack int) protocol.Allocation {
	p := split(points, health, food, vision, speed, attack)
	return protocol.Allocation{Health: p[0], Food: p[1], Vision: p[2], Speed: p[3], Attack: p[4], Color: c}
}

// wander keeps a heading and turns a little each tick.
type wander struct {
	rng     *rand.Rand
	heading float64
}

func (w *wander) seed(ctx protocol.InitContext) {
	w.rng = rand.New(rand.NewSource(int64(ctx.ID) + 1))
	w.heading = w.rng.Float64() * 2 * math.Pi
}

func (w *wander) step(turn float64) protocol.Decision {
	w.heading += (w.rng.Float64()*2 - 1) * turn
	return protocol.Move(vmath.V(math.Cos(w.heading), math.Sin(w.heading)), 0.5)
}

// Wanderer spreads its points evenly and drifts about, eating whatever it bumps into.
type Wanderer struct {
	wander
}

func (w *Wanderer) OnBirth(ctx protocol.InitContext) protocol.Allocation {
	w.seed(ctx)
	return allocate(ctx.Points, color.RGBA{R: 200, G: 200, B: 200, A: 255}, 1, 1, 1, 1, 1)
}

func (w *Wanderer) OnTick(p protocol.Perception) protocol.Decision {
	if f := p.NearestFood; f.Found() && f.Distance <= p.Self.Radius+f.Object.Radius {
		return protocol.EatByID(f.Object.ID)
	}
	return w.step(0.3)
}

func (w *Wanderer) OnDeath(protocol.KillContext) protocol.Ack { return protocol.Ack{} }

// Forager walks to the nearest food, eats, and splits when well fed.
type Forager struct {
	wander
	SplitAt float64 // Fraction of max food that triggers a split
}

func (f *Forager) OnBirth(ctx protocol.InitContext) protocol.Allocation {
	f.seed(ctx)
	if f.SplitAt == 0 {
		f.SplitAt = 0.8
	}
	return allocate(ctx.Points, color.RGBA{R: 60, G: 200, B: 90, A: 255}, 2, 4, 2, 2, 0)
}

func (f *Forager) OnTick(p protocol.Perception) protocol.Decision {
	self := p.Self
	if self.MaxFood > 0 && self.Food >= self.MaxFood*f.SplitAt && self.Health >= self.MaxHealth/2 {
		return protocol.Spawn("", int(self.MaxFood/3))
	}
	food := p.NearestFood
	if !food.Found() {
		return f.step(0.4)
	}
	if food.Distance <= self.Radius+food.Object.Radius {
		return protocol.EatByID(food.Object.ID)
	}
	return protocol.GoTo(food.Object.Pos)
}

func (f *Forager) OnDeath(protocol.KillContext) protocol.Ack { return protocol.Ack{} }

// Hunter chases bots of other populations and eats only when nobody is around.
// Its children get a few bonus points over what the parent pays for.
type Hunter struct {
	wander
	points int
}

func (h *Hunter) OnBirth(ctx protocol.InitContext) protocol.Allocation {
	h.seed(ctx)
	h.points = ctx.Points
	return allocate(ctx.Points, color.RGBA{R: 220, G: 60, B: 50, A: 255}, 3, 3, 2, 2, 3)
}

func (h *Hunter) OnTick(p protocol.Perception) protocol.Decision {
	self := p.Self
	if self.MaxFood > 0 && self.Food >= self.MaxFood*0.9 {
		return protocol.Spawn("", h.points/2+5)
	}
	if enemy := p.NearestEnemy; enemy.Found() {
		if enemy.Distance <= self.Radius+enemy.Object.Radius {
			return protocol.AttackByID(false, enemy.Object.ID)
		}
		return protocol.GoTo(enemy.Object.Pos)
	}
	if food := p.NearestFood; food.Found() {
		if food.Distance <= self.Radius+food.Object.Radius {
			return protocol.EatNearest()
		}
		return protocol.GoTo(food.Object.Pos)
	}
	return h.step(0.2)
}

func (h *Hunter) OnDeath(protocol.KillContext) protocol.Ack { return protocol.Ack{} }
