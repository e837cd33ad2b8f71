package systems

import (
	"math"

	"github.com/pthm-cable/botsim/core"
	"github.com/pthm-cable/botsim/protocol"
	"github.com/pthm-cable/botsim/vmath"
)

// Index resolves ids listed in the grid to shadow copies.
type Index interface {
	Shadow(id core.ObjectID) (protocol.Shadow, bool)
}

// VisionFor returns the bot's effective vision inside cell c, capped at limit.
func VisionFor(base float64, c *Cell, limit float64) float64 {
	v := base
	if c != nil {
		v *= c.VisionMultiplier.Value()
	}
	if limit > 0 {
		v = min(v, limit)
	}
	return max(0, v)
}

type nearest[T any] struct {
	obj    T
	distSq float64
	found  bool
}

func (n *nearest[T]) offer(obj T, distSq float64) {
	if !n.found || distSq < n.distSq {
		n.obj, n.distSq, n.found = obj, distSq, true
	}
}

func (n *nearest[T]) result() protocol.Nearest[T] {
	if !n.found {
		return protocol.None[T]()
	}
	obj := n.obj
	return protocol.Nearest[T]{Object: &obj, Distance: math.Sqrt(n.distSq)}
}

// Perceive builds the perception of self, scanning every cell within vision
// row-major and each cell's members in insertion order. Equal distances keep
// the first object found.
func Perceive(g *Grid, idx Index, self protocol.BotShadow, vision float64) protocol.Perception {
	p := protocol.Perception{Self: self}

	var food nearest[protocol.FoodShadow]
	var tree nearest[protocol.TreeShadow]
	var bot, kin, enemy nearest[protocol.BotShadow]

	visionSq := vision * vision
	for _, ref := range g.CellsInRadius(self.Pos, vision) {
		for _, id := range g.Cell(ref).Members() {
			if id == self.ID {
				continue
			}
			sh, ok := idx.Shadow(id)
			if !ok {
				continue
			}
			d := vmath.DistSq(self.Pos, sh.Base().Pos)
			if d > visionSq {
				continue
			}
			p.Visible = append(p.Visible, sh)

			switch s := sh.(type) {
			case protocol.FoodShadow:
				food.offer(s, d)
			case protocol.TreeShadow:
				tree.offer(s, d)
			case protocol.BotShadow:
				bot.offer(s, d)
				if s.Population == self.Population {
					kin.offer(s, d)
				} else {
					enemy.offer(s, d)
				}
			}
		}
	}

	p.NearestFood = food.result()
	p.NearestTree = tree.result()
	p.NearestBot = bot.result()
	p.NearestKin = kin.result()
	p.NearestEnemy = enemy.result()
	return p
}
