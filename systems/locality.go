package systems

import (
	"github.com/pthm-cable/botsim/core"
	"github.com/pthm-cable/botsim/protocol"
	"github.com/pthm-cable/botsim/vmath"
)

// TargetQuery selects candidates for an eat or attack action.
type TargetQuery struct {
	Kind    core.Kind
	Exclude core.ObjectID

	// ByID restricts the search to ID and stops at the first match.
	ByID bool
	ID   core.ObjectID

	// Accept, when set, filters candidates that passed the kind check.
	Accept func(protocol.Shadow) bool
}

// SearchCells returns the cells a locality search from origin must visit.
// A footprint of radius reach that fits inside the home cell needs only that
// cell. Otherwise the 3x3 neighbourhood is used, or the full radius cover when
// reach exceeds a cell.
func SearchCells(g *Grid, home core.CellRef, origin vmath.Vec, reach float64) []core.CellRef {
	c := g.Cell(home)
	if c == nil {
		return g.CellsInRadius(origin, reach)
	}
	if c.ContainsDisc(origin, reach) {
		return []core.CellRef{home}
	}
	if reach <= g.CellSize() {
		return g.Neighborhood(home)
	}
	return g.CellsInRadius(origin, reach)
}

// FindTarget returns the nearest candidate matching q among the searched
// cells, with its squared centre distance from origin.
func FindTarget(g *Grid, idx Index, home core.CellRef, origin vmath.Vec, reach float64, q TargetQuery) (protocol.Shadow, float64, bool) {
	var best protocol.Shadow
	var bestSq float64

	for _, ref := range SearchCells(g, home, origin, reach) {
		for _, id := range g.Cell(ref).Members() {
			if id == q.Exclude || (q.ByID && id != q.ID) {
				continue
			}
			sh, ok := idx.Shadow(id)
			if !ok || sh.Base().Kind != q.Kind {
				continue
			}
			if q.Accept != nil && !q.Accept(sh) {
				continue
			}
			d := vmath.DistSq(origin, sh.Base().Pos)
			if q.ByID {
				return sh, d, true
			}
			if best == nil || d < bestSq {
				best, bestSq = sh, d
			}
		}
	}
	return best, bestSq, best != nil
}
