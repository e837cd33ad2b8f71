package game

import (
	"maps"
	"slices"

	"github.com/pthm-cable/botsim/core"
	"github.com/pthm-cable/botsim/protocol"
	"github.com/pthm-cable/botsim/vmath"
)

// selectSlack widens the pick radius so small objects stay clickable.
const selectSlack = 4

type selection struct {
	id   core.ObjectID
	has  bool
	cell core.CellRef
}

// CellInfo is a read-only copy of one grid cell.
type CellInfo struct {
	Ref      core.CellRef
	Col, Row int
	Bounds   vmath.Box
	Members  []core.ObjectID

	VisionMultiplier float64
	SpeedMultiplier  float64
	HungerMultiplier float64
}

// GridShape returns the grid dimensions.
func (s *Simulation) GridShape() (cols, rows int, cellSize float64) {
	return s.grid.Cols(), s.grid.Rows(), s.grid.CellSize()
}

// Bounds returns the map rectangle.
func (s *Simulation) Bounds() vmath.Box { return s.grid.Bounds() }

// CellInfo copies the cell at ref.
func (s *Simulation) CellInfo(ref core.CellRef) (CellInfo, bool) {
	c := s.grid.Cell(ref)
	if c == nil {
		return CellInfo{}, false
	}
	return CellInfo{
		Ref:              c.Ref,
		Col:              c.Col,
		Row:              c.Row,
		Bounds:           c.Bounds,
		Members:          slices.Clone(c.Members()),
		VisionMultiplier: c.VisionMultiplier.Value(),
		SpeedMultiplier:  c.SpeedMultiplier.Value(),
		HungerMultiplier: c.HungerMultiplier.Value(),
	}, true
}

// CellOf returns the cell currently listing id.
func (s *Simulation) CellOf(id core.ObjectID) (core.CellRef, bool) {
	e, ok := s.entities[id]
	if !ok {
		return core.NoCell, false
	}
	return s.cellMap.Get(e).Cell, true
}

// Objects returns shadows of every live object in insertion order.
func (s *Simulation) Objects() []protocol.Shadow {
	out := make([]protocol.Shadow, 0, len(s.order))
	for _, id := range s.order {
		if sh, ok := s.Shadow(id); ok {
			out = append(out, sh)
		}
	}
	return out
}

// IDs returns the live ids in insertion order.
func (s *Simulation) IDs() []core.ObjectID { return slices.Clone(s.order) }

// Select marks id as the selected object.
func (s *Simulation) Select(id core.ObjectID) bool {
	if _, ok := s.entities[id]; !ok {
		return false
	}
	s.selection = selection{id: id, has: true, cell: core.NoCell}
	return true
}

// SelectAt selects the nearest object touching p, or the cell under p when
// no object is close enough.
func (s *Simulation) SelectAt(p vmath.Vec) {
	var best core.ObjectID
	bestSq := -1.0
	for _, ref := range s.grid.CellsInRadius(p, s.maxRadius+selectSlack) {
		for _, id := range s.grid.Cell(ref).Members() {
			sh, ok := s.Shadow(id)
			if !ok {
				continue
			}
			b := sh.Base()
			d := vmath.DistSq(p, b.Pos)
			r := b.Radius + selectSlack
			if d <= r*r && (bestSq < 0 || d < bestSq) {
				best, bestSq = id, d
			}
		}
	}
	if bestSq >= 0 {
		s.Select(best)
		return
	}
	ref, _ := s.grid.CellAt(p)
	s.selection = selection{cell: ref}
}

func (s *Simulation) ClearSelection() {
	s.selection = selection{cell: core.NoCell}
}

// Selected returns the selected object if it is still alive.
func (s *Simulation) Selected() (protocol.Shadow, bool) {
	if !s.selection.has {
		return nil, false
	}
	return s.Shadow(s.selection.id)
}

// SelectedCell returns the selected cell.
func (s *Simulation) SelectedCell() (CellInfo, bool) {
	return s.CellInfo(s.selection.cell)
}

// PopulationNames returns the known populations in sorted order.
func (s *Simulation) PopulationNames() []string {
	return slices.Sorted(maps.Keys(s.populations))
}

// Population returns a copy of one population's counters.
func (s *Simulation) Population(name string) (protocol.PopulationStats, bool) {
	st, ok := s.populations[name]
	if !ok {
		return protocol.PopulationStats{}, false
	}
	return *st, true
}
