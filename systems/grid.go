// Package systems holds the spatial index and the read-side queries the
// simulation runs against it.
package systems

import (
	"math"
	"slices"

	"github.com/pthm-cable/botsim/core"
	"github.com/pthm-cable/botsim/vmath"
)

// Cell is one square of the grid. It lists the objects whose position falls
// inside its bounds, in insertion order.
type Cell struct {
	Ref    core.CellRef
	Col    int
	Row    int
	Bounds vmath.Box

	VisionMultiplier vmath.Range
	SpeedMultiplier  vmath.Range
	HungerMultiplier vmath.Range

	members []core.ObjectID
	index   map[core.ObjectID]struct{}
}

func newModifier() vmath.Range { return vmath.MustRange(1, 0, 2) }

// Contains reports whether p lies inside the cell, edges included.
func (c *Cell) Contains(p vmath.Vec) bool { return vmath.InBox(p, c.Bounds) }

// ContainsDisc reports whether a disc of radius r around p fits in the cell.
func (c *Cell) ContainsDisc(p vmath.Vec, r float64) bool {
	return c.Contains(vmath.V(p.X-r, p.Y-r)) && c.Contains(vmath.V(p.X+r, p.Y+r))
}

// Members returns the ids in insertion order. The slice is owned by the cell
// and is only valid until the next Insert or Remove.
func (c *Cell) Members() []core.ObjectID { return c.members }

func (c *Cell) Len() int { return len(c.members) }

func (c *Cell) Has(id core.ObjectID) bool {
	_, ok := c.index[id]
	return ok
}

func (c *Cell) add(id core.ObjectID) bool {
	if _, ok := c.index[id]; ok {
		return false
	}
	c.index[id] = struct{}{}
	c.members = append(c.members, id)
	return true
}

func (c *Cell) remove(id core.ObjectID) bool {
	if _, ok := c.index[id]; !ok {
		return false
	}
	delete(c.index, id)
	i := slices.Index(c.members, id)
	c.members = slices.Delete(c.members, i, i+1)
	return true
}

// Grid is a fixed uniform partition of the map [0, cols*size] x [0, rows*size].
type Grid struct {
	cellSize float64
	cols     int
	rows     int
	bounds   vmath.Box
	cells    []Cell
	count    int
}

// NewGrid creates a cols x rows grid of square cells.
func NewGrid(cols, rows int, cellSize float64) *Grid {
	g := &Grid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		bounds:   vmath.Box{Max: vmath.V(float64(cols)*cellSize, float64(rows)*cellSize)},
		cells:    make([]Cell, cols*rows),
	}
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			ref := core.CellRef(row*cols + col)
			lo := vmath.V(float64(col)*cellSize, float64(row)*cellSize)
			g.cells[ref] = Cell{
				Ref:              ref,
				Col:              col,
				Row:              row,
				Bounds:           vmath.Box{Min: lo, Max: vmath.V(lo.X+cellSize, lo.Y+cellSize)},
				VisionMultiplier: newModifier(),
				SpeedMultiplier:  newModifier(),
				HungerMultiplier: newModifier(),
				index:            make(map[core.ObjectID]struct{}),
			}
		}
	}
	return g
}

func (g *Grid) CellSize() float64 { return g.cellSize }
func (g *Grid) Cols() int { return g.cols }
func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Bounds() vmath.Box { return g.bounds }

// InBounds reports whether p is on the map, edges included.
func (g *Grid) InBounds(p vmath.Vec) bool { return vmath.InBox(p, g.bounds) }

// Clamp moves p onto the map.
func (g *Grid) Clamp(p vmath.Vec) vmath.Vec { return vmath.ClampToBox(p, g.bounds) }

// Count returns the total number of memberships across all cells.
func (g *Grid) Count() int { return g.count }

// CellAt resolves the cell owning p. It fails only when p is off the map.
// Points on a shared edge belong to the higher cell, except on the far map
// edge which belongs to the last cell.
func (g *Grid) CellAt(p vmath.Vec) (core.CellRef, bool) {
	if !g.InBounds(p) || math.IsNaN(p.X) || math.IsNaN(p.Y) {
		return core.NoCell, false
	}
	col := g.axisIndex(p.X, g.cols)
	row := g.axisIndex(p.Y, g.rows)
	return core.CellRef(row*g.cols + col), true
}

func (g *Grid) axisIndex(v float64, n int) int {
	i := int(math.Floor(v / g.cellSize))
	return max(0, min(i, n-1))
}

// Cell returns the cell for ref, or nil if ref is not a cell of this grid.
func (g *Grid) Cell(ref core.CellRef) *Cell {
	if ref < 0 || int(ref) >= len(g.cells) {
		return nil
	}
	return &g.cells[ref]
}

// CellAtIndex returns the cell at column col and row row.
func (g *Grid) CellAtIndex(col, row int) (*Cell, bool) {
	if col < 0 || col >= g.cols || row < 0 || row >= g.rows {
		return nil, false
	}
	return &g.cells[row*g.cols+col], true
}

// Cells returns every cell in row-major order.
func (g *Grid) Cells() []Cell { return g.cells }

// CellsInRadius returns, row-major, every cell that could hold a point within
// r of center. A box reaching past the map edge yields the edge cells.
func (g *Grid) CellsInRadius(center vmath.Vec, r float64) []core.CellRef {
	return g.CellsInRadiusInto(nil, center, r)
}

// CellsInRadiusInto is CellsInRadius appending to dst.
func (g *Grid) CellsInRadiusInto(dst []core.CellRef, center vmath.Vec, r float64) []core.CellRef {
	r = math.Abs(r)
	minCol := g.axisIndex(center.X-r, g.cols)
	maxCol := g.axisIndex(center.X+r, g.cols)
	minRow := g.axisIndex(center.Y-r, g.rows)
	maxRow := g.axisIndex(center.Y+r, g.rows)
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			dst = append(dst, core.CellRef(row*g.cols+col))
		}
	}
	return dst
}

// Neighborhood returns ref and its up to eight neighbours, row-major.
func (g *Grid) Neighborhood(ref core.CellRef) []core.CellRef {
	c := g.Cell(ref)
	if c == nil {
		return nil
	}
	out := make([]core.CellRef, 0, 9)
	for row := max(0, c.Row-1); row <= min(g.rows-1, c.Row+1); row++ {
		for col := max(0, c.Col-1); col <= min(g.cols-1, c.Col+1); col++ {
			out = append(out, core.CellRef(row*g.cols+col))
		}
	}
	return out
}

// Insert lists id in the cell. It reports false for an unknown cell or a
// duplicate insertion.
func (g *Grid) Insert(id core.ObjectID, ref core.CellRef) bool {
	c := g.Cell(ref)
	if c == nil || !c.add(id) {
		return false
	}
	g.count++
	return true
}

// Remove drops id from the cell, reporting whether it was listed.
func (g *Grid) Remove(id core.ObjectID, ref core.CellRef) bool {
	c := g.Cell(ref)
	if c == nil || !c.remove(id) {
		return false
	}
	g.count--
	return true
}

// Move transfers id from one cell to another and returns the cell that now
// lists it. When to is not a cell the object stays listed in from.
func (g *Grid) Move(id core.ObjectID, from, to core.CellRef) core.CellRef {
	if from == to {
		return from
	}
	dst := g.Cell(to)
	if dst == nil || dst.Has(id) {
		return from
	}
	g.Remove(id, from)
	g.Insert(id, to)
	return to
}
