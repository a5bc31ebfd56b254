// Package navgrid builds a walkability graph over a terrain height field and
// answers shortest-path queries on it.
//
// A Grid is built in three passes, all inside Build:
//
//  1. cost field: per-cell traversal cost from local height variance, with
//     occupied cells forced unwalkable,
//  2. neighbor table: 8 slots per walkable cell pointing at walkable neighbors,
//  3. partition: walkable cells flood-filled into numbered components.
//
// A built Grid is never mutated. FindPath keeps all search state in a
// per-query scratch structure taken from a pool, so concurrent queries
// against one Grid are safe. A changed height field or occupancy set needs a new Build.
package navgrid

import (
	"fmt"
	"sync"

	"github.com/Faultbox/terranav/internal/terrain"
)

// Options tunes grid construction.
type Options struct {
	Thresholds terrain.Thresholds
}

// DefaultOptions returns the stock build options.
func DefaultOptions() Options {
	return Options{Thresholds: terrain.DefaultThresholds()}
}

// Grid is the navigation graph over a width×height terrain.
type Grid struct {
	width      int
	height     int
	cells      []Cell
	neighbors  [][NumDirs]int32
	components int

	scratch sync.Pool // *search, reused across queries
}

// Build runs the cost field, neighbor and partition passes over a height
// field. Positions in occupied are made permanently unwalkable; positions
// outside the field are ignored.
//
// An empty field or one whose values do not match its dimensions is a
// programming error and panics.
func Build(field *terrain.HeightField, occupied []Pos, opts Options) *Grid {
	if err := field.Validate(); err != nil {
		panic(fmt.Sprintf("navgrid: invalid height field: %v", err))
	}

	g := &Grid{
		width:  field.Width,
		height: field.Height,
		cells:  make([]Cell, field.Width*field.Height),
	}
	g.buildCostField(field, occupied, opts.Thresholds)
	g.buildNeighbors()
	g.partition()
	return g
}

// Width returns the grid width in cells.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height in cells.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (x, y) lies inside the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Cell returns a copy of the cell at (x, y).
func (g *Grid) Cell(x, y int) (Cell, bool) {
	if !g.InBounds(x, y) {
		return Cell{}, false
	}
	return g.cells[g.index(x, y)], true
}

// Walkable reports whether (x, y) is inside the grid and walkable.
func (g *Grid) Walkable(x, y int) bool {
	return g.InBounds(x, y) && g.cells[g.index(x, y)].Walkable
}

// Cost returns the traversal cost of (x, y), or MaxCost out of bounds.
func (g *Grid) Cost(x, y int) float32 {
	if !g.InBounds(x, y) {
		return MaxCost
	}
	return g.cells[g.index(x, y)].Cost
}

// Component returns the component id of (x, y). Out-of-bounds positions
// report -1, which never matches a walkable id.
func (g *Grid) Component(x, y int) int {
	if !g.InBounds(x, y) {
		return -1
	}
	return g.cells[g.index(x, y)].Component
}

// Class returns the terrain class of (x, y).
func (g *Grid) Class(x, y int) terrain.Class {
	if !g.InBounds(x, y) {
		return terrain.ClassHigh
	}
	return g.cells[g.index(x, y)].Class
}

// Components returns the number of walkable components.
func (g *Grid) Components() int { return g.components }

// Connected reports whether a path can exist between a and b: both walkable
// and in the same component.
func (g *Grid) Connected(a, b Pos) bool {
	if !g.Walkable(a.X, a.Y) || !g.Walkable(b.X, b.Y) {
		return false
	}
	return g.cells[g.index(a.X, a.Y)].Component == g.cells[g.index(b.X, b.Y)].Component
}

// Snapshot returns a row-major copy of every cell, for renderers and debug views.
func (g *Grid) Snapshot() []Cell {
	out := make([]Cell, len(g.cells))
	copy(out, g.cells)
	return out
}

// Stats summarizes a built grid.
type Stats struct {
	Width            int
	Height           int
	Walkable         int
	Occupied         int
	Components       int
	LargestComponent int
	ByClass          map[terrain.Class]int
}

// Stats counts walkable, occupied and per-class cells and component sizes.
func (g *Grid) Stats() Stats {
	s := Stats{
		Width:      g.width,
		Height:     g.height,
		Components: g.components,
		ByClass:    make(map[terrain.Class]int),
	}
	sizes := make([]int, g.components)
	for i := range g.cells {
		c := &g.cells[i]
		s.ByClass[c.Class]++
		if c.Occupied {
			s.Occupied++
		}
		if c.Walkable {
			s.Walkable++
			sizes[c.Component]++
		}
	}
	for _, n := range sizes {
		if n > s.LargestComponent {
			s.LargestComponent = n
		}
	}
	return s
}

func (g *Grid) index(x, y int) int {
	return y*g.width + x
}
