package navgrid

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// ErrInvalidPath is wrapped by ValidatePath failures.
var ErrInvalidPath = errors.New("navgrid: invalid path")

// PathLength returns the Euclidean length of the polyline start→path[0]→...
// in cell units. Diagonal steps count √2.
func PathLength(start Pos, path []Pos) float64 {
	if len(path) == 0 {
		return 0
	}
	return planar.Length(LineString(start, path))
}

// LineString converts a path, prefixed with its start, to cell-center coordinates.
func LineString(start Pos, path []Pos) orb.LineString {
	ls := make(orb.LineString, 0, len(path)+1)
	ls = append(ls, cellCenter(start))
	for _, p := range path {
		ls = append(ls, cellCenter(p))
	}
	return ls
}

// PathCost sums the cost of every cell stepped into.
func (g *Grid) PathCost(path []Pos) float32 {
	var total float32
	for _, p := range path {
		if c, ok := g.Cell(p.X, p.Y); ok {
			total += c.Cost
		}
	}
	return total
}

// ValidatePath checks that path starts next to start, that every step moves
// to one of the 8 adjacent cells, and that every stepped cell is walkable.
func (g *Grid) ValidatePath(start Pos, path []Pos) error {
	prev := start
	for i, p := range path {
		if !prev.IsAdjacent(p) {
			return fmt.Errorf("%w: step %d from %v to %v is not adjacent", ErrInvalidPath, i, prev, p)
		}
		if !g.Walkable(p.X, p.Y) {
			return fmt.Errorf("%w: step %d enters unwalkable cell %v", ErrInvalidPath, i, p)
		}
		prev = p
	}
	return nil
}

func cellCenter(p Pos) orb.Point {
	return orb.Point{float64(p.X) + 0.5, float64(p.Y) + 0.5}
}
