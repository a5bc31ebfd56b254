package navgrid

import (
	"errors"
	"fmt"

	"github.com/zyedidia/generic/mapset"
)

// maxViolations caps how many problems Verify reports individually.
const maxViolations = 20

// Verify re-checks the invariants Build establishes and returns every
// violation found joined into one error, or nil.
func (g *Grid) Verify() error {
	v := &violations{}
	g.verifyCells(v)
	g.verifyNeighbors(v)
	g.verifyComponents(v)
	return v.err()
}

type violations struct {
	errs  []error
	extra int
}

func (v *violations) addf(format string, args ...any) {
	if len(v.errs) >= maxViolations {
		v.extra++
		return
	}
	v.errs = append(v.errs, fmt.Errorf(format, args...))
}

func (v *violations) err() error {
	if v.extra > 0 {
		v.errs = append(v.errs, fmt.Errorf("and %d more violations", v.extra))
	}
	return errors.Join(v.errs...)
}

func (g *Grid) verifyCells(v *violations) {
	negatives := mapset.New[int]()
	for i := range g.cells {
		c := &g.cells[i]
		if c.Cost < MinCost || c.Cost > MaxCost {
			v.addf("cell %v: cost %g outside [%g, %g]", c.Pos, c.Cost, MinCost, MaxCost)
		}
		if c.Walkable && c.Cost >= WalkableCostLimit {
			v.addf("cell %v: walkable with cost %g", c.Pos, c.Cost)
		}
		if c.Occupied && (c.Walkable || c.Cost != MaxCost) {
			v.addf("cell %v: occupied but walkable=%v cost=%g", c.Pos, c.Walkable, c.Cost)
		}
		switch {
		case c.Walkable && (c.Component < 0 || c.Component >= g.components):
			v.addf("cell %v: walkable with component %d", c.Pos, c.Component)
		case !c.Walkable && c.Component >= 0:
			v.addf("cell %v: unwalkable with component %d", c.Pos, c.Component)
		case !c.Walkable:
			if negatives.Has(c.Component) {
				v.addf("cell %v: duplicate unwalkable marker %d", c.Pos, c.Component)
			}
			negatives.Put(c.Component)
		}
	}
}

func (g *Grid) verifyNeighbors(v *violations) {
	for i := range g.cells {
		c := &g.cells[i]
		for d := Dir(0); d < NumDirs; d++ {
			j := g.neighbors[i][d]
			dx, dy := d.Offset()
			nx, ny := c.Pos.X+dx, c.Pos.Y+dy
			want := c.Walkable && g.Walkable(nx, ny)

			if !want {
				if j != NoNeighbor {
					v.addf("cell %v: unexpected %v neighbor %d", c.Pos, d, j)
				}
				continue
			}
			if j != int32(g.index(nx, ny)) {
				v.addf("cell %v: %v slot is %d, want cell %v", c.Pos, d, j, Pos{X: nx, Y: ny})
				continue
			}
			if back := g.neighbors[j][d.Opposite()]; back != int32(i) {
				v.addf("cell %v: %v neighbor does not link back (got %d)", c.Pos, d, back)
			}
		}
	}
}

// verifyComponents checks that every non-negative id covers exactly one
// island: linked cells share ids, and a flood from any cell of an id reaches
// all of that id's cells.
func (g *Grid) verifyComponents(v *violations) {
	sizes := make([]int, g.components)
	for i := range g.cells {
		c := &g.cells[i]
		if !c.Walkable || c.Component < 0 || c.Component >= g.components {
			continue
		}
		sizes[c.Component]++
		for _, j := range g.neighbors[i] {
			if j != NoNeighbor && g.cells[j].Component != c.Component {
				v.addf("cells %v and %v are linked but in components %d and %d",
					c.Pos, g.cells[j].Pos, c.Component, g.cells[j].Component)
			}
		}
	}

	seen := mapset.New[int]()
	for i := range g.cells {
		c := &g.cells[i]
		if !c.Walkable || c.Component < 0 || c.Component >= g.components || seen.Has(i) {
			continue
		}
		reached := g.flood(i, seen)
		if reached != sizes[c.Component] {
			v.addf("component %d: island at %v reaches %d of %d cells",
				c.Component, c.Pos, reached, sizes[c.Component])
		}
		sizes[c.Component] = -1 // later islands with this id are reported too
	}
}

// flood counts cells reachable from start through the neighbor table,
// recording them in seen.
func (g *Grid) flood(start int, seen mapset.Set[int]) int {
	stack := []int{start}
	seen.Put(start)
	n := 0
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n++
		for _, j := range g.neighbors[i] {
			if j == NoNeighbor || seen.Has(int(j)) {
				continue
			}
			seen.Put(int(j))
			stack = append(stack, int(j))
		}
	}
	return n
}
