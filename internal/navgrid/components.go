package navgrid

import "github.com/zyedidia/generic/mapset"

// partition assigns component ids. Unwalkable cells get -1, -2, ... in
// row-major order. Walkable cells are flood-filled with an explicit stack;
// a cell leaves the unvisited set when it is pushed, so nothing is stacked twice.
func (g *Grid) partition() {
	unvisited := mapset.New[int]()
	marker := -1
	for i := range g.cells {
		if g.cells[i].Walkable {
			unvisited.Put(i)
			continue
		}
		g.cells[i].Component = marker
		marker--
	}

	component := 0
	stack := make([]int, 0, 64)
	for seed := range g.cells {
		if unvisited.Size() == 0 {
			break
		}
		if !unvisited.Has(seed) {
			continue
		}

		unvisited.Remove(seed)
		g.cells[seed].Component = component
		stack = append(stack[:0], seed)

		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			g.cells[i].Component = component

			for _, j := range g.neighbors[i] {
				if j == NoNeighbor || !unvisited.Has(int(j)) {
					continue
				}
				unvisited.Remove(int(j))
				stack = append(stack, int(j))
			}
		}
		component++
	}
	g.components = component
}

// ComponentCells returns the positions in walkable component id, row-major.
func (g *Grid) ComponentCells(id int) []Pos {
	if id < 0 || id >= g.components {
		return nil
	}
	var out []Pos
	for i := range g.cells {
		if g.cells[i].Walkable && g.cells[i].Component == id {
			out = append(out, g.cells[i].Pos)
		}
	}
	return out
}
