package navgrid

// buildNeighbors fills the slot table. Only walkable cells get entries, and
// only toward walkable in-bounds cells, so the relation is symmetric.
func (g *Grid) buildNeighbors() {
	g.neighbors = make([][NumDirs]int32, len(g.cells))
	for i := range g.cells {
		slots := &g.neighbors[i]
		for d := range slots {
			slots[d] = NoNeighbor
		}

		c := &g.cells[i]
		if !c.Walkable {
			continue
		}
		for d := Dir(0); d < NumDirs; d++ {
			dx, dy := d.Offset()
			nx, ny := c.Pos.X+dx, c.Pos.Y+dy
			if !g.InBounds(nx, ny) {
				continue
			}
			j := g.index(nx, ny)
			if g.cells[j].Walkable {
				slots[d] = int32(j)
			}
		}
	}
}

// Neighbor returns the walkable neighbor of (x, y) in direction d.
func (g *Grid) Neighbor(x, y int, d Dir) (Pos, bool) {
	if !g.InBounds(x, y) || d >= NumDirs {
		return Pos{}, false
	}
	j := g.neighbors[g.index(x, y)][d]
	if j == NoNeighbor {
		return Pos{}, false
	}
	return g.cells[j].Pos, true
}

// Neighbors returns the walkable neighbors of (x, y) in slot order.
func (g *Grid) Neighbors(x, y int) []Pos {
	if !g.InBounds(x, y) {
		return nil
	}
	var out []Pos
	for _, j := range g.neighbors[g.index(x, y)] {
		if j != NoNeighbor {
			out = append(out, g.cells[j].Pos)
		}
	}
	return out
}
