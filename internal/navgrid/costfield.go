package navgrid

import "github.com/Faultbox/terranav/internal/terrain"

// buildCostField fills elevation, class, cost and walkability for every cell.
func (g *Grid) buildCostField(field *terrain.HeightField, occupied []Pos, th terrain.Thresholds) {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			h := field.At(x, y)
			cost := localCost(field, x, y)
			g.cells[g.index(x, y)] = Cell{
				Pos:       Pos{X: x, Y: y},
				Elevation: h,
				Class:     th.Classify(h),
				Cost:      cost,
				Walkable:  cost < WalkableCostLimit,
			}
		}
	}

	for _, p := range occupied {
		if !g.InBounds(p.X, p.Y) {
			continue
		}
		c := &g.cells[g.index(p.X, p.Y)]
		c.Cost = MaxCost
		c.Walkable = false
		c.Occupied = true
	}
}

// localCost is the mean squared height difference to the in-bounds
// neighbors plus MinCost, capped at MaxCost. Edge cells average over fewer
// neighbors.
func localCost(field *terrain.HeightField, x, y int) float32 {
	h := field.At(x, y)

	var sum float32
	n := 0
	for d := Dir(0); d < NumDirs; d++ {
		dx, dy := d.Offset()
		nx, ny := x+dx, y+dy
		if !field.InBounds(nx, ny) {
			continue
		}
		dh := field.At(nx, ny) - h
		sum += dh * dh
		n++
	}

	var mean float32
	if n > 0 {
		mean = sum / float32(n)
	}
	cost := mean + MinCost
	if cost > MaxCost {
		cost = MaxCost
	}
	return cost
}
