package navgrid

import (
	"errors"
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/terranav/internal/terrain"
)

func TestFindPath_Rejects(t *testing.T) {
	g := flatGrid(4, 4, Pos{X: 3, Y: 3})
	origin := Pos{X: 0, Y: 0}

	tests := []struct {
		name       string
		start, end Pos
	}{
		{"start out of bounds", Pos{X: -1, Y: 0}, origin},
		{"goal out of bounds", origin, Pos{X: 4, Y: 0}},
		{"goal unwalkable", origin, Pos{X: 3, Y: 3}},
		{"start unwalkable", Pos{X: 3, Y: 3}, origin},
		{"same cell", origin, origin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, g.FindPath(tt.start, tt.end))
		})
	}
}

func TestFindPath_StraightLine(t *testing.T) {
	g := flatGrid(5, 1)
	path := g.FindPath(Pos{X: 0, Y: 0}, Pos{X: 4, Y: 0})

	assert.Equal(t, row(0, 1, 2, 3, 4), path)
	assert.InDelta(t, 4.0, PathLength(Pos{X: 0, Y: 0}, path), 1e-9)
	assert.InDelta(t, 0.4, g.PathCost(path), 1e-6)
}

func TestFindPath_Diagonal(t *testing.T) {
	g := flatGrid(4, 4)
	path := g.FindPath(Pos{X: 0, Y: 0}, Pos{X: 3, Y: 3})

	assert.Equal(t, []Pos{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}}, path)
	assert.InDelta(t, 3*math.Sqrt2, PathLength(Pos{X: 0, Y: 0}, path), 1e-9)
}

func TestFindPath_Funnel(t *testing.T) {
	// Row 2 is walled off except for (4,2).
	g := flatGrid(5, 5, row(2, 0, 1, 2, 3)...)
	start, goal := Pos{X: 0, Y: 0}, Pos{X: 4, Y: 4}

	path := g.FindPath(start, goal)
	require.NotEmpty(t, path)
	assert.Contains(t, path, Pos{X: 4, Y: 2})
	assert.Equal(t, goal, path[len(path)-1])
	assert.NoError(t, g.ValidatePath(start, path))
}

func TestFindPath_ValidOnRandomGrids(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for trial := 0; trial < 30; trial++ {
		g := randomGrid(rng, 10+rng.Intn(10), 10+rng.Intn(10), 0.25)
		start := Pos{X: rng.Intn(g.Width()), Y: rng.Intn(g.Height())}
		goal := Pos{X: rng.Intn(g.Width()), Y: rng.Intn(g.Height())}

		path := g.FindPath(start, goal)
		if start == goal || !g.Connected(start, goal) {
			assert.Empty(t, path, "trial %d", trial)
			continue
		}
		require.NotEmpty(t, path, "trial %d: %v -> %v", trial, start, goal)
		assert.Equal(t, goal, path[len(path)-1])
		assert.NoError(t, g.ValidatePath(start, path))
		assert.NotContains(t, path, start)
		assert.Equal(t, path, g.FindPath(start, goal), "repeat query differs")
	}
}

// pocketGrid is a 6×4 grid whose start sits in a dead-end pocket facing the
// goal at (5,0). The only exit is (0,2), behind the start, and the wall at
// x=4 opens only on row 3. Inside the pocket (1,0) costs more than (1,1), so
// the search closes cells through (1,0) before it finds the cheaper route.
//
//	S a b p # G
//	c d e q # .
//	x # # # # .
//	. . . . . .
func pocketGrid() *Grid {
	blocked := append(row(2, 1, 2, 3, 4), column(4, 0, 1)...)
	g := flatGrid(6, 4, blocked...)
	g.cells[g.index(1, 0)].Cost = 0.2
	g.cells[g.index(1, 1)].Cost = 0.15
	return g
}

// cheapestCosts returns the cost of the cheapest route from start to every
// cell, by plain Dijkstra over the neighbor table.
func cheapestCosts(g *Grid, start Pos) []float64 {
	n := len(g.cells)
	dist := make([]float64, n)
	done := make([]bool, n)
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	dist[g.index(start.X, start.Y)] = 0

	for {
		best := -1
		for i := range dist {
			if !done[i] && !math.IsInf(dist[i], 1) && (best < 0 || dist[i] < dist[best]) {
				best = i
			}
		}
		if best < 0 {
			return dist
		}
		done[best] = true
		for _, nj := range g.neighbors[best] {
			if nj == NoNeighbor {
				continue
			}
			j := int(nj)
			if d := dist[best] + float64(g.cells[j].Cost); d < dist[j] {
				dist[j] = d
			}
		}
	}
}

// checkRoute asserts path is a valid route to goal whose cost is the sum of
// its cells and no cheaper than the cheapest possible route.
func checkRoute(t *testing.T, g *Grid, start, goal Pos, path []Pos) {
	t.Helper()
	require.NotEmpty(t, path, "%v -> %v", start, goal)
	assert.Equal(t, goal, path[len(path)-1])
	assert.NoError(t, g.ValidatePath(start, path))

	var sum float64
	for _, p := range path {
		sum += float64(g.Cost(p.X, p.Y))
	}
	cost := float64(g.PathCost(path))
	assert.InDelta(t, sum, cost, 1e-4)

	best := cheapestCosts(g, start)[g.index(goal.X, goal.Y)]
	assert.GreaterOrEqual(t, cost, best-1e-4, "%v -> %v cheaper than the cheapest route", start, goal)
}

func TestFindPath_ReopensClosedCells(t *testing.T) {
	g := pocketGrid()
	start, goal := Pos{X: 0, Y: 0}, Pos{X: 5, Y: 0}

	path, st := g.findPath(start, goal)
	checkRoute(t, g, start, goal, path)
	assert.Contains(t, path, Pos{X: 0, Y: 2}, "the pocket exit")
	assert.Contains(t, path, Pos{X: 4, Y: 3}, "the gap in the wall")

	assert.Positive(t, st.reopened, "cells closed through (1,0) are reached cheaper through (1,1)")
	assert.Positive(t, st.requeued, "(0,2) is queued from (1,1) and then reached cheaper from (0,1)")

	assert.Equal(t, path, g.FindPath(start, goal), "repeat query differs")
}

func TestFindPath_ReusedScratch(t *testing.T) {
	g := pocketGrid()
	a, b := Pos{X: 0, Y: 0}, Pos{X: 5, Y: 3}

	first := g.FindPath(a, b)
	back := g.FindPath(b, a)
	require.NotEmpty(t, first)
	require.NotEmpty(t, back)

	assert.Equal(t, first, g.FindPath(a, b), "scratch left over from the reverse query")
	assert.Equal(t, back, pocketGrid().FindPath(b, a))
}

func TestFindPath_UTrap(t *testing.T) {
	blocked := append(column(6, 1, 2, 3, 4, 5, 6, 7), row(1, 3, 4, 5)...)
	blocked = append(blocked, row(7, 3, 4, 5)...)
	g := flatGrid(12, 9, blocked...)
	start, goal := Pos{X: 4, Y: 4}, Pos{X: 10, Y: 4}

	path := g.FindPath(start, goal)
	checkRoute(t, g, start, goal, path)
	assert.Equal(t, path, g.FindPath(start, goal), "repeat query differs")
}

func TestFindPath_VariedTerrain(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	var reopened, requeued int
	for trial := 0; trial < 40; trial++ {
		w, h := 12+rng.Intn(9), 12+rng.Intn(9)
		heights := make([]float32, w*h)
		for i := range heights {
			heights[i] = rng.Float32() * 0.7
		}
		var blocked []Pos
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if rng.Float64() < 0.3 {
					blocked = append(blocked, Pos{X: x, Y: y})
				}
			}
		}
		g := Build(terrain.MustHeightField(w, h, heights), blocked, DefaultOptions())

		start := Pos{X: rng.Intn(w), Y: rng.Intn(h)}
		goal := Pos{X: rng.Intn(w), Y: rng.Intn(h)}
		path, st := g.findPath(start, goal)
		if start == goal || !g.Connected(start, goal) {
			assert.Empty(t, path, "trial %d", trial)
			continue
		}
		checkRoute(t, g, start, goal, path)
		assert.Equal(t, path, g.FindPath(start, goal), "trial %d: repeat query differs", trial)
		reopened += st.reopened
		requeued += st.requeued
	}
	t.Logf("reopened %d cells, requeued %d", reopened, requeued)
}

func TestFindPath_Concurrent(t *testing.T) {
	g := randomGrid(rand.New(rand.NewSource(7)), 40, 40, 0.2)

	// Pick the two extremes of the largest component.
	best := -1
	for id := 0; id < g.Components(); id++ {
		if best < 0 || len(g.ComponentCells(id)) > len(g.ComponentCells(best)) {
			best = id
		}
	}
	require.GreaterOrEqual(t, best, 0)
	cells := g.ComponentCells(best)
	start, goal := cells[0], cells[len(cells)-1]
	want := g.FindPath(start, goal)

	var wg sync.WaitGroup
	results := make([][]Pos, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = g.FindPath(start, goal)
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		assert.Equal(t, want, got, "goroutine %d", i)
	}
}

func TestValidatePath(t *testing.T) {
	g := flatGrid(3, 3, Pos{X: 1, Y: 1})
	start := Pos{X: 0, Y: 0}

	assert.NoError(t, g.ValidatePath(start, nil))
	assert.NoError(t, g.ValidatePath(start, []Pos{{X: 1, Y: 0}, {X: 2, Y: 1}}))

	err := g.ValidatePath(start, []Pos{{X: 2, Y: 0}})
	assert.True(t, errors.Is(err, ErrInvalidPath))

	err = g.ValidatePath(start, []Pos{{X: 1, Y: 1}})
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestLineString(t *testing.T) {
	ls := LineString(Pos{X: 0, Y: 0}, []Pos{{X: 1, Y: 1}})
	require.Len(t, ls, 2)
	assert.Equal(t, 0.5, ls[0][0])
	assert.Equal(t, 1.5, ls[1][1])
	assert.Zero(t, PathLength(Pos{X: 2, Y: 2}, nil))
}
