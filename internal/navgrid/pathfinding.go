package navgrid

import (
	"math"

	"github.com/Faultbox/terranav/pkg/pqueue"
)

// search holds the transient A* state of one query, indexed by cell.
type search struct {
	g      []float32 // best known cost from start
	f      []float32 // g + heuristic
	parent []int32
	closed []bool
	open   *pqueue.Queue
	stats  searchStats
}

// searchStats counts route improvements found during one query.
type searchStats struct {
	requeued int // open cells given a cheaper route
	reopened int // closed cells given a cheaper route
}

func newSearch(n int) *search {
	s := &search{
		g:      make([]float32, n),
		f:      make([]float32, n),
		parent: make([]int32, n),
		closed: make([]bool, n),
		open:   pqueue.New(n),
	}
	s.reset()
	return s
}

func (s *search) reset() {
	inf := float32(math.Inf(1))
	for i := range s.g {
		s.g[i] = inf
		s.f[i] = inf
		s.parent[i] = NoNeighbor
		s.closed[i] = false
	}
	s.open.Reset()
	s.stats = searchStats{}
}

// acquireSearch returns cleared scratch sized for g, reusing a pooled one
// when available. Release it with g.scratch.Put.
func (g *Grid) acquireSearch() *search {
	if s, ok := g.scratch.Get().(*search); ok {
		s.reset()
		return s
	}
	return newSearch(len(g.cells))
}

// FindPath returns the cells from start (exclusive) to goal (inclusive) along
// the cheapest route found, or nil when no route exists. Endpoints out of
// bounds, unwalkable, or in different components return nil immediately.
// start == goal returns nil as well: there is nothing to step through.
//
// Stepping into a cell costs that cell's Cost. The heuristic is the
// Euclidean distance between positions, which overestimates on cheap
// terrain, so closed cells are reopened when a cheaper route reaches them.
func (g *Grid) FindPath(start, goal Pos) []Pos {
	path, _ := g.findPath(start, goal)
	return path
}

// findPath runs the search and also reports how often it improved a route.
// Rejected queries report zero stats.
func (g *Grid) findPath(start, goal Pos) ([]Pos, searchStats) {
	if !g.InBounds(start.X, start.Y) || !g.InBounds(goal.X, goal.Y) {
		return nil, searchStats{}
	}
	si, gi := g.index(start.X, start.Y), g.index(goal.X, goal.Y)
	if !g.cells[si].Walkable || !g.cells[gi].Walkable {
		return nil, searchStats{}
	}
	if g.cells[si].Component != g.cells[gi].Component {
		return nil, searchStats{}
	}

	s := g.acquireSearch()
	defer g.scratch.Put(s)
	s.g[si] = 0
	s.f[si] = heuristic(start, goal)
	s.open.Insert(si, s.f[si])

	current := -1
	for s.open.Len() > 0 {
		current = s.open.ExtractMin()
		s.closed[current] = true
		if current == gi {
			break
		}

		for _, nj := range g.neighbors[current] {
			if nj == NoNeighbor {
				continue
			}
			j := int(nj)
			tentative := s.g[current] + g.cells[j].Cost

			if s.open.Contains(j) && s.g[j] > tentative {
				s.open.Remove(j)
				s.stats.requeued++
			}
			if s.closed[j] && s.g[j] > tentative {
				s.closed[j] = false
				s.stats.reopened++
			}
			if !s.open.Contains(j) && !s.closed[j] {
				s.g[j] = tentative
				s.f[j] = tentative + heuristic(g.cells[j].Pos, goal)
				s.parent[j] = int32(current)
				s.open.Insert(j, s.f[j])
			}
		}
	}

	if current != gi {
		assertf(false, "navgrid: open set exhausted between %v and %v in component %d",
			start, goal, g.cells[si].Component)
		return nil, s.stats
	}
	return g.reconstruct(s, si, gi), s.stats
}

// reconstruct walks parent links back from goal and returns the path in
// start→goal order without the start cell.
func (g *Grid) reconstruct(s *search, si, gi int) []Pos {
	var path []Pos
	for i := gi; i != si; i = int(s.parent[i]) {
		if s.parent[i] == NoNeighbor || len(path) >= len(g.cells) {
			assertf(false, "navgrid: broken parent chain at %v", g.cells[i].Pos)
			return nil
		}
		path = append(path, g.cells[i].Pos)
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// heuristic is the straight-line distance between two positions.
func heuristic(a, b Pos) float32 {
	return float32(math.Hypot(float64(b.X-a.X), float64(b.Y-a.Y)))
}
