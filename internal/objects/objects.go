// Package objects tracks fixed map objects (trees, stones) and the grid cells
// they make permanently unwalkable.
package objects

import (
	"fmt"
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"

	"github.com/Faultbox/terranav/internal/navgrid"
)

// Kind identifies an object type.
type Kind uint8

// Object kinds.
const (
	KindTree Kind = iota
	KindStone
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindTree:
		return "Tree"
	case KindStone:
		return "Stone"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Object is a fixed object standing on one grid cell.
type Object struct {
	Kind Kind
	Pos  navgrid.Pos
}

// Footprint returns the cell square the object covers, in cell units.
func (o Object) Footprint() orb.Bound {
	x, y := float64(o.Pos.X), float64(o.Pos.Y)
	return orb.Bound{Min: orb.Point{x, y}, Max: orb.Point{x + 1, y + 1}}
}

// entry wraps an object for R-tree storage.
type entry struct {
	obj  Object
	rect rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *entry) Bounds() rtreego.Rect {
	return e.rect
}

// Index holds at most one object per cell and answers region queries.
type Index struct {
	tree  *rtreego.Rtree
	cells map[navgrid.Pos]*entry
}

// NewIndex creates an empty object index.
func NewIndex() *Index {
	return &Index{
		tree:  rtreego.NewTree(2, 25, 50),
		cells: make(map[navgrid.Pos]*entry),
	}
}

// Add places an object. It returns false if the cell is already taken.
func (ix *Index) Add(o Object) bool {
	if _, taken := ix.cells[o.Pos]; taken {
		return false
	}
	e := &entry{obj: o, rect: boundToRect(o.Footprint())}
	ix.tree.Insert(e)
	ix.cells[o.Pos] = e
	return true
}

// Remove deletes the object on a cell. It returns false if the cell was empty.
func (ix *Index) Remove(p navgrid.Pos) bool {
	e, ok := ix.cells[p]
	if !ok {
		return false
	}
	ix.tree.Delete(e)
	delete(ix.cells, p)
	return true
}

// At returns the object on a cell.
func (ix *Index) At(p navgrid.Pos) (Object, bool) {
	e, ok := ix.cells[p]
	if !ok {
		return Object{}, false
	}
	return e.obj, true
}

// Len returns the number of objects.
func (ix *Index) Len() int {
	return len(ix.cells)
}

// InRegion returns the objects whose cells lie in the inclusive cell
// rectangle [minX..maxX]×[minY..maxY], in row-major order.
func (ix *Index) InRegion(minX, minY, maxX, maxY int) []Object {
	if maxX < minX || maxY < minY {
		return nil
	}
	region := orb.Bound{
		Min: orb.Point{float64(minX), float64(minY)},
		Max: orb.Point{float64(maxX + 1), float64(maxY + 1)},
	}

	var out []Object
	for _, s := range ix.tree.SearchIntersect(boundToRect(region)) {
		out = append(out, s.(*entry).obj)
	}
	sortRowMajor(out)
	return out
}

// All returns every object in row-major order.
func (ix *Index) All() []Object {
	out := make([]Object, 0, len(ix.cells))
	for _, e := range ix.cells {
		out = append(out, e.obj)
	}
	sortRowMajor(out)
	return out
}

// Occupied returns the positions of all objects, row-major. This is the
// occupancy list navigation marks unwalkable.
func (ix *Index) Occupied() []navgrid.Pos {
	objs := ix.All()
	out := make([]navgrid.Pos, len(objs))
	for i, o := range objs {
		out[i] = o.Pos
	}
	return out
}

// CountByKind returns the number of objects of each kind.
func (ix *Index) CountByKind() map[Kind]int {
	counts := make(map[Kind]int)
	for _, e := range ix.cells {
		counts[e.obj.Kind]++
	}
	return counts
}

// boundToRect converts a non-degenerate bound to an R-tree rectangle.
func boundToRect(b orb.Bound) rtreego.Rect {
	r, err := rtreego.NewRect(
		rtreego.Point{b.Min[0], b.Min[1]},
		[]float64{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1]},
	)
	if err != nil {
		panic(fmt.Sprintf("objects: degenerate bound %v: %v", b, err))
	}
	return r
}

func sortRowMajor(objs []Object) {
	sort.Slice(objs, func(i, j int) bool {
		if objs[i].Pos.Y != objs[j].Pos.Y {
			return objs[i].Pos.Y < objs[j].Pos.Y
		}
		return objs[i].Pos.X < objs[j].Pos.X
	})
}
