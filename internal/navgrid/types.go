package navgrid

import (
	"fmt"

	"github.com/Faultbox/terranav/internal/terrain"
)

// Walkable cells cost strictly less than this.
const WalkableCostLimit = 0.5

// Cost bounds. Every cell's cost lies in [MinCost, MaxCost].
const (
	MinCost = 0.1
	MaxCost = 1.0
)

// NoNeighbor marks an empty neighbor slot.
const NoNeighbor int32 = -1

// Pos is a grid position.
type Pos struct {
	X, Y int
}

// String returns the position as "(x,y)".
func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Add returns p shifted by an offset.
func (p Pos) Add(dx, dy int) Pos {
	return Pos{X: p.X + dx, Y: p.Y + dy}
}

// IsAdjacent reports whether q is one of p's 8 neighbors.
func (p Pos) IsAdjacent(q Pos) bool {
	dx, dy := abs(p.X-q.X), abs(p.Y-q.Y)
	return dx <= 1 && dy <= 1 && (dx != 0 || dy != 0)
}

// Dir is a neighbor slot. The order is fixed: slot lookups and Opposite
// depend on it.
type Dir uint8

// Neighbor slots in table order. Y grows southward.
const (
	NW Dir = iota
	N
	NE
	W
	E
	SW
	S
	SE
	NumDirs = 8
)

var dirOffsets = [NumDirs][2]int{
	{-1, -1}, // NW
	{0, -1},  // N
	{1, -1},  // NE
	{-1, 0},  // W
	{1, 0},   // E
	{-1, 1},  // SW
	{0, 1},   // S
	{1, 1},   // SE
}

var dirNames = [NumDirs]string{"NW", "N", "NE", "W", "E", "SW", "S", "SE"}

// Offset returns the (dx, dy) step for the direction.
func (d Dir) Offset() (dx, dy int) {
	o := dirOffsets[d]
	return o[0], o[1]
}

// Opposite returns the reverse direction. With this slot order it is 7-d.
func (d Dir) Opposite() Dir {
	return NumDirs - 1 - d
}

// String returns the compass name.
func (d Dir) String() string {
	if d >= NumDirs {
		return fmt.Sprintf("Dir(%d)", d)
	}
	return dirNames[d]
}

// Cell is one grid position's walkability, cost and connectivity record.
// Values handed out by Grid are copies; the grid itself is read-only once built.
type Cell struct {
	Pos       Pos
	Elevation float32
	Class     terrain.Class
	Cost      float32
	Walkable  bool
	Occupied  bool // forced unwalkable by a fixed object
	Component int  // >= 0 for walkable islands, unique < 0 for each unwalkable cell
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
