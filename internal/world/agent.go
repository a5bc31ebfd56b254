package world

import (
	"math"

	"github.com/Faultbox/terranav/internal/navgrid"
)

// arrivalThreshold is how close, in cells, an agent must get to its
// destination to count as arrived.
const arrivalThreshold = 0.05

// Agent is a point moving over the map in cell units. Cell (x, y) spans
// [x, x+1) × [y, y+1); its center is (x+0.5, y+0.5).
type Agent struct {
	X, Y      float32
	MoveSpeed float32 // cells per second
	Facing    navgrid.Dir
	IsMoving  bool

	DestX          float32
	DestY          float32
	HasDestination bool
}

// NewAgent creates an agent standing at the center of cell p.
func NewAgent(p navgrid.Pos, speed float32) *Agent {
	x, y := CellCenter(p)
	return &Agent{
		X:         x,
		Y:         y,
		MoveSpeed: speed,
		Facing:    navgrid.S,
	}
}

// Cell returns the cell the agent stands in.
func (a *Agent) Cell() navgrid.Pos {
	return navgrid.Pos{X: int(math.Floor(float64(a.X))), Y: int(math.Floor(float64(a.Y)))}
}

// SetDestination sets a point to walk toward.
func (a *Agent) SetDestination(x, y float32) {
	a.DestX = x
	a.DestY = y
	a.HasDestination = true
}

// ClearDestination stops the agent where it stands.
func (a *Agent) ClearDestination() {
	a.HasDestination = false
	a.IsMoving = false
}

// Update moves the agent toward its destination.
// deltaMs is the time since last update in milliseconds.
// Returns true if the agent's state changed.
func (a *Agent) Update(deltaMs float32) bool {
	if !a.HasDestination {
		return false
	}

	dx := a.DestX - a.X
	dy := a.DestY - a.Y
	dist := float32(math.Hypot(float64(dx), float64(dy)))

	if dist < arrivalThreshold {
		a.X, a.Y = a.DestX, a.DestY
		a.HasDestination = false
		a.IsMoving = false
		return true
	}

	moveAmount := a.MoveSpeed * deltaMs / 1000.0
	if moveAmount >= dist {
		a.X, a.Y = a.DestX, a.DestY
		a.HasDestination = false
		a.IsMoving = false
	} else {
		a.X += (dx / dist) * moveAmount
		a.Y += (dy / dist) * moveAmount
		a.IsMoving = true
	}
	a.Facing = facing(dx, dy)
	return true
}

// facing snaps a movement vector to the nearest of the 8 neighbor directions.
func facing(dx, dy float32) navgrid.Dir {
	sx, sy := sign(dx, dy), sign(dy, dx)
	for d := navgrid.Dir(0); d < navgrid.NumDirs; d++ {
		ox, oy := d.Offset()
		if ox == sx && oy == sy {
			return d
		}
	}
	return navgrid.S
}

// sign returns the step of v along its axis, treating v as zero when it is
// small next to the other component (tan 22.5° ≈ 0.414).
func sign(v, other float32) int {
	av, ao := float32(math.Abs(float64(v))), float32(math.Abs(float64(other)))
	if av < ao*0.414 {
		return 0
	}
	if v < 0 {
		return -1
	}
	if v > 0 {
		return 1
	}
	return 0
}

// CellCenter returns the center of cell p in agent coordinates.
func CellCenter(p navgrid.Pos) (float32, float32) {
	return float32(p.X) + 0.5, float32(p.Y) + 0.5
}
