package world

import "github.com/Faultbox/terranav/internal/navgrid"

// PathSource answers path queries. *Manager satisfies it; GridSource adapts
// a bare grid.
type PathSource interface {
	FindPath(start, goal navgrid.Pos) []navgrid.Pos
	IsWalkable(x, y int) bool
}

// gridSource adapts *navgrid.Grid to PathSource.
type gridSource struct{ g *navgrid.Grid }

func (s gridSource) FindPath(start, goal navgrid.Pos) []navgrid.Pos { return s.g.FindPath(start, goal) }
func (s gridSource) IsWalkable(x, y int) bool                       { return s.g.Walkable(x, y) }

// GridSource wraps a grid for use with a MovementController.
func GridSource(g *navgrid.Grid) PathSource { return gridSource{g} }

// MovementController walks an agent along planned paths, one waypoint at a
// time. Paths are planned once per MoveTo; the controller never replans.
type MovementController struct {
	source PathSource
	agent  *Agent

	path      []navgrid.Pos
	pathIndex int

	IsFollowingPath bool
}

// NewMovementController creates a new movement controller.
func NewMovementController(source PathSource, agent *Agent) *MovementController {
	return &MovementController{
		source: source,
		agent:  agent,
	}
}

// SetAgent sets the agent to control.
func (mc *MovementController) SetAgent(agent *Agent) {
	mc.agent = agent
	mc.ClearPath()
}

// MoveTo plans a path from the agent's cell to dest and starts following it.
// Returns the path if one exists, nil otherwise.
func (mc *MovementController) MoveTo(dest navgrid.Pos) []navgrid.Pos {
	if mc.agent == nil || mc.source == nil {
		return nil
	}

	path := mc.source.FindPath(mc.agent.Cell(), dest)
	if len(path) == 0 {
		return nil
	}

	// The path already excludes the agent's own cell.
	mc.path = path
	mc.pathIndex = 0
	mc.IsFollowingPath = true
	mc.setNextWaypoint()

	return path
}

// Update advances the agent and hands it the next waypoint on arrival.
// deltaMs is the time since last update in milliseconds.
func (mc *MovementController) Update(deltaMs float32) {
	if mc.agent == nil {
		return
	}

	mc.agent.Update(deltaMs)

	if mc.IsFollowingPath && !mc.agent.HasDestination && mc.pathIndex < len(mc.path) {
		mc.setNextWaypoint()
	}

	if mc.IsFollowingPath && mc.pathIndex >= len(mc.path) && !mc.agent.HasDestination {
		mc.IsFollowingPath = false
	}
}

// ClearPath stops the current path following.
func (mc *MovementController) ClearPath() {
	mc.path = nil
	mc.pathIndex = 0
	mc.IsFollowingPath = false
	if mc.agent != nil {
		mc.agent.ClearDestination()
	}
}

// Path returns the current path.
func (mc *MovementController) Path() []navgrid.Pos {
	return mc.path
}

// PathIndex returns how many waypoints have been handed to the agent.
func (mc *MovementController) PathIndex() int {
	return mc.pathIndex
}

// Remaining returns the waypoints not yet handed to the agent.
func (mc *MovementController) Remaining() []navgrid.Pos {
	return mc.path[mc.pathIndex:]
}

func (mc *MovementController) setNextWaypoint() {
	if mc.pathIndex >= len(mc.path) {
		return
	}

	x, y := CellCenter(mc.path[mc.pathIndex])
	mc.agent.SetDestination(x, y)
	mc.pathIndex++
}

// CanWalkTo checks if a cell is walkable.
func (mc *MovementController) CanWalkTo(p navgrid.Pos) bool {
	if mc.source == nil {
		return false
	}
	return mc.source.IsWalkable(p.X, p.Y)
}
