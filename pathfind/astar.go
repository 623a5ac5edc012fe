// Package pathfind finds shortest paths and cost fields on caller-defined
// grids.
//
// FindPath runs A* from one start to one goal. DijkstraMap floods outward from
// any number of sources and records the cheapest cost to every reachable cell,
// which is the building block for "approach the nearest target" and "flee"
// behaviours. Both read the map only through torchbearer.Map and report an
// unreachable or invalid query as an empty result, never as an error.
package pathfind

import (
	"github.com/samdwyer/torchbearer"
)

// Path is a walk from a start cell to a goal cell, both included.
type Path struct {
	Points []torchbearer.Point
	Cost   float64
}

// Len returns the number of cells in the path.
func (p Path) Len() int {
	return len(p.Points)
}

// Start returns the first cell. It panics on an empty path.
func (p Path) Start() torchbearer.Point {
	return p.Points[0]
}

// Goal returns the last cell. It panics on an empty path.
func (p Path) Goal() torchbearer.Point {
	return p.Points[len(p.Points)-1]
}

// Clone returns a copy that shares no memory with p.
func (p Path) Clone() Path {
	if p.Points == nil {
		return p
	}
	points := make([]torchbearer.Point, len(p.Points))
	copy(points, p.Points)
	return Path{Points: points, Cost: p.Cost}
}

// FindPath returns the cheapest path from start to goal.
//
// The step cost into a cell is topology.StepCost(direction) times the cell's
// MovementCost. The second result is false when no path exists, when start or
// goal is out of bounds or impassable, or when a search limit from opts is hit
// before the goal is reached. Among equal-cost paths the same one is returned
// on every call with the same inputs.
func FindPath(start, goal torchbearer.Point, m torchbearer.Map, topology torchbearer.Topology, opts ...Option) (Path, bool) {
	options := buildOptions(opts)
	stats := Stats{}
	defer func() {
		if options.Stats != nil {
			*options.Stats = stats
		}
	}()

	if !topology.Valid() || !passable(m, start) || !passable(m, goal) {
		return Path{}, false
	}
	if start == goal {
		stats.Expanded = 1
		return Path{Points: []torchbearer.Point{start}, Cost: 0}, true
	}

	heuristic := func(p torchbearer.Point) float64 {
		return topology.Heuristic(p, goal) * options.CostFloor
	}

	openSet := newFrontier()
	openSet.push(start, 0, heuristic(start))
	stats.Pushed++

	cameFrom := make(map[torchbearer.Point]torchbearer.Point)
	pathCostFromStart := map[torchbearer.Point]float64{start: 0}
	closedSet := make(map[torchbearer.Point]bool)

	for openSet.len() > 0 && options.expansionsLeft(stats.Expanded) {
		current, _ := openSet.pop()

		// Skip entries superseded by a cheaper route or already closed
		if closedSet[current.point] || current.g > pathCostFromStart[current.point] {
			continue
		}
		closedSet[current.point] = true
		stats.Expanded++

		if current.point == goal {
			return Path{
				Points: reconstructPath(cameFrom, goal, start),
				Cost:   current.g,
			}, true
		}

		for _, dir := range topology.Directions() {
			next := current.point.Add(dir)
			if !m.InBounds(next) || closedSet[next] {
				continue
			}
			cost, ok := m.MovementCost(next)
			if !ok {
				continue
			}
			tentativeG := current.g + topology.StepCost(dir)*cost
			if !options.costAllowed(tentativeG) {
				continue
			}
			if known, seen := pathCostFromStart[next]; seen && tentativeG >= known {
				continue
			}
			pathCostFromStart[next] = tentativeG
			cameFrom[next] = current.point
			openSet.push(next, tentativeG, heuristic(next))
			stats.Pushed++
		}
	}

	return Path{}, false
}

// passable reports whether p exists and can be entered.
func passable(m torchbearer.Map, p torchbearer.Point) bool {
	if !m.InBounds(p) {
		return false
	}
	_, ok := m.MovementCost(p)
	return ok
}

// reconstructPath walks predecessor links back from current to start.
func reconstructPath(
	cameFrom map[torchbearer.Point]torchbearer.Point,
	current torchbearer.Point,
	start torchbearer.Point,
) []torchbearer.Point {
	path := []torchbearer.Point{current}
	for current != start {
		previous, exists := cameFrom[current]
		if !exists {
			break
		}
		path = append(path, previous)
		current = previous
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
