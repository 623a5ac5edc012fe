// Package torchbearer provides map-agnostic grid algorithms for roguelikes and
// other grid simulations: A* pathfinding, Dijkstra cost fields and symmetric
// field of view.
//
// The caller owns the map. It implements Map over whatever storage it uses and
// hands it to the pathfind and fov packages for the duration of a single call.
// Results are plain values that carry no reference back to the map.
package torchbearer

import "fmt"

// Point identifies a grid cell. Negative coordinates are allowed; the Map
// decides which points exist.
type Point struct {
	X, Y int
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Sub returns the offset from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// String returns the point as "(x,y)".
func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Map is the query capability the algorithms need from a caller's grid.
//
// The library calls IsOpaque and MovementCost only for points where InBounds
// returned true, so implementations need not bounds-check again. All three
// methods must return the same answer for the same point for the whole
// duration of a call; a map that changes mid-search gives undefined results.
// If calls run concurrently the implementation must allow concurrent reads.
type Map interface {
	// InBounds reports whether p is a cell of the map.
	InBounds(p Point) bool

	// IsOpaque reports whether p blocks sight. An opaque cell can be seen but
	// not seen through.
	IsOpaque(p Point) bool

	// MovementCost returns the cost of entering p. ok is false when p is
	// impassable; otherwise cost is finite and positive.
	MovementCost(p Point) (cost float64, ok bool)
}
