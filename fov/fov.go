// Package fov computes what can be seen from a cell.
//
// FieldOfView uses symmetric shadow-casting: the area around the origin is
// split into eight octants and each is scanned row by row moving outward,
// narrowing the visible arc whenever a row meets an opaque cell. Slopes are
// kept as exact integer fractions so results do not depend on floating point
// rounding. A transparent cell is visible only when its centre lies inside the
// arc, which makes visibility between transparent cells symmetric: if A sees
// B then B sees A. Opaque cells are visible whenever any part of them is lit,
// so the faces of walls show up.
package fov

import (
	"math"

	"github.com/samdwyer/torchbearer"
)

// maxDepth bounds the rows scanned per octant. It keeps slope arithmetic well
// inside int64 when the radius is huge or infinite.
const maxDepth = 1 << 24

// Option is a function that modifies the computation.
type Option func(*options)

type options struct {
	metric torchbearer.Metric
	walls  bool
}

// WithMetric measures the radius with m instead of the Euclidean default.
func WithMetric(m torchbearer.Metric) Option {
	return func(o *options) { o.metric = m }
}

// WithoutWalls leaves opaque cells other than the origin out of the result.
func WithoutWalls() Option {
	return func(o *options) { o.walls = false }
}

// octants lists the transforms [xx, xy, yx, yy] mapping a row depth and
// column to an offset from the origin: dx = depth*xx + col*xy and
// dy = depth*yx + col*yy.
var octants = [8][4]int{
	{1, 0, 0, 1},
	{1, 0, 0, -1},
	{-1, 0, 0, 1},
	{-1, 0, 0, -1},
	{0, 1, 1, 0},
	{0, -1, 1, 0},
	{0, 1, -1, 0},
	{0, -1, -1, 0},
}

// FieldOfView returns every cell visible from origin within radius.
//
// The radius is measured with the Euclidean metric unless WithMetric says
// otherwise, and a cell exactly at the radius is included. The origin is
// always visible when it is in bounds; an origin out of bounds yields an empty
// set. A negative radius is treated as zero. Cells outside the map block sight
// and are never returned.
//
// Symmetry holds between transparent cells only. A wall is returned as soon as
// any part of it is lit, so a cell may see a wall whose own view does not
// reach back to that cell.
func FieldOfView(origin torchbearer.Point, radius float64, m torchbearer.Map, opts ...Option) VisibilitySet {
	o := options{metric: torchbearer.Euclidean, walls: true}
	for _, opt := range opts {
		opt(&o)
	}
	if !(radius >= 0) {
		radius = 0
	}

	v := newVisibilitySet(origin, radius)
	if !m.InBounds(origin) {
		return v
	}
	v.cells.Put(origin)

	depth := maxDepth
	if radius < maxDepth {
		depth = int(math.Floor(radius))
	}
	c := &caster{
		origin:   origin,
		radius:   radius,
		maxDepth: depth,
		m:        m,
		opts:     o,
		visible:  v,
	}
	for _, t := range octants {
		c.transform = t
		c.scan(1, slope{0, 1}, slope{1, 1})
	}
	return v
}

// slope is the exact fraction num/den with den > 0.
type slope struct {
	num, den int
}

// slopeAt returns the slope of the left edge of a cell in a row.
func slopeAt(depth, col int) slope {
	return slope{num: 2*col - 1, den: 2 * depth}
}

type caster struct {
	origin    torchbearer.Point
	radius    float64
	maxDepth  int
	m         torchbearer.Map
	opts      options
	visible   VisibilitySet
	transform [4]int
}

// scan walks one row of the current octant between the start and end slopes
// and recurses into the rows behind it.
func (c *caster) scan(depth int, start, end slope) {
	if depth > c.maxDepth {
		return
	}

	minCol := roundTiesUp(depth, start)
	maxCol := roundTiesDown(depth, end)

	var prevWall, scanned bool
	for col := minCol; col <= maxCol; col++ {
		p := c.cell(depth, col)
		wall := c.blocks(p)
		if wall || isSymmetric(depth, col, start, end) {
			c.reveal(p, wall)
		}
		if scanned {
			if prevWall && !wall {
				start = slopeAt(depth, col)
			}
			if !prevWall && wall {
				c.scan(depth+1, start, slopeAt(depth, col))
			}
		}
		prevWall, scanned = wall, true
	}
	if scanned && !prevWall {
		c.scan(depth+1, start, end)
	}
}

func (c *caster) cell(depth, col int) torchbearer.Point {
	t := c.transform
	return torchbearer.Point{
		X: c.origin.X + depth*t[0] + col*t[1],
		Y: c.origin.Y + depth*t[2] + col*t[3],
	}
}

// blocks treats cells outside the map as opaque.
func (c *caster) blocks(p torchbearer.Point) bool {
	return !c.m.InBounds(p) || c.m.IsOpaque(p)
}

func (c *caster) reveal(p torchbearer.Point, wall bool) {
	if wall && !c.opts.walls {
		return
	}
	if !c.m.InBounds(p) || !c.opts.metric.Within(c.origin, p, c.radius) {
		return
	}
	c.visible.cells.Put(p)
}

// isSymmetric reports whether the centre of the cell lies inside the arc,
// edges included.
func isSymmetric(depth, col int, start, end slope) bool {
	return col*start.den >= depth*start.num && col*end.den <= depth*end.num
}

// roundTiesUp returns depth*s rounded to the nearest integer, halves up.
func roundTiesUp(depth int, s slope) int {
	return floorDiv(2*depth*s.num+s.den, 2*s.den)
}

// roundTiesDown returns depth*s rounded to the nearest integer, halves down.
func roundTiesDown(depth int, s slope) int {
	return -floorDiv(-(2*depth*s.num - s.den), 2*s.den)
}

// floorDiv divides rounding towards negative infinity. b must be positive.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}
