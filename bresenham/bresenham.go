// Package bresenham rasterises straight lines between grid cells.
package bresenham

import (
	"iter"

	"github.com/samdwyer/torchbearer"
)

// octant maps any line onto the first octant (0 <= dy <= dx) and back.
type octant uint8

func octantOf(from, to torchbearer.Point) octant {
	dx := to.X - from.X
	dy := to.Y - from.Y

	var o octant
	if dy < 0 {
		dx, dy = -dx, -dy
		o += 4
	}
	if dx < 0 {
		dx, dy = dy, -dx
		o += 2
	}
	if dx < dy {
		o++
	}
	return o
}

func (o octant) toFirst(p torchbearer.Point) torchbearer.Point {
	x, y := p.X, p.Y
	switch o {
	case 1:
		return torchbearer.Point{X: y, Y: x}
	case 2:
		return torchbearer.Point{X: y, Y: -x}
	case 3:
		return torchbearer.Point{X: -x, Y: y}
	case 4:
		return torchbearer.Point{X: -x, Y: -y}
	case 5:
		return torchbearer.Point{X: -y, Y: -x}
	case 6:
		return torchbearer.Point{X: -y, Y: x}
	case 7:
		return torchbearer.Point{X: x, Y: -y}
	default:
		return p
	}
}

func (o octant) fromFirst(p torchbearer.Point) torchbearer.Point {
	x, y := p.X, p.Y
	switch o {
	case 1:
		return torchbearer.Point{X: y, Y: x}
	case 2:
		return torchbearer.Point{X: -y, Y: x}
	case 3:
		return torchbearer.Point{X: -x, Y: y}
	case 4:
		return torchbearer.Point{X: -x, Y: -y}
	case 5:
		return torchbearer.Point{X: -y, Y: -x}
	case 6:
		return torchbearer.Point{X: y, Y: -x}
	case 7:
		return torchbearer.Point{X: x, Y: -y}
	default:
		return p
	}
}

// Line yields every cell on the segment from `from` to `to`, both included,
// using the integer Bresenham algorithm.
func Line(from, to torchbearer.Point) iter.Seq[torchbearer.Point] {
	return func(yield func(torchbearer.Point) bool) {
		o := octantOf(from, to)
		start := o.toFirst(from)
		end := o.toFirst(to)

		dx := end.X - start.X
		dy := end.Y - start.Y
		diff := dy - dx

		x, y := start.X, start.Y
		for x < end.X {
			if !yield(o.fromFirst(torchbearer.Point{X: x, Y: y})) {
				return
			}
			if diff >= 0 {
				y++
				diff -= dx
			}
			diff += dy
			x++
		}
		yield(o.fromFirst(end))
	}
}

// Points collects Line into a slice.
func Points(from, to torchbearer.Point) []torchbearer.Point {
	n := max(abs(to.X-from.X), abs(to.Y-from.Y)) + 1
	points := make([]torchbearer.Point, 0, n)
	for p := range Line(from, to) {
		points = append(points, p)
	}
	return points
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
