package fov

import (
	"cmp"
	"slices"

	"github.com/zyedidia/generic/mapset"

	"github.com/samdwyer/torchbearer"
)

// VisibilitySet is the result of a field of view computation. It is not
// modified after FieldOfView returns and is safe for concurrent reads.
type VisibilitySet struct {
	origin torchbearer.Point
	radius float64
	cells  mapset.Set[torchbearer.Point]
}

func newVisibilitySet(origin torchbearer.Point, radius float64) VisibilitySet {
	return VisibilitySet{
		origin: origin,
		radius: radius,
		cells:  mapset.New[torchbearer.Point](),
	}
}

// Origin returns the cell the view was computed from.
func (v VisibilitySet) Origin() torchbearer.Point {
	return v.origin
}

// Radius returns the radius used, after negative values were clamped to zero.
func (v VisibilitySet) Radius() float64 {
	return v.radius
}

// Contains reports whether p is visible.
func (v VisibilitySet) Contains(p torchbearer.Point) bool {
	return v.cells.Has(p)
}

// Len returns the number of visible cells.
func (v VisibilitySet) Len() int {
	return v.cells.Size()
}

// Each calls fn for every visible cell in no particular order.
func (v VisibilitySet) Each(fn func(p torchbearer.Point)) {
	v.cells.Each(fn)
}

// Points returns the visible cells sorted by row, then column.
func (v VisibilitySet) Points() []torchbearer.Point {
	points := make([]torchbearer.Point, 0, v.Len())
	v.cells.Each(func(p torchbearer.Point) {
		points = append(points, p)
	})
	slices.SortFunc(points, func(a, b torchbearer.Point) int {
		if c := cmp.Compare(a.Y, b.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.X, b.X)
	})
	return points
}
