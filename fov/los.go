package fov

import (
	"github.com/samdwyer/torchbearer"
	"github.com/samdwyer/torchbearer/bresenham"
)

// LineOfSight casts a Bresenham ray and reports whether no opaque cell lies
// strictly between from and to. Both ends must be in bounds; their own
// opacity does not matter. Rays are not symmetric in general: swapping the
// ends can pick different cells, so use FieldOfView when both sides must
// agree.
func LineOfSight(from, to torchbearer.Point, m torchbearer.Map) bool {
	if !m.InBounds(from) || !m.InBounds(to) {
		return false
	}
	for p := range bresenham.Line(from, to) {
		if p == from || p == to {
			continue
		}
		if !m.InBounds(p) || m.IsOpaque(p) {
			return false
		}
	}
	return true
}
