package torchbearer

import "math"

// Metric selects how distance between two cells is measured.
type Metric int

const (
	// Euclidean is the straight-line distance between cell centres.
	Euclidean Metric = iota
	// Manhattan counts orthogonal steps. Exact for 4-directional movement.
	Manhattan
	// Chebyshev counts king moves. Exact for 8-directional movement where a
	// diagonal step costs the same as an orthogonal one.
	Chebyshev
	// Octile counts 8-directional steps where a diagonal costs sqrt(2).
	Octile
)

// Distance returns the distance from a to b under m.
func (m Metric) Distance(a, b Point) float64 {
	switch m {
	case Manhattan:
		return manhattan(a, b)
	case Chebyshev:
		return chebyshev(a, b)
	case Octile:
		return octile(a, b)
	default:
		return euclidean(a, b)
	}
}

// Within reports whether b lies at distance radius or less from a. The
// Euclidean case compares squared integers so cells exactly on the radius are
// never lost to rounding.
func (m Metric) Within(a, b Point, radius float64) bool {
	if radius < 0 {
		return false
	}
	if m == Euclidean {
		dx, dy := abs(a.X-b.X), abs(a.Y-b.Y)
		return float64(dx*dx+dy*dy) <= radius*radius
	}
	return m.Distance(a, b) <= radius
}

// String returns the metric name.
func (m Metric) String() string {
	switch m {
	case Euclidean:
		return "euclidean"
	case Manhattan:
		return "manhattan"
	case Chebyshev:
		return "chebyshev"
	case Octile:
		return "octile"
	default:
		return "unknown"
	}
}

// manhattan returns |dx| + |dy|.
func manhattan(a, b Point) float64 {
	return float64(abs(a.X-b.X) + abs(a.Y-b.Y))
}

// chebyshev returns max(|dx|, |dy|).
func chebyshev(a, b Point) float64 {
	return float64(max(abs(a.X-b.X), abs(a.Y-b.Y)))
}

// octile returns the cost of the cheapest 8-directional walk on an open grid
// with unit orthogonal steps and sqrt(2) diagonal steps.
func octile(a, b Point) float64 {
	dx, dy := abs(a.X-b.X), abs(a.Y-b.Y)
	lo, hi := min(dx, dy), max(dx, dy)
	return float64(hi-lo) + math.Sqrt2*float64(lo)
}

// euclidean returns the straight-line distance.
func euclidean(a, b Point) float64 {
	dx, dy := float64(a.X-b.X), float64(a.Y-b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
