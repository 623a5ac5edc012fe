package torchbearer

import (
	"fmt"
	"math"
)

// Topology is a neighbour set together with its step costs and the heuristic
// that stays admissible and consistent for it. The heuristic is not tunable:
// pairing a topology with a heuristic that overestimates would break path
// optimality, so each Topology carries its own.
type Topology int

const (
	// FourWay moves N, E, S and W at unit cost. Heuristic: Manhattan.
	FourWay Topology = iota
	// EightWay adds diagonals at sqrt(2). Heuristic: Octile.
	EightWay
	// EightWayUniform adds diagonals at unit cost. Heuristic: Chebyshev.
	EightWayUniform
)

// Direction offsets in the order every search visits them. Orthogonal
// directions come first so equal-cost ties prefer straight moves.
var (
	orthogonal = []Point{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	allEight   = []Point{{0, -1}, {1, 0}, {0, 1}, {-1, 0}, {1, -1}, {1, 1}, {-1, 1}, {-1, -1}}
)

// Valid reports whether t is one of the defined topologies.
func (t Topology) Valid() bool {
	return t >= FourWay && t <= EightWayUniform
}

// Directions returns the neighbour offsets in fixed order: N, E, S, W, then
// NE, SE, SW, NW for the 8-directional topologies. The slice is shared and
// must not be modified.
func (t Topology) Directions() []Point {
	if t == FourWay {
		return orthogonal
	}
	return allEight
}

// StepCost returns the multiplier applied to the destination's movement cost
// for a step along dir.
func (t Topology) StepCost(dir Point) float64 {
	if t == EightWay && dir.X != 0 && dir.Y != 0 {
		return math.Sqrt2
	}
	return 1
}

// Metric returns the metric used as heuristic for t.
func (t Topology) Metric() Metric {
	switch t {
	case EightWay:
		return Octile
	case EightWayUniform:
		return Chebyshev
	default:
		return Manhattan
	}
}

// Heuristic estimates the cost from a to b on an open grid of unit cells.
func (t Topology) Heuristic(a, b Point) float64 {
	return t.Metric().Distance(a, b)
}

// String returns the topology name.
func (t Topology) String() string {
	switch t {
	case FourWay:
		return "four-way"
	case EightWay:
		return "eight-way"
	case EightWayUniform:
		return "eight-way-uniform"
	default:
		return "invalid"
	}
}

// ParseTopology returns the topology named by s, as printed by String.
func ParseTopology(s string) (Topology, error) {
	for _, t := range []Topology{FourWay, EightWay, EightWayUniform} {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown topology %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Topology) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid topology %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Topology) UnmarshalText(text []byte) error {
	parsed, err := ParseTopology(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
