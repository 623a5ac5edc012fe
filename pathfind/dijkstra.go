package pathfind

import (
	"cmp"
	"slices"

	"github.com/samdwyer/torchbearer"
)

// CostField is a Dijkstra map: the minimum accumulated cost from the nearest
// source to every reachable cell. Sources hold cost 0 and unreachable cells
// are absent. A CostField is immutable once built and safe for concurrent
// reads.
type CostField struct {
	topology torchbearer.Topology
	sources  []torchbearer.Point
	costs    map[torchbearer.Point]float64
	parents  map[torchbearer.Point]torchbearer.Point
}

// DijkstraMap floods the map from all sources at once.
//
// If any source is out of bounds or impassable the returned field is empty.
// WithMaxCost keeps cells whose cost is at most the cutoff and drops the rest
// (sources are always kept, so a cutoff of 0 returns just the sources);
// WithMaxExpansions stops the flood early, leaving only closed cells.
func DijkstraMap(sources []torchbearer.Point, m torchbearer.Map, topology torchbearer.Topology, opts ...Option) *CostField {
	options := buildOptions(opts)
	stats := Stats{}
	defer func() {
		if options.Stats != nil {
			*options.Stats = stats
		}
	}()

	field := &CostField{
		topology: topology,
		costs:    make(map[torchbearer.Point]float64),
		parents:  make(map[torchbearer.Point]torchbearer.Point),
	}
	if !topology.Valid() || len(sources) == 0 {
		return field
	}
	for _, source := range sources {
		if !passable(m, source) {
			return field
		}
	}

	openSet := newFrontier()
	best := make(map[torchbearer.Point]float64, len(sources))
	for _, source := range sources {
		if _, dup := best[source]; dup {
			continue
		}
		best[source] = 0
		field.sources = append(field.sources, source)
		openSet.push(source, 0, 0)
		stats.Pushed++
	}

	for openSet.len() > 0 && options.expansionsLeft(stats.Expanded) {
		current, _ := openSet.pop()
		if _, closed := field.costs[current.point]; closed || current.g > best[current.point] {
			continue
		}
		field.costs[current.point] = current.g
		stats.Expanded++

		for _, dir := range topology.Directions() {
			next := current.point.Add(dir)
			if !m.InBounds(next) {
				continue
			}
			if _, closed := field.costs[next]; closed {
				continue
			}
			cost, ok := m.MovementCost(next)
			if !ok {
				continue
			}
			tentative := current.g + topology.StepCost(dir)*cost
			if !options.costAllowed(tentative) {
				continue
			}
			if known, seen := best[next]; seen && tentative >= known {
				continue
			}
			best[next] = tentative
			field.parents[next] = current.point
			openSet.push(next, tentative, 0)
			stats.Pushed++
		}
	}

	// An expansion cap can leave tentative parents for cells never closed.
	for p := range field.parents {
		if _, closed := field.costs[p]; !closed {
			delete(field.parents, p)
		}
	}
	return field
}

// Topology returns the topology the field was built with.
func (f *CostField) Topology() torchbearer.Topology {
	return f.topology
}

// Sources returns the distinct sources in the order given.
func (f *CostField) Sources() []torchbearer.Point {
	return slices.Clone(f.sources)
}

// Len returns the number of reachable cells, sources included.
func (f *CostField) Len() int {
	return len(f.costs)
}

// Cost returns the cost of the cheapest route from any source to p.
func (f *CostField) Cost(p torchbearer.Point) (float64, bool) {
	cost, ok := f.costs[p]
	return cost, ok
}

// Contains reports whether p is reachable.
func (f *CostField) Contains(p torchbearer.Point) bool {
	_, ok := f.costs[p]
	return ok
}

// Points returns every reachable cell sorted by row, then column.
func (f *CostField) Points() []torchbearer.Point {
	points := make([]torchbearer.Point, 0, len(f.costs))
	for p := range f.costs {
		points = append(points, p)
	}
	slices.SortFunc(points, comparePoints)
	return points
}

// Parent returns the predecessor of p on the shortest-path tree. Sources and
// unreachable cells have none.
func (f *CostField) Parent(p torchbearer.Point) (torchbearer.Point, bool) {
	parent, ok := f.parents[p]
	return parent, ok
}

// Route returns the tree path from the nearest source to p. Its cost equals
// the field value at p.
func (f *CostField) Route(p torchbearer.Point) (Path, bool) {
	cost, ok := f.costs[p]
	if !ok {
		return Path{}, false
	}
	points := []torchbearer.Point{p}
	for current := p; ; {
		parent, ok := f.parents[current]
		if !ok {
			break
		}
		points = append(points, parent)
		current = parent
	}
	slices.Reverse(points)
	return Path{Points: points, Cost: cost}, true
}

// NextStep picks the neighbour of from with the lowest field value below
// from's own, i.e. one step downhill towards the nearest source. Ties go to
// the earlier direction in the topology's order.
func (f *CostField) NextStep(from torchbearer.Point) (torchbearer.Point, bool) {
	return f.step(from, func(candidate, best float64) bool { return candidate < best })
}

// FleeStep picks the neighbour of from with the highest field value above
// from's own, i.e. one step uphill away from every source.
func (f *CostField) FleeStep(from torchbearer.Point) (torchbearer.Point, bool) {
	return f.step(from, func(candidate, best float64) bool { return candidate > best })
}

func (f *CostField) step(from torchbearer.Point, better func(candidate, best float64) bool) (torchbearer.Point, bool) {
	best, ok := f.costs[from]
	if !ok {
		return torchbearer.Point{}, false
	}
	var (
		choice torchbearer.Point
		found  bool
	)
	for _, dir := range f.topology.Directions() {
		next := from.Add(dir)
		cost, ok := f.costs[next]
		if ok && better(cost, best) {
			best = cost
			choice = next
			found = true
		}
	}
	return choice, found
}

func comparePoints(a, b torchbearer.Point) int {
	if c := cmp.Compare(a.Y, b.Y); c != 0 {
		return c
	}
	return cmp.Compare(a.X, b.X)
}
