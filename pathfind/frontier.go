package pathfind

import (
	"github.com/zyedidia/generic/heap"

	"github.com/samdwyer/torchbearer"
)

// frontierItem is one entry of the open set. Entries are never updated in
// place: a cheaper route pushes a new entry and the stale one is skipped when
// popped.
type frontierItem struct {
	point torchbearer.Point
	g     float64 // cost from the start
	f     float64 // g plus heuristic
	h     float64
	seq   uint64 // insertion order, last tie-breaker
}

// less orders by f, then by h so entries nearer the goal go first, then by
// insertion order. The result is a total order, so expansion is reproducible.
func less(a, b frontierItem) bool {
	if a.f != b.f {
		return a.f < b.f
	}
	if a.h != b.h {
		return a.h < b.h
	}
	return a.seq < b.seq
}

type frontier struct {
	items *heap.Heap[frontierItem]
	seq   uint64
}

func newFrontier() *frontier {
	return &frontier{items: heap.New[frontierItem](less)}
}

func (f *frontier) push(p torchbearer.Point, g, h float64) {
	f.items.Push(frontierItem{point: p, g: g, f: g + h, h: h, seq: f.seq})
	f.seq++
}

func (f *frontier) pop() (frontierItem, bool) {
	return f.items.Pop()
}

func (f *frontier) len() int {
	return f.items.Size()
}
