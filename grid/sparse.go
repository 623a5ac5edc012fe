package grid

import (
	"fmt"
	"sync"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"

	"github.com/samdwyer/torchbearer"
)

// override is a rectangle of identical tiles stored in the R-tree.
type override struct {
	rect rtreego.Rect
	tile Tile
	seq  int
}

// Bounds implements rtreego.Spatial interface
func (o *override) Bounds() rtreego.Rect {
	return o.rect
}

// Sparse is a map whose cells default to one tile and are overridden by
// rectangles. It suits large, mostly uniform areas where a dense slice would
// waste memory. Later rectangles win where they overlap.
type Sparse struct {
	mu       sync.RWMutex
	bounds   orb.Bound
	fallback Tile
	tree     *rtreego.Rtree
	count    int
}

var _ torchbearer.Map = (*Sparse)(nil)

// NewSparse creates a map covering the rectangle spanned by a and b,
// inclusive, where every cell is fallback until overridden.
func NewSparse(a, b torchbearer.Point, fallback Tile) *Sparse {
	lo, hi := corners(a, b)
	return &Sparse{
		bounds: orb.Bound{
			Min: orb.Point{float64(lo.X), float64(lo.Y)},
			Max: orb.Point{float64(hi.X), float64(hi.Y)},
		},
		fallback: fallback,
		tree:     rtreego.NewTree(2, 25, 50), // 2D, min 25, max 50 entries per node
	}
}

// Fill overrides every cell in the rectangle spanned by a and b, inclusive.
func (s *Sparse) Fill(a, b torchbearer.Point, t Tile) error {
	if !t.Valid() {
		return fmt.Errorf("fill with %q: %w", rune(t), ErrUnknownTile)
	}
	lo, hi := corners(a, b)
	rect, err := rtreego.NewRect(
		rtreego.Point{float64(lo.X), float64(lo.Y)},
		[]float64{float64(hi.X-lo.X) + 1, float64(hi.Y-lo.Y) + 1},
	)
	if err != nil {
		return fmt.Errorf("fill %v-%v: %w", lo, hi, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.count++
	s.tree.Insert(&override{rect: rect, tile: t, seq: s.count})
	return nil
}

// Set overrides a single cell.
func (s *Sparse) Set(p torchbearer.Point, t Tile) error {
	return s.Fill(p, p, t)
}

// Overrides returns the number of rectangles stored.
func (s *Sparse) Overrides() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count
}

// Tile returns the tile at p. Points outside the bounds read as walls.
func (s *Sparse) Tile(p torchbearer.Point) Tile {
	if !s.InBounds(p) {
		return TileWall
	}

	// A probe strictly inside the cell avoids any ambiguity on shared edges.
	probe, err := rtreego.NewRect(
		rtreego.Point{float64(p.X) + 0.25, float64(p.Y) + 0.25},
		[]float64{0.5, 0.5},
	)
	if err != nil {
		return s.fallback
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	tile, latest := s.fallback, 0
	for _, item := range s.tree.SearchIntersect(probe) {
		o := item.(*override)
		if o.seq > latest {
			tile, latest = o.tile, o.seq
		}
	}
	return tile
}

// InBounds returns true if p lies inside the map's bounds.
func (s *Sparse) InBounds(p torchbearer.Point) bool {
	return s.bounds.Contains(orb.Point{float64(p.X), float64(p.Y)})
}

// IsOpaque returns true if the tile at p blocks sight.
func (s *Sparse) IsOpaque(p torchbearer.Point) bool {
	return s.Tile(p).IsOpaque()
}

// MovementCost returns the cost of entering p.
func (s *Sparse) MovementCost(p torchbearer.Point) (float64, bool) {
	return s.Tile(p).MovementCost()
}

// corners orders two points into top-left and bottom-right corners.
func corners(a, b torchbearer.Point) (torchbearer.Point, torchbearer.Point) {
	return torchbearer.Point{X: min(a.X, b.X), Y: min(a.Y, b.Y)},
		torchbearer.Point{X: max(a.X, b.X), Y: max(a.Y, b.Y)}
}
