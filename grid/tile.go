// Package grid provides ready-made torchbearer.Map implementations: a dense
// rectangular Grid parsed from ASCII rows and a Sparse map that stores
// rectangular tile overrides in an R-tree.
package grid

// Tile represents a single map tile.
type Tile rune

const (
	// TileWall blocks both sight and movement.
	TileWall Tile = '#'
	// TileFloor is open ground.
	TileFloor Tile = '.'
	// TileDoor is a closed door: walkable, but it blocks sight.
	TileDoor Tile = '+'
	// TileWindow lets sight through but not movement.
	TileWindow Tile = '='
	// TileWater is shallow water, slow to wade through.
	TileWater Tile = '~'
	// TileRubble is broken ground, slower than floor.
	TileRubble Tile = ','
)

// Valid returns true if the tile is part of the legend.
func (t Tile) Valid() bool {
	switch t {
	case TileWall, TileFloor, TileDoor, TileWindow, TileWater, TileRubble:
		return true
	default:
		return false
	}
}

// IsOpaque returns true if the tile blocks sight.
func (t Tile) IsOpaque() bool {
	return t == TileWall || t == TileDoor
}

// IsPassable returns true if the tile can be walked on.
func (t Tile) IsPassable() bool {
	_, ok := t.MovementCost()
	return ok
}

// MovementCost returns the cost of entering the tile.
func (t Tile) MovementCost() (float64, bool) {
	switch t {
	case TileFloor, TileDoor:
		return 1, true
	case TileRubble:
		return 2, true
	case TileWater:
		return 3, true
	default:
		return 0, false
	}
}

// Rune returns the tile's display character.
func (t Tile) Rune() rune {
	return rune(t)
}
