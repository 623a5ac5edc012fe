package grid

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/samdwyer/torchbearer"
	"github.com/samdwyer/torchbearer/bresenham"
)

var (
	// ErrUnknownTile is returned when a row contains a rune outside the legend.
	ErrUnknownTile = errors.New("unknown tile")
	// ErrRagged is returned when rows have different lengths.
	ErrRagged = errors.New("rows have different lengths")
)

// Grid is a dense rectangular map with its origin at (0,0).
type Grid struct {
	width  int
	height int
	tiles  []Tile
}

var _ torchbearer.Map = (*Grid)(nil)

// New creates a width x height grid filled with floor.
func New(width, height int) *Grid {
	width, height = max(width, 0), max(height, 0)
	tiles := make([]Tile, width*height)
	for i := range tiles {
		tiles[i] = TileFloor
	}
	return &Grid{width: width, height: height, tiles: tiles}
}

// Parse builds a grid from ASCII rows, one rune per tile, top row first.
func Parse(rows []string) (*Grid, error) {
	if len(rows) == 0 {
		return New(0, 0), nil
	}

	width := utf8.RuneCountInString(rows[0])
	g := New(width, len(rows))
	for y, row := range rows {
		if n := utf8.RuneCountInString(row); n != width {
			return nil, fmt.Errorf("row %d has %d tiles, want %d: %w", y, n, width, ErrRagged)
		}
		x := 0
		for _, r := range row {
			tile := Tile(r)
			if !tile.Valid() {
				return nil, fmt.Errorf("row %d column %d: %q: %w", y, x, r, ErrUnknownTile)
			}
			g.tiles[y*width+x] = tile
			x++
		}
	}
	return g, nil
}

// MustParse is Parse for literals that are known to be valid. It panics on
// error.
func MustParse(rows ...string) *Grid {
	g, err := Parse(rows)
	if err != nil {
		panic(err)
	}
	return g
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of rows.
func (g *Grid) Height() int {
	return g.height
}

// InBounds returns true if p lies inside the grid.
func (g *Grid) InBounds(p torchbearer.Point) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// IsOpaque returns true if the tile at p blocks sight.
func (g *Grid) IsOpaque(p torchbearer.Point) bool {
	return g.Tile(p).IsOpaque()
}

// MovementCost returns the cost of entering p.
func (g *Grid) MovementCost(p torchbearer.Point) (float64, bool) {
	return g.Tile(p).MovementCost()
}

// Tile returns the tile at p. Points outside the grid read as walls.
func (g *Grid) Tile(p torchbearer.Point) Tile {
	if !g.InBounds(p) {
		return TileWall
	}
	return g.tiles[p.Y*g.width+p.X]
}

// Set replaces the tile at p. Points outside the grid are ignored.
func (g *Grid) Set(p torchbearer.Point, t Tile) {
	if g.InBounds(p) {
		g.tiles[p.Y*g.width+p.X] = t
	}
}

// Fill sets every tile of the grid to t.
func (g *Grid) Fill(t Tile) {
	for i := range g.tiles {
		g.tiles[i] = t
	}
}

// BuildWall draws a straight line of walls from one point to another.
func (g *Grid) BuildWall(from, to torchbearer.Point) {
	g.Draw(from, to, TileWall)
}

// Draw sets every tile on the straight line from one point to another.
func (g *Grid) Draw(from, to torchbearer.Point, t Tile) {
	for p := range bresenham.Line(from, to) {
		g.Set(p, t)
	}
}

// Clone returns an independent copy.
func (g *Grid) Clone() *Grid {
	tiles := make([]Tile, len(g.tiles))
	copy(tiles, g.tiles)
	return &Grid{width: g.width, height: g.height, tiles: tiles}
}

// Rows returns the grid as ASCII rows, the inverse of Parse.
func (g *Grid) Rows() []string {
	rows := make([]string, g.height)
	var b strings.Builder
	for y := 0; y < g.height; y++ {
		b.Reset()
		for x := 0; x < g.width; x++ {
			b.WriteRune(g.tiles[y*g.width+x].Rune())
		}
		rows[y] = b.String()
	}
	return rows
}

// String returns the rows joined by newlines.
func (g *Grid) String() string {
	return strings.Join(g.Rows(), "\n")
}
