package data

import (
	"fmt"

	"github.com/samdwyer/torchbearer"
	"github.com/samdwyer/torchbearer/grid"
)

// Coord is a point written as [x, y] in JSON.
type Coord [2]int

// Point returns the coordinate as a torchbearer.Point.
func (c Coord) Point() torchbearer.Point {
	return torchbearer.Point{X: c[0], Y: c[1]}
}

// PathQuery is a shortest path question and its known answer.
type PathQuery struct {
	From     Coord                `json:"from"`
	To       Coord                `json:"to"`
	Topology torchbearer.Topology `json:"topology"`
	Cost     *float64             `json:"cost"` // nil means no path exists
}

// ViewQuery is a field of view question and what must or must not be seen.
type ViewQuery struct {
	Origin   Coord   `json:"origin"`
	Radius   float64 `json:"radius"`
	Visible  *int    `json:"visible,omitempty"` // exact count of visible cells
	Contains []Coord `json:"contains,omitempty"`
	Excludes []Coord `json:"excludes,omitempty"`
}

// MapDef defines a fixture map loaded from JSON.
type MapDef struct {
	ID          string      `json:"id"`          // Unique identifier (e.g., "corridor-blocked")
	Name        string      `json:"name"`        // Display name
	Description string      `json:"description"` // What the fixture demonstrates
	Rows        []string    `json:"rows"`        // ASCII rows, top row first
	Paths       []PathQuery `json:"paths"`
	Views       []ViewQuery `json:"views"`
}

// Grid parses the fixture's rows.
func (m *MapDef) Grid() (*grid.Grid, error) {
	g, err := grid.Parse(m.Rows)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", m.ID, err)
	}
	return g, nil
}

// MapsFile represents the structure of maps.json.
type MapsFile struct {
	Maps []MapDef `json:"maps"`
}

// LoadMaps loads map definitions from the embedded maps.json file.
func LoadMaps() ([]MapDef, error) {
	file, err := Load[MapsFile]("maps.json")
	if err != nil {
		return nil, err
	}
	return file.Maps, nil
}

// MustLoadMaps loads map definitions, panicking on error.
func MustLoadMaps() []MapDef {
	maps, err := LoadMaps()
	if err != nil {
		panic(err)
	}
	return maps
}
