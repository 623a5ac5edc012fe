package data

import (
	"errors"
	"fmt"

	"github.com/samdwyer/torchbearer/grid"
)

// ErrMapNotFound is returned when no fixture has the requested ID.
var ErrMapNotFound = errors.New("map not found")

// MapRegistry holds loaded map definitions and provides lookup utilities.
type MapRegistry struct {
	maps map[string]*MapDef
	all  []MapDef
}

// NewMapRegistry creates a registry from loaded map definitions.
func NewMapRegistry(maps []MapDef) *MapRegistry {
	registry := &MapRegistry{
		maps: make(map[string]*MapDef),
		all:  maps,
	}
	for i := range maps {
		registry.maps[maps[i].ID] = &maps[i]
	}
	return registry
}

// LoadMapRegistry loads and creates a registry from the embedded maps.json.
func LoadMapRegistry() (*MapRegistry, error) {
	maps, err := LoadMaps()
	if err != nil {
		return nil, err
	}
	if len(maps) == 0 {
		return nil, errors.New("no maps loaded from maps.json")
	}
	return NewMapRegistry(maps), nil
}

// MustLoadMapRegistry loads a registry, panicking on error.
func MustLoadMapRegistry() *MapRegistry {
	registry, err := LoadMapRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// GetByID returns the map definition with the given ID, or nil if not found.
func (r *MapRegistry) GetByID(id string) *MapDef {
	return r.maps[id]
}

// Grid parses the map with the given ID.
func (r *MapRegistry) Grid(id string) (*grid.Grid, error) {
	def := r.maps[id]
	if def == nil {
		return nil, fmt.Errorf("%q: %w", id, ErrMapNotFound)
	}
	return def.Grid()
}

// All returns all map definitions.
func (r *MapRegistry) All() []MapDef {
	return r.all
}

// Count returns the number of maps in the registry.
func (r *MapRegistry) Count() int {
	return len(r.all)
}
