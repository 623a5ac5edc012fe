package data

import (
	"errors"
	"fmt"

	"github.com/samdwyer/torchbearer/fov"
	"github.com/samdwyer/torchbearer/pathfind"
)

// Check runs every query of the fixture and reports each answer that
// differs from the recorded one, joined into a single error.
func (m *MapDef) Check() error {
	g, err := m.Grid()
	if err != nil {
		return err
	}

	var errs []error
	for i, q := range m.Paths {
		path, found := pathfind.FindPath(q.From.Point(), q.To.Point(), g, q.Topology)
		switch {
		case q.Cost == nil && found:
			errs = append(errs, fmt.Errorf("map %s path %d: expected no path, got cost %v", m.ID, i, path.Cost))
		case q.Cost != nil && !found:
			errs = append(errs, fmt.Errorf("map %s path %d: expected cost %v, got no path", m.ID, i, *q.Cost))
		case q.Cost != nil && path.Cost != *q.Cost:
			errs = append(errs, fmt.Errorf("map %s path %d: expected cost %v, got %v", m.ID, i, *q.Cost, path.Cost))
		}
	}

	for i, q := range m.Views {
		view := fov.FieldOfView(q.Origin.Point(), q.Radius, g)
		if q.Visible != nil && view.Len() != *q.Visible {
			errs = append(errs, fmt.Errorf("map %s view %d: expected %d visible cells, got %d", m.ID, i, *q.Visible, view.Len()))
		}
		for _, c := range q.Contains {
			if !view.Contains(c.Point()) {
				errs = append(errs, fmt.Errorf("map %s view %d: %v should be visible", m.ID, i, c.Point()))
			}
		}
		for _, c := range q.Excludes {
			if view.Contains(c.Point()) {
				errs = append(errs, fmt.Errorf("map %s view %d: %v should be hidden", m.ID, i, c.Point()))
			}
		}
	}
	return errors.Join(errs...)
}
