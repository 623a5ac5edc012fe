// Package nav wraps the pathfind and fov entry points with memoisation,
// tracing and debug logging for long-running callers such as game servers.
//
// A Navigator caches results under the caller's cache.Version. It never
// inspects the map to decide whether a result is stale: bump the version
// whenever the map changes. Use one Navigator per map, or versions that are
// unique across maps.
package nav

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/samdwyer/torchbearer"
	"github.com/samdwyer/torchbearer/cache"
	"github.com/samdwyer/torchbearer/fov"
	"github.com/samdwyer/torchbearer/internal/logger"
	"github.com/samdwyer/torchbearer/internal/telemetry"
	"github.com/samdwyer/torchbearer/pathfind"
)

// DefaultCapacity is the number of entries kept per result kind.
const DefaultCapacity = 256

type pathKey struct {
	version  cache.Version
	start    torchbearer.Point
	goal     torchbearer.Point
	topology torchbearer.Topology
}

type pathResult struct {
	path  pathfind.Path
	found bool
}

type fieldKey struct {
	version  cache.Version
	sources  string
	topology torchbearer.Topology
	maxCost  float64
}

type viewKey struct {
	version cache.Version
	origin  torchbearer.Point
	radius  float64
}

// Stats reports cache traffic per result kind.
type Stats struct {
	Paths  cache.Stats
	Fields cache.Stats
	Views  cache.Stats
}

// Navigator is safe for concurrent use. Concurrent identical queries that
// miss the cache are computed once and shared.
type Navigator struct {
	paths  *cache.Memo[pathKey, pathResult]
	fields *cache.Memo[fieldKey, *pathfind.CostField]
	views  *cache.Memo[viewKey, fov.VisibilitySet]
	group  singleflight.Group

	capacity int
	tracer   trace.Tracer
	log      logrus.FieldLogger
}

// Option is a function that configures a Navigator.
type Option func(*Navigator)

// WithCapacity sets how many results of each kind are kept.
func WithCapacity(n int) Option {
	return func(nav *Navigator) { nav.capacity = n }
}

// WithTracer replaces the global "torchbearer/nav" tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(nav *Navigator) { nav.tracer = tracer }
}

// WithLogger replaces the process logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(nav *Navigator) { nav.log = log }
}

// New creates a Navigator with empty caches.
func New(opts ...Option) *Navigator {
	nav := &Navigator{
		capacity: DefaultCapacity,
		tracer:   telemetry.Tracer("nav"),
		log:      logger.Log,
	}
	for _, opt := range opts {
		opt(nav)
	}
	nav.paths = cache.NewMemo[pathKey, pathResult](nav.capacity)
	nav.fields = cache.NewMemo[fieldKey, *pathfind.CostField](nav.capacity)
	nav.views = cache.NewMemo[viewKey, fov.VisibilitySet](nav.capacity)
	nav.log = nav.log.WithField("component", "nav")
	return nav
}

// FindPath returns pathfind.FindPath(start, goal, m, topology) for map
// version v. The returned path is a copy the caller may modify.
func (n *Navigator) FindPath(ctx context.Context, v cache.Version, start, goal torchbearer.Point, m torchbearer.Map, topology torchbearer.Topology) (pathfind.Path, bool) {
	_, span := n.tracer.Start(ctx, "nav.find_path", trace.WithAttributes(
		attribute.Int64("map.version", int64(v)),
		attribute.String("path.start", start.String()),
		attribute.String("path.goal", goal.String()),
		attribute.String("path.topology", topology.String()),
	))
	defer span.End()

	key := pathKey{version: v, start: start, goal: goal, topology: topology}
	result, hit := n.paths.Get(key)
	if !hit {
		shared, _, _ := n.group.Do(fmt.Sprintf("path:%+v", key), func() (any, error) {
			var stats pathfind.Stats
			path, found := pathfind.FindPath(start, goal, m, topology, pathfind.WithStats(&stats))
			span.SetAttributes(
				attribute.Int("path.expanded", stats.Expanded),
				attribute.Int("path.pushed", stats.Pushed),
			)
			r := pathResult{path: path, found: found}
			n.paths.Put(key, r)
			return r, nil
		})
		result = shared.(pathResult)
	}

	span.SetAttributes(
		attribute.Bool("nav.cache_hit", hit),
		attribute.Bool("path.found", result.found),
		attribute.Int("path.length", result.path.Len()),
		attribute.Float64("path.cost", result.path.Cost),
	)
	n.log.WithFields(logrus.Fields{
		"operation": "find_path",
		"version":   v,
		"start":     start.String(),
		"goal":      goal.String(),
		"topology":  topology.String(),
		"cache_hit": hit,
		"found":     result.found,
		"length":    result.path.Len(),
	}).Debug("Path query")

	return result.path.Clone(), result.found
}

// DijkstraMap returns pathfind.DijkstraMap for map version v with the given
// cost cutoff. Pass math.Inf(1) for no cutoff; NaN is treated the same way.
// A cutoff of 0 keeps only the sources. The field is shared between callers
// and must be treated as read-only, which its API already enforces.
func (n *Navigator) DijkstraMap(ctx context.Context, v cache.Version, sources []torchbearer.Point, m torchbearer.Map, topology torchbearer.Topology, maxCost float64) *pathfind.CostField {
	if math.IsNaN(maxCost) {
		maxCost = math.Inf(1)
	}
	_, span := n.tracer.Start(ctx, "nav.dijkstra_map", trace.WithAttributes(
		attribute.Int64("map.version", int64(v)),
		attribute.Int("dijkstra.sources", len(sources)),
		attribute.String("dijkstra.topology", topology.String()),
		attribute.Float64("dijkstra.max_cost", maxCost),
	))
	defer span.End()

	key := fieldKey{version: v, sources: encodePoints(sources), topology: topology, maxCost: maxCost}
	field, hit := n.fields.Get(key)
	if !hit {
		shared, _, _ := n.group.Do(fmt.Sprintf("field:%+v", key), func() (any, error) {
			f := pathfind.DijkstraMap(sources, m, topology, pathfind.WithMaxCost(maxCost))
			n.fields.Put(key, f)
			return f, nil
		})
		field = shared.(*pathfind.CostField)
	}

	span.SetAttributes(
		attribute.Bool("nav.cache_hit", hit),
		attribute.Int("dijkstra.cells", field.Len()),
	)
	n.log.WithFields(logrus.Fields{
		"operation": "dijkstra_map",
		"version":   v,
		"sources":   len(sources),
		"topology":  topology.String(),
		"cache_hit": hit,
		"cells":     field.Len(),
	}).Debug("Dijkstra query")

	return field
}

// FieldOfView returns fov.FieldOfView(origin, radius, m) for map version v
// using the default Euclidean radius.
func (n *Navigator) FieldOfView(ctx context.Context, v cache.Version, origin torchbearer.Point, radius float64, m torchbearer.Map) fov.VisibilitySet {
	_, span := n.tracer.Start(ctx, "nav.field_of_view", trace.WithAttributes(
		attribute.Int64("map.version", int64(v)),
		attribute.String("fov.origin", origin.String()),
		attribute.Float64("fov.radius", radius),
	))
	defer span.End()

	key := viewKey{version: v, origin: origin, radius: radius}
	view, hit := n.views.Get(key)
	if !hit {
		shared, _, _ := n.group.Do(fmt.Sprintf("view:%+v", key), func() (any, error) {
			vs := fov.FieldOfView(origin, radius, m)
			n.views.Put(key, vs)
			return vs, nil
		})
		view = shared.(fov.VisibilitySet)
	}

	span.SetAttributes(
		attribute.Bool("nav.cache_hit", hit),
		attribute.Int("fov.visible", view.Len()),
	)
	n.log.WithFields(logrus.Fields{
		"operation": "field_of_view",
		"version":   v,
		"origin":    origin.String(),
		"radius":    radius,
		"cache_hit": hit,
		"visible":   view.Len(),
	}).Debug("Visibility query")

	return view
}

// Stats returns cache counters for each result kind.
func (n *Navigator) Stats() Stats {
	return Stats{
		Paths:  n.paths.Stats(),
		Fields: n.fields.Stats(),
		Views:  n.views.Stats(),
	}
}

// Reset empties every cache and zeroes the counters.
func (n *Navigator) Reset() {
	n.paths.Reset()
	n.fields.Reset()
	n.views.Reset()
}

// encodePoints turns a source list into a comparable key. Order is kept
// because it decides tie-breaks in the resulting field.
func encodePoints(points []torchbearer.Point) string {
	var b strings.Builder
	for i, p := range points {
		if i > 0 {
			b.WriteByte(';')
		}
		fmt.Fprintf(&b, "%d,%d", p.X, p.Y)
	}
	return b.String()
}
