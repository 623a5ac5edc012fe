package nav

import (
	"bytes"
	"context"
	"math"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/samdwyer/torchbearer"
	"github.com/samdwyer/torchbearer/grid"
	"github.com/samdwyer/torchbearer/internal/logger"
	"github.com/samdwyer/torchbearer/pathfind"
)

type P = torchbearer.Point

func TestMain(m *testing.M) {
	logger.Init("debug", "text")
	os.Exit(m.Run())
}

// countingMap counts movement cost queries so tests can tell cached answers
// from fresh searches.
type countingMap struct {
	*grid.Grid
	queries atomic.Int64
}

func (c *countingMap) MovementCost(p P) (float64, bool) {
	c.queries.Add(1)
	return c.Grid.MovementCost(p)
}

func newCountingMap() *countingMap {
	return &countingMap{Grid: grid.MustParse(
		"..........",
		".########.",
		"..........",
	)}
}

func TestFindPathCached(t *testing.T) {
	m := newCountingMap()
	n := New()
	ctx := context.Background()

	first, ok := n.FindPath(ctx, 1, P{X: 0, Y: 0}, P{X: 9, Y: 2}, m, torchbearer.FourWay)
	if !ok {
		t.Fatal("Expected a path")
	}
	queries := m.queries.Load()

	second, ok := n.FindPath(ctx, 1, P{X: 0, Y: 0}, P{X: 9, Y: 2}, m, torchbearer.FourWay)
	if !ok || second.Cost != first.Cost || second.Len() != first.Len() {
		t.Fatalf("Cached path differs: %v vs %v", second, first)
	}
	if m.queries.Load() != queries {
		t.Error("Second identical query should not touch the map")
	}

	// Callers own the returned copy
	second.Points[0] = P{X: 5, Y: 5}
	third, _ := n.FindPath(ctx, 1, P{X: 0, Y: 0}, P{X: 9, Y: 2}, m, torchbearer.FourWay)
	if third.Start() != (P{X: 0, Y: 0}) {
		t.Error("Modifying a returned path should not corrupt the cache")
	}

	// A new version is a new query
	n.FindPath(ctx, 2, P{X: 0, Y: 0}, P{X: 9, Y: 2}, m, torchbearer.FourWay)
	if m.queries.Load() == queries {
		t.Error("A new map version should trigger a fresh search")
	}

	stats := n.Stats().Paths
	if stats.Hits != 2 || stats.Misses != 2 {
		t.Errorf("Unexpected path stats %+v", stats)
	}
}

func TestFindPathCachesMisses(t *testing.T) {
	m := newCountingMap()
	m.Set(P{X: 0, Y: 1}, grid.TileWall)
	m.Set(P{X: 9, Y: 1}, grid.TileWall)
	n := New()
	ctx := context.Background()

	if _, ok := n.FindPath(ctx, 1, P{X: 0, Y: 0}, P{X: 0, Y: 2}, m, torchbearer.FourWay); ok {
		t.Fatal("Rows are sealed off, expected no path")
	}
	queries := m.queries.Load()
	if _, ok := n.FindPath(ctx, 1, P{X: 0, Y: 0}, P{X: 0, Y: 2}, m, torchbearer.FourWay); ok {
		t.Error("Cached miss should stay a miss")
	}
	if m.queries.Load() != queries {
		t.Error("Unreachable results should be cached too")
	}
}

func TestDijkstraMapCached(t *testing.T) {
	m := newCountingMap()
	n := New()
	ctx := context.Background()
	sources := []P{{X: 0, Y: 0}, {X: 9, Y: 0}}

	field := n.DijkstraMap(ctx, 1, sources, m, torchbearer.FourWay, math.Inf(1))
	want := pathfind.DijkstraMap(sources, m.Grid, torchbearer.FourWay)
	if field.Len() != want.Len() {
		t.Fatalf("Expected %d cells, got %d", want.Len(), field.Len())
	}
	if again := n.DijkstraMap(ctx, 1, sources, m, torchbearer.FourWay, math.Inf(1)); again != field {
		t.Error("Identical query should return the cached field")
	}

	limited := n.DijkstraMap(ctx, 1, sources, m, torchbearer.FourWay, 2)
	if limited == field || limited.Len() >= field.Len() {
		t.Error("A different cost cutoff is a different query")
	}
	reordered := n.DijkstraMap(ctx, 1, []P{{X: 9, Y: 0}, {X: 0, Y: 0}}, m, torchbearer.FourWay, math.Inf(1))
	if reordered == field {
		t.Error("Source order is part of the key")
	}
	if stats := n.Stats().Fields; stats.Hits != 1 || stats.Misses != 3 {
		t.Errorf("Unexpected field stats %+v", stats)
	}

	if only := n.DijkstraMap(ctx, 1, sources, m, torchbearer.FourWay, 0); only.Len() != len(sources) {
		t.Errorf("A cutoff of 0 should keep only the sources, got %v", only.Points())
	}
	unlimited := n.DijkstraMap(ctx, 1, sources, m, torchbearer.FourWay, math.NaN())
	if unlimited != field {
		t.Error("NaN cutoff should share the unlimited entry")
	}
}

func TestFieldOfViewCached(t *testing.T) {
	g := grid.New(7, 7)
	n := New(WithCapacity(1))
	ctx := context.Background()

	first := n.FieldOfView(ctx, 1, P{X: 3, Y: 3}, 2, g)
	if first.Len() != 13 {
		t.Errorf("Expected 13 visible cells, got %d", first.Len())
	}
	n.FieldOfView(ctx, 1, P{X: 3, Y: 3}, 2, g)
	n.FieldOfView(ctx, 1, P{X: 1, Y: 1}, 2, g)
	n.FieldOfView(ctx, 1, P{X: 3, Y: 3}, 2, g)

	stats := n.Stats().Views
	if stats.Hits != 1 || stats.Misses != 3 || stats.Evictions != 2 {
		t.Errorf("Unexpected view stats %+v", stats)
	}

	n.Reset()
	if n.Stats().Views != (Stats{}).Views {
		t.Error("Reset should zero the counters")
	}
}

func TestConcurrentQueries(t *testing.T) {
	m := newCountingMap()
	n := New()
	ctx := context.Background()

	want, _ := pathfind.FindPath(P{X: 0, Y: 0}, P{X: 9, Y: 2}, m.Grid, torchbearer.EightWay)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			path, ok := n.FindPath(ctx, 7, P{X: 0, Y: 0}, P{X: 9, Y: 2}, m, torchbearer.EightWay)
			if !ok || path.Cost != want.Cost {
				t.Errorf("Concurrent query returned %v, %v", path, ok)
			}
			n.FieldOfView(ctx, 7, P{X: 0, Y: 0}, 5, m)
		}()
	}
	wg.Wait()

	stats := n.Stats()
	if stats.Paths.Hits+stats.Paths.Misses != 16 {
		t.Errorf("Expected 16 path lookups, got %+v", stats.Paths)
	}
}

func TestSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer provider.Shutdown(context.Background())

	var buf bytes.Buffer
	n := New(
		WithTracer(provider.Tracer("test")),
		WithLogger(logger.New("debug", "json", &buf)),
	)
	ctx := context.Background()
	g := grid.New(5, 5)

	n.FindPath(ctx, 1, P{X: 0, Y: 0}, P{X: 4, Y: 4}, g, torchbearer.EightWay)
	n.FindPath(ctx, 1, P{X: 0, Y: 0}, P{X: 4, Y: 4}, g, torchbearer.EightWay)
	n.DijkstraMap(ctx, 1, []P{{X: 2, Y: 2}}, g, torchbearer.FourWay, math.Inf(1))
	n.FieldOfView(ctx, 1, P{X: 2, Y: 2}, 3, g)

	spans := recorder.Ended()
	if len(spans) != 4 {
		t.Fatalf("Expected 4 spans, got %d", len(spans))
	}

	wantNames := []string{"nav.find_path", "nav.find_path", "nav.dijkstra_map", "nav.field_of_view"}
	wantHit := []bool{false, true, false, false}
	for i, span := range spans {
		if span.Name() != wantNames[i] {
			t.Errorf("Span %d named %q, want %q", i, span.Name(), wantNames[i])
		}
		hit, found := attributeValue(span.Attributes(), "nav.cache_hit")
		if !found || hit.AsBool() != wantHit[i] {
			t.Errorf("Span %d cache_hit = %v (found %v), want %v", i, hit.AsBool(), found, wantHit[i])
		}
	}
	if expanded, ok := attributeValue(spans[0].Attributes(), "path.expanded"); !ok || expanded.AsInt64() == 0 {
		t.Error("Fresh searches should record their expansion count")
	}

	if !bytes.Contains(buf.Bytes(), []byte(`"operation":"find_path"`)) {
		t.Errorf("Expected structured debug logs, got %q", buf.String())
	}
}

func attributeValue(attrs []attribute.KeyValue, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range attrs {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}
