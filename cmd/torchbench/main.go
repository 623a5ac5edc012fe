// Package main is the entry point for torchbench, a workload driver that
// checks the embedded fixtures and then hammers a Navigator with path,
// Dijkstra and field of view queries on a generated dungeon.
package main

import (
	"context"
	"math"
	"math/rand"
	"os"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/samdwyer/torchbearer"
	"github.com/samdwyer/torchbearer/cache"
	"github.com/samdwyer/torchbearer/data"
	"github.com/samdwyer/torchbearer/internal/config"
	"github.com/samdwyer/torchbearer/internal/dungeon"
	"github.com/samdwyer/torchbearer/internal/logger"
	"github.com/samdwyer/torchbearer/internal/telemetry"
	"github.com/samdwyer/torchbearer/nav"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load configuration")
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	if cfg.Telemetry {
		setupOTelEnv(cfg)
		shutdown, err := telemetry.Setup(ctx)
		if err != nil {
			logger.Log.WithError(err).Warn("Telemetry setup failed, running without observability")
		} else {
			defer func() {
				if err := shutdown(ctx); err != nil {
					logger.Log.WithError(err).Error("Error shutting down telemetry")
				}
			}()
		}
	}

	if err := checkFixtures(); err != nil {
		logger.Log.WithError(err).Fatal("Fixture check failed")
	}
	if err := run(ctx, cfg); err != nil {
		logger.Log.WithError(err).Fatal("Workload failed")
	}
}

// setupOTelEnv configures OTEL environment variables from our custom env vars.
func setupOTelEnv(cfg config.Config) {
	os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")
	if headers := cfg.OTelHeaders(); headers != "" {
		os.Setenv("OTEL_EXPORTER_OTLP_HEADERS", headers)
	}
}

// checkFixtures replays every embedded fixture.
func checkFixtures() error {
	registry, err := data.LoadMapRegistry()
	if err != nil {
		return err
	}
	for _, def := range registry.All() {
		if err := def.Check(); err != nil {
			return err
		}
	}
	logger.Log.WithField("maps", registry.Count()).Info("Fixtures verified")
	return nil
}

// counters collects workload totals across workers.
type counters struct {
	paths   atomic.Int64
	found   atomic.Int64
	fields  atomic.Int64
	flees   atomic.Int64
	views   atomic.Int64
	visible atomic.Int64
}

func run(ctx context.Context, cfg config.Config) error {
	ctx, span := telemetry.Tracer("torchbench").Start(ctx, "torchbench.run")
	defer span.End()

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	d := dungeon.NewDungeon(cfg.Width, cfg.Height, rand.New(rand.NewSource(seed)))
	d.Generate(ctx)
	d.Roughen(0.15)

	floor := d.FloorPoints()
	if len(floor) == 0 {
		logger.Log.Warn("Dungeon has no floor, nothing to do")
		return nil
	}
	version := cache.Fingerprint(d.Grid, torchbearer.Point{}, torchbearer.Point{X: d.Width - 1, Y: d.Height - 1})

	logger.Log.WithFields(logrus.Fields{
		"seed":    seed,
		"width":   d.Width,
		"height":  d.Height,
		"rooms":   len(d.Rooms),
		"floor":   len(floor),
		"version": uint64(version),
	}).Info("Dungeon generated")

	navigator := nav.New(nav.WithCapacity(cfg.CacheSize))
	var totals counters
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < cfg.Workers; w++ {
		iterations := cfg.Iterations / cfg.Workers
		if w < cfg.Iterations%cfg.Workers {
			iterations++
		}
		rng := rand.New(rand.NewSource(seed + int64(w) + 1))

		g.Go(func() error {
			for i := 0; i < iterations; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				query(ctx, navigator, version, d, floor, rng, cfg.Radius, &totals)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	elapsed := time.Since(start)
	stats := navigator.Stats()
	span.SetAttributes(
		attribute.Int64("torchbench.paths", totals.paths.Load()),
		attribute.Int64("torchbench.fields", totals.fields.Load()),
		attribute.Int64("torchbench.views", totals.views.Load()),
		attribute.Float64("torchbench.path_hit_rate", stats.Paths.HitRate()),
	)
	logger.Log.WithFields(logrus.Fields{
		"elapsed":      elapsed.String(),
		"workers":      cfg.Workers,
		"paths":        totals.paths.Load(),
		"paths_found":  totals.found.Load(),
		"fields":       totals.fields.Load(),
		"flee_steps":   totals.flees.Load(),
		"views":        totals.views.Load(),
		"mean_visible": mean(totals.visible.Load(), totals.views.Load()),
	}).Info("Workload finished")
	logger.Log.WithFields(logrus.Fields{
		"path_hit_rate":  stats.Paths.HitRate(),
		"field_hit_rate": stats.Fields.HitRate(),
		"view_hit_rate":  stats.Views.HitRate(),
		"evictions":      stats.Paths.Evictions + stats.Fields.Evictions + stats.Views.Evictions,
	}).Info("Cache summary")
	return nil
}

// query issues one round of the mixed workload. Origins come from the room
// centres half of the time so the caches see repeated questions.
func query(ctx context.Context, navigator *nav.Navigator, version cache.Version, d *dungeon.Dungeon, floor []torchbearer.Point, rng *rand.Rand, radius float64, totals *counters) {
	pick := func() torchbearer.Point {
		if len(d.Rooms) > 0 && rng.Intn(2) == 0 {
			return d.Rooms[rng.Intn(len(d.Rooms))].Center()
		}
		return floor[rng.Intn(len(floor))]
	}

	topology := torchbearer.Topology(rng.Intn(3))
	from, to := pick(), pick()

	if _, found := navigator.FindPath(ctx, version, from, to, d.Grid, topology); found {
		totals.found.Add(1)
	}
	totals.paths.Add(1)

	field := navigator.DijkstraMap(ctx, version, []torchbearer.Point{to}, d.Grid, topology, math.Inf(1))
	totals.fields.Add(1)
	if _, ok := field.FleeStep(from); ok {
		totals.flees.Add(1)
	}

	view := navigator.FieldOfView(ctx, version, from, radius, d.Grid)
	totals.views.Add(1)
	totals.visible.Add(int64(view.Len()))
}

func mean(total, n int64) float64 {
	if n == 0 {
		return 0
	}
	return float64(total) / float64(n)
}
