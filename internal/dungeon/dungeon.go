// Package dungeon builds seeded test maps for the search and visibility
// packages: rectangular rooms placed by binary space partitioning, chained
// together with L-shaped corridors, optionally roughened with water and
// rubble so searches see more than one movement cost.
package dungeon

import (
	"context"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/torchbearer"
	"github.com/samdwyer/torchbearer/grid"
	"github.com/samdwyer/torchbearer/internal/telemetry"
)

const (
	DefaultWidth  = 80
	DefaultHeight = 24

	minRoomSide   = 4
	maxRoomSide   = 12
	minRegionSide = 8
)

// Dungeon is a generated map together with the rooms carved into it.
type Dungeon struct {
	Width  int
	Height int
	Grid   *grid.Grid
	Rooms  []Room
	rng    *rand.Rand
}

// NewDungeon returns a solid block of wall. All randomness is drawn from rng,
// so equal seeds give equal maps.
func NewDungeon(width, height int, rng *rand.Rand) *Dungeon {
	g := grid.New(width, height)
	g.Fill(grid.TileWall)
	return &Dungeon{Width: width, Height: height, Grid: g, rng: rng}
}

// Generate partitions the interior, places one room per region and joins
// each room to the next. The outer border is never carved.
func (d *Dungeon) Generate(ctx context.Context) {
	_, span := telemetry.Tracer("dungeon").Start(ctx, "dungeon.generate")
	defer span.End()
	started := time.Now()

	regions := d.partition(Room{X: 1, Y: 1, Width: d.Width - 2, Height: d.Height - 2})
	for _, region := range regions {
		room, ok := d.placeRoom(region)
		if !ok {
			continue
		}
		d.Rooms = append(d.Rooms, room)
		for y := room.Y; y < room.Y+room.Height; y++ {
			d.Grid.Draw(
				torchbearer.Point{X: room.X, Y: y},
				torchbearer.Point{X: room.X + room.Width - 1, Y: y},
				grid.TileFloor,
			)
		}
	}
	for i := 1; i < len(d.Rooms); i++ {
		d.join(d.Rooms[i-1], d.Rooms[i])
	}

	span.SetAttributes(
		attribute.Int("dungeon.width", d.Width),
		attribute.Int("dungeon.height", d.Height),
		attribute.Int("dungeon.regions", len(regions)),
		attribute.Int("dungeon.rooms", len(d.Rooms)),
		attribute.Int64("dungeon.generation_ms", time.Since(started).Milliseconds()),
	)
}

// Roughen turns roughly the given fraction of room floor into rubble or
// water. Both stay passable, so connectivity never changes.
func (d *Dungeon) Roughen(fraction float64) {
	for _, room := range d.Rooms {
		for y := room.Y; y < room.Y+room.Height; y++ {
			for x := room.X; x < room.X+room.Width; x++ {
				p := torchbearer.Point{X: x, Y: y}
				if d.Grid.Tile(p) != grid.TileFloor || d.rng.Float64() >= fraction {
					continue
				}
				rough := grid.TileRubble
				if d.rng.Intn(2) == 0 {
					rough = grid.TileWater
				}
				d.Grid.Set(p, rough)
			}
		}
	}
}

// IsPassable reports whether p can be entered.
func (d *Dungeon) IsPassable(p torchbearer.Point) bool {
	_, ok := d.Grid.MovementCost(p)
	return ok
}

// RoomIndexAt returns the index of the room containing p, or -1.
func (d *Dungeon) RoomIndexAt(p torchbearer.Point) int {
	for i, room := range d.Rooms {
		if room.Contains(p) {
			return i
		}
	}
	return -1
}

// RandomPointInRoom returns a uniformly chosen cell of room i. Every room
// cell is passable, roughened or not.
func (d *Dungeon) RandomPointInRoom(i int) (torchbearer.Point, bool) {
	if i < 0 || i >= len(d.Rooms) {
		return torchbearer.Point{}, false
	}
	room := d.Rooms[i]
	return torchbearer.Point{
		X: room.X + d.rng.Intn(room.Width),
		Y: room.Y + d.rng.Intn(room.Height),
	}, true
}

// FloorPoints returns every passable cell in row-major order.
func (d *Dungeon) FloorPoints() []torchbearer.Point {
	var points []torchbearer.Point
	for y := 0; y < d.Height; y++ {
		for x := 0; x < d.Width; x++ {
			if p := (torchbearer.Point{X: x, Y: y}); d.IsPassable(p) {
				points = append(points, p)
			}
		}
	}
	return points
}

// partition cuts area until no region can be cut again without a side
// dropping below minRegionSide. Regions come out in depth-first order.
func (d *Dungeon) partition(area Room) []Room {
	var regions []Room
	pending := []Room{area}
	for len(pending) > 0 {
		r := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		first, second, ok := d.cut(r)
		if !ok {
			regions = append(regions, r)
			continue
		}
		pending = append(pending, second, first)
	}
	return regions
}

// cut splits r across its longer side, falling back to the shorter one, at a
// random offset that leaves both halves at least minRegionSide wide.
func (d *Dungeon) cut(r Room) (Room, Room, bool) {
	acrossWidth := r.Width > r.Height
	for range 2 {
		extent := r.Height
		if acrossWidth {
			extent = r.Width
		}
		if extent >= 2*minRegionSide {
			at := minRegionSide + d.rng.Intn(extent-2*minRegionSide+1)
			if acrossWidth {
				return Room{X: r.X, Y: r.Y, Width: at, Height: r.Height},
					Room{X: r.X + at, Y: r.Y, Width: r.Width - at, Height: r.Height}, true
			}
			return Room{X: r.X, Y: r.Y, Width: r.Width, Height: at},
				Room{X: r.X, Y: r.Y + at, Width: r.Width, Height: r.Height - at}, true
		}
		acrossWidth = !acrossWidth
	}
	return Room{}, Room{}, false
}

// placeRoom picks a room inside region with at least one wall cell between
// it and every edge of the region, so rooms from different regions never
// touch.
func (d *Dungeon) placeRoom(region Room) (Room, bool) {
	w := min(region.Width-2, d.roomSide())
	h := min(region.Height-2, d.roomSide())
	if w < minRoomSide || h < minRoomSide {
		return Room{}, false
	}
	return Room{
		X:      region.X + 1 + d.rng.Intn(region.Width-w-1),
		Y:      region.Y + 1 + d.rng.Intn(region.Height-h-1),
		Width:  w,
		Height: h,
	}, true
}

func (d *Dungeon) roomSide() int {
	return minRoomSide + d.rng.Intn(maxRoomSide-minRoomSide+1)
}

// join carves an L-shaped corridor between the centres of a and b. Both
// centres are interior cells, so the corridor stays off the border.
func (d *Dungeon) join(a, b Room) {
	from, to := a.Center(), b.Center()
	corner := torchbearer.Point{X: to.X, Y: from.Y}
	if d.rng.Intn(2) == 0 {
		corner = torchbearer.Point{X: from.X, Y: to.Y}
	}
	d.Grid.Draw(from, corner, grid.TileFloor)
	d.Grid.Draw(corner, to, grid.TileFloor)
}
