package fov

import (
	"context"
	"math/rand"
	"testing"

	"github.com/samdwyer/torchbearer"
	"github.com/samdwyer/torchbearer/grid"
	"github.com/samdwyer/torchbearer/internal/dungeon"
)

type P = torchbearer.Point

func TestFieldOfViewOpenGrid(t *testing.T) {
	g := grid.New(5, 5)

	tests := []struct {
		metric torchbearer.Metric
		want   int
	}{
		{torchbearer.Euclidean, 13},
		{torchbearer.Manhattan, 13},
		{torchbearer.Chebyshev, 25},
		{torchbearer.Octile, 13},
	}
	for _, tt := range tests {
		v := FieldOfView(P{X: 2, Y: 2}, 2, g, WithMetric(tt.metric))
		if v.Len() != tt.want {
			t.Errorf("%v: expected %d visible cells, got %d: %v", tt.metric, tt.want, v.Len(), v.Points())
		}
	}

	// Euclidean is the default
	if v := FieldOfView(P{X: 2, Y: 2}, 2, g); v.Len() != 13 {
		t.Errorf("Default metric should see 13 cells, got %d", v.Len())
	}
}

func TestFieldOfViewWallBlocksCorridor(t *testing.T) {
	g := grid.MustParse("...#...")
	v := FieldOfView(P{X: 0, Y: 0}, 10, g)

	for x := 0; x <= 3; x++ {
		if !v.Contains(P{X: x, Y: 0}) {
			t.Errorf("(%d,0) should be visible", x)
		}
	}
	for x := 4; x <= 6; x++ {
		if v.Contains(P{X: x, Y: 0}) {
			t.Errorf("(%d,0) is behind the wall and should be hidden", x)
		}
	}
}

func TestFieldOfViewShadow(t *testing.T) {
	g := grid.New(9, 9)
	g.Set(P{X: 6, Y: 4}, grid.TileWall)
	v := FieldOfView(P{X: 4, Y: 4}, 10, g)

	if !v.Contains(P{X: 6, Y: 4}) {
		t.Error("The wall itself should be visible")
	}
	for _, p := range []P{{X: 7, Y: 4}, {X: 8, Y: 4}} {
		if v.Contains(p) {
			t.Errorf("%v lies directly behind the wall", p)
		}
	}
	for _, p := range []P{{X: 8, Y: 0}, {X: 0, Y: 8}, {X: 8, Y: 8}, {X: 0, Y: 0}, {X: 4, Y: 8}} {
		if !v.Contains(p) {
			t.Errorf("%v should be visible on an otherwise open grid", p)
		}
	}
}

func TestFieldOfViewRadiusBoundary(t *testing.T) {
	g := grid.New(11, 11)
	origin := P{X: 5, Y: 5}

	v := FieldOfView(origin, 3, g)
	if !v.Contains(P{X: 8, Y: 5}) {
		t.Error("Cell exactly at the radius should be visible")
	}
	if v.Contains(P{X: 8, Y: 6}) {
		t.Error("Cell just past the radius should be hidden")
	}

	v = FieldOfView(origin, 2.5, g)
	if !v.Contains(P{X: 7, Y: 6}) || v.Contains(P{X: 8, Y: 5}) {
		t.Error("Fractional radius should compare squared distances")
	}

	v.Each(func(p P) {
		if !torchbearer.Euclidean.Within(origin, p, 2.5) {
			t.Errorf("%v is outside the radius", p)
		}
	})
}

func TestFieldOfViewDegenerate(t *testing.T) {
	g := grid.New(3, 3)

	v := FieldOfView(P{X: 5, Y: 5}, 4, g)
	if v.Len() != 0 {
		t.Errorf("Origin out of bounds should see nothing, got %v", v.Points())
	}

	for _, radius := range []float64{0, -3} {
		v = FieldOfView(P{X: 1, Y: 1}, radius, g)
		if v.Len() != 1 || !v.Contains(P{X: 1, Y: 1}) {
			t.Errorf("Radius %v should see only the origin, got %v", radius, v.Points())
		}
		if v.Radius() != 0 {
			t.Errorf("Radius %v should be clamped to 0, got %v", radius, v.Radius())
		}
	}
	if v.Origin() != (P{X: 1, Y: 1}) {
		t.Errorf("Unexpected origin %v", v.Origin())
	}
}

func TestFieldOfViewWalls(t *testing.T) {
	g := grid.MustParse(
		"#####",
		"#...#",
		"#...#",
		"#...#",
		"#####",
	)

	if v := FieldOfView(P{X: 2, Y: 2}, 5, g); v.Len() != 25 {
		t.Errorf("Expected the room and its walls, got %d cells", v.Len())
	}
	v := FieldOfView(P{X: 2, Y: 2}, 5, g, WithoutWalls())
	if v.Len() != 9 {
		t.Errorf("Expected only the floor, got %d cells: %v", v.Len(), v.Points())
	}
}

func TestFieldOfViewDoorsAndWindows(t *testing.T) {
	g := grid.MustParse(
		".....",
		"..+..",
		".....",
		"..=..",
		".....",
	)
	v := FieldOfView(P{X: 2, Y: 2}, 3, g)

	if !v.Contains(P{X: 2, Y: 1}) {
		t.Error("A closed door is seen")
	}
	if v.Contains(P{X: 2, Y: 0}) {
		t.Error("A closed door blocks what is behind it")
	}
	if !v.Contains(P{X: 2, Y: 3}) || !v.Contains(P{X: 2, Y: 4}) {
		t.Error("Windows let sight through")
	}
}

func TestFieldOfViewOutOfBoundsNeverReturned(t *testing.T) {
	g := grid.New(4, 4)
	v := FieldOfView(P{X: 0, Y: 0}, 100, g, WithMetric(torchbearer.Chebyshev))

	if v.Len() != 16 {
		t.Errorf("Expected the whole grid, got %d cells", v.Len())
	}
	v.Each(func(p P) {
		if !g.InBounds(p) {
			t.Errorf("Out of bounds cell %v returned", p)
		}
	})
}

func randomGrid(rng *rand.Rand, width, height int, density float64) *grid.Grid {
	g := grid.New(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if rng.Float64() < density {
				g.Set(P{X: x, Y: y}, grid.TileWall)
			}
		}
	}
	return g
}

// TestFieldOfViewSymmetric checks that visibility between transparent cells
// goes both ways on random maps.
func TestFieldOfViewSymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const radius = 8

	for n := 0; n < 5; n++ {
		g := randomGrid(rng, 20, 20, 0.25)

		views := make(map[P]VisibilitySet)
		view := func(p P) VisibilitySet {
			if v, ok := views[p]; ok {
				return v
			}
			v := FieldOfView(p, radius, g)
			views[p] = v
			return v
		}

		for y := 0; y < 20; y++ {
			for x := 0; x < 20; x++ {
				a := P{X: x, Y: y}
				if g.IsOpaque(a) {
					continue
				}
				view(a).Each(func(b P) {
					if g.IsOpaque(b) {
						return
					}
					if !view(b).Contains(a) {
						t.Errorf("map %d: %v sees %v but not the reverse\n%s", n, a, b, g)
					}
				})
			}
		}
	}
}

func TestFieldOfViewDungeon(t *testing.T) {
	d := dungeon.NewDungeon(dungeon.DefaultWidth, dungeon.DefaultHeight, rand.New(rand.NewSource(11)))
	d.Generate(context.Background())

	room := d.Rooms[0]
	v := FieldOfView(room.Center(), 100, d.Grid)

	// A convex room is fully lit from its centre
	for y := room.Y; y < room.Y+room.Height; y++ {
		for x := room.X; x < room.X+room.Width; x++ {
			if !v.Contains(P{X: x, Y: y}) {
				t.Errorf("Room cell (%d,%d) should be visible from the centre", x, y)
			}
		}
	}
}

func TestLineOfSight(t *testing.T) {
	g := grid.MustParse(
		".....",
		"..#..",
		".....",
	)

	tests := []struct {
		name     string
		from, to P
		want     bool
	}{
		{"open row", P{X: 0, Y: 0}, P{X: 4, Y: 0}, true},
		{"through wall", P{X: 0, Y: 1}, P{X: 4, Y: 1}, false},
		{"onto wall", P{X: 0, Y: 1}, P{X: 2, Y: 1}, true},
		{"from wall", P{X: 2, Y: 1}, P{X: 2, Y: 2}, true},
		{"same cell", P{X: 3, Y: 2}, P{X: 3, Y: 2}, true},
		{"out of bounds", P{X: 0, Y: 0}, P{X: 5, Y: 0}, false},
	}
	for _, tt := range tests {
		if got := LineOfSight(tt.from, tt.to, g); got != tt.want {
			t.Errorf("%s: LineOfSight(%v, %v) = %v, want %v", tt.name, tt.from, tt.to, got, tt.want)
		}
	}
}

func BenchmarkFieldOfView(b *testing.B) {
	d := dungeon.NewDungeon(dungeon.DefaultWidth, dungeon.DefaultHeight, rand.New(rand.NewSource(42)))
	d.Generate(context.Background())
	origin := d.Rooms[0].Center()

	for b.Loop() {
		FieldOfView(origin, 20, d.Grid)
	}
}
