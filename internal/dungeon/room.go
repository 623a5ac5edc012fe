package dungeon

import "github.com/samdwyer/torchbearer"

// Room is a rectangle of cells with its top-left corner at (X, Y). The
// partition regions rooms are placed in use the same shape.
type Room struct {
	X, Y          int
	Width, Height int
}

// Center returns the middle cell, rounding towards the bottom right.
func (r Room) Center() torchbearer.Point {
	return torchbearer.Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether p lies inside r.
func (r Room) Contains(p torchbearer.Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Intersects reports whether r and other share a cell.
func (r Room) Intersects(other Room) bool {
	return r.X < other.X+other.Width && other.X < r.X+r.Width &&
		r.Y < other.Y+other.Height && other.Y < r.Y+r.Height
}
