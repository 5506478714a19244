// Package physics provides collision detection and distance utilities.
package physics

import "math"

// Rect is an axis-aligned bounding box. X, Y is the top-left corner.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// At returns a copy of r moved so its top-left corner is at (x, y).
func (r Rect) At(x, y float64) Rect {
	r.X = x
	r.Y = y
	return r
}

// Center returns the center point of the rectangle.
func (r Rect) Center() (float64, float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Contains reports whether the point lies inside r, edges included.
func (r Rect) Contains(px, py float64) bool {
	return px >= r.X && px <= r.X+r.Width && py >= r.Y && py <= r.Y+r.Height
}

// Intersects reports whether two rectangles overlap.
// Edges that merely touch do not count.
func Intersects(a, b Rect) bool {
	return a.X < b.X+b.Width &&
		a.X+a.Width > b.X &&
		a.Y < b.Y+b.Height &&
		a.Y+a.Height > b.Y
}

// OccupiesBarrier reports whether box, moved to (x, y), overlaps barrier.
// Used to validate a single candidate barrier against the player.
func OccupiesBarrier(box Rect, x, y float64, barrier Rect) bool {
	return Intersects(box.At(x, y), barrier)
}

// OccupiesAny reports whether box, moved to (x, y), overlaps any barrier.
func OccupiesAny(box Rect, x, y float64, barriers []Rect) bool {
	moved := box.At(x, y)
	for _, b := range barriers {
		if Intersects(moved, b) {
			return true
		}
	}
	return false
}

// Distance calculates the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
