// Package object defines the arena's entities and their per-tick motion.
package object

import (
	"math"

	"github.com/tomz197/arena/internal/config"
	"github.com/tomz197/arena/internal/physics"
)

// Arena is the bounded playing field. Positions are tested against it.
type Arena struct {
	Width  float64
	Height float64
}

// DefaultArena returns the 800x600 arena.
func DefaultArena() Arena {
	return Arena{Width: config.ArenaWidth, Height: config.ArenaHeight}
}

// Bounds returns the arena as a rectangle at the origin.
func (a Arena) Bounds() physics.Rect {
	return physics.Rect{Width: a.Width, Height: a.Height}
}

// Entity is the shape shared by the player, enemies and projectiles.
// X, Y is the top-left corner; Angle is the heading in radians.
type Entity struct {
	X, Y          float64
	Width, Height float64
	Angle         float64
	Speed         float64
}

// Bounds returns the entity's bounding box.
func (e *Entity) Bounds() physics.Rect {
	return physics.Rect{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height}
}

// Center returns the center of the bounding box.
func (e *Entity) Center() (float64, float64) {
	return e.X + e.Width/2, e.Y + e.Height/2
}

// Next returns the position one step along the heading.
func (e *Entity) Next() (float64, float64) {
	return e.X + math.Cos(e.Angle)*e.Speed, e.Y + math.Sin(e.Angle)*e.Speed
}

// Advance moves the entity one step along its heading.
func (e *Entity) Advance() {
	e.X, e.Y = e.Next()
}

// IsOffScreen reports whether the entity has fully left the arena.
// The arena is extended by the entity's own size on every side, so an
// entity spawned just outside an edge is not yet gone.
func (e *Entity) IsOffScreen(a Arena) bool {
	return e.X < -e.Width ||
		e.X > a.Width+e.Width ||
		e.Y < -e.Height ||
		e.Y > a.Height+e.Height
}

// Barrier is a static obstacle. Barriers are regenerated wholesale each wave.
type Barrier = physics.Rect
