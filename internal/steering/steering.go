// Package steering moves enemies toward the player around barriers.
//
// Each tick an enemy considers a fixed fan of candidate moves, drops the ones
// that would put it inside a barrier and takes the best of what remains.
package steering

import (
	"math"

	"github.com/tomz197/arena/internal/object"
	"github.com/tomz197/arena/internal/physics"
)

// Move is a candidate displacement for one tick.
type Move struct {
	DX, DY float64
}

// Candidates returns the 13 moves considered for an enemy with the given
// speed heading along the unit vector (ux, uy). The direct pursuit step is
// always first.
func Candidates(ux, uy, speed float64) []Move {
	const (
		diag     = 0.7
		wideLong = 0.9
		wideShrt = 0.4
	)
	return []Move{
		{ux * speed, uy * speed},

		{speed, 0},
		{-speed, 0},
		{0, speed},
		{0, -speed},

		{speed * diag, speed * diag},
		{speed * diag, -speed * diag},
		{-speed * diag, speed * diag},
		{-speed * diag, -speed * diag},

		{speed * wideLong, speed * wideShrt},
		{speed * wideShrt, speed * wideLong},
		{-speed * wideLong, speed * wideShrt},
		{-speed * wideShrt, speed * wideLong},
	}
}

// Choose picks the move for an enemy occupying box toward the target point.
// It returns false when every candidate is blocked.
func Choose(box physics.Rect, speed, targetX, targetY float64, barriers []physics.Rect) (Move, bool) {
	cx, cy := box.Center()
	dx, dy := targetX-cx, targetY-cy
	current := math.Hypot(dx, dy)

	var ux, uy float64
	if current > 0 {
		ux, uy = dx/current, dy/current
	}

	candidates := Candidates(ux, uy, speed)

	direct := candidates[0]
	if !physics.OccupiesAny(box, box.X+direct.DX, box.Y+direct.DY, barriers) &&
		physics.Distance(cx+direct.DX, cy+direct.DY, targetX, targetY) < current {
		return direct, true
	}

	best, found := Move{}, false
	bestDist := math.Inf(1)
	for _, m := range candidates {
		if physics.OccupiesAny(box, box.X+m.DX, box.Y+m.DY, barriers) {
			continue
		}
		if d := physics.Distance(cx+m.DX, cy+m.DY, targetX, targetY); d < bestDist {
			best, bestDist, found = m, d, true
		}
	}
	return best, found
}

// Step advances e one tick toward the player's center. An enemy with no free
// candidate stays where it is.
func Step(e *object.Enemy, p *object.Player, barriers []object.Barrier) {
	tx, ty := p.Center()
	m, ok := Choose(e.Bounds(), e.Speed, tx, ty, barriers)
	if !ok {
		return
	}
	e.X += m.DX
	e.Y += m.DY
	e.Angle = math.Atan2(ty-(e.Y+e.Height/2), tx-(e.X+e.Width/2))
}
