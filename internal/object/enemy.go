package object

import (
	"math"
	"math/rand"
	"time"

	"github.com/tomz197/arena/internal/config"
)

// Enemy pursues the player. Frozen enemies move at a fraction of their
// cached speed until their freeze expires.
type Enemy struct {
	Entity
	Frozen       bool
	BaseSpeed    float64       // Speed before the current freeze
	freezeFactor float64       // Multiplier applied while frozen
	frozenUntil  time.Duration // Clock time at which the freeze ends
}

// NewEnemy creates an enemy at (x, y) heading toward the arena center.
func NewEnemy(x, y, speed float64, arena Arena) *Enemy {
	return &Enemy{
		Entity: Entity{
			X:      x,
			Y:      y,
			Width:  config.EnemyWidth,
			Height: config.EnemyHeight,
			Angle:  math.Atan2(arena.Height/2-y, arena.Width/2-x),
			Speed:  speed,
		},
		BaseSpeed: speed,
	}
}

// NewEnemyAtEdge creates an enemy just outside a random arena edge.
func NewEnemyAtEdge(rng *rand.Rand, arena Arena, speed float64) *Enemy {
	var x, y float64
	w := float64(config.EnemyWidth)
	h := float64(config.EnemyHeight)

	switch rng.Intn(4) {
	case 0: // Top
		x = rng.Float64() * arena.Width
		y = -h
	case 1: // Right
		x = arena.Width + w
		y = rng.Float64() * arena.Height
	case 2: // Bottom
		x = rng.Float64() * arena.Width
		y = arena.Height + h
	default: // Left
		x = -w
		y = rng.Float64() * arena.Height
	}

	return NewEnemy(x, y, speed, arena)
}

// Freeze slows the enemy until the given clock time. Re-freezing an already
// frozen enemy only extends the freeze; the cached speed is kept.
func (e *Enemy) Freeze(factor float64, until time.Duration) {
	if !e.Frozen {
		e.Frozen = true
		e.BaseSpeed = e.Speed
		e.freezeFactor = factor
		e.Speed *= factor
	}
	if until > e.frozenUntil {
		e.frozenUntil = until
	}
}

// FrozenUntil returns the clock time at which the freeze ends.
func (e *Enemy) FrozenUntil() time.Duration {
	return e.frozenUntil
}

// Thaw restores the cached speed.
func (e *Enemy) Thaw() {
	if !e.Frozen {
		return
	}
	e.Frozen = false
	e.Speed = e.BaseSpeed
}

// Slow scales the enemy's speed down, never below floor. For a frozen enemy
// the cached speed is slowed and the freeze reapplied on top of it.
func (e *Enemy) Slow(factor, floor float64) {
	if e.Frozen {
		e.BaseSpeed = math.Max(floor, e.BaseSpeed*factor)
		e.Speed = e.BaseSpeed * e.freezeFactor
		return
	}
	e.Speed = math.Max(floor, e.Speed*factor)
}
