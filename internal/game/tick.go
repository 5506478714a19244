package game

import (
	"slices"
	"time"

	"github.com/tomz197/arena/internal/object"
	"github.com/tomz197/arena/internal/physics"
	"github.com/tomz197/arena/internal/steering"
)

// Step advances the session by dt. Timers run first and keep running while
// paused or choosing; the simulation itself only moves during active play.
func (s *Session) Step(dt time.Duration) {
	s.clock.Advance(dt)

	if s.choosing || s.gameOver || s.paused {
		return
	}
	s.ticks++

	s.player.Move(s.barriers, s.arena)
	s.moveProjectiles()
	s.moveEnemies()
	s.resolveCollisions()
	s.pickUpOffers()

	if p := s.player; p.InvisibilityCooldown > 0 {
		p.InvisibilityCooldown = max(0, p.InvisibilityCooldown-dt)
	}
}

// moveProjectiles advances every projectile, dropping those that would enter
// a barrier or have left the arena.
func (s *Session) moveProjectiles() {
	s.projectiles = slices.DeleteFunc(s.projectiles, func(pr *object.Projectile) bool {
		x, y := pr.Next()
		if physics.OccupiesAny(pr.Bounds(), x, y, s.barriers) {
			return true
		}
		pr.X, pr.Y = x, y
		return pr.IsOffScreen(s.arena)
	})
}

// moveEnemies steers every enemy toward the player. While the player is
// invisible nothing moves and nothing is culled.
func (s *Session) moveEnemies() {
	if s.player.Invisible {
		return
	}
	s.enemies = slices.DeleteFunc(s.enemies, func(e *object.Enemy) bool {
		steering.Step(e, s.player, s.barriers)
		return e.IsOffScreen(s.arena)
	})
}
