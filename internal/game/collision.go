package game

import (
	"slices"

	"github.com/tomz197/arena/internal/config"
	"github.com/tomz197/arena/internal/object"
	"github.com/tomz197/arena/internal/physics"
)

// resolveCollisions handles projectile hits, then contact with the player.
// Removals are collected during the scans and applied afterwards.
func (s *Session) resolveCollisions() {
	spent := make(map[*object.Projectile]struct{})
	killed := make(map[*object.Enemy]struct{})

	for _, pr := range s.projectiles {
		for _, e := range s.enemies {
			if _, dead := killed[e]; dead {
				continue
			}
			if !physics.Intersects(pr.Bounds(), e.Bounds()) {
				continue
			}
			spent[pr] = struct{}{}
			killed[e] = struct{}{}
			if pr.FreezeShot {
				s.freezeSurvivors(killed)
			}
			s.addScore(config.ScorePerKill)
			break // A projectile is consumed by its first hit
		}
	}

	if len(spent) > 0 {
		s.projectiles = slices.DeleteFunc(s.projectiles, func(pr *object.Projectile) bool {
			_, ok := spent[pr]
			return ok
		})
		s.enemies = slices.DeleteFunc(s.enemies, func(e *object.Enemy) bool {
			_, ok := killed[e]
			return ok
		})
	}

	s.resolvePlayerContact()
}

// resolvePlayerContact slows enemies touching a shielded player. Without a
// shield the first contact costs a life and clears the arena.
func (s *Session) resolvePlayerContact() {
	box := s.player.Bounds()
	for _, e := range s.enemies {
		if !physics.Intersects(box, e.Bounds()) {
			continue
		}
		if s.player.ShieldActive {
			e.Slow(config.ShieldSlowFactor, config.EnemyBaseSpeed)
			continue
		}
		s.loseLife()
		return
	}
}

func (s *Session) loseLife() {
	s.player.Lives--
	s.enemies = nil
	s.log.Debug("life lost", "lives", s.player.Lives, "score", s.score)
	if s.player.Lives <= 0 {
		s.endGame()
	}
}

// pickUpOffers accepts any offer the player walks into. Offers only exist
// while choosing, when Step holds the simulation, so in play tiles are taken
// by SelectAt or SelectOffer.
func (s *Session) pickUpOffers() {
	box := s.player.Bounds()
	for _, o := range s.offers {
		if physics.Intersects(box, o.Bounds()) {
			s.accept(o.Type)
			return
		}
	}
}

// endGame stops play, records a new best and clears all power-ups. Score and
// wave stay visible until restart.
func (s *Session) endGame() {
	s.gameOver = true
	s.generation++
	if s.score > s.highScore {
		s.highScore = s.score
		if err := s.store.Save(s.highScore); err != nil {
			s.log.Warn("failed to save high score", "score", s.highScore, "err", err)
		} else {
			s.log.Debug("high score saved", "score", s.highScore)
		}
	}
	s.resetPowerUps()
	s.log.Debug("game over", "score", s.score, "wave", s.wave)
}
