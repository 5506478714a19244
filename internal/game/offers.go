package game

import (
	"github.com/tomz197/arena/internal/config"
	"github.com/tomz197/arena/internal/object"
	"github.com/tomz197/arena/internal/powerup"
)

// openOfferRound puts up to two power-up tiles on screen and holds the
// simulation until one is picked. Nothing happens if a round is already
// showing or no type is eligible.
func (s *Session) openOfferRound() {
	if s.gameOver || len(s.offers) > 0 {
		return
	}
	types := s.progression.Offer(s.rng, config.OffersPerRound)
	if len(types) == 0 {
		s.log.Debug("offer round skipped, every power-up is maxed")
		return
	}
	s.offers = object.NewOffers(types)
	s.choosing = true
	s.stopSpawn()
	s.log.Debug("offer round", "offers", types)
}

// Offers returns the tiles of the current offer round.
func (s *Session) Offers() []object.PowerUpOffer {
	return s.offers
}

// SelectAt picks the offer whose tile contains (x, y), edges included.
// Clicks outside every tile are ignored.
func (s *Session) SelectAt(x, y float64) bool {
	if !s.choosing {
		return false
	}
	for _, o := range s.offers {
		if o.Bounds().Contains(x, y) {
			s.accept(o.Type)
			return true
		}
	}
	return false
}

// SelectOffer picks the i-th offer of the current round.
func (s *Session) SelectOffer(i int) bool {
	if i < 0 || i >= len(s.offers) {
		return false
	}
	s.accept(s.offers[i].Type)
	return true
}

// accept ends the offer round, resumes play and levels up t.
func (s *Session) accept(t powerup.Type) {
	s.offers = nil
	s.choosing = false
	s.paused = false
	s.startSpawn()

	level, ok := s.progression.Advance(t)
	if !ok {
		return
	}
	s.applyPowerUp(t, level)
	s.log.Debug("power-up selected", "type", t, "level", level, "maxed", s.progression.Used(t))
}

// applyPowerUp applies the effect of t having just reached level.
func (s *Session) applyPowerUp(t powerup.Type, level int) {
	p := s.player
	switch t {
	case powerup.DoubleBullet:
		p.BulletCount = 1 + level
		p.SpreadShot = false
	case powerup.Speed:
		p.Speed = config.PlayerBaseSpeed + float64(level)*config.PlayerSpeedPerLevel
	case powerup.ExtraLife:
		p.Lives++
	case powerup.SpreadShot:
		p.SpreadShot = true
		p.SpreadAngle = config.SpreadBaseAngle + float64(level)*config.SpreadAnglePerLevel
		p.SpreadCount = config.SpreadBaseCount + level
		p.BulletCount = 1
	case powerup.BiggerBullets:
		p.BulletSize = config.BulletSize + float64(level)*config.BulletSizePerLevel
	case powerup.Invisibility:
		p.InvisibilityUsable = true
	case powerup.Shield:
		s.activateShield()
	case powerup.Freeze:
		p.FreezeShot = true
	}
}
