package game

import (
	"github.com/tomz197/arena/internal/config"
	"github.com/tomz197/arena/internal/object"
	"github.com/tomz197/arena/internal/powerup"
)

// Shoot fires one shot toward (x, y). A shot with no ammo left does nothing.
func (s *Session) Shoot(x, y float64) bool {
	p := s.player
	if p.Ammo <= 0 {
		return false
	}
	p.Ammo--
	s.projectiles = append(s.projectiles, p.Shoot(x, y)...)
	if p.Ammo < config.MaxAmmo {
		s.startAmmoRegen()
	}
	return true
}

// startAmmoRegen adds one round per interval until the magazine is full.
func (s *Session) startAmmoRegen() {
	if s.clock.Active(s.ammoTimer) {
		return
	}
	p := s.player
	s.ammoTimer = s.clock.Every(config.AmmoRegenInterval, func() bool {
		if p.Ammo < config.MaxAmmo {
			p.Ammo++
		}
		if p.Ammo >= config.MaxAmmo {
			s.ammoTimer = 0
			return false
		}
		return true
	})
}

func (s *Session) stopAmmoRegen() {
	if s.ammoTimer != 0 {
		s.clock.Cancel(s.ammoTimer)
		s.ammoTimer = 0
	}
}

// ActivateInvisibility hides the player for a fixed window, during which no
// enemy moves. Afterwards the ability locks out until the power-up is picked
// again and a cooldown runs down.
func (s *Session) ActivateInvisibility() bool {
	p := s.player
	if s.gameOver || p.Invisible || !p.InvisibilityUsable || p.InvisibilityCooldown > 0 {
		return false
	}
	if s.progression.Level(powerup.Invisibility) == 0 {
		return false
	}

	p.Invisible = true
	gen := s.generation
	s.invisibleTimer = s.clock.After(config.InvisibilityDuration, func() {
		if s.generation != gen {
			return
		}
		p.Invisible = false
		p.InvisibilityUsable = false
		p.InvisibilityCooldown = config.InvisibilityCooldown
	})
	s.log.Debug("invisibility on")
	return true
}

// activateShield raises the shield for a fixed window. Retriggering an active
// shield does not extend it.
func (s *Session) activateShield() {
	p := s.player
	if p.ShieldActive {
		return
	}
	p.ShieldActive = true
	gen := s.generation
	s.shieldTimer = s.clock.After(config.ShieldDuration, func() {
		if s.generation == gen {
			p.ShieldActive = false
		}
	})
}

// freezeSurvivors slows every enemy not in hit for the freeze window.
func (s *Session) freezeSurvivors(hit map[*object.Enemy]struct{}) {
	until := s.clock.Now() + config.FreezeDuration
	frozen := 0
	for _, e := range s.enemies {
		if _, ok := hit[e]; ok {
			continue
		}
		e.Freeze(config.FreezeSpeedFactor, until)
		frozen++
	}
	if frozen == 0 {
		return
	}

	gen := s.generation
	s.clock.After(config.FreezeDuration, func() {
		if s.generation == gen {
			s.thawExpired()
		}
	})
}

// thawExpired restores enemies whose freeze has run out and that are still
// on screen.
func (s *Session) thawExpired() {
	now := s.clock.Now()
	for _, e := range s.enemies {
		if e.Frozen && e.FrozenUntil() <= now && !e.IsOffScreen(s.arena) {
			e.Thaw()
		}
	}
}

// resetPowerUps clears every level and effect, refills ammo and stops regen.
func (s *Session) resetPowerUps() {
	s.progression.Reset()
	s.player.ResetPowerUps()
	s.stopAmmoRegen()
}
