package game

import (
	"time"

	"github.com/tomz197/arena/internal/config"
	"github.com/tomz197/arena/internal/object"
	"github.com/tomz197/arena/internal/powerup"
)

// Snapshot is an immutable copy of everything a renderer needs for one frame.
type Snapshot struct {
	Arena       object.Arena
	Player      object.Player
	Enemies     []object.Enemy
	Projectiles []object.Projectile
	Barriers    []object.Barrier
	Offers      []object.PowerUpOffer
	PowerUps    []powerup.Record

	Score     int
	Wave      int
	HighScore int
	Lives     int
	Ammo      int
	MaxAmmo   int

	Paused   bool
	GameOver bool
	Choosing bool

	Invisible            bool
	InvisibleRemaining   time.Duration
	InvisibilityReady    bool
	InvisibilityCooldown time.Duration
	Shield               bool
	ShieldRemaining      time.Duration
	BulletSize           float64
	SpawnInterval        time.Duration

	Time  time.Duration // Session clock
	Ticks uint64        // Simulation steps taken while playing
}

// Snapshot copies the current state.
func (s *Session) Snapshot() *Snapshot {
	p := s.player
	snap := &Snapshot{
		Arena:       s.arena,
		Player:      *p,
		Enemies:     make([]object.Enemy, len(s.enemies)),
		Projectiles: make([]object.Projectile, len(s.projectiles)),
		Barriers:    append([]object.Barrier(nil), s.barriers...),
		Offers:      append([]object.PowerUpOffer(nil), s.offers...),
		PowerUps:    s.progression.Records(),

		Score:     s.score,
		Wave:      s.wave,
		HighScore: s.highScore,
		Lives:     p.Lives,
		Ammo:      p.Ammo,
		MaxAmmo:   config.MaxAmmo,

		Paused:   s.paused,
		GameOver: s.gameOver,
		Choosing: s.choosing,

		Invisible:            p.Invisible,
		InvisibilityCooldown: p.InvisibilityCooldown,
		Shield:               p.ShieldActive,
		BulletSize:           p.BulletSize,
		SpawnInterval:        s.spawnInterval,

		Time:  s.clock.Now(),
		Ticks: s.ticks,
	}
	for i, e := range s.enemies {
		snap.Enemies[i] = *e
	}
	for i, pr := range s.projectiles {
		snap.Projectiles[i] = *pr
	}
	if p.Invisible {
		snap.InvisibleRemaining, _ = s.clock.Remaining(s.invisibleTimer)
	}
	if p.ShieldActive {
		snap.ShieldRemaining, _ = s.clock.Remaining(s.shieldTimer)
	}
	snap.InvisibilityReady = !p.Invisible && p.InvisibilityUsable &&
		p.InvisibilityCooldown <= 0 && s.progression.Level(powerup.Invisibility) > 0
	return snap
}
