package object

import (
	"math"
	"time"

	"github.com/tomz197/arena/internal/config"
	"github.com/tomz197/arena/internal/physics"
)

// Intent holds the movement keys currently held.
type Intent struct {
	Up, Down, Left, Right bool
}

// Player is the avatar defending the arena. One per session, replaced on restart.
type Player struct {
	Entity
	Intent Intent

	Ammo  int // In [0, config.MaxAmmo]
	Lives int

	// Shot modifiers granted by power-ups
	BulletCount int // Projectiles per shot in multi-bullet mode, >= 1
	SpreadShot  bool
	SpreadAngle float64 // Half-width of the spread fan in radians
	SpreadCount int
	FreezeShot  bool
	BulletSize  float64

	// Abilities
	Invisible            bool
	InvisibilityUsable   bool          // Cleared once used; re-enabled by the power-up
	InvisibilityCooldown time.Duration // Counts down per simulation tick
	ShieldActive         bool
}

// NewPlayer creates a player at (x, y) with no power-ups.
func NewPlayer(x, y float64) *Player {
	p := &Player{
		Entity: Entity{
			X:      x,
			Y:      y,
			Width:  config.PlayerWidth,
			Height: config.PlayerHeight,
			Speed:  config.PlayerBaseSpeed,
		},
		Lives: config.InitialLives,
	}
	p.ResetPowerUps()
	return p
}

// ResetPowerUps clears every power-up effect and refills ammo.
func (p *Player) ResetPowerUps() {
	p.Speed = config.PlayerBaseSpeed
	p.Ammo = config.MaxAmmo
	p.BulletCount = 1
	p.SpreadShot = false
	p.SpreadAngle = config.SpreadBaseAngle
	p.SpreadCount = config.SpreadBaseCount + 1
	p.FreezeShot = false
	p.BulletSize = config.BulletSize
	p.Invisible = false
	p.InvisibilityUsable = true
	p.InvisibilityCooldown = 0
	p.ShieldActive = false
}

// Move applies the held intent. A move into a barrier is reverted, then the
// player is clamped to stay fully inside the arena.
func (p *Player) Move(barriers []Barrier, arena Arena) {
	x, y := p.X, p.Y
	if p.Intent.Up {
		y -= p.Speed
	}
	if p.Intent.Down {
		y += p.Speed
	}
	if p.Intent.Left {
		x -= p.Speed
	}
	if p.Intent.Right {
		x += p.Speed
	}

	if !physics.OccupiesAny(p.Bounds(), x, y, barriers) {
		p.X, p.Y = x, y
	}

	p.X = physics.Clamp(p.X, 0, arena.Width-p.Width)
	p.Y = physics.Clamp(p.Y, 0, arena.Height-p.Height)
}

// AimAt returns the heading from the player's center to (x, y).
func (p *Player) AimAt(x, y float64) float64 {
	cx, cy := p.Center()
	return math.Atan2(y-cy, x-cx)
}

// Shoot builds the projectiles for one shot toward (targetX, targetY).
// Ammo is not consumed here.
func (p *Player) Shoot(targetX, targetY float64) []*Projectile {
	angle := p.AimAt(targetX, targetY)
	cx, cy := p.Center()

	var angles []float64
	switch {
	case p.SpreadShot && p.SpreadCount > 1:
		step := p.SpreadAngle * 2 / float64(p.SpreadCount-1)
		start := angle - p.SpreadAngle
		for i := 0; i < p.SpreadCount; i++ {
			angles = append(angles, start+step*float64(i))
		}
	case p.BulletCount > 1:
		for i := 0; i < p.BulletCount; i++ {
			angles = append(angles, angle+float64(i)*(math.Pi*2/float64(p.BulletCount)))
		}
	default:
		angles = append(angles, angle)
	}

	shots := make([]*Projectile, 0, len(angles))
	for _, a := range angles {
		shots = append(shots, NewProjectile(cx, cy, a, p.BulletSize, p.FreezeShot))
	}
	return shots
}
