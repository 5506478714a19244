package object

import "github.com/tomz197/arena/internal/config"

// Projectile is a bullet fired by the player.
type Projectile struct {
	Entity
	FreezeShot bool // Hitting an enemy freezes every other enemy
}

// NewProjectile creates a square projectile of the given size with its
// top-left corner at (x, y), traveling along angle.
func NewProjectile(x, y, angle, size float64, freeze bool) *Projectile {
	return &Projectile{
		Entity: Entity{
			X:      x,
			Y:      y,
			Width:  size,
			Height: size,
			Angle:  angle,
			Speed:  config.ProjectileSpeed,
		},
		FreezeShot: freeze,
	}
}
