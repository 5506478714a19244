// Package config centralizes all tunable game parameters and runtime settings.
package config

import "time"

// Arena dimensions in logical units. All positions are clamped or tested against these.
const (
	ArenaWidth  = 800
	ArenaHeight = 600
)

// Player
const (
	PlayerWidth         = 80
	PlayerHeight        = 80
	PlayerStartX        = 400
	PlayerStartY        = 300
	PlayerBaseSpeed     = 4.0
	PlayerSpeedPerLevel = 0.7
	InitialLives        = 1
)

// Enemies
const (
	EnemyWidth        = 70
	EnemyHeight       = 70
	EnemyBaseSpeed    = 1.25
	EnemySpeedPerWave = 0.15
	MaxEnemiesPerWave = 3 // Upper bound on enemies spawned per timer firing

	FreezeSpeedFactor = 0.3 // Frozen enemies move at 30% of their cached speed
	FreezeDuration    = 3000 * time.Millisecond
	ShieldSlowFactor  = 0.8 // Shielded contact slows an enemy by 20%
)

// Projectiles
const (
	ProjectileSpeed    = 10.0
	BulletSize         = 10.0
	BulletSizePerLevel = 15.0
)

// Spread shot
const (
	SpreadBaseAngle     = 0.2 // Radians
	SpreadAnglePerLevel = 0.1
	SpreadBaseCount     = 2
)

// Scoring and waves
const (
	ScorePerKill = 100
	ScorePerWave = 1000

	SpawnIntervalBase = 3000 * time.Millisecond
	SpawnIntervalStep = 250 * time.Millisecond
	SpawnIntervalMin  = 2000 * time.Millisecond
)

// Barriers
const (
	BarrierGridSize          = 4 // Barriers are laid out on a 4x4 grid
	BarrierThickness         = 20.0
	BarrierMinLength         = 80.0
	BarrierLengthRange       = 120.0
	BarrierPadding           = 30.0
	BarrierBaseCount         = 4
	MaxBarriers              = 10
	BarrierPlacementAttempts = 20
	BarrierMinCellDistance   = 1 // Cells at this Manhattan distance or closer to the player are off-limits
)

// Power-up offers
const (
	OfferDelay     = 1000 * time.Millisecond
	OffersPerRound = 2
	OfferSize      = 100.0
	OfferBaseX     = 250.0
	OfferSpacing   = 300.0
	OfferY         = 250.0
)

// Abilities
const (
	MaxAmmo           = 3
	AmmoRegenInterval = 1750 * time.Millisecond

	InvisibilityDuration = 5000 * time.Millisecond
	InvisibilityCooldown = 30000 * time.Millisecond
	ShieldDuration       = 5000 * time.Millisecond
)

// Server loop
const (
	DefaultTickRate = 60
	CommandBuffer   = 64                     // Pending commands per session before Send drops
	MaxTickDelta    = 250 * time.Millisecond // Longer stalls are not replayed into timers
	ShutdownTimeout = 15 * time.Second
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
	MaxTermWidth          = 200 // Columns beyond this are left as border
	MaxTermHeight         = 75
)

// Inactivity and shutdown
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
	ShutdownDisplaySeconds   = 5.0
)
