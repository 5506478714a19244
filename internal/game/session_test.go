package game

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/arena/internal/config"
	"github.com/tomz197/arena/internal/object"
	"github.com/tomz197/arena/internal/physics"
	"github.com/tomz197/arena/internal/powerup"
	"github.com/tomz197/arena/internal/storage"
)

const tick = 16 * time.Millisecond

// newSession returns an initialised session with the barriers cleared so
// tests control every obstacle.
func newSession(t *testing.T, opts ...Option) (*Session, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore(0)
	s := New(append([]Option{WithSeed(1), WithStore(store)}, opts...)...)
	s.Init()
	s.barriers = nil
	return s, store
}

// queueKill places an enemy away from the player with a projectile about to
// hit it.
func queueKill(s *Session, freeze bool) *object.Enemy {
	e := object.NewEnemy(100, 100, 1.4, s.arena)
	s.enemies = append(s.enemies, e)
	s.projectiles = append(s.projectiles, object.NewProjectile(120, 120, 0, config.BulletSize, freeze))
	return e
}

func TestInitialState(t *testing.T) {
	s, _ := newSession(t)
	snap := s.Snapshot()

	assert.Equal(t, 0, snap.Score)
	assert.Equal(t, 1, snap.Wave)
	assert.Equal(t, 1, snap.Lives)
	assert.Equal(t, 3, snap.Ammo)
	assert.Equal(t, 400.0, snap.Player.X)
	assert.Equal(t, 300.0, snap.Player.Y)
	assert.Equal(t, 3000*time.Millisecond, snap.SpawnInterval)
	assert.False(t, snap.Paused)
	assert.False(t, snap.GameOver)
	assert.Len(t, snap.PowerUps, 8)
}

func TestWaveFormulas(t *testing.T) {
	for score, want := range map[int]int{0: 1, 999: 1, 1000: 2, 1900: 2, 5400: 6} {
		assert.Equal(t, want, WaveForScore(score), "score %d", score)
	}
	for wave, want := range map[int]time.Duration{1: 3000, 2: 2750, 4: 2250, 5: 2000, 9: 2000} {
		assert.Equal(t, want*time.Millisecond, SpawnInterval(wave), "wave %d", wave)
	}
	for wave, want := range map[int]int{1: 1, 2: 2, 3: 2, 4: 3, 10: 3} {
		assert.Equal(t, want, EnemiesPerSpawn(wave), "wave %d", wave)
	}
	for wave, want := range map[int]int{1: 4, 2: 5, 7: 7, 12: 10, 30: 10} {
		assert.Equal(t, want, BarrierCount(wave), "wave %d", wave)
	}
	assert.InDelta(t, 1.4, EnemySpeed(1), 1e-9)
	assert.InDelta(t, 1.55, EnemySpeed(2), 1e-9)
}

func TestTenKillsReachWaveTwo(t *testing.T) {
	s, _ := newSession(t)

	for i := 1; i <= 10; i++ {
		queueKill(s, false)
		s.Step(tick)
		require.Equal(t, i*config.ScorePerKill, s.Score())
		require.Empty(t, s.projectiles)
		require.Equal(t, WaveForScore(s.Score()), s.Wave())
	}

	assert.Equal(t, 2, s.Wave())
	assert.Equal(t, 2750*time.Millisecond, s.SpawnInterval())

	// The offer round opens one second after the wave-up and halts play.
	s.Step(config.OfferDelay - tick)
	assert.False(t, s.Choosing())
	s.Step(tick)
	assert.True(t, s.Choosing())
	assert.Len(t, s.Offers(), 2)
}

func TestProjectileConsumedByFirstHit(t *testing.T) {
	s, _ := newSession(t)
	queueKill(s, false)
	s.enemies = append(s.enemies, object.NewEnemy(100, 100, 1.4, s.arena))

	s.Step(tick)
	assert.Equal(t, 100, s.Score())
	assert.Len(t, s.enemies, 1)
	assert.Empty(t, s.projectiles)
}

func TestProjectileStoppedByBarrier(t *testing.T) {
	s, _ := newSession(t)
	s.barriers = []object.Barrier{{X: 135, Y: 0, Width: 20, Height: 600}}
	s.projectiles = append(s.projectiles, object.NewProjectile(120, 120, 0, config.BulletSize, false))

	s.Step(tick)
	assert.Empty(t, s.projectiles)
}

func TestProjectileLeavesArena(t *testing.T) {
	s, _ := newSession(t)
	s.projectiles = append(s.projectiles, object.NewProjectile(795, 100, 0, config.BulletSize, false))
	s.Step(tick)
	assert.Len(t, s.projectiles, 1)
	s.Step(tick)
	assert.Empty(t, s.projectiles)
}

func TestPlayerDeathEndsGame(t *testing.T) {
	s, store := newSession(t)
	s.score = 500
	s.enemies = append(s.enemies,
		object.NewEnemy(420, 320, 1.4, s.arena),
		object.NewEnemy(10, 10, 1.4, s.arena),
	)
	s.player.Ammo = 1
	s.startAmmoRegen()

	s.Step(tick)

	snap := s.Snapshot()
	assert.True(t, snap.GameOver)
	assert.Equal(t, 0, snap.Lives)
	assert.Empty(t, snap.Enemies, "losing a life clears the arena")
	assert.Equal(t, 500, snap.Score, "score stays visible")
	assert.Equal(t, 500, snap.HighScore)
	assert.Equal(t, 3, snap.Ammo, "ammo refilled")
	assert.False(t, s.clock.Active(s.ammoTimer), "regen cancelled")

	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 500, saved)

	// Input no longer moves or fires.
	x := s.player.X
	s.SetIntent(object.Intent{Right: true})
	s.Step(tick)
	assert.Equal(t, x, s.player.X)
	assert.False(t, s.Click(0, 0))
	assert.False(t, s.TogglePause())
}

func TestHighScoreOnlyWrittenWhenBeaten(t *testing.T) {
	store := storage.NewMemoryStore(1000)
	s := New(WithSeed(1), WithStore(store))
	s.Init()
	require.Equal(t, 1000, s.HighScore())

	s.score = 1000
	s.loseLife()
	require.True(t, s.GameOver())
	assert.Equal(t, 0, store.Saves(), "a tie is not a new high score")

	s.Restart()
	assert.Equal(t, 1000, s.HighScore(), "restart keeps the high score")
}

type brokenStore struct{}

func (brokenStore) Load() (int, error) {
	return 0, fmt.Errorf("decoding: %w", storage.ErrCorrupt)
}

func (brokenStore) Save(int) error { return errors.New("read-only") }

func TestHighScoreStoreFailures(t *testing.T) {
	s := New(WithSeed(1), WithStore(brokenStore{}))
	s.Init()
	assert.Zero(t, s.HighScore())

	s.score = 300
	s.loseLife()
	assert.True(t, s.GameOver())
	assert.Equal(t, 300, s.HighScore(), "the session keeps its best even if saving fails")
}

func TestRestart(t *testing.T) {
	s, _ := newSession(t)
	s.score = 2500
	s.wave = 3
	s.progression.Advance(powerup.Speed)
	s.loseLife()
	require.True(t, s.GameOver())

	s.Restart()
	snap := s.Snapshot()
	assert.False(t, snap.GameOver)
	assert.Zero(t, snap.Score)
	assert.Equal(t, 1, snap.Wave)
	assert.Equal(t, 1, snap.Lives)
	assert.Equal(t, 2500, snap.HighScore)
	for _, r := range snap.PowerUps {
		assert.Zero(t, r.Level)
	}
	assert.Equal(t, SpawnInterval(1), snap.SpawnInterval)
}

func TestSelectingDoubleBullet(t *testing.T) {
	s, _ := newSession(t)

	for want := 2; want <= 4; want++ {
		s.offers = object.NewOffers([]powerup.Type{powerup.DoubleBullet})
		s.choosing = true
		require.True(t, s.SelectAt(300, 300))
		assert.Equal(t, want, s.player.BulletCount)
		assert.False(t, s.Choosing())
		assert.Empty(t, s.Offers())
	}

	assert.Equal(t, 3, s.progression.Level(powerup.DoubleBullet))
	assert.True(t, s.progression.Used(powerup.DoubleBullet))
	for i := 0; i < 100; i++ {
		assert.NotContains(t, s.progression.Offer(s.rng, 2), powerup.DoubleBullet)
	}

	shots := s.player.Shoot(0, 0)
	assert.Len(t, shots, 4)
}

func TestPowerUpEffects(t *testing.T) {
	s, _ := newSession(t)
	p := s.player

	s.accept(powerup.Speed)
	assert.InDelta(t, 4.7, p.Speed, 1e-9)

	s.accept(powerup.ExtraLife)
	assert.Equal(t, 2, p.Lives)

	s.accept(powerup.DoubleBullet)
	s.accept(powerup.SpreadShot)
	assert.True(t, p.SpreadShot)
	assert.Equal(t, 1, p.BulletCount)
	assert.InDelta(t, 0.3, p.SpreadAngle, 1e-9)
	assert.Equal(t, 3, p.SpreadCount)

	s.accept(powerup.DoubleBullet)
	assert.False(t, p.SpreadShot, "double bullets turn spread off")
	assert.Equal(t, 3, p.BulletCount)

	s.accept(powerup.BiggerBullets)
	s.accept(powerup.BiggerBullets)
	assert.Equal(t, 40.0, p.BulletSize)

	s.accept(powerup.Freeze)
	assert.True(t, p.FreezeShot)

	s.accept(powerup.Shield)
	assert.True(t, p.ShieldActive)
}

func TestOfferClickHitTest(t *testing.T) {
	s, _ := newSession(t)
	s.offers = object.NewOffers([]powerup.Type{powerup.Speed, powerup.Freeze})
	s.choosing = true

	assert.False(t, s.Click(400, 300), "between the tiles")
	assert.True(t, s.Choosing())
	assert.Empty(t, s.projectiles, "clicks never fire during an offer round")

	assert.True(t, s.Click(650, 350), "edges count")
	assert.True(t, s.player.FreezeShot)
	assert.Equal(t, 0, s.progression.Level(powerup.Speed))
}

func TestSelectOfferByIndex(t *testing.T) {
	s, _ := newSession(t)
	s.offers = object.NewOffers([]powerup.Type{powerup.ExtraLife, powerup.Shield})
	s.choosing = true

	assert.False(t, s.SelectOffer(2))
	assert.True(t, s.SelectOffer(0))
	assert.Equal(t, 2, s.player.Lives)
	assert.False(t, s.SelectOffer(0), "round already over")
}

func TestOfferRoundHoldsSpawns(t *testing.T) {
	s, _ := newSession(t)
	s.openOfferRound()
	require.True(t, s.Choosing())
	require.Len(t, s.Offers(), 2)

	assert.False(t, s.TogglePause(), "no pausing while choosing")

	s.Step(10 * time.Second)
	assert.Empty(t, s.enemies)

	require.True(t, s.SelectOffer(1))
	s.Step(SpawnInterval(1))
	assert.Len(t, s.enemies, 1)
}

func TestOfferRoundSkippedWhenPendingOrExhausted(t *testing.T) {
	s, _ := newSession(t)
	s.offers = object.NewOffers([]powerup.Type{powerup.Shield})
	s.openOfferRound()
	assert.Len(t, s.Offers(), 1, "a pending round is left alone")

	s.offers = nil
	for _, pt := range powerup.All() {
		for s.progression.Level(pt) < pt.Max() {
			s.progression.Advance(pt)
		}
	}
	s.openOfferRound()
	assert.False(t, s.Choosing())
	assert.Empty(t, s.Offers())
}

func TestOfferTilesOnlyTakenBySelection(t *testing.T) {
	s, _ := newSession(t)
	s.openOfferRound()
	require.True(t, s.Choosing())
	offered := len(s.Offers())
	require.NotZero(t, offered)

	tile := s.Offers()[0]
	s.player.X, s.player.Y = tile.Rect.X, tile.Rect.Y
	s.Step(tick)
	assert.True(t, s.Choosing(), "the tick is held while choosing, so standing on a tile does nothing")
	assert.Len(t, s.Offers(), offered)

	s.pickUpOffers()
	assert.False(t, s.Choosing())
	assert.Empty(t, s.Offers())
	assert.Equal(t, 1, s.progression.Level(tile.Type))
}

func TestFreezeShot(t *testing.T) {
	s, _ := newSession(t)
	target := queueKill(s, true)
	others := []*object.Enemy{
		object.NewEnemy(600, 50, 2, s.arena),
		object.NewEnemy(650, 450, 2, s.arena),
		object.NewEnemy(150, 450, 2, s.arena),
	}
	s.enemies = append(s.enemies, others...)

	s.Step(tick)
	require.NotContains(t, s.enemies, target)
	require.Len(t, s.enemies, 3)
	for _, e := range others {
		assert.True(t, e.Frozen)
		assert.InDelta(t, 0.6, e.Speed, 1e-9)
	}

	// Pause so nothing moves; the freeze timer keeps running regardless.
	require.True(t, s.TogglePause())
	s.Step(config.FreezeDuration - time.Millisecond)
	for _, e := range others {
		assert.True(t, e.Frozen)
	}

	s.Step(time.Millisecond)
	for _, e := range others {
		assert.False(t, e.Frozen)
		assert.Equal(t, 2.0, e.Speed, "speed restored exactly")
	}
}

func TestFrozenEnemiesMoveSlower(t *testing.T) {
	s, _ := newSession(t)
	queueKill(s, true)
	e := object.NewEnemy(600, 50, 2, s.arena)
	s.enemies = append(s.enemies, e)

	s.Step(tick)
	x, y := e.X, e.Y
	s.Step(tick)
	assert.InDelta(t, 0.6, physics.Distance(x, y, e.X, e.Y), 1e-9)
}

func TestRefreezeExtends(t *testing.T) {
	s, _ := newSession(t)
	queueKill(s, true)
	e := object.NewEnemy(600, 50, 2, s.arena)
	s.enemies = append(s.enemies, e)
	s.Step(tick)
	require.True(t, s.TogglePause())

	s.Step(2 * time.Second)
	require.True(t, s.TogglePause())
	queueKill(s, true)
	s.Step(tick)
	require.True(t, s.TogglePause())

	s.Step(time.Second)
	assert.True(t, e.Frozen, "first timer fired but the second freeze still holds")
	assert.InDelta(t, 0.6, e.Speed, 1e-9)

	s.Step(2 * time.Second)
	assert.False(t, e.Frozen)
	assert.Equal(t, 2.0, e.Speed)
}

func TestShieldSlowsInsteadOfKilling(t *testing.T) {
	s, _ := newSession(t)
	s.accept(powerup.Shield)
	e := object.NewEnemy(420, 320, 2, s.arena)
	s.enemies = append(s.enemies, e)

	s.Step(tick)
	assert.Equal(t, 1, s.player.Lives)
	assert.False(t, s.GameOver())
	assert.Contains(t, s.enemies, e)
	assert.InDelta(t, 1.6, e.Speed, 1e-9)

	for i := 0; i < 10; i++ {
		s.Step(tick)
	}
	assert.Equal(t, config.EnemyBaseSpeed, e.Speed, "floored")
}

func TestShieldNotExtendedByRetrigger(t *testing.T) {
	s, _ := newSession(t)
	s.accept(powerup.Shield)
	require.True(t, s.TogglePause())
	s.Step(3 * time.Second)

	s.accept(powerup.Shield)
	require.True(t, s.TogglePause())
	s.Step(2 * time.Second)
	assert.False(t, s.player.ShieldActive)
}

// Pausing stops the simulation and spawning, but ability timers keep counting.
func TestPauseDoesNotHoldAbilityTimers(t *testing.T) {
	s, _ := newSession(t)
	s.accept(powerup.Shield)
	require.True(t, s.TogglePause())
	require.True(t, s.Paused())

	s.Step(config.ShieldDuration)
	assert.False(t, s.player.ShieldActive)
	assert.Empty(t, s.enemies, "no spawns while paused")

	require.True(t, s.TogglePause())
	s.Step(SpawnInterval(1))
	assert.Len(t, s.enemies, 1)
}

func TestSpawnBatchesAtEdges(t *testing.T) {
	s, _ := newSession(t)
	s.wave = 4
	s.startSpawn()

	s.Step(SpawnInterval(4))
	require.Len(t, s.enemies, 3)
	for _, e := range s.enemies {
		assert.InDelta(t, EnemySpeed(4), e.Speed, 1e-9)
		assert.False(t, e.IsOffScreen(s.arena))
	}
}

func TestInvisibility(t *testing.T) {
	s, _ := newSession(t)
	assert.False(t, s.ActivateInvisibility(), "needs the power-up")

	s.accept(powerup.Invisibility)
	e := object.NewEnemy(0, 100, 2, s.arena)
	s.enemies = append(s.enemies, e)

	require.True(t, s.ActivateInvisibility())
	assert.False(t, s.ActivateInvisibility(), "already active")

	x, y := e.X, e.Y
	s.Step(tick)
	assert.Equal(t, x, e.X)
	assert.Equal(t, y, e.Y)
	assert.True(t, s.Snapshot().Invisible)

	s.Step(config.InvisibilityDuration)
	p := s.player
	assert.False(t, p.Invisible)
	assert.False(t, p.InvisibilityUsable)
	assert.Greater(t, p.InvisibilityCooldown, time.Duration(0))
	assert.False(t, s.ActivateInvisibility(), "locked out")

	s.accept(powerup.Invisibility)
	assert.True(t, p.InvisibilityUsable)
	assert.False(t, s.ActivateInvisibility(), "still cooling down")

	s.Step(config.InvisibilityCooldown)
	assert.Zero(t, p.InvisibilityCooldown)
	assert.True(t, s.Snapshot().InvisibilityReady)
	assert.True(t, s.ActivateInvisibility())
}

func TestInvisibilityCooldownOnlyRunsWhilePlaying(t *testing.T) {
	s, _ := newSession(t)
	s.player.InvisibilityCooldown = time.Second
	require.True(t, s.TogglePause())
	s.Step(5 * time.Second)
	assert.Equal(t, time.Second, s.player.InvisibilityCooldown)
}

func TestTimersDoNothingAfterRestart(t *testing.T) {
	s, _ := newSession(t)
	s.accept(powerup.Invisibility)
	require.True(t, s.ActivateInvisibility())
	s.loseLife()
	require.True(t, s.GameOver())

	s.Restart()
	s.barriers = nil
	s.Step(config.InvisibilityDuration)
	assert.True(t, s.player.InvisibilityUsable)
	assert.Zero(t, s.player.InvisibilityCooldown)

	// A wave-up's pending offer round is dropped too.
	s.score = 900
	queueKill(s, false)
	s.Step(tick)
	require.Equal(t, 2, s.Wave())
	s.Restart()
	s.Step(config.OfferDelay)
	assert.False(t, s.Choosing())
}

func TestAmmo(t *testing.T) {
	s, _ := newSession(t)

	for i := 0; i < 3; i++ {
		require.True(t, s.Shoot(0, 0))
	}
	assert.Equal(t, 0, s.player.Ammo)
	assert.False(t, s.Shoot(0, 0), "empty")
	assert.Len(t, s.projectiles, 3)

	require.True(t, s.TogglePause())
	s.Step(config.AmmoRegenInterval - time.Millisecond)
	assert.Equal(t, 0, s.player.Ammo)
	s.Step(time.Millisecond)
	assert.Equal(t, 1, s.player.Ammo)
	s.Step(config.AmmoRegenInterval)
	assert.Equal(t, 2, s.player.Ammo)
	s.Step(config.AmmoRegenInterval)
	assert.Equal(t, 3, s.player.Ammo)
	assert.False(t, s.clock.Active(s.ammoTimer), "regen stops when full")

	s.Step(10 * config.AmmoRegenInterval)
	assert.Equal(t, 3, s.player.Ammo)
}

func TestAmmoStaysInBounds(t *testing.T) {
	s, _ := newSession(t)
	rng := rand.New(rand.NewSource(5))
	require.True(t, s.TogglePause())

	for i := 0; i < 2000; i++ {
		if rng.Intn(3) == 0 {
			s.Shoot(rng.Float64()*800, rng.Float64()*600)
		} else {
			s.Step(time.Duration(rng.Intn(400)) * time.Millisecond)
		}
		require.GreaterOrEqual(t, s.player.Ammo, 0)
		require.LessOrEqual(t, s.player.Ammo, config.MaxAmmo)
	}
}

func TestClickShootsOnlyWhilePlaying(t *testing.T) {
	s, _ := newSession(t)
	assert.True(t, s.Click(0, 0))
	assert.Len(t, s.projectiles, 1)

	require.True(t, s.TogglePause())
	assert.False(t, s.Click(0, 0))
	assert.Len(t, s.projectiles, 1)
}

func TestPlayerBlockedByBarrier(t *testing.T) {
	s, _ := newSession(t)
	s.barriers = []object.Barrier{{X: 482, Y: 0, Width: 20, Height: 600}}
	s.SetIntent(object.Intent{Right: true})
	s.Step(tick)
	assert.Equal(t, 400.0, s.player.X)
}

func TestBarrierLayout(t *testing.T) {
	for seed := int64(0); seed < 200; seed++ {
		s := New(WithSeed(seed))
		s.Init()
		s.wave = 1 + int(seed%12)
		s.player.X = float64(seed * 37 % 720)
		s.player.Y = float64(seed * 53 % 520)
		s.generateBarriers()

		require.LessOrEqual(t, len(s.barriers), BarrierCount(s.wave))
		home := s.grid.CellAt(s.player.X, s.player.Y)
		cells := map[physics.Cell]bool{}
		for _, b := range s.barriers {
			assert.False(t, physics.Intersects(s.player.Bounds(), b), "seed %d", seed)
			assert.True(t, b.Width == config.BarrierThickness || b.Height == config.BarrierThickness)

			c := s.grid.CellAt(b.X, b.Y)
			assert.Greater(t, c.Manhattan(home), config.BarrierMinCellDistance, "seed %d", seed)
			assert.False(t, cells[c], "seed %d: cell reused", seed)
			cells[c] = true
		}
		assertBarriersApart(t, s.barriers, seed)
	}
}

func TestBarriersNeverOverlapAtMaxCount(t *testing.T) {
	for seed := int64(0); seed < 500; seed++ {
		s := New(WithSeed(seed))
		s.Init()
		s.wave = 12
		s.generateBarriers()

		require.LessOrEqual(t, len(s.barriers), config.MaxBarriers)
		assertBarriersApart(t, s.barriers, seed)
	}
}

func assertBarriersApart(t *testing.T, barriers []object.Barrier, seed int64) {
	t.Helper()
	for i := range barriers {
		for j := i + 1; j < len(barriers); j++ {
			assert.False(t, physics.Intersects(barriers[i], barriers[j]),
				"seed %d: %+v overlaps %+v", seed, barriers[i], barriers[j])
		}
	}
}

func TestWaveUpRegeneratesBarriers(t *testing.T) {
	s, _ := newSession(t)
	require.Empty(t, s.barriers)
	s.score = 900
	queueKill(s, false)
	s.Step(tick)
	assert.Equal(t, 2, s.Wave())
	assert.NotEmpty(t, s.barriers)
}

func TestSnapshotIsDetached(t *testing.T) {
	s, _ := newSession(t)
	s.enemies = append(s.enemies, object.NewEnemy(10, 10, 1, s.arena))
	snap := s.Snapshot()

	s.enemies[0].X = 500
	s.player.X = 0
	assert.Equal(t, 10.0, snap.Enemies[0].X)
	assert.Equal(t, 400.0, snap.Player.X)
}
