package game

import (
	"time"

	"github.com/tomz197/arena/internal/config"
	"github.com/tomz197/arena/internal/object"
	"github.com/tomz197/arena/internal/physics"
)

// WaveForScore returns the wave a score belongs to.
func WaveForScore(score int) int {
	return score/config.ScorePerWave + 1
}

// SpawnInterval returns the spawn period for a wave.
func SpawnInterval(wave int) time.Duration {
	return max(config.SpawnIntervalMin, config.SpawnIntervalBase-time.Duration(wave-1)*config.SpawnIntervalStep)
}

// EnemiesPerSpawn returns how many enemies each spawn timer firing adds.
func EnemiesPerSpawn(wave int) int {
	return min(config.MaxEnemiesPerWave, wave/2+1)
}

// EnemySpeed returns the speed of enemies spawned during a wave.
func EnemySpeed(wave int) float64 {
	return config.EnemyBaseSpeed + float64(wave)*config.EnemySpeedPerWave
}

// BarrierCount returns how many barriers a wave asks for.
func BarrierCount(wave int) int {
	return min(config.BarrierBaseCount+wave/2, config.MaxBarriers)
}

// addScore adds points and starts the next wave when the score crosses a
// wave boundary. Waves never go down.
func (s *Session) addScore(points int) {
	s.score += points
	next := WaveForScore(s.score)
	if next <= s.wave {
		return
	}
	s.wave = next
	s.startWave()
	s.log.Debug("wave up", "wave", s.wave, "spawnInterval", s.spawnInterval, "barriers", len(s.barriers))

	gen := s.generation
	s.clock.After(config.OfferDelay, func() {
		if s.generation == gen {
			s.openOfferRound()
		}
	})
}

func (s *Session) startWave() {
	s.startSpawn()
	s.generateBarriers()
}

// startSpawn (re)starts the spawn timer at the current wave's interval.
func (s *Session) startSpawn() {
	s.stopSpawn()
	s.spawnInterval = SpawnInterval(s.wave)
	s.spawnTimer = s.clock.Every(s.spawnInterval, func() bool {
		s.spawnEnemies()
		return true
	})
}

func (s *Session) stopSpawn() {
	if s.spawnTimer != 0 {
		s.clock.Cancel(s.spawnTimer)
		s.spawnTimer = 0
	}
}

func (s *Session) spawnEnemies() {
	if s.gameOver {
		return
	}
	speed := EnemySpeed(s.wave)
	for range EnemiesPerSpawn(s.wave) {
		s.enemies = append(s.enemies, object.NewEnemyAtEdge(s.rng, s.arena, speed))
	}
}

// generateBarriers replaces the barrier layout. Each barrier gets its own grid
// cell away from the player's cell and must not touch a barrier already
// placed. A barrier that runs out of attempts, or that would overlap the
// player, is skipped.
func (s *Session) generateBarriers() {
	want := BarrierCount(s.wave)
	home := s.grid.CellAt(s.player.X, s.player.Y)
	used := make(map[physics.Cell]struct{}, want)
	barriers := make([]object.Barrier, 0, want)

	for range want {
		cell, b, ok := s.placeBarrier(home, used, barriers)
		if !ok {
			continue
		}
		used[cell] = struct{}{}

		if physics.OccupiesBarrier(s.player.Bounds(), s.player.X, s.player.Y, b) {
			continue
		}
		barriers = append(barriers, b)
	}
	s.barriers = barriers
}

// placeBarrier tries a bounded number of cells for one barrier. A candidate
// fails the attempt when its cell is too close to home, already used, or the
// bar overlaps a placed barrier.
func (s *Session) placeBarrier(home physics.Cell, used map[physics.Cell]struct{}, placed []object.Barrier) (physics.Cell, object.Barrier, bool) {
	for range config.BarrierPlacementAttempts {
		c := physics.Cell{Col: s.rng.Intn(s.grid.Cols()), Row: s.rng.Intn(s.grid.Rows())}
		if c.Manhattan(home) <= config.BarrierMinCellDistance {
			continue
		}
		if _, taken := used[c]; taken {
			continue
		}
		b := s.barrierIn(c)
		if physics.OccupiesAny(b, b.X, b.Y, placed) {
			continue
		}
		return c, b, true
	}
	return physics.Cell{}, object.Barrier{}, false
}

// barrierIn places a horizontal or vertical bar starting inside the padded
// cell. Long bars can run into neighbouring cells.
func (s *Session) barrierIn(c physics.Cell) object.Barrier {
	cell := s.grid.Bounds(c)
	x := cell.X + config.BarrierPadding + s.rng.Float64()*(cell.Width-2*config.BarrierPadding)
	y := cell.Y + config.BarrierPadding + s.rng.Float64()*(cell.Height-2*config.BarrierPadding)
	length := config.BarrierMinLength + s.rng.Float64()*config.BarrierLengthRange

	if s.rng.Float64() > 0.5 {
		return object.Barrier{X: x, Y: y, Width: length, Height: config.BarrierThickness}
	}
	return object.Barrier{X: x, Y: y, Width: config.BarrierThickness, Height: length}
}
