// Package game runs one arena session: the player, enemies, projectiles,
// barriers and power-up offers, the per-tick pipeline and every timer that
// mutates them.
//
// A Session is not safe for concurrent use. The owning loop calls Step and the
// input operations from a single goroutine.
package game

import (
	"errors"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/arena/internal/clock"
	"github.com/tomz197/arena/internal/config"
	"github.com/tomz197/arena/internal/object"
	"github.com/tomz197/arena/internal/physics"
	"github.com/tomz197/arena/internal/powerup"
	"github.com/tomz197/arena/internal/storage"
)

// Session owns all mutable state of one game.
type Session struct {
	arena object.Arena
	grid  *physics.Grid
	rng   *rand.Rand
	log   *log.Logger
	store storage.HighScoreStore
	clock *clock.Queue

	player      *object.Player
	enemies     []*object.Enemy
	projectiles []*object.Projectile
	barriers    []object.Barrier
	offers      []object.PowerUpOffer
	progression *powerup.Progression

	score     int
	wave      int
	highScore int
	paused    bool
	gameOver  bool
	choosing  bool // Offer round in progress

	spawnTimer     clock.TimerID
	spawnInterval  time.Duration
	ammoTimer      clock.TimerID
	shieldTimer    clock.TimerID
	invisibleTimer clock.TimerID

	// generation changes on game over and restart. Timers capture it and do
	// nothing once it has moved on.
	generation uint64
	ticks      uint64
}

// Option configures a Session.
type Option func(*Session)

// WithRand sets the random source used for spawns, barriers and offers.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

// WithSeed seeds a new random source.
func WithSeed(seed int64) Option {
	return func(s *Session) { s.rng = rand.New(rand.NewSource(seed)) }
}

// WithLogger sets the session logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithStore sets where the high score is read from and written to.
func WithStore(store storage.HighScoreStore) Option {
	return func(s *Session) { s.store = store }
}

// WithClock replaces the timer queue.
func WithClock(q *clock.Queue) Option {
	return func(s *Session) { s.clock = q }
}

// New creates a session. Call Init before the first Step.
func New(opts ...Option) *Session {
	arena := object.DefaultArena()
	s := &Session{
		arena:       arena,
		grid:        physics.NewGrid(arena.Width, arena.Height, config.BarrierGridSize, config.BarrierGridSize),
		progression: powerup.New(),
		wave:        1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.log == nil {
		s.log = log.NewWithOptions(io.Discard, log.Options{})
	}
	if s.store == nil {
		s.store = storage.NewMemoryStore(0)
	}
	if s.clock == nil {
		s.clock = clock.New()
	}
	s.player = newPlayer()
	return s
}

func newPlayer() *object.Player {
	return object.NewPlayer(config.PlayerStartX, config.PlayerStartY)
}

// Init performs first-time setup: loads the high score and starts wave 1.
func (s *Session) Init() {
	score, err := s.store.Load()
	switch {
	case errors.Is(err, storage.ErrCorrupt):
		s.log.Warn("ignoring unreadable high score", "err", err)
	case err != nil:
		s.log.Warn("failed to load high score", "err", err)
	default:
		s.highScore = score
	}
	s.reset()
	s.log.Debug("session started", "highScore", s.highScore)
}

// Restart begins a fresh game. The high score is kept.
func (s *Session) Restart() {
	s.reset()
	s.log.Debug("session restarted")
}

func (s *Session) reset() {
	s.generation++
	s.player = newPlayer()
	s.enemies = nil
	s.projectiles = nil
	s.offers = nil
	s.score = 0
	s.wave = 1
	s.paused = false
	s.gameOver = false
	s.choosing = false
	s.resetPowerUps()
	s.startWave()
}

// TogglePause flips the pause flag. It is refused during an offer round and
// after game over. Pausing stops the spawn timer; other running timers keep
// counting.
func (s *Session) TogglePause() bool {
	if s.choosing || s.gameOver {
		return false
	}
	s.paused = !s.paused
	if s.paused {
		s.stopSpawn()
	} else {
		s.startSpawn()
	}
	s.log.Debug("pause toggled", "paused", s.paused)
	return true
}

// SetIntent replaces the held movement keys.
func (s *Session) SetIntent(in object.Intent) {
	s.player.Intent = in
}

// Click handles a pointer press at arena coordinates: it picks an offer
// during an offer round and fires otherwise.
func (s *Session) Click(x, y float64) bool {
	if s.choosing {
		return s.SelectAt(x, y)
	}
	if s.paused || s.gameOver {
		return false
	}
	return s.Shoot(x, y)
}

// Score returns the current score.
func (s *Session) Score() int { return s.score }

// Wave returns the current wave.
func (s *Session) Wave() int { return s.wave }

// HighScore returns the best score seen by this session.
func (s *Session) HighScore() int { return s.highScore }

// GameOver reports whether the player has run out of lives.
func (s *Session) GameOver() bool { return s.gameOver }

// Paused reports whether the player paused the game.
func (s *Session) Paused() bool { return s.paused }

// Choosing reports whether an offer round is waiting for a pick.
func (s *Session) Choosing() bool { return s.choosing }

// Player returns the live player.
func (s *Session) Player() *object.Player { return s.player }

// SpawnInterval returns the period of the running spawn timer.
func (s *Session) SpawnInterval() time.Duration { return s.spawnInterval }

// Now returns the session's clock time.
func (s *Session) Now() time.Duration { return s.clock.Now() }
