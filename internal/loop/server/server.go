// Package server runs one arena session on its own goroutine. Clients talk to
// it through commands and read immutable snapshots back.
package server

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tomz197/arena/internal/config"
	"github.com/tomz197/arena/internal/game"
	"github.com/tomz197/arena/internal/storage"
)

// GameServer is the interface clients use to communicate with the game server.
type GameServer interface {
	Send(cmd Command) bool
	Snapshot() *game.Snapshot
	Done() <-chan struct{}
	ShuttingDown() <-chan struct{}
}

// Options configures a Server.
type Options struct {
	Tick   time.Duration          // Simulation step, defaults to 1/config.DefaultTickRate
	Store  storage.HighScoreStore // Defaults to an in-memory store
	Logger *log.Logger
	Seed   int64 // 0 seeds from the clock
}

// Server owns a game.Session. All session mutations happen on the Run
// goroutine.
type Server struct {
	id       string
	log      *log.Logger
	session  *game.Session
	tick     time.Duration
	commands chan Command
	snapshot atomic.Pointer[game.Snapshot]
	started  bool

	done         chan struct{}
	shutdown     chan struct{}
	shutdownOnce sync.Once
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// NewServer creates a server for a single session. Nothing runs until Run.
func NewServer(opts Options) *Server {
	if opts.Tick <= 0 {
		opts.Tick = time.Second / config.DefaultTickRate
	}
	if opts.Store == nil {
		opts.Store = storage.NewMemoryStore(0)
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	id := uuid.NewString()
	logger := opts.Logger.With("session", id)

	sessionOpts := []game.Option{game.WithLogger(logger), game.WithStore(opts.Store)}
	if opts.Seed != 0 {
		sessionOpts = append(sessionOpts, game.WithSeed(opts.Seed))
	}

	s := &Server{
		id:       id,
		log:      logger,
		session:  game.New(sessionOpts...),
		tick:     opts.Tick,
		commands: make(chan Command, config.CommandBuffer),
		done:     make(chan struct{}),
		shutdown: make(chan struct{}),
	}
	s.snapshot.Store(s.session.Snapshot())
	return s
}

// ID returns the session identifier used in logs.
func (s *Server) ID() string { return s.id }

// Run starts the server loop. Blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	defer close(s.done)
	s.log.Debug("session loop started", "tick", s.tick)

	lastTime := time.Now()
	for {
		select {
		case <-ctx.Done():
			s.log.Debug("session loop stopped", "score", s.session.Score(), "wave", s.session.Wave())
			return
		default:
		}

		frameStart := time.Now()
		delta := min(frameStart.Sub(lastTime), config.MaxTickDelta)
		lastTime = frameStart

		s.drainCommands()
		if s.started {
			s.session.Step(delta)
		}
		s.snapshot.Store(s.session.Snapshot())

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < s.tick {
			time.Sleep(s.tick - elapsed)
		}
	}
}

// Send queues a command. It never blocks; a full queue drops the command.
func (s *Server) Send(cmd Command) bool {
	select {
	case s.commands <- cmd:
		return true
	default:
		s.log.Debug("command dropped", "cmd", cmd.Kind)
		return false
	}
}

// Snapshot returns the latest published state.
func (s *Server) Snapshot() *game.Snapshot {
	return s.snapshot.Load()
}

// Done is closed when Run returns.
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// ShuttingDown is closed once Shutdown has been called.
func (s *Server) ShuttingDown() <-chan struct{} {
	return s.shutdown
}

// Shutdown tells the connected client that the process is going away.
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() { close(s.shutdown) })
}

func (s *Server) drainCommands() {
	for {
		select {
		case cmd := <-s.commands:
			s.apply(cmd)
		default:
			return
		}
	}
}

// apply runs one command against the session. Everything but CmdStart is
// ignored until the game has been started.
func (s *Server) apply(cmd Command) {
	if cmd.Kind == CmdStart {
		if s.started {
			s.session.Restart()
			return
		}
		s.session.Init()
		s.started = true
		return
	}
	if !s.started {
		return
	}

	switch cmd.Kind {
	case CmdRestart:
		s.session.Restart()
	case CmdSetIntent:
		s.session.SetIntent(cmd.Intent)
	case CmdClick:
		s.session.Click(cmd.X, cmd.Y)
	case CmdAbility:
		s.session.ActivateInvisibility()
	case CmdPause:
		s.session.TogglePause()
	case CmdSelectOffer:
		s.session.SelectOffer(cmd.Index)
	}
}

// Registry tracks live servers so a process shutdown can reach every player.
type Registry struct {
	mu      sync.Mutex
	servers map[*Server]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{servers: make(map[*Server]struct{})}
}

// Add registers s.
func (r *Registry) Add(s *Server) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.servers[s] = struct{}{}
}

// Remove forgets s.
func (r *Registry) Remove(s *Server) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.servers, s)
}

// Len returns the number of live servers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.servers)
}

// ShutdownAll notifies every registered server and waits for all of them to
// be removed, up to timeout. Reports whether everyone left in time.
func (r *Registry) ShutdownAll(timeout time.Duration) bool {
	r.mu.Lock()
	for s := range r.servers {
		s.Shutdown()
	}
	r.mu.Unlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		if r.Len() == 0 {
			return true
		}
		select {
		case <-deadline:
			return false
		case <-ticker.C:
		}
	}
}
