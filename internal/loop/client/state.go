package client

import (
	"time"

	"github.com/tomz197/arena/internal/input"
	"github.com/tomz197/arena/internal/object"
)

// GameState represents the current phase of a client.
type GameState int

const (
	GameStateStart    GameState = iota // Title screen
	GameStatePlaying                   // Session started, server snapshot drives the screen
	GameStateShutdown                  // Server is shutting down
)

// overlay is the text layer drawn over the arena while playing.
type overlay int

const (
	overlayNone overlay = iota
	overlayPaused
	overlayChoosing
	overlayGameOver
)

// ClientState holds per-connection state.
type ClientState struct {
	Input     input.Input
	GameState GameState
	Running   bool

	delta         time.Duration
	shutdownTimer float64 // Seconds left before auto-disconnect on shutdown
	isInactive    bool

	// Last intent the server accepted; only changes are sent.
	lastIntent object.Intent

	// Previous frame's view, to detect transitions needing a full clear.
	prevGameState GameState
	prevOverlay   overlay
	wasInactive   bool
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		GameState: GameStateStart,
		Running:   true,
	}
}
