package server

import "github.com/tomz197/arena/internal/object"

// CommandKind identifies what a Command asks the session to do.
type CommandKind int

const (
	CmdStart       CommandKind = iota // First call initializes, later calls restart
	CmdRestart                        // New game, high score kept
	CmdSetIntent                      // Replace held movement keys
	CmdClick                          // Pointer press in arena coordinates
	CmdAbility                        // Activate invisibility
	CmdPause                          // Toggle pause
	CmdSelectOffer                    // Pick an offer by index
)

var commandNames = [...]string{
	CmdStart:       "start",
	CmdRestart:     "restart",
	CmdSetIntent:   "intent",
	CmdClick:       "click",
	CmdAbility:     "ability",
	CmdPause:       "pause",
	CmdSelectOffer: "select",
}

func (k CommandKind) String() string {
	if k < 0 || int(k) >= len(commandNames) {
		return "unknown"
	}
	return commandNames[k]
}

// Command is one player action queued for the session goroutine.
type Command struct {
	Kind   CommandKind
	Intent object.Intent // CmdSetIntent
	X, Y   float64       // CmdClick
	Index  int           // CmdSelectOffer
}

// Start starts the game, or restarts it once started.
func Start() Command { return Command{Kind: CmdStart} }

// Restart begins a new game.
func Restart() Command { return Command{Kind: CmdRestart} }

// SetIntent replaces the held movement keys.
func SetIntent(in object.Intent) Command { return Command{Kind: CmdSetIntent, Intent: in} }

// Click presses the pointer at arena coordinates.
func Click(x, y float64) Command { return Command{Kind: CmdClick, X: x, Y: y} }

// Ability activates invisibility.
func Ability() Command { return Command{Kind: CmdAbility} }

// Pause toggles pause.
func Pause() Command { return Command{Kind: CmdPause} }

// SelectOffer picks the i-th offer of the current round.
func SelectOffer(i int) Command { return Command{Kind: CmdSelectOffer, Index: i} }
