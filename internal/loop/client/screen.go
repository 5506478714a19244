package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomz197/arena/internal/config"
	"github.com/tomz197/arena/internal/draw"
	"github.com/tomz197/arena/internal/game"
	"github.com/tomz197/arena/internal/powerup"
)

// shieldMargin is how far the shield outline sits outside the player.
const shieldMargin = 8.0

func currentOverlay(snap *game.Snapshot) overlay {
	switch {
	case snap.GameOver:
		return overlayGameOver
	case snap.Choosing:
		return overlayChoosing
	case snap.Paused:
		return overlayPaused
	default:
		return overlayNone
	}
}

// drawFrame draws the current frame.
func (c *Client) drawFrame(snap *game.Snapshot) error {
	ov := overlayNone
	if c.state.GameState == GameStatePlaying {
		ov = currentOverlay(snap)
	}

	// Text from the previous screen is not part of the canvas, so any switch
	// of screen or overlay needs a full clear.
	if c.state.GameState != c.state.prevGameState || ov != c.state.prevOverlay ||
		c.state.isInactive != c.state.wasInactive {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevGameState = c.state.GameState
		c.state.prevOverlay = ov
		c.state.wasInactive = c.state.isInactive
	}

	c.canvas.Clear()
	if c.state.GameState == GameStatePlaying {
		c.drawArena(snap)
	}

	c.canvas.Render(c.chunkWriter)
	c.canvas.RenderBorder(c.chunkWriter)

	if c.state.GameState == GameStatePlaying {
		c.drawOfferLabels(snap)
	}
	c.drawUI(snap, ov)

	return c.chunkWriter.Flush()
}

// drawArena rasterizes every entity of the snapshot.
func (c *Client) drawArena(snap *game.Snapshot) {
	cv := c.canvas

	for _, b := range snap.Barriers {
		cv.FillRect(b.X, b.Y, b.Width, b.Height)
	}

	for _, o := range snap.Offers {
		r := o.Rect
		cv.StrokeRect(r.X, r.Y, r.Width, r.Height)
	}

	// Frozen enemies get a second, inset outline.
	for _, e := range snap.Enemies {
		cv.StrokeRect(e.X, e.Y, e.Width, e.Height)
		if e.Frozen {
			cv.StrokeRect(e.X+e.Width/4, e.Y+e.Height/4, e.Width/2, e.Height/2)
		}
	}

	for _, p := range snap.Projectiles {
		cv.FillRect(p.X, p.Y, p.Width, p.Height)
	}

	p := snap.Player
	switch {
	case p.Invisible:
		// Blink the outline so the player can still find themselves.
		if time.Now().UnixMilli()/250%2 == 0 {
			cv.StrokeRect(p.X, p.Y, p.Width, p.Height)
		}
	default:
		cv.FillRect(p.X, p.Y, p.Width, p.Height)
	}
	if p.ShieldActive {
		cv.StrokeRect(p.X-shieldMargin, p.Y-shieldMargin, p.Width+2*shieldMargin, p.Height+2*shieldMargin)
	}
}

// drawOfferLabels writes the name, level and hotkey of each offer inside its
// tile. The cells are marked dirty so the canvas repaints them once the
// offers are gone.
func (c *Client) drawOfferLabels(snap *game.Snapshot) {
	for i, o := range snap.Offers {
		cx, cy := o.Rect.Center()
		col, row := c.canvas.LogicalToTerminal(cx, cy)

		level := 0
		if int(o.Type) < len(snap.PowerUps) {
			level = snap.PowerUps[o.Type].Level
		}
		lines := []string{
			fmt.Sprintf("[%d]", i+1),
			o.Label,
			fmt.Sprintf("Lv %d/%d", level+1, o.Type.Max()),
		}
		for j, line := range lines {
			c.writeCentered(col, row-1+j, line)
		}
	}
}

// writeCentered writes s centered on col if it fits the canvas.
func (c *Client) writeCentered(col, row int, s string) {
	start := col - len(s)/2
	if row < 1 || row > c.canvas.TerminalHeight() || start < 1 || start+len(s)-1 > c.canvas.TerminalWidth() {
		return
	}
	c.chunkWriter.WriteAt(start, row, s)
	c.canvas.MarkTextDirty(start, row, len(s))
}

// drawUI draws the text layer for the current screen.
func (c *Client) drawUI(snap *game.Snapshot, ov overlay) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.state.GameState == GameStateShutdown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}

	switch c.state.GameState {
	case GameStateStart:
		c.drawStartScreen(centerX, centerY, snap.HighScore)
	case GameStatePlaying:
		c.drawPlayingHUD(termWidth, termHeight, snap)
		switch ov {
		case overlayPaused:
			c.drawPausedOverlay(centerX, centerY)
		case overlayChoosing:
			c.drawChoosingOverlay(centerX)
		case overlayGameOver:
			c.drawGameOverScreen(centerX, centerY, snap)
		}
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	cw := c.chunkWriter
	title := "INACTIVITY WARNING"
	cw.WriteAt(centerX-len(title)/2, centerY-2, title)

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	cw.WriteAt(centerX-len(msg)/2, centerY, msg)

	hint := "Press any key to continue"
	cw.WriteAt(centerX-len(hint)/2, centerY+2, hint)
}

// drawStartScreen draws the title screen.
func (c *Client) drawStartScreen(centerX, centerY, highScore int) {
	titleArt := []string{
		`    _   ___ ___ _  _   _   `,
		`   /_\ | _ \ __| \| | /_\  `,
		`  / _ \|   / _|| .' |/ _ \ `,
		` /_/ \_\_|_\___|_|\_/_/ \_\`,
	}

	titleWidth := 0
	for _, line := range titleArt {
		titleWidth = max(titleWidth, len(line))
	}

	cw := c.chunkWriter
	titleStartY := centerY - 8
	for i, line := range titleArt {
		cw.WriteAt(centerX-titleWidth/2, titleStartY+i, line)
	}

	subtitle := "~ Survive the waves ~"
	cw.WriteAt(centerX-len(subtitle)/2, titleStartY+len(titleArt)+1, subtitle)

	controlsY := titleStartY + len(titleArt) + 3
	controlHeader := "Controls"
	cw.WriteAt(centerX-len(controlHeader)/2, controlsY, controlHeader)

	controlLines := []string{
		"W A S D / Arrows  . . . .  Move",
		"Mouse click  . . . . . .  Shoot",
		"F  . . . . . . . Invisibility",
		"P  . . . . . . . . . . . Pause",
		"1 / 2  . . . . .  Pick power-up",
		"Q  . . . . . . . . . . .  Quit",
	}
	for i, line := range controlLines {
		cw.WriteAt(centerX-len(line)/2, controlsY+1+i, line)
	}

	if highScore > 0 {
		best := fmt.Sprintf("High score: %d", highScore)
		cw.WriteAt(centerX-len(best)/2, controlsY+len(controlLines)+2, best)
	}

	// Blinking start prompt
	if time.Now().UnixMilli()/600%2 == 0 {
		prompt := ">>  Press SPACE to Start  <<"
		cw.WriteAt(centerX-len(prompt)/2, controlsY+len(controlLines)+4, prompt)
	}
}

// drawPlayingHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawPlayingHUD(termWidth, termHeight int, snap *game.Snapshot) {
	cw := c.chunkWriter

	status := fmt.Sprintf("Score: %-7d Wave: %-3d Best: %-7d", snap.Score, snap.Wave, snap.HighScore)
	cw.WriteAt(2, 1, status)

	ammo := strings.Repeat("|", snap.Ammo) + strings.Repeat(".", max(snap.MaxAmmo-snap.Ammo, 0))
	right := fmt.Sprintf("Lives: %-2d Ammo: %s", snap.Lives, ammo)
	cw.WriteAt(termWidth-len(right)-1, 1, right)

	cw.WriteAt(2, termHeight, fmt.Sprintf("%-34s", abilityStatus(snap)))

	if levels := powerUpSummary(snap.PowerUps); levels != "" {
		if len(levels) > termWidth-40 {
			levels = levels[:max(termWidth-40, 0)]
		}
		cw.WriteAt(termWidth-len(levels)-1, termHeight, levels)
	}
}

// abilityStatus describes invisibility and shield for the bottom bar.
func abilityStatus(snap *game.Snapshot) string {
	var parts []string
	switch {
	case snap.Invisible:
		parts = append(parts, fmt.Sprintf("[F] Invisible %.1fs", snap.InvisibleRemaining.Seconds()))
	case snap.InvisibilityReady:
		parts = append(parts, "[F] Invisibility ready")
	case snap.InvisibilityCooldown > 0:
		parts = append(parts, fmt.Sprintf("[F] Cooldown %ds", int(snap.InvisibilityCooldown.Seconds())+1))
	}
	if snap.Shield {
		parts = append(parts, fmt.Sprintf("Shield %.1fs", snap.ShieldRemaining.Seconds()))
	}
	return strings.Join(parts, "  ")
}

// powerUpSummary lists every power-up with at least one level.
func powerUpSummary(records []powerup.Record) string {
	var parts []string
	for _, r := range records {
		if r.Level > 0 {
			parts = append(parts, fmt.Sprintf("%s %d/%d", r.Label, r.Level, r.Max))
		}
	}
	return strings.Join(parts, " | ")
}

func (c *Client) drawPausedOverlay(centerX, centerY int) {
	cw := c.chunkWriter
	title := "PAUSED"
	cw.WriteAt(centerX-len(title)/2, centerY-1, draw.ColorBold+title+draw.ColorReset)
	hint := "Press P to resume"
	cw.WriteAt(centerX-len(hint)/2, centerY+1, hint)
}

// drawChoosingOverlay sits above the offer tiles.
func (c *Client) drawChoosingOverlay(centerX int) {
	_, row := c.canvas.LogicalToTerminal(0, config.OfferY)
	cw := c.chunkWriter
	title := "CHOOSE A POWER-UP"
	cw.WriteAt(centerX-len(title)/2, max(row-3, 2), title)
	hint := "Click a tile or press its number"
	cw.WriteAt(centerX-len(hint)/2, max(row-2, 3), hint)
}

// drawGameOverScreen draws the game over screen.
func (c *Client) drawGameOverScreen(centerX, centerY int, snap *game.Snapshot) {
	titleArt := []string{
		`   ___   _   __  __ ___    _____   _____ ___  `,
		`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
		` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
		`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
	}

	titleWidth := 0
	for _, line := range titleArt {
		titleWidth = max(titleWidth, len(line))
	}

	cw := c.chunkWriter
	titleStartY := centerY - 5
	for i, line := range titleArt {
		cw.WriteAt(centerX-titleWidth/2, titleStartY+i, draw.ColorRed+line+draw.ColorReset)
	}

	scoreText := fmt.Sprintf("Score: %d   Wave: %d", snap.Score, snap.Wave)
	cw.WriteAt(centerX-len(scoreText)/2, titleStartY+len(titleArt)+1, scoreText)

	if snap.Score > 0 && snap.Score >= snap.HighScore {
		best := "New high score!"
		cw.WriteAt(centerX-len(best)/2, titleStartY+len(titleArt)+2, draw.ColorYellow+best+draw.ColorReset)
	} else {
		best := fmt.Sprintf("High score: %d", snap.HighScore)
		cw.WriteAt(centerX-len(best)/2, titleStartY+len(titleArt)+2, best)
	}

	if time.Now().UnixMilli()/600%2 == 0 {
		prompt := ">>  Press SPACE to Restart  <<"
		cw.WriteAt(centerX-len(prompt)/2, titleStartY+len(titleArt)+4, prompt)
	}
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	cw := c.chunkWriter
	title := "SERVER SHUTTING DOWN"
	cw.WriteAt(centerX-len(title)/2, centerY-3, title)

	msg1 := "The server is restarting for maintenance."
	cw.WriteAt(centerX-len(msg1)/2, centerY-1, msg1)

	msg2 := "Please reconnect in a moment."
	cw.WriteAt(centerX-len(msg2)/2, centerY, msg2)

	remaining := int(c.state.shutdownTimer) + 1
	countdown := fmt.Sprintf("Disconnecting in %d seconds...", remaining)
	cw.WriteAt(centerX-len(countdown)/2, centerY+2, countdown)

	hint := "Press Q to disconnect now"
	cw.WriteAt(centerX-len(hint)/2, centerY+4, hint)
}
