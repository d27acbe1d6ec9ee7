package menu

import (
	"github.com/vovakirdan/diamond-flappy/internal/core"
	"github.com/vovakirdan/diamond-flappy/internal/flappy"
)

// Route applies one input frame to the picker or the game, depending on the
// game state. Frontends call it once per tick before Game.Update.
func Route(in core.InputFrame, g *flappy.Game, p *Picker) {
	if in.Empty() {
		return
	}

	switch g.State() {
	case flappy.StateMenu:
		p.Apply(in, g)

	case flappy.StateCountdown, flappy.StatePlaying:
		// Aborting is only accepted during the countdown
		if in.Has(core.ActionMenu) && g.ReturnToMenu() {
			return
		}
		if in.Has(core.ActionFlap) {
			g.Flap()
		}

	case flappy.StateGameOver:
		switch {
		case in.Has(core.ActionRestart):
			g.Restart()
		case in.Has(core.ActionMenu):
			g.ReturnToMenu()
		}
	}
}
