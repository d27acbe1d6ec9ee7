package desktop

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/vovakirdan/diamond-flappy/internal/core"
)

// keyBindings maps keys to actions; one key may trigger several actions and
// the router picks the ones meaningful in the current state.
var keyBindings = map[ebiten.Key][]core.Action{
	ebiten.KeySpace:      {core.ActionFlap},
	ebiten.KeyArrowUp:    {core.ActionFlap, core.ActionUp},
	ebiten.KeyW:          {core.ActionFlap, core.ActionUp},
	ebiten.KeyK:          {core.ActionUp},
	ebiten.KeyArrowDown:  {core.ActionDown},
	ebiten.KeyS:          {core.ActionDown},
	ebiten.KeyJ:          {core.ActionDown},
	ebiten.KeyArrowLeft:  {core.ActionLeft},
	ebiten.KeyA:          {core.ActionLeft},
	ebiten.KeyH:          {core.ActionLeft},
	ebiten.KeyArrowRight: {core.ActionRight},
	ebiten.KeyD:          {core.ActionRight},
	ebiten.KeyL:          {core.ActionRight},
	ebiten.KeyEnter:      {core.ActionConfirm, core.ActionRestart},
	ebiten.KeyR:          {core.ActionRestart},
	ebiten.KeyEscape:     {core.ActionMenu},
	ebiten.KeyM:          {core.ActionMenu},
	ebiten.KeyQ:          {core.ActionQuit},
}

// collectInput gathers the actions triggered since the previous tick.
func collectInput() core.InputFrame {
	var in core.InputFrame
	for k, actions := range keyBindings {
		if !inpututil.IsKeyJustPressed(k) {
			continue
		}
		for _, a := range actions {
			in.Set(a)
		}
	}

	// Click or tap flaps
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) || len(inpututil.AppendJustPressedTouchIDs(nil)) > 0 {
		in.Set(core.ActionFlap)
	}
	return in
}
