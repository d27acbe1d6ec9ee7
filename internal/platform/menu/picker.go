// Package menu holds the difficulty picker shared by the frontends.
package menu

import (
	"github.com/vovakirdan/diamond-flappy/internal/config"
	"github.com/vovakirdan/diamond-flappy/internal/core"
	"github.com/vovakirdan/diamond-flappy/internal/flappy"
)

// Picker selects a preset or tunes the custom sliders.
// Rows are the presets followed by the speed and gap sliders; the sliders
// are only reachable once custom mode is unlocked.
type Picker struct {
	Speed float64
	Gap   float64

	presets  []string
	custom   config.CustomConfig
	cursor   int
	unlocked bool
}

// New creates a picker with the cursor on selected, or the first preset.
func New(cfg config.Config, selected string) *Picker {
	p := &Picker{
		Speed:   cfg.Custom.Speed.Default,
		Gap:     cfg.Custom.Gap.Default,
		presets: config.PresetIDs,
		custom:  cfg.Custom,
	}
	for i, id := range p.presets {
		if id == selected {
			p.cursor = i
		}
	}
	return p
}

// Presets returns the preset ids in row order.
func (p *Picker) Presets() []string {
	return p.presets
}

// Cursor returns the selected row.
func (p *Picker) Cursor() int {
	return p.cursor
}

// SpeedRow and GapRow are the slider row indexes.
func (p *Picker) SpeedRow() int { return len(p.presets) }
func (p *Picker) GapRow() int   { return len(p.presets) + 1 }

// Unlocked reports whether the custom sliders are available.
func (p *Picker) Unlocked() bool {
	return p.unlocked
}

// Rows returns the number of selectable rows.
func (p *Picker) Rows() int {
	if p.unlocked {
		return len(p.presets) + 2
	}
	return len(p.presets)
}

// Move shifts the cursor, clamped to the selectable rows.
func (p *Picker) Move(delta int) {
	p.cursor = core.Clamp(p.cursor+delta, 0, p.Rows()-1)
}

// Adjust nudges the slider under the cursor by one step in direction dir.
func (p *Picker) Adjust(dir int) {
	switch p.cursor {
	case p.SpeedRow():
		p.Speed = p.custom.Speed.Clamp(p.Speed + float64(dir)*p.custom.Speed.Step)
	case p.GapRow():
		p.Gap = p.custom.Gap.Clamp(p.Gap + float64(dir)*p.custom.Gap.Step)
	}
}

// SetUnlocked shows or hides the custom sliders.
func (p *Picker) SetUnlocked(unlocked bool) {
	p.unlocked = unlocked
	p.Move(0)
}

// Choice returns the selected profile id and whether it is the custom mode.
func (p *Picker) Choice() (string, bool) {
	if p.cursor < len(p.presets) {
		return p.presets[p.cursor], false
	}
	return config.ProfileCustom, true
}

// Start begins a run with the current choice.
func (p *Picker) Start(g *flappy.Game) bool {
	if id, custom := p.Choice(); !custom {
		return g.Confirm(id)
	}
	return g.StartCustomRun(p.Speed, p.Gap)
}

// Apply feeds one input frame to the picker and starts a run on confirm.
func (p *Picker) Apply(in core.InputFrame, g *flappy.Game) bool {
	switch {
	case in.Has(core.ActionUp):
		p.Move(-1)
	case in.Has(core.ActionDown):
		p.Move(1)
	}
	switch {
	case in.Has(core.ActionLeft):
		p.Adjust(-1)
	case in.Has(core.ActionRight):
		p.Adjust(1)
	}
	if in.Has(core.ActionConfirm) {
		return p.Start(g)
	}
	return false
}
