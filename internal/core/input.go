package core

// Action represents a semantic input, abstracted from physical key presses.
// The simulation only understands flap and confirm; the rest drive frontends.
type Action int

const (
	ActionNone    Action = iota
	ActionFlap           // Space, Up, click, tap
	ActionConfirm        // Enter - confirm difficulty selection
	ActionUp             // Menu cursor up
	ActionDown           // Menu cursor down
	ActionLeft           // Decrease custom slider
	ActionRight          // Increase custom slider
	ActionRestart        // R - restart after game over
	ActionMenu           // M, Esc - back to menu
	ActionScores         // Tab - open scoreboard
	ActionQuit           // Q, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionFlap:
		return "Flap"
	case ActionConfirm:
		return "Confirm"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionRestart:
		return "Restart"
	case ActionMenu:
		return "Menu"
	case ActionScores:
		return "Scores"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame is the set of actions triggered during one tick.
// Key events arrive between ticks and are folded in; the frame is drained once
// per tick so no press is lost or applied twice.
type InputFrame uint32

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if a <= ActionNone {
		return
	}
	*f |= 1 << uint(a)
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if a <= ActionNone {
		return false
	}
	return f&(1<<uint(a)) != 0
}

// Empty reports whether no action was triggered.
func (f InputFrame) Empty() bool {
	return f == 0
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	*f = 0
}
