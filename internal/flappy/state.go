package flappy

import "time"

// State is the game state machine's current phase.
type State int

const (
	StateMenu State = iota
	StateCountdown
	StatePlaying
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateMenu:
		return "Menu"
	case StateCountdown:
		return "Countdown"
	case StatePlaying:
		return "Playing"
	case StateGameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}

// RunResult describes a finished run.
type RunResult struct {
	RunID     string
	ProfileID string
	Score     int
	Duration  time.Duration // Simulated time spent Playing
	NewHigh   bool
}

// ScoreKeeper persists finished runs. RecordRun reports whether the score is
// a new high for the run's profile.
type ScoreKeeper interface {
	RecordRun(result RunResult) (newHigh bool, err error)
}

// Listener receives notifications after each update phase.
// Implementations must not call back into the Game.
type Listener interface {
	StateChanged(from, to State)
	ScoreChanged(score int)
	Flapped()
	RunEnded(result RunResult)
}

// NopListener implements Listener with no-ops; embed it to handle a subset.
type NopListener struct{}

func (NopListener) StateChanged(State, State) {}
func (NopListener) ScoreChanged(int)          {}
func (NopListener) Flapped()                  {}
func (NopListener) RunEnded(RunResult)        {}
