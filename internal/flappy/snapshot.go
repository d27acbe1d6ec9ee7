package flappy

import (
	"math"
	"time"
)

// AgentPose is the read-only view of the agent.
type AgentPose struct {
	X, Y     float64
	VY       float64
	Radius   float64
	Rotation float64
	Phase    float64
	Alive    bool
}

// ObstacleView is the read-only view of one obstacle.
type ObstacleView struct {
	X            float64
	Width        float64
	TopHeight    float64
	BottomY      float64
	BottomHeight float64
	Theme        Theme
	Passed       bool
}

// Snapshot is a copy of everything a renderer needs for one frame.
type Snapshot struct {
	State     State
	World     World
	Agent     AgentPose
	Obstacles []ObstacleView
	Score     int
	Countdown int     // Discrete countdown value (3, 2, 1); 0 outside Countdown
	ProfileID string  // Empty before the first run
	Proximity float64 // Danger intensity in [0, 1]
	Elapsed   time.Duration
	Last      *RunResult // Most recent finished run, nil during a run
}

// Snapshot returns a copy of the current frame state.
func (g *Game) Snapshot() Snapshot {
	h := g.world.Height
	obs := g.stream.Obstacles()

	snap := Snapshot{
		State: g.state,
		World: g.world,
		Agent: AgentPose{
			X:        g.agent.X,
			Y:        g.agent.Y,
			VY:       g.agent.VY,
			Radius:   g.agent.Radius(),
			Rotation: g.agent.Rotation,
			Phase:    g.agent.Phase,
			Alive:    g.agent.Alive,
		},
		Obstacles: make([]ObstacleView, len(obs)),
		Score:     g.stream.Score(),
		ProfileID: g.profile.ID,
		Elapsed:   secondsToDuration(g.elapsed),
	}

	for i, o := range obs {
		snap.Obstacles[i] = ObstacleView{
			X:            o.X,
			Width:        o.Width,
			TopHeight:    o.TopHeight,
			BottomY:      o.BottomY(),
			BottomHeight: o.BottomHeight(h),
			Theme:        o.Theme,
			Passed:       o.Passed,
		}
	}

	if g.state == StateCountdown {
		snap.Countdown = g.countdownValue()
	}
	if g.state == StatePlaying {
		snap.Proximity = g.agent.Proximity(obs, h, g.cfg.Proximity.Threshold)
	}
	if g.last != nil {
		last := *g.last
		snap.Last = &last
	}
	return snap
}

// countdownValue maps the remaining countdown time onto ticks..1.
func (g *Game) countdownValue() int {
	ticks := g.cfg.Timing.CountdownTicks
	total := g.cfg.Timing.Countdown.Seconds()
	if total <= 0 {
		return ticks
	}
	v := int(math.Ceil(g.countdown / (total / float64(ticks))))
	return max(1, min(ticks, v))
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
