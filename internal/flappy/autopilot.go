package flappy

// Autopilot is a simple controller that keeps the diamond near the centre of
// the next gap. It flaps whenever the diamond is falling below a line a
// quarter gap under the target. Used for headless simulation and soak tests.
type Autopilot struct{}

// ShouldFlap decides whether to flap for the given frame.
func (Autopilot) ShouldFlap(s Snapshot, gapSize float64) bool {
	if s.State != StatePlaying || !s.Agent.Alive {
		return false
	}

	target := s.World.Height / 2
	for _, o := range s.Obstacles {
		if s.Agent.X-s.Agent.Radius < o.X+o.Width {
			target = o.TopHeight + (o.BottomY-o.TopHeight)/2
			gapSize = o.BottomY - o.TopHeight
			break
		}
	}

	return s.Agent.VY >= 0 && s.Agent.Y > target+gapSize/4
}
