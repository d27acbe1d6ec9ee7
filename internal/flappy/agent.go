package flappy

import (
	"github.com/vovakirdan/diamond-flappy/internal/config"
	"github.com/vovakirdan/diamond-flappy/internal/core"
)

// glowRate advances the cosmetic glow phase, radians per second.
const glowRate = 3.0

// Agent is the player-controlled diamond. Its collision shape is a circle of
// radius Size/2 centred on (X, Y). Y grows downward.
type Agent struct {
	X, Y          float64
	VX, VY        float64
	Rotation      float64 // Cosmetic spin
	Phase         float64 // Cosmetic glow phase
	Alive         bool
	Size          float64
	RotationSpeed float64
}

// NewAgent creates a live agent at (x, y).
func NewAgent(x, y, size, rotationSpeed float64) Agent {
	a := Agent{Size: size, RotationSpeed: rotationSpeed}
	a.Reset(x, y)
	return a
}

// Radius returns the collision radius.
func (a *Agent) Radius() float64 {
	return a.Size / 2
}

// Circle returns the collision circle.
func (a *Agent) Circle() core.Circle {
	return core.Circle{Center: core.Vec{X: a.X, Y: a.Y}, Radius: a.Radius()}
}

// Integrate advances the agent by dt seconds under the profile's gravity and
// keeps it inside [radius, worldH-radius]. Hitting a bound zeroes vertical
// velocity; it does not kill. Dead agents are not moved.
func (a *Agent) Integrate(dt float64, p config.Profile, worldH float64) {
	if !a.Alive {
		return
	}

	a.VY += p.Gravity * dt
	a.X += a.VX * dt
	a.Y += a.VY * dt

	a.VisualsOnly(dt)

	r := a.Radius()
	if a.Y < r {
		a.Y = r
		a.VY = 0
	}
	if a.Y > worldH-r {
		a.Y = worldH - r
		a.VY = 0
	}
}

// MoveTo places the agent at (x, y) without touching its velocity.
func (a *Agent) MoveTo(x, y float64) {
	a.X, a.Y = x, y
}

// Fit pulls the agent back inside a world of height worldH, zeroing vertical
// velocity when it had to move.
func (a *Agent) Fit(worldH float64) {
	r := a.Radius()
	if a.Y > worldH-r {
		a.Y = worldH - r
		a.VY = 0
	}
	if a.Y < r {
		a.Y = r
		a.VY = 0
	}
}

// VisualsOnly advances rotation and glow without moving the agent.
func (a *Agent) VisualsOnly(dt float64) {
	a.Rotation += a.RotationSpeed * dt
	a.Phase += glowRate * dt
}

// Flap sets the vertical velocity to the profile's impulse. It reports whether
// the flap was applied; dead agents ignore it.
func (a *Agent) Flap(p config.Profile) bool {
	if !a.Alive {
		return false
	}
	a.VY = p.FlapImpulse
	return true
}

// CollidesWith reports whether the agent's circle overlaps r.
// Dead agents never collide.
func (a *Agent) CollidesWith(r core.Rect) bool {
	if !a.Alive || r.Empty() {
		return false
	}
	return a.Circle().IntersectsRect(r)
}

// Kill marks the agent dead.
func (a *Agent) Kill() {
	a.Alive = false
}

// Reset revives the agent at (x, y) with zero velocity and cosmetics.
func (a *Agent) Reset(x, y float64) {
	a.X, a.Y = x, y
	a.VX, a.VY = 0, 0
	a.Rotation = 0
	a.Phase = 0
	a.Alive = true
}

// Proximity returns a danger intensity in [0, 1]: 0 when no blocker is within
// threshold of the agent centre, rising linearly to 1 at contact. The first
// obstacle within range decides.
func (a *Agent) Proximity(obstacles []Obstacle, worldH, threshold float64) float64 {
	if !a.Alive || threshold <= 0 {
		return 0
	}
	c := a.Circle()
	for i := range obstacles {
		o := &obstacles[i]
		top := c.DistanceToRect(o.TopRect())
		bottom := c.DistanceToRect(o.BottomRect(worldH))
		d := min(top, bottom)
		if d < threshold {
			return max(0, 1-d/threshold)
		}
	}
	return 0
}
