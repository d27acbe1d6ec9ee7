package flappy

// CheckCollisions reports whether the agent overlaps the top or bottom
// blocker of any obstacle. It stops at the first hit.
func CheckCollisions(a *Agent, obstacles []Obstacle, worldH float64) bool {
	for i := range obstacles {
		o := &obstacles[i]
		if a.CollidesWith(o.TopRect()) || a.CollidesWith(o.BottomRect(worldH)) {
			return true
		}
	}
	return false
}

// HitsBoundary reports whether the agent touches the top or bottom of the world.
func HitsBoundary(a *Agent, worldH float64) bool {
	r := a.Radius()
	return a.Y <= r || a.Y >= worldH-r
}
