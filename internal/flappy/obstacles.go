package flappy

import (
	"math"

	"github.com/vovakirdan/diamond-flappy/internal/config"
	"github.com/vovakirdan/diamond-flappy/internal/core"
)

// Theme selects how an obstacle is drawn. The simulation only carries the tag.
type Theme int

const (
	ThemePipes Theme = iota
	ThemeRocks
	ThemeCrystals
	ThemeLasers
	ThemeThorns
	ThemeBuildings
)

// AllThemes lists every theme in declaration order.
var AllThemes = []Theme{ThemePipes, ThemeRocks, ThemeCrystals, ThemeLasers, ThemeThorns, ThemeBuildings}

var themeNames = map[Theme]string{
	ThemePipes:     "pipes",
	ThemeRocks:     "rocks",
	ThemeCrystals:  "crystals",
	ThemeLasers:    "lasers",
	ThemeThorns:    "thorns",
	ThemeBuildings: "buildings",
}

func (t Theme) String() string {
	if name, ok := themeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseTheme maps a config name to a Theme.
func ParseTheme(name string) (Theme, bool) {
	for t, n := range themeNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}

// Rand is the random source used for gap placement and theme selection.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// World is the simulated area in world units.
type World struct {
	Width, Height float64
}

// Obstacle is a top and bottom blocker pair with a navigable gap between them.
// The bottom blocker always extends to the current world height.
type Obstacle struct {
	X         float64 // Left edge
	Width     float64
	TopHeight float64
	GapSize   float64
	Passed    bool
	Theme     Theme
}

// GapCenterY returns the vertical centre of the gap.
func (o Obstacle) GapCenterY() float64 {
	return o.TopHeight + o.GapSize/2
}

// BottomY returns the top edge of the bottom blocker.
func (o Obstacle) BottomY() float64 {
	return o.TopHeight + o.GapSize
}

// BottomHeight returns the bottom blocker height for the given world height.
func (o Obstacle) BottomHeight(worldH float64) float64 {
	return worldH - o.BottomY()
}

// TopRect returns the collision rectangle of the top blocker.
func (o Obstacle) TopRect() core.Rect {
	return core.NewRect(o.X, 0, o.Width, o.TopHeight)
}

// BottomRect returns the collision rectangle of the bottom blocker.
func (o Obstacle) BottomRect(worldH float64) core.Rect {
	return core.NewRect(o.X, o.BottomY(), o.Width, o.BottomHeight(worldH))
}

// IsOffScreen reports whether the right edge has left the world.
func (o Obstacle) IsOffScreen() bool {
	return o.X+o.Width < 0
}

// ObstacleStream spawns, advances, scores and retires obstacles.
// Obstacles are kept in spawn order, which is also left-to-right order.
type ObstacleStream struct {
	obstacles []Obstacle
	rng       Rand
	width     float64
	minHeight float64
	jitter    float64
	themes    []Theme
	lastSpawn float64 // Simulation seconds
	spawned   bool    // Whether anything spawned since the last Clear
	score     int
}

// NewObstacleStream creates an empty stream. Unknown theme names are skipped;
// an empty theme list enables all themes.
func NewObstacleStream(cfg config.ObstacleConfig, rng Rand) *ObstacleStream {
	s := &ObstacleStream{
		obstacles: make([]Obstacle, 0, 8),
		rng:       rng,
		width:     cfg.Width,
		minHeight: math.Ceil(cfg.MinHeight),
		jitter:    cfg.Jitter,
	}
	for _, name := range cfg.Themes {
		if t, ok := ParseTheme(name); ok {
			s.themes = append(s.themes, t)
		}
	}
	if len(s.themes) == 0 {
		s.themes = AllThemes
	}
	return s
}

// Spawn appends one obstacle at the right edge of the world and returns it.
// The gap centre is jittered around mid-height, then clamped so both
// blockers are at least MinHeight tall. Heights are whole units so that
// top + gap + bottom equals the world height exactly.
func (s *ObstacleStream) Spawn(world World, p config.Profile, theme Theme) Obstacle {
	h := world.Height

	gap := math.Round(p.GapSize)
	if maxGap := h - 2*s.minHeight; gap > maxGap {
		gap = maxGap
	}
	if gap < 0 {
		gap = 0
	}

	center := h/2 + (s.rng.Float64()-0.5)*s.jitter
	top := math.Round(center - gap/2)
	top = core.ClampF(top, s.minHeight, h-s.minHeight-gap)

	o := Obstacle{
		X:         world.Width,
		Width:     s.width,
		TopHeight: top,
		GapSize:   gap,
		Theme:     theme,
	}
	s.obstacles = append(s.obstacles, o)
	return o
}

// MaybeSpawn spawns an obstacle with a random theme when nothing has spawned
// since the last Clear or more than the profile's interval has elapsed since
// the previous spawn. now is simulation time in seconds.
func (s *ObstacleStream) MaybeSpawn(now float64, world World, p config.Profile) bool {
	if s.spawned && now-s.lastSpawn <= p.SpawnSeconds() {
		return false
	}
	s.Spawn(world, p, s.themes[s.rng.Intn(len(s.themes))])
	s.lastSpawn = now
	s.spawned = true
	return true
}

// Advance moves every obstacle left, scores those the agent has cleared and
// retires those past the left edge. It returns the number newly passed.
// An obstacle scored in this call is kept until the next call.
func (s *ObstacleStream) Advance(dt float64, p config.Profile, agentX float64) int {
	passed := 0
	live := s.obstacles[:0]
	for _, o := range s.obstacles {
		o.X -= p.ObstacleSpeed * dt

		scoredNow := false
		if !o.Passed && agentX > o.X+o.Width {
			o.Passed = true
			s.score++
			passed++
			scoredNow = true
		}

		if o.IsOffScreen() && !scoredNow {
			continue
		}
		live = append(live, o)
	}
	s.obstacles = live
	return passed
}

// Collides reports whether the agent touches any obstacle.
func (s *ObstacleStream) Collides(a *Agent, worldH float64) bool {
	return CheckCollisions(a, s.obstacles, worldH)
}

// Clear removes all obstacles and resets the score and spawn timer.
func (s *ObstacleStream) Clear() {
	s.obstacles = s.obstacles[:0]
	s.score = 0
	s.lastSpawn = 0
	s.spawned = false
}

// Obstacles returns the live obstacles. Callers must not modify the slice.
func (s *ObstacleStream) Obstacles() []Obstacle {
	return s.obstacles
}

// Score returns the number of obstacles passed since the last Clear.
func (s *ObstacleStream) Score() int {
	return s.score
}

// Len returns the number of live obstacles.
func (s *ObstacleStream) Len() int {
	return len(s.obstacles)
}
