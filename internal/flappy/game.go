// Package flappy implements the Diamond Flappy simulation: a diamond falls
// under gravity, flaps upward on input and must pass through the gaps of a
// stream of obstacles. The package has no rendering, input or storage code;
// those are injected through Options and observed through Snapshot.
package flappy

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/diamond-flappy/internal/config"
)

// ErrInvalidWorld is returned when world dimensions are missing or too small.
var ErrInvalidWorld = errors.New("invalid world")

// Options holds the collaborators injected into a Game. Zero values select
// a time-seeded RNG, no persistence, no listeners, a discarding logger and
// random UUID run ids.
type Options struct {
	Rand        Rand
	ScoreKeeper ScoreKeeper
	Listeners   []Listener
	Logger      *log.Logger
	NewRunID    func() string
}

// Game is the state machine driving a single player's runs.
// It is not safe for concurrent use; call it from one loop.
type Game struct {
	cfg     config.Config
	world   World
	state   State
	agent   Agent
	stream  *ObstacleStream
	profile config.Profile

	countdown float64 // Seconds left in Countdown
	elapsed   float64 // Seconds spent Playing in the current run
	runID     string
	last      *RunResult

	keeper    ScoreKeeper
	listeners []Listener
	logger    *log.Logger
	newRunID  func() string
}

// New creates a game in the Menu state.
func New(cfg config.Config, world World, opts Options) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("flappy: %w", err)
	}
	world = roundWorld(world)
	if err := checkWorld(cfg, world); err != nil {
		return nil, fmt.Errorf("flappy: %w", err)
	}

	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.NewRunID == nil {
		opts.NewRunID = uuid.NewString
	}

	g := &Game{
		cfg:       cfg,
		world:     world,
		state:     StateMenu,
		stream:    NewObstacleStream(cfg.Obstacles, opts.Rand),
		keeper:    opts.ScoreKeeper,
		listeners: opts.Listeners,
		logger:    opts.Logger,
		newRunID:  opts.NewRunID,
	}
	g.agent = NewAgent(cfg.Agent.SpawnX, world.Height/2, cfg.Agent.Size, cfg.Agent.RotationSpeed)
	return g, nil
}

// roundWorld snaps dimensions to whole units so gap arithmetic stays exact.
func roundWorld(w World) World {
	return World{Width: math.Round(w.Width), Height: math.Round(w.Height)}
}

func checkWorld(cfg config.Config, w World) error {
	if w.Width <= 0 || w.Height <= 0 {
		return fmt.Errorf("%w: %vx%v", ErrInvalidWorld, w.Width, w.Height)
	}
	minH := 2*math.Ceil(cfg.Obstacles.MinHeight) + 1
	if h := cfg.Agent.Size; h > minH {
		minH = h
	}
	if w.Height < minH {
		return fmt.Errorf("%w: height %v below minimum %v", ErrInvalidWorld, w.Height, minH)
	}
	return nil
}

// AddListener registers an additional listener.
func (g *Game) AddListener(l Listener) {
	g.listeners = append(g.listeners, l)
}

// State returns the current state.
func (g *Game) State() State {
	return g.state
}

// Score returns the current run's score.
func (g *Game) Score() int {
	return g.stream.Score()
}

// World returns the current world dimensions.
func (g *Game) World() World {
	return g.world
}

// Profile returns the profile of the current or most recent run.
func (g *Game) Profile() config.Profile {
	return g.profile
}

// Config returns the configuration the game was built with.
func (g *Game) Config() config.Config {
	return g.cfg
}

// StartRun begins a countdown with the named profile. It is accepted in Menu
// and GameOver; unknown profiles are ignored.
func (g *Game) StartRun(profileID string) bool {
	if g.state != StateMenu && g.state != StateGameOver {
		return false
	}
	p, err := g.cfg.Profile(profileID)
	if err != nil {
		g.logger.Warn("ignoring run start", "profile", profileID, "err", err)
		return false
	}
	g.begin(p)
	return true
}

// StartCustomRun begins a countdown with a custom profile built from the
// given obstacle speed and gap size, clamped into the configured ranges.
func (g *Game) StartCustomRun(speed, gap float64) bool {
	if g.state != StateMenu && g.state != StateGameOver {
		return false
	}
	g.begin(g.cfg.CustomProfile(speed, gap))
	return true
}

// Confirm starts a run with the selected profile when in Menu.
func (g *Game) Confirm(profileID string) bool {
	if g.state != StateMenu {
		return false
	}
	return g.StartRun(profileID)
}

// Restart starts a new run with the previous profile from GameOver.
func (g *Game) Restart() bool {
	if g.state != StateGameOver {
		return false
	}
	g.begin(g.profile)
	return true
}

// ReturnToMenu leaves GameOver, or aborts a countdown, back to Menu.
func (g *Game) ReturnToMenu() bool {
	if g.state != StateGameOver && g.state != StateCountdown {
		return false
	}
	g.stream.Clear()
	g.agent.Reset(g.cfg.Agent.SpawnX, g.world.Height/2)
	g.setState(StateMenu)
	return true
}

// Flap applies the flap impulse during Countdown and Playing. A flap during
// Countdown changes velocity that only takes effect once Playing starts.
func (g *Game) Flap() bool {
	if g.state != StateCountdown && g.state != StatePlaying {
		return false
	}
	if !g.agent.Flap(g.profile) {
		return false
	}
	for _, l := range g.listeners {
		l.Flapped()
	}
	return true
}

// Resize updates the world. Invalid dimensions are ignored.
func (g *Game) Resize(width, height float64) bool {
	w := roundWorld(World{Width: width, Height: height})
	if err := checkWorld(g.cfg, w); err != nil {
		g.logger.Warn("ignoring resize", "err", err)
		return false
	}
	if w == g.world {
		return true
	}
	old := g.world
	g.world = w
	switch g.state {
	case StateMenu:
		g.agent.Reset(g.cfg.Agent.SpawnX, w.Height/2)
	case StateCountdown:
		// No physics has run yet; keep any stored flap velocity
		g.agent.MoveTo(g.cfg.Agent.SpawnX, w.Height/2)
	default:
		// Keep the agent at the same relative height
		g.agent.MoveTo(g.agent.X, g.agent.Y*w.Height/old.Height)
		g.agent.Fit(w.Height)
	}
	g.logger.Debug("world resized", "width", w.Width, "height", w.Height)
	return true
}

// Update advances the game by dt seconds. Only Countdown and Playing do work.
func (g *Game) Update(dt float64) {
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}

	switch g.state {
	case StateCountdown:
		g.agent.VisualsOnly(dt)
		g.countdown -= dt
		if g.countdown <= 0 {
			g.countdown = 0
			g.setState(StatePlaying)
		}
	case StatePlaying:
		g.step(dt)
	}
}

// step runs one Playing frame: agent, obstacles, collisions, notifications.
func (g *Game) step(dt float64) {
	h := g.world.Height
	g.elapsed += dt

	g.agent.Integrate(dt, g.profile, h)

	g.stream.MaybeSpawn(g.elapsed, g.world, g.profile)
	passed := g.stream.Advance(dt, g.profile, g.agent.X)

	dead := g.stream.Collides(&g.agent, h) || HitsBoundary(&g.agent, h)

	if passed > 0 {
		score := g.stream.Score()
		for _, l := range g.listeners {
			l.ScoreChanged(score)
		}
	}
	if dead {
		g.endRun()
	}
}

func (g *Game) begin(p config.Profile) {
	g.profile = p
	g.agent.Reset(g.cfg.Agent.SpawnX, g.world.Height/2)
	g.stream.Clear()
	g.countdown = g.cfg.Timing.Countdown.Seconds()
	g.elapsed = 0
	g.runID = g.newRunID()
	g.last = nil

	g.logger.Debug("run starting", "run", g.runID, "profile", p.ID)
	g.setState(StateCountdown)
	for _, l := range g.listeners {
		l.ScoreChanged(0)
	}
}

func (g *Game) endRun() {
	g.agent.Kill()

	result := RunResult{
		RunID:     g.runID,
		ProfileID: g.profile.ID,
		Score:     g.stream.Score(),
		Duration:  secondsToDuration(g.elapsed),
	}
	if g.keeper != nil {
		newHigh, err := g.keeper.RecordRun(result)
		if err != nil {
			g.logger.Error("failed to record run", "run", result.RunID, "err", err)
		} else {
			result.NewHigh = newHigh
		}
	}
	g.last = &result

	g.logger.Info("run ended",
		"profile", result.ProfileID,
		"score", result.Score,
		"duration", result.Duration.Round(time.Millisecond),
		"new_high", result.NewHigh,
	)
	g.setState(StateGameOver)
	for _, l := range g.listeners {
		l.RunEnded(result)
	}
}

func (g *Game) setState(to State) {
	from := g.state
	if from == to {
		return
	}
	g.state = to
	g.logger.Debug("state changed", "from", from, "to", to)
	for _, l := range g.listeners {
		l.StateChanged(from, to)
	}
}
