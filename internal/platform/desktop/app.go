// Package desktop runs Diamond Flappy in a window using Ebitengine.
// World units map one-to-one onto window pixels.
package desktop

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/vovakirdan/diamond-flappy/internal/config"
	"github.com/vovakirdan/diamond-flappy/internal/core"
	"github.com/vovakirdan/diamond-flappy/internal/flappy"
	"github.com/vovakirdan/diamond-flappy/internal/platform/menu"
)

// Records is the read side of run persistence shown in the window.
type Records interface {
	HighScores() (map[string]int, error)
	CustomUnlocked() (bool, error)
}

// Options configures a windowed session.
type Options struct {
	Config    config.Config
	Runtime   core.RuntimeConfig // ScreenW/ScreenH are the initial window size in pixels
	Keeper    flappy.ScoreKeeper
	Records   Records // nil unlocks custom mode
	Listeners []flappy.Listener
	Logger    *log.Logger
	Profile   string
	Title     string
}

// App implements ebiten.Game around a flappy.Game.
type App struct {
	game      *flappy.Game
	picker    *menu.Picker
	driver    *core.FrameDriver
	records   Records
	logger    *log.Logger
	highs     map[string]int
	lastState flappy.State
	now       func() time.Time
	canvas    canvas
}

// NewApp creates a windowed session in the Menu state.
func NewApp(opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	seed := opts.Runtime.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	world := flappy.World{Width: float64(opts.Runtime.ScreenW), Height: float64(opts.Runtime.ScreenH)}
	if world.Width <= 0 || world.Height <= 0 {
		world = flappy.World{Width: opts.Config.World.Width, Height: opts.Config.World.Height}
	}

	game, err := flappy.New(opts.Config, world, flappy.Options{
		Rand:        rand.New(rand.NewSource(seed)),
		ScoreKeeper: opts.Keeper,
		Listeners:   opts.Listeners,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("desktop: %w", err)
	}

	a := &App{
		game:      game,
		picker:    menu.New(opts.Config, opts.Profile),
		driver:    core.NewFrameDriver(opts.Config.Timing.MaxStep),
		records:   opts.Records,
		logger:    logger,
		highs:     map[string]int{},
		lastState: flappy.StateMenu,
		now:       time.Now,
	}
	a.refreshRecords()
	return a, nil
}

// Game exposes the underlying simulation.
func (a *App) Game() *flappy.Game {
	return a.game
}

// Step applies one input frame at time now and advances the simulation.
// It returns false once the player asked to quit.
func (a *App) Step(in core.InputFrame, now time.Time) bool {
	if in.Has(core.ActionQuit) {
		return false
	}

	dt := a.driver.Step(now)
	menu.Route(in, a.game, a.picker)
	a.game.Update(dt)

	if s := a.game.State(); s != a.lastState {
		a.lastState = s
		if s == flappy.StateMenu || s == flappy.StateGameOver {
			a.refreshRecords()
		}
	}
	return true
}

func (a *App) refreshRecords() {
	if a.records == nil {
		a.picker.SetUnlocked(true)
		return
	}
	if highs, err := a.records.HighScores(); err != nil {
		a.logger.Warn("cannot load high scores", "err", err)
	} else {
		a.highs = highs
	}
	unlocked, err := a.records.CustomUnlocked()
	if err != nil {
		a.logger.Warn("cannot load unlocks", "err", err)
		return
	}
	a.picker.SetUnlocked(unlocked)
}

// Update implements ebiten.Game.
func (a *App) Update() error {
	if !a.Step(collectInput(), a.now()) {
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game.
func (a *App) Draw(screen *ebiten.Image) {
	if a.game.State() == flappy.StateMenu {
		a.canvas.drawMenu(screen, a.picker, a.highs)
		return
	}
	snap := a.game.Snapshot()
	a.canvas.draw(screen, snap, a.highs[snap.ProfileID])
}

// Layout implements ebiten.Game. The world follows the window size.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	a.game.Resize(float64(outsideWidth), float64(outsideHeight))
	w := a.game.World()
	return int(w.Width), int(w.Height)
}

// Run opens the window and blocks until it is closed.
func Run(opts Options) error {
	app, err := NewApp(opts)
	if err != nil {
		return err
	}

	w := app.game.World()
	title := opts.Title
	if title == "" {
		title = "Diamond Flappy"
	}
	ebiten.SetWindowSize(int(w.Width), int(w.Height))
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if opts.Runtime.TickRate > 0 {
		ebiten.SetTPS(opts.Runtime.TickRate)
	}

	if err := ebiten.RunGame(app); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("desktop: %w", err)
	}
	return nil
}
