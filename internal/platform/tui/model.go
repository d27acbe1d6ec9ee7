package tui

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/diamond-flappy/internal/config"
	"github.com/vovakirdan/diamond-flappy/internal/core"
	"github.com/vovakirdan/diamond-flappy/internal/flappy"
	"github.com/vovakirdan/diamond-flappy/internal/platform/menu"
)

// ModelOptions configures a terminal session.
type ModelOptions struct {
	Config    config.Config
	Runtime   core.RuntimeConfig
	Keeper    flappy.ScoreKeeper // Receives finished runs; nil disables persistence
	Records   Records            // Feeds the menu, HUD and scoreboard; nil unlocks custom mode
	Listeners []flappy.Listener
	Logger    *log.Logger
	Profile   string // Menu entry selected initially
	AutoStart bool   // Start Profile immediately instead of showing the menu
	ShotDir   string // Screenshot directory; empty selects ~/.diamond/screenshots
}

// Model is the Bubble Tea model for one player's Diamond Flappy session.
type Model struct {
	game      *flappy.Game
	screen    *core.Screen
	presenter Presenter
	driver    *core.FrameDriver
	records   Records
	logger    *log.Logger
	keys      KeyMap
	help      help.Model
	menu      *menu.Picker
	scores    *ScoreboardModel
	input     core.InputFrame
	highs     map[string]int
	lastState flappy.State
	tickRate  int
	width     int
	height    int
	shotDir   string
	autoStart string
	quitting  bool
}

// NewModel creates a session in the Menu state.
func NewModel(opts ModelOptions) (Model, error) {
	rt := opts.Runtime
	if rt.TickRate <= 0 {
		rt.TickRate = 60
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	seed := rt.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	presenter := NewPresenter(opts.Config.Terminal)
	world := flappy.World{Width: opts.Config.World.Width, Height: opts.Config.World.Height}
	if rt.ScreenW > 0 && rt.ScreenH > 1 {
		w, h := presenter.WorldSize(rt.ScreenW, rt.ScreenH-1)
		world = flappy.World{Width: w, Height: h}
	}

	gameOpts := flappy.Options{
		Rand:        rand.New(rand.NewSource(seed)),
		ScoreKeeper: opts.Keeper,
		Listeners:   opts.Listeners,
		Logger:      logger,
	}
	game, err := flappy.New(opts.Config, world, gameOpts)
	if errors.Is(err, flappy.ErrInvalidWorld) {
		// Terminal too small; simulate at the configured size and clip the view
		world = flappy.World{Width: opts.Config.World.Width, Height: opts.Config.World.Height}
		game, err = flappy.New(opts.Config, world, gameOpts)
	}
	if err != nil {
		return Model{}, fmt.Errorf("tui: %w", err)
	}

	shotDir := opts.ShotDir
	if shotDir == "" {
		if home, herr := os.UserHomeDir(); herr == nil {
			shotDir = filepath.Join(home, ".diamond", "screenshots")
		}
	}

	h := help.New()
	h.Width = rt.ScreenW

	m := Model{
		game:      game,
		screen:    core.NewScreen(rt.ScreenW, max(rt.ScreenH-1, 0)),
		presenter: presenter,
		driver:    core.NewFrameDriver(opts.Config.Timing.MaxStep),
		records:   opts.Records,
		logger:    logger,
		keys:      DefaultKeyMap(),
		help:      h,
		menu:      menu.New(opts.Config, opts.Profile),
		highs:     map[string]int{},
		lastState: flappy.StateMenu,
		tickRate:  rt.TickRate,
		width:     rt.ScreenW,
		height:    rt.ScreenH,
		shotDir:   shotDir,
	}
	if opts.AutoStart {
		m.autoStart = opts.Profile
	}
	m.refreshRecords()
	return m, nil
}

// Game exposes the underlying simulation.
func (m Model) Game() *flappy.Game {
	return m.game
}

// Init starts the tick loop, and the first run when auto-starting.
// Auto-started custom runs skip the unlock check.
func (m Model) Init() tea.Cmd {
	switch m.autoStart {
	case "":
	case config.ProfileCustom:
		m.game.StartCustomRun(m.menu.Speed, m.menu.Gap)
	default:
		m.game.StartRun(m.autoStart)
	}
	return tickCmd(m.tickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.scores != nil {
		return m.updateScoreboard(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Shot) {
		m.saveScreenshot()
		return m, nil
	}

	var action core.Action
	if m.game.State() == flappy.StateMenu {
		action = m.keys.MenuAction(msg)
	} else {
		action = m.keys.PlayAction(msg)
	}

	switch action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionScores:
		id, _ := m.menu.Choice()
		sb := NewScoreboardModel(m.records, id, m.width, m.height)
		sb.embedded = true
		m.scores = &sb
		return m, nil
	}

	// Applied on the next tick so the simulation sees one input frame per step
	m.input.Set(action)
	return m, nil
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.help.Width = msg.Width

	rows := max(msg.Height-1, 0)
	m.screen.Resize(msg.Width, rows)
	m.game.Resize(m.presenter.WorldSize(msg.Width, rows))
	return m, nil
}

func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	dt := m.driver.Step(now)
	m.applyInput()
	m.game.Update(dt)
	m.syncState()
	return m, tickCmd(m.tickRate)
}

// applyInput drains the input frame into the picker or the game.
func (m *Model) applyInput() {
	in := m.input
	m.input.Clear()
	menu.Route(in, m.game, m.menu)
}

// syncState refreshes stored records whenever a run ends or the menu opens.
func (m *Model) syncState() {
	s := m.game.State()
	if s == m.lastState {
		return
	}
	m.lastState = s
	if s == flappy.StateMenu || s == flappy.StateGameOver {
		m.refreshRecords()
	}
}

func (m *Model) refreshRecords() {
	if m.records == nil {
		m.menu.SetUnlocked(true)
		return
	}

	highs, err := m.records.HighScores()
	if err != nil {
		m.logger.Warn("cannot load high scores", "err", err)
	} else {
		m.highs = highs
	}

	unlocked, err := m.records.CustomUnlocked()
	if err != nil {
		m.logger.Warn("cannot load unlocks", "err", err)
		return
	}
	m.menu.SetUnlocked(unlocked)
}

func (m Model) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The simulation keeps its clock while the scoreboard is open
	if t, ok := msg.(TickMsg); ok {
		m.driver.Step(time.Time(t))
		return m, tickCmd(m.tickRate)
	}
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		next, _ := m.handleResize(ws)
		m = next.(Model)
	}

	updated, cmd := m.scores.Update(msg)
	sb := updated.(ScoreboardModel)
	switch {
	case sb.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case sb.IsGoingBack():
		m.scores = nil
		return m, nil
	}
	m.scores = &sb
	return m, cmd
}

// saveScreenshot writes the current frame as plain text.
func (m *Model) saveScreenshot() {
	if m.shotDir == "" {
		return
	}
	m.render()

	if err := os.MkdirAll(m.shotDir, 0o755); err != nil {
		m.logger.Warn("cannot create screenshot directory", "err", err)
		return
	}
	name := fmt.Sprintf("flappy_%s.txt", time.Now().Format("20060102_150405"))
	path := filepath.Join(m.shotDir, name)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("cannot save screenshot", "err", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// render draws the current state into the screen buffer.
func (m Model) render() {
	if m.game.State() == flappy.StateMenu {
		drawMenu(m.screen, m.menu, m.highs)
		return
	}
	snap := m.game.Snapshot()
	m.presenter.Draw(m.screen, snap, m.highs[snap.ProfileID])
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.scores != nil {
		return m.scores.View()
	}

	m.render()

	var keys help.KeyMap = playHelp{m.keys}
	if m.game.State() == flappy.StateMenu {
		keys = menuHelp{m.keys}
	}
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(keys))
}

// Run starts the Bubble Tea program for a local session.
func Run(opts ModelOptions) error {
	model, err := NewModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err = p.Run()
	return err
}
