package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/diamond-flappy/internal/config"
	"github.com/vovakirdan/diamond-flappy/internal/core"
	"github.com/vovakirdan/diamond-flappy/internal/flappy"
	"github.com/vovakirdan/diamond-flappy/internal/storage"
)

type fakeRecords struct {
	highs    map[string]int
	unlocked bool
	refresh  int
	runs     []storage.RunEntry
}

func (f *fakeRecords) HighScores() (map[string]int, error) {
	f.refresh++
	return f.highs, nil
}

func (f *fakeRecords) CustomUnlocked() (bool, error) {
	return f.unlocked, nil
}

func (f *fakeRecords) TopScores(string, int) ([]storage.RunEntry, error) {
	return f.runs, nil
}

func (f *fakeRecords) GetProfileStats(id string) (*storage.ProfileStats, error) {
	return &storage.ProfileStats{ProfileID: id, GamesPlayed: len(f.runs)}, nil
}

type testSession struct {
	t   *testing.T
	m   Model
	now time.Time
}

func newTestSession(t *testing.T, records Records) *testSession {
	t.Helper()
	m, err := NewModel(ModelOptions{
		Config:  config.DefaultConfig(),
		Runtime: core.RuntimeConfig{ScreenW: 80, ScreenH: 25, TickRate: 60, Seed: 1},
		Records: records,
		Profile: config.ProfileEasy,
		ShotDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	return &testSession{t: t, m: m, now: time.Unix(0, 0)}
}

func (s *testSession) send(msg tea.Msg) tea.Cmd {
	s.t.Helper()
	next, cmd := s.m.Update(msg)
	m, ok := next.(Model)
	if !ok {
		s.t.Fatalf("Update returned %T, expected Model", next)
	}
	s.m = m
	return cmd
}

func (s *testSession) press(k tea.KeyMsg) {
	s.send(k)
	s.tick()
}

func (s *testSession) tick() {
	s.send(TickMsg(s.now))
	s.now = s.now.Add(time.Second / 60)
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestModelWorldFromTerminal(t *testing.T) {
	s := newTestSession(t, nil)

	// One row is reserved for the help bar
	if w := s.m.Game().World(); w.Width != 800 || w.Height != 600 {
		t.Errorf("world = %vx%v, expected 800x600", w.Width, w.Height)
	}

	s.send(tea.WindowSizeMsg{Width: 100, Height: 31})
	if w := s.m.Game().World(); w.Width != 1000 || w.Height != 750 {
		t.Errorf("world after resize = %vx%v, expected 1000x750", w.Width, w.Height)
	}
}

func TestModelTinyTerminalFallsBackToConfiguredWorld(t *testing.T) {
	m, err := NewModel(ModelOptions{
		Config:  config.DefaultConfig(),
		Runtime: core.RuntimeConfig{ScreenW: 20, ScreenH: 4},
	})
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	if w := m.Game().World(); w.Width != 800 || w.Height != 600 {
		t.Errorf("world = %vx%v, expected configured 800x600", w.Width, w.Height)
	}
}

func TestModelSelectsProfile(t *testing.T) {
	s := newTestSession(t, &fakeRecords{})

	s.press(keyDown)
	s.press(keyEnter)

	g := s.m.Game()
	if g.State() != flappy.StateCountdown {
		t.Fatalf("state = %v, expected Countdown", g.State())
	}
	if g.Profile().ID != config.ProfileNormal {
		t.Errorf("profile = %q, expected normal", g.Profile().ID)
	}
}

func TestModelInputAppliedOnTick(t *testing.T) {
	s := newTestSession(t, nil)

	s.send(keyEnter)
	if s.m.Game().State() != flappy.StateMenu {
		t.Fatal("key press should not reach the game before the next tick")
	}
	s.tick()
	if s.m.Game().State() != flappy.StateCountdown {
		t.Errorf("state = %v after tick, expected Countdown", s.m.Game().State())
	}
}

func TestModelCustomLocked(t *testing.T) {
	s := newTestSession(t, &fakeRecords{})

	for range 6 {
		s.press(keyDown)
	}
	if id, custom := s.m.menu.Choice(); custom || id != config.ProfileHard {
		t.Errorf("cursor should stop at hard while custom is locked, got %q", id)
	}
	if !strings.Contains(s.m.View(), "locked") {
		t.Error("menu should show custom mode as locked")
	}
}

func TestModelCustomRun(t *testing.T) {
	s := newTestSession(t, &fakeRecords{unlocked: true})

	for range 3 {
		s.press(keyDown)
	}
	s.press(keyRight)
	s.press(keyEnter)

	g := s.m.Game()
	if g.State() != flappy.StateCountdown {
		t.Fatalf("state = %v, expected Countdown", g.State())
	}
	p := g.Profile()
	if p.ID != config.ProfileCustom || p.ObstacleSpeed != 275 || p.GapSize != 150 {
		t.Errorf("custom profile = %+v, expected speed 275 gap 150", p)
	}
}

func TestModelRunToGameOverRefreshesRecords(t *testing.T) {
	rec := &fakeRecords{highs: map[string]int{config.ProfileEasy: 4}}
	s := newTestSession(t, rec)
	before := rec.refresh

	s.press(keyEnter)
	for i := 0; i < 2000 && s.m.Game().State() != flappy.StateGameOver; i++ {
		s.tick()
	}
	if s.m.Game().State() != flappy.StateGameOver {
		t.Fatal("idle run should end in GameOver")
	}
	if rec.refresh <= before {
		t.Error("records should be refreshed when a run ends")
	}
	if !strings.Contains(s.m.View(), "GAME OVER") {
		t.Error("view should show the game over box")
	}

	s.press(runeKey('r'))
	if s.m.Game().State() != flappy.StateCountdown {
		t.Errorf("state after restart = %v, expected Countdown", s.m.Game().State())
	}

	s.press(keyEsc)
	if s.m.Game().State() != flappy.StateMenu {
		t.Errorf("state after esc = %v, expected Menu", s.m.Game().State())
	}
}

func TestModelFlapDuringPlay(t *testing.T) {
	s := newTestSession(t, nil)
	s.press(keyEnter)
	for s.m.Game().State() == flappy.StateCountdown {
		s.tick()
	}

	s.send(keySpace)
	s.tick()
	if vy := s.m.Game().Snapshot().Agent.VY; vy >= 0 {
		t.Errorf("VY after flap = %v, expected upward velocity", vy)
	}
}

func TestModelScoreboard(t *testing.T) {
	rec := &fakeRecords{runs: []storage.RunEntry{{ProfileID: config.ProfileEasy, Player: "ada", Score: 9}}}
	s := newTestSession(t, rec)

	s.send(keyTab)
	if !strings.Contains(s.m.View(), "HIGH SCORES") {
		t.Fatal("tab should open the scoreboard")
	}
	if !strings.Contains(s.m.View(), "ada") {
		t.Error("scoreboard should list recorded runs")
	}

	// Ticks keep flowing while the scoreboard is open
	if cmd := s.send(TickMsg(s.now)); cmd == nil {
		t.Error("tick loop should continue under the scoreboard")
	}

	s.send(keyEsc)
	if s.m.scores != nil {
		t.Fatal("esc should close the scoreboard")
	}
	if !strings.Contains(s.m.View(), "D I A M O N D") {
		t.Error("menu should be visible after closing the scoreboard")
	}
}

func TestModelQuit(t *testing.T) {
	s := newTestSession(t, nil)

	cmd := s.send(runeKey('q'))
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit command should produce tea.QuitMsg")
	}
	if s.m.View() != "" {
		t.Error("view should be empty after quitting")
	}
}

type failingRecords struct{ fakeRecords }

func (failingRecords) HighScores() (map[string]int, error) {
	return nil, errors.New("disk gone")
}

func TestModelSurvivesRecordErrors(t *testing.T) {
	s := newTestSession(t, &failingRecords{})

	s.press(keyEnter)
	if s.m.Game().State() != flappy.StateCountdown {
		t.Error("record errors should not block starting a run")
	}
}
