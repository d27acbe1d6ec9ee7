package desktop

import (
	"math"
	"testing"
	"time"

	"github.com/vovakirdan/diamond-flappy/internal/config"
	"github.com/vovakirdan/diamond-flappy/internal/core"
	"github.com/vovakirdan/diamond-flappy/internal/flappy"
)

type stubRecords struct {
	highs    map[string]int
	unlocked bool
	loads    int
}

func (s *stubRecords) HighScores() (map[string]int, error) {
	s.loads++
	return s.highs, nil
}

func (s *stubRecords) CustomUnlocked() (bool, error) {
	return s.unlocked, nil
}

func newTestApp(t *testing.T, records Records) *App {
	t.Helper()
	app, err := NewApp(Options{
		Config:  config.DefaultConfig(),
		Runtime: core.RuntimeConfig{ScreenW: 800, ScreenH: 600, Seed: 3},
		Records: records,
		Profile: config.ProfileEasy,
	})
	if err != nil {
		t.Fatalf("NewApp() failed: %v", err)
	}
	return app
}

func frame(actions ...core.Action) core.InputFrame {
	var in core.InputFrame
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

func TestAppRunLifecycle(t *testing.T) {
	rec := &stubRecords{highs: map[string]int{config.ProfileEasy: 2}}
	app := newTestApp(t, rec)
	now := time.Unix(0, 0)
	step := func(in core.InputFrame) {
		t.Helper()
		if !app.Step(in, now) {
			t.Fatal("Step should keep running")
		}
		now = now.Add(time.Second / 60)
	}

	step(frame(core.ActionConfirm))
	if app.Game().State() != flappy.StateCountdown {
		t.Fatalf("state = %v, expected Countdown", app.Game().State())
	}

	loads := rec.loads
	for i := 0; i < 3000 && app.Game().State() != flappy.StateGameOver; i++ {
		step(0)
	}
	if app.Game().State() != flappy.StateGameOver {
		t.Fatal("idle run should crash")
	}
	if rec.loads <= loads {
		t.Error("records should reload when the run ends")
	}

	step(frame(core.ActionMenu))
	if app.Game().State() != flappy.StateMenu {
		t.Errorf("state = %v, expected Menu", app.Game().State())
	}
}

func TestAppQuit(t *testing.T) {
	app := newTestApp(t, nil)
	if app.Step(frame(core.ActionQuit), time.Unix(0, 0)) {
		t.Error("Step should stop on quit")
	}
}

func TestAppStallIsClamped(t *testing.T) {
	app := newTestApp(t, nil)
	start := time.Unix(0, 0)

	app.Step(frame(core.ActionConfirm), start)
	// A ten second stall advances the countdown by one capped step only
	app.Step(0, start.Add(10*time.Second))
	if app.Game().State() != flappy.StateCountdown {
		t.Errorf("stalled frame should not skip the countdown, got %v", app.Game().State())
	}
}

func TestAppLayoutResizesWorld(t *testing.T) {
	app := newTestApp(t, nil)

	w, h := app.Layout(1024, 700)
	if w != 1024 || h != 700 {
		t.Errorf("Layout = %dx%d, expected 1024x700", w, h)
	}

	// Too small to fit a gap: world keeps its previous size
	w, h = app.Layout(200, 50)
	if w != 1024 || h != 700 {
		t.Errorf("Layout after invalid resize = %dx%d, expected 1024x700", w, h)
	}
}

func TestAppDefaultsToConfiguredWorld(t *testing.T) {
	app, err := NewApp(Options{Config: config.DefaultConfig()})
	if err != nil {
		t.Fatalf("NewApp() failed: %v", err)
	}
	if w := app.Game().World(); w.Width != 800 || w.Height != 600 {
		t.Errorf("world = %vx%v, expected 800x600", w.Width, w.Height)
	}
}

func TestDiamondColor(t *testing.T) {
	if c := diamondColor(0); c != colorGold {
		t.Errorf("diamondColor(0) = %v, expected gold", c)
	}
	if c := diamondColor(1); c != colorDanger {
		t.Errorf("diamondColor(1) = %v, expected danger red", c)
	}
	if c := diamondColor(5); c != colorDanger {
		t.Errorf("diamondColor should clamp intensity, got %v", c)
	}
}

func TestDiamondPoints(t *testing.T) {
	pts := diamondPoints(flappy.AgentPose{X: 100, Y: 50, Radius: 10})

	want := [4][2]float32{{110, 50}, {100, 60}, {90, 50}, {100, 40}}
	for i := range pts {
		for j := range 2 {
			if math.Abs(float64(pts[i][j]-want[i][j])) > 1e-4 {
				t.Errorf("point %d = %v, expected %v", i, pts[i], want[i])
			}
		}
	}
}
