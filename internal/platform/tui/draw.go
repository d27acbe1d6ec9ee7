package tui

import (
	"fmt"
	"math"

	"github.com/vovakirdan/diamond-flappy/internal/config"
	"github.com/vovakirdan/diamond-flappy/internal/core"
	"github.com/vovakirdan/diamond-flappy/internal/flappy"
)

// themeGlyphs describes how one obstacle theme is drawn.
type themeGlyphs struct {
	body       rune
	topEdge    rune // Last row of the top blocker
	bottomEdge rune // First row of the bottom blocker
	color      core.Color
}

var themes = map[flappy.Theme]themeGlyphs{
	flappy.ThemePipes:     {'█', '▀', '▄', core.ColorGreen},
	flappy.ThemeRocks:     {'▓', '▒', '▒', core.ColorGray},
	flappy.ThemeCrystals:  {'◆', '◇', '◇', core.ColorMagenta},
	flappy.ThemeLasers:    {'┃', '╋', '╋', core.ColorBrightRed},
	flappy.ThemeThorns:    {'▒', '▼', '▲', core.ColorBrown},
	flappy.ThemeBuildings: {'▓', '▔', '▁', core.ColorSlate},
}

// Presenter draws snapshots into a Screen. One cell covers
// cellW x cellH world units.
type Presenter struct {
	cellW, cellH float64
}

// NewPresenter creates a presenter for the given cell size.
func NewPresenter(t config.TerminalConfig) Presenter {
	return Presenter{cellW: t.CellWidth, cellH: t.CellHeight}
}

// WorldSize converts a playfield in cells to world units.
func (p Presenter) WorldSize(cols, rows int) (float64, float64) {
	return float64(cols) * p.cellW, float64(rows) * p.cellH
}

// Draw renders the playfield, HUD and overlays for s.
func (p Presenter) Draw(dst *core.Screen, s flappy.Snapshot, high int) {
	dst.Clear()

	for _, o := range s.Obstacles {
		p.drawObstacle(dst, o)
	}
	p.drawAgent(dst, s)
	p.drawHUD(dst, s, high)

	switch s.State {
	case flappy.StateCountdown:
		drawCountdown(dst, s.Countdown)
	case flappy.StateGameOver:
		drawGameOver(dst, s, high)
	}
}

func (p Presenter) drawObstacle(dst *core.Screen, o flappy.ObstacleView) {
	g, ok := themes[o.Theme]
	if !ok {
		g = themes[flappy.ThemePipes]
	}

	x0 := int(math.Floor(o.X / p.cellW))
	x1 := int(math.Ceil((o.X + o.Width) / p.cellW))
	topRows := int(math.Round(o.TopHeight / p.cellH))
	bottomRow := int(math.Round(o.BottomY / p.cellH))

	for x := x0; x < x1; x++ {
		for y := 0; y < topRows; y++ {
			r := g.body
			if y == topRows-1 {
				r = g.topEdge
			}
			dst.SetColored(x, y, r, g.color)
		}
		for y := bottomRow; y < dst.Height(); y++ {
			r := g.body
			if y == bottomRow {
				r = g.bottomEdge
			}
			dst.SetColored(x, y, r, g.color)
		}
	}
}

func (p Presenter) drawAgent(dst *core.Screen, s flappy.Snapshot) {
	a := s.Agent
	x := int(a.X / p.cellW)
	y := int(a.Y / p.cellH)

	if !a.Alive {
		dst.SetColored(x, y, '✖', core.ColorRed)
		return
	}

	r := '◆'
	if math.Sin(a.Phase) > 0.6 {
		r = '◈'
	}
	dst.SetColored(x, y, r, proximityColor(s.Proximity))
}

// proximityColor shifts the diamond from gold to red as obstacles get close.
func proximityColor(intensity float64) core.Color {
	switch {
	case intensity >= 0.7:
		return core.ColorBrightRed
	case intensity >= 0.3:
		return core.ColorOrange
	default:
		return core.ColorBrightYellow
	}
}

func (p Presenter) drawHUD(dst *core.Screen, s flappy.Snapshot, high int) {
	dst.DrawText(1, 0, fmt.Sprintf(" Score %d ", s.Score), core.ColorWhite)

	right := fmt.Sprintf(" %s  High %d ", s.ProfileID, high)
	dst.DrawText(dst.Width()-len(right)-1, 0, right, core.ColorGray)
}

// bigDigits is a 3x5 block font for the countdown.
var bigDigits = map[int][5]string{
	0: {"███", "█ █", "█ █", "█ █", "███"},
	1: {" █ ", "██ ", " █ ", " █ ", "███"},
	2: {"███", "  █", "███", "█  ", "███"},
	3: {"███", "  █", "███", "  █", "███"},
	4: {"█ █", "█ █", "███", "  █", "  █"},
	5: {"███", "█  ", "███", "  █", "███"},
	6: {"███", "█  ", "███", "█ █", "███"},
	7: {"███", "  █", "  █", "  █", "  █"},
	8: {"███", "█ █", "███", "█ █", "███"},
	9: {"███", "█ █", "███", "  █", "███"},
}

func drawCountdown(dst *core.Screen, n int) {
	glyph, ok := bigDigits[n]
	top := dst.Height()/2 - 3
	if !ok {
		dst.DrawTextCentered(top+2, fmt.Sprintf("%d", n), core.ColorBrightYellow)
		return
	}
	for i, line := range glyph {
		dst.DrawTextCentered(top+i, line, core.ColorBrightYellow)
	}
	dst.DrawTextCentered(top+6, "get ready", core.ColorWhite)
}

func drawGameOver(dst *core.Screen, s flappy.Snapshot, high int) {
	const w, h = 32, 7
	x := (dst.Width() - w) / 2
	y := (dst.Height() - h) / 2

	dst.FillRect(x, y, w, h, ' ', core.ColorDefault)
	dst.DrawBox(x, y, w, h, core.ColorWhite)
	dst.DrawTextCentered(y+1, "GAME OVER", core.ColorBrightRed)
	dst.DrawTextCentered(y+2, fmt.Sprintf("Score: %d", s.Score), core.ColorWhite)

	if s.Last != nil && s.Last.NewHigh {
		dst.DrawTextCentered(y+3, "NEW HIGH SCORE!", core.ColorBrightYellow)
	} else {
		dst.DrawTextCentered(y+3, fmt.Sprintf("Best: %d", high), core.ColorGray)
	}
	dst.DrawTextCentered(y+5, "R restart  M menu  Q quit", core.ColorGray)
}
