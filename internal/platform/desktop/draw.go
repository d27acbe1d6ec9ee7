package desktop

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/vovakirdan/diamond-flappy/internal/config"
	"github.com/vovakirdan/diamond-flappy/internal/flappy"
	"github.com/vovakirdan/diamond-flappy/internal/platform/menu"
)

// Debug font cell size
const (
	glyphW = 6
	glyphH = 16
)

var (
	colorSky      = color.RGBA{0x12, 0x14, 0x2a, 0xff}
	colorGold     = color.RGBA{0xff, 0xd7, 0x40, 0xff}
	colorDanger   = color.RGBA{0xff, 0x3b, 0x30, 0xff}
	colorDead     = color.RGBA{0x80, 0x80, 0x88, 0xff}
	colorPanel    = color.RGBA{0x00, 0x00, 0x00, 0xc0}
	colorPanelRim = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

// themePaint is the body and cap colour of one obstacle theme.
type themePaint struct {
	body, edge color.RGBA
}

var themePaints = map[flappy.Theme]themePaint{
	flappy.ThemePipes:     {color.RGBA{0x3c, 0xb3, 0x4a, 0xff}, color.RGBA{0x2a, 0x80, 0x34, 0xff}},
	flappy.ThemeRocks:     {color.RGBA{0x7d, 0x76, 0x6e, 0xff}, color.RGBA{0x5a, 0x54, 0x4e, 0xff}},
	flappy.ThemeCrystals:  {color.RGBA{0xb0, 0x5c, 0xff, 0xff}, color.RGBA{0xe0, 0xb0, 0xff, 0xff}},
	flappy.ThemeLasers:    {color.RGBA{0xff, 0x30, 0x50, 0xff}, color.RGBA{0xff, 0xc0, 0xc8, 0xff}},
	flappy.ThemeThorns:    {color.RGBA{0x6b, 0x44, 0x23, 0xff}, color.RGBA{0x3f, 0x8f, 0x2f, 0xff}},
	flappy.ThemeBuildings: {color.RGBA{0x4a, 0x55, 0x68, 0xff}, color.RGBA{0xf5, 0xd0, 0x6a, 0xff}},
}

// canvas holds lazily created GPU resources.
type canvas struct {
	white *ebiten.Image
}

func (c *canvas) whiteImage() *ebiten.Image {
	if c.white == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		c.white = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return c.white
}

func (c *canvas) draw(screen *ebiten.Image, s flappy.Snapshot, high int) {
	screen.Fill(colorSky)

	for _, o := range s.Obstacles {
		drawObstacle(screen, o)
	}
	c.drawDiamond(screen, s)

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Score %d", s.Score), 10, 8)
	right := fmt.Sprintf("%s  High %d", s.ProfileID, high)
	ebitenutil.DebugPrintAt(screen, right, screen.Bounds().Dx()-len(right)*glyphW-10, 8)

	switch s.State {
	case flappy.StateCountdown:
		c.drawCountdown(screen, s.Countdown)
	case flappy.StateGameOver:
		drawGameOver(screen, s, high)
	}
}

func drawObstacle(screen *ebiten.Image, o flappy.ObstacleView) {
	p, ok := themePaints[o.Theme]
	if !ok {
		p = themePaints[flappy.ThemePipes]
	}
	const capH = 12

	x, w := float32(o.X), float32(o.Width)
	top, bottomY, bottomH := float32(o.TopHeight), float32(o.BottomY), float32(o.BottomHeight)

	if o.Theme == flappy.ThemeLasers {
		// Beam with emitters at the gap edges
		beamX := x + w/2 - 3
		vector.FillRect(screen, beamX, 0, 6, top, p.body, false)
		vector.FillRect(screen, beamX, bottomY, 6, bottomH, p.body, false)
		vector.FillRect(screen, x, top-capH, w, capH, p.edge, false)
		vector.FillRect(screen, x, bottomY, w, capH, p.edge, false)
		return
	}

	vector.FillRect(screen, x, 0, w, top, p.body, false)
	vector.FillRect(screen, x, bottomY, w, bottomH, p.body, false)
	vector.FillRect(screen, x-4, top-capH, w+8, capH, p.edge, false)
	vector.FillRect(screen, x-4, bottomY, w+8, capH, p.edge, false)
}

// diamondColor blends from gold to red with proximity.
func diamondColor(intensity float64) color.RGBA {
	t := math.Max(0, math.Min(1, intensity))
	lerp := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*t)
	}
	return color.RGBA{
		R: lerp(colorGold.R, colorDanger.R),
		G: lerp(colorGold.G, colorDanger.G),
		B: lerp(colorGold.B, colorDanger.B),
		A: 0xff,
	}
}

// diamondPoints returns the four corners of the diamond rotated by rot.
func diamondPoints(a flappy.AgentPose) [4][2]float32 {
	var pts [4][2]float32
	r := a.Radius
	for i := range pts {
		angle := a.Rotation + float64(i)*math.Pi/2
		pts[i] = [2]float32{
			float32(a.X + r*math.Cos(angle)),
			float32(a.Y + r*math.Sin(angle)),
		}
	}
	return pts
}

func (c *canvas) drawDiamond(screen *ebiten.Image, s flappy.Snapshot) {
	clr := diamondColor(s.Proximity)
	if !s.Agent.Alive {
		clr = colorDead
	}

	pts := diamondPoints(s.Agent)
	var path vector.Path
	path.MoveTo(pts[0][0], pts[0][1])
	for _, p := range pts[1:] {
		path.LineTo(p[0], p[1])
	}
	path.Close()

	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 1, 1
		vs[i].ColorR = float32(clr.R) / 255
		vs[i].ColorG = float32(clr.G) / 255
		vs[i].ColorB = float32(clr.B) / 255
		vs[i].ColorA = 1
	}
	screen.DrawTriangles(vs, is, c.whiteImage(), &ebiten.DrawTrianglesOptions{AntiAlias: true})

	// Glow pulse
	glow := 0.5 + 0.5*math.Sin(s.Agent.Phase)
	if s.Agent.Alive && glow > 0.6 {
		halo := color.RGBA{clr.R, clr.G, clr.B, uint8(60 * glow)}
		vector.StrokeCircle(screen, float32(s.Agent.X), float32(s.Agent.Y), float32(s.Agent.Radius*1.4), 2, halo, true)
	}
}

func (c *canvas) drawCountdown(screen *ebiten.Image, n int) {
	b := screen.Bounds()
	label := fmt.Sprintf("%d", n)

	// Scale the debug font up for the big digit
	digit := ebiten.NewImage(glyphW+2, glyphH)
	defer digit.Deallocate()
	ebitenutil.DebugPrintAt(digit, label, 1, 0)

	const scale = 8
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(float64(b.Dx()-(glyphW+2)*scale)/2, float64(b.Dy()/2-glyphH*scale/2-20))
	screen.DrawImage(digit, op)

	printCentered(screen, "get ready", b.Dy()/2+glyphH*scale/2)
}

func drawGameOver(screen *ebiten.Image, s flappy.Snapshot, high int) {
	b := screen.Bounds()
	const w, h = 260, 120
	x := float32(b.Dx()-w) / 2
	y := float32(b.Dy()-h) / 2

	vector.FillRect(screen, x, y, w, h, colorPanel, false)
	vector.StrokeRect(screen, x, y, w, h, 2, colorPanelRim, false)

	top := int(y) + 14
	printCentered(screen, "GAME OVER", top)
	printCentered(screen, fmt.Sprintf("Score: %d", s.Score), top+22)
	if s.Last != nil && s.Last.NewHigh {
		printCentered(screen, "NEW HIGH SCORE!", top+44)
	} else {
		printCentered(screen, fmt.Sprintf("Best: %d", high), top+44)
	}
	printCentered(screen, "R restart  M menu  Q quit", top+76)
}

func (c *canvas) drawMenu(screen *ebiten.Image, p *menu.Picker, highs map[string]int) {
	screen.Fill(colorSky)
	b := screen.Bounds()

	y := b.Dy()/2 - 110
	printCentered(screen, "D I A M O N D   F L A P P Y", y)
	printCentered(screen, "choose a difficulty", y+30)

	y += 70
	for i, id := range p.Presets() {
		line := id
		if h, ok := highs[id]; ok {
			line = fmt.Sprintf("%-8s best %d", id, h)
		}
		printCentered(screen, cursorLine(p, i, line), y)
		y += 22
	}

	y += 14
	if !p.Unlocked() {
		printCentered(screen, "custom: locked", y)
		return
	}
	custom := config.ProfileCustom
	if h, ok := highs[config.ProfileCustom]; ok {
		custom = fmt.Sprintf("custom  best %d", h)
	}
	printCentered(screen, custom, y)
	printCentered(screen, cursorLine(p, p.SpeedRow(), fmt.Sprintf("speed < %3.0f >", p.Speed)), y+22)
	printCentered(screen, cursorLine(p, p.GapRow(), fmt.Sprintf("gap   < %3.0f >", p.Gap)), y+44)

	printCentered(screen, "arrows select  enter play  q quit", b.Dy()-30)
}

func cursorLine(p *menu.Picker, row int, text string) string {
	if row == p.Cursor() {
		return "> " + text + "  "
	}
	return "  " + text + "  "
}

func printCentered(screen *ebiten.Image, text string, y int) {
	x := (screen.Bounds().Dx() - len(text)*glyphW) / 2
	ebitenutil.DebugPrintAt(screen, text, x, y)
}
