package tui

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/diamond-flappy/internal/config"
	"github.com/vovakirdan/diamond-flappy/internal/core"
	"github.com/vovakirdan/diamond-flappy/internal/platform/menu"
	"github.com/vovakirdan/diamond-flappy/internal/storage"
)

// drawMenu renders the difficulty picker with stored bests.
func drawMenu(dst *core.Screen, p *menu.Picker, highs map[string]int) {
	dst.Clear()

	top := max(1, dst.Height()/2-8)
	dst.DrawTextCentered(top, "◆  D I A M O N D   F L A P P Y  ◆", core.ColorBrightYellow)
	dst.DrawTextCentered(top+2, "choose a difficulty", core.ColorGray)

	y := top + 4
	for i, id := range p.Presets() {
		best := ""
		if h, ok := highs[id]; ok {
			best = fmt.Sprintf("best %d", h)
		}
		drawMenuRow(dst, p, y, i, fmt.Sprintf("%-14s%10s", titleCase(id), best))
		y++
	}

	y++
	if !p.Unlocked() {
		line := fmt.Sprintf("  %-14s locked: score %d on any difficulty", "Custom", storage.CustomUnlockScore)
		dst.DrawTextCentered(y, line, core.ColorGray)
		return
	}

	best := ""
	if h, ok := highs[config.ProfileCustom]; ok {
		best = fmt.Sprintf("  best %d", h)
	}
	dst.DrawTextCentered(y-1, "Custom"+best, core.ColorCyan)
	drawMenuRow(dst, p, y, p.SpeedRow(), fmt.Sprintf("%-14s◀ %4.0f ▶", "speed", p.Speed))
	drawMenuRow(dst, p, y+1, p.GapRow(), fmt.Sprintf("%-14s◀ %4.0f ▶", "gap", p.Gap))
}

func drawMenuRow(dst *core.Screen, p *menu.Picker, y, row int, text string) {
	if row == p.Cursor() {
		dst.DrawTextCentered(y, "> "+text+"  ", core.ColorBrightYellow)
		return
	}
	dst.DrawTextCentered(y, "  "+text+"  ", core.ColorWhite)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}
