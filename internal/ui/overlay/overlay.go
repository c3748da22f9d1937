// Package overlay draws popups (code preview, help, notices) on top of an
// already rendered view without clearing the screen.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Position specifies where Place puts the foreground.
type Position int

const (
	// Center places the overlay in the middle of the screen.
	Center Position = iota
	// BottomRight places the overlay in the bottom right corner, PadX and
	// PadY cells from the edges.
	BottomRight
)

// Config controls Place.
type Config struct {
	Width    int
	Height   int
	Position Position
	PadX     int
	PadY     int
}

// Place renders fg on top of bg at the configured position.
func Place(cfg Config, fg, bg string) string {
	fgW := lipgloss.Width(fg)
	fgH := lipgloss.Height(fg)

	var x, y int
	switch cfg.Position {
	case BottomRight:
		x = cfg.Width - fgW - cfg.PadX
		y = cfg.Height - fgH - cfg.PadY
	default:
		x = (cfg.Width - fgW) / 2
		y = (cfg.Height - fgH) / 2
	}
	return PlaceAt(fg, bg, max(0, x), max(0, y), cfg.Height)
}

// PlaceAt renders fg with its top left corner at cell (x, y) of bg. Styling on
// both sides is preserved. bg is padded to height lines first; rows of fg
// falling below bg are dropped.
func PlaceAt(fg, bg string, x, y, height int) string {
	bgLines := strings.Split(bg, "\n")
	for len(bgLines) < height {
		bgLines = append(bgLines, "")
	}

	for i, fgLine := range strings.Split(fg, "\n") {
		row := y + i
		if row < 0 {
			continue
		}
		if row >= len(bgLines) {
			break
		}
		bgLines[row] = splice(bgLines[row], fgLine, x)
	}
	return strings.Join(bgLines, "\n")
}

// splice replaces the cells of line starting at x with fg.
func splice(line, fg string, x int) string {
	left := ansi.Truncate(line, x, "")
	if w := ansi.StringWidth(left); w < x {
		left += strings.Repeat(" ", x-w)
	}

	end := x + ansi.StringWidth(fg)
	var right string
	if end < ansi.StringWidth(line) {
		right = ansi.TruncateLeft(line, end, "")
	}
	return left + fg + right
}
