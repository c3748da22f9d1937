// Package preview renders the minimap's hover code preview.
package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"

	"github.com/JoeRobich/fd-editorminimap/internal/interaction"
	"github.com/JoeRobich/fd-editorminimap/internal/ui/styles"
)

// Render draws p as a bordered box of p.Width by p.Height cells. When the
// border leaves fewer rows than p.Lines holds, the rows kept stay centred on
// the hovered line, which is drawn with the cursor-line background.
func Render(p *interaction.PreviewPopup) string {
	if p == nil || p.Width <= 0 || p.Height <= 0 {
		return ""
	}
	f := styles.Frame{
		Title:  fmt.Sprintf("line %d", p.Line+1),
		Width:  p.Width,
		Height: p.Height,
	}
	innerW, innerH := f.InnerSize()

	center := p.Line - p.First
	skip := 0
	if len(p.Lines) > innerH {
		skip = max(0, min(center-innerH/2, len(p.Lines)-innerH))
	}

	text := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor)
	current := text.Background(styles.CursorLineBgColor)

	rows := make([]string, 0, innerH)
	for i := skip; i < len(p.Lines) && len(rows) < innerH; i++ {
		line := truncate.StringWithTail(p.Lines[i], uint(innerW), "…")
		if w := runewidth.StringWidth(line); w < innerW {
			line += strings.Repeat(" ", innerW-w)
		}
		if i == center {
			rows = append(rows, current.Render(line))
		} else {
			rows = append(rows, text.Render(line))
		}
	}
	return styles.RenderFrame(strings.Join(rows, "\n"), f)
}
