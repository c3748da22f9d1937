package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Border characters (rounded)
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// Frame describes a bordered pane: ╭─ Title ───╮ … ╰─── Footer ─╯
type Frame struct {
	Title   string
	Footer  string
	Width   int
	Height  int
	Focused bool
}

// InnerSize returns the content area inside the border.
func (f Frame) InnerSize() (width, height int) {
	return max(1, f.Width-2), max(1, f.Height-2)
}

// RenderFrame draws content inside a rounded border with the title embedded in
// the top edge and the footer right-aligned in the bottom edge. Content lines
// are padded or cut to the inner width and height.
func RenderFrame(content string, f Frame) string {
	var borderColor lipgloss.TerminalColor = BorderDefaultColor
	if f.Focused {
		borderColor = BorderFocusedColor
	}
	border := lipgloss.NewStyle().Foreground(borderColor)
	label := lipgloss.NewStyle().Foreground(OverlayTitleColor)

	innerW, innerH := f.InnerSize()

	lines := strings.Split(content, "\n")
	var b strings.Builder
	b.WriteString(edge(f.Title, innerW, borderTopLeft, borderTopRight, false, border, label))
	for i := 0; i < innerH; i++ {
		var line string
		if i < len(lines) {
			line = ansi.Truncate(lines[i], innerW, "")
		}
		if w := ansi.StringWidth(line); w < innerW {
			line += strings.Repeat(" ", innerW-w)
		}
		b.WriteByte('\n')
		b.WriteString(border.Render(borderVertical))
		b.WriteString(line)
		b.WriteString(border.Render(borderVertical))
	}
	b.WriteByte('\n')
	b.WriteString(edge(f.Footer, innerW, borderBottomLeft, borderBottomRight, true, border, label))
	return b.String()
}

// edge renders a horizontal border with an embedded label. Labels that do
// not fit are cut with an ellipsis; at fewer than 4 cells the label is dropped.
func edge(text string, innerW int, left, right string, alignRight bool, border, label lipgloss.Style) string {
	if text == "" || innerW < 4 {
		return border.Render(left + strings.Repeat(borderHorizontal, innerW) + right)
	}

	text = ansi.Truncate(text, innerW-4, "…")
	fill := max(0, innerW-3-ansi.StringWidth(text))

	if alignRight {
		return border.Render(left+strings.Repeat(borderHorizontal, fill)+" ") +
			label.Render(text) +
			border.Render(" "+borderHorizontal+right)
	}
	return border.Render(left+borderHorizontal+" ") +
		label.Render(text) +
		border.Render(" "+strings.Repeat(borderHorizontal, fill)+right)
}
