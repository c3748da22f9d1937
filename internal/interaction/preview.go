package interaction

import (
	"strings"

	"github.com/JoeRobich/fd-editorminimap/internal/overview"
	"github.com/JoeRobich/fd-editorminimap/internal/surface"
)

// Default preview size in cells.
const (
	DefaultPreviewWidth  = 60
	DefaultPreviewHeight = 12
)

// previewMargin is the indentation kept in front of the least indented line.
const previewMargin = 2

// Rect is a rectangle in screen cells.
type Rect struct {
	X, Y, Width, Height int
}

// Layout is where the overview sits on screen.
type Layout struct {
	Bounds       Rect
	ScreenWidth  int
	ScreenHeight int
	Side         overview.Side
}

// PreviewPopup is the hover preview: a window of the document centred on Line,
// drawn beside the overview. Lines holds Height document lines starting at
// First.
type PreviewPopup struct {
	Line    int
	First   int
	X, Y    int
	Width   int
	Height  int
	AnchorX int
	Lines   []string
}

func newPreview(vp surface.Viewport, line int, s Settings, l Layout, x, y int) *PreviewPopup {
	p := &PreviewPopup{Width: s.PreviewWidth, Height: s.PreviewHeight, AnchorX: x}
	if l.Side == overview.SideRight {
		p.X = l.Bounds.X - p.Width
	} else {
		p.X = l.Bounds.X + l.Bounds.Width
	}
	p.X = max(0, p.X)
	p.moveTo(vp, line, l, y)
	return p
}

func (p *PreviewPopup) moveTo(vp surface.Viewport, line int, l Layout, y int) {
	p.Line = line
	p.Y = l.Bounds.Y + y - p.Height/2
	if l.ScreenHeight > 0 {
		p.Y = min(p.Y, l.ScreenHeight-p.Height)
	}
	p.Y = max(0, p.Y)
	lines := strings.Split(vp.Text(), "\n")
	p.First = CenterFirstLine(line, p.Height, len(lines))
	p.Lines = PreviewLines(lines, line, p.Height, vp.TabWidth())
}

func (c *Controller) updatePreview(x, y int) {
	vp, ok := c.nav.Viewport(ButtonLeft)
	if !ok {
		c.ClosePreview()
		return
	}
	line := c.overview.LineFromPoint(x, y)
	c.preview.moveTo(vp, line, c.layout, y)
}

// PreviewLines returns height lines centred on line with tabs expanded and the
// common indentation trimmed down to a two-column margin. Blank lines do not
// count towards the common indentation.
func PreviewLines(lines []string, line, height, tabWidth int) []string {
	if height <= 0 || len(lines) == 0 {
		return nil
	}
	first := CenterFirstLine(line, height, len(lines))
	end := min(first+height, len(lines))

	out := make([]string, 0, end-first)
	indent := -1
	for _, l := range lines[first:end] {
		l = surface.ExpandTabs(strings.TrimRight(l, "\r"), tabWidth, 0)
		out = append(out, l)
		if strings.TrimSpace(l) == "" {
			continue
		}
		if n := indentWidth(l); indent < 0 || n < indent {
			indent = n
		}
	}

	trim := indent - previewMargin
	if trim <= 0 {
		return out
	}
	for i, l := range out {
		out[i] = l[min(trim, indentWidth(l)):]
	}
	return out
}

// indentWidth counts the leading spaces of a tab-expanded line. Spaces are one
// column and one byte wide, so the count doubles as a byte offset.
func indentWidth(l string) int {
	return len(l) - len(strings.TrimLeft(l, " "))
}
