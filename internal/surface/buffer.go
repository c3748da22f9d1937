package surface

import (
	"sort"
	"strings"

	"github.com/JoeRobich/fd-editorminimap/internal/pubsub"
)

// DefaultTabWidth is used until a surface is told otherwise.
const DefaultTabWidth = 4

// Buffer is an in-memory Foldable surface. It holds the overview's own text and
// backs the demo host's editor views.
//
// Scrolling clamps the first visible line to [0, visible lines - lines on screen].
type Buffer struct {
	lines         []string
	hidden        []bool
	first         int
	linesOnScreen int
	tabWidth      int
	language      string

	// visual[i] is the document line shown at visual line i.
	visual []int
	dirty  bool

	events *pubsub.Hub[Event]
}

// NewBuffer creates a buffer holding text with every line visible.
func NewBuffer(text string) *Buffer {
	b := &Buffer{
		tabWidth: DefaultTabWidth,
		events:   pubsub.NewHub[Event](),
	}
	b.lines = splitLines(text)
	b.hidden = make([]bool, len(b.lines))
	b.dirty = true
	return b
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// Subscribe registers fn for change notifications.
func (b *Buffer) Subscribe(fn func(Event)) pubsub.Subscription {
	return b.events.Subscribe(fn)
}

// SetText replaces the content, publishing the text-inserted and text-deleted
// events that turn the old text into the new one. Fold state survives only when
// the line count is unchanged.
func (b *Buffer) SetText(text string) {
	old := b.Text()
	if old == text {
		return
	}

	b.lines = splitLines(text)
	if len(b.hidden) != len(b.lines) {
		b.hidden = make([]bool, len(b.lines))
	}
	b.dirty = true
	b.first = min(b.first, b.maxFirst())

	for _, ev := range DiffText(old, text) {
		b.events.Publish(ev)
	}
}

// Text returns the content joined with "\n".
func (b *Buffer) Text() string {
	return strings.Join(b.lines, "\n")
}

// Line returns document line i, or "" when out of range.
func (b *Buffer) Line(i int) string {
	if i < 0 || i >= len(b.lines) {
		return ""
	}
	return b.lines[i]
}

// LineCount returns the number of document lines. An empty buffer has one line.
func (b *Buffer) LineCount() int { return len(b.lines) }

// FirstVisibleLine returns the visual line at the top.
func (b *Buffer) FirstVisibleLine() int { return b.first }

// LinesOnScreen returns the number of visual lines that fit.
func (b *Buffer) LinesOnScreen() int { return b.linesOnScreen }

// SetLinesOnScreen resizes the buffer's screen.
func (b *Buffer) SetLinesOnScreen(n int) {
	n = max(0, n)
	if n == b.linesOnScreen {
		return
	}
	b.linesOnScreen = n
	b.first = min(b.first, b.maxFirst())
	b.events.Publish(Event{Kind: UIUpdate})
}

// TabWidth returns the tab width in columns.
func (b *Buffer) TabWidth() int { return b.tabWidth }

// SetTabWidth sets the tab width; values below 1 are ignored.
func (b *Buffer) SetTabWidth(w int) {
	if w > 0 {
		b.tabWidth = w
	}
}

// LanguageID returns the language identifier.
func (b *Buffer) LanguageID() string { return b.language }

// SetLanguageID sets the language identifier.
func (b *Buffer) SetLanguageID(id string) { b.language = id }

// LineVisible reports whether document line is shown. Out of range lines are not.
func (b *Buffer) LineVisible(line int) bool {
	if line < 0 || line >= len(b.lines) {
		return false
	}
	return !b.hidden[line]
}

// ShowLines makes document lines from..to (inclusive) visible.
func (b *Buffer) ShowLines(from, to int) { b.setHidden(from, to, false) }

// HideLines hides document lines from..to (inclusive).
func (b *Buffer) HideLines(from, to int) { b.setHidden(from, to, true) }

func (b *Buffer) setHidden(from, to int, hidden bool) {
	from = max(0, from)
	to = min(len(b.lines)-1, to)
	changed := false
	for i := from; i <= to; i++ {
		if b.hidden[i] != hidden {
			b.hidden[i] = hidden
			changed = true
		}
	}
	if !changed {
		return
	}
	b.dirty = true
	b.first = min(b.first, b.maxFirst())
	b.events.Publish(Event{Kind: FoldChanged})
}

func (b *Buffer) index() []int {
	if !b.dirty {
		return b.visual
	}
	b.visual = b.visual[:0]
	for i, h := range b.hidden {
		if !h {
			b.visual = append(b.visual, i)
		}
	}
	b.dirty = false
	return b.visual
}

// VisibleLineCount returns the number of visual lines.
func (b *Buffer) VisibleLineCount() int { return len(b.index()) }

// DocLineFromVisible maps a visual line to a document line. Visual lines past
// the end map to LineCount, so a half-open range ending there covers the tail.
func (b *Buffer) DocLineFromVisible(visual int) int {
	idx := b.index()
	if visual < 0 {
		visual = 0
	}
	if visual >= len(idx) {
		return len(b.lines)
	}
	return idx[visual]
}

// VisibleFromDocLine maps a document line to the visual line it occupies, or
// for a hidden line, the visual line of the next shown line.
func (b *Buffer) VisibleFromDocLine(line int) int {
	idx := b.index()
	line = max(0, min(line, len(b.lines)))
	return sort.SearchInts(idx, line)
}

func (b *Buffer) maxFirst() int {
	return max(0, b.VisibleLineCount()-b.linesOnScreen)
}

// LineScroll scrolls by lines visual lines, clamped to the scrollable range.
func (b *Buffer) LineScroll(lines int) {
	b.ScrollTo(b.first + lines)
}

// ScrollTo sets the first visible line, clamped to the scrollable range.
func (b *Buffer) ScrollTo(visual int) {
	next := max(0, min(visual, b.maxFirst()))
	if next == b.first {
		return
	}
	b.first = next
	b.events.Publish(Event{Kind: UIUpdate})
}

// VisibleLines returns the document lines currently on screen, top to bottom.
func (b *Buffer) VisibleLines() []int {
	idx := b.index()
	end := min(len(idx), b.first+b.linesOnScreen)
	if b.first >= end {
		return nil
	}
	out := make([]int, end-b.first)
	copy(out, idx[b.first:end])
	return out
}
