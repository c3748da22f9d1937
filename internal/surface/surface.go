// Package surface defines the line-addressed, scrollable, foldable text surface
// the minimap reads from and renders into, plus an in-memory implementation.
//
// Lines are addressed two ways. A document line is an index into the text,
// independent of folding. A visual line is an index into the lines that are
// currently shown, after hidden lines are removed.
package surface

import "github.com/JoeRobich/fd-editorminimap/internal/pubsub"

// Viewport is the read side of a text surface plus its scroll primitive.
type Viewport interface {
	// FirstVisibleLine is the visual line shown at the top of the surface.
	FirstVisibleLine() int
	// LinesOnScreen is how many visual lines fit on the surface.
	LinesOnScreen() int
	// LineCount is the number of document lines.
	LineCount() int
	LineVisible(line int) bool
	TabWidth() int
	LanguageID() string
	Text() string
	// DocLineFromVisible maps a visual line to its document line.
	DocLineFromVisible(visual int) int
	// VisibleFromDocLine maps a document line to its visual line.
	VisibleFromDocLine(line int) int
	// LineScroll scrolls by a signed number of visual lines.
	LineScroll(lines int)
}

// Foldable is a Viewport whose line visibility can be changed.
// Ranges are inclusive, matching the host widgets' show/hide primitives.
type Foldable interface {
	Viewport
	ShowLines(from, to int)
	HideLines(from, to int)
}

// Notifier publishes change notifications for a surface.
type Notifier interface {
	Subscribe(fn func(Event)) pubsub.Subscription
}

// EventKind identifies a surface change notification.
type EventKind int

const (
	// TextInserted reports Length bytes inserted at Position.
	TextInserted EventKind = iota
	// TextDeleted reports Length bytes removed at Position.
	TextDeleted
	// UIUpdate reports a scroll, resize or redraw.
	UIUpdate
	// FoldChanged reports a change in line visibility.
	FoldChanged
)

func (k EventKind) String() string {
	switch k {
	case TextInserted:
		return "text-inserted"
	case TextDeleted:
		return "text-deleted"
	case UIUpdate:
		return "ui-update"
	case FoldChanged:
		return "fold-changed"
	default:
		return "unknown"
	}
}

// Event is a surface change notification.
type Event struct {
	Kind       EventKind
	Position   int
	Length     int
	LinesAdded int
}

// ForcesRefresh reports whether the event invalidates the line mapping and so
// requires a full, non-incremental refresh.
func (e Event) ForcesRefresh() bool {
	return e.Kind != UIUpdate
}

// DocumentViewport is a read-only snapshot of a Viewport taken once per refresh.
type DocumentViewport struct {
	FirstVisibleLine int
	LinesOnScreen    int
	LineCount        int
	TabWidth         int
	LanguageID       string
	Text             string
}

// Snapshot captures v. Negative values reported by a surface are clamped to 0.
func Snapshot(v Viewport) DocumentViewport {
	return DocumentViewport{
		FirstVisibleLine: max(0, v.FirstVisibleLine()),
		LinesOnScreen:    max(0, v.LinesOnScreen()),
		LineCount:        max(0, v.LineCount()),
		TabWidth:         v.TabWidth(),
		LanguageID:       v.LanguageID(),
		Text:             v.Text(),
	}
}

// CenterLine is the visual line in the middle of the snapshot.
func (d DocumentViewport) CenterLine() int {
	return d.FirstVisibleLine + d.LinesOnScreen/2
}
