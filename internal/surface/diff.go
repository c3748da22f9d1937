package surface

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffText returns the text-inserted and text-deleted events that, applied in
// order, turn old into updated. Positions are byte offsets into the document
// as it stands when each event is applied. The diff is computed line-wise.
func DiffText(old, updated string) []Event {
	if old == updated {
		return nil
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(old, updated)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	var events []Event
	pos := 0
	for _, d := range diffs {
		n := len(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			pos += n
		case diffmatchpatch.DiffDelete:
			events = append(events, Event{
				Kind:       TextDeleted,
				Position:   pos,
				Length:     n,
				LinesAdded: -strings.Count(d.Text, "\n"),
			})
		case diffmatchpatch.DiffInsert:
			events = append(events, Event{
				Kind:       TextInserted,
				Position:   pos,
				Length:     n,
				LinesAdded: strings.Count(d.Text, "\n"),
			})
			pos += n
		}
	}
	return events
}
