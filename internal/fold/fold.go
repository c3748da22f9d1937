// Package fold mirrors line visibility from a primary surface onto the overview.
package fold

import (
	"github.com/JoeRobich/fd-editorminimap/internal/log"
	"github.com/JoeRobich/fd-editorminimap/internal/surface"
)

// Mirror makes every overview line 0..primary.LineCount()-1 match the primary's
// visibility, walking lines in order. Overview lines past the primary's count
// (padding) are left alone. It reports whether any line was toggled.
//
// Mirror is idempotent: a second call with no primary change is a no-op.
func Mirror(primary surface.Viewport, overview surface.Foldable) bool {
	changed := 0
	n := primary.LineCount()
	for line := 0; line < n; line++ {
		want := primary.LineVisible(line)
		if overview.LineVisible(line) == want {
			continue
		}
		if want {
			overview.ShowLines(line, line)
		} else {
			overview.HideLines(line, line)
		}
		changed++
	}
	if changed > 0 {
		log.Debug(log.CatFold, "mirrored fold state", "lines", n, "toggled", changed)
	}
	return changed > 0
}

// Mismatch is a line whose visibility differs between two surfaces.
type Mismatch struct {
	Line           int
	PrimaryVisible bool
}

// Diff reports, without applying, the lines Mirror would toggle.
func Diff(primary, overview surface.Viewport) []Mismatch {
	var out []Mismatch
	n := primary.LineCount()
	for line := 0; line < n; line++ {
		want := primary.LineVisible(line)
		if overview.LineVisible(line) != want {
			out = append(out, Mismatch{Line: line, PrimaryVisible: want})
		}
	}
	return out
}
