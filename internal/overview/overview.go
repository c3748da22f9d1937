// Package overview is the minimap's own surface: a read-only copy of the
// document whose density follows the zoom level.
package overview

import (
	"fmt"
	"strings"

	"github.com/JoeRobich/fd-editorminimap/internal/surface"
)

// Side is the edge of the host the overview is docked to.
type Side int

const (
	SideRight Side = iota
	SideLeft
)

func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

// ParseSide parses "left" or "right".
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "right", "":
		return SideRight, nil
	case "left":
		return SideLeft, nil
	default:
		return SideRight, fmt.Errorf("invalid dock side %q (want left or right)", s)
	}
}

// Density is how many document lines and characters share one terminal cell.
type Density struct {
	LinesPerRow  int
	CharsPerCell int
}

// DensityFor converts a zoom level into a cell density. A terminal cannot
// shrink its font, so shrinking packs more text into each cell: half blocks
// hold two lines, braille dots hold four lines of two characters.
func DensityFor(zoom int) Density {
	switch {
	case zoom >= 0:
		return Density{LinesPerRow: 1, CharsPerCell: 1}
	case zoom > -4:
		return Density{LinesPerRow: 2, CharsPerCell: 1}
	default:
		return Density{LinesPerRow: 4, CharsPerCell: 2}
	}
}

// Overview is a Buffer sized in terminal cells.
type Overview struct {
	*surface.Buffer

	zoom    int
	density Density
	cols    int
	rows    int
	side    Side
}

// New creates an empty overview docked right.
func New() *Overview {
	return &Overview{
		Buffer:  surface.NewBuffer(""),
		density: DensityFor(0),
	}
}

// Resize sets the overview's size in cells. Lines on screen follow the
// density: every row shows LinesPerRow visual lines.
func (o *Overview) Resize(cols, rows int) {
	o.cols = max(0, cols)
	o.rows = max(0, rows)
	o.Buffer.SetLinesOnScreen(o.rows * o.density.LinesPerRow)
}

// SetZoom applies a zoom level and reports whether the density changed.
func (o *Overview) SetZoom(level int) bool {
	o.zoom = level
	d := DensityFor(level)
	if d == o.density {
		return false
	}
	o.density = d
	o.Buffer.SetLinesOnScreen(o.rows * d.LinesPerRow)
	return true
}

func (o *Overview) Zoom() int { return o.zoom }
func (o *Overview) Density() Density { return o.density }
func (o *Overview) Cols() int { return o.cols }
func (o *Overview) Rows() int { return o.rows }
func (o *Overview) Side() Side { return o.side }
func (o *Overview) SetSide(side Side) { o.side = side }

// LineFromPoint returns the document line under cell (x, y). Every column of a
// row covers the same lines, so only y matters. Points past the text resolve to
// the last line.
func (o *Overview) LineFromPoint(_, y int) int {
	last := o.LineCount() - 1
	if o.rows == 0 {
		return 0
	}
	y = max(0, min(y, o.rows-1))
	visual := o.FirstVisibleLine() + y*o.density.LinesPerRow
	return min(o.DocLineFromVisible(visual), last)
}

// RowLines returns, for every row on screen, the document lines it packs.
// Rows past the text are empty.
func (o *Overview) RowLines() [][]int {
	out := make([][]int, o.rows)
	visible := o.VisibleLineCount()
	first := o.FirstVisibleLine()
	for r := range out {
		for k := 0; k < o.density.LinesPerRow; k++ {
			v := first + r*o.density.LinesPerRow + k
			if v >= visible {
				break
			}
			out[r] = append(out[r], o.DocLineFromVisible(v))
		}
	}
	return out
}
