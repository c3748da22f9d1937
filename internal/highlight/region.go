// Package highlight computes the overview line ranges that are currently
// visible in the primary viewport(s), including the overlap of a split view.
package highlight

import "sort"

// ColorClass selects the colour a region is painted with.
type ColorClass int

const (
	Primary ColorClass = iota
	Secondary
	Overlap
)

func (c ColorClass) String() string {
	switch c {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	case Overlap:
		return "overlap"
	default:
		return "unknown"
	}
}

// rank orders classes by paint precedence.
func (c ColorClass) rank() int {
	if c == Overlap {
		return 2
	}
	return 1
}

// LineRange is a half-open range of document lines.
type LineRange struct {
	Start, End int
}

// Empty reports whether the range covers no line.
func (r LineRange) Empty() bool { return r.End <= r.Start }

// Contains reports whether line falls inside the range.
func (r LineRange) Contains(line int) bool { return line >= r.Start && line < r.End }

func (r LineRange) intersect(o LineRange) LineRange {
	return LineRange{Start: max(r.Start, o.Start), End: min(r.End, o.End)}
}

// minus returns the parts of r outside o, at most two.
func (r LineRange) minus(o LineRange) []LineRange {
	cut := r.intersect(o)
	if cut.Empty() {
		if r.Empty() {
			return nil
		}
		return []LineRange{r}
	}
	var out []LineRange
	if before := (LineRange{Start: r.Start, End: cut.Start}); !before.Empty() {
		out = append(out, before)
	}
	if after := (LineRange{Start: cut.End, End: r.End}); !after.Empty() {
		out = append(out, after)
	}
	return out
}

// Region is a painted half-open range of document lines.
type Region struct {
	Start, End int
	Class      ColorClass
}

// Range returns the lines the region covers.
func (r Region) Range() LineRange { return LineRange{Start: r.Start, End: r.End} }

// Translator maps visual lines to document lines.
type Translator interface {
	DocLineFromVisible(visual int) int
}

// RangeFor returns the document lines covered by a viewport showing lines
// visual lines starting at visual line first.
func RangeFor(t Translator, first, lines int) LineRange {
	return LineRange{
		Start: t.DocLineFromVisible(first),
		End:   t.DocLineFromVisible(first + lines),
	}
}

// Single returns the regions for one viewport.
func Single(a LineRange) []Region {
	if a.Empty() {
		return nil
	}
	return []Region{{Start: a.Start, End: a.End, Class: Primary}}
}

// Split returns the regions for two viewports sharing one overview: lines only
// in a are Primary, lines only in b are Secondary and lines in both are
// Overlap. Regions are sorted by start and empty parts are omitted.
func Split(a, b LineRange) []Region {
	var out []Region
	for _, r := range a.minus(b) {
		out = append(out, Region{Start: r.Start, End: r.End, Class: Primary})
	}
	if both := a.intersect(b); !both.Empty() {
		out = append(out, Region{Start: both.Start, End: both.End, Class: Overlap})
	}
	for _, r := range b.minus(a) {
		out = append(out, Region{Start: r.Start, End: r.End, Class: Secondary})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// Set holds the regions currently painted on the overview.
type Set struct {
	regions []Region
}

// Apply replaces every previous region with regions. It reports whether the
// painted set changed.
func (s *Set) Apply(regions []Region) bool {
	if equalRegions(s.regions, regions) {
		return false
	}
	s.regions = append(s.regions[:0:0], regions...)
	return true
}

// Clear removes every region.
func (s *Set) Clear() { s.regions = nil }

// Regions returns a copy of the painted regions.
func (s *Set) Regions() []Region {
	return append([]Region(nil), s.regions...)
}

// ClassAt returns the class painted at document line, resolving overlaps so
// that Overlap wins over Primary and Secondary.
func (s *Set) ClassAt(line int) (ColorClass, bool) {
	found := false
	var best ColorClass
	for _, r := range s.regions {
		if !r.Range().Contains(line) {
			continue
		}
		if !found || r.Class.rank() > best.rank() {
			best = r.Class
			found = true
		}
	}
	return best, found
}

func equalRegions(a, b []Region) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
