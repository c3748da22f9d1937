// Package scroll maps the primary viewport's scroll position onto the overview
// so both move proportionally through the document.
package scroll

// Reason explains why Map produced no scroll command.
type Reason string

const (
	// ReasonNone accompanies a scroll command.
	ReasonNone Reason = ""
	// ReasonFits means the overview already shows the whole document.
	ReasonFits Reason = "overview fits document"
	// ReasonDegenerate means the primary shows the whole document, leaving no
	// scroll range to be proportional to.
	ReasonDegenerate Reason = "primary range degenerate"
)

// Input carries the line counts the mapping depends on. DisplayLineCount is
// the number of visual lines after folding.
type Input struct {
	DisplayLineCount         int
	OverviewLinesOnScreen    int
	OverviewFirstVisibleLine int
	PrimaryFirstVisibleLine  int
	PrimaryLinesOnScreen     int
}

// Result is a relative scroll command for the overview. Delta is only
// meaningful when Scroll is set.
type Result struct {
	TargetLine int
	Delta      int
	Scroll     bool
	Reason     Reason
}

// Map computes the overview scroll command for in.
//
// The primary's position is expressed as a fraction of its scroll range and
// applied to the overview's scroll range:
//
//	percent = primaryFirst / (display - primaryLines)
//	target  = floor(percent * (display - overviewLines))
//	delta   = target - overviewFirst - 1
//
// The delta keeps one line of context above the target.
func Map(in Input) Result {
	if in.DisplayLineCount <= in.OverviewLinesOnScreen {
		return Result{Reason: ReasonFits}
	}
	primaryRange := in.DisplayLineCount - in.PrimaryLinesOnScreen
	if primaryRange <= 0 {
		return Result{Reason: ReasonDegenerate}
	}

	percent := float64(in.PrimaryFirstVisibleLine) / float64(primaryRange)
	overviewRange := in.DisplayLineCount - in.OverviewLinesOnScreen
	target := int(percent * float64(overviewRange))

	return Result{
		TargetLine: target,
		Delta:      target - in.OverviewFirstVisibleLine - 1,
		Scroll:     true,
	}
}
