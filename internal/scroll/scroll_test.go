package scroll

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestMap_Proportional(t *testing.T) {
	r := Map(Input{
		DisplayLineCount:         1000,
		OverviewLinesOnScreen:    200,
		OverviewFirstVisibleLine: 0,
		PrimaryFirstVisibleLine:  485,
		PrimaryLinesOnScreen:     30,
	})

	// 485/970 = 0.5, 0.5*800 = 400
	require.True(t, r.Scroll)
	require.Equal(t, 400, r.TargetLine)
	require.Equal(t, 399, r.Delta)
	require.Equal(t, ReasonNone, r.Reason)
}

func TestMap_DeltaRelativeToOverviewFirst(t *testing.T) {
	r := Map(Input{
		DisplayLineCount:         1000,
		OverviewLinesOnScreen:    200,
		OverviewFirstVisibleLine: 450,
		PrimaryFirstVisibleLine:  485,
		PrimaryLinesOnScreen:     30,
	})
	require.Equal(t, 400-450-1, r.Delta)
}

func TestMap_OverviewFits(t *testing.T) {
	r := Map(Input{
		DisplayLineCount:        100,
		OverviewLinesOnScreen:   100,
		PrimaryFirstVisibleLine: 10,
		PrimaryLinesOnScreen:    30,
	})
	require.False(t, r.Scroll)
	require.Equal(t, ReasonFits, r.Reason)
}

func TestMap_DegeneratePrimary(t *testing.T) {
	r := Map(Input{
		DisplayLineCount:      100,
		OverviewLinesOnScreen: 20,
		PrimaryLinesOnScreen:  100,
	})
	require.False(t, r.Scroll)
	require.Equal(t, ReasonDegenerate, r.Reason)
}

func TestMap_Top(t *testing.T) {
	r := Map(Input{DisplayLineCount: 500, OverviewLinesOnScreen: 120, PrimaryLinesOnScreen: 40})
	require.True(t, r.Scroll)
	require.Equal(t, 0, r.TargetLine)
	require.Equal(t, -1, r.Delta)
}

// ============================================================================
// Property-Based Tests
// ============================================================================

func genInput(rt *rapid.T) Input {
	display := rapid.IntRange(2, 5000).Draw(rt, "display")
	overview := rapid.IntRange(1, display-1).Draw(rt, "overviewLines")
	primary := rapid.IntRange(1, display-1).Draw(rt, "primaryLines")
	return Input{
		DisplayLineCount:         display,
		OverviewLinesOnScreen:    overview,
		OverviewFirstVisibleLine: rapid.IntRange(0, display).Draw(rt, "overviewFirst"),
		PrimaryLinesOnScreen:     primary,
	}
}

func TestProperty_Monotonic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		in := genInput(rt)
		maxFirst := in.DisplayLineCount - in.PrimaryLinesOnScreen
		a := rapid.IntRange(0, maxFirst).Draw(rt, "a")
		b := rapid.IntRange(a, maxFirst).Draw(rt, "b")

		in.PrimaryFirstVisibleLine = a
		ra := Map(in)
		in.PrimaryFirstVisibleLine = b
		rb := Map(in)

		require.True(t, ra.Scroll)
		require.True(t, rb.Scroll)
		require.LessOrEqual(t, ra.TargetLine, rb.TargetLine)
	})
}

func TestProperty_Boundaries(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		in := genInput(rt)

		in.PrimaryFirstVisibleLine = 0
		require.Equal(t, 0, Map(in).TargetLine)

		in.PrimaryFirstVisibleLine = in.DisplayLineCount - in.PrimaryLinesOnScreen
		require.Equal(t, in.DisplayLineCount-in.OverviewLinesOnScreen, Map(in).TargetLine)
	})
}

func TestProperty_TargetWithinOverviewRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		in := genInput(rt)
		in.PrimaryFirstVisibleLine = rapid.IntRange(0, in.DisplayLineCount-in.PrimaryLinesOnScreen).Draw(rt, "first")

		r := Map(in)
		require.GreaterOrEqual(t, r.TargetLine, 0)
		require.LessOrEqual(t, r.TargetLine, in.DisplayLineCount-in.OverviewLinesOnScreen)
		require.Equal(t, r.TargetLine-in.OverviewFirstVisibleLine-1, r.Delta)
	})
}

func TestProperty_NoScrollWhenDocumentFits(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		display := rapid.IntRange(0, 500).Draw(rt, "display")
		r := Map(Input{
			DisplayLineCount:        display,
			OverviewLinesOnScreen:   rapid.IntRange(display, 1000).Draw(rt, "overviewLines"),
			PrimaryFirstVisibleLine: rapid.IntRange(0, 500).Draw(rt, "first"),
			PrimaryLinesOnScreen:    rapid.IntRange(0, 500).Draw(rt, "primaryLines"),
		})
		require.False(t, r.Scroll)
	})
}
