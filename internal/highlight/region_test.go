package highlight

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// offsetTranslator maps visual line v to document line v+skip for v >= at.
type offsetTranslator struct{ at, skip int }

func (o offsetTranslator) DocLineFromVisible(v int) int {
	if v >= o.at {
		return v + o.skip
	}
	return v
}

func TestRangeFor_TranslatesThroughFolds(t *testing.T) {
	r := RangeFor(offsetTranslator{at: 15, skip: 5}, 10, 10)
	require.Equal(t, LineRange{Start: 10, End: 25}, r)
}

func TestSingle(t *testing.T) {
	require.Equal(t, []Region{{Start: 3, End: 9, Class: Primary}}, Single(LineRange{3, 9}))
	require.Nil(t, Single(LineRange{4, 4}))
}

func TestSplit_PartialOverlap(t *testing.T) {
	got := Split(LineRange{10, 20}, LineRange{15, 25})
	require.Equal(t, []Region{
		{Start: 10, End: 15, Class: Primary},
		{Start: 15, End: 20, Class: Overlap},
		{Start: 20, End: 25, Class: Secondary},
	}, got)
}

func TestSplit_SecondaryFirst(t *testing.T) {
	got := Split(LineRange{15, 25}, LineRange{10, 20})
	require.Equal(t, []Region{
		{Start: 10, End: 15, Class: Secondary},
		{Start: 15, End: 20, Class: Overlap},
		{Start: 20, End: 25, Class: Primary},
	}, got)
}

func TestSplit_Disjoint(t *testing.T) {
	got := Split(LineRange{30, 40}, LineRange{0, 10})
	require.Equal(t, []Region{
		{Start: 0, End: 10, Class: Secondary},
		{Start: 30, End: 40, Class: Primary},
	}, got)
}

func TestSplit_Contained(t *testing.T) {
	got := Split(LineRange{0, 30}, LineRange{10, 20})
	require.Equal(t, []Region{
		{Start: 0, End: 10, Class: Primary},
		{Start: 10, End: 20, Class: Overlap},
		{Start: 20, End: 30, Class: Primary},
	}, got)
}

func TestSplit_Identical(t *testing.T) {
	got := Split(LineRange{5, 8}, LineRange{5, 8})
	require.Equal(t, []Region{{Start: 5, End: 8, Class: Overlap}}, got)
}

func TestSet_ApplyClearsPrevious(t *testing.T) {
	var s Set
	require.True(t, s.Apply(Single(LineRange{0, 10})))
	require.True(t, s.Apply(Single(LineRange{20, 30})))

	_, ok := s.ClassAt(5)
	require.False(t, ok, "old region must not accumulate")
	c, ok := s.ClassAt(25)
	require.True(t, ok)
	require.Equal(t, Primary, c)

	require.False(t, s.Apply(Single(LineRange{20, 30})), "same regions report no change")
}

func TestSet_OverlapWins(t *testing.T) {
	var s Set
	s.Apply([]Region{
		{Start: 0, End: 10, Class: Primary},
		{Start: 5, End: 8, Class: Overlap},
		{Start: 0, End: 10, Class: Secondary},
	})
	c, ok := s.ClassAt(6)
	require.True(t, ok)
	require.Equal(t, Overlap, c)

	c, _ = s.ClassAt(2)
	require.Equal(t, Primary, c)
}

func TestSet_Clear(t *testing.T) {
	var s Set
	s.Apply(Single(LineRange{0, 3}))
	s.Clear()
	require.Empty(t, s.Regions())
}

func TestProperty_SplitPartitionsUnion(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		as := rapid.IntRange(0, 100).Draw(rt, "aStart")
		a := LineRange{as, as + rapid.IntRange(0, 50).Draw(rt, "aLen")}
		bs := rapid.IntRange(0, 100).Draw(rt, "bStart")
		b := LineRange{bs, bs + rapid.IntRange(0, 50).Draw(rt, "bLen")}

		regions := Split(a, b)
		for i := 1; i < len(regions); i++ {
			require.LessOrEqual(t, regions[i-1].End, regions[i].Start, "regions sorted and disjoint")
		}

		var s Set
		s.Apply(regions)
		for line := 0; line < 160; line++ {
			inA, inB := a.Contains(line), b.Contains(line)
			c, ok := s.ClassAt(line)
			switch {
			case inA && inB:
				require.Equal(t, Overlap, c)
			case inA:
				require.Equal(t, Primary, c)
			case inB:
				require.Equal(t, Secondary, c)
			default:
				require.False(t, ok)
			}
		}
	})
}
