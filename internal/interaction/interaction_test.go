package interaction

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/JoeRobich/fd-editorminimap/internal/overview"
	"github.com/JoeRobich/fd-editorminimap/internal/surface"
)

func numbered(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "line"
	}
	return strings.Join(parts, "\n")
}

// fakeNavigator drives one or two Buffers and records navigation.
type fakeNavigator struct {
	views     map[Button]*surface.Buffer
	centers   map[Button]int
	navigated []Button
}

func newFakeNavigator(views ...*surface.Buffer) *fakeNavigator {
	n := &fakeNavigator{
		views:   map[Button]*surface.Buffer{},
		centers: map[Button]int{ButtonLeft: -1, ButtonRight: -1},
	}
	for i, v := range views {
		n.views[Button(i+1)] = v
	}
	return n
}

func (n *fakeNavigator) Viewport(b Button) (surface.Viewport, bool) {
	v, ok := n.views[b]
	if !ok {
		return nil, false
	}
	return v, true
}

func (n *fakeNavigator) LastCenterLine(b Button) int { return n.centers[b] }

func (n *fakeNavigator) Navigated(b Button, line int) {
	n.centers[b] = line
	n.navigated = append(n.navigated, b)
}

func setup(t *testing.T, docLines, screen int) (*Controller, *surface.Buffer, *overview.Overview, *fakeNavigator) {
	t.Helper()
	primary := surface.NewBuffer(numbered(docLines))
	primary.SetLinesOnScreen(screen)

	ov := overview.New()
	ov.SetText(numbered(docLines))
	ov.Resize(20, docLines)

	nav := newFakeNavigator(primary)
	c := NewController(ov, nav, nil, Settings{PreviewEnabled: true})
	return c, primary, ov, nav
}

// ============================================================================
// Click and drag
// ============================================================================

func TestController_ClickCentresPrimary(t *testing.T) {
	c, primary, _, nav := setup(t, 200, 30)

	c.MouseDown(ButtonLeft, 3, 50)
	c.MouseUp(ButtonLeft, 3, 50)
	require.True(t, c.Click(ButtonLeft, 3, 50))

	require.Equal(t, CenterFirstLine(50, 30, 200), primary.FirstVisibleLine())
	require.Equal(t, 35, primary.FirstVisibleLine())
	require.Equal(t, 50, nav.LastCenterLine(ButtonLeft))
}

func TestController_ClickOnSameCentreIsNoop(t *testing.T) {
	c, _, _, nav := setup(t, 200, 30)

	require.True(t, c.Click(ButtonLeft, 0, 50))
	require.False(t, c.Click(ButtonLeft, 0, 50))
	require.Len(t, nav.navigated, 1)
}

func TestController_ClickAfterDragDoesNotNavigate(t *testing.T) {
	c, primary, _, nav := setup(t, 200, 30)

	c.MouseDown(ButtonLeft, 0, 40)
	c.MouseMove(0, 60)
	require.Equal(t, 45, primary.FirstVisibleLine(), "drag navigates")
	c.MouseUp(ButtonLeft, 0, 60)

	require.False(t, c.Click(ButtonLeft, 0, 80))
	require.Len(t, nav.navigated, 1)
	require.Equal(t, ButtonNone, c.Pressed())
}

func TestController_MoveWithoutButtonDoesNotNavigate(t *testing.T) {
	c, primary, _, _ := setup(t, 200, 30)
	c.MouseMove(0, 100)
	require.Equal(t, 0, primary.FirstVisibleLine())
}

func TestController_RightButtonDrivesSecondViewport(t *testing.T) {
	c, primary, _, nav := setup(t, 200, 30)
	second := surface.NewBuffer(numbered(200))
	second.SetLinesOnScreen(20)
	nav.views[ButtonRight] = second

	require.True(t, c.Click(ButtonRight, 0, 100))
	require.Equal(t, 90, second.FirstVisibleLine())
	require.Equal(t, 0, primary.FirstVisibleLine())
}

func TestController_RightButtonWithoutSplitIgnored(t *testing.T) {
	c, primary, _, nav := setup(t, 200, 30)

	require.False(t, c.Click(ButtonRight, 0, 100))
	require.Equal(t, 0, primary.FirstVisibleLine())
	require.Empty(t, nav.navigated)
}

func TestController_FoldedPrimaryScrollsToVisualLine(t *testing.T) {
	c, primary, _, _ := setup(t, 200, 30)
	primary.HideLines(10, 19)

	require.True(t, c.Click(ButtonLeft, 0, 50))
	// Document line 35 is visual line 25 once ten lines are folded away.
	require.Equal(t, 25, primary.FirstVisibleLine())
}

// reentrantNavigator clicks again from inside Navigated.
type reentrantNavigator struct {
	*fakeNavigator
	c     *Controller
	inner bool
}

func (r *reentrantNavigator) Navigated(b Button, line int) {
	r.fakeNavigator.Navigated(b, line)
	r.inner = r.c.Click(b, 0, line+40)
}

func TestController_NavigationGuard(t *testing.T) {
	primary := surface.NewBuffer(numbered(200))
	primary.SetLinesOnScreen(30)
	ov := overview.New()
	ov.SetText(numbered(200))
	ov.Resize(20, 200)

	nav := &reentrantNavigator{fakeNavigator: newFakeNavigator(primary)}
	c := NewController(ov, nav, nil, Settings{})
	nav.c = c

	require.True(t, c.Click(ButtonLeft, 0, 50))
	require.False(t, nav.inner, "pointer events during navigation are dropped")
	require.Equal(t, 35, primary.FirstVisibleLine())
}

func TestCenterFirstLine(t *testing.T) {
	require.Equal(t, 35, CenterFirstLine(50, 30, 200))
	require.Equal(t, 0, CenterFirstLine(5, 30, 200))
	require.Equal(t, 171, CenterFirstLine(199, 30, 200))
	require.Equal(t, 0, CenterFirstLine(5, 30, 10))
}

func TestProperty_CenterFirstLineClamped(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 2000).Draw(rt, "lineCount")
		lines := rapid.IntRange(1, 200).Draw(rt, "lines")
		center := rapid.IntRange(0, count-1).Draw(rt, "center")

		first := CenterFirstLine(center, lines, count)
		require.GreaterOrEqual(t, first, 0)
		if count-lines+1 >= 0 {
			require.LessOrEqual(t, first, count-lines+1)
		}
		if center-lines/2 >= 0 && center-lines/2 <= count-lines+1 {
			require.Equal(t, center-lines/2, first)
		}
	})
}

// ============================================================================
// Wheel and polling
// ============================================================================

func TestController_WheelScrollsOverview(t *testing.T) {
	c, _, ov, _ := setup(t, 200, 30)
	ov.Resize(20, 40)

	c.Wheel(-WheelNotch)
	require.Equal(t, 3, ov.FirstVisibleLine())
	c.Wheel(WheelNotch)
	require.Equal(t, 0, ov.FirstVisibleLine())
	c.Wheel(10)
	require.Equal(t, 0, ov.FirstVisibleLine())
}

func TestController_PollDragsWhileHeld(t *testing.T) {
	c, primary, _, nav := setup(t, 200, 30)

	require.False(t, c.Poll(PointerState{X: 0, Y: 50, Left: false, Inside: true}))
	require.True(t, c.Poll(PointerState{X: 0, Y: 50, Left: true, Inside: true}))
	require.Equal(t, 35, primary.FirstVisibleLine())

	require.False(t, c.Poll(PointerState{X: 0, Y: 50, Left: true, Inside: true}), "unchanged position")
	require.False(t, c.Poll(PointerState{X: 0, Y: 70, Left: true, Inside: false}), "outside")
	require.True(t, c.Poll(PointerState{X: 0, Y: 70, Left: true, Inside: true}))
	require.Len(t, nav.navigated, 2)
}

// ============================================================================
// Preview
// ============================================================================

func TestController_HoverOpensPreview(t *testing.T) {
	c, _, _, _ := setup(t, 200, 30)
	c.SetLayout(Layout{
		Bounds:       Rect{X: 100, Y: 0, Width: 20, Height: 50},
		ScreenWidth:  120,
		ScreenHeight: 50,
		Side:         overview.SideRight,
	})

	require.True(t, c.Hover(4, 25))
	p := c.Preview()
	require.NotNil(t, p)
	require.Equal(t, 25, p.Line)
	require.Equal(t, 100-DefaultPreviewWidth, p.X, "opens on the side opposite the dock edge")
	require.Equal(t, 25-DefaultPreviewHeight/2, p.Y)
	require.Equal(t, 25-DefaultPreviewHeight/2, p.First)
	require.Len(t, p.Lines, DefaultPreviewHeight)

	require.False(t, c.Hover(4, 30), "only one preview at a time")
}

func TestController_HoverLeftDock(t *testing.T) {
	c, _, _, _ := setup(t, 200, 30)
	c.SetLayout(Layout{Bounds: Rect{X: 0, Width: 20, Height: 50}, ScreenHeight: 50, Side: overview.SideLeft})

	require.True(t, c.Hover(4, 2))
	require.Equal(t, 20, c.Preview().X)
	require.Equal(t, 0, c.Preview().Y, "clamped to the screen")
}

func TestController_HoverConditions(t *testing.T) {
	c, _, _, _ := setup(t, 200, 30)

	active := false
	c.probe = ActivityFunc(func() bool { return active })
	require.False(t, c.Hover(1, 1), "inactive host")

	active = true
	c.MouseDown(ButtonLeft, 1, 1)
	require.False(t, c.Hover(1, 1), "button held")
	c.MouseUp(ButtonLeft, 1, 1)

	c.SetSettings(Settings{PreviewEnabled: false})
	require.False(t, c.Hover(1, 1), "disabled")

	c.SetSettings(Settings{PreviewEnabled: true})
	require.True(t, c.Hover(1, 1))
}

func TestController_PreviewFollowsAndCloses(t *testing.T) {
	c, _, _, _ := setup(t, 200, 30)
	c.SetLayout(Layout{Bounds: Rect{X: 100, Width: 20, Height: 100}, ScreenHeight: 100})

	require.True(t, c.Hover(5, 40))
	c.MouseMove(6, 60)
	require.NotNil(t, c.Preview())
	require.Equal(t, 60, c.Preview().Line, "re-centres on motion")

	c.MouseMove(5+DefaultPreviewDismissDistance+1, 60)
	require.Nil(t, c.Preview(), "moved away sideways")

	require.True(t, c.Hover(5, 40))
	c.Leave()
	require.Nil(t, c.Preview())

	require.True(t, c.Hover(5, 40))
	c.MouseDown(ButtonLeft, 5, 40)
	require.Nil(t, c.Preview())
	c.MouseUp(ButtonLeft, 5, 40)

	require.True(t, c.Hover(5, 40))
	c.SetSettings(Settings{PreviewEnabled: false})
	require.Nil(t, c.Preview())
}

func TestPreviewLines_TrimsCommonIndent(t *testing.T) {
	lines := []string{
		"        func a() {",
		"            return",
		"",
		"        }",
	}
	got := PreviewLines(lines, 1, 4, 4)
	require.Equal(t, []string{
		"  func a() {",
		"      return",
		"",
		"  }",
	}, got)
}

func TestPreviewLines_ExpandsTabs(t *testing.T) {
	got := PreviewLines([]string{"\t\tx", "\t\t\ty"}, 0, 2, 4)
	require.Equal(t, []string{"  x", "      y"}, got)
}

func TestPreviewLines_TabStopsAfterWideRunes(t *testing.T) {
	got := PreviewLines([]string{"\t\t中\tx", "\t\t\ty"}, 0, 2, 4)
	require.Equal(t, []string{"  中  x", "      y"}, got)
}

func TestPreviewLines_ShallowIndentUntouched(t *testing.T) {
	got := PreviewLines([]string{" a", "b"}, 0, 5, 4)
	require.Equal(t, []string{" a", "b"}, got)
}

func TestPreviewLines_CentredWindow(t *testing.T) {
	src := make([]string, 100)
	for i := range src {
		src[i] = strings.Repeat("x", i%5+1)
	}
	got := PreviewLines(src, 50, 10, 4)
	require.Len(t, got, 10)
	require.Equal(t, src[45], got[0])
}
