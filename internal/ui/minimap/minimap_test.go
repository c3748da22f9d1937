package minimap

import (
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"

	"github.com/JoeRobich/fd-editorminimap/internal/engine"
	"github.com/JoeRobich/fd-editorminimap/internal/highlight"
	"github.com/JoeRobich/fd-editorminimap/internal/interaction"
	"github.com/JoeRobich/fd-editorminimap/internal/surface"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

type fontSizes map[string]int

func (f fontSizes) DefaultFontSize(id string) (int, bool) {
	size, ok := f[id]
	return size, ok
}

func numbered(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "line"
	}
	return strings.Join(parts, "\n")
}

func settings(mut func(*engine.Settings)) engine.SettingsFunc {
	return func() engine.Settings {
		s := engine.Settings{
			Visible:        true,
			MaxLineLimit:   1000,
			TargetFontSize: 10,
			Interaction:    interaction.Settings{PreviewEnabled: true},
		}
		if mut != nil {
			mut(&s)
		}
		return s
	}
}

func newMinimap(t *testing.T, id string, lines int, mut func(*engine.Settings)) (*Model, *surface.Buffer) {
	t.Helper()
	primary := surface.NewBuffer(numbered(lines))
	primary.SetLanguageID("go")
	primary.SetLinesOnScreen(10)

	m := New(primary, settings(mut), Options{
		ZoneID:     id,
		Palette:    highlight.NewPalette(highlight.MustParseColor("#D3D3D360"), highlight.MustParseColor("#ADD8E660"), nil),
		HoverDelay: time.Millisecond,
	}, engine.WithLanguages(fontSizes{"go": 10}))
	m.SetBounds(interaction.Rect{X: 0, Y: 0, Width: 20, Height: 30}, 100, 30)
	return m, primary
}

// render draws the minimap and waits until bubblezone has registered it.
func render(t *testing.T, m *Model) []string {
	t.Helper()
	var view string
	for retries := 0; retries < 10; retries++ {
		view = zone.Scan(m.View())
		if z := zone.Get(m.ZoneID()); z != nil && !z.IsZero() {
			break
		}
		// Zone registration is asynchronous.
		time.Sleep(time.Millisecond)
	}
	return strings.Split(view, "\n")
}

func TestView_MarksVisibleRange(t *testing.T) {
	m, _ := newMinimap(t, "mm-range", 100, nil)

	rows := render(t, m)
	require.Len(t, rows, 30)
	for i, r := range rows {
		require.Equal(t, 20, ansi.StringWidth(r), "row %d", i)
	}
	require.True(t, strings.HasPrefix(rows[0], asciiMarker+"line"))
	require.True(t, strings.HasPrefix(rows[9], asciiMarker))
	require.True(t, strings.HasPrefix(rows[10], " line"))
}

func TestView_FollowsPrimaryScroll(t *testing.T) {
	m, primary := newMinimap(t, "mm-follow", 100, nil)

	// 109 overview lines (text plus padding) on 30 rows: primary line 5 of
	// 99 maps to overview line 3, shown one line below the top.
	primary.ScrollTo(5)
	require.Equal(t, 2, m.Engine().Overview().FirstVisibleLine())

	rows := render(t, m)
	require.True(t, strings.HasPrefix(rows[2], " "))
	require.True(t, strings.HasPrefix(rows[3], asciiMarker))
	require.True(t, strings.HasPrefix(rows[12], asciiMarker))
	require.True(t, strings.HasPrefix(rows[13], " "))
}

func TestView_BrailleAtSmallFont(t *testing.T) {
	m, _ := newMinimap(t, "mm-braille", 100, func(s *engine.Settings) { s.TargetFontSize = 2 })

	require.Equal(t, 4, m.Engine().Overview().Density().LinesPerRow)
	rows := render(t, m)
	require.Contains(t, rows[0], "⣿")
}

func TestView_HiddenDrawsNothing(t *testing.T) {
	m, _ := newMinimap(t, "mm-hidden", 100, func(s *engine.Settings) { s.Visible = false })

	require.False(t, m.Visible())
	require.Empty(t, m.View())
}

func TestTick_ReschedulesForOwnZone(t *testing.T) {
	m, _ := newMinimap(t, "mm-tick", 100, nil)

	require.NotNil(t, m.Init())
	require.NotNil(t, m.Update(TickMsg{ID: m.Engine().ID()}))
	require.Nil(t, m.Update(TickMsg{ID: "other"}), "ticks of a replaced engine are dropped")
}

func TestTick_ReportsDisabledOnce(t *testing.T) {
	m, _ := newMinimap(t, "mm-disabled", 100, func(s *engine.Settings) { s.MaxLineLimit = 50 })
	require.Equal(t, engine.StateDisabled, m.Engine().State())

	cmd := m.Update(TickMsg{ID: m.Engine().ID()})
	require.NotNil(t, cmd)
	msg, ok := cmd().(DisabledMsg)
	require.True(t, ok)
	require.Equal(t, "mm-disabled", msg.ZoneID)
	require.ErrorIs(t, msg.Err, engine.ErrDisabled)

	require.Nil(t, m.Update(TickMsg{ID: m.Engine().ID()}), "timer stops once disabled")
	require.Empty(t, m.View())
}

func TestFocus(t *testing.T) {
	m, _ := newMinimap(t, "mm-focus", 100, nil)
	require.True(t, m.Active(), "active until told otherwise")

	m.Update(tea.BlurMsg{})
	require.False(t, m.Active())
	m.Update(tea.FocusMsg{})
	require.True(t, m.Active())
}

func TestMouse_ClickCentresPrimary(t *testing.T) {
	m, primary := newMinimap(t, "mm-click", 100, nil)
	render(t, m)

	m.Update(tea.MouseMsg{X: 3, Y: 25, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	m.Update(tea.MouseMsg{X: 3, Y: 25, Button: tea.MouseButtonNone, Action: tea.MouseActionRelease})

	require.Equal(t, 20, primary.FirstVisibleLine())
	require.Equal(t, interaction.ButtonNone, m.Engine().Controller().Pressed())
}

func TestMouse_DragScrollsPrimary(t *testing.T) {
	m, primary := newMinimap(t, "mm-drag", 100, nil)
	render(t, m)

	m.Update(tea.MouseMsg{X: 3, Y: 2, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	m.Update(tea.MouseMsg{X: 3, Y: 20, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion})
	require.Equal(t, 15, primary.FirstVisibleLine())

	m.Update(tea.MouseMsg{X: 3, Y: 28, Button: tea.MouseButtonNone, Action: tea.MouseActionRelease})
	require.Equal(t, 15, primary.FirstVisibleLine(), "release after a drag does not click")
}

func TestMouse_WheelScrollsOverview(t *testing.T) {
	m, _ := newMinimap(t, "mm-wheel", 100, nil)
	render(t, m)

	m.Update(tea.MouseMsg{X: 3, Y: 5, Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	require.Equal(t, 3, m.Engine().Overview().FirstVisibleLine())

	m.Update(tea.MouseMsg{X: 3, Y: 5, Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	require.Equal(t, 0, m.Engine().Overview().FirstVisibleLine())
}

func TestMouse_HoverOpensPreview(t *testing.T) {
	m, _ := newMinimap(t, "mm-hover", 100, nil)
	render(t, m)

	cmd := m.Update(tea.MouseMsg{X: 3, Y: 12, Action: tea.MouseActionMotion})
	require.NotNil(t, cmd)
	m.Update(cmd())

	p := m.Engine().Controller().Preview()
	require.NotNil(t, p)
	require.Equal(t, 12, p.Line)

	m.Update(tea.MouseMsg{X: 50, Y: 12, Action: tea.MouseActionMotion})
	require.Nil(t, m.Engine().Controller().Preview(), "leaving the overview closes the preview")
}

func TestMouse_StaleHoverIgnored(t *testing.T) {
	m, _ := newMinimap(t, "mm-stale", 100, nil)
	render(t, m)

	first := m.Update(tea.MouseMsg{X: 3, Y: 12, Action: tea.MouseActionMotion})
	m.Update(tea.MouseMsg{X: 3, Y: 14, Action: tea.MouseActionMotion})
	m.Update(first())

	require.Nil(t, m.Engine().Controller().Preview())
}

func TestMouse_NoPreviewWhenBlurred(t *testing.T) {
	m, _ := newMinimap(t, "mm-blurred", 100, nil)
	render(t, m)
	m.Update(tea.BlurMsg{})

	cmd := m.Update(tea.MouseMsg{X: 3, Y: 12, Action: tea.MouseActionMotion})
	m.Update(cmd())

	require.Nil(t, m.Engine().Controller().Preview())
}
