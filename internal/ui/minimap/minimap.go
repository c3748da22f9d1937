// Package minimap is the Bubble Tea component that draws the overview and
// feeds pointer input, focus and the refresh timer to its engine.
package minimap

import (
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"

	"github.com/JoeRobich/fd-editorminimap/internal/engine"
	"github.com/JoeRobich/fd-editorminimap/internal/highlight"
	"github.com/JoeRobich/fd-editorminimap/internal/interaction"
	"github.com/JoeRobich/fd-editorminimap/internal/log"
	"github.com/JoeRobich/fd-editorminimap/internal/overview"
	"github.com/JoeRobich/fd-editorminimap/internal/ui/styles"
)

// Defaults for Options.
const (
	DefaultUpdateInterval = 100 * time.Millisecond
	DefaultHoverDelay     = 500 * time.Millisecond
)

// TickMsg drives the fixed-interval refresh of the engine with the given id.
type TickMsg struct {
	ID string
}

// DisabledMsg is sent once when the engine turns itself off.
type DisabledMsg struct {
	ZoneID string
	Err    error
}

const asciiMarker = "┃"

type hoverMsg struct {
	zoneID string
	seq    int
	x, y   int
}

// Options configure a minimap.
type Options struct {
	ZoneID         string
	Palette        highlight.Palette
	Side           overview.Side
	UpdateInterval time.Duration
	HoverDelay     time.Duration
}

// Model owns an engine and its overview. It is the engine's activity probe:
// the preview only opens while the terminal has focus.
type Model struct {
	eng      *engine.Engine
	zoneID   string
	palette  highlight.Palette
	interval time.Duration
	delay    time.Duration

	active   bool
	inside   bool
	hoverSeq int
	notified bool
	bounds   interaction.Rect
}

// New creates a minimap following primary.
func New(primary engine.Primary, settings engine.SettingsProvider, opts Options, engineOpts ...engine.Option) *Model {
	if opts.UpdateInterval <= 0 {
		opts.UpdateInterval = DefaultUpdateInterval
	}
	if opts.HoverDelay <= 0 {
		opts.HoverDelay = DefaultHoverDelay
	}
	m := &Model{
		zoneID:   opts.ZoneID,
		palette:  opts.Palette,
		interval: opts.UpdateInterval,
		delay:    opts.HoverDelay,
		active:   true,
	}
	ov := overview.New()
	ov.SetSide(opts.Side)
	engineOpts = append(engineOpts, engine.WithActivityProbe(m))
	m.eng = engine.New(primary, ov, settings, engineOpts...)
	return m
}

// Engine returns the engine behind the minimap.
func (m *Model) Engine() *engine.Engine { return m.eng }

// ZoneID returns the bubblezone id wrapping the overview.
func (m *Model) ZoneID() string { return m.zoneID }

// Active reports whether the terminal has focus.
func (m *Model) Active() bool { return m.active }

// Visible reports whether the overview is being drawn.
func (m *Model) Visible() bool { return m.eng.State() == engine.StateVisible }

// SetPalette replaces the highlight colours.
func (m *Model) SetPalette(p highlight.Palette) { m.palette = p }

// SetUpdateInterval changes the refresh timer period from the next tick on.
func (m *Model) SetUpdateInterval(d time.Duration) {
	if d > 0 {
		m.interval = d
	}
}

// SetSide docks the overview on the given edge.
func (m *Model) SetSide(side overview.Side) { m.eng.Overview().SetSide(side) }

// SetBounds places the overview on a screen of screenW by screenH cells,
// resizing it and refreshing the engine.
func (m *Model) SetBounds(bounds interaction.Rect, screenW, screenH int) {
	m.bounds = bounds
	ov := m.eng.Overview()
	ov.Resize(bounds.Width, bounds.Height)
	m.eng.Controller().SetLayout(interaction.Layout{
		Bounds:       bounds,
		ScreenWidth:  screenW,
		ScreenHeight: screenH,
		Side:         ov.Side(),
	})
	_ = m.eng.Refresh(true)
}

// Bounds returns where the overview sits on screen.
func (m *Model) Bounds() interaction.Rect { return m.bounds }

// Init starts the refresh timer.
func (m *Model) Init() tea.Cmd { return m.tick() }

func (m *Model) tick() tea.Cmd {
	id := m.eng.ID()
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return TickMsg{ID: id} })
}

// Update handles ticks, focus changes and mouse events.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case TickMsg:
		if msg.ID != m.eng.ID() {
			return nil
		}
		if err := m.eng.Tick(); errors.Is(err, engine.ErrDisabled) {
			return m.disabled(err)
		}
		return m.tick()

	case hoverMsg:
		if msg.zoneID == m.zoneID && msg.seq == m.hoverSeq && m.inside {
			m.eng.Controller().Hover(msg.x, msg.y)
		}
		return nil

	case tea.FocusMsg:
		m.active = true
	case tea.BlurMsg:
		m.active = false
		m.eng.Controller().ClosePreview()

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return nil
}

func (m *Model) disabled(err error) tea.Cmd {
	if m.notified {
		return nil
	}
	m.notified = true
	log.Warn(log.CatUI, "minimap disabled", "zone", m.zoneID)
	id := m.zoneID
	return func() tea.Msg { return DisabledMsg{ZoneID: id, Err: err} }
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if !m.Visible() {
		return nil
	}
	z := zone.Get(m.zoneID)
	if z == nil || z.IsZero() {
		return nil
	}
	c := m.eng.Controller()
	inside := z.InBounds(msg)
	x, y := msg.X-z.StartX, msg.Y-z.StartY

	switch msg.Action {
	case tea.MouseActionPress:
		if !inside {
			return nil
		}
		switch msg.Button {
		case tea.MouseButtonLeft:
			c.MouseDown(interaction.ButtonLeft, x, y)
		case tea.MouseButtonRight:
			c.MouseDown(interaction.ButtonRight, x, y)
		case tea.MouseButtonWheelUp:
			c.Wheel(interaction.WheelNotch)
		case tea.MouseButtonWheelDown:
			c.Wheel(-interaction.WheelNotch)
		}
		m.inside = true

	case tea.MouseActionRelease:
		// Terminals rarely report which button was released.
		if b := c.Pressed(); b != interaction.ButtonNone {
			c.MouseUp(b, x, y)
			if inside {
				c.Click(b, x, y)
			}
		}

	case tea.MouseActionMotion:
		if c.Pressed() != interaction.ButtonNone {
			c.MouseMove(x, y)
			return nil
		}
		if !inside {
			if m.inside {
				m.inside = false
				m.hoverSeq++
				c.Leave()
			}
			return nil
		}
		m.inside = true
		c.MouseMove(x, y)
		m.hoverSeq++
		hm := hoverMsg{zoneID: m.zoneID, seq: m.hoverSeq, x: x, y: y}
		return tea.Tick(m.delay, func(time.Time) tea.Msg { return hm })
	}
	return nil
}

// View draws the overview, or nothing while it is hidden or disabled.
func (m *Model) View() string {
	if !m.Visible() {
		return ""
	}
	ov := m.eng.Overview()
	cols, rows := ov.Cols(), ov.Rows()
	if cols <= 0 || rows <= 0 {
		return ""
	}

	bg := highlight.MustParseColor(styles.MinimapBackground())
	base := lipgloss.NewStyle().
		Foreground(styles.MinimapTextColor).
		Background(lipgloss.Color(bg.Hex()))

	// Without colours the highlighted rows are marked in the first column.
	ascii := lipgloss.ColorProfile() == termenv.Ascii
	textCols := cols
	if ascii {
		textCols--
	}

	density := ov.Density()
	tab := ov.TabWidth()
	out := make([]string, rows)
	for r, docLines := range ov.RowLines() {
		texts := make([]string, len(docLines))
		for i, l := range docLines {
			texts[i] = ov.Line(l)
		}
		text := renderRowText(texts, density, textCols, tab)

		class, ok := m.rowClass(docLines)
		switch {
		case ascii && ok:
			out[r] = asciiMarker + text
		case ascii:
			out[r] = " " + text
		case ok:
			fill := m.palette.For(class).Over(bg)
			out[r] = base.Background(lipgloss.Color(fill.Hex())).Render(text)
		default:
			out[r] = base.Render(text)
		}
	}
	return zone.Mark(m.zoneID, strings.Join(out, "\n"))
}

// rowClass returns the highlight class painted on a row that packs several
// document lines. Overlap wins over the other classes.
func (m *Model) rowClass(lines []int) (highlight.ColorClass, bool) {
	found := false
	var best highlight.ColorClass
	for _, l := range lines {
		c, ok := m.eng.ClassAt(l)
		if !ok {
			continue
		}
		if !found || c == highlight.Overlap {
			best = c
			found = true
		}
	}
	return best, found
}
