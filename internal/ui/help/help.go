// Package help contains the help overlay component.
package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/JoeRobich/fd-editorminimap/internal/keys"
	"github.com/JoeRobich/fd-editorminimap/internal/log"
	"github.com/JoeRobich/fd-editorminimap/internal/ui/overlay"
	"github.com/JoeRobich/fd-editorminimap/internal/ui/styles"
)

// noMarginStyle removes glamour's document margins so the box padding is
// the only spacing.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// contentWidth is the word wrap width of the help text.
const contentWidth = 56

var boxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(styles.OverlayBorderColor).
	Padding(0, 1)

// section is one group of bindings under a heading.
type section struct {
	title    string
	bindings []key.Binding
}

// Model is the help overlay.
type Model struct {
	keys   keys.KeyMap
	width  int
	height int
}

// New creates a help model for km.
func New(km keys.KeyMap) Model {
	return Model{keys: km}
}

// SetSize sets the screen size the overlay centres in.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// Markdown returns the help text as markdown.
func (m Model) Markdown() string {
	sections := []section{
		{"Scrolling", []key.Binding{m.keys.Up, m.keys.Down, m.keys.PageUp, m.keys.PageDown, m.keys.Top, m.keys.Bottom}},
		{"Folding", []key.Binding{m.keys.Fold, m.keys.UnfoldAll}},
		{"Minimap", []key.Binding{m.keys.ToggleMinimap, m.keys.ToggleSplit, m.keys.SwitchPane, m.keys.ZoomIn, m.keys.ZoomOut, m.keys.Reload}},
		{"General", []key.Binding{m.keys.Help, m.keys.Escape, m.keys.Quit}},
	}

	var b strings.Builder
	b.WriteString("# Keys\n")
	for _, s := range sections {
		fmt.Fprintf(&b, "\n## %s\n\n", s.title)
		for _, k := range s.bindings {
			h := k.Help()
			fmt.Fprintf(&b, "- `%s` %s\n", h.Key, h.Desc)
		}
	}
	b.WriteString("\n## Mouse\n\n")
	b.WriteString("- **click** the minimap to centre the view on that line\n")
	b.WriteString("- **drag** to scroll continuously, right button drives the split view\n")
	b.WriteString("- **hover** to preview the code under the pointer\n")
	b.WriteString("- **wheel** scrolls the minimap itself\n")
	return b.String()
}

// View renders the help box.
func (m Model) View() string {
	return boxStyle.Render(m.render())
}

// Overlay renders the help box centred on top of background.
func (m Model) Overlay(background string) string {
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, m.View(), background)
}

func (m Model) render() string {
	md := m.Markdown()
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(contentWidth),
	)
	if err != nil {
		log.ErrorErr(log.CatUI, "help renderer", err)
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		log.ErrorErr(log.CatUI, "rendering help", err)
		return md
	}
	return strings.Trim(out, "\n")
}
