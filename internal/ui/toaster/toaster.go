// Package toaster shows short-lived notices in the bottom right corner:
// reloads, visibility changes, and the minimap disabling itself.
package toaster

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/JoeRobich/fd-editorminimap/internal/ui/overlay"
	"github.com/JoeRobich/fd-editorminimap/internal/ui/styles"
)

// Style determines the border colour of the toast.
type Style int

const (
	StyleInfo Style = iota
	StyleWarn
	StyleError
)

// DefaultDuration is how long a toast stays up.
const DefaultDuration = 3 * time.Second

// Model holds the toaster state.
type Model struct {
	message string
	style   Style
	seq     int
}

// New creates a new toaster model.
func New() Model {
	return Model{}
}

// Show displays message and returns the command that dismisses it after d.
// A newer toast is not dismissed by an older toast's timer.
func (m Model) Show(message string, style Style, d time.Duration) (Model, tea.Cmd) {
	m.message = message
	m.style = style
	m.seq++
	seq := m.seq
	return m, tea.Tick(d, func(time.Time) tea.Msg {
		return DismissMsg{Seq: seq}
	})
}

// Update handles DismissMsg.
func (m Model) Update(msg tea.Msg) Model {
	if d, ok := msg.(DismissMsg); ok && d.Seq == m.seq {
		m.message = ""
	}
	return m
}

// Visible returns whether a toast is showing.
func (m Model) Visible() bool {
	return m.message != ""
}

// Message returns the current message.
func (m Model) Message() string {
	return m.message
}

// View renders the toast box, or "" when hidden.
func (m Model) View() string {
	if !m.Visible() {
		return ""
	}

	var color lipgloss.TerminalColor
	switch m.style {
	case StyleWarn:
		color = styles.NoticeWarnColor
	case StyleError:
		color = styles.NoticeErrorColor
	default:
		color = styles.NoticeInfoColor
	}

	return lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Foreground(styles.TextPrimaryColor).
		Render(m.message)
}

// Overlay draws the toast over bg.
func (m Model) Overlay(bg string, width, height int) string {
	if !m.Visible() {
		return bg
	}
	return overlay.Place(overlay.Config{
		Width:    width,
		Height:   height,
		Position: overlay.BottomRight,
		PadX:     1,
		PadY:     1,
	}, m.View(), bg)
}

// DismissMsg hides the toast shown with sequence number Seq.
type DismissMsg struct {
	Seq int
}
