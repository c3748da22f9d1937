// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#1F1F1F", Dark: "#CCCCCC"}
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"}
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"}

	// Borders
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"}
	BorderFocusedColor = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}

	// Editor
	GutterColor         = lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#5A5A5A"}
	CursorLineBgColor   = lipgloss.AdaptiveColor{Light: "#ECECEC", Dark: "#2A2D2E"}
	FoldMarkerColor     = lipgloss.AdaptiveColor{Light: "#8839EF", Dark: "#CBA6F7"}
	ScrollbarThumbColor = lipgloss.AdaptiveColor{Light: "#888888", Dark: "#BBBBBB"}
	ScrollbarTrackColor = lipgloss.AdaptiveColor{Light: "#DDDDDD", Dark: "#3A3A3A"}

	// Minimap text. The background is a concrete hex colour because
	// translucent highlights are composited onto it.
	MinimapTextColor = lipgloss.AdaptiveColor{Light: "#7A7A7A", Dark: "#8C8C8C"}
	MinimapBgDark    = "#1E1E1E"
	MinimapBgLight   = "#F3F3F3"

	// Overlays
	OverlayTitleColor  = lipgloss.AdaptiveColor{Light: "#333333", Dark: "#C9C9C9"}
	OverlayBorderColor = lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#8C8C8C"}

	// Notices
	NoticeInfoColor  = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}
	NoticeWarnColor  = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
	NoticeErrorColor = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor).
			Padding(0, 1)

	StatusBarKeyStyle = lipgloss.NewStyle().
				Foreground(TextMutedColor)

	// Error display
	ErrorStyle = lipgloss.NewStyle().
			Foreground(NoticeErrorColor).
			Bold(true).
			Padding(1, 2)
)

// MinimapBackground returns the minimap's background for the terminal's
// current light/dark mode.
func MinimapBackground() string {
	if lipgloss.HasDarkBackground() {
		return MinimapBgDark
	}
	return MinimapBgLight
}
