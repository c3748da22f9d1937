package editor

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/JoeRobich/fd-editorminimap/internal/ui/styles"
)

// Scrollbar characters
const (
	scrollbarThumbChar = "█"
	scrollbarTrackChar = "░"
)

// thumbBounds returns the first row and height of the scroll thumb for a track
// of height rows showing visual lines [offset, offset+height) of total.
//
//	height = max(1, track*track/total)
//	start  = (track-height) * offset / (total-track)
func thumbBounds(total, track, offset int) (start, height int) {
	if total <= 0 || track <= 0 {
		return 0, 0
	}
	if total <= track {
		return 0, track
	}

	height = max(1, track*track/total)
	scrollable := track - height
	maxOffset := total - track
	if scrollable <= 0 {
		return 0, height
	}

	start = scrollable * offset / maxOffset
	return max(0, min(start, track-height)), height
}

// scrollbarRows renders one cell per row. When everything fits the column is
// blank.
func scrollbarRows(total, track, offset int) []string {
	rows := make([]string, max(0, track))
	if total <= track {
		for i := range rows {
			rows[i] = " "
		}
		return rows
	}

	thumbStyle := lipgloss.NewStyle().Foreground(styles.ScrollbarThumbColor)
	trackStyle := lipgloss.NewStyle().Foreground(styles.ScrollbarTrackColor)

	start, height := thumbBounds(total, track, offset)
	for i := range rows {
		if i >= start && i < start+height {
			rows[i] = thumbStyle.Render(scrollbarThumbChar)
		} else {
			rows[i] = trackStyle.Render(scrollbarTrackChar)
		}
	}
	return rows
}
