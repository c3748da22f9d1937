package surface

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// ExpandTabs replaces tabs with spaces up to the next tab stop, counting
// display columns from col. Wide runes advance by their cell width so tab
// stops line up the way the terminal draws them. Non-positive tab widths use
// DefaultTabWidth.
func ExpandTabs(s string, tabWidth, col int) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}
	var b strings.Builder
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return b.String()
}
