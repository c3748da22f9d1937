package minimap

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/JoeRobich/fd-editorminimap/internal/overview"
)

const brailleBase = 0x2800

// brailleDots[row][col] is the dot bit for a character at col of the line
// at row within a 2x4 braille cell.
var brailleDots = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// plainLine expands tabs and replaces control characters so a line can be
// drawn one character per cell.
func plainLine(s string, tabWidth int) string {
	var b strings.Builder
	col := 0
	for _, r := range s {
		switch {
		case r == '\t':
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
		case unicode.IsControl(r):
			b.WriteByte('?')
			col++
		default:
			b.WriteRune(r)
			col += runewidth.RuneWidth(r)
		}
	}
	return b.String()
}

// occupancy reports, per display column, whether the line draws ink there.
// Wide graphemes fill every column they cover.
func occupancy(s string, tabWidth int) []bool {
	var out []bool
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		str := g.Str()
		switch {
		case str == "\t":
			n := tabWidth - len(out)%tabWidth
			out = append(out, make([]bool, n)...)
		case strings.TrimSpace(str) == "":
			out = append(out, make([]bool, max(1, g.Width()))...)
		default:
			for range max(1, g.Width()) {
				out = append(out, true)
			}
		}
	}
	return out
}

func inked(occ []bool, col int) bool {
	return col >= 0 && col < len(occ) && occ[col]
}

// renderRowText draws the lines packed into one overview row as cols cells.
func renderRowText(lines []string, d overview.Density, cols, tabWidth int) string {
	if cols <= 0 {
		return ""
	}
	tabWidth = max(1, tabWidth)

	switch d.LinesPerRow {
	case 1:
		if len(lines) == 0 {
			return strings.Repeat(" ", cols)
		}
		text := runewidth.Truncate(plainLine(lines[0], tabWidth), cols, "")
		return runewidth.FillRight(text, cols)

	case 2:
		occ := occupancies(lines, 2, tabWidth)
		var b strings.Builder
		for c := 0; c < cols; c++ {
			top, bottom := inked(occ[0], c), inked(occ[1], c)
			switch {
			case top && bottom:
				b.WriteString("█")
			case top:
				b.WriteString("▀")
			case bottom:
				b.WriteString("▄")
			default:
				b.WriteByte(' ')
			}
		}
		return b.String()

	default:
		occ := occupancies(lines, 4, tabWidth)
		perCell := max(1, d.CharsPerCell)
		var b strings.Builder
		for c := 0; c < cols; c++ {
			var dots rune
			for row := 0; row < 4; row++ {
				for k := 0; k < min(perCell, 2); k++ {
					if inked(occ[row], c*perCell+k) {
						dots |= brailleDots[row][k]
					}
				}
			}
			if dots == 0 {
				b.WriteByte(' ')
			} else {
				b.WriteRune(brailleBase + dots)
			}
		}
		return b.String()
	}
}

func occupancies(lines []string, n, tabWidth int) [][]bool {
	out := make([][]bool, n)
	for i := 0; i < n && i < len(lines); i++ {
		out[i] = occupancy(lines[i], tabWidth)
	}
	return out
}
