package editor

import "strings"

// indentWidth returns the width of line's leading whitespace with tabs
// expanded, and whether the line is blank.
func indentWidth(line string, tabWidth int) (int, bool) {
	w := 0
	for _, r := range line {
		switch r {
		case ' ':
			w++
		case '\t':
			w += tabWidth - w%tabWidth
		default:
			return w, false
		}
	}
	return w, true
}

// FoldRange returns the body of the indentation block headed by lines[line]:
// the following lines indented deeper than the header. Blank lines inside the
// block belong to it, trailing blank lines do not. ok is false when the line
// heads no block.
func FoldRange(lines []string, line, tabWidth int) (from, to int, ok bool) {
	if line < 0 || line >= len(lines) {
		return 0, 0, false
	}
	if tabWidth <= 0 {
		tabWidth = 1
	}
	head, blank := indentWidth(lines[line], tabWidth)
	if blank {
		return 0, 0, false
	}

	to = line
	for j := line + 1; j < len(lines); j++ {
		w, blank := indentWidth(lines[j], tabWidth)
		if blank {
			continue
		}
		if w <= head {
			break
		}
		to = j
	}
	if to == line {
		return 0, 0, false
	}
	return line + 1, to, true
}

// splitText splits text the way surface.Buffer does.
func splitText(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
