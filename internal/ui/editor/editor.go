// Package editor is the read-only host view the minimap follows: a framed,
// syntax coloured, foldable text pane over a surface.Buffer.
package editor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromastyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"

	"github.com/JoeRobich/fd-editorminimap/internal/keys"
	"github.com/JoeRobich/fd-editorminimap/internal/language"
	"github.com/JoeRobich/fd-editorminimap/internal/log"
	"github.com/JoeRobich/fd-editorminimap/internal/pubsub"
	"github.com/JoeRobich/fd-editorminimap/internal/surface"
	"github.com/JoeRobich/fd-editorminimap/internal/ui/styles"
)

// wheelLines is how far one wheel notch scrolls the editor.
const wheelLines = 3

// Model is an editor pane. It embeds the buffer it displays, so it can be
// handed to the engine as a primary viewport.
type Model struct {
	*surface.Buffer

	zoneID      string
	keys        keys.KeyMap
	title       string
	width       int
	height      int
	focused     bool
	cursor      int
	lineNumbers bool
	scrollbar   bool

	lexer    chroma.Lexer
	style    *chroma.Style
	tokens   [][]chroma.Token
	stale    bool
	tokenSty map[chroma.TokenType]lipgloss.Style
	sub      pubsub.Subscription
}

// Options configure a new editor.
type Options struct {
	ZoneID      string
	Title       string
	Keys        keys.KeyMap
	LineNumbers bool
	SyntaxStyle string
}

// New creates an editor over buf.
func New(buf *surface.Buffer, opts Options) *Model {
	m := &Model{
		Buffer:      buf,
		zoneID:      opts.ZoneID,
		keys:        opts.Keys,
		title:       opts.Title,
		lineNumbers: opts.LineNumbers,
		scrollbar:   true,
		stale:       true,
	}
	m.SetSyntaxStyle(opts.SyntaxStyle)
	m.lexer = language.Lexer(buf.LanguageID())
	m.sub = buf.Subscribe(func(ev surface.Event) {
		if ev.Kind == surface.TextInserted || ev.Kind == surface.TextDeleted {
			m.stale = true
		}
	})
	return m
}

// Close releases the buffer subscription.
func (m *Model) Close() {
	if m.sub != nil {
		m.sub.Release()
		m.sub = nil
	}
}

// ZoneID returns the bubblezone id wrapping the pane.
func (m *Model) ZoneID() string { return m.zoneID }

// SetTitle sets the text shown in the top border.
func (m *Model) SetTitle(title string) { m.title = title }

// SetLanguageID changes the language and its lexer.
func (m *Model) SetLanguageID(id string) {
	m.Buffer.SetLanguageID(id)
	m.lexer = language.Lexer(id)
	m.stale = true
}

// SetSyntaxStyle selects a chroma style by name. Unknown names fall back to
// chroma's default style.
func (m *Model) SetSyntaxStyle(name string) {
	m.style = chromastyles.Get(name)
	m.tokenSty = make(map[chroma.TokenType]lipgloss.Style)
}

// SetLineNumbers toggles the gutter.
func (m *Model) SetLineNumbers(on bool) { m.lineNumbers = on }

// SetScrollbarVisible shows or hides the vertical scrollbar.
func (m *Model) SetScrollbarVisible(visible bool) {
	if m.scrollbar != visible {
		log.Debug(log.CatUI, "scrollbar", "pane", m.zoneID, "visible", visible)
	}
	m.scrollbar = visible
}

// ScrollbarVisible reports whether the scrollbar is drawn.
func (m *Model) ScrollbarVisible() bool { return m.scrollbar }

// Focus marks the pane as receiving keys.
func (m *Model) Focus() { m.focused = true }

// Blur marks the pane as not receiving keys.
func (m *Model) Blur() { m.focused = false }

// Focused reports whether the pane receives keys.
func (m *Model) Focused() bool { return m.focused }

// Cursor returns the document line under the cursor.
func (m *Model) Cursor() int { return m.cursor }

// SetSize sets the pane's outer size. The text area is the frame's inner
// height, so that is what LinesOnScreen reports.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	_, innerH := m.frame().InnerSize()
	m.Buffer.SetLinesOnScreen(innerH)
}

// Size returns the pane's outer size.
func (m *Model) Size() (width, height int) { return m.width, m.height }

// Update handles scrolling and folding keys and wheel events inside the pane.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.focused {
			return nil
		}
		page := max(1, m.LinesOnScreen()-1)
		switch {
		case key.Matches(msg, m.keys.Up):
			m.moveCursor(-1)
		case key.Matches(msg, m.keys.Down):
			m.moveCursor(1)
		case key.Matches(msg, m.keys.PageUp):
			m.moveCursor(-page)
		case key.Matches(msg, m.keys.PageDown):
			m.moveCursor(page)
		case key.Matches(msg, m.keys.Top):
			m.moveCursor(-m.VisibleLineCount())
		case key.Matches(msg, m.keys.Bottom):
			m.moveCursor(m.VisibleLineCount())
		case key.Matches(msg, m.keys.Fold):
			m.ToggleFold(m.cursor)
		case key.Matches(msg, m.keys.UnfoldAll):
			m.ShowLines(0, m.LineCount()-1)
		}

	case tea.MouseMsg:
		if m.zoneID == "" {
			return nil
		}
		if z := zone.Get(m.zoneID); z == nil || !z.InBounds(msg) {
			return nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.LineScroll(-wheelLines)
		case tea.MouseButtonWheelDown:
			m.LineScroll(wheelLines)
		}
	}
	return nil
}

// moveCursor moves the cursor by delta visual lines and scrolls it into view.
// A cursor left off screen by an outside scroll restarts from the top line.
func (m *Model) moveCursor(delta int) {
	total := m.VisibleLineCount()
	if total == 0 {
		return
	}
	first, lines := m.FirstVisibleLine(), m.LinesOnScreen()

	cv := m.VisibleFromDocLine(m.cursor)
	if cv < first || cv >= first+lines {
		cv = first
	}
	cv = max(0, min(cv+delta, total-1))
	m.cursor = m.DocLineFromVisible(cv)

	switch {
	case cv < first:
		m.ScrollTo(cv)
	case cv >= first+lines:
		m.ScrollTo(cv - lines + 1)
	}
}

// ToggleFold folds the indentation block headed by line, or unfolds it when
// any of it is hidden. It reports whether line heads a block.
func (m *Model) ToggleFold(line int) bool {
	from, to, ok := FoldRange(splitText(m.Text()), line, m.TabWidth())
	if !ok {
		return false
	}
	folded := false
	for i := from; i <= to; i++ {
		if !m.LineVisible(i) {
			folded = true
			break
		}
	}
	if folded {
		m.ShowLines(from, to)
	} else {
		m.HideLines(from, to)
	}
	log.Debug(log.CatFold, "toggled fold", "pane", m.zoneID, "from", from, "to", to, "folded", !folded)
	return true
}

func (m *Model) frame() styles.Frame {
	footer := fmt.Sprintf("%s  %d/%d", m.LanguageID(), m.cursor+1, m.LineCount())
	return styles.Frame{
		Title:   m.title,
		Footer:  footer,
		Width:   m.width,
		Height:  m.height,
		Focused: m.focused,
	}
}

// View renders the pane.
func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	if m.stale {
		m.tokenize()
	}

	f := m.frame()
	innerW, innerH := f.InnerSize()

	gutterW := 0
	if m.lineNumbers {
		gutterW = len(strconv.Itoa(m.LineCount())) + 2
	}
	textW := innerW - gutterW
	var bar []string
	if m.scrollbar {
		textW--
		bar = scrollbarRows(m.VisibleLineCount(), innerH, m.FirstVisibleLine())
	}
	textW = max(0, textW)

	gutter := lipgloss.NewStyle().Foreground(styles.GutterColor)
	cursorGutter := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor).Bold(true)
	marker := lipgloss.NewStyle().Foreground(styles.FoldMarkerColor)

	rows := make([]string, innerH)
	first := m.FirstVisibleLine()
	visible := m.VisibleLineCount()
	for i := range rows {
		var b strings.Builder
		v := first + i
		if v < visible {
			doc := m.DocLineFromVisible(v)
			if m.lineNumbers {
				num := fmt.Sprintf("%*d", gutterW-2, doc+1)
				if doc == m.cursor && m.focused {
					b.WriteString(cursorGutter.Render(num))
				} else {
					b.WriteString(gutter.Render(num))
				}
				if doc+1 < m.LineCount() && !m.LineVisible(doc+1) {
					b.WriteString(marker.Render("▸"))
				} else {
					b.WriteByte(' ')
				}
				b.WriteByte(' ')
			}
			line := m.renderLine(doc)
			b.WriteString(ansi.Truncate(line, textW, ""))
			if w := ansi.StringWidth(line); w < textW {
				b.WriteString(strings.Repeat(" ", textW-w))
			}
		} else {
			b.WriteString(strings.Repeat(" ", gutterW+textW))
		}
		if bar != nil {
			b.WriteString(bar[i])
		}
		rows[i] = b.String()
	}

	view := styles.RenderFrame(strings.Join(rows, "\n"), f)
	if m.zoneID != "" {
		view = zone.Mark(m.zoneID, view)
	}
	return view
}

// tokenize splits the whole text into per-line token lists. Multi-line
// tokens such as block comments are split at line ends by chroma.
func (m *Model) tokenize() {
	m.stale = false
	m.tokens = nil
	if m.lexer == nil {
		return
	}
	it, err := m.lexer.Tokenise(nil, m.Text())
	if err != nil {
		log.ErrorErr(log.CatUI, "tokenizing", err, "language", m.LanguageID())
		return
	}
	m.tokens = chroma.SplitTokensIntoLines(it.Tokens())
}

// renderLine colours document line doc with tabs expanded.
func (m *Model) renderLine(doc int) string {
	tab := max(1, m.TabWidth())
	if doc >= len(m.tokens) {
		return surface.ExpandTabs(m.Line(doc), tab, 0)
	}

	var b strings.Builder
	col := 0
	for _, tok := range m.tokens[doc] {
		text := strings.TrimRight(tok.Value, "\r\n")
		if text == "" {
			continue
		}
		seg := surface.ExpandTabs(text, tab, col)
		col += runewidth.StringWidth(seg)
		b.WriteString(m.tokenStyle(tok.Type).Render(seg))
	}
	return b.String()
}

func (m *Model) tokenStyle(tt chroma.TokenType) lipgloss.Style {
	if s, ok := m.tokenSty[tt]; ok {
		return s
	}
	s := lipgloss.NewStyle()
	if m.style != nil {
		entry := m.style.Get(tt)
		if entry.Colour.IsSet() {
			s = s.Foreground(lipgloss.Color(entry.Colour.String()))
		}
		if entry.Bold == chroma.Yes {
			s = s.Bold(true)
		}
		if entry.Italic == chroma.Yes {
			s = s.Italic(true)
		}
	}
	m.tokenSty[tt] = s
	return s
}
