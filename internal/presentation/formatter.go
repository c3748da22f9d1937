package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatLanguages formats a list of languages as JSON
func (f *Formatter) FormatLanguages(langs []LanguageDTO) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(langs)
}

// FormatLanguagesTable formats a list of languages as a bordered table
func (f *Formatter) FormatLanguagesTable(langs []LanguageDTO) error {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "FONT SIZE", "ZOOM", "EXTENSIONS").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	for _, l := range langs {
		t.Row(l.ID, strconv.Itoa(l.FontSize), strconv.Itoa(l.ZoomLevel), strings.Join(l.Extensions, " "))
	}
	_, err := fmt.Fprintln(f.writer, t.Render())
	return err
}
