package presentation

import (
	"github.com/JoeRobich/fd-editorminimap/internal/fontnorm"
	"github.com/JoeRobich/fd-editorminimap/internal/language"
)

// LanguageDTO represents a language definition for presentation
type LanguageDTO struct {
	ID         string   `json:"id"`
	Aliases    []string `json:"aliases"`
	FontSize   int      `json:"font_size"`
	ZoomLevel  int      `json:"zoom_level"` // at the target font size
	Extensions []string `json:"extensions"`
}

// FromLanguage converts a language to a DTO, computing the zoom level the
// minimap uses for it at target.
func FromLanguage(l language.Language, target int) LanguageDTO {
	aliases := l.Aliases
	if aliases == nil {
		aliases = []string{}
	}
	exts := l.Extensions
	if exts == nil {
		exts = []string{}
	}
	return LanguageDTO{
		ID:         l.ID,
		Aliases:    aliases,
		FontSize:   l.FontSize,
		ZoomLevel:  fontnorm.Normalize(l.FontSize, target).ZoomLevel,
		Extensions: exts,
	}
}

// FromLanguages converts a slice of languages to DTOs
func FromLanguages(langs []language.Language, target int) []LanguageDTO {
	dtos := make([]LanguageDTO, len(langs))
	for i, l := range langs {
		dtos[i] = FromLanguage(l, target)
	}
	return dtos
}
