package language

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/JoeRobich/fd-editorminimap/internal/log"
)

// Lexer returns the chroma lexer for a registry id, falling back to plain text.
func Lexer(id string) chroma.Lexer {
	if l := lexers.Get(id); l != nil {
		return chroma.Coalesce(l)
	}
	return chroma.Coalesce(lexers.Fallback)
}

// Detect returns the language id of a document, trying the registry's
// extension table, then chroma's filename patterns, then content analysis.
// Unrecognized documents are "text".
func (r *Registry) Detect(filename, text string) string {
	if l, ok := r.ByExtension(filepath.Ext(filename)); ok {
		return l.ID
	}

	lexer := lexers.Match(filepath.Base(filename))
	if lexer == nil && text != "" {
		lexer = lexers.Analyse(text)
	}
	if lexer == nil {
		return "text"
	}

	cfg := lexer.Config()
	for _, name := range append([]string{cfg.Name}, cfg.Aliases...) {
		if l, ok := r.Lookup(name); ok {
			return l.ID
		}
	}
	id := strings.ToLower(cfg.Name)
	log.Debug(log.CatLang, "detected language outside registry", "file", filename, "lexer", cfg.Name)
	return id
}
