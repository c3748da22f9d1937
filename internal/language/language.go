// Package language knows each language's default font size and detects the
// language of a document.
package language

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"gopkg.in/yaml.v3"

	"github.com/JoeRobich/fd-editorminimap/internal/cachemanager"
	"github.com/JoeRobich/fd-editorminimap/internal/log"
)

//go:embed languages.yaml
var defaultDefinitions []byte

// ErrUnknown is returned for a language the registry does not define.
var ErrUnknown = errors.New("unknown language")

// Language is one language definition.
type Language struct {
	ID         string   `yaml:"id"`
	Aliases    []string `yaml:"aliases,omitempty"`
	FontSize   int      `yaml:"font_size"`
	Extensions []string `yaml:"extensions,omitempty"`
}

type definitions struct {
	Languages []Language `yaml:"languages"`
}

// Registry resolves language identifiers. Lookups fold case and diacritics and
// accept aliases; results are cached because the engine asks on every refresh.
type Registry struct {
	mu     sync.RWMutex
	byID   map[string]Language
	names  []string
	owners map[string]string
	cache  *cachemanager.Cache[Language]
}

// NewRegistry creates a registry holding the built-in definitions.
func NewRegistry() *Registry {
	r := &Registry{
		byID:   make(map[string]Language),
		owners: make(map[string]string),
		cache:  cachemanager.New[Language]("languages", cachemanager.NoExpiration, cachemanager.DefaultCleanupInterval),
	}
	if err := r.Load(defaultDefinitions); err != nil {
		panic(fmt.Sprintf("parsing built-in languages: %v", err))
	}
	return r
}

// LoadFile merges definitions from a YAML file over the current ones.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading languages file: %w", err)
	}
	if err := r.Load(data); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	log.Info(log.CatLang, "loaded language definitions", "path", path)
	return nil
}

// Load merges YAML definitions over the current ones. A definition replaces
// any existing one with the same id.
func (r *Registry) Load(data []byte) error {
	var defs definitions
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return fmt.Errorf("parsing language definitions: %w", err)
	}
	for i, l := range defs.Languages {
		if strings.TrimSpace(l.ID) == "" {
			return fmt.Errorf("language %d: id is required", i)
		}
		if l.FontSize <= 0 {
			return fmt.Errorf("language %q: font_size must be positive", l.ID)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range defs.Languages {
		l.ID = strings.ToLower(strings.TrimSpace(l.ID))
		r.byID[l.ID] = l
		r.owners[l.ID] = l.ID
		for _, a := range l.Aliases {
			r.owners[strings.ToLower(a)] = l.ID
		}
	}
	r.names = r.names[:0]
	for name := range r.owners {
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)
	r.cache.Flush()
	return nil
}

// Lookup resolves id or an alias.
func (r *Registry) Lookup(id string) (Language, bool) {
	key := strings.ToLower(strings.TrimSpace(id))
	if key == "" {
		return Language{}, false
	}
	l, err := r.cache.GetOrLoad(key, cachemanager.NoExpiration, func() (Language, error) {
		return r.resolve(key)
	})
	if err != nil {
		log.Debug(log.CatLang, "language lookup failed", "id", id)
		return Language{}, false
	}
	return l, true
}

func (r *Registry) resolve(key string) (Language, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if owner, ok := r.owners[key]; ok {
		return r.byID[owner], nil
	}
	// Fold case and diacritics. A name that matches in both directions is
	// equal after normalization; plain subsequence matches are rejected.
	for _, rank := range fuzzy.RankFindNormalizedFold(key, r.names) {
		if fuzzy.MatchNormalizedFold(rank.Target, key) {
			return r.byID[r.owners[rank.Target]], nil
		}
	}
	return Language{}, fmt.Errorf("%w: %s", ErrUnknown, key)
}

// DefaultFontSize returns the default font size of a language.
func (r *Registry) DefaultFontSize(id string) (int, bool) {
	l, ok := r.Lookup(id)
	if !ok {
		return 0, false
	}
	return l.FontSize, true
}

// All returns every language sorted by id.
func (r *Registry) All() []Language {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Language, 0, len(r.byID))
	for _, l := range r.byID {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ByExtension returns the language registered for a file extension such as ".go".
func (r *Registry) ByExtension(ext string) (Language, bool) {
	ext = strings.ToLower(ext)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, l := range r.byID {
		for _, e := range l.Extensions {
			if strings.EqualFold(e, ext) {
				return l, true
			}
		}
	}
	return Language{}, false
}
