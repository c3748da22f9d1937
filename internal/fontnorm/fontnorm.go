// Package fontnorm computes the overview's zoom level so that dense code stays
// legible (or deliberately tiny) whatever font size the primary document uses.
package fontnorm

import "github.com/JoeRobich/fd-editorminimap/internal/log"

// FallbackFontSize stands in for the default font size of an unknown language.
const FallbackFontSize = 10

// LanguageProvider resolves a language's default font size.
type LanguageProvider interface {
	DefaultFontSize(languageID string) (size int, ok bool)
}

// ZoomState is the result of normalizing one language against a target size.
type ZoomState struct {
	DefaultFontSize int
	TargetFontSize  int
	ZoomLevel       int
}

// Normalize shrinks towards target and never enlarges: the zoom level is
// -(defaultSize-target) when defaultSize > target, otherwise 0.
func Normalize(defaultSize, target int) ZoomState {
	z := ZoomState{DefaultFontSize: defaultSize, TargetFontSize: target}
	if defaultSize > target {
		z.ZoomLevel = -(defaultSize - target)
	}
	return z
}

// Normalizer remembers the last language so the zoom is only recomputed when
// the language changes or a refresh is forced.
type Normalizer struct {
	langs        LanguageProvider
	lastLanguage string
	state        ZoomState
	primed       bool
}

// NewNormalizer creates a normalizer backed by langs. A nil provider treats
// every language as unknown.
func NewNormalizer(langs LanguageProvider) *Normalizer {
	return &Normalizer{langs: langs}
}

// State returns the last computed zoom state.
func (n *Normalizer) State() ZoomState { return n.state }

// Update recomputes the zoom for languageID when it differs from the last one
// seen, or when force is set. It reports whether the zoom level changed.
func (n *Normalizer) Update(languageID string, target int, force bool) (ZoomState, bool) {
	if n.primed && languageID == n.lastLanguage && !force {
		return n.state, false
	}

	prev := n.state.ZoomLevel
	wasPrimed := n.primed
	n.lastLanguage = languageID
	n.primed = true

	size, ok := 0, false
	if n.langs != nil {
		size, ok = n.langs.DefaultFontSize(languageID)
	}
	if !ok || size <= 0 {
		log.Debug(log.CatZoom, "unknown language, using fallback font size",
			"language", languageID, "fallback", FallbackFontSize)
		n.state = ZoomState{DefaultFontSize: FallbackFontSize, TargetFontSize: target}
	} else {
		n.state = Normalize(size, target)
	}

	changed := !wasPrimed || prev != n.state.ZoomLevel
	if changed {
		log.Debug(log.CatZoom, "zoom level changed",
			"language", languageID, "default", n.state.DefaultFontSize,
			"target", target, "zoom", n.state.ZoomLevel)
	}
	return n.state, changed
}

// Reset forgets the last language so the next Update recomputes.
func (n *Normalizer) Reset() {
	n.primed = false
	n.lastLanguage = ""
	n.state = ZoomState{}
}
