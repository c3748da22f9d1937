// Package config provides configuration types, defaults, validation and
// persistence for the minimap.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/JoeRobich/fd-editorminimap/internal/highlight"
	"github.com/JoeRobich/fd-editorminimap/internal/log"
	"github.com/JoeRobich/fd-editorminimap/internal/overview"
)

// Setting limits and defaults.
const (
	MinFontSize           = 2
	DefaultFontSize       = 2
	DefaultWidth          = 20
	DefaultUpdateInterval = 100 * time.Millisecond
	DefaultMaxLineLimit   = 10000
	DefaultPreviewWidth   = 60
	DefaultPreviewHeight  = 12
	DefaultHighlight      = "#D3D3D360"
	DefaultSecondary      = "#ADD8E660"
	DefaultSyntaxStyle    = "monokai"
)

// Config holds all configuration options.
type Config struct {
	Minimap       MinimapConfig `mapstructure:"minimap"`
	Editor        EditorConfig  `mapstructure:"editor"`
	Tracing       TracingConfig `mapstructure:"tracing"`
	LanguagesFile string        `mapstructure:"languages_file"` // extra language definitions merged over the built-in ones
}

// MinimapConfig holds the overview's settings.
type MinimapConfig struct {
	Visible  bool   `mapstructure:"visible"`
	Position string `mapstructure:"position"` // "right" (default) or "left"
	Width    int    `mapstructure:"width"`    // columns
	// FontSize is the target font size the overview zooms towards. Smaller
	// sizes pack more lines into each terminal row.
	FontSize int `mapstructure:"font_size"`

	HighlightColor string `mapstructure:"highlight_color"` // "#RRGGBB[AA]" or a colour name
	SecondaryColor string `mapstructure:"secondary_color"` // split view's second viewport
	OverlapColor   string `mapstructure:"overlap_color"`   // empty = blend of highlight and secondary

	OnlyUpdateOnTimer     bool          `mapstructure:"only_update_on_timer"`
	UpdateInterval        time.Duration `mapstructure:"update_interval"`
	MaxLineLimit          int           `mapstructure:"max_line_limit"`
	ShowCodePreview       bool          `mapstructure:"show_code_preview"`
	ShowVerticalScrollbar bool          `mapstructure:"show_vertical_scrollbar"`
	PreviewWidth          int           `mapstructure:"preview_width"`
	PreviewHeight         int           `mapstructure:"preview_height"`
}

// EditorConfig holds the host text view's settings.
type EditorConfig struct {
	TabWidth    int    `mapstructure:"tab_width"`
	LineNumbers bool   `mapstructure:"line_numbers"`
	SyntaxStyle string `mapstructure:"syntax_style"` // chroma style name
}

// TracingConfig holds refresh tracing configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for the "file" exporter.
	// Default: ~/.config/minimap/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for the "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Minimap: MinimapConfig{
			Visible:        true,
			Position:       "right",
			Width:          DefaultWidth,
			FontSize:       DefaultFontSize,
			HighlightColor: DefaultHighlight,
			SecondaryColor: DefaultSecondary,
			UpdateInterval: DefaultUpdateInterval,
			MaxLineLimit:   DefaultMaxLineLimit,
			PreviewWidth:   DefaultPreviewWidth,
			PreviewHeight:  DefaultPreviewHeight,
		},
		Editor: EditorConfig{
			TabWidth:    4,
			LineNumbers: true,
			SyntaxStyle: DefaultSyntaxStyle,
		},
		Tracing: TracingConfig{
			Exporter:     "file",
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// Normalize clamps out-of-range numbers: the font size never drops below
// MinFontSize and non-positive sizes, intervals and limits fall back to their
// defaults.
func (c Config) Normalize() Config {
	m := &c.Minimap
	if m.FontSize < MinFontSize {
		m.FontSize = MinFontSize
	}
	if m.Width <= 0 {
		m.Width = DefaultWidth
	}
	if m.UpdateInterval <= 0 {
		m.UpdateInterval = DefaultUpdateInterval
	}
	if m.MaxLineLimit <= 0 {
		m.MaxLineLimit = DefaultMaxLineLimit
	}
	if m.PreviewWidth <= 0 {
		m.PreviewWidth = DefaultPreviewWidth
	}
	if m.PreviewHeight <= 0 {
		m.PreviewHeight = DefaultPreviewHeight
	}
	if m.HighlightColor == "" {
		m.HighlightColor = DefaultHighlight
	}
	if m.SecondaryColor == "" {
		m.SecondaryColor = DefaultSecondary
	}
	if c.Editor.TabWidth <= 0 {
		c.Editor.TabWidth = 4
	}
	if c.Editor.SyntaxStyle == "" {
		c.Editor.SyntaxStyle = DefaultSyntaxStyle
	}
	return c
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if err := ValidateMinimap(c.Minimap); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// ValidateMinimap checks minimap settings for errors. Empty values use defaults.
func ValidateMinimap(m MinimapConfig) error {
	if _, err := overview.ParseSide(m.Position); err != nil {
		return fmt.Errorf("minimap.position: %w", err)
	}
	colors := []struct{ key, value string }{
		{"highlight_color", m.HighlightColor},
		{"secondary_color", m.SecondaryColor},
		{"overlap_color", m.OverlapColor},
	}
	for _, c := range colors {
		if c.value == "" {
			continue
		}
		if _, err := highlight.ParseColor(c.value); err != nil {
			return fmt.Errorf("minimap.%s: %w", c.key, err)
		}
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	if tracing.Enabled && tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}
	return nil
}

// Side returns the dock side; invalid values fall back to the right edge.
func (m MinimapConfig) Side() overview.Side {
	side, _ := overview.ParseSide(m.Position)
	return side
}

// Palette builds the highlight palette. The overlap colour defaults to the
// blend of the highlight and secondary colours.
func (m MinimapConfig) Palette() (highlight.Palette, error) {
	primary, err := highlight.ParseColor(orDefault(m.HighlightColor, DefaultHighlight))
	if err != nil {
		return highlight.Palette{}, fmt.Errorf("minimap.highlight_color: %w", err)
	}
	secondary, err := highlight.ParseColor(orDefault(m.SecondaryColor, DefaultSecondary))
	if err != nil {
		return highlight.Palette{}, fmt.Errorf("minimap.secondary_color: %w", err)
	}
	var overlap *highlight.Color
	if m.OverlapColor != "" {
		c, err := highlight.ParseColor(m.OverlapColor)
		if err != nil {
			return highlight.Palette{}, fmt.Errorf("minimap.overlap_color: %w", err)
		}
		overlap = &c
	}
	return highlight.NewPalette(primary, secondary, overlap), nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// DefaultConfigDir returns ~/.config/minimap, or "" if the home dir is unavailable.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "minimap")
}

// DefaultTracesFilePath returns the default path for trace file export.
func DefaultTracesFilePath() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "traces", "traces.jsonl")
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Minimap Configuration

minimap:
  visible: true                 # Show the overview (toggle with ctrl+m)
  position: right               # Dock side: right (default) or left
  width: 20                     # Width in columns
  font_size: 2                  # Target font size; smaller packs more lines per row

  # Highlight colours: "#RRGGBB", "#RRGGBBAA" or a colour name.
  # Alpha is blended over the background.
  highlight_color: "#D3D3D360"  # Lines visible in the editor
  secondary_color: "#ADD8E660"  # Lines visible in the split view
  # overlap_color: "#C0D8DC60"  # Lines visible in both (default: blend of the two)

  only_update_on_timer: false   # Ignore scroll events and refresh on the timer only
  update_interval: 100ms        # Refresh timer interval
  max_line_limit: 10000         # Disable the overview for larger documents
  show_code_preview: false      # Show a code preview when hovering the overview
  show_vertical_scrollbar: false # Keep the editor scrollbar while the overview is visible
  # preview_width: 60
  # preview_height: 12

editor:
  tab_width: 4
  line_numbers: true
  syntax_style: monokai         # Any chroma style name

# Extra language definitions (id, aliases, font_size, extensions)
# languages_file: ~/.config/minimap/languages.yaml

# Refresh tracing
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/minimap/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
