package cmd

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/JoeRobich/fd-editorminimap/internal/config"
	"github.com/JoeRobich/fd-editorminimap/internal/language"
)

// setDefaults registers every default so that partial config files unmarshal
// onto complete settings.
func setDefaults(v *viper.Viper) {
	d := config.Defaults()
	v.SetDefault("minimap.visible", d.Minimap.Visible)
	v.SetDefault("minimap.position", d.Minimap.Position)
	v.SetDefault("minimap.width", d.Minimap.Width)
	v.SetDefault("minimap.font_size", d.Minimap.FontSize)
	v.SetDefault("minimap.highlight_color", d.Minimap.HighlightColor)
	v.SetDefault("minimap.secondary_color", d.Minimap.SecondaryColor)
	v.SetDefault("minimap.overlap_color", d.Minimap.OverlapColor)
	v.SetDefault("minimap.only_update_on_timer", d.Minimap.OnlyUpdateOnTimer)
	v.SetDefault("minimap.update_interval", d.Minimap.UpdateInterval)
	v.SetDefault("minimap.max_line_limit", d.Minimap.MaxLineLimit)
	v.SetDefault("minimap.show_code_preview", d.Minimap.ShowCodePreview)
	v.SetDefault("minimap.show_vertical_scrollbar", d.Minimap.ShowVerticalScrollbar)
	v.SetDefault("minimap.preview_width", d.Minimap.PreviewWidth)
	v.SetDefault("minimap.preview_height", d.Minimap.PreviewHeight)
	v.SetDefault("editor.tab_width", d.Editor.TabWidth)
	v.SetDefault("editor.line_numbers", d.Editor.LineNumbers)
	v.SetDefault("editor.syntax_style", d.Editor.SyntaxStyle)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", config.DefaultTracesFilePath())
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
}

// loadConfigFile reads path into a fresh viper instance. The running app uses
// it to reload the config file when it changes.
func loadConfigFile(path string) (config.Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return config.Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	var c config.Config
	if err := v.Unmarshal(&c); err != nil {
		return config.Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return c, nil
}

// loadLanguages builds the language registry, merging the configured
// definitions file over the built-in languages.
func loadLanguages(c config.Config) (*language.Registry, error) {
	langs := language.NewRegistry()
	if c.LanguagesFile == "" {
		return langs, nil
	}
	if err := langs.LoadFile(c.LanguagesFile); err != nil {
		return nil, fmt.Errorf("loading languages: %w", err)
	}
	return langs, nil
}
