package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/JoeRobich/fd-editorminimap/internal/app"
	"github.com/JoeRobich/fd-editorminimap/internal/config"
	"github.com/JoeRobich/fd-editorminimap/internal/log"
	"github.com/JoeRobich/fd-editorminimap/internal/tracing"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in the editor.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:   "minimap [file]",
	Short: "A terminal file viewer with a code minimap",
	Long: `A read-only terminal file viewer with a minimap: a compact overview of the
whole document docked beside the text. Click or drag the minimap to scroll,
hover it to preview code, and open a split view to follow two places at once.`,
	Version: version,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/minimap/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false,
		"write a debug log (MINIMAP_LOG, default debug.log; MINIMAP_LOG_LEVEL filters it)")
	rootCmd.Flags().Bool("split", false, "open with a split view")
	rootCmd.Flags().Bool("no-watch", false, "do not reload the file or config when they change")
}

func initConfig() {
	v := viper.GetViper()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .minimap/config.yaml (current directory)
		// 2. ~/.config/minimap/config.yaml (user config)
		if _, err := os.Stat(".minimap/config.yaml"); err == nil {
			v.SetConfigFile(".minimap/config.yaml")
		} else if dir := config.DefaultConfigDir(); dir != "" {
			v.AddConfigPath(dir)
			v.SetConfigName("config")
			v.SetConfigType("yaml")
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// No config file found anywhere - create the default user config
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if dir := config.DefaultConfigDir(); dir != "" {
				defaultPath := filepath.Join(dir, "config.yaml")
				if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
					v.SetConfigFile(defaultPath)
					_ = v.ReadInConfig()
				}
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = v.Unmarshal(&cfg)
}

func runApp(cmd *cobra.Command, args []string) error {
	// Initialize logging if debug mode enabled (via flag or env var)
	if debugFlag || log.DebugEnabled() {
		logPath := os.Getenv("MINIMAP_LOG")
		if logPath == "" {
			logPath = "debug.log"
		}
		cleanup, err := log.Init(logPath)
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		defer cleanup()
		if level := os.Getenv("MINIMAP_LOG_LEVEL"); level != "" {
			log.SetMinLevel(log.ParseLevel(level))
		}
		log.Info(log.CatConfig, "minimap starting", "version", version, "logPath", logPath)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	langs, err := loadLanguages(cfg)
	if err != nil {
		return err
	}

	var path, text string
	if len(args) == 1 {
		path = args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		text = string(data)
	}

	provider, err := tracing.NewProvider(cfg.Tracing, tracing.WithVersion(version))
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatTrace, "tracing shutdown failed", err)
		}
	}()

	split, _ := cmd.Flags().GetBool("split")
	noWatch, _ := cmd.Flags().GetBool("no-watch")

	zone.NewGlobal()
	model := app.New(app.Options{
		Path:       path,
		Text:       text,
		Store:      config.NewStore(cfg, viper.ConfigFileUsed()),
		Languages:  langs,
		Tracer:     provider.Tracer(),
		Split:      split,
		Watch:      !noWatch,
		LoadConfig: loadConfigFile,
	})
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	)

	_, err = p.Run()

	// Clean up watcher resources
	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
