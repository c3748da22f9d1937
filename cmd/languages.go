package cmd

import (
	"github.com/spf13/cobra"

	"github.com/JoeRobich/fd-editorminimap/internal/presentation"
)

var (
	langFontSize int
	langTable    bool
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List known languages and their minimap zoom",
	Long: `List every known language as JSON with its default font size and the zoom
level the minimap uses for it at the configured target font size.

Examples:
  # List all languages
  minimap languages

  # Zoom levels for another target font size
  minimap languages --font-size 4

  # Human readable table
  minimap languages --table

  # Parse specific fields with jq
  minimap languages | jq '.[].id'`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		langs, err := loadLanguages(cfg)
		if err != nil {
			return err
		}
		target := cfg.Minimap.FontSize
		if cmd.Flags().Changed("font-size") {
			target = langFontSize
		}

		formatter := presentation.NewFormatter(cmd.OutOrStdout())
		dtos := presentation.FromLanguages(langs.All(), target)
		if langTable {
			return formatter.FormatLanguagesTable(dtos)
		}
		return formatter.FormatLanguages(dtos)
	},
}

func init() {
	languagesCmd.Flags().IntVar(&langFontSize, "font-size", 0, "target font size (default: minimap.font_size)")
	languagesCmd.Flags().BoolVar(&langTable, "table", false, "print a table instead of JSON")
	rootCmd.AddCommand(languagesCmd)
}
