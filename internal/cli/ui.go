package cli

import (
	"github.com/spf13/cobra"

	"github.com/opencode-ai/swatch/internal/tui"
)

func init() {
	rootCmd.AddCommand(previewCmd)
}

var previewCmd = &cobra.Command{
	Use:     "preview",
	Aliases: []string{"ui"},
	Short:   "Preview themes in the terminal",
	Long:    "Browse themes, toggle light and dark, and check contrast in a full-screen terminal view.",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPreview(cmd)
	},
}

func runPreview(cmd *cobra.Command) error {
	if IsNonInteractive() {
		return &PreflightError{
			Message:  "preview requires an interactive terminal",
			Hint:     "Run without --non-interactive and with a TTY, or use `swatch tokens`",
			NextStep: "swatch tokens --format css",
		}
	}

	app, err := openApp(contextOrBackground(cmd))
	if err != nil {
		return err
	}
	defer app.Close()

	return tui.Run(app.themes, tui.Options{
		CustomThemes: app.customThemes,
		ThemeDirs:    app.cfg.ThemeDirs(),
	})
}
