package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/swatch/internal/config"
	"github.com/opencode-ai/swatch/internal/design"
)

func init() {
	rootCmd.AddCommand(modeCmd)
	modeCmd.AddCommand(modeSetCmd)
	modeCmd.AddCommand(modeToggleCmd)
}

var modeCmd = &cobra.Command{
	Use:   "mode",
	Short: "Change between light and dark",
}

var modeSetCmd = &cobra.Command{
	Use:   "set <light|dark|system>",
	Short: "Select a mode, or follow the system scheme",
	Long: `Select light or dark explicitly. "system" forgets the stored mode so the
system color scheme decides again.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(design.ModeLight), string(design.ModeDark), config.ModeSystem},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := contextOrBackground(cmd)
		value := strings.ToLower(strings.TrimSpace(args[0]))

		app, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		if value == config.ModeSystem {
			if err := app.requireStorage(); err != nil {
				return err
			}
			if err := app.themes.FollowSystem(ctx); err != nil {
				return err
			}
			return writeState(cmd, app)
		}

		mode, err := design.ParseMode(value)
		if err != nil {
			return &PreflightError{
				Message:  fmt.Sprintf("invalid mode %q", args[0]),
				Hint:     "Use light, dark or system",
				NextStep: "swatch mode set dark",
			}
		}
		if err := app.themes.SetMode(ctx, mode); err != nil {
			return err
		}
		return writeState(cmd, app)
	},
}

var modeToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Switch to the opposite mode",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := contextOrBackground(cmd)
		app, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.themes.ToggleMode(ctx); err != nil {
			return err
		}
		return writeState(cmd, app)
	},
}
