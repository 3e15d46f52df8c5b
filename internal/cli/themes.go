package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/swatch/internal/design"
)

var themesShowDirs bool

func init() {
	rootCmd.AddCommand(themesCmd)
	rootCmd.AddCommand(themeCmd)
	themeCmd.AddCommand(themeSetCmd)
	themeCmd.AddCommand(themeCurrentCmd)

	themesCmd.Flags().BoolVar(&themesShowDirs, "dirs", false, "list theme search directories instead")
}

// ThemeInfo is one row of `swatch themes`.
type ThemeInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Source string `json:"source"`
	Active bool   `json:"active"`
}

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List available themes",
	Long:  "List registered themes: bundled ones plus palettes found in the theme directories.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := stdout(cmd)
		cfg := GetConfig()

		if themesShowDirs {
			dirs := cfg.ThemeDirs()
			if IsJSONOutput() || IsJSONLOutput() {
				return WriteOutput(out, dirs)
			}
			rows := make([][]string, 0, len(dirs))
			for _, dir := range dirs {
				rows = append(rows, []string{dir, formatFound(exists(dir))})
			}
			return writeTable(out, []string{"DIRECTORY", "STATUS"}, rows)
		}

		app, err := openReadOnlyApp(contextOrBackground(cmd))
		if err != nil {
			return err
		}
		defer app.Close()

		active := app.themes.State().ThemeID
		infos := make([]ThemeInfo, 0)
		for _, t := range app.registry.Themes() {
			infos = append(infos, ThemeInfo{
				ID:     t.ID,
				Name:   t.Name,
				Source: t.Source,
				Active: t.ID == active,
			})
		}

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(out, infos)
		}

		rows := make([][]string, 0, len(infos))
		for _, info := range infos {
			marker := ""
			if info.Active {
				marker = colorize("*", colorGreen)
			}
			rows = append(rows, []string{marker, info.ID, info.Name, info.Source})
		}
		if err := writeTable(out, []string{"", "ID", "NAME", "SOURCE"}, rows); err != nil {
			return err
		}
		if !app.customThemes {
			fmt.Fprintln(out, "\nOnly bundled themes found. Add .yaml or .toml palettes to a directory from `swatch themes --dirs`.")
		}
		return nil
	},
}

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Show or change the active theme",
}

var themeSetCmd = &cobra.Command{
	Use:   "set <id>",
	Short: "Select the active theme",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(contextOrBackground(cmd))
		if err != nil {
			return err
		}
		defer app.Close()

		id := strings.TrimSpace(args[0])
		if err := app.themes.SetTheme(contextOrBackground(cmd), id); err != nil {
			return unknownThemeError(err, app.registry)
		}
		return writeState(cmd, app)
	},
}

var themeCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Print the active theme and mode",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openReadOnlyApp(contextOrBackground(cmd))
		if err != nil {
			return err
		}
		defer app.Close()
		return writeState(cmd, app)
	},
}

func writeState(cmd *cobra.Command, app *appContext) error {
	out := stdout(cmd)
	state := app.themes.State()
	if IsJSONOutput() || IsJSONLOutput() {
		return WriteOutput(out, state)
	}
	name := app.themes.Theme().Name
	fmt.Fprintf(out, "%s (%s) %s\n", state.ThemeID, name, formatMode(state.Mode))
	return nil
}

func unknownThemeError(err error, registry *design.Registry) error {
	if !errors.Is(err, design.ErrUnknownTheme) {
		return err
	}
	return &PreflightError{
		Message:  err.Error(),
		Hint:     "Available themes: " + strings.Join(registry.IDs(), ", "),
		NextStep: "swatch themes",
	}
}

// contextOrBackground lets commands run outside cobra in tests.
func contextOrBackground(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}
