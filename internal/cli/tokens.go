package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/swatch/internal/colormath"
	"github.com/opencode-ai/swatch/internal/tokens"
)

// Output formats for `swatch tokens`.
const (
	formatFlat = "flat"
	formatCSS  = "css"
	formatJSON = "json"
)

var (
	tokensFormat string
	tokensPrefix string
	tokensOutput string
)

func init() {
	rootCmd.AddCommand(tokensCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(contrastCmd)

	tokensCmd.Flags().StringVarP(&tokensFormat, "format", "f", formatFlat, "output format: flat, css or json")
	tokensCmd.Flags().StringVar(&tokensPrefix, "prefix", "", "only paths starting with this prefix (flat format)")
	tokensCmd.Flags().StringVarP(&tokensOutput, "output", "o", "", "write to a file instead of stdout")
}

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Print the active token set",
	Long: `Print the active token set as dotted key/value pairs (flat), a custom
property stylesheet (css) or the nested tree (json).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openReadOnlyApp(contextOrBackground(cmd))
		if err != nil {
			return err
		}
		defer app.Close()

		var body string
		switch strings.ToLower(tokensFormat) {
		case formatFlat:
			flat := filterPrefix(app.tokens.Flat(), tokensPrefix)
			if IsJSONOutput() || IsJSONLOutput() {
				return WriteOutput(stdout(cmd), flat)
			}
			body = renderFlat(flat)
		case formatCSS:
			body = app.tokens.PropertyBlock()
		case formatJSON:
			data, err := app.tokens.JSON()
			if err != nil {
				return err
			}
			body = string(data) + "\n"
		default:
			return &PreflightError{
				Message:  fmt.Sprintf("unknown format %q", tokensFormat),
				Hint:     "Use flat, css or json",
				NextStep: "swatch tokens --format css",
			}
		}

		if tokensOutput != "" {
			if err := os.WriteFile(tokensOutput, []byte(body), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", tokensOutput, err)
			}
			app.logger.Info().Str("path", tokensOutput).Str("format", tokensFormat).Msg("tokens written")
			return nil
		}
		_, err = fmt.Fprint(stdout(cmd), body)
		return err
	},
}

var getCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Print one token value",
	Long:  `Print the value at a dotted path, e.g. "color.primary.hover" or "spacing.4".`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openReadOnlyApp(contextOrBackground(cmd))
		if err != nil {
			return err
		}
		defer app.Close()

		path := strings.TrimSpace(args[0])
		value, err := app.tokens.Token(path)
		if err != nil {
			if errors.Is(err, tokens.ErrPathNotFound) {
				return &PreflightError{
					Message:  err.Error(),
					Hint:     "Paths are dotted and case-sensitive",
					NextStep: "swatch tokens --prefix " + firstSegment(path),
				}
			}
			return err
		}

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(stdout(cmd), map[string]string{"path": path, "value": value})
		}
		fmt.Fprintln(stdout(cmd), value)
		return nil
	},
}

var contrastCmd = &cobra.Command{
	Use:   "contrast <foreground> <background>",
	Short: "Grade a color pair against WCAG contrast levels",
	Long: `Grade a color pair. Each argument is a hex color or a token path such as
"color.primary.base".`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fg, bg := args[0], args[1]
		if !colormath.Valid(fg) || !colormath.Valid(bg) {
			app, err := openReadOnlyApp(contextOrBackground(cmd))
			if err != nil {
				return err
			}
			defer app.Close()
			if fg, err = resolveColor(app.tokens, fg); err != nil {
				return err
			}
			if bg, err = resolveColor(app.tokens, bg); err != nil {
				return err
			}
		}

		result, err := tokens.ValidateContrast(fg, bg)
		if err != nil {
			return err
		}

		out := stdout(cmd)
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(out, result)
		}
		return writeFields(out, [][2]string{
			{"Foreground", fg},
			{"Background", bg},
			{"Ratio", fmt.Sprintf("%.2f:1", result.Ratio)},
			{"AA", formatPass(result.PassesAA)},
			{"AA large", formatPass(result.PassesAALarge)},
			{"AAA", formatPass(result.PassesAAA)},
			{"Level", formatContrastLevel(result.Level)},
		})
	},
}

// resolveColor returns value when it is a hex color, else the token at the
// path value names.
func resolveColor(tk *tokens.Manager, value string) (string, error) {
	if colormath.Valid(value) {
		return value, nil
	}
	resolved, err := tk.Token(value)
	if err != nil {
		return "", &PreflightError{
			Message: fmt.Sprintf("%q is neither a hex color nor a token path", value),
			Hint:    "Use #RRGGBB or a path like color.primary.base",
		}
	}
	if !colormath.Valid(resolved) {
		return "", &PreflightError{
			Message: fmt.Sprintf("token %s is %q, not a hex color", value, resolved),
			Hint:    "Opacity variants cannot be graded; use a base, hover or text color",
		}
	}
	return resolved, nil
}

func filterPrefix(flat map[string]string, prefix string) map[string]string {
	if prefix == "" {
		return flat
	}
	out := make(map[string]string)
	for path, value := range flat {
		if path == prefix || strings.HasPrefix(path, prefix+".") {
			out[path] = value
		}
	}
	return out
}

func renderFlat(flat map[string]string) string {
	paths := make([]string, 0, len(flat))
	for path := range flat {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var b strings.Builder
	for _, path := range paths {
		fmt.Fprintf(&b, "%s=%s\n", path, flat[path])
	}
	return b.String()
}

func firstSegment(path string) string {
	head, _, _ := strings.Cut(path, ".")
	return head
}
