// Package cli implements the swatch command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/swatch/internal/config"
	"github.com/opencode-ai/swatch/internal/logging"
)

var (
	cfgFile        string
	jsonOutput     bool
	jsonlOutput    bool
	nonInteractive bool
	noProgress     bool
	noColor        bool
	logLevel       string

	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "swatch",
	Short: "Design tokens with themes and light/dark modes",
	Long: `Swatch derives accessible color variants from a few base colors, keeps the
active theme and mode, and publishes the flattened token set as CSS custom
properties, JSON or over gRPC.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/swatch/config.yaml)")
	flags.BoolVar(&jsonOutput, "json", false, "output JSON")
	flags.BoolVar(&jsonlOutput, "jsonl", false, "output JSON lines")
	flags.BoolVar(&nonInteractive, "non-interactive", false, "never prompt; fail instead")
	flags.BoolVar(&noProgress, "no-progress", false, "suppress progress output")
	flags.BoolVar(&noColor, "no-color", false, "disable colored output")
	flags.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// Execute runs the root command and reports errors on stderr.
func Execute(version string) error {
	rootCmd.Version = version
	err := rootCmd.Execute()
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

func initConfig(cmd *cobra.Command) error {
	v := config.NewViper()
	if f := cmd.Flags().Lookup("log-level"); f != nil {
		if err := v.BindPFlag("logging.level", f); err != nil {
			return err
		}
	}

	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return &PreflightError{
			Message:  fmt.Sprintf("invalid configuration: %v", err),
			Hint:     "Check the config file and SWATCH_* environment variables",
			NextStep: "swatch init --force",
		}
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	appConfig = cfg
	return nil
}

// GetConfig returns the loaded configuration, or defaults before loading.
func GetConfig() *config.Config {
	if appConfig == nil {
		return config.DefaultConfig()
	}
	return appConfig
}

// PreflightError is a user-facing failure with a suggested fix.
type PreflightError struct {
	Message  string
	Hint     string
	NextStep string
}

func (e *PreflightError) Error() string {
	return e.Message
}

func printError(w io.Writer, err error) {
	var pe *PreflightError
	if IsJSONOutput() || IsJSONLOutput() {
		payload := map[string]string{"error": err.Error()}
		if errors.As(err, &pe) {
			if pe.Hint != "" {
				payload["hint"] = pe.Hint
			}
			if pe.NextStep != "" {
				payload["next_step"] = pe.NextStep
			}
		}
		_ = WriteOutput(w, payload)
		return
	}

	fmt.Fprintf(w, "%s %v\n", colorize("Error:", colorRed), err)
	if errors.As(err, &pe) {
		if pe.Hint != "" {
			fmt.Fprintf(w, "  Hint: %s\n", pe.Hint)
		}
		if pe.NextStep != "" {
			fmt.Fprintf(w, "  Next: %s\n", pe.NextStep)
		}
	}
}

func stdout(cmd *cobra.Command) io.Writer {
	if cmd == nil {
		return os.Stdout
	}
	return cmd.OutOrStdout()
}
