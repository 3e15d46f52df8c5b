package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/swatch/internal/config"
)

var (
	initForce bool

	// configDirFunc is replaced in tests.
	configDirFunc = config.DefaultConfigDir
)

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
}

type initResult struct {
	name    string
	status  string // done, skipped or failed
	message string
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the config file, theme directory and preference database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := []func() initResult{
			createConfigFile,
			createThemesDir,
			initDatabase,
		}

		results := make([]initResult, 0, len(steps))
		failed := false
		for _, step := range steps {
			r := step()
			results = append(results, r)
			if r.status == "failed" {
				failed = true
			}
		}

		out := stdout(cmd)
		if IsJSONOutput() || IsJSONLOutput() {
			payload := make([]map[string]string, 0, len(results))
			for _, r := range results {
				payload = append(payload, map[string]string{"step": r.name, "status": r.status, "message": r.message})
			}
			if err := WriteOutput(out, payload); err != nil {
				return err
			}
		} else {
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{r.name, formatStepStatus(r.status), r.message})
			}
			if err := writeTable(out, []string{"STEP", "STATUS", "DETAIL"}, rows); err != nil {
				return err
			}
		}

		if failed {
			return fmt.Errorf("init did not complete")
		}
		return nil
	},
}

func createConfigFile() initResult {
	result := initResult{name: "Config file"}
	dir := configDirFunc()
	path := filepath.Join(dir, "config.yaml")

	if exists(path) && !initForce {
		result.status = "skipped"
		result.message = path + " exists (use --force to overwrite)"
		return result
	}

	progress := startProgress("Writing " + path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		progress.Fail(err)
		result.status = "failed"
		result.message = err.Error()
		return result
	}
	if err := os.WriteFile(path, []byte(config.Template), 0o644); err != nil {
		progress.Fail(err)
		result.status = "failed"
		result.message = err.Error()
		return result
	}
	progress.Done()

	result.status = "done"
	result.message = path
	return result
}

func createThemesDir() initResult {
	result := initResult{name: "Theme directory"}
	dir := filepath.Join(configDirFunc(), "themes")
	if exists(dir) {
		result.status = "skipped"
		result.message = dir + " exists"
		return result
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		result.status = "failed"
		result.message = err.Error()
		return result
	}
	result.status = "done"
	result.message = dir
	return result
}

func initDatabase() initResult {
	result := initResult{name: "Preference database"}
	path := GetConfig().Storage.Path
	if path == "" {
		result.status = "skipped"
		result.message = "storage.path is empty; preferences stay in memory"
		return result
	}

	database, err := openDatabase(contextOrBackground(nil), path)
	if err != nil {
		result.status = "failed"
		result.message = err.Error()
		return result
	}
	defer database.Close()

	result.status = "done"
	result.message = path
	return result
}

func formatStepStatus(status string) string {
	switch status {
	case "done":
		return colorize(status, colorGreen)
	case "skipped":
		return colorize(status, colorYellow)
	default:
		return colorize(status, colorRed)
	}
}
