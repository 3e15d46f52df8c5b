package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/swatch/internal/db"
	"github.com/opencode-ai/swatch/internal/models"
)

var (
	historySince string
	historyType  string
	historyLimit int
	historyPrune string
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVar(&historySince, "since", "", "only events after this time (duration like 1h, 7d, or a timestamp)")
	historyCmd.Flags().StringVar(&historyType, "type", "", "only events of this type (e.g. theme.applied)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 50, "maximum number of events")
	historyCmd.Flags().StringVar(&historyPrune, "prune", "", "delete events older than this duration (e.g. 30d) and exit")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded theme and mode changes",
	Long:  "List the event log: applied selections, rejected themes, system scheme changes and cleared preferences.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		since, err := ParseSince(historySince)
		if err != nil {
			return &PreflightError{
				Message:  err.Error(),
				Hint:     "Use a duration (30m, 2h, 7d) or a date (2024-01-15)",
				NextStep: "swatch history --since 1d",
			}
		}

		var eventType *models.EventType
		if historyType != "" {
			t, err := models.ParseEventType(historyType)
			if err != nil {
				return &PreflightError{
					Message: err.Error(),
					Hint:    "Known types: " + joinEventTypes(models.EventTypes),
				}
			}
			eventType = &t
		}

		ctx := contextOrBackground(cmd)
		app, err := openReadOnlyApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()
		if err := app.requireStorage(); err != nil {
			return err
		}

		if historyPrune != "" {
			return pruneHistory(cmd, app, historyPrune)
		}

		query := db.EventQuery{Since: since, Type: eventType, Limit: historyLimit}
		page, err := app.events.Query(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to query events: %w", err)
		}

		out := stdout(cmd)
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(out, page.Events)
		}
		if len(page.Events) == 0 {
			fmt.Fprintln(out, "No events recorded.")
			return nil
		}

		rows := make([][]string, 0, len(page.Events))
		for _, event := range page.Events {
			rows = append(rows, []string{
				event.Timestamp.Local().Format("2006-01-02 15:04:05"),
				string(event.Type),
				event.EntityID,
				summarizePayload(event),
			})
		}
		return writeTable(out, []string{"TIME", "TYPE", "ENTITY", "DETAIL"}, rows)
	},
}

func pruneHistory(cmd *cobra.Command, app *appContext, age string) error {
	d, err := parseDurationWithDays(age)
	if err != nil || d <= 0 {
		return &PreflightError{
			Message:  fmt.Sprintf("invalid prune age %q", age),
			Hint:     "Use a positive duration such as 12h or 30d",
			NextStep: "swatch history --prune 30d",
		}
	}

	removed, err := app.events.Prune(contextOrBackground(cmd), time.Now().Add(-d))
	if err != nil {
		return err
	}
	if IsJSONOutput() || IsJSONLOutput() {
		return WriteOutput(stdout(cmd), map[string]int64{"removed": removed})
	}
	fmt.Fprintf(stdout(cmd), "Removed %d events older than %s.\n", removed, age)
	return nil
}

func joinEventTypes(types []models.EventType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func summarizePayload(event *models.Event) string {
	if payload, err := event.Applied(); err == nil {
		return fmt.Sprintf("%s via %s", payload.Mode, payload.Trigger)
	}
	if len(event.Payload) == 0 {
		return ""
	}
	return string(event.Payload)
}

// ParseSince parses a relative duration ("1h", "7d") or an absolute time
// (RFC3339, "2006-01-02T15:04:05", "2006-01-02") into a UTC time. Empty
// input yields nil.
func ParseSince(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	if d, err := parseDurationWithDays(value); err == nil {
		t := time.Now().UTC().Add(-d)
		return &t, nil
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		t = t.UTC()
		return &t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", value, time.Local); err == nil {
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t, nil
	}
	return nil, fmt.Errorf("invalid time %q", value)
}

// parseDurationWithDays extends time.ParseDuration with a "d" suffix.
func parseDurationWithDays(value string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(value, "d"); ok {
		n, err := strconv.ParseFloat(days, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", value)
		}
		return time.Duration(n * float64(24*time.Hour)), nil
	}
	return time.ParseDuration(value)
}
