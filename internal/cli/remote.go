package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/opencode-ai/swatch/internal/events"
	"github.com/opencode-ai/swatch/internal/theme"
)

var (
	statusRemote bool
	remoteAddr   string
)

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(watchCmd)

	statusCmd.Flags().BoolVar(&statusRemote, "remote", false, "query a running daemon instead of local state")
	statusCmd.Flags().StringVar(&remoteAddr, "addr", "", "daemon address (default from daemon.host/daemon.port)")
	watchCmd.Flags().StringVar(&remoteAddr, "addr", "", "daemon address (default from daemon.host/daemon.port)")
}

// LocalStatus is the payload of `swatch status`.
type LocalStatus struct {
	ThemeID     string `json:"theme_id"`
	ThemeName   string `json:"theme_name"`
	Mode        string `json:"mode"`
	ThemeCount  int    `json:"theme_count"`
	TokenCount  int    `json:"token_count"`
	Storage     string `json:"storage"`
	StyleOutput string `json:"style_output,omitempty"`
	SchemeFile  string `json:"scheme_file,omitempty"`

	LastChange  *time.Time `json:"last_change,omitempty"`
	LastTrigger string     `json:"last_trigger,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active theme, mode and where they are stored",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if statusRemote {
			return remoteStatus(cmd)
		}

		app, err := openReadOnlyApp(contextOrBackground(cmd))
		if err != nil {
			return err
		}
		defer app.Close()

		state := app.themes.State()
		st := LocalStatus{
			ThemeID:     state.ThemeID,
			ThemeName:   app.themes.Theme().Name,
			Mode:        string(state.Mode),
			ThemeCount:  len(app.registry.IDs()),
			TokenCount:  len(app.tokens.Flat()),
			Storage:     "memory",
			StyleOutput: app.cfg.Style.Output,
			SchemeFile:  app.cfg.System.SchemeFile,
		}
		if app.database != nil {
			st.Storage = app.database.Path()
		}
		if app.events != nil {
			// Every invocation logs its own startup apply.
			if event, payload, err := app.events.LastApplied(contextOrBackground(cmd), events.TriggerInitialize); err == nil {
				st.LastChange = &event.Timestamp
				st.LastTrigger = payload.Trigger
			}
		}

		out := stdout(cmd)
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(out, st)
		}
		fields := [][2]string{
			{"Theme", fmt.Sprintf("%s (%s)", st.ThemeID, st.ThemeName)},
			{"Mode", formatMode(state.Mode)},
			{"Themes", strconv.Itoa(st.ThemeCount)},
			{"Tokens", strconv.Itoa(st.TokenCount)},
			{"Storage", st.Storage},
		}
		if st.StyleOutput != "" {
			fields = append(fields, [2]string{"Style output", st.StyleOutput})
		}
		if st.SchemeFile != "" {
			fields = append(fields, [2]string{"Scheme file", st.SchemeFile})
		}
		if st.LastChange != nil {
			fields = append(fields, [2]string{"Last apply", fmt.Sprintf("%s (%s)", st.LastChange.Local().Format(time.DateTime), st.LastTrigger)})
		}
		return writeFields(out, fields)
	},
}

func remoteStatus(cmd *cobra.Command) error {
	ctx, cancel := context.WithTimeout(contextOrBackground(cmd), 5*time.Second)
	defer cancel()

	client, err := dialDaemon(remoteAddr)
	if err != nil {
		return err
	}
	defer client.Close()

	st, err := client.Status(ctx)
	if err != nil {
		return daemonError(err)
	}

	out := stdout(cmd)
	if IsJSONOutput() || IsJSONLOutput() {
		return WriteOutput(out, st)
	}
	if err := writeFields(out, [][2]string{
		{"Daemon", daemonAddr(remoteAddr)},
		{"Version", st.Version},
		{"Uptime", formatDuration(time.Duration(st.UptimeSeconds * float64(time.Second)))},
		{"Theme", st.State.ThemeID},
		{"Mode", formatMode(st.State.Mode)},
	}); err != nil {
		return err
	}

	rows := make([][]string, 0, len(st.RateLimits))
	for _, ms := range st.RateLimits {
		if ms.TotalRequests == 0 {
			continue
		}
		rows = append(rows, []string{ms.Method, strconv.FormatInt(ms.TotalRequests, 10), strconv.FormatInt(ms.DeniedRequests, 10)})
	}
	if len(rows) == 0 {
		return nil
	}
	fmt.Fprintln(out)
	return writeTable(out, []string{"METHOD", "REQUESTS", "DENIED"}, rows)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream theme and mode changes from a running daemon",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(contextOrBackground(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		client, err := dialDaemon(remoteAddr)
		if err != nil {
			return err
		}
		defer client.Close()

		stream, err := client.WatchState(ctx)
		if err != nil {
			return daemonError(err)
		}
		return streamStates(ctx, stdout(cmd), stream.Recv)
	},
}

// streamStates prints states from recv until ctx ends or the stream closes.
func streamStates(ctx context.Context, out io.Writer, recv func() (theme.State, error)) error {
	for {
		state, err := recv()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) || status.Code(err) == codes.Canceled {
				return nil
			}
			return daemonError(err)
		}

		if IsJSONOutput() || IsJSONLOutput() {
			if err := writeJSONLine(out, stateEvent{At: time.Now().UTC(), State: state}); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintf(out, "%s  %s %s\n", time.Now().Format(time.TimeOnly), state.ThemeID, formatMode(state.Mode))
	}
}

type stateEvent struct {
	At time.Time `json:"at"`
	theme.State
}

func daemonError(err error) error {
	if status.Code(err) == codes.Unavailable {
		return &PreflightError{
			Message:  "tokend is not reachable",
			Hint:     "Start it with `swatch serve` or pass --addr",
			NextStep: "swatch serve",
		}
	}
	return err
}
