package cli

import (
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/swatch/internal/logging"
	"github.com/opencode-ai/swatch/internal/tokend"
)

var (
	serveHost string
	servePort int
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (default daemon.host)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (default daemon.port)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve tokens over gRPC",
	Long: `Run tokend: serves the active tokens, accepts theme and mode changes and
streams state changes to watchers. The style output file, when configured, is
rewritten on every change.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(contextOrBackground(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		daemon, err := tokend.New(app.cfg, logging.Component("tokend"), app.themes, app.tokens, tokend.Options{
			Host:    serveHost,
			Port:    servePort,
			Version: rootCmd.Version,
		})
		if err != nil {
			return err
		}
		return daemon.Run(ctx)
	},
}

func daemonAddr(addr string) string {
	if addr != "" {
		return addr
	}
	cfg := GetConfig()
	host := cfg.Daemon.Host
	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	port := cfg.Daemon.Port
	if port == 0 {
		port = tokend.DefaultPort
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

func dialDaemon(addr string) (*tokend.Client, error) {
	client, err := tokend.Dial(daemonAddr(addr))
	if err != nil {
		return nil, &PreflightError{
			Message:  err.Error(),
			Hint:     "Start the daemon first",
			NextStep: "swatch serve",
		}
	}
	return client, nil
}
