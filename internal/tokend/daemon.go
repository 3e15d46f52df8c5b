package tokend

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"

	"github.com/opencode-ai/swatch/internal/config"
	"github.com/opencode-ai/swatch/internal/tokens"
)

// DefaultPort is the port tokend listens on when none is configured.
const DefaultPort = 50151

// Options configure the daemon runtime.
type Options struct {
	Host    string
	Port    int
	Version string
}

// Daemon serves the token service until its context is canceled.
type Daemon struct {
	cfg    *config.Config
	logger zerolog.Logger
	opts   Options

	server     *Server
	limiter    *RateLimiter
	grpcServer *grpc.Server
}

// New constructs a daemon over ctrl and its token manager. Host and port
// fall back to the daemon section of cfg.
func New(cfg *config.Config, logger zerolog.Logger, ctrl Controller, tk *tokens.Manager, opts Options) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if ctrl == nil || tk == nil {
		return nil, errors.New("theme controller and token manager are required")
	}
	if opts.Host == "" {
		opts.Host = cfg.Daemon.Host
	}
	if opts.Host == "" {
		opts.Host = "127.0.0.1"
	}
	if opts.Port == 0 {
		opts.Port = cfg.Daemon.Port
	}
	if opts.Port == 0 {
		opts.Port = DefaultPort
	}

	limiterOpts := []RateLimiterOption{WithEnabled(cfg.Daemon.RateLimit.Enabled)}
	if rl := cfg.Daemon.RateLimit; rl.Enabled && rl.RequestsPerSecond > 0 && rl.Burst > 0 {
		limiterOpts = append(limiterOpts, WithGlobalLimit(RateLimitConfig{
			RequestsPerSecond: rl.RequestsPerSecond,
			BurstSize:         rl.Burst,
		}))
	}
	limiter := NewRateLimiter(limiterOpts...)

	server := NewServer(ctrl, tk, logger, WithVersion(opts.Version), WithRateLimiter(limiter))

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(limiter.UnaryServerInterceptor()),
		grpc.ChainStreamInterceptor(limiter.StreamServerInterceptor()),
	)
	RegisterTokenServiceServer(grpcServer, server)

	return &Daemon{
		cfg:        cfg,
		logger:     logger,
		opts:       opts,
		server:     server,
		limiter:    limiter,
		grpcServer: grpcServer,
	}, nil
}

// Run listens on the configured address and serves until ctx is canceled.
func (d *Daemon) Run(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	bindAddr := d.bindAddr()
	listener, err := net.Listen("tcp", bindAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", bindAddr, err)
	}
	return d.Serve(ctx, listener)
}

// Serve serves on lis until ctx is canceled. Serve takes ownership of lis.
func (d *Daemon) Serve(ctx context.Context, lis net.Listener) error {
	d.logger.Info().
		Str("bind", lis.Addr().String()).
		Str("version", d.opts.Version).
		Msg("tokend gRPC server starting")

	errCh := make(chan error, 1)
	go func() {
		if err := d.grpcServer.Serve(lis); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		d.logger.Info().Msg("tokend shutting down...")
		// WatchState streams only end when their context does, so
		// GracefulStop would wait on them forever.
		d.grpcServer.Stop()
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("gRPC server error: %w", err)
		}
	}

	d.logger.Info().Msg("tokend shutdown complete")
	return nil
}

func (d *Daemon) bindAddr() string {
	return net.JoinHostPort(d.opts.Host, strconv.Itoa(d.opts.Port))
}

// Addr returns the configured listen address.
func (d *Daemon) Addr() string {
	return d.bindAddr()
}

// Server returns the underlying service implementation.
func (d *Daemon) Server() *Server {
	return d.server
}

// RateLimiter returns the limiter guarding the service.
func (d *Daemon) RateLimiter() *RateLimiter {
	return d.limiter
}
