// Package tokend serves the active design tokens over gRPC and lets remote
// clients drive the theme state.
package tokend

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/opencode-ai/swatch/internal/colormath"
	"github.com/opencode-ai/swatch/internal/design"
	"github.com/opencode-ai/swatch/internal/theme"
	"github.com/opencode-ai/swatch/internal/tokens"
)

// Token formats accepted by GetTokens.
const (
	FormatFlat = "flat"
	FormatTree = "tree"
	FormatCSS  = "css"
)

// watchBuffer bounds queued state changes per WatchState stream.
const watchBuffer = 16

// Controller is the theme state the service exposes. *theme.Manager
// satisfies it.
type Controller interface {
	State() theme.State
	SetTheme(ctx context.Context, id string) error
	SetMode(ctx context.Context, mode design.Mode) error
	ToggleMode(ctx context.Context) error
	Subscribe(fn theme.Listener) (unsubscribe func())
}

// Server implements TokenServiceServer.
type Server struct {
	ctrl      Controller
	tokens    *tokens.Manager
	limiter   *RateLimiter
	logger    zerolog.Logger
	startedAt time.Time
	version   string
}

// ServerOption configures the Server.
type ServerOption func(*Server)

// WithVersion sets the daemon version.
func WithVersion(version string) ServerOption {
	return func(s *Server) {
		s.version = version
	}
}

// WithRateLimiter reports limiter statistics from GetStatus.
func WithRateLimiter(limiter *RateLimiter) ServerOption {
	return func(s *Server) {
		s.limiter = limiter
	}
}

// NewServer creates the token service.
func NewServer(ctrl Controller, tk *tokens.Manager, logger zerolog.Logger, opts ...ServerOption) *Server {
	s := &Server{
		ctrl:      ctrl,
		tokens:    tk,
		logger:    logger,
		startedAt: time.Now(),
		version:   "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetStatus reports daemon health and the active selection.
func (s *Server) GetStatus(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	state := s.ctrl.State()
	fields := map[string]any{
		"version":        s.version,
		"uptime_seconds": time.Since(s.startedAt).Seconds(),
		"theme_id":       state.ThemeID,
		"mode":           string(state.Mode),
	}

	if s.limiter != nil {
		limits := make([]any, 0)
		for _, ms := range s.limiter.Stats() {
			limits = append(limits, map[string]any{
				"method":          ms.Method,
				"total_requests":  float64(ms.TotalRequests),
				"denied_requests": float64(ms.DeniedRequests),
			})
		}
		fields["rate_limits"] = limits
	}
	return newStruct(fields)
}

// GetState returns the active selection.
func (s *Server) GetState(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return stateStruct(s.ctrl.State())
}

// GetTokens returns the active token set in the requested format.
func (s *Server) GetTokens(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	format := stringField(req, "format")
	if format == "" {
		format = FormatFlat
	}

	state := s.tokens.State()
	fields := map[string]any{
		"theme_id": state.ThemeID,
		"mode":     string(state.Mode),
		"format":   format,
	}

	switch format {
	case FormatFlat:
		flat := s.tokens.Flat()
		values := make(map[string]any, len(flat))
		for path, value := range flat {
			values[path] = value
		}
		fields["tokens"] = values
	case FormatTree:
		data, err := s.tokens.JSON()
		if err != nil {
			return nil, status.Errorf(codes.Internal, "encode tokens: %v", err)
		}
		var tree map[string]any
		if err := json.Unmarshal(data, &tree); err != nil {
			return nil, status.Errorf(codes.Internal, "decode tokens: %v", err)
		}
		fields["tokens"] = tree
	case FormatCSS:
		fields["css"] = s.tokens.PropertyBlock()
	default:
		return nil, status.Errorf(codes.InvalidArgument, "unknown format %q (expected flat, tree or css)", format)
	}
	return newStruct(fields)
}

// GetToken resolves one dotted path.
func (s *Server) GetToken(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	path := stringField(req, "path")
	if path == "" {
		return nil, status.Error(codes.InvalidArgument, "path is required")
	}
	value, err := s.tokens.Token(path)
	if err != nil {
		return nil, toStatus(err)
	}
	return newStruct(map[string]any{"path": path, "value": value})
}

// SetTheme selects a theme.
func (s *Server) SetTheme(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id := stringField(req, "theme_id")
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "theme_id is required")
	}
	if err := s.ctrl.SetTheme(ctx, id); err != nil {
		return nil, toStatus(err)
	}
	s.logger.Info().Str("theme", id).Msg("theme set remotely")
	return stateStruct(s.ctrl.State())
}

// SetMode selects light or dark.
func (s *Server) SetMode(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	mode, err := design.ParseMode(stringField(req, "mode"))
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := s.ctrl.SetMode(ctx, mode); err != nil {
		return nil, toStatus(err)
	}
	s.logger.Info().Str("mode", string(mode)).Msg("mode set remotely")
	return stateStruct(s.ctrl.State())
}

// ToggleMode switches to the opposite mode.
func (s *Server) ToggleMode(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	if err := s.ctrl.ToggleMode(ctx); err != nil {
		return nil, toStatus(err)
	}
	return stateStruct(s.ctrl.State())
}

// ValidateContrast grades a color pair.
func (s *Server) ValidateContrast(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	result, err := tokens.ValidateContrast(stringField(req, "foreground"), stringField(req, "background"))
	if err != nil {
		return nil, toStatus(err)
	}
	return newStruct(map[string]any{
		"ratio":           result.Ratio,
		"passes_aa":       result.PassesAA,
		"passes_aaa":      result.PassesAAA,
		"passes_aa_large": result.PassesAALarge,
		"level":           string(result.Level),
	})
}

// WatchState streams the current state and then every change until the
// client goes away. A client that falls behind by more than watchBuffer
// changes misses the intermediate ones; the latest state always follows.
func (s *Server) WatchState(_ *emptypb.Empty, stream WatchStateServer) error {
	ctx := stream.Context()
	updates := make(chan theme.State, watchBuffer)

	unsubscribe := s.ctrl.Subscribe(func(c theme.Change) {
		state := theme.State{ThemeID: c.ThemeID, Mode: c.Mode}
		select {
		case updates <- state:
		default:
			// Listeners run under the theme manager's operation lock and
			// must not block; drop the oldest queued state instead.
			select {
			case <-updates:
			default:
			}
			select {
			case updates <- state:
			default:
			}
		}
	})
	defer unsubscribe()

	if err := sendState(stream, s.ctrl.State()); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case state := <-updates:
			if err := sendState(stream, state); err != nil {
				return err
			}
		}
	}
}

func sendState(stream WatchStateServer, state theme.State) error {
	msg, err := stateStruct(state)
	if err != nil {
		return err
	}
	return stream.Send(msg)
}

func stateStruct(state theme.State) (*structpb.Struct, error) {
	return newStruct(map[string]any{
		"theme_id": state.ThemeID,
		"mode":     string(state.Mode),
	})
}

func newStruct(fields map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

func stringField(req *structpb.Struct, name string) string {
	return req.GetFields()[name].GetStringValue()
}

// toStatus maps domain errors to gRPC status codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, design.ErrUnknownTheme), errors.Is(err, tokens.ErrPathNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, theme.ErrInvalidMode), errors.Is(err, colormath.ErrMalformedColor):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, theme.ErrNotInitialized):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
