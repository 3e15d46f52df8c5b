package tokend

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/opencode-ai/swatch/internal/design"
	"github.com/opencode-ai/swatch/internal/theme"
	"github.com/opencode-ai/swatch/internal/tokens"
)

// Client is a typed client for the token service.
type Client struct {
	cc   grpc.ClientConnInterface
	conn *grpc.ClientConn
}

// NewClient wraps an existing connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Dial connects to a tokend listening on addr without transport security.
func Dial(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to tokend at %s: %w", addr, err)
	}
	return &Client{cc: conn, conn: conn}, nil
}

// Close releases a connection created by Dial.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// Status holds the GetStatus response.
type Status struct {
	Version       string
	UptimeSeconds float64
	State         theme.State
	RateLimits    []MethodStats
}

// Status reports daemon health.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodGetStatus, &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	fields := out.GetFields()
	st := &Status{
		Version:       fields["version"].GetStringValue(),
		UptimeSeconds: fields["uptime_seconds"].GetNumberValue(),
		State:         decodeState(out),
	}
	for _, v := range fields["rate_limits"].GetListValue().GetValues() {
		f := v.GetStructValue().GetFields()
		st.RateLimits = append(st.RateLimits, MethodStats{
			Method:         f["method"].GetStringValue(),
			TotalRequests:  int64(f["total_requests"].GetNumberValue()),
			DeniedRequests: int64(f["denied_requests"].GetNumberValue()),
		})
	}
	return st, nil
}

// State returns the active selection.
func (c *Client) State(ctx context.Context) (theme.State, error) {
	return c.invokeState(ctx, MethodGetState, &emptypb.Empty{})
}

// SetTheme selects a theme and returns the resulting state.
func (c *Client) SetTheme(ctx context.Context, id string) (theme.State, error) {
	return c.invokeState(ctx, MethodSetTheme, stringStruct("theme_id", id))
}

// SetMode selects a mode and returns the resulting state.
func (c *Client) SetMode(ctx context.Context, mode design.Mode) (theme.State, error) {
	return c.invokeState(ctx, MethodSetMode, stringStruct("mode", string(mode)))
}

// ToggleMode flips the mode and returns the resulting state.
func (c *Client) ToggleMode(ctx context.Context) (theme.State, error) {
	return c.invokeState(ctx, MethodToggleMode, &emptypb.Empty{})
}

// FlatTokens returns the flattened active token set.
func (c *Client) FlatTokens(ctx context.Context) (map[string]string, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodGetTokens, stringStruct("format", FormatFlat), out); err != nil {
		return nil, err
	}
	values := out.GetFields()["tokens"].GetStructValue().GetFields()
	flat := make(map[string]string, len(values))
	for path, v := range values {
		flat[path] = v.GetStringValue()
	}
	return flat, nil
}

// TokenTree returns the active token tree as decoded JSON.
func (c *Client) TokenTree(ctx context.Context) (map[string]any, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodGetTokens, stringStruct("format", FormatTree), out); err != nil {
		return nil, err
	}
	return out.GetFields()["tokens"].GetStructValue().AsMap(), nil
}

// PropertyBlock returns the custom property stylesheet.
func (c *Client) PropertyBlock(ctx context.Context) (string, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodGetTokens, stringStruct("format", FormatCSS), out); err != nil {
		return "", err
	}
	return out.GetFields()["css"].GetStringValue(), nil
}

// Token resolves one dotted path.
func (c *Client) Token(ctx context.Context, path string) (string, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodGetToken, stringStruct("path", path), out); err != nil {
		return "", err
	}
	return out.GetFields()["value"].GetStringValue(), nil
}

// ValidateContrast grades a color pair.
func (c *Client) ValidateContrast(ctx context.Context, fg, bg string) (tokens.ContrastResult, error) {
	in, err := structpb.NewStruct(map[string]any{"foreground": fg, "background": bg})
	if err != nil {
		return tokens.ContrastResult{}, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodValidateContrast, in, out); err != nil {
		return tokens.ContrastResult{}, err
	}
	f := out.GetFields()
	return tokens.ContrastResult{
		Ratio:         f["ratio"].GetNumberValue(),
		PassesAA:      f["passes_aa"].GetBoolValue(),
		PassesAAA:     f["passes_aaa"].GetBoolValue(),
		PassesAALarge: f["passes_aa_large"].GetBoolValue(),
		Level:         tokens.ContrastLevel(f["level"].GetStringValue()),
	}, nil
}

// StateStream receives state updates from WatchState.
type StateStream struct {
	stream grpc.ClientStream
}

// Recv blocks until the next state arrives.
func (s *StateStream) Recv() (theme.State, error) {
	out := new(structpb.Struct)
	if err := s.stream.RecvMsg(out); err != nil {
		return theme.State{}, err
	}
	return decodeState(out), nil
}

// WatchState opens a stream that yields the current state and then every
// change. Cancel ctx to end it.
func (c *Client) WatchState(ctx context.Context) (*StateStream, error) {
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[0], MethodWatchState)
	if err != nil {
		return nil, err
	}
	if err := stream.SendMsg(&emptypb.Empty{}); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}
	return &StateStream{stream: stream}, nil
}

func (c *Client) invokeState(ctx context.Context, method string, in any) (theme.State, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out); err != nil {
		return theme.State{}, err
	}
	return decodeState(out), nil
}

func decodeState(s *structpb.Struct) theme.State {
	f := s.GetFields()
	return theme.State{
		ThemeID: f["theme_id"].GetStringValue(),
		Mode:    design.Mode(f["mode"].GetStringValue()),
	}
}

func stringStruct(key, value string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		key: structpb.NewStringValue(value),
	}}
}
