package tokend

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name. Messages are
// well-known protobuf types: requests and responses are Structs whose
// fields are listed on each method of TokenServiceServer.
const ServiceName = "swatch.tokend.v1.TokenService"

// Full method names, as seen by interceptors.
const (
	MethodGetStatus        = "/" + ServiceName + "/GetStatus"
	MethodGetState         = "/" + ServiceName + "/GetState"
	MethodGetTokens        = "/" + ServiceName + "/GetTokens"
	MethodGetToken         = "/" + ServiceName + "/GetToken"
	MethodSetTheme         = "/" + ServiceName + "/SetTheme"
	MethodSetMode          = "/" + ServiceName + "/SetMode"
	MethodToggleMode       = "/" + ServiceName + "/ToggleMode"
	MethodValidateContrast = "/" + ServiceName + "/ValidateContrast"
	MethodWatchState       = "/" + ServiceName + "/WatchState"
)

// TokenServiceServer is the server API for the token service.
type TokenServiceServer interface {
	// GetStatus returns {version, uptime_seconds, theme_id, mode}.
	GetStatus(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	// GetState returns {theme_id, mode}.
	GetState(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	// GetTokens takes {format: flat|tree|css} and returns {theme_id, mode,
	// format} plus tokens (flat, tree) or css.
	GetTokens(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// GetToken takes {path} and returns {path, value}.
	GetToken(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// SetTheme takes {theme_id} and returns the new state.
	SetTheme(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// SetMode takes {mode} and returns the new state.
	SetMode(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// ToggleMode returns the new state.
	ToggleMode(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	// ValidateContrast takes {foreground, background} and returns
	// {ratio, passes_aa, passes_aaa, passes_aa_large, level}.
	ValidateContrast(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// WatchState sends the current state, then every applied change.
	WatchState(*emptypb.Empty, WatchStateServer) error
}

// WatchStateServer is the server side of a WatchState stream.
type WatchStateServer interface {
	Send(*structpb.Struct) error
	grpc.ServerStream
}

type watchStateServer struct {
	grpc.ServerStream
}

func (s *watchStateServer) Send(m *structpb.Struct) error {
	return s.ServerStream.SendMsg(m)
}

// RegisterTokenServiceServer registers srv on s.
func RegisterTokenServiceServer(s grpc.ServiceRegistrar, srv TokenServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ServiceDesc describes the token service for grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TokenServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetStatus", Handler: emptyHandler(MethodGetStatus, TokenServiceServer.GetStatus)},
		{MethodName: "GetState", Handler: emptyHandler(MethodGetState, TokenServiceServer.GetState)},
		{MethodName: "GetTokens", Handler: structHandler(MethodGetTokens, TokenServiceServer.GetTokens)},
		{MethodName: "GetToken", Handler: structHandler(MethodGetToken, TokenServiceServer.GetToken)},
		{MethodName: "SetTheme", Handler: structHandler(MethodSetTheme, TokenServiceServer.SetTheme)},
		{MethodName: "SetMode", Handler: structHandler(MethodSetMode, TokenServiceServer.SetMode)},
		{MethodName: "ToggleMode", Handler: emptyHandler(MethodToggleMode, TokenServiceServer.ToggleMode)},
		{MethodName: "ValidateContrast", Handler: structHandler(MethodValidateContrast, TokenServiceServer.ValidateContrast)},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "WatchState", Handler: watchStateHandler, ServerStreams: true},
	},
	Metadata: "swatch/tokend/v1",
}

type emptyMethod func(TokenServiceServer, context.Context, *emptypb.Empty) (*structpb.Struct, error)

type structMethod func(TokenServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func emptyHandler(fullMethod string, call emptyMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(emptypb.Empty)
		if err := dec(in); err != nil {
			return nil, err
		}
		s := srv.(TokenServiceServer)
		if interceptor == nil {
			return call(s, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return call(s, ctx, req.(*emptypb.Empty))
		})
	}
}

func structHandler(fullMethod string, call structMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		s := srv.(TokenServiceServer)
		if interceptor == nil {
			return call(s, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return call(s, ctx, req.(*structpb.Struct))
		})
	}
}

func watchStateHandler(srv any, stream grpc.ServerStream) error {
	in := new(emptypb.Empty)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(TokenServiceServer).WatchState(in, &watchStateServer{stream})
}
