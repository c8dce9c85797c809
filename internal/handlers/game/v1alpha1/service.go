package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "certquest.v1alpha1.GameService"

// Full method names
const (
	GameServiceStartSessionMethod = "/" + ServiceName + "/StartSession"
	GameServiceSendInputMethod    = "/" + ServiceName + "/SendInput"
	GameServiceGetSnapshotMethod  = "/" + ServiceName + "/GetSnapshot"
	GameServiceResetSessionMethod = "/" + ServiceName + "/ResetSession"
	GameServiceEndSessionMethod   = "/" + ServiceName + "/EndSession"
	GameServiceListSessionsMethod = "/" + ServiceName + "/ListSessions"
)

// GameServiceServer is the server API for the game service. Requests and
// responses are JSON-shaped google.protobuf.Struct messages.
type GameServiceServer interface {
	StartSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SendInput(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSnapshot(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ResetSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	EndSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListSessions(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedGameServiceServer can be embedded to have forward compatible implementations
type UnimplementedGameServiceServer struct{}

// StartSession is not implemented
func (UnimplementedGameServiceServer) StartSession(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method StartSession not implemented")
}

// SendInput is not implemented
func (UnimplementedGameServiceServer) SendInput(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method SendInput not implemented")
}

// GetSnapshot is not implemented
func (UnimplementedGameServiceServer) GetSnapshot(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetSnapshot not implemented")
}

// ResetSession is not implemented
func (UnimplementedGameServiceServer) ResetSession(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ResetSession not implemented")
}

// EndSession is not implemented
func (UnimplementedGameServiceServer) EndSession(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method EndSession not implemented")
}

// ListSessions is not implemented
func (UnimplementedGameServiceServer) ListSessions(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ListSessions not implemented")
}

// RegisterGameServiceServer registers srv on s
func RegisterGameServiceServer(s grpc.ServiceRegistrar, srv GameServiceServer) {
	s.RegisterService(&GameServiceDesc, srv)
}

type unaryMethod func(GameServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(GameServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(GameServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// GameServiceDesc is the grpc.ServiceDesc for the game service
var GameServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*GameServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "StartSession",
			Handler:    unaryHandler(GameServiceStartSessionMethod, GameServiceServer.StartSession),
		},
		{
			MethodName: "SendInput",
			Handler:    unaryHandler(GameServiceSendInputMethod, GameServiceServer.SendInput),
		},
		{
			MethodName: "GetSnapshot",
			Handler:    unaryHandler(GameServiceGetSnapshotMethod, GameServiceServer.GetSnapshot),
		},
		{
			MethodName: "ResetSession",
			Handler:    unaryHandler(GameServiceResetSessionMethod, GameServiceServer.ResetSession),
		},
		{
			MethodName: "EndSession",
			Handler:    unaryHandler(GameServiceEndSessionMethod, GameServiceServer.EndSession),
		},
		{
			MethodName: "ListSessions",
			Handler:    unaryHandler(GameServiceListSessionsMethod, GameServiceServer.ListSessions),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "certquest/v1alpha1/game.proto",
}

// GameServiceClient is the client API for the game service
type GameServiceClient interface {
	StartSession(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	SendInput(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetSnapshot(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ResetSession(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	EndSession(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListSessions(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type gameServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewGameServiceClient creates a client on top of cc
func NewGameServiceClient(cc grpc.ClientConnInterface) GameServiceClient {
	return &gameServiceClient{cc: cc}
}

func (c *gameServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *gameServiceClient) StartSession(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GameServiceStartSessionMethod, in, opts)
}

func (c *gameServiceClient) SendInput(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GameServiceSendInputMethod, in, opts)
}

func (c *gameServiceClient) GetSnapshot(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GameServiceGetSnapshotMethod, in, opts)
}

func (c *gameServiceClient) ResetSession(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GameServiceResetSessionMethod, in, opts)
}

func (c *gameServiceClient) EndSession(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GameServiceEndSessionMethod, in, opts)
}

func (c *gameServiceClient) ListSessions(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GameServiceListSessionsMethod, in, opts)
}
