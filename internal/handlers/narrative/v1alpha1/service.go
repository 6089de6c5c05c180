package v1alpha1

import (
	"context"

	"google.golang.org/grpc"

	"github.com/KirkDiggler/rpg-narrator/internal/broadcast"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "narrative.v1alpha1.GameService"

// GameServiceServer is the server API for the game service
type GameServiceServer interface {
	CreateSession(context.Context, *CreateSessionRequest) (*SessionResponse, error)
	GetSession(context.Context, *GetSessionRequest) (*SessionResponse, error)
	SubmitAction(context.Context, *SubmitActionRequest) (*SubmitActionResponse, error)
	ForceProcess(context.Context, *SessionRequest) (*ForceProcessResponse, error)
	GetPendingActions(context.Context, *SessionRequest) (*GetPendingActionsResponse, error)
	AddNudge(context.Context, *AddNudgeRequest) (*AddNudgeResponse, error)

	StartCombat(context.Context, *StartCombatRequest) (*CombatResponse, error)
	AddCombatant(context.Context, *AddCombatantRequest) (*CombatResponse, error)
	NextTurn(context.Context, *CombatRequest) (*CombatResponse, error)
	PreviousTurn(context.Context, *CombatRequest) (*CombatResponse, error)
	DamageCombatant(context.Context, *CombatantRequest) (*CombatResponse, error)
	HealCombatant(context.Context, *CombatantRequest) (*CombatResponse, error)
	RemoveCombatant(context.Context, *CombatantRequest) (*CombatResponse, error)
	UpdateCombatant(context.Context, *UpdateCombatantRequest) (*CombatResponse, error)
	EndCombat(context.Context, *CombatRequest) (*CombatResponse, error)
	GetCombat(context.Context, *CombatRequest) (*CombatResponse, error)
	GetActiveCombat(context.Context, *SessionRequest) (*CombatResponse, error)
	ListCombats(context.Context, *SessionRequest) (*ListCombatsResponse, error)

	// WatchSession streams the session's notifications until the client leaves
	WatchSession(*SessionRequest, grpc.ServerStreamingServer[broadcast.Message]) error
}

// RegisterGameServiceServer registers the game service on s
func RegisterGameServiceServer(s grpc.ServiceRegistrar, srv GameServiceServer) {
	s.RegisterService(&GameServiceDesc, srv)
}

// GameServiceDesc describes the game service for grpc.Server
var GameServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*GameServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("CreateSession", GameServiceServer.CreateSession),
		unary("GetSession", GameServiceServer.GetSession),
		unary("SubmitAction", GameServiceServer.SubmitAction),
		unary("ForceProcess", GameServiceServer.ForceProcess),
		unary("GetPendingActions", GameServiceServer.GetPendingActions),
		unary("AddNudge", GameServiceServer.AddNudge),
		unary("StartCombat", GameServiceServer.StartCombat),
		unary("AddCombatant", GameServiceServer.AddCombatant),
		unary("NextTurn", GameServiceServer.NextTurn),
		unary("PreviousTurn", GameServiceServer.PreviousTurn),
		unary("DamageCombatant", GameServiceServer.DamageCombatant),
		unary("HealCombatant", GameServiceServer.HealCombatant),
		unary("RemoveCombatant", GameServiceServer.RemoveCombatant),
		unary("UpdateCombatant", GameServiceServer.UpdateCombatant),
		unary("EndCombat", GameServiceServer.EndCombat),
		unary("GetCombat", GameServiceServer.GetCombat),
		unary("GetActiveCombat", GameServiceServer.GetActiveCombat),
		unary("ListCombats", GameServiceServer.ListCombats),
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "WatchSession",
			Handler:       watchSessionHandler,
			ServerStreams: true,
		},
	},
	Metadata: "narrative/v1alpha1/game.go",
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unary[Req, Res any](method string, call func(GameServiceServer, context.Context, *Req) (*Res, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(GameServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(method)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(srv.(GameServiceServer), ctx, req.(*Req))
			})
		},
	}
}

func watchSessionHandler(srv any, stream grpc.ServerStream) error {
	in := new(SessionRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(GameServiceServer).WatchSession(in, &grpc.GenericServerStream[SessionRequest, broadcast.Message]{ServerStream: stream})
}

// GameServiceClient calls the game service with the JSON codec
type GameServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewGameServiceClient creates a client over an established connection
func NewGameServiceClient(cc grpc.ClientConnInterface) *GameServiceClient {
	return &GameServiceClient{cc: cc}
}

func invoke[Req, Res any](ctx context.Context, c *GameServiceClient, method string, in *Req, opts []grpc.CallOption) (*Res, error) {
	out := new(Res)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// GetSession reads a session
func (c *GameServiceClient) GetSession(ctx context.Context, in *GetSessionRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[GetSessionRequest, SessionResponse](ctx, c, "GetSession", in, opts)
}

// SubmitAction queues an action
func (c *GameServiceClient) SubmitAction(ctx context.Context, in *SubmitActionRequest, opts ...grpc.CallOption) (*SubmitActionResponse, error) {
	return invoke[SubmitActionRequest, SubmitActionResponse](ctx, c, "SubmitAction", in, opts)
}

// ForceProcess runs the turn with the queued actions
func (c *GameServiceClient) ForceProcess(ctx context.Context, in *SessionRequest, opts ...grpc.CallOption) (*ForceProcessResponse, error) {
	return invoke[SessionRequest, ForceProcessResponse](ctx, c, "ForceProcess", in, opts)
}

// GetActiveCombat reads the session's active combat
func (c *GameServiceClient) GetActiveCombat(ctx context.Context, in *SessionRequest, opts ...grpc.CallOption) (*CombatResponse, error) {
	return invoke[SessionRequest, CombatResponse](ctx, c, "GetActiveCombat", in, opts)
}

// NextTurn advances the combat
func (c *GameServiceClient) NextTurn(ctx context.Context, in *CombatRequest, opts ...grpc.CallOption) (*CombatResponse, error) {
	return invoke[CombatRequest, CombatResponse](ctx, c, "NextTurn", in, opts)
}

// WatchSession opens the notification stream for a session
func (c *GameServiceClient) WatchSession(ctx context.Context, in *SessionRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[broadcast.Message], error) {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	stream, err := c.cc.NewStream(ctx, &GameServiceDesc.Streams[0], fullMethod("WatchSession"), opts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[SessionRequest, broadcast.Message]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}
