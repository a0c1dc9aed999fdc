package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// AuthServiceName is the gRPC service answering for the caller's session.
// Every method runs behind the token gate.
const AuthServiceName = "blogkeeper.auth.v1.Auth"

const (
	MethodMe           = "/" + AuthServiceName + "/Me"
	MethodWatchSession = "/" + AuthServiceName + "/WatchSession"
)

// AuthServer is implemented by GRPCServer.
type AuthServer interface {
	// Me returns the identity carried by the caller's token.
	Me(ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error)
	// WatchSession sends the identity once, then holds the stream open until
	// the token expires (Unauthenticated) or the server stops (Unavailable).
	WatchSession(in *emptypb.Empty, stream grpc.ServerStream) error
}

// The messages are well-known protobuf types, so the descriptor is written
// by hand instead of generated from a .proto file.
var authServiceDesc = grpc.ServiceDesc{
	ServiceName: AuthServiceName,
	HandlerType: (*AuthServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Me", Handler: authMeHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "WatchSession", Handler: authWatchSessionHandler, ServerStreams: true},
	},
}

func authMeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AuthServer).Me(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodMe}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AuthServer).Me(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func authWatchSessionHandler(srv any, stream grpc.ServerStream) error {
	in := new(emptypb.Empty)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(AuthServer).WatchSession(in, stream)
}

func (s *GRPCServer) Me(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	claims, err := auth.RequireClaims(ctx)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, auth.PublicMessage(err))
	}
	return s.claimsMessage(ctx, claims)
}

func (s *GRPCServer) WatchSession(_ *emptypb.Empty, stream grpc.ServerStream) error {
	ctx := stream.Context()

	claims, err := auth.RequireClaims(ctx)
	if err != nil {
		return status.Error(codes.Unauthenticated, auth.PublicMessage(err))
	}

	msg, err := s.claimsMessage(ctx, claims)
	if err != nil {
		return err
	}
	if err := stream.SendMsg(msg); err != nil {
		return err
	}

	timer := time.NewTimer(time.Until(claims.ExpiresAt))
	defer timer.Stop()

	select {
	case <-timer.C:
		return status.Error(codes.Unauthenticated, auth.PublicMessage(auth.ErrTokenExpired))
	case <-s.stopping:
		return status.Error(codes.Unavailable, "server is shutting down")
	case <-ctx.Done():
		return status.FromContextError(ctx.Err()).Err()
	}
}

func (s *GRPCServer) claimsMessage(ctx context.Context, c auth.Claims) (*structpb.Struct, error) {
	msg, err := structpb.NewStruct(map[string]any{
		"id":        c.SubjectID,
		"email":     c.Email,
		"username":  c.Username,
		"issuedAt":  c.IssuedAt.Format(time.RFC3339),
		"expiresAt": c.ExpiresAt.Format(time.RFC3339),
	})
	if err != nil {
		s.logger.Error(ctx, "encode claims failed", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}
	return msg, nil
}
