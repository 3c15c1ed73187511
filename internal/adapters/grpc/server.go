package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/application"
	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/domain"
)

const (
	serviceName      = "authservice.v1.AuthInternalService"
	verifyTokenRoute = "/" + serviceName + "/VerifyToken"
)

// AuthInternalService lets other services check a session token without
// going through the public HTTP surface.
type AuthInternalService interface {
	VerifyToken(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type AuthInternalServer struct {
	service *application.Service
}

func NewAuthInternalServer(service *application.Service) *AuthInternalServer {
	return &AuthInternalServer{service: service}
}

func Register(server grpc.ServiceRegistrar, svc AuthInternalService) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*AuthInternalService)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "VerifyToken",
				Handler:    verifyTokenHandler(svc),
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "authservice/v1/auth_internal.proto",
	}, svc)
}

// VerifyToken expects {"token": "<jwt>"} and answers {"valid": true,
// "subject": ..., "expires_in": ...}.
func (s *AuthInternalServer) VerifyToken(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	token := req.GetFields()["token"].GetStringValue()
	if token == "" {
		return nil, status.Error(codes.InvalidArgument, "missing token")
	}

	verified, err := s.service.VerifyToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidToken) {
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}
		return nil, status.Error(codes.Internal, "unexpected error")
	}

	resp, err := structpb.NewStruct(map[string]any{
		"valid":      true,
		"subject":    verified.Subject,
		"expires_in": verified.ExpiresIn,
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "build response: %v", err)
	}
	return resp, nil
}

func verifyTokenHandler(svc AuthInternalService) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		req := &structpb.Struct{}
		if err := dec(req); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return svc.VerifyToken(ctx, req)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: verifyTokenRoute,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*structpb.Struct)
			if !ok {
				return nil, status.Error(codes.InvalidArgument, "invalid request type")
			}
			return svc.VerifyToken(ctx, typed)
		}
		return interceptor(ctx, req, info, handler)
	}
}
