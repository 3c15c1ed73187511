package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/adapters/memory"
	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/adapters/security"
	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/application"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newService(t *testing.T) *application.Service {
	t.Helper()
	issuer, err := security.NewJWTIssuer([]byte("grpc-test-secret-grpc-test-secret"), time.Hour)
	require.NoError(t, err)
	return application.NewService(application.Dependencies{
		Users:        memory.NewUserStore(),
		TwoFACodes:   memory.NewTwoFACodeStore(),
		BannedTokens: memory.NewBannedTokenStore(),
		TokenIssuer:  issuer,
	})
}

func dial(t *testing.T, svc *application.Service) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	server := grpc.NewServer()
	Register(server, NewAuthInternalServer(svc))
	go func() { _ = server.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
		server.Stop()
	})
	return conn
}

func verify(ctx context.Context, conn *grpc.ClientConn, token string) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(map[string]any{"token": token})
	if err != nil {
		return nil, err
	}
	resp := &structpb.Struct{}
	if err := conn.Invoke(ctx, verifyTokenRoute, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func TestVerifyTokenOverTheWire(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, application.SignUpRequest{Email: "ada@example.com", Password: "password123"})
	require.NoError(t, err)
	res, err := svc.Login(ctx, application.LoginRequest{Email: "ada@example.com", Password: "password123"})
	require.NoError(t, err)
	require.NotNil(t, res.Token)

	conn := dial(t, svc)

	resp, err := verify(ctx, conn, res.Token.Value)
	require.NoError(t, err)
	assert.True(t, resp.GetFields()["valid"].GetBoolValue())
	assert.Equal(t, "ada@example.com", resp.GetFields()["subject"].GetStringValue())

	require.NoError(t, svc.Logout(ctx, res.Token.Value))
	_, err = verify(ctx, conn, res.Token.Value)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = verify(ctx, conn, "")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestVerifyTokenDirectRejectsMissingField(t *testing.T) {
	server := NewAuthInternalServer(newService(t))
	_, err := server.VerifyToken(context.Background(), &structpb.Struct{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
