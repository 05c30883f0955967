package grpc_test

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/shashiranjanraj/dinehub/pkg/grpc"
)

type pingerFunc func(context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func dial(t *testing.T, p grpc.Pinger) grpc_health_v1.HealthClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(p)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpclib.NewClient("passthrough:///bufnet",
		grpclib.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpclib.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return grpc_health_v1.NewHealthClient(conn)
}

func TestHealthFollowsStorePing(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	client := dial(t, pingerFunc(func(context.Context) error {
		if healthy.Load() {
			return nil
		}
		return errors.New("store down")
	}))

	resp, err := client.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.GetStatus())

	healthy.Store(false)
	resp, err = client.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, resp.GetStatus())
}

func TestHealthUnknownService(t *testing.T) {
	client := dial(t, nil)

	_, err := client.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: "billing"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestRequestIDEchoed(t *testing.T) {
	client := dial(t, nil)

	var header metadata.MD
	ctx := metadata.AppendToOutgoingContext(context.Background(), "x-request-id", "batch-42")
	_, err := client.Check(ctx, &grpc_health_v1.HealthCheckRequest{}, grpclib.Header(&header))
	require.NoError(t, err)
	assert.Equal(t, []string{"batch-42"}, header.Get("x-request-id"))

	_, err = client.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{}, grpclib.Header(&header))
	require.NoError(t, err)
	require.Len(t, header.Get("x-request-id"), 1)
	assert.NotEqual(t, "batch-42", header.Get("x-request-id")[0])
}
