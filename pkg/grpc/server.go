// Package grpc runs the internal gRPC listener. It exposes the standard
// grpc.health.v1.Health service, answering SERVING only while the backing
// store responds to pings, plus server reflection for grpcurl.
//
//	srv, err := grpc.Start(config.GRPCPort(), stores)
//	// ...run until signal...
//	grpc.Stop(srv)
package grpc

import (
	"context"
	"fmt"
	"net"
	"runtime/debug"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/shashiranjanraj/dinehub/pkg/logger"
	"github.com/shashiranjanraj/dinehub/pkg/metrics"
	"github.com/shashiranjanraj/dinehub/pkg/reqid"
)

// Pinger is anything whose liveness can be probed, e.g. the store set.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ─── Prometheus metrics ───────────────────────────────────────────────────────

var (
	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dinehub",
		Name:      "grpc_server_handled_total",
		Help:      "Total number of gRPC calls completed by method and code.",
	}, []string{"grpc_method", "grpc_code"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dinehub",
		Name:      "grpc_server_handling_seconds",
		Help:      "Histogram of gRPC response latency in seconds.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"grpc_method"})
)

func init() {
	metrics.MustRegister(requestsTotal, requestDuration)
}

// ─── Interceptors ─────────────────────────────────────────────────────────────

// requestIDInterceptor adopts the caller's x-request-id metadata, or mints
// one, and scopes the call's logger to it.
func requestIDInterceptor(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	var upstream string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get(reqid.MetadataKey); len(v) > 0 {
			upstream = v[0]
		}
	}
	id := reqid.Or(upstream)
	_ = grpc.SetHeader(ctx, metadata.Pairs(reqid.MetadataKey, id))

	ctx = reqid.WithValue(ctx, id)
	ctx = logger.InjectLogger(ctx, logger.L.With("request_id", id))
	return handler(ctx, req)
}

func recoveryInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
	defer func() {
		if r := recover(); r != nil {
			metrics.Panics.WithLabelValues("grpc").Inc()
			logger.WithCtx(ctx).Error("grpc: panic recovered",
				"method", info.FullMethod,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			err = status.Errorf(codes.Internal, "internal server error")
		}
	}()
	return handler(ctx, req)
}

// observeInterceptor logs and records metrics for each unary call.
func observeInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	dur := time.Since(start)

	code := status.Code(err)
	requestsTotal.WithLabelValues(info.FullMethod, code.String()).Inc()
	requestDuration.WithLabelValues(info.FullMethod).Observe(dur.Seconds())

	logger.WithCtx(ctx).Debug("grpc: request",
		"method", info.FullMethod,
		"duration_ms", dur.Milliseconds(),
		"code", code.String(),
	)
	return resp, err
}

// ─── Health service ───────────────────────────────────────────────────────────

type healthServer struct {
	grpc_health_v1.UnimplementedHealthServer
	store Pinger
}

func (h *healthServer) status(ctx context.Context) grpc_health_v1.HealthCheckResponse_ServingStatus {
	if h.store == nil {
		return grpc_health_v1.HealthCheckResponse_SERVING
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		logger.WithCtx(ctx).Warn("grpc: health ping failed", "error", err)
		return grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	return grpc_health_v1.HealthCheckResponse_SERVING
}

func (h *healthServer) Check(ctx context.Context, req *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	switch req.GetService() {
	case "", "dinehub":
		return &grpc_health_v1.HealthCheckResponse{Status: h.status(ctx)}, nil
	default:
		return nil, status.Errorf(codes.NotFound, "unknown service %q", req.GetService())
	}
}

func (h *healthServer) Watch(req *grpc_health_v1.HealthCheckRequest, stream grpc_health_v1.Health_WatchServer) error {
	return stream.Send(&grpc_health_v1.HealthCheckResponse{Status: h.status(stream.Context())})
}

// ─── Public API ───────────────────────────────────────────────────────────────

// NewServer builds the gRPC server without binding a port.
func NewServer(store Pinger) *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(requestIDInterceptor, recoveryInterceptor, observeInterceptor),
		grpc.MaxRecvMsgSize(4*1024*1024),
		grpc.MaxSendMsgSize(4*1024*1024),
	)
	grpc_health_v1.RegisterHealthServer(srv, &healthServer{store: store})
	reflection.Register(srv)
	return srv
}

// Start listens on port and serves in the background.
func Start(port string, store Pinger) (*grpc.Server, error) {
	addr := ":" + port

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("grpc: listen on %s: %w", addr, err)
	}

	srv := NewServer(store)
	logger.Info("gRPC server starting", "addr", addr)

	go func() {
		if err := srv.Serve(lis); err != nil {
			logger.Error("grpc: serve error", "error", err)
		}
	}()

	return srv, nil
}

// Stop drains in-flight RPCs and shuts the server down.
func Stop(srv *grpc.Server) {
	if srv == nil {
		return
	}
	logger.Info("gRPC server shutting down")
	srv.GracefulStop()
}
