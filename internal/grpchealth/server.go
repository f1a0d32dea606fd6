// Package grpchealth exposes the standard gRPC health service so
// orchestrators can check the analyzer.
package grpchealth

import (
	"context"
	"errors"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/example/xray-analyzer/internal/logging"
)

// Server serves grpc.health.v1.Health. The overall ("") status is
// NOT_SERVING until Serve is called and again after Shutdown.
type Server struct {
	grpc   *grpc.Server
	health *health.Server
	logger *zap.Logger
}

// New constructs a health server.
func New(logger *zap.Logger) *Server {
	gs := grpc.NewServer()
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(gs, hs)
	return &Server{grpc: gs, health: hs, logger: logger.Named("grpc_health")}
}

// SetServing toggles the overall status.
func (s *Server) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
}

// Serve marks the service as serving and blocks until the server stops.
// A stop caused by Shutdown returns nil.
func (s *Server) Serve(lis net.Listener) error {
	s.SetServing(true)
	s.logger.Info("gRPC health server listening", zap.String("addr", lis.Addr().String()))
	if err := s.grpc.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		wrapped := logging.NewOperationError("grpchealth.serve", "", err)
		s.logger.Error("gRPC health server failed", zap.Error(wrapped))
		return wrapped
	}
	return nil
}

// Shutdown reports NOT_SERVING and stops gracefully, forcing the stop when
// ctx expires first.
func (s *Server) Shutdown(ctx context.Context) {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.grpc.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("graceful stop timed out, forcing stop", zap.Error(ctx.Err()))
		s.grpc.Stop()
		<-done
	}
}
