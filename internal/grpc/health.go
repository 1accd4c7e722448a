package grpc

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the service reported next to the overall ("") status
const ServiceName = "tripsync.api"

// Probe reports whether a dependency is usable
type Probe func(ctx context.Context) error

// HealthServer publishes grpc.health.v1.Health, driven by a periodic probe
type HealthServer struct {
	server   *health.Server
	probe    Probe
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
	serving  bool
}

// NewHealthServer creates a health server that starts as NOT_SERVING
func NewHealthServer(probe Probe, interval time.Duration, logger *slog.Logger) *HealthServer {
	h := &HealthServer{
		server:   health.NewServer(),
		probe:    probe,
		interval: interval,
		timeout:  interval / 2,
		logger:   logger,
	}
	h.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	return h
}

// Register attaches the health service to a gRPC server
func (h *HealthServer) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.server)
}

// Check runs the probe once and publishes the result
func (h *HealthServer) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	err := h.probe(ctx)
	serving := err == nil
	if serving != h.serving {
		if serving {
			h.logger.Info("💚 [Health] Dependencies healthy, serving")
		} else {
			h.logger.Warn("💔 [Health] Dependency check failed, not serving", "error", err)
		}
	}
	h.serving = serving

	if serving {
		h.setStatus(healthpb.HealthCheckResponse_SERVING)
	} else {
		h.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	}
	return serving
}

// Run probes on every interval until ctx is cancelled, then marks the service down
func (h *HealthServer) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			h.server.Shutdown()
			h.logger.Info("🛑 [Health] Prober stopped")
			return
		case <-ticker.C:
			h.Check(ctx)
		}
	}
}

func (h *HealthServer) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	h.server.SetServingStatus("", status)
	h.server.SetServingStatus(ServiceName, status)
}
