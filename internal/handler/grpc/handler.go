// Package grpc exposes the standard gRPC health service of the remote
// store. The serving status follows the database connection.
package grpc

import (
	"context"
	"time"

	"github.com/sevenoy/GeminiMeds/internal/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name reported for the remote store.
const ServiceName = "geminimeds.RemoteStore"

// Pinger checks a backing dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler is the root gRPC transport handler.
type Handler struct {
	health *health.Server
	pinger Pinger

	logger *logger.Logger
}

// NewHandler returns a handler reporting SERVING until the first failed
// ping. pinger may be nil, in which case the status never changes.
func NewHandler(pinger Pinger, logger *logger.Logger) *Handler {
	logger.Debug().Msg("gRPC handler created")

	h := &Handler{
		health: health.NewServer(),
		pinger: pinger,
		logger: logger,
	}
	h.setServing(true)
	return h
}

// Register installs the health service on s.
func (h *Handler) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.health)
}

// Watch pings the dependency every interval and updates the serving status
// until ctx ends.
func (h *Handler) Watch(ctx context.Context, interval time.Duration) {
	if h.pinger == nil {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.check(ctx)
		}
	}
}

func (h *Handler) check(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := h.pinger.Ping(ctx)
	if err != nil {
		h.logger.Warn().Err(err).Msg("health check failed")
	}
	h.setServing(err == nil)
}

func (h *Handler) setServing(ok bool) {
	status := healthpb.HealthCheckResponse_SERVING
	if !ok {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
}

// Shutdown reports NOT_SERVING to every watcher.
func (h *Handler) Shutdown() {
	h.health.Shutdown()
}
