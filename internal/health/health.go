// Package health reports whether the service can reach its database, over
// HTTP (/health) and the standard grpc.health.v1 service.
package health

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/MikeMC777/ordenes-ecom/internal/db"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"

	pingTimeout = 3 * time.Second
)

type Database struct {
	Connected bool `json:"connected"`
	// ResponseTime is in milliseconds.
	ResponseTime int64  `json:"responseTime"`
	Error        string `json:"error,omitempty"`
}

// Report is the body of GET /health.
// swagger:model
type Report struct {
	Status    string    `json:"status" example:"healthy"`
	Timestamp time.Time `json:"timestamp"`
	Database  Database  `json:"database"`
}

func (r Report) Healthy() bool { return r.Status == StatusHealthy }

type Service struct {
	db   db.Pinger
	log  *slog.Logger
	grpc *grpchealth.Server
	now  func() time.Time
}

func NewService(p db.Pinger, log *slog.Logger) *Service {
	return &Service{db: p, log: log, grpc: grpchealth.NewServer(), now: time.Now}
}

// Check pings the database and mirrors the result onto the gRPC health server.
func (s *Service) Check(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	start := s.now()
	err := s.db.Ping(ctx)
	rep := Report{
		Status:    StatusHealthy,
		Timestamp: s.now().UTC(),
		Database: Database{
			Connected:    err == nil,
			ResponseTime: s.now().Sub(start).Milliseconds(),
		},
	}
	status := healthpb.HealthCheckResponse_SERVING
	if err != nil {
		s.log.Error("health check failed", "err", err)
		rep.Status = StatusUnhealthy
		rep.Database.Error = err.Error()
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.grpc.SetServingStatus("", status)
	return rep
}

// Watch refreshes the gRPC serving status every interval until ctx is done.
func (s *Service) Watch(ctx context.Context, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	s.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			s.grpc.Shutdown()
			return nil
		case <-t.C:
			s.Check(ctx)
		}
	}
}

// Register exposes grpc.health.v1 on gs.
func (s *Service) Register(gs *grpc.Server) {
	healthpb.RegisterHealthServer(gs, s.grpc)
}
