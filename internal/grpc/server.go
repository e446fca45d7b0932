// Package grpcserver exposes the portal services over gRPC.
package grpcserver

import (
	"context"
	"errors"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	portalv1 "riderDeliveryPortal/api/portal/v1"
	"riderDeliveryPortal/internal/auth"
	"riderDeliveryPortal/internal/config"
	"riderDeliveryPortal/internal/reconcile"
	"riderDeliveryPortal/internal/service"
	"riderDeliveryPortal/repository"
)

const healthCheckMethod = "/grpc.health.v1.Health/Check"

// Services bundles what the gRPC handlers call into. Reconciler may be nil.
type Services struct {
	Users      repository.UserRepositoryI
	Orders     *service.OrderService
	Assignment *service.AssignmentService
	POD        *service.PODService
	Stats      *service.StatsService
	Profiles   *service.ProfileService
	Reconciler *reconcile.Reconciler
}

func (s *Services) validate() error {
	if s == nil || s.Users == nil || s.Orders == nil || s.Assignment == nil || s.POD == nil || s.Stats == nil || s.Profiles == nil {
		return errors.New("grpcserver: incomplete services")
	}
	return nil
}

// NewServer builds a gRPC server with the portal services and the standard
// health service registered. Calls pass through request logging, JWT
// authentication and, when cfg.RateLimitRPS > 0, a per-caller rate limit.
func NewServer(cfg config.GRPCConfig, jwtSecret string, svcs *Services, log *zap.Logger) (*grpc.Server, error) {
	if err := svcs.validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	chain := []grpc.UnaryServerInterceptor{
		newLoggingInterceptor(log),
		auth.NewUnaryAuthInterceptor(jwtSecret, healthCheckMethod),
	}
	if cfg.RateLimitRPS > 0 {
		chain = append(chain, newRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).unaryInterceptor())
	}
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(chain...))

	portalv1.RegisterAdminServiceServer(srv, &AdminServer{Services: svcs})
	portalv1.RegisterRiderServiceServer(srv, &RiderServer{Services: svcs})
	portalv1.RegisterProfileServiceServer(srv, &ProfileServer{Services: svcs})

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	for _, name := range []string{
		portalv1.AdminService_ServiceDesc.ServiceName,
		portalv1.RiderService_ServiceDesc.ServiceName,
		portalv1.ProfileService_ServiceDesc.ServiceName,
	} {
		hs.SetServingStatus(name, healthpb.HealthCheckResponse_SERVING)
	}
	healthpb.RegisterHealthServer(srv, hs)
	return srv, nil
}

// StartGRPC starts the gRPC server on cfg.GRPC.Address and returns a shutdown function.
func StartGRPC(cfg *config.Config, svcs *Services, log *zap.Logger) (func(context.Context) error, error) {
	if cfg == nil {
		return nil, errors.New("grpcserver: config is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	addr := cfg.GRPC.Address
	if addr == "" {
		addr = ":50051"
	}
	srv, err := NewServer(cfg.GRPC, cfg.Auth.JWTSecret, svcs, log)
	if err != nil {
		return nil, err
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	// Plaintext; TLS is terminated in front of the service.
	go func() {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			log.Error("grpc serve", zap.Error(err))
		}
	}()

	return func(ctx context.Context) error {
		done := make(chan struct{})
		go func() { srv.GracefulStop(); close(done) }()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			srv.Stop()
			return ctx.Err()
		}
	}, nil
}
