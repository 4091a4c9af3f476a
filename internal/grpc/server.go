//go:build grpcserver

package grpcserver

import (
	"context"
	"net"

	adminv1 "cylinderManagement/api/admin/v1"
	authv1 "cylinderManagement/api/auth/v1"
	dispatcherv1 "cylinderManagement/api/dispatcher/v1"
	fillerv1 "cylinderManagement/api/filler/v1"
	"cylinderManagement/internal/auth"
	"cylinderManagement/internal/config"
	"cylinderManagement/internal/lifecycle"
	"cylinderManagement/repository"

	"google.golang.org/grpc"
)

const (
	healthCheckMethod = "/grpc.health.v1.Health/Check"
	loginMethod       = "/auth.v1.AuthService/Login"
)

// Repos bundles the four repositories every service needs.
type Repos struct {
	Users     *repository.UserRepository
	Cylinders *repository.CylinderRepository
	Orders    *repository.OrderRepository
	Pickups   *repository.PickupRepository
}

// StartGRPC starts the gRPC server on the configured address and returns a
// shutdown function. It registers the Auth, Admin, Filler and Dispatcher
// services behind the JWT interceptor; Login and the health check are the
// only unauthenticated methods.
func StartGRPC(cfg *config.Config, repos Repos, lc *lifecycle.Service) (func(context.Context) error, error) {
	if cfg == nil {
		panic("config is required")
	}

	addr := cfg.GRPC.Address
	if addr == "" {
		addr = ":50051"
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	srv := grpc.NewServer(grpc.UnaryInterceptor(auth.NewUnaryAuthInterceptor(cfg.Auth.JWTSecret, healthCheckMethod, loginMethod)))

	authv1.RegisterAuthServiceServer(srv, &AuthServer{Users: repos.Users, JWTSecret: cfg.Auth.JWTSecret})
	adminv1.RegisterAdminServiceServer(srv, &AdminServer{Repos: repos, Lifecycle: lc})
	fillerv1.RegisterFillerServiceServer(srv, &FillerServer{Repos: repos, Lifecycle: lc})
	dispatcherv1.RegisterDispatcherServiceServer(srv, &DispatcherServer{Repos: repos, Lifecycle: lc})

	go func() { _ = srv.Serve(lis) }()

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
