//go:build grpcserver

package grpcserver

import (
	"context"
	"time"

	authv1 "cylinderManagement/api/auth/v1"
	"cylinderManagement/internal/auth"
	"cylinderManagement/models"
	"cylinderManagement/repository"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const tokenTTL = 12 * time.Hour

// AuthServer implements the login gate.
type AuthServer struct {
	authv1.UnimplementedAuthServiceServer
	Users     *repository.UserRepository
	JWTSecret string
}

// Login verifies email+password against the users table and returns the
// session user record plus a bearer token. Unknown email and wrong password
// produce the same message.
func (s *AuthServer) Login(ctx context.Context, req *authv1.LoginRequest) (*authv1.LoginResponse, error) {
	if req == nil || req.GetEmail() == "" || req.GetPassword() == "" {
		return nil, status.Error(codes.InvalidArgument, "email and password are required")
	}

	u, err := s.Users.GetByEmail(ctx, req.GetEmail())
	if err != nil {
		return nil, status.Errorf(codes.Internal, "get user: %v", err)
	}
	if u == nil || !auth.CheckPassword(u.PasswordHash, req.GetPassword()) {
		return nil, status.Error(codes.Unauthenticated, "invalid credentials")
	}

	tok, err := auth.IssueJWT(s.JWTSecret, u, tokenTTL)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "issue token: %v", err)
	}

	return &authv1.LoginResponse{Token: tok, User: toProtoUser(u)}, nil
}

func toProtoUser(u *models.User) *authv1.User {
	if u == nil {
		return nil
	}
	return &authv1.User{
		Id:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		UserType: string(u.UserType),
	}
}
