package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitvault/internal/auth"
	"github.com/mmynk/splitvault/internal/middleware"
	"github.com/mmynk/splitvault/internal/storage"
	pb "github.com/mmynk/splitvault/pkg/api"
	"github.com/mmynk/splitvault/pkg/api/apiconnect"
)

var _ apiconnect.AuthServiceHandler = (*AuthService)(nil)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

// Register creates a new account and returns a session token for it.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[pb.RegisterRequest]) (*connect.Response[pb.RegisterResponse], error) {
	s.logger.Info("Register request", "email", req.Msg.Email)

	// Validate input
	if req.Msg.Email == "" || req.Msg.DisplayName == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	account, err := s.authenticator.Register(ctx, req.Msg.Email, req.Msg.DisplayName, req.Msg.Password)
	if err != nil {
		s.logger.Error("Registration failed", "email", req.Msg.Email, "error", err)
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			return nil, connect.NewError(connect.CodeAlreadyExists, err)
		case errors.Is(err, auth.ErrWeakPassword):
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	token, err := s.jwtManager.Generate(account)
	if err != nil {
		s.logger.Error("Failed to generate token", "address", account.Address, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("Account registered", "address", account.Address, "email", account.Email)
	return connect.NewResponse(&pb.RegisterResponse{
		Account: toPBAccount(account),
		Token:   token,
	}), nil
}

// Login authenticates an account and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[pb.LoginRequest]) (*connect.Response[pb.LoginResponse], error) {
	s.logger.Info("Login request", "email", req.Msg.Email)

	if req.Msg.Email == "" || req.Msg.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	account, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "email", req.Msg.Email, "error", err)
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	}

	token, err := s.jwtManager.Generate(account)
	if err != nil {
		s.logger.Error("Failed to generate token", "address", account.Address, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("Account logged in", "address", account.Address)
	return connect.NewResponse(&pb.LoginResponse{
		Account: toPBAccount(account),
		Token:   token,
	}), nil
}

// GetCurrentAccount returns the authenticated caller's account.
func (s *AuthService) GetCurrentAccount(ctx context.Context, req *connect.Request[pb.GetCurrentAccountRequest]) (*connect.Response[pb.GetCurrentAccountResponse], error) {
	address := middleware.GetCaller(ctx)
	if address == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	account, err := s.authenticator.Lookup(ctx, address)
	if errors.Is(err, storage.ErrAccountNotFound) {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&pb.GetCurrentAccountResponse{Account: toPBAccount(account)}), nil
}
