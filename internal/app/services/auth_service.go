package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/app/models/dto"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
	"github.com/yigit/collabhub/internal/pkg/auth"
)

// AuthService handles local signup and login
type AuthService struct {
	users      UserStore
	jwtService *auth.JWTService
	bcryptCost int
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users UserStore, jwtService *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:      users,
		jwtService: jwtService,
		bcryptCost: auth.BcryptCost,
		logger:     logger,
	}
}

// Signup registers a local account and returns a token for it
func (s *AuthService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error) {
	hash, err := auth.HashPasswordWithCost(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	ts := now()
	user := &models.User{
		ID:           uuid.New(),
		Username:     strings.TrimSpace(req.Username),
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: &hash,
		AuthProvider: models.AuthProviderLocal,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("userID", user.ID.String()).Str("username", user.Username).Msg("User signed up")
	return s.issue(user)
}

// Login verifies credentials and returns a token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.FindByEmailOrUsername(ctx, req.Identifier)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Invalid email/username or password")
		}
		return nil, err
	}

	if user.AuthProvider != models.AuthProviderLocal || user.PasswordHash == nil {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "This account uses federated sign-in")
	}

	if !auth.CheckPassword(*user.PasswordHash, req.Password) {
		s.logger.Debug().Str("userID", user.ID.String()).Msg("Password mismatch")
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Invalid email/username or password")
	}

	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*dto.AuthResponse, error) {
	token, expiresIn, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Token: dto.TokenResponse{AccessToken: token, TokenType: "Bearer", ExpiresIn: expiresIn},
		User:  dto.NewUserResponse(user),
	}, nil
}
