package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/qlgl/catechism-backend/internal/app/models"
	"github.com/qlgl/catechism-backend/internal/app/models/dto"
	"github.com/qlgl/catechism-backend/internal/pkg/apperrors"
	"github.com/qlgl/catechism-backend/internal/pkg/auth"
)

// userStore is the persistence surface the auth service needs.
type userStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetActiveByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	EmailOrUsernameExists(ctx context.Context, email, username string) (bool, error)
	UpdateRefreshToken(ctx context.Context, userID int64, tokenHash *string) error
}

// AuthService handles authentication operations
type AuthService struct {
	users      userStore
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users userStore, jwtService *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:      users,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Login authenticates a user by username or email. On success the refresh
// token hash is stored on the user row, invalidating any earlier session.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.users.GetActiveByIdentifier(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		s.logger.Warn().Str("username", req.Username).Msg("Login failed: wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	accessToken, refreshToken, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("error generating tokens: %w", err)
	}

	refreshHash, err := auth.HashToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("error hashing refresh token: %w", err)
	}
	if err := s.users.UpdateRefreshToken(ctx, user.ID, &refreshHash); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	s.logger.Info().Int64("userId", user.ID).Str("role", string(user.Role)).Msg("User logged in")

	return &dto.LoginResponse{
		User:         dto.NewUserResponse(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Register creates a new user account. The role defaults to catechist when
// omitted.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	exists, err := s.users.EmailOrUsernameExists(ctx, req.Email, req.Username)
	if err != nil {
		return nil, fmt.Errorf("error checking user uniqueness: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailOrUsernameExists
	}

	role := req.Role
	if role == "" {
		role = models.RoleCatechist
	}
	if !role.IsValid() {
		return nil, apperrors.NewValidationError("unknown role")
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:    req.Email,
		Username: req.Username,
		Password: hashedPassword,
		FullName: req.FullName,
		Role:     role,
		Phone:    req.Phone,
		IsActive: true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userId", user.ID).Str("role", string(role)).Msg("User registered")

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// Refresh validates a refresh token against its stored hash and issues a
// new access token. The refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.RefreshTokenResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrTokenInvalid
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrTokenInvalid
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	// A logout clears the stored hash, so a once-valid token no longer
	// matches anything.
	if user.RefreshToken == nil || !auth.CheckToken(*user.RefreshToken, refreshToken) {
		return nil, apperrors.ErrTokenInvalid
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("error generating access token: %w", err)
	}

	return &dto.RefreshTokenResponse{AccessToken: accessToken}, nil
}

// Logout clears the stored refresh token hash, ending the session.
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	if err := s.users.UpdateRefreshToken(ctx, userID, nil); err != nil {
		return err
	}
	s.logger.Info().Int64("userId", userID).Msg("User logged out")
	return nil
}

// GetProfile retrieves the authenticated user's own profile.
func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}
