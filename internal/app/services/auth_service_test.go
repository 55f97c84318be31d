package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qlgl/catechism-backend/internal/app/models"
	"github.com/qlgl/catechism-backend/internal/app/models/dto"
	"github.com/qlgl/catechism-backend/internal/pkg/apperrors"
	"github.com/qlgl/catechism-backend/internal/pkg/auth"
)

type stubUserStore struct {
	users  map[int64]*models.User
	nextID int64
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{users: map[int64]*models.User{}, nextID: 1}
}

func (s *stubUserStore) Create(_ context.Context, user *models.User) error {
	user.ID = s.nextID
	s.nextID++
	s.users[user.ID] = user
	return nil
}

func (s *stubUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (s *stubUserStore) GetActiveByIdentifier(_ context.Context, identifier string) (*models.User, error) {
	for _, user := range s.users {
		if (user.Username == identifier || user.Email == identifier) && user.IsActive {
			return user, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (s *stubUserStore) EmailOrUsernameExists(_ context.Context, email, username string) (bool, error) {
	for _, user := range s.users {
		if user.Email == email || user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubUserStore) UpdateRefreshToken(_ context.Context, userID int64, tokenHash *string) error {
	user, ok := s.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.RefreshToken = tokenHash
	return nil
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		AccessSecret:    "test-access-secret",
		RefreshSecret:   "test-refresh-secret",
		AccessTokenExp:  15 * time.Minute,
		RefreshTokenExp: 7 * 24 * time.Hour,
		TokenIssuer:     "qlgl.test",
	})
}

func seedUser(t *testing.T, store *stubUserStore, password string) *models.User {
	t.Helper()
	hashed, err := auth.HashPassword(password)
	require.NoError(t, err)
	user := &models.User{
		Email:    "glv@qlgl.test",
		Username: "glv1",
		Password: hashed,
		FullName: "Nguyễn Văn GLV",
		Role:     models.RoleCatechist,
		IsActive: true,
	}
	require.NoError(t, store.Create(context.Background(), user))
	return user
}

func TestAuthService_Login(t *testing.T) {
	t.Run("success stores the refresh token hash", func(t *testing.T) {
		store := newStubUserStore()
		user := seedUser(t, store, "secret123")
		jwtService := newTestJWTService()
		service := NewAuthService(store, jwtService, zerolog.Nop())

		resp, err := service.Login(context.Background(), &dto.LoginRequest{
			Username: "glv1",
			Password: "secret123",
		})
		require.NoError(t, err)

		assert.Equal(t, user.ID, resp.User.ID)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)

		claims, err := jwtService.ValidateAccessToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, string(models.RoleCatechist), claims.Role)

		require.NotNil(t, user.RefreshToken)
		assert.NotEqual(t, resp.RefreshToken, *user.RefreshToken)
		assert.True(t, auth.CheckToken(*user.RefreshToken, resp.RefreshToken))
	})

	t.Run("login by email", func(t *testing.T) {
		store := newStubUserStore()
		seedUser(t, store, "secret123")
		service := NewAuthService(store, newTestJWTService(), zerolog.Nop())

		_, err := service.Login(context.Background(), &dto.LoginRequest{
			Username: "glv@qlgl.test",
			Password: "secret123",
		})
		assert.NoError(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		store := newStubUserStore()
		seedUser(t, store, "secret123")
		service := NewAuthService(store, newTestJWTService(), zerolog.Nop())

		_, err := service.Login(context.Background(), &dto.LoginRequest{
			Username: "glv1",
			Password: "wrong",
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown user maps to invalid credentials", func(t *testing.T) {
		service := NewAuthService(newStubUserStore(), newTestJWTService(), zerolog.Nop())

		_, err := service.Login(context.Background(), &dto.LoginRequest{
			Username: "nobody",
			Password: "secret123",
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}

func TestAuthService_Register(t *testing.T) {
	t.Run("role defaults to catechist", func(t *testing.T) {
		store := newStubUserStore()
		service := NewAuthService(store, newTestJWTService(), zerolog.Nop())

		resp, err := service.Register(context.Background(), &dto.RegisterRequest{
			Email:    "new@qlgl.test",
			Username: "newuser",
			FullName: "Người Mới",
			Password: "secret123",
		})
		require.NoError(t, err)
		assert.Equal(t, models.RoleCatechist, resp.Role)
		assert.True(t, resp.IsActive)

		// The stored password must be hashed.
		stored := store.users[resp.ID]
		assert.NotEqual(t, "secret123", stored.Password)
		assert.True(t, auth.CheckPassword(stored.Password, "secret123"))
	})

	t.Run("duplicate email or username", func(t *testing.T) {
		store := newStubUserStore()
		seedUser(t, store, "secret123")
		service := NewAuthService(store, newTestJWTService(), zerolog.Nop())

		_, err := service.Register(context.Background(), &dto.RegisterRequest{
			Email:    "other@qlgl.test",
			Username: "glv1",
			FullName: "Trùng Tên",
			Password: "secret123",
		})
		assert.ErrorIs(t, err, apperrors.ErrEmailOrUsernameExists)
	})

	t.Run("unknown role", func(t *testing.T) {
		service := NewAuthService(newStubUserStore(), newTestJWTService(), zerolog.Nop())

		_, err := service.Register(context.Background(), &dto.RegisterRequest{
			Email:    "new@qlgl.test",
			Username: "newuser",
			FullName: "Người Mới",
			Password: "secret123",
			Role:     models.UserRole("JANITOR"),
		})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	login := func(t *testing.T) (*AuthService, *stubUserStore, *dto.LoginResponse) {
		t.Helper()
		store := newStubUserStore()
		seedUser(t, store, "secret123")
		service := NewAuthService(store, newTestJWTService(), zerolog.Nop())
		resp, err := service.Login(context.Background(), &dto.LoginRequest{
			Username: "glv1",
			Password: "secret123",
		})
		require.NoError(t, err)
		return service, store, resp
	}

	t.Run("issues a new access token", func(t *testing.T) {
		service, _, session := login(t)

		refreshed, err := service.Refresh(context.Background(), session.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, refreshed.AccessToken)
	})

	t.Run("access token is not accepted as refresh token", func(t *testing.T) {
		service, _, session := login(t)

		_, err := service.Refresh(context.Background(), session.AccessToken)
		assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	})

	t.Run("malformed token", func(t *testing.T) {
		service, _, _ := login(t)

		_, err := service.Refresh(context.Background(), "not-a-jwt")
		assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	})

	t.Run("expired refresh token", func(t *testing.T) {
		store := newStubUserStore()
		seedUser(t, store, "secret123")
		jwtService := auth.NewJWTService(auth.JWTConfig{
			AccessSecret:    "test-access-secret",
			RefreshSecret:   "test-refresh-secret",
			AccessTokenExp:  15 * time.Minute,
			RefreshTokenExp: -time.Minute,
			TokenIssuer:     "qlgl.test",
		})
		service := NewAuthService(store, jwtService, zerolog.Nop())
		session, err := service.Login(context.Background(), &dto.LoginRequest{
			Username: "glv1",
			Password: "secret123",
		})
		require.NoError(t, err)

		_, err = service.Refresh(context.Background(), session.RefreshToken)
		assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
	})

	t.Run("rejected after logout", func(t *testing.T) {
		service, _, session := login(t)
		require.NoError(t, service.Logout(context.Background(), session.User.ID))

		_, err := service.Refresh(context.Background(), session.RefreshToken)
		assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	})

	t.Run("rejected after a second login replaces the session", func(t *testing.T) {
		service, _, first := login(t)

		_, err := service.Login(context.Background(), &dto.LoginRequest{
			Username: "glv1",
			Password: "secret123",
		})
		require.NoError(t, err)

		// The second login stores a new hash, orphaning the first session.
		_, err = service.Refresh(context.Background(), first.RefreshToken)
		assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	})

	t.Run("disabled account", func(t *testing.T) {
		service, store, session := login(t)
		store.users[session.User.ID].IsActive = false

		_, err := service.Refresh(context.Background(), session.RefreshToken)
		assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
	})
}

func TestAuthService_GetProfile(t *testing.T) {
	store := newStubUserStore()
	user := seedUser(t, store, "secret123")
	service := NewAuthService(store, newTestJWTService(), zerolog.Nop())

	profile, err := service.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Username, profile.Username)

	_, err = service.GetProfile(context.Background(), 999)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
