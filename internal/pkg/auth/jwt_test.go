package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qlgl/catechism-backend/internal/app/models"
)

func testService() *JWTService {
	return NewJWTService(JWTConfig{
		AccessSecret:    "test-access-secret",
		RefreshSecret:   "test-refresh-secret",
		AccessTokenExp:  15 * time.Minute,
		RefreshTokenExp: 7 * 24 * time.Hour,
		TokenIssuer:     "qlgl.test",
	})
}

func testUser() *models.User {
	return &models.User{
		ID:       42,
		Username: "glv1",
		Role:     models.RoleCatechist,
	}
}

func TestJWTService_TokenPairRoundTrip(t *testing.T) {
	service := testService()

	accessToken, refreshToken, err := service.GenerateTokenPair(testUser())
	require.NoError(t, err)

	claims, err := service.ValidateAccessToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "glv1", claims.Username)
	assert.Equal(t, string(models.RoleCatechist), claims.Role)
	assert.Equal(t, "qlgl.test", claims.Issuer)

	refreshClaims, err := service.ValidateRefreshToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, int64(42), refreshClaims.UserID)
}

func TestJWTService_SecretsAreNotInterchangeable(t *testing.T) {
	service := testService()

	accessToken, refreshToken, err := service.GenerateTokenPair(testUser())
	require.NoError(t, err)

	_, err = service.ValidateRefreshToken(accessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = service.ValidateAccessToken(refreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	service := NewJWTService(JWTConfig{
		AccessSecret:   "test-access-secret",
		RefreshSecret:  "test-refresh-secret",
		AccessTokenExp: -time.Minute,
		TokenIssuer:    "qlgl.test",
	})

	token, err := service.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = service.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_GarbageToken(t *testing.T) {
	service := testService()

	_, err := service.ValidateAccessToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = ExtractBearerToken("Basic dXNlcjpwYXNz")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
