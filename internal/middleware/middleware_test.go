package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qlgl/catechism-backend/internal/app/models"
	"github.com/qlgl/catechism-backend/internal/app/models/dto"
	"github.com/qlgl/catechism-backend/internal/pkg/apperrors"
	"github.com/qlgl/catechism-backend/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestAuth() (*AuthMiddleware, *auth.JWTService) {
	jwtService := auth.NewJWTService(auth.JWTConfig{
		AccessSecret:    "test-access-secret",
		RefreshSecret:   "test-refresh-secret",
		AccessTokenExp:  15 * time.Minute,
		RefreshTokenExp: time.Hour,
		TokenIssuer:     "qlgl.test",
	})
	return NewAuthMiddleware(jwtService), jwtService
}

func protectedRouter(m *AuthMiddleware, roles ...models.UserRole) *gin.Engine {
	router := gin.New()
	group := router.Group("/", m.JWTAuth())
	if len(roles) > 0 {
		group.Use(m.RoleRequired(roles...))
	}
	group.GET("/ping", func(c *gin.Context) {
		userID, _ := CurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{"userId": userID})
	})
	return router
}

func doGet(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestJWTAuth(t *testing.T) {
	m, jwtService := newTestAuth()
	router := protectedRouter(m)

	t.Run("missing header", func(t *testing.T) {
		recorder := doGet(router, "")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("not a bearer token", func(t *testing.T) {
		recorder := doGet(router, "Basic dXNlcjpwYXNz")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		recorder := doGet(router, "Bearer not.a.token")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("valid token exposes the user id", func(t *testing.T) {
		token, err := jwtService.GenerateAccessToken(&models.User{
			ID:       42,
			Username: "glv1",
			Role:     models.RoleCatechist,
		})
		require.NoError(t, err)

		recorder := doGet(router, "Bearer "+token)
		require.Equal(t, http.StatusOK, recorder.Code)

		var body map[string]int64
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, int64(42), body["userId"])
	})
}

func TestRoleRequired(t *testing.T) {
	m, jwtService := newTestAuth()
	router := protectedRouter(m, models.RoleSuperAdmin, models.RoleParishAdmin)

	tokenFor := func(t *testing.T, role models.UserRole) string {
		t.Helper()
		token, err := jwtService.GenerateAccessToken(&models.User{
			ID:       1,
			Username: "someone",
			Role:     role,
		})
		require.NoError(t, err)
		return "Bearer " + token
	}

	t.Run("allowed role passes", func(t *testing.T) {
		recorder := doGet(router, tokenFor(t, models.RoleParishAdmin))
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("catechist is forbidden", func(t *testing.T) {
		recorder := doGet(router, tokenFor(t, models.RoleCatechist))
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
	}{
		{"validation error", apperrors.NewValidationError("bad input"), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"last guardian", apperrors.ErrLastGuardian, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"score out of range", apperrors.ErrScoreOutOfRange, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"invalid credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{"disabled account", apperrors.ErrAccountDisabled, http.StatusUnauthorized, dto.ErrorCodeAccountDisabled},
		{"invalid token", apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
		{"expired token", apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
		{"permission denied", apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden},
		{"student not found", apperrors.ErrStudentNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"guardian not found", apperrors.ErrGuardianNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"schedule not found", apperrors.ErrScheduleNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"duplicate student code", apperrors.ErrStudentCodeExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{"already enrolled", apperrors.ErrAlreadyEnrolled, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(recorder)
			c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			var body dto.ErrorResponse
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}

	t.Run("custom message is surfaced", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)
		c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

		HandleAPIError(c, apperrors.NewValidationError("startTime must be before endTime"))

		var body dto.ErrorResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, "startTime must be before endTime", body.Error.Message)
	})

	t.Run("wrapped sentinel still maps", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)
		c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

		HandleAPIError(c, apperrors.NewNotFoundError(apperrors.ErrClassNotFound, "class 42 not found"))

		assert.Equal(t, http.StatusNotFound, recorder.Code)

		var body dto.ErrorResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, "class 42 not found", body.Error.Message)
	})

	t.Run("conflict message is surfaced", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)
		c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

		HandleAPIError(c, apperrors.NewConflictError(apperrors.ErrStudentCodeExists, "Student code HS001 is already in use"))

		assert.Equal(t, http.StatusConflict, recorder.Code)

		var body dto.ErrorResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, "Student code HS001 is already in use", body.Error.Message)
	})
}
