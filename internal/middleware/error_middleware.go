package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qlgl/catechism-backend/internal/app/models/dto"
	"github.com/qlgl/catechism-backend/internal/pkg/apperrors"
	"github.com/qlgl/catechism-backend/internal/pkg/logger"
)

// message prefers the wrapped CustomError message over the generic fallback.
func message(err error, fallback string) string {
	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.Message
	}
	return fallback
}

func respond(c *gin.Context, status int, code dto.ErrorCode, msg string) {
	c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, msg)))
}

// HandleAPIError maps service errors to HTTP responses. Unrecognized errors
// become a 500 without leaking internals.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	// 400
	case errors.Is(err, apperrors.ErrValidationFailed):
		respond(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, message(err, "Validation failed"))
	case errors.Is(err, apperrors.ErrLastGuardian):
		respond(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "A student must have at least one guardian")
	case errors.Is(err, apperrors.ErrScoreOutOfRange):
		respond(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Score is outside the column's allowed range")
	case errors.Is(err, apperrors.ErrBadRequest):
		respond(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, message(err, "Bad request"))

	// 401
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, apperrors.ErrAccountDisabled):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeAccountDisabled, "Account is disabled")
	case errors.Is(err, apperrors.ErrTokenExpired):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token")

	// 403
	case errors.Is(err, apperrors.ErrPermissionDenied):
		respond(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied")

	// 404
	case errors.Is(err, apperrors.ErrUserNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, message(err, "User not found"))
	case errors.Is(err, apperrors.ErrStudentNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, message(err, "Student not found"))
	case errors.Is(err, apperrors.ErrGuardianNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, message(err, "Guardian not found"))
	case errors.Is(err, apperrors.ErrParishNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, message(err, "Parish not found"))
	case errors.Is(err, apperrors.ErrClassNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, message(err, "Class not found"))
	case errors.Is(err, apperrors.ErrEnrollmentNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, message(err, "Enrollment not found"))
	case errors.Is(err, apperrors.ErrSessionNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, message(err, "Session not found"))
	case errors.Is(err, apperrors.ErrGradeColumnNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, message(err, "Grade column not found"))
	case errors.Is(err, apperrors.ErrScheduleNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, message(err, "Schedule not found"))

	// 409
	case errors.Is(err, apperrors.ErrEmailOrUsernameExists):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, message(err, "Email or username already exists"))
	case errors.Is(err, apperrors.ErrStudentCodeExists):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, message(err, "Student code already exists"))
	case errors.Is(err, apperrors.ErrAlreadyEnrolled):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, message(err, "Student is already enrolled in this class"))

	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
		respond(c, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error")
	}
}

// HandleBindingError maps request binding failures to a 400 with field
// details.
func HandleBindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
}
