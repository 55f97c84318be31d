package apperrors

import "errors"

// Common errors
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// User errors
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailOrUsernameExists = errors.New("email or username already exists")
)

// Student errors
var (
	ErrStudentNotFound   = errors.New("student not found")
	ErrStudentCodeExists = errors.New("student code already exists")
	ErrGuardianNotFound  = errors.New("guardian not found")
	ErrLastGuardian      = errors.New("student must have at least one guardian")
)

// Parish errors
var (
	ErrParishNotFound = errors.New("parish not found")
)

// Class errors
var (
	ErrClassNotFound      = errors.New("class not found")
	ErrAlreadyEnrolled    = errors.New("student already enrolled in class")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
)

// Session and grading errors
var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrGradeColumnNotFound = errors.New("grade column not found")
	ErrScoreOutOfRange     = errors.New("score out of range")
	ErrScheduleNotFound    = errors.New("schedule not found")
)

// NewNotFoundError creates a custom error wrapping the given sentinel with a message
func NewNotFoundError(sentinel error, message string) error {
	return &CustomError{
		Err:     sentinel,
		Message: message,
	}
}

// NewConflictError creates a custom error for conflict situations with a message
func NewConflictError(sentinel error, message string) error {
	return &CustomError{
		Err:     sentinel,
		Message: message,
	}
}

// NewValidationError creates a custom error for malformed input with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}
