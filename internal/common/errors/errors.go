package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorCode classifies an AppError.
type ErrorCode string

const (
	// Client-facing classes.
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeRoute        ErrorCode = "ROUTE_ERROR"

	// Internal causes. All of them leave the HTTP edge as 500.
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeAlreadyMinted ErrorCode = "ALREADY_MINTED"
	ErrCodeDatabase      ErrorCode = "DATABASE_ERROR"
	ErrCodeExternalAPI   ErrorCode = "EXTERNAL_API_ERROR"
	ErrCodeQueue         ErrorCode = "QUEUE_ERROR"
	ErrCodeEmail         ErrorCode = "EMAIL_ERROR"
)

// AppError is the typed error handlers return to the error middleware.
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Cause     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode maps the error onto the three response classes the API exposes.
// Not-found and double-mint are deliberately 500s.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func (e *AppError) IsValidation() bool {
	return e.Code == ErrCodeValidation
}

func (e *AppError) IsUnauthorized() bool {
	return e.Code == ErrCodeUnauthorized
}

// WithDetail attaches a key to the details map returned to the caller.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

func NewValidationError(field, reason string) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf("Validation failed for field '%s': %s", field, reason)).
		WithDetail("field", field).
		WithDetail("reason", reason)
}

// NewInvalidBodyError reports a body that could not be decoded at all.
func NewInvalidBodyError(err error) *AppError {
	return Wrap(err, ErrCodeValidation, "Invalid request body")
}

func NewUnauthorizedError(reason string) *AppError {
	return New(ErrCodeUnauthorized, fmt.Sprintf("Unauthorized: %s", reason)).
		WithDetail("reason", reason)
}

// NewRouteError wraps any failure past the validation and auth gate.
func NewRouteError(err error) *AppError {
	return Wrap(err, ErrCodeRoute, "Something went wrong")
}

func NewDatabaseError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeDatabase, fmt.Sprintf("Database operation failed: %s", operation)).
		WithDetail("operation", operation)
}

func NewExternalAPIError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeExternalAPI, fmt.Sprintf("External API operation failed: %s", operation)).
		WithDetail("operation", operation)
}

// AsAppError unwraps err looking for an *AppError.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// FromError returns err as an AppError, turning anything untyped into a route error.
func FromError(err error) *AppError {
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return NewRouteError(err)
}
