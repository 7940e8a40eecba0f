package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"business-visa-backend/internal/common/errors"
	"business-visa-backend/internal/common/logger"
)

const requestIDKey = "request_id"

// Recovery turns panics into a 500 route error response. The panic value is
// logged, never sent to the client.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error().
			Str("request_id", GetRequestID(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Interface("panic", recovered).
			Str("stack", string(debug.Stack())).
			Msg("Panic recovered")

		abortWithError(c, errors.New(errors.ErrCodeRoute, "Something went wrong"))
	})
}

// RequestID propagates X-Request-ID or generates a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(requestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// SuccessResponse is the envelope of every 200 response.
type SuccessResponse struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data"`
	Message string      `json:"message" example:"Applicant accepted successfully"`
}

// ErrorResponse is the envelope of every 400/401/500 response.
type ErrorResponse struct {
	Success   bool             `json:"success" example:"false"`
	Error     *errors.AppError `json:"error"`
	Message   string           `json:"message" example:"Unauthorized: secret is not valid"`
	Timestamp time.Time        `json:"timestamp"`
	RequestID string           `json:"request_id"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// RespondError logs err under route and writes the matching error envelope.
// Untyped errors become 500 route errors.
func RespondError(c *gin.Context, route string, err error) {
	appErr := errors.FromError(err)
	logError(c, route, appErr)
	abortWithError(c, appErr)
}

func abortWithError(c *gin.Context, appErr *errors.AppError) {
	c.AbortWithStatusJSON(appErr.StatusCode(), ErrorResponse{
		Success:   false,
		Error:     appErr,
		Message:   appErr.Message,
		Timestamp: time.Now(),
		RequestID: GetRequestID(c),
	})
}

func logError(c *gin.Context, route string, appErr *errors.AppError) {
	status := appErr.StatusCode()
	event := logger.Error()
	switch {
	case appErr.IsUnauthorized():
		event = logger.Warn()
	case appErr.IsValidation():
		event = logger.Info()
	}

	event = event.
		Str("request_id", GetRequestID(c)).
		Str("route", route).
		Int("status", status).
		Str("error_code", string(appErr.Code)).
		Str("error_message", appErr.Message)
	if len(appErr.Details) > 0 {
		event = event.Interface("details", appErr.Details)
	}
	if appErr.Cause != nil {
		event = event.Err(appErr.Cause)
	}
	event.Msgf("%s error %d", route, status)
}

func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(requestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return "unknown"
}
