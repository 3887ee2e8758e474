package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"a11y-backend/internal/shared/telemetry"
)

const (
	requestIDKey    = "requestId"
	RequestIDHeader = "X-Request-Id"
)

// RequestID reuses a well-formed X-Request-Id from the caller or mints one. The
// id is echoed on the response and stored on the request context for
// service-level logs.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := sanitizeToken(c.GetHeader(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Request = c.Request.WithContext(telemetry.WithRequestID(c.Request.Context(), id))
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

// RequestIDFromContext fetches the request ID stored by RequestID middleware.
func RequestIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(requestIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
