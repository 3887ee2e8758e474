package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"a11y-backend/internal/shared/telemetry"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		artifactID, _ := c.Get("artifactId")
		parseKind, _ := c.Get("parseKind")

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"session_id":  SessionIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      status,
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"artifact_id": artifactID,
			"parse_kind":  parseKind,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		switch {
		case status >= 500:
			telemetry.Error("request.complete", fields)
		case status >= 400:
			telemetry.Warn("request.complete", fields)
		default:
			telemetry.Info("request.complete", fields)
		}
	}
}
