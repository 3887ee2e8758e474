package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const corsWildcard = "*"

var (
	corsAllowHeaders  = strings.Join([]string{"Content-Type", SessionHeader, RequestIDHeader}, ", ")
	corsExposeHeaders = strings.Join([]string{RequestIDHeader, SessionHeader}, ", ")
)

// CORS answers cross-origin requests from allow-listed origins. "*" admits any
// origin; the origin is still echoed rather than sent as "*" because the
// session cookie needs credentialed requests. The front-end reads the session
// id from the exposed X-Session-Id header.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	origins := make(map[string]struct{})
	anyOrigin := false
	for _, o := range allowedOrigins {
		trimmed := strings.TrimRight(strings.TrimSpace(o), "/")
		switch trimmed {
		case "":
		case corsWildcard:
			anyOrigin = true
		default:
			origins[trimmed] = struct{}{}
		}
	}
	allowed := func(origin string) bool {
		if anyOrigin {
			return true
		}
		_, ok := origins[origin]
		return ok
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Add("Vary", "Origin")
		if origin := c.GetHeader("Origin"); origin != "" && allowed(origin) {
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			h.Set("Access-Control-Expose-Headers", corsExposeHeaders)
			h.Set("Access-Control-Max-Age", "600")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
