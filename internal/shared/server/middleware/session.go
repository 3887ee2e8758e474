package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"a11y-backend/internal/shared/telemetry"
)

const (
	sessionIDKey      = "sessionId"
	SessionHeader     = "X-Session-Id"
	SessionCookieName = "a11y_session"

	sessionCookieMaxAge = 7 * 24 * 60 * 60
	maxTokenLength      = 128
)

// Session resolves the caller's session id from the X-Session-Id header or the session
// cookie, minting a new one when neither is present.
func Session(secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		id := sanitizeToken(c.GetHeader(SessionHeader))
		if id == "" {
			if cookie, err := c.Cookie(SessionCookieName); err == nil {
				id = sanitizeToken(cookie)
			}
		}
		if id == "" {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookieName, id, sessionCookieMaxAge, "/", "", secureCookie, true)
		}

		c.Set(sessionIDKey, id)
		c.Request = c.Request.WithContext(telemetry.WithSessionID(c.Request.Context(), id))
		c.Writer.Header().Set(SessionHeader, id)
		c.Next()
	}
}

// SessionIDFromContext fetches the session id stored by Session.
func SessionIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(sessionIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// sanitizeToken accepts caller-supplied ids made of [A-Za-z0-9_-] up to
// maxTokenLength; anything else is discarded.
func sanitizeToken(raw string) string {
	id := strings.TrimSpace(raw)
	if id == "" || len(id) > maxTokenLength {
		return ""
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return ""
		}
	}
	return id
}
