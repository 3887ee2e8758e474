package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"a11y-backend/internal/shared/server/respond"
	"a11y-backend/internal/shared/telemetry"
)

// Recovery turns a handler panic into a 500 error envelope. http.ErrAbortHandler
// is re-raised so net/http can drop the connection, and nothing is written when
// the handler already started the response.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			_ = c.Error(fmt.Errorf("panic: %v", rec))
			telemetry.ErrorCtx(c.Request.Context(), "panic", map[string]any{
				"error":   fmt.Sprint(rec),
				"stack":   string(debug.Stack()),
				"route":   c.FullPath(),
				"method":  c.Request.Method,
				"written": c.Writer.Written(),
			})
			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected server error", gin.H{
				"request_id": RequestIDFromContext(c),
			})
		}()
		c.Next()
	}
}
