package middleware

import (
	"log/slog"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"regform/src/app/http/response"
)

// Recovery turns a panic into a 500 with the generic error body and logs
// the stack. Register it first so it wraps every other middleware.
//
// Usage:
//
//	router.Use(middleware.Recovery(logger))
func Recovery(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				RequestLogger(c, log).Error("panic recovered",
					"error", err,
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
					"stack", string(debug.Stack()),
				)

				// Internal details stay in the log.
				response.InternalError(c, GetRequestID(c))
				c.Abort()
			}
		}()

		c.Next()
	}
}
