package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"

	"altis.app/tracker/internal/http/dto"
)

// Recovery turns panics into a 500 response and reports them to Sentry when a client is configured.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				ctx := c.Request.Context()
				hub := sentry.GetHubFromContext(ctx)
				if hub == nil {
					hub = sentry.CurrentHub().Clone()
				}
				hub.Scope().SetRequest(c.Request)
				hub.RecoverWithContext(ctx, rec)

				slog.ErrorContext(ctx, "panic recovered",
					"error", fmt.Sprint(rec),
					"path", c.Request.URL.Path,
					"stack", string(debug.Stack()))

				c.AbortWithStatusJSON(http.StatusInternalServerError,
					dto.NewError(http.StatusInternalServerError, "Something went wrong"))
			}
		}()
		c.Next()
	}
}
