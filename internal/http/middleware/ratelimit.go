package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"altis.app/tracker/internal/http/dto"
)

const (
	AuthRateLimitMessage    = "Too many authentication attempts, please try again later"
	GeneralRateLimitMessage = "Too many requests, please try again later"
)

// NewLimiterStore returns a Redis-backed store shared by every replica, or an
// in-memory one when client is nil.
func NewLimiterStore(client *redis.Client, prefix string) (limiter.Store, error) {
	if client == nil {
		return memory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          prefix,
			CleanUpInterval: time.Minute,
		}), nil
	}
	return sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix: prefix,
	})
}

// RateLimit limits requests per client IP. name keeps counters of limiters
// sharing a store apart, and message is returned once the limit is reached.
// Rate headers are written on every response.
func RateLimit(store limiter.Store, rate limiter.Rate, name, message string) gin.HandlerFunc {
	instance := limiter.New(store, rate)
	return mgin.NewMiddleware(instance,
		mgin.WithKeyGetter(func(c *gin.Context) string {
			return name + ":" + c.ClientIP()
		}),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewError(http.StatusTooManyRequests, message))
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			// A broken limiter store should not take the API down.
			slog.WarnContext(c.Request.Context(), "rate limiter unavailable", "error", err)
			c.Next()
		}),
	)
}
