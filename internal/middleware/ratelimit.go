package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitergin "github.com/ulule/limiter/v3/drivers/middleware/gin"
)

// RateLimit limits requests per authenticated user, falling back to the
// client IP on unauthenticated routes.
func RateLimit(limiterInstance *limiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, ok := GetUserIDFromContext(c)
		if !ok {
			key = c.ClientIP()
		}
		logger := GetLoggerFromCtx(c.Request.Context())

		lctx, err := limiterInstance.Get(c.Request.Context(), key)
		if err != nil {
			logger.Error("Failed to get rate limit context", slog.String("key", key), slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error during rate limit check"})
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))

		if lctx.Reached {
			logger.Warn("Rate limit exceeded", slog.String("key", key), slog.Int64("limit", lctx.Limit))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please try again later."})
			return
		}

		c.Next()
	}
}

// GinMiddlewarize wraps limitergin.NewMiddleware; used for the coarse per-IP limit on the whole API.
func GinMiddlewarize(limiterInstance *limiter.Limiter) gin.HandlerFunc {
	return limitergin.NewMiddleware(limiterInstance)
}
