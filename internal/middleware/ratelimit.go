package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dassimern/kosher-directory-api/pkg/config"
	"github.com/dassimern/kosher-directory-api/pkg/response"
)

// SubmissionRateLimit throttles public submissions per client IP using a
// fixed redis window. When redis is unreachable the limiter fails open and
// the request goes through.
func SubmissionRateLimit(client *redis.Client, cfg config.SubmissionsConfig, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		if client == nil || cfg.RateLimit <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("submit:%s", c.ClientIP())
		ctx := c.Request.Context()

		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			logger.Warn("rate limiter unavailable, allowing request", zap.Error(err))
			c.Next()
			return
		}
		if count == 1 {
			if err := client.Expire(ctx, key, cfg.RateWindow).Err(); err != nil {
				logger.Warn("failed to set rate limit window", zap.Error(err))
			}
		}
		if count > int64(cfg.RateLimit) {
			c.Header("Retry-After", fmt.Sprintf("%d", int(cfg.RateWindow.Seconds())))
			c.JSON(http.StatusTooManyRequests, response.Envelope{Success: false, Message: "too many submissions, try again later"})
			c.Abort()
			return
		}

		c.Next()
	}
}
