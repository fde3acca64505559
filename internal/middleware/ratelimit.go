package middleware

import (
	"fmt"
	"time"

	"candlearena.com/tradesim/pkg/apperror"
	"candlearena.com/tradesim/pkg/logger"
	"candlearena.com/tradesim/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimit allows one request per window per client IP for the given action.
// Without Redis (or when Redis errors) requests pass through: the leaderboard
// is read-only, so failing open is preferable to failing the page.
func RateLimit(rdb *redis.Client, action string, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("rate_limit:ip:%s:%s", c.ClientIP(), action)
		wasSet, err := rdb.SetNX(c.Request.Context(), key, "locked", window).Result()
		if err != nil {
			logger.Errorf("failed to check rate limit in redis: %v", err)
			c.Next()
			return
		}

		if !wasSet {
			response.ResponseError(c, apperror.ErrRateLimitExceeded)
			c.Abort()
			return
		}

		c.Next()
	}
}
