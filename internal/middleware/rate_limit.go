package middleware

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kindnest/kindnest-api/pkg/apperror"
	"github.com/kindnest/kindnest-api/pkg/response"
	"github.com/redis/go-redis/v9"
)

// RateLimit enforces a per-user cooldown on an action, backed by a Redis
// key with a TTL. Without Redis the limiter is a no-op; a Redis outage
// fails open so posting never depends on the cache being up.
func RateLimit(redisClient *redis.Client, action string, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if redisClient == nil || window <= 0 || user == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%d", action, user.ID)
		set, err := redisClient.SetNX(c.Request.Context(), key, 1, window).Result()
		if err != nil {
			log.Printf("rate limiter unavailable for %s: %v", key, err)
			c.Next()
			return
		}
		if !set {
			response.AbortError(c, apperror.BadRequest("you are doing that too often, slow down a little"))
			return
		}

		c.Next()
	}
}
