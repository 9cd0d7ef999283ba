package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

// fixed-window counter; one INCR plus an expiry on the first hit
var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// RateLimitMiddleware throttles the public booking endpoints per client IP.
// Redis keeps the counters shared across instances. Redis being down fails
// open: slot queries degrade, they do not disappear.
func RateLimitMiddleware(
	rdb *redis.Client,
	limit int,
	window time.Duration,
	log zerolog.Logger,
) gin.HandlerFunc {

	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}

	return func(c *gin.Context) {
		key := "rl:public:" + c.ClientIP()

		res, err := rateLimitScript.Run(
			c.Request.Context(),
			rdb,
			[]string{key},
			window.Milliseconds(),
		).Int64()
		if err != nil {
			log.Warn().Err(err).Msg("rate limiter unavailable, failing open")
			c.Next()
			return
		}

		if res > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate_limit_exceeded",
			})
			return
		}

		c.Next()
	}
}
