package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"oauth-backend/internal/logger"
	"oauth-backend/internal/ratelimit"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// limiterDown throttles the fail-open warning while the backing store is out.
var limiterDown = rate.Sometimes{First: 1, Interval: time.Minute}

// RateLimit counts requests per client IP and answers 429 once the quota
// is spent. Limiter failures let the request through.
func RateLimit(l ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := l.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			limiterDown.Do(func() {
				logger.Warn("rate limiter unavailable", map[string]any{"error": err.Error()})
			})
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("RateLimit-Limit", strconv.Itoa(res.Limit))
		h.Set("RateLimit-Remaining", strconv.Itoa(res.Remaining))
		h.Set("RateLimit-Reset", strconv.Itoa(int(math.Ceil(res.ResetAfter.Seconds()))))

		if !res.Allowed {
			h.Set("Retry-After", h.Get("RateLimit-Reset"))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message": "Too many requests, please try again later.",
			})
			return
		}
		c.Next()
	}
}
