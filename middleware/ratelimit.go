package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter allows perMinute requests per client IP with a burst of the
// same size. Idle entries are evicted once per minute.
func RateLimiter(perMinute int) gin.HandlerFunc {
	if perMinute < 1 {
		perMinute = 1
	}
	var mu sync.Mutex
	visitors := make(map[string]*visitor)
	every := rate.Every(time.Minute / time.Duration(perMinute))
	lastSweep := time.Now()

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		if now.Sub(lastSweep) > time.Minute {
			for k, v := range visitors {
				if now.Sub(v.lastSeen) > time.Minute {
					delete(visitors, k)
				}
			}
			lastSweep = now
		}
		v, ok := visitors[ip]
		if !ok {
			v = &visitor{limiter: rate.NewLimiter(every, perMinute)}
			visitors[ip] = v
		}
		v.lastSeen = now
		allowed := v.limiter.Allow()
		mu.Unlock()

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
