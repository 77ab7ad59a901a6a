package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int
	Burst             int
}

// DefaultRateLimitConfig returns limits sized for a single demo instance.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 100,
		Burst:             200,
	}
}

const (
	// evictAfter is how long a client may sit idle before its limiter
	// is dropped from the table.
	evictAfter = 3 * time.Minute

	// evictThreshold is the table size at which insertion triggers a
	// sweep of idle clients.
	evictThreshold = 1024
)

// RateLimit creates a per-client-IP rate limiting middleware. Limiter
// state for idle clients is evicted once the table grows past
// evictThreshold, so the map cannot grow without bound.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	type client struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}

	var (
		mu      sync.Mutex
		clients = make(map[string]*client)
	)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		cl, ok := clients[ip]
		if !ok {
			if len(clients) >= evictThreshold {
				for addr, stale := range clients {
					if now.Sub(stale.lastSeen) > evictAfter {
						delete(clients, addr)
					}
				}
			}
			cl = &client{
				limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
			}
			clients[ip] = cl
		}
		cl.lastSeen = now
		limiter := cl.limiter
		mu.Unlock()

		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
