package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a fixed-window per-IP limiter for the auth endpoints.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	type bucket struct {
		count int
		start time.Time
	}

	var (
		mu      sync.Mutex
		buckets = make(map[string]*bucket)
	)

	return func(ctx *gin.Context) {
		now := time.Now()
		key := ctx.ClientIP()

		mu.Lock()
		b, ok := buckets[key]
		if !ok || now.Sub(b.start) > window {
			b = &bucket{start: now}
			buckets[key] = b
		}

		if b.count >= limit {
			mu.Unlock()
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		b.count++
		mu.Unlock()

		ctx.Next()
	}
}
