package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/collabhub/internal/app/models/dto"
	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long an idle client's limiter is kept
const limiterIdleTTL = 15 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter stores rate limiters per client
type RateLimiter struct {
	limiters map[string]*clientLimiter
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	ttl      time.Duration
	now      func() time.Time

	// lastSweep is when idle limiters were last evicted
	lastSweep time.Time
}

// NewRateLimiter creates a rate limiter allowing rateLimit events per second with the
// given burst per client
func NewRateLimiter(rateLimit rate.Limit, burst int, ttl time.Duration) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*clientLimiter),
		rate:     rateLimit,
		burst:    burst,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Allow reports whether key may make a request now. Idle entries are evicted lazily,
// at most once per half TTL.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) >= rl.ttl/2 {
		rl.evictIdle(now)
	}

	cl, exists := rl.limiters[key]
	if !exists {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

// evictIdle drops limiters unused for longer than the TTL. Callers hold rl.mu.
func (rl *RateLimiter) evictIdle(now time.Time) {
	for k, cl := range rl.limiters {
		if now.Sub(cl.lastSeen) > rl.ttl {
			delete(rl.limiters, k)
		}
	}
	rl.lastSweep = now
}

// RateLimitMiddleware limits requests per authenticated user, falling back to the
// client IP for anonymous requests
func RateLimitMiddleware(requestsPerMinute int, burst int) gin.HandlerFunc {
	if requestsPerMinute < 1 {
		requestsPerMinute = 1
	}
	if burst < 1 {
		burst = 1
	}
	limiter := NewRateLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), burst, limiterIdleTTL)

	return func(c *gin.Context) {
		key := c.ClientIP()
		if id, ok := GetUserID(c); ok {
			key = "user:" + id.String()
		}

		if !limiter.Allow(key) {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeRateLimited, "Too many requests").
				WithSeverity(dto.ErrorSeverityWarning)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}
