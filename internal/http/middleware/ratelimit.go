// In-process token-bucket limiting. Replicas that need a shared budget use
// RedisRateLimiter instead; router.go picks one from config.

package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	// idleBucketTTL is how long an untouched bucket survives a sweep.
	idleBucketTTL = 10 * time.Minute
	// sweepEvery bounds how often the bucket map is scanned.
	sweepEvery = time.Minute
)

// keyFunc maps a request to the identity its budget is charged to.
type keyFunc func(*gin.Context) string

// KeyByClientOrIP charges identified clients by X-Client-ID and anonymous
// callers by IP. The "client:" and "ip:" prefixes keep the two apart.
func KeyByClientOrIP() keyFunc {
	return func(c *gin.Context) string {
		if id := ClientIDFrom(c); id != AnonymousClient {
			return "client:" + id
		}
		return "ip:" + c.ClientIP()
	}
}

// Limiter is a rate-limiting middleware factory.
type Limiter interface {
	Handler() gin.HandlerFunc
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimiter keeps one token bucket per key. Safe for concurrent use.
type RateLimiter struct {
	limit rate.Limit
	burst int
	keyFn keyFunc
	now   func() time.Time

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
	idleTTL   time.Duration
}

// NewRateLimiter refills rps tokens per second up to burst for every key
// produced by keyFn. burst <= 0 is treated as 1.
func NewRateLimiter(rps float64, burst int, keyFn keyFunc) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	now := time.Now
	return &RateLimiter{
		limit:     rate.Limit(rps),
		burst:     burst,
		keyFn:     keyFn,
		now:       now,
		buckets:   make(map[string]*bucket),
		lastSweep: now(),
		idleTTL:   idleBucketTTL,
	}
}

// bucketFor returns the limiter for key, dropping idle buckets first when a
// sweep is due so a stale entry is never refreshed by its own lookup.
func (rl *RateLimiter) bucketFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) >= sweepEvery {
		for k, b := range rl.buckets {
			if now.Sub(b.seen) >= rl.idleTTL {
				delete(rl.buckets, k)
			}
		}
		rl.lastSweep = now
	}

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(rl.limit, rl.burst)}
		rl.buckets[key] = b
	}
	b.seen = now
	return b.lim
}

// IsRateBypass reports whether IdempotencyValidator flagged the request as
// a replay that should not spend tokens.
func IsRateBypass(c *gin.Context) bool {
	return c.GetBool(ctxKeyRateBypass)
}

// Handler rejects requests over budget with 429 and a Retry-After in whole
// seconds until the next token.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) {
			c.Next()
			return
		}

		lim := rl.bucketFor(rl.keyFn(c))
		now := rl.now()
		res := lim.ReserveN(now, 1)
		if !res.OK() {
			c.Header("Retry-After", "1")
			abortRateLimited(c)
			return
		}
		if wait := res.DelayFrom(now); wait > 0 {
			res.CancelAt(now)
			c.Header("Retry-After", strconv.Itoa(retrySeconds(wait)))
			abortRateLimited(c)
			return
		}
		c.Next()
	}
}

func retrySeconds(d time.Duration) int {
	s := int(math.Ceil(d.Seconds()))
	if s < 1 {
		return 1
	}
	return s
}

// abortRateLimited writes the shared 429 envelope.
func abortRateLimited(c *gin.Context) {
	rateLimited.Inc()
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"requestId": RequestIDFrom(c),
		"code":      "too_many_requests",
		"message":   "rate limit exceeded",
	})
}
