package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter is a fixed-window limiter shared by every replica that
// points at the same Redis. Each (key, window) pair is one counter that
// expires with its window.
//
// Redis failures fail open: the request proceeds and X-RateLimit-Error is
// set so the degradation is visible to clients and logs.
type RedisRateLimiter struct {
	client redis.Cmdable
	limit  int
	window time.Duration
	prefix string
	keyFn  keyFunc
	now    func() time.Time
}

// NewRedisRateLimiter allows limit requests per window for each key
// produced by keyFn. limit <= 0 is coerced to 1; window <= 0 to one minute.
func NewRedisRateLimiter(client redis.Cmdable, limit int, window time.Duration, keyFn keyFunc) *RedisRateLimiter {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RedisRateLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: "ratelimit",
		keyFn:  keyFn,
		now:    time.Now,
	}
}

// Allow counts one request for key and reports whether it fits the current
// window, how many requests remain, and when the window resets.
func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, int, time.Time, error) {
	windowStart := rl.now().Truncate(rl.window)
	redisKey := fmt.Sprintf("%s:%s:%d", rl.prefix, key, windowStart.Unix())

	pipe := rl.client.Pipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incr.Val())
	remaining := rl.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= rl.limit, remaining, windowStart.Add(rl.window), nil
}

// Handler returns the Gin middleware. Idempotent replays bypass limiting.
func (rl *RedisRateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) {
			c.Next()
			return
		}

		allowed, remaining, reset, err := rl.Allow(c.Request.Context(), rl.keyFn(c))
		if err != nil {
			LoggerFrom(c).Warn().Err(err).Msg("rate limit check failed")
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if !allowed {
			retry := int(reset.Sub(rl.now()).Seconds())
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			abortRateLimited(c)
			return
		}
		c.Next()
	}
}
