package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func TestNewRedisRateLimiter_Coercion(t *testing.T) {
	rl := NewRedisRateLimiter(nil, 0, 0, KeyByClientOrIP())
	if rl.limit != 1 || rl.window != time.Minute {
		t.Fatalf("coercion failed: limit=%d window=%v", rl.limit, rl.window)
	}
}

func TestRedisRateLimiter_FailsOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Nothing listens on port 1; every pipeline fails fast.
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	rl := NewRedisRateLimiter(client, 1, time.Minute, KeyByClientOrIP())
	r := gin.New()
	r.Use(rl.Handler())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected fail-open 200, got %d", i, w.Code)
		}
		if w.Header().Get("X-RateLimit-Error") == "" {
			t.Fatalf("request %d: expected X-RateLimit-Error header", i)
		}
	}
}

func TestRedisRateLimiter_BypassSkipsRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	rl := NewRedisRateLimiter(client, 1, time.Minute, KeyByClientOrIP())
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(ctxKeyRateBypass, true); c.Next() })
	r.Use(rl.Handler())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	if w.Code != http.StatusOK || w.Header().Get("X-RateLimit-Error") != "" {
		t.Fatalf("bypass should not touch redis: code=%d hdr=%q", w.Code, w.Header().Get("X-RateLimit-Error"))
	}
}
