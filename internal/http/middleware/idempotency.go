// Idempotency-Key handling for unsafe methods. The validator normalises the
// header, scopes it to (client, route) and, when a lookup is configured,
// marks replays so handlers can answer from the stored record and the
// limiter lets them through without spending tokens.

package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// HeaderIdempotencyKey carries the client's key on POST requests.
	HeaderIdempotencyKey = "Idempotency-Key"
	// HeaderIdempotencyReplayed marks responses rebuilt from a stored record.
	HeaderIdempotencyReplayed = "Idempotency-Replayed"

	defaultIdemMaxLen = 200
)

const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemScope  = "idem.scope"
	ctxKeyIdemReplay = "idem.replay"
	ctxKeyRateBypass = "rate.bypass"
)

var defaultIdemPattern = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// IdempotencyOptions tunes IdempotencyValidator. Zero values pick the
// defaults: 200 bytes, token characters only, "<METHOD> <route>" scope.
type IdempotencyOptions struct {
	MaxLen  int
	Pattern *regexp.Regexp
	Scope   func(*gin.Context) string
}

// IdempotencyLookup reports whether an unexpired record exists for the
// (client, scope, key) triple at now. Errors are logged and treated as a miss.
type IdempotencyLookup func(ctx context.Context, clientID, scope, key string, now time.Time) (bool, error)

// GetIdempotencyKey returns the validated key, if the request carried one.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	key := c.GetString(ctxKeyIdemKey)
	return key, key != ""
}

// IdempotencyScope returns the scope the key was checked under, falling back
// to the request's own method and route.
func IdempotencyScope(c *gin.Context) string {
	if scope := c.GetString(ctxKeyIdemScope); scope != "" {
		return scope
	}
	return defaultScope(c)
}

// IsReplay reports whether a stored result exists for this request's key.
func IsReplay(c *gin.Context) bool {
	return c.GetBool(ctxKeyIdemReplay)
}

// IdempotencyValidator rejects malformed Idempotency-Key headers with 400
// and, for well-formed ones, records the key and scope on the context.
// Requests without the header pass straight through. Serving the replay is
// left to the handler.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	if opts.MaxLen <= 0 {
		opts.MaxLen = defaultIdemMaxLen
	}
	if opts.Pattern == nil {
		opts.Pattern = defaultIdemPattern
	}
	if opts.Scope == nil {
		opts.Scope = defaultScope
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		switch {
		case key == "":
			c.Next()
			return
		case len(key) > opts.MaxLen, !opts.Pattern.MatchString(key):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"requestId": RequestIDFrom(c),
				"code":      "bad_idempotency_key",
				"message":   "invalid Idempotency-Key",
			})
			return
		}

		scope := opts.Scope(c)
		c.Set(ctxKeyIdemKey, key)
		c.Set(ctxKeyIdemScope, scope)

		if lookup != nil && replayed(c, lookup, scope, key) {
			c.Set(ctxKeyIdemReplay, true)
			c.Set(ctxKeyRateBypass, true)
			idemReplays.WithLabelValues(scope).Inc()
		}
		c.Next()
	}
}

func replayed(c *gin.Context, lookup IdempotencyLookup, scope, key string) bool {
	found, err := lookup(c.Request.Context(), ClientIDFrom(c), scope, key, time.Now().UTC())
	if err != nil {
		LoggerFrom(c).Warn().Err(err).Str("scope", scope).Msg("idempotency lookup failed")
		return false
	}
	return found
}

func defaultScope(c *gin.Context) string {
	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}
	return c.Request.Method + " " + route
}
