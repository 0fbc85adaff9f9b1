// Package middleware holds the Gin middleware shared by the API: correlation
// ids, client identity, access logging with redaction, panic recovery,
// Prometheus metrics, rate limiting, idempotency keys and security headers.
package middleware

import (
	"fmt"
	"net/http"
	"regexp"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	requestIDKey    = "requestID"
	ctxKeyLogger    = "logger"
	requestIDHeader = "X-Request-ID"

	// maxQueryLogLength caps the raw query bytes written to access logs.
	maxQueryLogLength = 2048
)

// Inbound ids outside this shape are replaced rather than echoed into
// headers and logs.
var requestIDRE = regexp.MustCompile(`^[A-Za-z0-9._:\-]{1,128}$`)

// RequestID reuses a well-formed X-Request-ID from the client or mints a
// UUIDv4, then stores it in the context and echoes it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if !requestIDRE.MatchString(rid) {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

// RequestIDFrom returns the id set by RequestID, or "" when it did not run.
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// Recovery turns a panic into the API's JSON 500 envelope. The panic and
// its stack go to the request logger, and the panic is recorded on the
// context so the access log reports it as an error.
//
// Install after RedactingLogger.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			rid := RequestIDFrom(c)
			_ = c.Error(fmt.Errorf("panic: %v", rec))
			LoggerFrom(c).Error().
				Interface("panic", rec).
				Str("stack", string(debug.Stack())).
				Msg("panic recovered")

			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.Header(requestIDHeader, rid)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"requestId": rid,
				"code":      "internal_error",
				"message":   "internal error",
			})
		}()
		c.Next()
	}
}

// LoggerFrom returns the request-scoped logger attached by RedactingLogger,
// falling back to the global logger. Never nil.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(ctxKeyLogger); ok {
		if lg, ok := v.(*zerolog.Logger); ok && lg != nil {
			return lg
		}
	}
	lg := log.Logger
	return &lg
}

// truncate cuts s to max bytes plus an ellipsis; max <= 0 disables it.
func truncate(s string, max int) string {
	if max > 0 && len(s) > max {
		return s[:max] + "…"
	}
	return s
}
