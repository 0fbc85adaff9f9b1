// Access logging with PII scrubbing. Bodies are never logged; the query
// string and header values pass through the redactor first.

package middleware

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const masked = "[REDACTED]"

// RedactOptions adds header names (case-insensitive) whose values are
// replaced wholesale, on top of Authorization, Cookie and Set-Cookie.
type RedactOptions struct {
	MaskHeaders []string
}

type redactRule struct {
	re   *regexp.Regexp
	repl string
}

// Applied in order. UUIDs go before phone numbers so their digit groups are
// not mistaken for one.
var redactRules = []redactRule{
	{regexp.MustCompile(`(?i)\b[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}\b`), "[REDACTED:id]"},
	{regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`), "[REDACTED:email]"},
	{regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`), "[REDACTED:phone]"},
}

func redact(s string) string {
	for _, r := range redactRules {
		if s == "" {
			break
		}
		s = r.re.ReplaceAllString(s, r.repl)
	}
	return s
}

func scrubHeaders(h http.Header, mask map[string]bool) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		if mask[strings.ToLower(name)] {
			out[name] = masked
			continue
		}
		out[name] = redact(strings.Join(values, ", "))
	}
	return out
}

// accessEvent picks the level: error for 5xx or recorded gin errors, warn
// for other 4xx, info otherwise.
func accessEvent(lg *zerolog.Logger, c *gin.Context) *zerolog.Event {
	status := c.Writer.Status()
	switch {
	case len(c.Errors) > 0:
		return lg.Error().Str("errors", c.Errors.String())
	case status >= http.StatusInternalServerError:
		return lg.Error()
	case status >= http.StatusBadRequest:
		return lg.Warn()
	default:
		return lg.Info()
	}
}

// RedactingLogger writes one "http_request" line per request and attaches a
// request-scoped logger (request id, client id, method, route) that handlers
// fetch with LoggerFrom.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	mask := map[string]bool{"authorization": true, "cookie": true, "set-cookie": true}
	for _, h := range opts.MaskHeaders {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			mask[h] = true
		}
	}

	return func(c *gin.Context) {
		start := time.Now()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		rid := RequestIDFrom(c)
		if rid == "" {
			rid = c.GetHeader(requestIDHeader)
		}

		// ClientID runs after this middleware, so read the raw header.
		lg := log.With().
			Str("request_id", rid).
			Str("client_id", redact(c.GetHeader(HeaderClientID))).
			Str("method", c.Request.Method).
			Str("path", route).
			Logger()
		c.Set(ctxKeyLogger, &lg)

		query := truncate(redact(c.Request.URL.RawQuery), maxQueryLogLength)
		headers := scrubHeaders(c.Request.Header, mask)

		c.Next()

		accessEvent(&lg, c).
			Int("status", c.Writer.Status()).
			Str("query", query).
			Str("remote_ip", c.ClientIP()).
			Int("bytes", c.Writer.Size()).
			Int64("bytes_in", c.Request.ContentLength).
			Dur("latency", time.Since(start)).
			Interface("headers", headers).
			Msg("http_request")
	}
}
