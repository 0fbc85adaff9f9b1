package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// exposedHeaders are the response headers browser clients of the API need
// to read: correlation, creation, replay and throttling hints.
var exposedHeaders = []string{
	requestIDHeader,
	"Location",
	HeaderIdempotencyReplayed,
	"Retry-After",
	"X-RateLimit-Limit",
	"X-RateLimit-Remaining",
	"X-RateLimit-Reset",
}

// SecurityOptions configures SecurityHeaders.
type SecurityOptions struct {
	// EnableHSTS emits Strict-Transport-Security on HTTPS requests only.
	EnableHSTS bool
	// HSTSMaxAge defaults to 180 days.
	HSTSMaxAge time.Duration
	// NoStore marks responses uncacheable. Prices change; clients should
	// always refetch.
	NoStore bool
	// EnablePolicy adds browser feature restrictions.
	EnablePolicy bool
	// SkipPrefixes are path prefixes left untouched (e.g. /swagger, which
	// serves HTML and assets that X-Frame-Options and no-store would break).
	SkipPrefixes []string
}

// SecurityHeaders hardens JSON responses and exposes the API's custom
// headers via Access-Control-Expose-Headers, merged with any already set.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	maxAge := int(opt.HSTSMaxAge.Seconds())
	if maxAge <= 0 {
		maxAge = int((180 * 24 * time.Hour).Seconds())
	}
	hsts := "max-age=" + strconv.Itoa(maxAge) + "; includeSubDomains; preload"

	return func(c *gin.Context) {
		for _, p := range opt.SkipPrefixes {
			if strings.HasPrefix(c.Request.URL.Path, p) {
				c.Next()
				return
			}
		}

		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")

		if opt.EnablePolicy {
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")
			h.Set("X-Permitted-Cross-Domain-Policies", "none")
		}
		if opt.NoStore {
			h.Set("Cache-Control", "no-store")
			h.Set("Pragma", "no-cache")
			h.Set("Expires", "0")
		}
		if opt.EnableHSTS && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security", hsts)
		}

		h.Set("Access-Control-Expose-Headers", mergeHeaderList(h.Get("Access-Control-Expose-Headers"), exposedHeaders))

		c.Next()
	}
}

// mergeHeaderList appends names missing from the comma-separated cur,
// comparing case-insensitively and keeping cur's order first.
func mergeHeaderList(cur string, names []string) string {
	var out []string
	seen := make(map[string]struct{})
	add := func(n string) {
		n = strings.TrimSpace(n)
		if n == "" {
			return
		}
		k := strings.ToLower(n)
		if _, dup := seen[k]; dup {
			return
		}
		seen[k] = struct{}{}
		out = append(out, n)
	}
	for _, n := range strings.Split(cur, ",") {
		add(n)
	}
	for _, n := range names {
		add(n)
	}
	return strings.Join(out, ", ")
}

// isHTTPS reports TLS directly or via X-Forwarded-Proto from a proxy.
func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
