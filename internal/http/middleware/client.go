package middleware

import (
	"regexp"

	"github.com/gin-gonic/gin"
)

// HeaderClientID lets API consumers identify themselves. It scopes
// idempotency keys and rate-limit buckets; it is not authentication.
const HeaderClientID = "X-Client-ID"

// AnonymousClient is used when no (valid) X-Client-ID is supplied.
const AnonymousClient = "anonymous"

const ctxKeyClientID = "clientID"

var clientIDRE = regexp.MustCompile(`^[A-Za-z0-9._~\-:@]{1,64}$`)

// ClientID stores the caller identity in the Gin context. Malformed values
// fall back to AnonymousClient rather than failing the request.
func ClientID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderClientID)
		if !clientIDRE.MatchString(id) {
			id = AnonymousClient
		}
		c.Set(ctxKeyClientID, id)
		c.Next()
	}
}

// ClientIDFrom returns the identity stored by ClientID, or AnonymousClient.
func ClientIDFrom(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyClientID); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return AnonymousClient
}
