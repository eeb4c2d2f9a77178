// Package requestid tags every directory API request with an ID so access
// logs and error reports for a single submission or moderation call can be
// correlated.
package requestid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// Header is the request ID header, honored on the way in and echoed on
	// the way out.
	Header = "X-Request-ID"

	contextKey = "request_id"
)

// Middleware reuses the caller's X-Request-ID or mints a fresh one, stores
// it in the Gin context for the access logger, and echoes it in the
// response.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(Header)
		if id == "" {
			id = newID()
		}

		c.Set(contextKey, id)
		c.Writer.Header().Set(Header, id)

		c.Next()
	}
}

// Value returns the ID Middleware stored for this request, or "" when the
// middleware never ran.
func Value(c *gin.Context) string {
	if v, ok := c.Get(contextKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// newID is 16 random bytes hex-encoded, with a timestamp fallback when the
// system randomness source fails.
func newID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err == nil {
		return hex.EncodeToString(buf)
	}

	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}
