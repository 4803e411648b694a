package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const internalSecretHeader = "X-Internal-Secret"

// InternalSecretMiddleware guards operator endpoints such as /metrics.
// The secret travels in a header only so it never ends up in access logs.
func InternalSecretMiddleware(secret string) gin.HandlerFunc {
	secret = strings.TrimSpace(secret)
	return func(c *gin.Context) {
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "internal api secret is not configured"})
			return
		}
		token := strings.TrimSpace(c.GetHeader(internalSecretHeader))
		if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
