package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"jobportal/internal/logging"
)

const (
	correlationIDKey    = "correlationID"
	correlationIDHeader = "X-Correlation-ID"
)

// CorrelationIDMiddleware tags every request with a correlation id, taken from
// the X-Correlation-ID header when the caller sent one.
func CorrelationIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(correlationIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}

		c.Set(correlationIDKey, id)
		c.Header(correlationIDHeader, id)
		c.Request = c.Request.WithContext(logging.WithCorrelationID(c.Request.Context(), id))

		c.Next()
	}
}

// GetCorrelationID returns the request's correlation id.
func GetCorrelationID(c *gin.Context) string {
	if value, ok := c.Get(correlationIDKey); ok {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}
