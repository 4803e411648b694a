package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"jobportal/internal/logging"
)

const slogLoggerKey = "slogLogger"

// SlogLoggerMiddleware gives each request a logger carrying its correlation id
// and logs the outcome once the handler chain returns.
func SlogLoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		requestLogger := logger.With(
			slog.String("correlation_id", GetCorrelationID(c)),
			slog.String("method", c.Request.Method),
			slog.String("path", path),
		)
		SetLogger(c, requestLogger)

		start := time.Now()
		c.Next()

		attrs := []any{
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}
		LoggerFromContext(c).Info("request completed", attrs...)
	}
}

// SetLogger replaces the request logger in both the gin and the request context.
func SetLogger(c *gin.Context, logger *slog.Logger) {
	c.Set(slogLoggerKey, logger)
	c.Request = c.Request.WithContext(logging.WithLogger(c.Request.Context(), logger))
}

// LoggerFromContext returns the request logger.
func LoggerFromContext(c *gin.Context) *slog.Logger {
	if value, ok := c.Get(slogLoggerKey); ok {
		if logger, ok := value.(*slog.Logger); ok {
			return logger
		}
	}
	return slog.Default()
}
