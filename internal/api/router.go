package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobportal/internal/api/middleware"
	"jobportal/internal/config"
	"jobportal/internal/metrics"
)

// NewRouter builds the engine with the shared middleware, page templates,
// the health check and the secret guarded metrics endpoint.
func NewRouter(cfg *config.Config, logger *slog.Logger) (*gin.Engine, error) {
	pages, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	router := gin.New()
	router.HTMLRender = pages
	router.Use(
		middleware.CorrelationIDMiddleware(),
		middleware.SlogLoggerMiddleware(logger),
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			Internal(c, fmt.Errorf("panic: %v", recovered))
			c.Abort()
		}),
		metrics.GinMiddleware(),
	)
	router.NoRoute(NotFound)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", middleware.InternalSecretMiddleware(cfg.API.InternalSecret), gin.WrapH(metrics.Handler()))

	return router, nil
}
