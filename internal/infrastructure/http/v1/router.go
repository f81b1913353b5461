// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"saleslens/internal/domain/analytics"
	"saleslens/internal/infrastructure/http/v1/handlers"
	"saleslens/internal/infrastructure/http/v1/middleware"
	"saleslens/internal/infrastructure/storage/postgres"
	"saleslens/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// Analytics is the sales analytics service
	Analytics *analytics.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!). Compress wraps ErrorHandler so
	// error bodies written after c.Next() still pass through the live
	// gzip writer.
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.Compress())
	router.Use(middleware.ErrorHandler())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	base := handlers.NewBaseHandler()
	dashboardHandler := handlers.NewDashboardHandler(base, cfg.Analytics)

	v1 := router.Group("/api/v1")
	{
		dashboard := v1.Group("/dashboard")
		{
			dashboard.GET("/metric-options", dashboardHandler.ListMetricOptions)
			dashboard.POST("/query", dashboardHandler.QueryMetrics)
			dashboard.GET("/metrics", dashboardHandler.GetOverview)
			dashboard.GET("/period-comparison", dashboardHandler.GetPeriodComparison)
		}
	}

	return router
}
