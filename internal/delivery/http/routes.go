package http

import (
	"github.com/gin-gonic/gin"

	"github.com/shelfmetrics/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/packsize/normalize", handler.NormalizePackSize)
		v1.POST("/pipeline/run", handler.RunPipeline)
		v1.GET("/products", handler.ListProducts)

		analytics := v1.Group("/analytics")
		{
			analytics.GET("/summary", handler.AnalyticsSummary)
			analytics.GET("/segments", handler.AnalyticsSegments)
			analytics.GET("/categories", handler.AnalyticsCategories)
			analytics.GET("/discounts", handler.AnalyticsDiscounts)
			analytics.GET("/quality", handler.AnalyticsQuality)
		}
	}

	return router
}
