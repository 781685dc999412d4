package handlers

import (
	"github.com/SscSPs/purchase_service_app/cmd/docs"
	"github.com/SscSPs/purchase_service_app/internal/core/mediator"
	"github.com/SscSPs/purchase_service_app/internal/middleware"
	"github.com/SscSPs/purchase_service_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	dispatcher *mediator.Mediator,
	rateLimiter *limiter.Limiter,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Setup API v1 routes with rate limiting
	setupAPIV1Routes(r, dispatcher, rateLimiter)

	// Swagger routes (conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(r *gin.Engine, dispatcher *mediator.Mediator, rateLimiter *limiter.Limiter) {
	v1 := r.Group("/api/v1", middleware.RateLimit(rateLimiter))

	registerPurchaseRoutes(v1, dispatcher)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
