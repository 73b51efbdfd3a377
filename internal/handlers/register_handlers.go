package handlers

import (
	"github.com/SscSPs/bizos_backend/cmd/docs"
	portssvc "github.com/SscSPs/bizos_backend/internal/core/ports/services"
	"github.com/SscSPs/bizos_backend/internal/middleware"
	"github.com/SscSPs/bizos_backend/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// costly limits the per-user rate of routes that reach paid or third-party APIs; nil disables it.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	costly *limiter.Limiter,
) {

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, services, costly)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	costly *limiter.Limiter,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	var costlyLimit gin.HandlerFunc
	if costly != nil {
		costlyLimit = middleware.RateLimit(costly)
	}

	RegisterTransactionRoutes(v1, service.Transaction)
	RegisterAccountRoutes(v1, service.Account, service.Balance)
	RegisterCategoryRoutes(v1, service.Category)
	RegisterReportingRoutes(v1, service.Finance, service.Balance, service.Reporting)
	RegisterCRMRoutes(v1, service.Lead, service.Task, service.Insight)
	RegisterAdvisorRoutes(v1, service.Advisor, costlyLimit)
	RegisterIntegrationRoutes(v1, service.Integration, costlyLimit)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
