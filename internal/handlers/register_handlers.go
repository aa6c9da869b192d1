package handlers

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/voyago/travel_proposal_app/cmd/docs"
	portssvc "github.com/voyago/travel_proposal_app/internal/core/ports/services"
	"github.com/voyago/travel_proposal_app/internal/middleware"
	"github.com/voyago/travel_proposal_app/internal/platform/config"
)

// RegisterRoutes mounts every route group on the engine.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerHomeRoutes(r)

	// Public: login, registration, token refresh.
	registerAuthRoutes(r, cfg, services)

	setupAPIV1Routes(r, cfg, services)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes places everything under /api/v1 behind JWT auth.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerUserRoutes(v1, services.User)
	registerRequestRoutes(v1, services.Request, services.Proposal)
	registerProposalRoutes(v1, services.Proposal)
	registerCurrencyRoutes(v1, services.Currency)
	registerNotificationRoutes(v1, services.Notification)
	registerReportingRoutes(v1, services.Reporting)
}

func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger stays off in production builds.
	if cfg.IsProduction {
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
