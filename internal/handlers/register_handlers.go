package handlers

import (
	"github.com/DeepsSystems/Sasingian-Lawyers/cmd/docs"
	portssvc "github.com/DeepsSystems/Sasingian-Lawyers/internal/core/ports/services"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/middleware"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/platform/config"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/platform/metrics"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RouteDeps carries the optional cross-cutting collaborators of the router.
// Any field may be nil.
type RouteDeps struct {
	Metrics       *metrics.Metrics
	Posthog       *utils.PosthogClientWrapper
	IntakeLimiter *limiter.Limiter
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	deps RouteDeps,
) {
	r.Use(cors.New(corsConfig(cfg)))
	if deps.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(deps.Metrics))
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	health := &healthHandler{sessionService: services.Session}
	r.GET("/health", health.getHealth)

	// Register public authentication routes
	registerAuthRoutes(r, services.Session)

	setupAPIV1Routes(r, cfg, services, deps)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	deps RouteDeps,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret, services.Session))
	v1.Use(middleware.PosthogMiddleware(deps.Posthog))

	var classifyLimit gin.HandlerFunc
	if deps.IntakeLimiter != nil {
		classifyLimit = middleware.RateLimit(deps.IntakeLimiter)
	}

	registerSessionRoutes(v1, services.Session)
	RegisterMatterRoutes(v1, services.Workflow, deps.Metrics)
	RegisterBillingRoutes(v1, services.Billing, deps.Metrics)
	RegisterRecordsRoutes(v1, services.Records)
	RegisterIntakeRoutes(v1, services.Intake, deps.Metrics, classifyLimit)
	RegisterViewRoutes(v1, services.Views)
	RegisterReportingRoutes(v1, services.Reporting)
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	c.AllowOrigins = cfg.CORSOrigins
	if len(c.AllowOrigins) == 0 {
		c.AllowAllOrigins = true
	}
	c.AddAllowHeaders("Authorization", "X-Request-ID")
	c.AddExposeHeaders("X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Content-Disposition")
	return c
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
