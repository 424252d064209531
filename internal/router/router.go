package router

import (
	"github.com/gin-gonic/gin"

	"checklens/internal/config"
	"checklens/internal/handler"
	"checklens/internal/middleware"
)

// Setup builds the gin engine with middleware and all routes registered.
func Setup(cfg *config.Config, checks *handler.CheckHandler, health *handler.HealthHandler) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	r.GET("/healthz", health.Liveness)
	r.GET("/readyz", health.Readiness)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/checks/process", checks.Process)
		v1.GET("/checks", checks.List)
		v1.GET("/checks/export", checks.Export)
		v1.GET("/checks/:id", checks.GetByID)
		v1.GET("/analytics", checks.Analytics)
	}

	return r
}
