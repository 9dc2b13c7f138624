package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/handler"
)

// RouteHandlers groups the handlers the server mounts.
type RouteHandlers struct {
	Judgments *handler.JudgmentHandler
	Health    *handler.HealthHandler
}

// SetupRoutes configures all API routes.
func SetupRoutes(router *gin.Engine, h *RouteHandlers) {
	router.GET("/health", h.Health.HealthCheck)
	router.GET("/ready", h.Health.ReadinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		judgments := v1.Group("/judgments")
		judgments.POST("/generate", h.Judgments.Generate)
		judgments.GET("/stats", h.Judgments.Stats)
	}
}
