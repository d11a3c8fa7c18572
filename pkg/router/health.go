package router

import (
	"github.com/gin-gonic/gin"
)

// setupHealthRoutes registers health check and metrics endpoints
func (r *Router) setupHealthRoutes() {
	healthHandler := r.Container.Health.Handler()

	// Register both health endpoint paths for compatibility
	r.Engine.GET("/health", healthHandler)
	r.Engine.GET("/api/health", healthHandler)

	r.Engine.GET("/metrics", gin.WrapH(r.Container.Telemetry.Handler()))
}
