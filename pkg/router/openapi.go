package router

import (
	"net/http"

	"portfolio-chatbot/backend/pkg/validator"

	"github.com/gin-gonic/gin"
)

// AddOpenAPIValidation validates gateway requests against the embedded
// schema and serves the schema at /api/docs/openapi.yaml
func (r *Router) AddOpenAPIValidation() {
	v, err := validator.NewGatewayValidator()
	if err != nil {
		r.Logger.Error("Failed to initialize OpenAPI validator", "error", err)
		return
	}

	r.Engine.Use(v.Middleware())
	r.Logger.Info("OpenAPI validation enabled")

	r.Engine.GET("/api/docs/openapi.yaml", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/yaml", validator.Schema())
	})
}
