package router

import (
	"portfolio-chatbot/backend/internal/api"
	"portfolio-chatbot/backend/internal/ws"
	"portfolio-chatbot/backend/pkg/config"
	"portfolio-chatbot/backend/pkg/di"
	"portfolio-chatbot/backend/pkg/errors"
	"portfolio-chatbot/backend/pkg/logger"
	"portfolio-chatbot/backend/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// Router is the main router for the application
type Router struct {
	Engine    *gin.Engine
	Container *di.Container
	Logger    *logger.Logger
	Config    *config.Config
}

// New creates a new router with the given container
func New(container *di.Container) *Router {
	// Use the container's logger
	logger.SetGlobal(container.Logger)

	cfg := container.Config

	// Configure Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Use the logger middleware first to capture all requests
	engine.Use(logger.Middleware(container.Logger))

	// Render recorded errors as the generic failure body
	engine.Use(errors.ErrorHandler())

	// Add custom recovery middleware with structured logging instead of default
	engine.Use(errors.RecoveryWithLogger())

	engine.Use(middleware.CORS(cfg.Security.AllowedOrigins))
	engine.Use(middleware.BodyLimit(cfg.Security.MaxBodySize))

	return &Router{
		Engine:    engine,
		Container: container,
		Logger:    container.Logger,
		Config:    cfg,
	}
}

// SetupRoutes registers all application routes
func (r *Router) SetupRoutes() {
	if r.Config.Features.EnableOpenAPIValidation {
		r.AddOpenAPIValidation()
	}

	r.setupHealthRoutes()

	chatbotHandler := api.NewChatbotHandler(r.Container.ChatbotService, r.Container.Metrics)
	chatbotHandler.RegisterRoutes(r.Engine)

	if r.Config.Features.EnableWebSockets {
		wsHandler := ws.NewHandler(
			r.Container.ChatbotService,
			r.Container.Metrics,
			r.Config.Security.AllowedOrigins,
			r.Logger,
		)
		wsHandler.RegisterRoutes(r.Engine)
		r.Logger.Info("WebSocket endpoint enabled", "path", "/api/chatbot/ws")
	}
}
