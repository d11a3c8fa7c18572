package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"portfolio-chatbot/backend/pkg/config"
	"portfolio-chatbot/backend/pkg/di"
	"portfolio-chatbot/backend/pkg/logger"
	"portfolio-chatbot/backend/pkg/router"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.New()

	// Initialize structured logger
	logConfig := logger.DefaultConfig()
	logConfig.Level = cfg.Logging.Level
	logConfig.JSON = cfg.Logging.Format != "text"

	log := logger.New(logConfig)
	logger.SetGlobal(log)

	log.Info("Starting application",
		"version", os.Getenv("APP_VERSION"),
		"env", cfg.Server.Env,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize dependency injection container
	container, err := di.New(ctx, cfg, log)
	if err != nil {
		log.LogError(err, "Failed to initialize dependency container")
		os.Exit(1)
	}

	// Periodic component health checks
	container.Health.Start(ctx)

	// Initialize and setup router
	r := router.New(container)
	r.SetupRoutes()

	// Create HTTP server. No write timeout: replies are streamed for as
	// long as the provider keeps sending.
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r.Engine,
		ReadHeaderTimeout: cfg.Server.Timeout,
	}

	// Start the server in a goroutine
	go func() {
		log.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.LogError(err, "Server failed to start")
			os.Exit(1)
		}
	}()

	// Block until we receive a signal
	<-ctx.Done()
	log.Info("Shutting down server...")

	// Create a deadline to wait for
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Shutdown the server
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.LogError(err, "Server forced to shutdown")
	}

	if err := container.Close(shutdownCtx); err != nil {
		log.LogError(err, "Failed to flush telemetry")
	}

	log.Info("Server exited gracefully")
}
