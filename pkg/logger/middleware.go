package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKey is the gin key under which the request-scoped logger is stored
const ContextKey = "logger"

// Middleware returns a Gin middleware function that logs requests
func Middleware(logger *Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Reuse an upstream request ID or generate one
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header("X-Request-ID", requestID)

		reqLogger := logger.WithRequestID(requestID)
		c.Set(ContextKey, reqLogger)
		c.Request = c.Request.WithContext(ContextWithRequestID(c.Request.Context(), requestID))

		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		path := c.Request.URL.Path
		method := c.Request.Method

		reqLogger.LogRequest(method, path, status, latency)

		for _, err := range c.Errors {
			reqLogger.LogError(err.Err, "request error",
				"method", method,
				"path", path,
				"error_type", err.Type,
			)
		}
	}
}

// FromContext returns the request-scoped logger, or the global one
func FromContext(c *gin.Context) *Logger {
	if l, ok := c.Get(ContextKey); ok {
		if reqLogger, ok := l.(*Logger); ok {
			return reqLogger
		}
	}
	return GetGlobal()
}
