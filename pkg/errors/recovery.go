package errors

import (
	"errors"
	"net/http"
	"runtime/debug"

	"portfolio-chatbot/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RecoveryWithLogger returns a middleware that recovers from panics, logs
// them with the request-scoped logger and answers with the generic error.
//
// http.ErrAbortHandler is re-raised: handlers use it to abort a response whose
// body has already started, and net/http turns it into a truncated body.
func RecoveryWithLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			if err, ok := r.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(r)
			}

			logger.FromContext(c).Error("Panic recovered",
				"error", r,
				"stack", string(debug.Stack()),
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
			)

			if c.Writer.Written() {
				// Headers are out; the only signal left is a broken body.
				panic(http.ErrAbortHandler)
			}

			appErr := NewGenerationError(nil)
			c.AbortWithStatusJSON(appErr.StatusCode, Body(appErr))
		}()

		c.Next()
	}
}
