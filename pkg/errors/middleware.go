package errors

import (
	"github.com/gin-gonic/gin"
)

// ErrorHandler returns a middleware that renders the first recorded error
// as {"error": "<message>"}. Responses that are already committed are left
// alone. Logging is left to the logger middleware, which reports every
// entry in c.Errors.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		appErr := FromError(c.Errors[0].Err)
		c.AbortWithStatusJSON(appErr.StatusCode, Body(appErr))
	}
}
