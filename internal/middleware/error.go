// File: internal/middleware/error.go
package middleware

import (
	"net/http"

	"realestate_backend/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler creates a Gin middleware for centralized error handling. It
// renders APIError values attached via c.Error with their own status code and
// body, and wraps anything else in a generic internal error.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err

			if apiErr, ok := common.IsAPIError(err); ok {
				// Server-class failures (upstream gateway, internal) carry
				// operational context worth a log line here; client-class
				// errors were already handled at the call site.
				if apiErr.StatusCode >= http.StatusInternalServerError {
					logger.Error("Request failed with server-class error",
						zap.Error(err),
						zap.String("code", apiErr.Code),
						zap.String("path", c.Request.URL.Path),
						zap.String("request_id", c.GetString(RequestIDContextKey)),
					)
				}
				c.AbortWithStatusJSON(apiErr.StatusCode, apiErr)
				return
			}

			logger.Error("Unhandled application error",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetString(RequestIDContextKey)),
			)
			fallback := common.ErrInternalServer.WithDetails("An unexpected error occurred.")
			if gin.Mode() == gin.DebugMode && err != nil {
				fallback = common.ErrInternalServer.WithDetails(err.Error())
			}
			c.AbortWithStatusJSON(fallback.StatusCode, fallback)
			return
		}

		if c.Writer.Written() {
			return
		}
		switch c.Writer.Status() {
		case http.StatusNotFound:
			notFoundErr := common.ErrNotFound.WithDetails("The requested endpoint does not exist.")
			c.AbortWithStatusJSON(notFoundErr.StatusCode, notFoundErr)
		case http.StatusMethodNotAllowed:
			methodErr := common.NewAPIError(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "The method is not allowed for the requested URL.")
			c.AbortWithStatusJSON(methodErr.StatusCode, methodErr)
		}
	}
}
