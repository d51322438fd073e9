package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"messenger-service/internal/logger"
	"messenger-service/internal/observability"
)

// RequestIDContextKey is the gin context key holding the request id.
const RequestIDContextKey = "request_id"

// RequestID propagates the caller request id or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := observability.RequestIDFromRequest(c.Request)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Writer.Header().Set(observability.HeaderRequestID, requestID)
		c.Set(RequestIDContextKey, requestID)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}
