package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"messenger-service/internal/logger"
	"messenger-service/internal/observability"
)

// UserIDContextKey is the gin context key holding the caller's claimed user id.
const UserIDContextKey = "userID"

// CallerIdentity records the X-User-Id header for logs and audit events.
// The header is not verified and requests without it are not rejected.
func CallerIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := observability.ClaimedUserID(c.Request); ok {
			c.Set(UserIDContextKey, userID)
			c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), strconv.Itoa(userID)))
		}
		c.Next()
	}
}
