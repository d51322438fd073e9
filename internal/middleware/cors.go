package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	allowedHeaders  = "Content-Type, X-User-Id"
	preflightMaxAge = "86400"
)

// AllowAnyOrigin marks every response as readable from any origin.
func AllowAnyOrigin() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Next()
	}
}

// Preflight answers OPTIONS requests with 200 and an empty body, advertising
// allowMethods. Other methods pass through.
func Preflight(allowMethods string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodOptions {
			c.Next()
			return
		}
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", allowMethods)
		c.Header("Access-Control-Allow-Headers", allowedHeaders)
		c.Header("Access-Control-Max-Age", preflightMaxAge)
		c.AbortWithStatus(http.StatusOK)
	}
}
