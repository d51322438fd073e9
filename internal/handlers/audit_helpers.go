package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"messenger-service/internal/observability"
)

const requestIDContextKey = "request_id"

func requestIDFromContext(c *gin.Context) string {
	if val, ok := c.Get(requestIDContextKey); ok {
		if id, ok := val.(string); ok && id != "" {
			return id
		}
	}

	requestID := observability.RequestIDFromRequest(c.Request)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(requestIDContextKey, requestID)
	return requestID
}

// userIDFromContext prefers the user id named in the request body and falls
// back to the caller identity recorded from the X-User-Id header.
func userIDFromContext(c *gin.Context, bodyUserID int) *string {
	if bodyUserID > 0 {
		value := strconv.Itoa(bodyUserID)
		return &value
	}

	if val, ok := c.Get("userID"); ok {
		if userID, ok := val.(int); ok && userID != 0 {
			value := strconv.Itoa(userID)
			return &value
		}
	}

	if userID, ok := observability.ClaimedUserID(c.Request); ok {
		value := strconv.Itoa(userID)
		return &value
	}

	return nil
}
