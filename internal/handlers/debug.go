package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"messenger-service/internal/telemetry"
)

type auditProbeRequest struct {
	Action string `json:"action"`
	Text   string `json:"text"`
}

// RegisterDebugRoutes mounts POST /debug/audit, which pushes a probe event
// through the audit pipeline. Disabled in production.
func RegisterDebugRoutes(router *gin.Engine, emitter *telemetry.AuditEmitter, enabled bool) {
	if !enabled {
		return
	}

	router.POST("/debug/audit", func(c *gin.Context) {
		if emitter == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "audit emitter not configured"})
			return
		}

		var req auditProbeRequest
		if err := bindBody(c, &req); err != nil {
			writeError(c, "debug", "audit", err)
			return
		}
		action := strings.TrimSpace(req.Action)
		if action == "" {
			action = "debug"
		}
		text := req.Text
		if text == "" {
			text = "audit probe"
		}

		requestID := requestIDFromContext(c)
		emitter.Emit(c.Request.Context(), "DEBUG", action, text, requestID, userIDFromContext(c, 0))
		c.JSON(http.StatusAccepted, gin.H{"request_id": requestID, "action": action})
	})
}
