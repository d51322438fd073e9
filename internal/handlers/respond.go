package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"messenger-service/internal/apperr"
	"messenger-service/internal/logger"
	"messenger-service/internal/observability"
	"messenger-service/internal/telemetry"
)

// bindBody decodes the JSON body into dst. An empty body leaves dst zeroed.
func bindBody(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperr.Validation("invalid request body")
	}
	return nil
}

// queryID parses a positive integer query parameter.
func queryID(c *gin.Context, key string) (int, bool) {
	id, err := strconv.Atoi(c.Query(key))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// startAction opens a span for the dispatched action. The returned func ends it.
func startAction(c *gin.Context, handler, action string) func() {
	ctx, span := telemetry.StartSpan(c.Request.Context(), handler+"."+action,
		attribute.String("messenger.handler", handler),
		attribute.String("messenger.action", action),
	)
	c.Request = c.Request.WithContext(ctx)
	return func() { span.End() }
}

// dispatch runs handle for a resolved action. A nil handle means the action is
// not served by this endpoint.
func dispatch[R any](c *gin.Context, handler, rawAction string, handle func(*gin.Context, R) (any, error), req R) {
	action := actionLabel(handle != nil, rawAction)
	if handle == nil {
		writeError(c, handler, action, apperr.MethodNotAllowed())
		return
	}

	defer startAction(c, handler, action)()
	body, err := handle(c, req)
	if err != nil {
		writeError(c, handler, action, err)
		return
	}
	writeOK(c, handler, action, body)
}

func writeOK(c *gin.Context, handler, action string, body any) {
	observability.IncAction(handler, action, "ok")
	c.JSON(http.StatusOK, body)
}

// writeError responds with {"error": msg}. Internal causes are logged, never returned.
func writeError(c *gin.Context, handler, action string, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		logger.GetGlobalLogger().ErrorCtx(c.Request.Context(), "request failed",
			zap.String("handler", handler),
			zap.String("action", action),
			zap.Error(err),
		)
	}
	observability.IncAction(handler, action, kind.String())
	c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.PublicMessage(err)})
}

// MethodNotAllowed answers verbs a route does not serve.
func MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
}

// normalize keeps domain errors and wraps anything else as internal.
func normalize(err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperr.Internal(err)
}

// actionLabel keeps metric labels bounded for unknown actions.
func actionLabel(known bool, action string) string {
	if !known {
		return "unknown"
	}
	return action
}
