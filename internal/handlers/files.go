package handlers

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"messenger-service/internal/apperr"
	"messenger-service/internal/observability"
	"messenger-service/internal/storage"
	"messenger-service/internal/telemetry"
)

const (
	filesHandlerName   = "files"
	uploadAction       = "upload"
	defaultContentType = "application/octet-stream"
)

type uploadRequest struct {
	FileData string `json:"file_data"`
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
}

// FilesHandler stores inline base64 uploads in the object store.
type FilesHandler struct {
	store     storage.ObjectStore
	keyPrefix string
	maxBytes  int64
	now       func() time.Time
	audit     *telemetry.AuditEmitter
}

// NewFilesHandler builds a FilesHandler. maxBytes <= 0 disables the size cap.
func NewFilesHandler(store storage.ObjectStore, keyPrefix string, maxBytes int64, audit *telemetry.AuditEmitter) *FilesHandler {
	return &FilesHandler{
		store:     store,
		keyPrefix: keyPrefix,
		maxBytes:  maxBytes,
		now:       time.Now,
		audit:     audit,
	}
}

// Post handles POST /files.
func (h *FilesHandler) Post(c *gin.Context) {
	var req uploadRequest
	if err := bindBody(c, &req); err != nil {
		writeError(c, filesHandlerName, uploadAction, err)
		return
	}
	dispatch(c, filesHandlerName, uploadAction, h.upload, req)
}

func (h *FilesHandler) upload(c *gin.Context, req uploadRequest) (any, error) {
	if req.FileData == "" || req.FileName == "" {
		return nil, apperr.Validation("file_data and file_name required")
	}

	data, err := h.decode(req.FileData)
	if err != nil {
		return nil, err
	}

	contentType := req.FileType
	if contentType == "" {
		contentType = defaultContentType
	}

	key := storage.ObjectKey(h.keyPrefix, h.now(), req.FileName)
	trace.SpanFromContext(c.Request.Context()).SetAttributes(
		attribute.String("storage.key", key),
		attribute.Int("storage.size", len(data)),
	)
	if err := h.store.PutObject(c.Request.Context(), key, data, contentType); err != nil {
		return nil, apperr.Internal(err)
	}
	observability.AddUploadBytes(len(data))

	if h.audit != nil {
		h.audit.Emit(c.Request.Context(), "INFO", uploadAction, "file uploaded: "+key, requestIDFromContext(c), userIDFromContext(c, 0))
	}

	return gin.H{
		"file_url":  h.store.FileURL(key),
		"file_name": req.FileName,
		"file_size": len(data),
	}, nil
}

// decode accepts plain base64 or a data URL and enforces the size cap.
func (h *FilesHandler) decode(payload string) ([]byte, error) {
	if strings.HasPrefix(payload, "data:") {
		if idx := strings.IndexByte(payload, ','); idx >= 0 {
			payload = payload[idx+1:]
		}
	}

	if h.maxBytes > 0 && int64(base64.StdEncoding.DecodedLen(len(payload))) > h.maxBytes+2 {
		return nil, apperr.Validation("file too large")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, apperr.Validation("invalid file_data encoding")
	}
	if h.maxBytes > 0 && int64(len(data)) > h.maxBytes {
		return nil, apperr.Validation("file too large")
	}
	return data, nil
}
