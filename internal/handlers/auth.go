package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"messenger-service/internal/apperr"
	"messenger-service/internal/auth"
	"messenger-service/internal/logger"
	"messenger-service/internal/models"
	"messenger-service/internal/repositories"
	"messenger-service/internal/telemetry"
)

const authHandlerName = "auth"

// inviteCodeAttempts bounds retries when a generated invite code collides.
const inviteCodeAttempts = 3

// AuthAction selects an operation of the auth endpoint.
type AuthAction string

const (
	ActionRegister      AuthAction = "register"
	ActionLogin         AuthAction = "login"
	ActionLogout        AuthAction = "logout"
	ActionUpdateStatus  AuthAction = "update_status"
	ActionUpdateProfile AuthAction = "update_profile"
)

type authRequest struct {
	Action    AuthAction `json:"action"`
	Username  string     `json:"username"`
	Nickname  string     `json:"nickname"`
	Password  string     `json:"password"`
	UserID    int        `json:"user_id"`
	Status    string     `json:"status"`
	AvatarURL *string    `json:"avatar_url"`
}

// AuthHandler serves registration, login and presence updates.
type AuthHandler struct {
	users         repositories.UserRepository
	hasher        auth.PasswordHasher
	newInviteCode func() (string, error)
	audit         *telemetry.AuditEmitter
}

// NewAuthHandler builds an AuthHandler.
func NewAuthHandler(users repositories.UserRepository, hasher auth.PasswordHasher, audit *telemetry.AuditEmitter) *AuthHandler {
	return &AuthHandler{
		users:         users,
		hasher:        hasher,
		newInviteCode: auth.NewInviteCode,
		audit:         audit,
	}
}

// Post handles POST /auth.
func (h *AuthHandler) Post(c *gin.Context) {
	var req authRequest
	if err := bindBody(c, &req); err != nil {
		writeError(c, authHandlerName, "unknown", err)
		return
	}

	var handle func(*gin.Context, authRequest) (any, error)
	switch req.Action {
	case ActionRegister:
		handle = h.register
	case ActionLogin:
		handle = h.login
	case ActionLogout:
		handle = h.logout
	case ActionUpdateStatus:
		handle = h.updateStatus
	case ActionUpdateProfile:
		handle = h.updateProfile
	}

	dispatch(c, authHandlerName, string(req.Action), handle, req)
}

func (h *AuthHandler) register(c *gin.Context, req authRequest) (any, error) {
	username := strings.TrimSpace(req.Username)
	nickname := strings.TrimSpace(req.Nickname)
	password := strings.TrimSpace(req.Password)
	if username == "" || nickname == "" || password == "" {
		return nil, apperr.Validation("Username, nickname and password required")
	}

	hash, err := h.hasher.Hash(password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	ctx := c.Request.Context()
	var user models.User
	for attempt := 0; attempt < inviteCodeAttempts; attempt++ {
		code, err := h.newInviteCode()
		if err != nil {
			return nil, apperr.Internal(err)
		}
		user, err = h.users.Create(ctx, username, nickname, hash, code)
		if errors.Is(err, repositories.ErrInviteCodeTaken) {
			continue
		}
		if err != nil {
			return nil, normalize(err)
		}
		h.emitAudit(c, user.ID, "INFO", string(ActionRegister), "user registered")
		return gin.H{"user": user}, nil
	}
	return nil, apperr.Internal(repositories.ErrInviteCodeTaken)
}

func (h *AuthHandler) login(c *gin.Context, req authRequest) (any, error) {
	username := strings.TrimSpace(req.Username)
	password := strings.TrimSpace(req.Password)
	if username == "" || password == "" {
		return nil, apperr.Validation("Username and password required")
	}

	ctx := c.Request.Context()
	stored, err := h.users.GetByUsername(ctx, username)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperr.Auth("Invalid credentials")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !h.hasher.Verify(password, stored.PasswordHash) {
		h.emitAudit(c, stored.ID, "WARN", string(ActionLogin), "invalid credentials")
		return nil, apperr.Auth("Invalid credentials")
	}

	user, err := h.users.MarkOnline(ctx, stored.ID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperr.Auth("Invalid credentials")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	h.emitAudit(c, user.ID, "INFO", string(ActionLogin), "user logged in")
	return gin.H{"user": user}, nil
}

func (h *AuthHandler) logout(c *gin.Context, req authRequest) (any, error) {
	if req.UserID > 0 {
		if err := h.users.MarkOffline(c.Request.Context(), req.UserID); err != nil {
			logger.GetGlobalLogger().WarnCtx(c.Request.Context(), "logout update failed",
				zap.Int("user_id", req.UserID), zap.Error(err))
		} else {
			h.emitAudit(c, req.UserID, "INFO", string(ActionLogout), "user logged out")
		}
	}
	return gin.H{"message": "Logged out"}, nil
}

func (h *AuthHandler) updateStatus(c *gin.Context, req authRequest) (any, error) {
	if req.UserID > 0 && req.Status != "" {
		if err := h.users.UpdateStatus(c.Request.Context(), req.UserID, req.Status); err != nil {
			logger.GetGlobalLogger().WarnCtx(c.Request.Context(), "status update failed",
				zap.Int("user_id", req.UserID), zap.String("status", req.Status), zap.Error(err))
		}
	}
	return gin.H{"message": "Status updated"}, nil
}

func (h *AuthHandler) updateProfile(c *gin.Context, req authRequest) (any, error) {
	if req.UserID <= 0 || req.Nickname == "" {
		return nil, apperr.Validation("User ID and nickname required")
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), req.UserID, req.Nickname, req.AvatarURL)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	h.emitAudit(c, user.ID, "INFO", string(ActionUpdateProfile), "profile updated")
	return gin.H{"user": user}, nil
}

func (h *AuthHandler) emitAudit(c *gin.Context, userID int, level, action, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, action, text, requestIDFromContext(c), userIDFromContext(c, userID))
}
