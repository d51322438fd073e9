package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"messenger-service/internal/apperr"
	"messenger-service/internal/repositories"
	"messenger-service/internal/telemetry"
)

const friendsHandlerName = "friends"

// FriendsAction selects an operation of the friends endpoint.
type FriendsAction string

const (
	ActionAddByUsername FriendsAction = "add_by_username"
	ActionAddByInvite   FriendsAction = "add_by_invite"
	ActionAccept        FriendsAction = "accept"
	ActionReject        FriendsAction = "reject"
	ActionListFriends   FriendsAction = "list"
	ActionListRequests  FriendsAction = "requests"
)

type friendsRequest struct {
	Action         FriendsAction `json:"action"`
	UserID         int           `json:"user_id"`
	FriendUsername string        `json:"friend_username"`
	InviteCode     string        `json:"invite_code"`
	FriendshipID   int           `json:"friendship_id"`
}

// FriendsHandler serves friend requests, invites and friend listings.
type FriendsHandler struct {
	users       repositories.UserRepository
	friendships repositories.FriendshipRepository
	audit       *telemetry.AuditEmitter
}

// NewFriendsHandler builds a FriendsHandler.
func NewFriendsHandler(users repositories.UserRepository, friendships repositories.FriendshipRepository, audit *telemetry.AuditEmitter) *FriendsHandler {
	return &FriendsHandler{
		users:       users,
		friendships: friendships,
		audit:       audit,
	}
}

// Post handles POST /friends.
func (h *FriendsHandler) Post(c *gin.Context) {
	var req friendsRequest
	if err := bindBody(c, &req); err != nil {
		writeError(c, friendsHandlerName, "unknown", err)
		return
	}

	var handle func(*gin.Context, friendsRequest) (any, error)
	switch req.Action {
	case ActionAddByUsername:
		handle = h.addByUsername
	case ActionAddByInvite:
		handle = h.addByInvite
	case ActionAccept:
		handle = h.accept
	case ActionReject:
		handle = h.reject
	}

	dispatch(c, friendsHandlerName, string(req.Action), handle, req)
}

// Get handles GET /friends. The action defaults to list.
func (h *FriendsHandler) Get(c *gin.Context) {
	action := FriendsAction(c.DefaultQuery("action", string(ActionListFriends)))

	var handle func(*gin.Context, friendsRequest) (any, error)
	switch action {
	case ActionListFriends:
		handle = h.listFriends
	case ActionListRequests:
		handle = h.listRequests
	}

	dispatch(c, friendsHandlerName, string(action), handle, friendsRequest{Action: action})
}

func (h *FriendsHandler) addByUsername(c *gin.Context, req friendsRequest) (any, error) {
	if req.UserID <= 0 {
		return nil, apperr.Validation("User ID required")
	}

	ctx := c.Request.Context()
	friendID, err := h.users.FindIDByUsername(ctx, strings.TrimSpace(req.FriendUsername))
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if friendID == req.UserID {
		return nil, apperr.Validation("Cannot add yourself")
	}

	if err := h.friendships.CreateRequest(ctx, req.UserID, friendID); err != nil {
		return nil, normalize(err)
	}

	h.emitAudit(c, req.UserID, string(ActionAddByUsername), "friend request sent")
	return gin.H{"message": "Friend request sent"}, nil
}

func (h *FriendsHandler) addByInvite(c *gin.Context, req friendsRequest) (any, error) {
	if req.UserID <= 0 {
		return nil, apperr.Validation("User ID required")
	}

	ctx := c.Request.Context()
	friendID, err := h.users.FindIDByInviteCode(ctx, strings.TrimSpace(req.InviteCode))
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperr.NotFound("Invalid invite code")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if friendID == req.UserID {
		return nil, apperr.Validation("Cannot add yourself")
	}

	if err := h.friendships.CreateMutual(ctx, req.UserID, friendID); err != nil {
		return nil, normalize(err)
	}

	h.emitAudit(c, req.UserID, string(ActionAddByInvite), "friend added by invite")
	return gin.H{"message": "Friend added"}, nil
}

func (h *FriendsHandler) accept(c *gin.Context, req friendsRequest) (any, error) {
	if err := h.friendships.Accept(c.Request.Context(), req.FriendshipID); err != nil {
		return nil, apperr.Internal(err)
	}
	h.emitAudit(c, req.UserID, string(ActionAccept), "friend request accepted")
	return gin.H{"message": "Friend request accepted"}, nil
}

func (h *FriendsHandler) reject(c *gin.Context, req friendsRequest) (any, error) {
	if err := h.friendships.Reject(c.Request.Context(), req.FriendshipID); err != nil {
		return nil, apperr.Internal(err)
	}
	h.emitAudit(c, req.UserID, string(ActionReject), "friend request rejected")
	return gin.H{"message": "Friend request rejected"}, nil
}

func (h *FriendsHandler) listFriends(c *gin.Context, _ friendsRequest) (any, error) {
	userID, ok := queryID(c, "user_id")
	if !ok {
		return nil, apperr.Validation("user_id required")
	}
	friends, err := h.friendships.ListFriends(c.Request.Context(), userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return gin.H{"friends": friends}, nil
}

func (h *FriendsHandler) listRequests(c *gin.Context, _ friendsRequest) (any, error) {
	userID, ok := queryID(c, "user_id")
	if !ok {
		return nil, apperr.Validation("user_id required")
	}
	requests, err := h.friendships.ListIncomingRequests(c.Request.Context(), userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return gin.H{"requests": requests}, nil
}

func (h *FriendsHandler) emitAudit(c *gin.Context, userID int, action, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), "INFO", action, text, requestIDFromContext(c), userIDFromContext(c, userID))
}
