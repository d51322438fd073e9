package handlers

import (
	"github.com/gin-gonic/gin"

	"messenger-service/internal/apperr"
	"messenger-service/internal/models"
	"messenger-service/internal/repositories"
	"messenger-service/internal/telemetry"
)

const chatsHandlerName = "chats"

// ChatsAction selects an operation of the chats endpoint.
type ChatsAction string

const (
	ActionCreateChat   ChatsAction = "create_chat"
	ActionCreateGroup  ChatsAction = "create_group"
	ActionSendMessage  ChatsAction = "send_message"
	ActionMuteChat     ChatsAction = "mute_chat"
	ActionListChats    ChatsAction = "list"
	ActionListMessages ChatsAction = "messages"
)

type chatsRequest struct {
	Action      ChatsAction `json:"action"`
	UserID      int         `json:"user_id"`
	FriendID    int         `json:"friend_id"`
	Name        *string     `json:"name"`
	MemberIDs   []int       `json:"member_ids"`
	ChatID      int         `json:"chat_id"`
	MessageType string      `json:"message_type"`
	Content     *string     `json:"content"`
	FileURL     *string     `json:"file_url"`
	FileName    *string     `json:"file_name"`
	FileSize    *int64      `json:"file_size"`
	IsMuted     *bool       `json:"is_muted"`
}

// ChatsHandler serves chat creation, messaging and chat listings.
type ChatsHandler struct {
	chats    repositories.ChatRepository
	messages repositories.MessageRepository
	audit    *telemetry.AuditEmitter
}

// NewChatsHandler builds a ChatsHandler.
func NewChatsHandler(chats repositories.ChatRepository, messages repositories.MessageRepository, audit *telemetry.AuditEmitter) *ChatsHandler {
	return &ChatsHandler{
		chats:    chats,
		messages: messages,
		audit:    audit,
	}
}

// Post handles POST /chats.
func (h *ChatsHandler) Post(c *gin.Context) {
	var req chatsRequest
	if err := bindBody(c, &req); err != nil {
		writeError(c, chatsHandlerName, "unknown", err)
		return
	}

	var handle func(*gin.Context, chatsRequest) (any, error)
	switch req.Action {
	case ActionCreateChat:
		handle = h.createChat
	case ActionCreateGroup:
		handle = h.createGroup
	case ActionSendMessage:
		handle = h.sendMessage
	case ActionMuteChat:
		handle = h.muteChat
	}

	dispatch(c, chatsHandlerName, string(req.Action), handle, req)
}

// Get handles GET /chats. The action defaults to list.
func (h *ChatsHandler) Get(c *gin.Context) {
	action := ChatsAction(c.DefaultQuery("action", string(ActionListChats)))

	var handle func(*gin.Context, chatsRequest) (any, error)
	switch action {
	case ActionListChats:
		handle = h.listChats
	case ActionListMessages:
		handle = h.listMessages
	}

	dispatch(c, chatsHandlerName, string(action), handle, chatsRequest{Action: action})
}

func (h *ChatsHandler) createChat(c *gin.Context, req chatsRequest) (any, error) {
	if req.UserID <= 0 || req.FriendID <= 0 {
		return nil, apperr.Validation("user_id and friend_id required")
	}
	if req.UserID == req.FriendID {
		return nil, apperr.Validation("Cannot create chat with yourself")
	}

	chatID, err := h.chats.FindOrCreateDirect(c.Request.Context(), req.UserID, req.FriendID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	h.emitAudit(c, req.UserID, string(ActionCreateChat), "direct chat opened")
	return gin.H{"chat_id": chatID}, nil
}

func (h *ChatsHandler) createGroup(c *gin.Context, req chatsRequest) (any, error) {
	if req.UserID <= 0 {
		return nil, apperr.Validation("user_id required")
	}

	chatID, err := h.chats.CreateGroup(c.Request.Context(), req.UserID, req.Name, req.MemberIDs)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	h.emitAudit(c, req.UserID, string(ActionCreateGroup), "group created")
	return gin.H{"chat_id": chatID}, nil
}

func (h *ChatsHandler) sendMessage(c *gin.Context, req chatsRequest) (any, error) {
	if req.UserID <= 0 || req.ChatID <= 0 {
		return nil, apperr.Validation("user_id and chat_id required")
	}

	messageType := req.MessageType
	if messageType == "" {
		messageType = models.MessageTypeText
	}

	sent, err := h.messages.Create(c.Request.Context(), models.NewMessage{
		ChatID:      req.ChatID,
		SenderID:    req.UserID,
		MessageType: messageType,
		Content:     req.Content,
		FileURL:     req.FileURL,
		FileName:    req.FileName,
		FileSize:    req.FileSize,
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return gin.H{"message": sent}, nil
}

func (h *ChatsHandler) muteChat(c *gin.Context, req chatsRequest) (any, error) {
	if req.UserID <= 0 || req.ChatID <= 0 {
		return nil, apperr.Validation("user_id and chat_id required")
	}

	muted := true
	if req.IsMuted != nil {
		muted = *req.IsMuted
	}

	if err := h.chats.SetMuted(c.Request.Context(), req.ChatID, req.UserID, muted); err != nil {
		return nil, apperr.Internal(err)
	}

	if muted {
		return gin.H{"message": "Chat muted"}, nil
	}
	return gin.H{"message": "Chat unmuted"}, nil
}

func (h *ChatsHandler) listChats(c *gin.Context, _ chatsRequest) (any, error) {
	userID, ok := queryID(c, "user_id")
	if !ok {
		return nil, apperr.Validation("user_id required")
	}

	chats, err := h.chats.ListForUser(c.Request.Context(), userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return gin.H{"chats": chats}, nil
}

// listMessages accepts user_id like the other GET actions but does not filter by it.
func (h *ChatsHandler) listMessages(c *gin.Context, _ chatsRequest) (any, error) {
	chatID, ok := queryID(c, "chat_id")
	if !ok {
		return nil, apperr.Validation("chat_id required")
	}

	messages, err := h.messages.List(c.Request.Context(), chatID, c.Query("search"))
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return gin.H{"messages": messages}, nil
}

func (h *ChatsHandler) emitAudit(c *gin.Context, userID int, action, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), "INFO", action, text, requestIDFromContext(c), userIDFromContext(c, userID))
}
