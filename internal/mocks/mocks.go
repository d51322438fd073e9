package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"messenger-service/internal/models"
	"messenger-service/internal/repositories"
	"messenger-service/internal/storage"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) Create(ctx context.Context, username, nickname, passwordHash, inviteCode string) (models.User, error) {
	args := m.Called(ctx, username, nickname, passwordHash, inviteCode)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetByUsername(ctx context.Context, username string) (models.User, error) {
	args := m.Called(ctx, username)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) MarkOnline(ctx context.Context, userID int) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) MarkOffline(ctx context.Context, userID int) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *UserRepositoryMock) UpdateStatus(ctx context.Context, userID int, status string) error {
	args := m.Called(ctx, userID, status)
	return args.Error(0)
}

func (m *UserRepositoryMock) UpdateProfile(ctx context.Context, userID int, nickname string, avatarURL *string) (models.User, error) {
	args := m.Called(ctx, userID, nickname, avatarURL)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) FindIDByUsername(ctx context.Context, username string) (int, error) {
	args := m.Called(ctx, username)
	return args.Int(0), args.Error(1)
}

func (m *UserRepositoryMock) FindIDByInviteCode(ctx context.Context, inviteCode string) (int, error) {
	args := m.Called(ctx, inviteCode)
	return args.Int(0), args.Error(1)
}

type FriendshipRepositoryMock struct {
	mock.Mock
}

func (m *FriendshipRepositoryMock) CreateRequest(ctx context.Context, userID, friendID int) error {
	args := m.Called(ctx, userID, friendID)
	return args.Error(0)
}

func (m *FriendshipRepositoryMock) CreateMutual(ctx context.Context, userID, friendID int) error {
	args := m.Called(ctx, userID, friendID)
	return args.Error(0)
}

func (m *FriendshipRepositoryMock) Accept(ctx context.Context, friendshipID int) error {
	args := m.Called(ctx, friendshipID)
	return args.Error(0)
}

func (m *FriendshipRepositoryMock) Reject(ctx context.Context, friendshipID int) error {
	args := m.Called(ctx, friendshipID)
	return args.Error(0)
}

func (m *FriendshipRepositoryMock) ListFriends(ctx context.Context, userID int) ([]models.Friend, error) {
	args := m.Called(ctx, userID)
	var friends []models.Friend
	if val := args.Get(0); val != nil {
		friends = val.([]models.Friend)
	}
	return friends, args.Error(1)
}

func (m *FriendshipRepositoryMock) ListIncomingRequests(ctx context.Context, userID int) ([]models.FriendRequest, error) {
	args := m.Called(ctx, userID)
	var requests []models.FriendRequest
	if val := args.Get(0); val != nil {
		requests = val.([]models.FriendRequest)
	}
	return requests, args.Error(1)
}

type ChatRepositoryMock struct {
	mock.Mock
}

func (m *ChatRepositoryMock) FindOrCreateDirect(ctx context.Context, userID, friendID int) (int, error) {
	args := m.Called(ctx, userID, friendID)
	return args.Int(0), args.Error(1)
}

func (m *ChatRepositoryMock) CreateGroup(ctx context.Context, ownerID int, name *string, memberIDs []int) (int, error) {
	args := m.Called(ctx, ownerID, name, memberIDs)
	return args.Int(0), args.Error(1)
}

func (m *ChatRepositoryMock) SetMuted(ctx context.Context, chatID, userID int, muted bool) error {
	args := m.Called(ctx, chatID, userID, muted)
	return args.Error(0)
}

func (m *ChatRepositoryMock) ListForUser(ctx context.Context, userID int) ([]models.ChatSummary, error) {
	args := m.Called(ctx, userID)
	var chats []models.ChatSummary
	if val := args.Get(0); val != nil {
		chats = val.([]models.ChatSummary)
	}
	return chats, args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) Create(ctx context.Context, msg models.NewMessage) (models.SentMessage, error) {
	args := m.Called(ctx, msg)
	var sent models.SentMessage
	if val := args.Get(0); val != nil {
		sent = val.(models.SentMessage)
	}
	return sent, args.Error(1)
}

func (m *MessageRepositoryMock) List(ctx context.Context, chatID int, search string) ([]models.MessageView, error) {
	args := m.Called(ctx, chatID, search)
	var msgs []models.MessageView
	if val := args.Get(0); val != nil {
		msgs = val.([]models.MessageView)
	}
	return msgs, args.Error(1)
}

type ObjectStoreMock struct {
	mock.Mock
}

func (m *ObjectStoreMock) PutObject(ctx context.Context, key string, body []byte, contentType string) error {
	args := m.Called(ctx, key, body, contentType)
	return args.Error(0)
}

func (m *ObjectStoreMock) FileURL(key string) string {
	args := m.Called(key)
	return args.String(0)
}

var _ repositories.UserRepository = (*UserRepositoryMock)(nil)
var _ repositories.FriendshipRepository = (*FriendshipRepositoryMock)(nil)
var _ repositories.ChatRepository = (*ChatRepositoryMock)(nil)
var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)
var _ storage.ObjectStore = (*ObjectStoreMock)(nil)
