package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"messenger-service/internal/apperr"
	"messenger-service/internal/mocks"
	"messenger-service/internal/models"
	"messenger-service/internal/repositories"
	"messenger-service/internal/telemetry"
)

func setupFriendsRouter(users *mocks.UserRepositoryMock, friendships *mocks.FriendshipRepositoryMock, audit *telemetry.AuditEmitter) *gin.Engine {
	return setupRouter(Handlers{Friends: NewFriendsHandler(users, friendships, audit)})
}

func TestAddByUsernameSendsRequest(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	friendships := new(mocks.FriendshipRepositoryMock)
	publisher := new(mocks.PublisherMock)
	audit := telemetry.NewAuditEmitter(publisher, "audit.messenger", "messenger-service", "test")
	router := setupFriendsRouter(users, friendships, audit)

	users.On("FindIDByUsername", mock.Anything, "bob").Return(2, nil).Once()
	friendships.On("CreateRequest", mock.Anything, 1, 2).Return(nil).Once()
	publisher.On("Publish", mock.Anything, "audit.messenger", mocks.AuditAction("add_by_username")).Return(nil).Once()

	rec := doJSON(router, http.MethodPost, "/friends", `{"action":"add_by_username","user_id":1,"friend_username":"bob"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Friend request sent", decodeBody(t, rec)["message"])
	users.AssertExpectations(t)
	friendships.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestAddByUsernameUnknownUser(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	friendships := new(mocks.FriendshipRepositoryMock)
	router := setupFriendsRouter(users, friendships, nil)

	users.On("FindIDByUsername", mock.Anything, "ghost").Return(0, repositories.ErrUserNotFound).Once()

	rec := doJSON(router, http.MethodPost, "/friends", `{"action":"add_by_username","user_id":1,"friend_username":"ghost"}`)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", decodeBody(t, rec)["error"])
	friendships.AssertNotCalled(t, "CreateRequest", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddByUsernameRequiresUserID(t *testing.T) {
	router := setupFriendsRouter(new(mocks.UserRepositoryMock), new(mocks.FriendshipRepositoryMock), nil)

	rec := doJSON(router, http.MethodPost, "/friends", `{"action":"add_by_username","friend_username":"bob"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User ID required", decodeBody(t, rec)["error"])
}

func TestAddByUsernameRejectsSelf(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	friendships := new(mocks.FriendshipRepositoryMock)
	router := setupFriendsRouter(users, friendships, nil)

	users.On("FindIDByUsername", mock.Anything, "alice").Return(1, nil).Once()

	rec := doJSON(router, http.MethodPost, "/friends", `{"action":"add_by_username","user_id":1,"friend_username":"alice"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Cannot add yourself", decodeBody(t, rec)["error"])
}

func TestAddByUsernameDuplicate(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	friendships := new(mocks.FriendshipRepositoryMock)
	router := setupFriendsRouter(users, friendships, nil)

	users.On("FindIDByUsername", mock.Anything, "bob").Return(2, nil).Once()
	friendships.On("CreateRequest", mock.Anything, 1, 2).
		Return(apperr.Conflict("Friend request already exists", assert.AnError)).Once()

	rec := doJSON(router, http.MethodPost, "/friends", `{"action":"add_by_username","user_id":1,"friend_username":"bob"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Friend request already exists", decodeBody(t, rec)["error"])
}

func TestAddByInvite(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	friendships := new(mocks.FriendshipRepositoryMock)
	router := setupFriendsRouter(users, friendships, nil)

	users.On("FindIDByInviteCode", mock.Anything, "abc123").Return(3, nil).Once()
	friendships.On("CreateMutual", mock.Anything, 1, 3).Return(nil).Once()

	rec := doJSON(router, http.MethodPost, "/friends", `{"action":"add_by_invite","user_id":1,"invite_code":"abc123"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Friend added", decodeBody(t, rec)["message"])
	friendships.AssertExpectations(t)
}

func TestAddByInviteUnknownCode(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	router := setupFriendsRouter(users, new(mocks.FriendshipRepositoryMock), nil)

	users.On("FindIDByInviteCode", mock.Anything, "nope").Return(0, repositories.ErrUserNotFound).Once()

	rec := doJSON(router, http.MethodPost, "/friends", `{"action":"add_by_invite","user_id":1,"invite_code":"nope"}`)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Invalid invite code", decodeBody(t, rec)["error"])
}

func TestAddByInviteAlreadyFriends(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	friendships := new(mocks.FriendshipRepositoryMock)
	router := setupFriendsRouter(users, friendships, nil)

	users.On("FindIDByInviteCode", mock.Anything, "abc123").Return(3, nil).Once()
	friendships.On("CreateMutual", mock.Anything, 1, 3).Return(apperr.Conflict("Already friends", assert.AnError)).Once()

	rec := doJSON(router, http.MethodPost, "/friends", `{"action":"add_by_invite","user_id":1,"invite_code":"abc123"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Already friends", decodeBody(t, rec)["error"])
}

func TestAcceptAndReject(t *testing.T) {
	friendships := new(mocks.FriendshipRepositoryMock)
	router := setupFriendsRouter(new(mocks.UserRepositoryMock), friendships, nil)

	friendships.On("Accept", mock.Anything, 7).Return(nil).Once()
	friendships.On("Reject", mock.Anything, 8).Return(nil).Once()

	rec := doJSON(router, http.MethodPost, "/friends", `{"action":"accept","friendship_id":7}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Friend request accepted", decodeBody(t, rec)["message"])

	rec = doJSON(router, http.MethodPost, "/friends", `{"action":"reject","friendship_id":8}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Friend request rejected", decodeBody(t, rec)["message"])

	friendships.AssertExpectations(t)
}

func TestListFriends(t *testing.T) {
	friendships := new(mocks.FriendshipRepositoryMock)
	router := setupFriendsRouter(new(mocks.UserRepositoryMock), friendships, nil)

	friendships.On("ListFriends", mock.Anything, 1).
		Return([]models.Friend{{ID: 2, Username: "bob", Nickname: "Bob", Status: "online"}}, nil).Once()

	rec := doJSON(router, http.MethodGet, "/friends?user_id=1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	friends := decodeBody(t, rec)["friends"].([]any)
	require.Len(t, friends, 1)
	assert.Equal(t, "bob", friends[0].(map[string]any)["username"])
	friendships.AssertExpectations(t)
}

func TestListFriendsEmptyIsArray(t *testing.T) {
	friendships := new(mocks.FriendshipRepositoryMock)
	router := setupFriendsRouter(new(mocks.UserRepositoryMock), friendships, nil)

	friendships.On("ListFriends", mock.Anything, 1).Return([]models.Friend{}, nil).Once()

	rec := doJSON(router, http.MethodGet, "/friends?action=list&user_id=1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"friends":[]}`, rec.Body.String())
}

func TestListRequests(t *testing.T) {
	friendships := new(mocks.FriendshipRepositoryMock)
	router := setupFriendsRouter(new(mocks.UserRepositoryMock), friendships, nil)

	friendships.On("ListIncomingRequests", mock.Anything, 2).
		Return([]models.FriendRequest{{FriendshipID: 7, ID: 1, Username: "alice"}}, nil).Once()

	rec := doJSON(router, http.MethodGet, "/friends?action=requests&user_id=2", "")

	require.Equal(t, http.StatusOK, rec.Code)
	requests := decodeBody(t, rec)["requests"].([]any)
	require.Len(t, requests, 1)
	assert.Equal(t, float64(7), requests[0].(map[string]any)["friendship_id"])
}

func TestFriendsGetValidationAndUnknownAction(t *testing.T) {
	router := setupFriendsRouter(new(mocks.UserRepositoryMock), new(mocks.FriendshipRepositoryMock), nil)

	rec := doJSON(router, http.MethodGet, "/friends", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "user_id required", decodeBody(t, rec)["error"])

	rec = doJSON(router, http.MethodGet, "/friends?action=accept&user_id=1", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = doJSON(router, http.MethodPost, "/friends", `{"action":"list","user_id":1}`)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = doJSON(router, http.MethodDelete, "/friends", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
