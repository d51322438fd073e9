package repositories

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"messenger-service/internal/apperr"
)

var publicUserRowColumns = []string{"id", "username", "nickname", "invite_code", "avatar_url", "status"}

func TestUserRepoCreate(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewUserRepo(database)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("alice", "Alice", "hash", "code").
		WillReturnRows(sqlmock.NewRows(publicUserRowColumns).AddRow(1, "alice", "Alice", "code", nil, "online"))

	user, err := repo.Create(context.Background(), "alice", "Alice", "hash", "code")
	require.NoError(t, err)
	assert.Equal(t, 1, user.ID)
	assert.Equal(t, "online", user.Status)
	assert.Nil(t, user.AvatarURL)
}

func TestUserRepoCreateDuplicateUsername(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewUserRepo(database)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})

	_, err := repo.Create(context.Background(), "alice", "Alice", "hash", "code")
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, "Username already exists", apperr.PublicMessage(err))
}

func TestUserRepoCreateDuplicateInviteCode(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewUserRepo(database)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_invite_code_key"})

	_, err := repo.Create(context.Background(), "alice", "Alice", "hash", "code")
	require.ErrorIs(t, err, ErrInviteCodeTaken)
}

func TestUserRepoGetByUsernameNotFound(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewUserRepo(database)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE username").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByUsername(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepoMarkOnline(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewUserRepo(database)

	mock.ExpectQuery("UPDATE users SET status = 'online'").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(publicUserRowColumns).AddRow(3, "bob", "Bob", "c", "http://a", "online"))

	user, err := repo.MarkOnline(context.Background(), 3)
	require.NoError(t, err)
	require.NotNil(t, user.AvatarURL)
	assert.Equal(t, "http://a", *user.AvatarURL)
}

func TestUserRepoUpdateProfileKeepsAvatarWhenNil(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewUserRepo(database)

	mock.ExpectQuery(`avatar_url = COALESCE\(\$2, avatar_url\)`).
		WithArgs("Bobby", nil, 3).
		WillReturnRows(sqlmock.NewRows(publicUserRowColumns).AddRow(3, "bob", "Bobby", "c", "http://old", "online"))

	user, err := repo.UpdateProfile(context.Background(), 3, "Bobby", nil)
	require.NoError(t, err)
	assert.Equal(t, "Bobby", user.Nickname)
	assert.Equal(t, "http://old", *user.AvatarURL)
}

func TestUserRepoUpdateProfileMissingUser(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewUserRepo(database)

	mock.ExpectQuery("UPDATE users SET nickname").
		WillReturnRows(sqlmock.NewRows(publicUserRowColumns))

	_, err := repo.UpdateProfile(context.Background(), 99, "x", nil)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepoFindIDByInviteCode(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewUserRepo(database)

	mock.ExpectQuery("SELECT id FROM users WHERE invite_code").
		WithArgs("abc").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	id, err := repo.FindIDByInviteCode(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, 5, id)
}

func TestUserRepoMarkOfflineAndStatus(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewUserRepo(database)

	mock.ExpectExec("UPDATE users SET status = 'offline'").WithArgs(4).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE users SET status = ").WithArgs("away", 4).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkOffline(context.Background(), 4))
	require.NoError(t, repo.UpdateStatus(context.Background(), 4, "away"))
}
