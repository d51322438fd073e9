package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"messenger-service/internal/apperr"
	"messenger-service/internal/models"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrInviteCodeTaken = errors.New("invite code already in use")
)

const (
	publicUserColumns    = `id, username, nickname, invite_code, avatar_url, status`
	selectUserByUsername = `SELECT id, username, nickname, password_hash, invite_code, avatar_url, status, last_seen FROM users WHERE username = $1`
)

// UserRepository abstracts user persistence.
type UserRepository interface {
	Create(ctx context.Context, username, nickname, passwordHash, inviteCode string) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	MarkOnline(ctx context.Context, userID int) (models.User, error)
	MarkOffline(ctx context.Context, userID int) error
	UpdateStatus(ctx context.Context, userID int, status string) error
	UpdateProfile(ctx context.Context, userID int, nickname string, avatarURL *string) (models.User, error)
	FindIDByUsername(ctx context.Context, username string) (int, error)
	FindIDByInviteCode(ctx context.Context, inviteCode string) (int, error)
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a new online user. A taken username yields a conflict error,
// a taken invite code yields ErrInviteCodeTaken so the caller can retry.
func (r *UserRepo) Create(ctx context.Context, username, nickname, passwordHash, inviteCode string) (models.User, error) {
	var user models.User
	query := `INSERT INTO users (username, nickname, password_hash, invite_code, status)
        VALUES ($1, $2, $3, $4, 'online') RETURNING ` + publicUserColumns
	err := r.db.GetContext(ctx, &user, query, username, nickname, passwordHash, inviteCode)
	if err != nil {
		if apperr.IsUniqueViolation(err) {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && strings.Contains(pqErr.Constraint, "invite_code") {
				return models.User{}, ErrInviteCodeTaken
			}
			return models.User{}, apperr.Conflict("Username already exists", err)
		}
		return models.User{}, err
	}
	return user, nil
}

// GetByUsername fetches a user together with the stored password hash.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, selectUserByUsername, username)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// MarkOnline sets the user online, refreshes last_seen and returns the public fields.
func (r *UserRepo) MarkOnline(ctx context.Context, userID int) (models.User, error) {
	var user models.User
	query := `UPDATE users SET status = 'online', last_seen = CURRENT_TIMESTAMP WHERE id = $1 RETURNING ` + publicUserColumns
	err := r.db.GetContext(ctx, &user, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// MarkOffline sets the user offline and refreshes last_seen.
func (r *UserRepo) MarkOffline(ctx context.Context, userID int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET status = 'offline', last_seen = CURRENT_TIMESTAMP WHERE id = $1`, userID)
	return err
}

// UpdateStatus stores an arbitrary presence status.
func (r *UserRepo) UpdateStatus(ctx context.Context, userID int, status string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET status = $1 WHERE id = $2`, status, userID)
	return err
}

// UpdateProfile changes the nickname and, when avatarURL is not nil, the avatar.
func (r *UserRepo) UpdateProfile(ctx context.Context, userID int, nickname string, avatarURL *string) (models.User, error) {
	var user models.User
	query := `UPDATE users SET nickname = $1, avatar_url = COALESCE($2, avatar_url) WHERE id = $3 RETURNING ` + publicUserColumns
	err := r.db.GetContext(ctx, &user, query, nickname, avatarURL, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// FindIDByUsername resolves a username to a user id.
func (r *UserRepo) FindIDByUsername(ctx context.Context, username string) (int, error) {
	return r.findID(ctx, `SELECT id FROM users WHERE username = $1`, username)
}

// FindIDByInviteCode resolves an invite code to its owner's id.
func (r *UserRepo) FindIDByInviteCode(ctx context.Context, inviteCode string) (int, error) {
	return r.findID(ctx, `SELECT id FROM users WHERE invite_code = $1`, inviteCode)
}

func (r *UserRepo) findID(ctx context.Context, query string, arg string) (int, error) {
	var id int
	err := r.db.GetContext(ctx, &id, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrUserNotFound
	}
	return id, err
}
