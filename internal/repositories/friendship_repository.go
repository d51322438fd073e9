package repositories

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"messenger-service/internal/apperr"
	"messenger-service/internal/db"
	"messenger-service/internal/models"
)

// FriendshipRepository abstracts friendship persistence.
type FriendshipRepository interface {
	CreateRequest(ctx context.Context, userID, friendID int) error
	CreateMutual(ctx context.Context, userID, friendID int) error
	Accept(ctx context.Context, friendshipID int) error
	Reject(ctx context.Context, friendshipID int) error
	ListFriends(ctx context.Context, userID int) ([]models.Friend, error)
	ListIncomingRequests(ctx context.Context, userID int) ([]models.FriendRequest, error)
}

// FriendshipRepo is a sqlx implementation of FriendshipRepository.
type FriendshipRepo struct {
	db *sqlx.DB
}

// NewFriendshipRepo constructs a FriendshipRepo.
func NewFriendshipRepo(db *sqlx.DB) *FriendshipRepo {
	return &FriendshipRepo{db: db}
}

const insertFriendship = `INSERT INTO friendships (user_id, friend_id, status) VALUES ($1, $2, $3)`

// CreateRequest stores a pending userID -> friendID edge.
func (r *FriendshipRepo) CreateRequest(ctx context.Context, userID, friendID int) error {
	_, err := r.db.ExecContext(ctx, insertFriendship, userID, friendID, models.FriendshipPending)
	if apperr.IsUniqueViolation(err) {
		return apperr.Conflict("Friend request already exists", err)
	}
	return err
}

// CreateMutual stores both directed edges as accepted in one transaction.
func (r *FriendshipRepo) CreateMutual(ctx context.Context, userID, friendID int) error {
	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, insertFriendship, userID, friendID, models.FriendshipAccepted); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, insertFriendship, friendID, userID, models.FriendshipAccepted)
		return err
	})
	if apperr.IsUniqueViolation(err) {
		return apperr.Conflict("Already friends", err)
	}
	return err
}

// Accept marks the request accepted and makes sure the reciprocal edge exists
// and is accepted too. An unknown id is not an error.
func (r *FriendshipRepo) Accept(ctx context.Context, friendshipID int) error {
	return db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var edge models.Friendship
		err := tx.GetContext(ctx, &edge,
			`UPDATE friendships SET status = 'accepted' WHERE id = $1 RETURNING user_id, friend_id`, friendshipID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `INSERT INTO friendships (user_id, friend_id, status) VALUES ($1, $2, 'accepted')
            ON CONFLICT (user_id, friend_id) DO UPDATE SET status = 'accepted'`, edge.FriendID, edge.UserID)
		return err
	})
}

// Reject marks the request rejected.
func (r *FriendshipRepo) Reject(ctx context.Context, friendshipID int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE friendships SET status = 'rejected' WHERE id = $1`, friendshipID)
	return err
}

// ListFriends returns accepted friends of the user, most recently seen first.
func (r *FriendshipRepo) ListFriends(ctx context.Context, userID int) ([]models.Friend, error) {
	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select("u.id", "u.username", "u.nickname", "u.avatar_url", "u.status", "u.last_seen").
		From("users u").
		Join("friendships f ON u.id = f.friend_id").
		Where(sq.Eq{"f.user_id": userID, "f.status": models.FriendshipAccepted}).
		OrderBy("u.last_seen DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	friends := []models.Friend{}
	if err := r.db.SelectContext(ctx, &friends, query, args...); err != nil {
		return nil, err
	}
	return friends, nil
}

// ListIncomingRequests returns pending requests sent to the user, newest first.
func (r *FriendshipRepo) ListIncomingRequests(ctx context.Context, userID int) ([]models.FriendRequest, error) {
	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select("f.id AS friendship_id", "u.id", "u.username", "u.nickname", "u.avatar_url", "f.created_at").
		From("users u").
		Join("friendships f ON u.id = f.user_id").
		Where(sq.Eq{"f.friend_id": userID, "f.status": models.FriendshipPending}).
		OrderBy("f.created_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	requests := []models.FriendRequest{}
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, err
	}
	return requests, nil
}
