package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"messenger-service/internal/db"
	"messenger-service/internal/models"
)

// ChatRepository abstracts chat and membership persistence.
type ChatRepository interface {
	FindOrCreateDirect(ctx context.Context, userID, friendID int) (int, error)
	CreateGroup(ctx context.Context, ownerID int, name *string, memberIDs []int) (int, error)
	SetMuted(ctx context.Context, chatID, userID int, muted bool) error
	ListForUser(ctx context.Context, userID int) ([]models.ChatSummary, error)
}

// ChatRepo is a sqlx implementation of ChatRepository.
type ChatRepo struct {
	db *sqlx.DB
}

// NewChatRepo constructs a ChatRepo.
func NewChatRepo(db *sqlx.DB) *ChatRepo {
	return &ChatRepo{db: db}
}

const (
	findDirectChat = `SELECT c.id FROM chats c
        INNER JOIN chat_members cm1 ON c.id = cm1.chat_id
        INNER JOIN chat_members cm2 ON c.id = cm2.chat_id
        WHERE c.is_group = FALSE AND cm1.user_id = $1 AND cm2.user_id = $2
        LIMIT 1`
	insertMember = `INSERT INTO chat_members (chat_id, user_id) VALUES ($1, $2) ON CONFLICT (chat_id, user_id) DO NOTHING`
)

// FindOrCreateDirect returns the 1:1 chat between the two users, creating it
// with both memberships when none exists. Concurrent calls for the same pair
// are serialized with a transaction-scoped advisory lock.
func (r *ChatRepo) FindOrCreateDirect(ctx context.Context, userID, friendID int) (int, error) {
	var chatID int
	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		low, high := userID, friendID
		if low > high {
			low, high = high, low
		}
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, low, high); err != nil {
			return err
		}

		err := tx.GetContext(ctx, &chatID, findDirectChat, userID, friendID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		if err := tx.GetContext(ctx, &chatID, `INSERT INTO chats (is_group) VALUES (FALSE) RETURNING id`); err != nil {
			return err
		}
		for _, memberID := range []int{userID, friendID} {
			if _, err := tx.ExecContext(ctx, insertMember, chatID, memberID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return chatID, nil
}

// CreateGroup creates a group chat with the owner and every listed member.
func (r *ChatRepo) CreateGroup(ctx context.Context, ownerID int, name *string, memberIDs []int) (int, error) {
	var chatID int
	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &chatID, `INSERT INTO chats (name, is_group) VALUES ($1, TRUE) RETURNING id`, name); err != nil {
			return err
		}
		members := append([]int{ownerID}, memberIDs...)
		for _, memberID := range members {
			if _, err := tx.ExecContext(ctx, insertMember, chatID, memberID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return chatID, nil
}

// SetMuted updates the member's mute flag for the chat.
func (r *ChatRepo) SetMuted(ctx context.Context, chatID, userID int, muted bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE chat_members SET is_muted = $1 WHERE chat_id = $2 AND user_id = $3`, muted, chatID, userID)
	return err
}

// listChatsQuery resolves per-chat display metadata with correlated subqueries.
// For 1:1 chats the peer is the single member other than $1.
const listChatsQuery = `
SELECT DISTINCT c.id, c.name, c.is_group, c.avatar_url,
    (SELECT COUNT(*) FROM messages
        WHERE chat_id = c.id AND sender_id != $1
        AND created_at > COALESCE((SELECT last_seen FROM users WHERE id = $1), '1970-01-01')) AS unread,
    (SELECT content FROM messages WHERE chat_id = c.id ORDER BY created_at DESC LIMIT 1) AS last_message,
    (SELECT created_at FROM messages WHERE chat_id = c.id ORDER BY created_at DESC LIMIT 1) AS last_message_time,
    cm.is_muted,
    CASE
        WHEN c.is_group THEN c.name
        ELSE (SELECT u.nickname FROM users u INNER JOIN chat_members cm2 ON u.id = cm2.user_id
              WHERE cm2.chat_id = c.id AND u.id != $1 LIMIT 1)
    END AS display_name,
    CASE
        WHEN c.is_group THEN NULL
        ELSE (SELECT u.avatar_url FROM users u INNER JOIN chat_members cm2 ON u.id = cm2.user_id
              WHERE cm2.chat_id = c.id AND u.id != $1 LIMIT 1)
    END AS display_avatar,
    CASE
        WHEN c.is_group THEN NULL
        ELSE (SELECT u.status FROM users u INNER JOIN chat_members cm2 ON u.id = cm2.user_id
              WHERE cm2.chat_id = c.id AND u.id != $1 LIMIT 1)
    END AS friend_status
FROM chats c
INNER JOIN chat_members cm ON c.id = cm.chat_id
WHERE cm.user_id = $1
ORDER BY last_message_time DESC NULLS LAST`

// ListForUser returns every chat the user belongs to, most recent activity first.
func (r *ChatRepo) ListForUser(ctx context.Context, userID int) ([]models.ChatSummary, error) {
	chats := []models.ChatSummary{}
	if err := r.db.SelectContext(ctx, &chats, listChatsQuery, userID); err != nil {
		return nil, err
	}
	return chats, nil
}
