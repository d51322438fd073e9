package repositories

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"messenger-service/internal/models"
)

// SearchLimit caps the number of messages returned by a content search.
const SearchLimit = 50

// MessageRepository abstracts message persistence.
type MessageRepository interface {
	Create(ctx context.Context, msg models.NewMessage) (models.SentMessage, error)
	List(ctx context.Context, chatID int, search string) ([]models.MessageView, error)
}

// MessageRepo is a sqlx implementation of MessageRepository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs a MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// Create stores a message and returns its id and creation time.
func (r *MessageRepo) Create(ctx context.Context, msg models.NewMessage) (models.SentMessage, error) {
	var sent models.SentMessage
	query := `INSERT INTO messages (chat_id, sender_id, message_type, content, file_url, file_name, file_size)
        VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at`
	err := r.db.GetContext(ctx, &sent, query,
		msg.ChatID, msg.SenderID, msg.MessageType, msg.Content, msg.FileURL, msg.FileName, msg.FileSize)
	return sent, err
}

// List returns the full history of a chat oldest first. With a search term it
// instead returns up to SearchLimit case-insensitive matches, newest first.
func (r *MessageRepo) List(ctx context.Context, chatID int, search string) ([]models.MessageView, error) {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(
			"m.id", "m.chat_id", "m.sender_id", "m.message_type", "m.content",
			"m.file_url", "m.file_name", "m.file_size", "m.created_at",
			"u.nickname", "u.avatar_url AS sender_avatar_url",
		).
		From("messages m").
		Join("users u ON m.sender_id = u.id").
		Where(sq.Eq{"m.chat_id": chatID})

	if search != "" {
		builder = builder.
			Where(sq.ILike{"m.content": "%" + escapeLike(search) + "%"}).
			OrderBy("m.created_at DESC").
			Limit(SearchLimit)
	} else {
		builder = builder.OrderBy("m.created_at ASC")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	messages := []models.MessageView{}
	if err := r.db.SelectContext(ctx, &messages, query, args...); err != nil {
		return nil, err
	}
	return messages, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
