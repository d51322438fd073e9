package models

import "time"

// Message is a single immutable chat message.
type Message struct {
	ID          int       `db:"id" json:"id"`
	ChatID      int       `db:"chat_id" json:"chat_id"`
	SenderID    int       `db:"sender_id" json:"sender_id"`
	MessageType string    `db:"message_type" json:"message_type"`
	Content     *string   `db:"content" json:"content"`
	FileURL     *string   `db:"file_url" json:"file_url"`
	FileName    *string   `db:"file_name" json:"file_name"`
	FileSize    *int64    `db:"file_size" json:"file_size"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// MessageView is a message joined with its sender's display fields.
type MessageView struct {
	Message
	Nickname  string  `db:"nickname" json:"nickname"`
	AvatarURL *string `db:"sender_avatar_url" json:"avatar_url"`
}

// NewMessage carries the fields of a message to be stored.
type NewMessage struct {
	ChatID      int
	SenderID    int
	MessageType string
	Content     *string
	FileURL     *string
	FileName    *string
	FileSize    *int64
}

// SentMessage is what the store returns after inserting a message.
type SentMessage struct {
	ID        int       `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

const MessageTypeText = "text"
