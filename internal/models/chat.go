package models

import "time"

// Chat is either a 1:1 chat or a named group.
type Chat struct {
	ID        int     `db:"id" json:"id"`
	Name      *string `db:"name" json:"name"`
	IsGroup   bool    `db:"is_group" json:"is_group"`
	AvatarURL *string `db:"avatar_url" json:"avatar_url"`
}

// ChatSummary is a chat as listed for one member, with display metadata
// resolved from the peer for 1:1 chats and from the chat itself for groups.
type ChatSummary struct {
	ID              int        `db:"id" json:"id"`
	Name            *string    `db:"name" json:"name"`
	IsGroup         bool       `db:"is_group" json:"is_group"`
	AvatarURL       *string    `db:"avatar_url" json:"avatar_url"`
	Unread          int        `db:"unread" json:"unread"`
	LastMessage     *string    `db:"last_message" json:"last_message"`
	LastMessageTime *time.Time `db:"last_message_time" json:"last_message_time"`
	IsMuted         bool       `db:"is_muted" json:"is_muted"`
	DisplayName     *string    `db:"display_name" json:"display_name"`
	DisplayAvatar   *string    `db:"display_avatar" json:"display_avatar"`
	FriendStatus    *string    `db:"friend_status" json:"friend_status"`
}
