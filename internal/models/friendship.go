package models

import "time"

// Friendship is a directed edge from UserID to FriendID.
type Friendship struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	FriendID  int       `db:"friend_id" json:"friend_id"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// FriendRequest is a pending incoming request together with its sender.
type FriendRequest struct {
	FriendshipID int       `db:"friendship_id" json:"friendship_id"`
	ID           int       `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Nickname     string    `db:"nickname" json:"nickname"`
	AvatarURL    *string   `db:"avatar_url" json:"avatar_url"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
	FriendshipRejected = "rejected"
)
