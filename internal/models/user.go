package models

import "time"

// User is a registered account. PasswordHash is never serialized.
type User struct {
	ID           int        `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	Nickname     string     `db:"nickname" json:"nickname"`
	PasswordHash string     `db:"password_hash" json:"-"`
	InviteCode   string     `db:"invite_code" json:"invite_code"`
	AvatarURL    *string    `db:"avatar_url" json:"avatar_url"`
	Status       string     `db:"status" json:"status"`
	LastSeen     *time.Time `db:"last_seen" json:"-"`
}

// Friend is an accepted friend as shown in the friends list.
type Friend struct {
	ID        int        `db:"id" json:"id"`
	Username  string     `db:"username" json:"username"`
	Nickname  string     `db:"nickname" json:"nickname"`
	AvatarURL *string    `db:"avatar_url" json:"avatar_url"`
	Status    string     `db:"status" json:"status"`
	LastSeen  *time.Time `db:"last_seen" json:"last_seen"`
}

const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)
