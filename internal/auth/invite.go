package auth

import (
	"crypto/rand"
	"encoding/base64"
)

const inviteCodeBytes = 8

// NewInviteCode returns a random URL-safe token used for instant friendship.
func NewInviteCode() (string, error) {
	buf := make([]byte, inviteCodeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
