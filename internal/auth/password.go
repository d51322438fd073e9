package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// NewPasswordHasher returns the hasher named by kind ("bcrypt" or "sha256").
func NewPasswordHasher(kind string) (PasswordHasher, error) {
	switch kind {
	case "", "bcrypt":
		return BcryptHasher{Cost: bcrypt.DefaultCost}, nil
	case "sha256":
		return SHA256Hasher{}, nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", kind)
	}
}

// SHA256Hasher produces unsalted hex digests, the format of accounts created
// before bcrypt was introduced.
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(password string) (string, error) {
	return legacyDigest(password), nil
}

func (SHA256Hasher) Verify(password, hash string) bool {
	return subtle.ConstantTimeCompare([]byte(legacyDigest(password)), []byte(hash)) == 1
}

// bcryptMaxInput is the longest password bcrypt accepts.
const bcryptMaxInput = 72

// BcryptHasher hashes with bcrypt and still accepts legacy sha256 digests.
// Passwords longer than bcrypt's input limit are pre-hashed with sha256.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword(bcryptInput(password), cost)
	return string(bytes), err
}

func (h BcryptHasher) Verify(password, hash string) bool {
	if isLegacyDigest(hash) {
		return SHA256Hasher{}.Verify(password, hash)
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), bcryptInput(password)) == nil
}

func bcryptInput(password string) []byte {
	if len(password) <= bcryptMaxInput {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

func legacyDigest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func isLegacyDigest(hash string) bool {
	if len(hash) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(hash)
	return err == nil
}
