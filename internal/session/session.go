// Package session provides storage backends for workspace session tokens.
package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

// ErrNotFound is returned when a token is unknown or expired.
var ErrNotFound = errors.New("session not found or expired")

// Data holds what we record for each active session.
type Data struct {
	CreatedAt time.Time `json:"created_at"`
}

// Store persists opaque session tokens keyed by their SHA-256 hash.
type Store interface {
	Save(ctx context.Context, tokenHash string, expiresAt time.Time) error
	Lookup(ctx context.Context, tokenHash string) (Data, error)
	Revoke(ctx context.Context, tokenHash string) error
	Ping(ctx context.Context) error
	Close() error
}

// NewToken returns a fresh opaque session token.
func NewToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}

// HashToken derives the storage key for a token. Only the hash is
// persisted, so a leaked store dump cannot be replayed.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
