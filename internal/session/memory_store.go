package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store in process memory. Used when no Redis URL
// is configured; sessions do not survive a restart.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
}

type memoryEntry struct {
	data      Data
	expiresAt time.Time
}

// NewMemoryStore creates an in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]memoryEntry)}
}

// Save stores a session token hash with expiration.
func (s *MemoryStore) Save(_ context.Context, tokenHash string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if expiresAt.Before(time.Now()) {
		expiresAt = time.Now().Add(12 * time.Hour)
	}
	s.sessions[tokenHash] = memoryEntry{
		data:      Data{CreatedAt: time.Now()},
		expiresAt: expiresAt,
	}
	return nil
}

// Lookup retrieves a session by token hash.
func (s *MemoryStore) Lookup(_ context.Context, tokenHash string) (Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[tokenHash]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(s.sessions, tokenHash)
		return Data{}, ErrNotFound
	}
	return entry.data, nil
}

// Revoke deletes a session token.
func (s *MemoryStore) Revoke(_ context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, tokenHash)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }

// Ping is a no-op for the in-memory store.
func (s *MemoryStore) Ping(_ context.Context) error { return nil }
