// Package session tracks revoked session tokens. Tokens are otherwise
// stateless JWTs; logout adds the token id to the store until its natural
// expiry, after which the entry is dropped.
package session

import (
	"context"
	"sync"
	"time"
)

// RevocationStore records revoked token ids with a TTL.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	Close() error
}

type memoryStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewMemoryStore returns an in-process revocation store for tests and
// single-instance deployments.
func NewMemoryStore() RevocationStore {
	return &memoryStore{revoked: make(map[string]time.Time)}
}

func (s *memoryStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = time.Now().Add(ttl)
	return nil
}

func (s *memoryStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		delete(s.revoked, tokenID)
		return false, nil
	}
	return true, nil
}

func (s *memoryStore) Close() error { return nil }
