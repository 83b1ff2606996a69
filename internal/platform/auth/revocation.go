package auth

import (
	"sync"
	"time"
)

// TokenRevocationStore manages revoked session tokens in memory. Revoked
// token JTIs are stored until the token would have expired anyway, then
// swept by a background cleanup. Thread-safe for concurrent access.
type TokenRevocationStore struct {
	mu      sync.RWMutex
	entries map[string]time.Time // JTI -> token expiry
	done    chan struct{}
}

// NewTokenRevocationStore creates a new store and starts a background
// goroutine that cleans up expired entries every 5 minutes.
func NewTokenRevocationStore() *TokenRevocationStore {
	s := &TokenRevocationStore{
		entries: make(map[string]time.Time),
		done:    make(chan struct{}),
	}
	go s.cleanupLoop()
	return s
}

// Revoke adds a token's JTI to the revocation list. The expiresAt time is
// when the token would have naturally expired; the entry is cleaned up
// after that since an expired token no longer needs tracking.
func (s *TokenRevocationStore) Revoke(jti string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[jti] = expiresAt
}

// IsRevoked checks if a token JTI has been revoked.
func (s *TokenRevocationStore) IsRevoked(jti string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.entries[jti]
	return ok
}

// Close stops the background cleanup goroutine.
func (s *TokenRevocationStore) Close() {
	close(s.done)
}

func (s *TokenRevocationStore) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.done:
			return
		}
	}
}

func (s *TokenRevocationStore) cleanup() {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for jti, expiresAt := range s.entries {
		if now.After(expiresAt) {
			delete(s.entries, jti)
		}
	}
}
