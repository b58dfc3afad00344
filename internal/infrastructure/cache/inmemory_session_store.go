package cache

import (
	"context"
	"sync"
	"time"

	"github.com/vendora/backend/internal/domain/cart"
	"github.com/vendora/backend/internal/domain/shared"
)

// sessionEntry holds a session's cart lines with expiration
type sessionEntry struct {
	items     []cart.LineItem
	expiresAt time.Time
}

// InMemorySessionStore implements cart.SessionStore using an in-memory map.
// This is suitable for single-instance deployments and testing; distributed
// deployments should use RedisSessionStore so instances share guest carts.
type InMemorySessionStore struct {
	mu        sync.RWMutex
	entries   map[string]sessionEntry
	ttl       time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemorySessionStore creates a new in-memory session cart store.
// It starts a background goroutine to clean up expired entries.
func NewInMemorySessionStore(ttl time.Duration) *InMemorySessionStore {
	store := &InMemorySessionStore{
		entries:  make(map[string]sessionEntry),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// Get loads the line items for a session. A missing or expired session
// reads as an empty cart.
func (s *InMemorySessionStore) Get(ctx context.Context, sessionID string) ([]cart.LineItem, error) {
	if sessionID == "" {
		return nil, shared.NewDomainError("INVALID_SESSION", "Session ID cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.entries[sessionID]
	if !exists || time.Now().After(e.expiresAt) {
		return nil, nil
	}

	// Copy out so callers cannot mutate the stored slice
	items := make([]cart.LineItem, len(e.items))
	copy(items, e.items)
	return items, nil
}

// Put replaces the session's line items and refreshes the TTL
func (s *InMemorySessionStore) Put(ctx context.Context, sessionID string, items []cart.LineItem) error {
	if sessionID == "" {
		return shared.NewDomainError("INVALID_SESSION", "Session ID cannot be empty")
	}

	stored := make([]cart.LineItem, len(items))
	copy(stored, items)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[sessionID] = sessionEntry{
		items:     stored,
		expiresAt: time.Now().Add(s.ttl),
	}
	return nil
}

// Delete removes the session's cart, if any
func (s *InMemorySessionStore) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return shared.NewDomainError("INVALID_SESSION", "Session ID cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, sessionID)
	return nil
}

// Close stops the cleanup goroutine and releases resources.
// Safe to call multiple times.
func (s *InMemorySessionStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired entries
func (s *InMemorySessionStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

// cleanup removes all expired entries
func (s *InMemorySessionStore) cleanup() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for sessionID, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, sessionID)
		}
	}
}

// Ensure InMemorySessionStore implements cart.SessionStore
var _ cart.SessionStore = (*InMemorySessionStore)(nil)
