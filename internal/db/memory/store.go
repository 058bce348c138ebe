package memory

import (
	"context"
	"sync"
	"time"

	"github.com/homegrid/intentd/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

type entry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

// Store is an in-process db.Store for single-instance deployments and tests.
// Expired entries are dropped lazily on read.
type Store struct {
	mu   sync.RWMutex
	data map[string]entry
	now  func() time.Time
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close drops all entries.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]entry)
}

// WaitForReady returns immediately; an in-memory store is always ready.
func (s *Store) WaitForReady(_ context.Context, _ time.Duration) error { return nil }

// Get retrieves a value by key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return nil, db.ErrKeyNotFound
	}
	if !e.expiresAt.IsZero() && s.now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.data, key)
		s.mu.Unlock()
		return nil, db.ErrKeyNotFound
	}

	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

// Set stores a value at the given key.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	return s.put(key, value, 0)
}

// SetWithTTL stores a value with an expiration.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	return s.put(key, value, ttl)
}

func (s *Store) put(key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	e := entry{value: stored}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.data[key] = e
	s.mu.Unlock()
	return nil
}
