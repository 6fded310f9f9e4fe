package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-process Store used in tests. FailReads and FailWrites
// force the corresponding error class to exercise failure paths.
type MemoryStore struct {
	mu         sync.RWMutex
	entries    map[string]string
	FailReads  bool
	FailWrites bool
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]string)}
}

// Get retrieves the value stored under key
func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.FailReads {
		return "", fmt.Errorf("%w: simulated failure", ErrRead)
	}
	value, ok := s.entries[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return value, nil
}

// Set stores value under key
func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites {
		return fmt.Errorf("%w: simulated failure", ErrWrite)
	}
	s.entries[key] = value
	return nil
}

// Remove deletes the entry stored under key
func (s *MemoryStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites {
		return fmt.Errorf("%w: simulated failure", ErrWrite)
	}
	delete(s.entries, key)
	return nil
}

// Len returns the number of stored keys
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
