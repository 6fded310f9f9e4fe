// Package storage provides the persisted key-value store the order and
// notification cores are built on. Values are whole JSON documents replaced
// per key; there are no partial updates or cross-key transactions.
package storage

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrKeyNotFound is returned by Get when the key has never been written
	ErrKeyNotFound = errors.New("key not found")

	// ErrRead wraps storage read failures
	ErrRead = errors.New("storage read failed")

	// ErrWrite wraps storage write failures
	ErrWrite = errors.New("storage write failed")
)

// Store is the durable key -> JSON string mapping the core requires from its
// storage collaborator. Implementations must return ErrKeyNotFound (wrapped
// or bare) from Get for missing keys.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// SerializedStore wraps a Store and orders all read-modify-write mutations
// of the same key through a per-key lock, so concurrent callers are applied
// deterministically instead of racing last-write-wins. Writes to different
// keys proceed independently.
type SerializedStore struct {
	store Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewSerializedStore wraps the given store with per-key update ordering
func NewSerializedStore(store Store) *SerializedStore {
	return &SerializedStore{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *SerializedStore) keyLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}

// Get reads the current value of a key. Missing keys surface ErrKeyNotFound;
// callers treat that as an empty collection.
func (s *SerializedStore) Get(ctx context.Context, key string) (string, error) {
	return s.store.Get(ctx, key)
}

// Set replaces the value of a key wholesale
func (s *SerializedStore) Set(ctx context.Context, key, value string) error {
	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	return s.store.Set(ctx, key, value)
}

// Remove deletes a key
func (s *SerializedStore) Remove(ctx context.Context, key string) error {
	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	return s.store.Remove(ctx, key)
}

// Update applies fn to the current value of key and writes the result back,
// holding the key's lock for the whole read-modify-write. A missing key is
// passed to fn as the empty string. If fn returns an error the key is left
// untouched and the error is returned unchanged.
func (s *SerializedStore) Update(ctx context.Context, key string, fn func(current string) (string, error)) error {
	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	current, err := s.store.Get(ctx, key)
	if err != nil && !errors.Is(err, ErrKeyNotFound) {
		return err
	}

	next, err := fn(current)
	if err != nil {
		return err
	}

	return s.store.Set(ctx, key, next)
}
