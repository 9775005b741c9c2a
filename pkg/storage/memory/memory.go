// Package memory implements an in-memory storage.Store.
package memory

import (
	"context"
	"sync"

	"storefront/pkg/storage"
)

// Store keeps values in a map. Values are copied in and out.
type Store struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{values: make(map[string][]byte)}
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
