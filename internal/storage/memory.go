// Package storage provides preference persistence implementations.
package storage

import (
	"context"
	"sync"

	"github.com/hammamikhairi/smartagri/internal/domain"
	"github.com/hammamikhairi/smartagri/internal/logger"
)

// Compile-time interface check.
var _ domain.PreferenceStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory preference store. Safe for concurrent access.
// Values are lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
	log    *logger.Logger
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		values: make(map[string]string),
		log:    log.With("store"),
	}
}

// Get returns the value for key, or domain.ErrNotFound.
func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

// Set stores a value, overwriting any previous one.
func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	s.log.Debug("set %s", key)
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	s.log.Debug("deleted %s", key)
	return nil
}
