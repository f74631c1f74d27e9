/*
Package store persists the client session: access token, refresh token and the
cached identity.

Store is an opaque key/value interface. Every call is independent; there is no
transaction across keys, and a partially written session after a crash is an
accepted risk. Session is the typed view the rest of the core uses.
*/
package store

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Get for a key that has no value.
var ErrNotFound = errors.New("store: key not found")

// Store is the persistence boundary for the session.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// MemoryStore keeps values in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
	return nil
}
