package store

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store for tests and single-binary runs.
// Each operation is individually atomic; nothing coordinates a get followed
// by a put, mirroring the remote backends.
type MemoryStore struct {
	mu   sync.RWMutex
	logs map[string][]string

	// GetHook, when set, runs after each GetLog returns its snapshot and
	// before control returns to the caller. It is a test seam for forcing
	// two read-modify-write cycles to interleave deterministically.
	GetHook func(key string)
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{logs: make(map[string][]string)}
}

// GetLog returns a copy of the stored log, or nil if the key is absent.
func (m *MemoryStore) GetLog(_ context.Context, key string) ([]string, error) {
	m.mu.RLock()
	stored, ok := m.logs[key]
	var log []string
	if ok {
		log = make([]string, len(stored))
		copy(log, stored)
	}
	m.mu.RUnlock()

	if m.GetHook != nil {
		m.GetHook(key)
	}
	return log, nil
}

// PutLog replaces the stored log. Last writer wins.
func (m *MemoryStore) PutLog(_ context.Context, key string, log []string) error {
	stored := make([]string, len(log))
	copy(stored, log)

	m.mu.Lock()
	m.logs[key] = stored
	m.mu.Unlock()
	return nil
}
