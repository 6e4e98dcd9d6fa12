package localstore

import (
	"context"
	"sync"
)

// Memory is an in-process Storage.
// It is safe for concurrent use so one instance can back several controllers.
type Memory struct {
	items map[string]string
	quota int
	used  int
	mu    sync.Mutex
}

// MemoryOption configures the in-memory storage.
type MemoryOption func(*Memory)

// WithQuota limits the total size (keys + values, in bytes) the storage accepts.
// Zero means unlimited.
// Default: 0 (unlimited).
func WithQuota(bytes int) MemoryOption {
	return func(m *Memory) {
		m.quota = max(bytes, 0)
	}
}

// NewMemory creates an empty in-memory storage.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{items: make(map[string]string)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the value stored under key.
func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.items[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set stores value under key.
// Returns ErrQuotaExceeded if the new value would not fit the quota; the previous
// value is kept in that case.
func (m *Memory) Set(_ context.Context, key, value string) error {
	if key == "" {
		return ErrInvalidKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	used := m.used
	if old, ok := m.items[key]; ok {
		used -= len(key) + len(old)
	}
	used += len(key) + len(value)

	if m.quota > 0 && used > m.quota {
		return ErrQuotaExceeded
	}

	m.items[key] = value
	m.used = used
	return nil
}

// Remove deletes key.
func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.items[key]; ok {
		m.used -= len(key) + len(old)
		delete(m.items, key)
	}
	return nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

var _ Storage = (*Memory)(nil)
