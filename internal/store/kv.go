// Package store holds the abstract key-value contract the core depends
// on, its backends, and the serialized update queue that protects
// read-modify-write cycles from lost updates.
package store

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
)

// KV is the storage contract. No atomic per-key update is assumed —
// callers serialize their own read-modify-write cycles (UpdateQueue).
type KV interface {
	// Get returns the values for the requested keys. Absent keys are
	// simply missing from the result, not an error.
	Get(ctx context.Context, keys []string) (map[string]json.RawMessage, error)
	// Set stores all items. Either the whole batch lands or none of it.
	Set(ctx context.Context, items map[string]json.RawMessage) error
	// Delete removes the given keys. Absent keys are ignored.
	Delete(ctx context.Context, keys []string) error
	// Keys lists all stored keys with the given prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
	// Close releases the backend.
	Close() error
}

// Memory is an in-memory KV for tests and ephemeral runs.
type Memory struct {
	mu   sync.RWMutex
	data map[string]json.RawMessage
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]json.RawMessage)}
}

func (m *Memory) Get(_ context.Context, keys []string) (map[string]json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]json.RawMessage, len(keys))
	for _, k := range keys {
		if v, ok := m.data[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (m *Memory) Set(_ context.Context, items map[string]json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range items {
		cp := make(json.RawMessage, len(v))
		copy(cp, v)
		m.data[k] = cp
	}
	return nil
}

func (m *Memory) Delete(_ context.Context, keys []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *Memory) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out, nil
}

func (m *Memory) Close() error { return nil }
