package identity

import (
	"context"
	"sync"
)

// Memory is the ephemeral store. Values last for the lifetime of the
// process, matching a browsing session.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *Memory) SetIfAbsent(_ context.Context, key, value string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if current := m.values[key]; current != "" {
		return current, nil
	}
	if value == "" {
		return "", nil
	}
	m.values[key] = value
	return value, nil
}

func (m *Memory) Close() error { return nil }
