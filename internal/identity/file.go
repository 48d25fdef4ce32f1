package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File is the durable store for single-host deployments. Values live in a
// small JSON document under the identity directory.
type File struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create identity dir: %w", err)
	}

	f := &File{
		path:   filepath.Join(dir, "identity.json"),
		values: make(map[string]string),
	}

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read identity file: %w", err)
	}
	if err := json.Unmarshal(data, &f.values); err != nil {
		return nil, fmt.Errorf("failed to parse identity file: %w", err)
	}
	return f, nil
}

func (f *File) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[key], nil
}

func (f *File) SetIfAbsent(_ context.Context, key, value string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if current := f.values[key]; current != "" {
		return current, nil
	}
	if value == "" {
		return "", nil
	}
	f.values[key] = value
	if err := f.persist(); err != nil {
		return value, err
	}
	return value, nil
}

func (f *File) persist() error {
	data, err := json.MarshalIndent(f.values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal identity values: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write identity file: %w", err)
	}
	return nil
}

func (f *File) Close() error { return nil }
