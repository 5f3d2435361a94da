package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

type memoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStore returns a process-local DocumentStore, used in development
// and tests.
func NewMemoryStore() DocumentStore {
	return &memoryStore{docs: make(map[string][]byte)}
}

func (m *memoryStore) Backend() string { return "memory" }

func (m *memoryStore) Ping(ctx context.Context) error { return ctx.Err() }

func (m *memoryStore) Get(ctx context.Context, path string, out any) (bool, error) {
	p, err := NormalizePath(path)
	if err != nil {
		return false, err
	}
	m.mu.RLock()
	data, ok := m.docs[p]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return true, decodeDocument(data, out)
}

func (m *memoryStore) Set(ctx context.Context, path string, value any) error {
	p, err := NormalizePath(path)
	if err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	m.mu.Lock()
	m.docs[p] = data
	m.mu.Unlock()
	return nil
}

func (m *memoryStore) Update(ctx context.Context, path string, fields map[string]any) error {
	p, err := NormalizePath(path)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.docs[p]
	if !ok {
		return ErrDocumentNotFound
	}
	merged, err := mergeFields(data, fields)
	if err != nil {
		return err
	}
	m.docs[p] = merged
	return nil
}

func (m *memoryStore) Delete(ctx context.Context, path string) error {
	p, err := NormalizePath(path)
	if err != nil {
		return err
	}
	prefix := p + "/"
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.docs {
		if k == p || strings.HasPrefix(k, prefix) {
			delete(m.docs, k)
		}
	}
	return nil
}

func (m *memoryStore) Children(ctx context.Context, path string) (map[string]json.RawMessage, error) {
	p, err := NormalizePath(path)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]json.RawMessage)
	for k, v := range m.docs {
		if parentOf(k) == p {
			out[lastSegment(k)] = append(json.RawMessage(nil), v...)
		}
	}
	return out, nil
}
