package preferences

import (
	"context"
	"sync"
)

// MemoryBackend keeps blobs in process memory. Used by tests and the
// "memory" backend setting.
type MemoryBackend struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{blobs: map[string][]byte{}}
}

func (m *MemoryBackend) Load(_ context.Context, storageKey string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	payload, ok := m.blobs[storageKey]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), payload...), nil
}

func (m *MemoryBackend) Save(_ context.Context, storageKey string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[storageKey] = append([]byte(nil), payload...)
	return nil
}
