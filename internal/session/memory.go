package session

import (
	"context"
	"sync"
)

// MemoryStorage is a non-durable Storage for tests and throwaway sessions.
type MemoryStorage struct {
	mu   sync.Mutex
	recs map[string]Record
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{recs: make(map[string]Record)}
}

func (m *MemoryStorage) Get(_ context.Context, namespace string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.recs[namespace]
	if !ok {
		return Record{UserID: NoUser}, nil
	}
	return r, nil
}

func (m *MemoryStorage) Set(_ context.Context, namespace string, r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.recs[namespace] = r
	return nil
}

func (m *MemoryStorage) Clear(_ context.Context, namespace string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.recs, namespace)
	return nil
}
