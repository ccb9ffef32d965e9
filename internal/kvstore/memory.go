package kvstore

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/alkanes-indexer/common/errs"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-memory Store, used for tests and ephemeral runs.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string][]byte),
	}
}

func (m *MemoryStore) Get(_ context.Context, key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[string(key)]
	if !ok {
		return nil, errors.WithStack(errs.NotFound)
	}
	return copyBytes(value), nil
}

func (m *MemoryStore) Write(_ context.Context, entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, entry := range entries {
		m.data[string(entry.Key)] = copyBytes(entry.Value)
	}
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
