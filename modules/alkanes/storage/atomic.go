package storage

import (
	"context"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/alkanes-indexer/common/errs"
	"github.com/gaze-network/alkanes-indexer/internal/kvstore"
	"github.com/samber/lo"
)

// AtomicPointer is a transactional view over the host store. Writes land in the
// newest layer; Checkpoint pushes a layer, Commit folds it into the one below and
// Rollback drops it. Nothing reaches the store until Flush.
//
// An AtomicPointer is used by one call at a time and is not safe for concurrent use.
type AtomicPointer struct {
	store  kvstore.Store
	layers []map[string][]byte
}

func NewAtomicPointer(store kvstore.Store) *AtomicPointer {
	return &AtomicPointer{
		store:  store,
		layers: []map[string][]byte{make(map[string][]byte)},
	}
}

// Root returns the pointer with an empty key.
func (a *AtomicPointer) Root() Pointer {
	return Pointer{atomic: a}
}

// Depth returns the number of open layers, the base layer included.
func (a *AtomicPointer) Depth() int {
	return len(a.layers)
}

func (a *AtomicPointer) Checkpoint() {
	a.layers = append(a.layers, make(map[string][]byte))
}

// Commit folds the newest checkpoint into its parent. On the base layer it is a no-op.
func (a *AtomicPointer) Commit() {
	if a.Depth() == 1 {
		return
	}
	top := a.layers[len(a.layers)-1]
	a.layers = a.layers[:len(a.layers)-1]
	parent := a.layers[len(a.layers)-1]
	for key, value := range top {
		parent[key] = value
	}
}

// Rollback discards the newest checkpoint. On the base layer it discards every pending write.
func (a *AtomicPointer) Rollback() {
	if a.Depth() == 1 {
		a.layers[0] = make(map[string][]byte)
		return
	}
	a.layers = a.layers[:len(a.layers)-1]
}

// Pending returns the number of keys written in the base layer.
func (a *AtomicPointer) Pending() int {
	return len(a.layers[0])
}

// Flush writes the base layer to the store as one batch and clears it.
// All checkpoints must be committed or rolled back first.
func (a *AtomicPointer) Flush(ctx context.Context) error {
	if depth := a.Depth(); depth != 1 {
		return errors.Errorf("cannot flush with %d open checkpoints", depth-1)
	}
	base := a.layers[0]
	if len(base) == 0 {
		return nil
	}

	// sorted so every backend sees the same write order
	keys := lo.Keys(base)
	slices.Sort(keys)
	entries := lo.Map(keys, func(key string, _ int) kvstore.Entry {
		return kvstore.Entry{Key: []byte(key), Value: base[key]}
	})
	if err := a.store.Write(ctx, entries); err != nil {
		return errors.Wrap(err, "failed to write pending entries")
	}
	a.layers[0] = make(map[string][]byte)
	return nil
}

func (a *AtomicPointer) get(ctx context.Context, key []byte) ([]byte, error) {
	for i := len(a.layers) - 1; i >= 0; i-- {
		if value, ok := a.layers[i][string(key)]; ok {
			return value, nil
		}
	}
	value, err := a.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return []byte{}, nil
		}
		return nil, errors.Wrap(err, "failed to read from store")
	}
	return value, nil
}

func (a *AtomicPointer) set(key []byte, value []byte) {
	stored := make([]byte, len(value))
	copy(stored, value)
	a.layers[len(a.layers)-1][string(key)] = stored
}
