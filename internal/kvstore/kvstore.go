// Package kvstore provides the host key-value stores the alkanes runtime commits to.
package kvstore

import (
	"context"
)

// Store is the host key-value store. Reads are point lookups; writes are applied
// in batches that become visible all at once or not at all.
type Store interface {
	// Get returns the value stored at key. Returns errs.NotFound if the key doesn't exist.
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Write applies all entries atomically.
	Write(ctx context.Context, entries []Entry) error

	Close() error
}

// Entry is a single key/value write.
type Entry struct {
	Key   []byte
	Value []byte
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
