package kvstore

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dgraph-io/badger/v4"
	"github.com/gaze-network/alkanes-indexer/common/errs"
)

var _ Store = (*BadgerStore)(nil)

// BadgerStore is a Store backed by Badger.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (or creates) a Badger database at path.
func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable badger's built-in logging.

	db, err := badger.Open(opts)
	if err != nil {
		if strings.Contains(err.Error(), "Cannot acquire directory lock") {
			return nil, errors.Wrapf(err, "database at %s is locked by another process", path)
		}
		return nil, errors.Wrapf(err, "failed to open badger database at %s", path)
	}
	return &BadgerStore{db: db}, nil
}

// NewInMemoryBadgerStore opens a Badger database without a backing directory.
func NewInMemoryBadgerStore() (*BadgerStore, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open in-memory badger database")
	}
	return &BadgerStore{db: db}, nil
}

func (b *BadgerStore) Get(_ context.Context, key []byte) ([]byte, error) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, errors.WithStack(errs.NotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "badger get")
	}
	return value, nil
}

func (b *BadgerStore) Write(_ context.Context, entries []Entry) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		for _, entry := range entries {
			if err := txn.Set(copyBytes(entry.Key), copyBytes(entry.Value)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "badger write %d entries", len(entries))
	}
	return nil
}

func (b *BadgerStore) Close() error {
	return errors.WithStack(b.db.Close())
}
