package kvstore

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/alkanes-indexer/common/errs"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

var _ Store = (*LevelDBStore)(nil)

// LevelDBStore is a Store backed by goleveldb.
type LevelDBStore struct {
	db *leveldb.DB
}

// NewLevelDBStore opens (or creates) a leveldb database at path.
func NewLevelDBStore(path string) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{
		ErrorIfMissing: false,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open leveldb database at %s", path)
	}
	return &LevelDBStore{db: db}, nil
}

// NewInMemoryLevelDBStore opens a leveldb database on memory storage.
func NewInMemoryLevelDBStore() (*LevelDBStore, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open in-memory leveldb database")
	}
	return &LevelDBStore{db: db}, nil
}

func (l *LevelDBStore) Get(_ context.Context, key []byte) ([]byte, error) {
	value, err := l.db.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, errors.WithStack(errs.NotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "leveldb get")
	}
	return value, nil
}

func (l *LevelDBStore) Write(_ context.Context, entries []Entry) error {
	batch := new(leveldb.Batch)
	for _, entry := range entries {
		batch.Put(entry.Key, entry.Value)
	}
	if err := l.db.Write(batch, &opt.WriteOptions{Sync: true}); err != nil {
		return errors.Wrapf(err, "leveldb write %d entries", len(entries))
	}
	return nil
}

func (l *LevelDBStore) Close() error {
	return errors.WithStack(l.db.Close())
}
