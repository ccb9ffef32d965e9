package kvstore

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/alkanes-indexer/common/errs"
	"github.com/gaze-network/alkanes-indexer/internal/postgres"
	"github.com/jackc/pgx/v5"
)

var _ Store = (*PostgresStore)(nil)

const (
	getValueQuery = `SELECT "value" FROM "alkanes_kv" WHERE "key" = $1`
	putValueQuery = `INSERT INTO "alkanes_kv" ("key", "value") VALUES ($1, $2) ON CONFLICT ("key") DO UPDATE SET "value" = EXCLUDED."value"`
)

// PostgresStore is a Store backed by the "alkanes_kv" table.
// The table is created by the alkanes migrations.
type PostgresStore struct {
	db postgres.DB
}

func NewPostgresStore(db postgres.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) Get(ctx context.Context, key []byte) ([]byte, error) {
	var value []byte
	if err := p.db.QueryRow(ctx, getValueQuery, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "failed to get value")
	}
	return value, nil
}

func (p *PostgresStore) Write(ctx context.Context, entries []Entry) (err error) {
	if len(entries) == 0 {
		return nil
	}
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	batch := &pgx.Batch{}
	for _, entry := range entries {
		// nil would violate NOT NULL
		value := entry.Value
		if value == nil {
			value = []byte{}
		}
		batch.Queue(putValueQuery, entry.Key, value)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return errors.Wrap(err, "failed to write batch")
	}
	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// Close is a no-op, the connection pool is owned by the caller.
func (p *PostgresStore) Close() error {
	return nil
}
