package migrate

import (
	"io"
	"net/url"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/alkanes-indexer/common/errs"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const (
	alkanesMigrationSource = "modules/alkanes/database/postgresql/migrations"
	alkanesMigrationTable  = "alkanes_schema_migrations"
)

func cloneURLWithQuery(u *url.URL, newQuery url.Values) *url.URL {
	clone := *u
	query := clone.Query()
	for key, values := range newQuery {
		for _, value := range values {
			query.Add(key, value)
		}
	}
	clone.RawQuery = query.Encode()
	return &clone
}

var supportedDrivers = map[string]struct{}{
	"postgres":   {},
	"postgresql": {},
}

// parseDatabaseURL validates the database url and pins the migrations table of the alkanes schema.
func parseDatabaseURL(rawURL string) (*url.URL, error) {
	if rawURL == "" {
		return nil, errors.New("--database is required")
	}
	databaseURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse database URL")
	}
	if _, ok := supportedDrivers[databaseURL.Scheme]; !ok {
		return nil, errors.Wrapf(errs.Unsupported, "database driver %q", databaseURL.Scheme)
	}
	return cloneURLWithQuery(databaseURL, url.Values{"x-migrations-table": {alkanesMigrationTable}}), nil
}

func newMigrate(out io.Writer, sourcePath string, databaseURL *url.URL) (*migrate.Migrate, error) {
	m, err := migrate.New("file://"+sourcePath, databaseURL.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Migrate instance")
	}
	m.Log = newConsoleLogger(out, "Alkanes")
	return m, nil
}
