package postgres

import (
	"context"
	"strings"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/alkanes-indexer/common/errs"
	"github.com/gaze-network/alkanes-indexer/pkg/logger"
	"github.com/gaze-network/alkanes-indexer/pkg/logger/slogx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	pgxslog "github.com/mcosta74/pgx-slog"
	"github.com/samber/lo"
)

const (
	DefaultMaxConns = 16
	DefaultMinConns = 0
	DefaultLogLevel = tracelog.LogLevelError

	// ApplicationName is reported to the server as application_name.
	ApplicationName = "alkanes-indexer"
)

// Config of the postgres host store. URL, when set, is used instead of the other connection fields.
type Config struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"db_name"`
	SSLMode  string `mapstructure:"ssl_mode"`
	URL      string `mapstructure:"url"`

	MaxConns int32 `mapstructure:"max_conns"`
	MinConns int32 `mapstructure:"min_conns"`

	// Debug traces every query.
	Debug bool `mapstructure:"debug"`
}

// NewPool connects a pool and pings the server. A malformed configuration fails with errs.InvalidArgument.
func NewPool(ctx context.Context, conf Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(conf.String())
	if err != nil {
		return nil, errors.Wrapf(errs.InvalidArgument, "can't parse postgres config: %v", err)
	}
	if conf.MinConns > utils.Default(conf.MaxConns, DefaultMaxConns) {
		return nil, errors.Wrapf(errs.InvalidArgument, "min_conns %d is above max_conns", conf.MinConns)
	}
	poolConfig.MaxConns = utils.Default(conf.MaxConns, DefaultMaxConns)
	poolConfig.MinConns = utils.Default(conf.MinConns, DefaultMinConns)
	poolConfig.ConnConfig.Tracer = conf.QueryTracer()
	if _, ok := poolConfig.ConnConfig.RuntimeParams["application_name"]; !ok {
		poolConfig.ConnConfig.RuntimeParams["application_name"] = ApplicationName
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, errors.Wrap(err, "can't create connection pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "can't reach postgres")
	}

	logger.DebugContext(ctx, "Connected to postgres",
		slogx.String("host", poolConfig.ConnConfig.Host),
		slogx.String("database", poolConfig.ConnConfig.Database),
		slogx.Int("maxConns", int(poolConfig.MaxConns)),
	)
	return pool, nil
}

// String returns the connection string: URL when set, otherwise a keyword/value DSN.
func (conf Config) String() string {
	if conf.URL != "" {
		return conf.URL
	}
	params := [][2]string{
		{"host", utils.Default(conf.Host, "127.0.0.1")},
		{"dbname", utils.Default(conf.DBName, "postgres")},
		{"port", utils.Default(conf.Port, "5432")},
		{"sslmode", utils.Default(conf.SSLMode, "prefer")},
		{"user", conf.User},
		{"password", conf.Password},
	}
	var dsn []string
	for _, param := range params {
		if param[1] != "" {
			dsn = append(dsn, param[0]+"="+param[1])
		}
	}
	return strings.Join(dsn, " ")
}

// QueryTracer logs failed queries, or every query in debug mode.
func (conf Config) QueryTracer() pgx.QueryTracer {
	return &tracelog.TraceLog{
		Logger:   pgxslog.NewLogger(logger.With(slogx.String("package", "postgres"))),
		LogLevel: lo.Ternary(conf.Debug, tracelog.LogLevelTrace, DefaultLogLevel),
	}
}
