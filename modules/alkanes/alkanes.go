package alkanes

import (
	"context"
	"encoding/hex"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/alkanes-indexer/common"
	"github.com/gaze-network/alkanes-indexer/common/errs"
	"github.com/gaze-network/alkanes-indexer/core"
	"github.com/gaze-network/alkanes-indexer/internal/config"
	"github.com/gaze-network/alkanes-indexer/internal/kvstore"
	"github.com/gaze-network/alkanes-indexer/internal/postgres"
	alkanestypes "github.com/gaze-network/alkanes-indexer/modules/alkanes/alkanes"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/api/httphandler"
	alkanesconfig "github.com/gaze-network/alkanes-indexer/modules/alkanes/config"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/contracts"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/issuance"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/runtime"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/storage"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/usecase"
	"github.com/gaze-network/alkanes-indexer/pkg/logger"
	"github.com/gaze-network/alkanes-indexer/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/do/v2"
	"github.com/samber/lo"
)

var _ core.Module = (*Alkanes)(nil)

// Alkanes owns the host store and the runtime executing calls against it.
type Alkanes struct {
	runtime      *runtime.Runtime
	usecase      *usecase.Usecase
	store        kvstore.Store
	cleanupFuncs []func(context.Context) error
}

func New(injector do.Injector) (core.Module, error) {
	ctx := do.MustInvoke[context.Context](injector)
	conf := do.MustInvoke[config.Config](injector)
	ctx = logger.WithContext(ctx, slogx.String("module", common.ModuleAlkanes.String()))

	module, err := NewAlkanes(ctx, conf.Network, conf.Modules.Alkanes)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// Mount API
	if err := mountAPIHandlers(ctx, injector, conf.Modules.Alkanes.APIHandlers, module); err != nil {
		return nil, errors.Join(errors.WithStack(err), module.Shutdown(ctx))
	}

	return module, nil
}

func mountAPIHandlers(ctx context.Context, injector do.Injector, handlers []string, module *Alkanes) error {
	for _, handler := range lo.Uniq(handlers) {
		switch handler {
		case "http":
			httpServer, err := do.Invoke[*fiber.App](injector)
			if err != nil {
				return errors.Wrap(err, "can't get HTTP server")
			}
			if err := httphandler.New(module.usecase).Mount(httpServer); err != nil {
				return errors.Wrap(err, "can't mount Alkanes API")
			}
			logger.InfoContext(ctx, "Mounted HTTP handler")
		default:
			return errors.Wrapf(errs.Unsupported, "%q API handler is not supported", handler)
		}
	}
	return nil
}

// NewAlkanes opens the configured store, registers the genesis contract and the configured orbitals.
func NewAlkanes(ctx context.Context, network common.Network, conf alkanesconfig.Config) (*Alkanes, error) {
	policy, err := issuance.PolicyFor(network)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	policy, err = policy.Override(conf.Policy)
	if err != nil {
		return nil, errors.Wrap(err, "invalid policy configuration")
	}

	registry := runtime.NewRegistry()
	if err := registry.Register(contracts.GenesisId, contracts.NewGenesis(policy)); err != nil {
		return nil, errors.WithStack(err)
	}
	for i, orbital := range conf.Orbitals {
		id, err := alkanestypes.NewAlkaneIdFromString(orbital.Id)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid id of orbital #%d", i)
		}
		data, err := hex.DecodeString(strings.TrimPrefix(orbital.Data, "0x"))
		if err != nil {
			return nil, errors.Wrapf(errs.InvalidArgument, "invalid data of orbital %s: %v", id, err)
		}
		if err := registry.Register(id, contracts.NewOrbital(orbital.Name, orbital.Symbol, data)); err != nil {
			return nil, errors.Wrapf(err, "can't register orbital %s", id)
		}
	}

	store, cleanupFuncs, err := newStore(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	rt := runtime.New(store, registry)
	module := &Alkanes{
		runtime:      rt,
		usecase:      usecase.New(rt),
		store:        store,
		cleanupFuncs: cleanupFuncs,
	}
	if err := verifyStates(ctx, store); err != nil {
		return nil, errors.Join(errors.WithStack(err), module.Shutdown(ctx))
	}

	logger.InfoContext(ctx, "Alkanes runtime is ready",
		slogx.Stringer("network", network),
		slogx.String("database", conf.Database),
		slogx.Int("contracts", len(registry.Ids())),
		slogx.Uint64("genesisHeight", policy.GenesisHeight),
		slogx.Uint128("supplyCeiling", policy.SupplyCeiling),
	)

	return module, nil
}

func (a *Alkanes) Runtime() *runtime.Runtime {
	return a.runtime
}

func (a *Alkanes) Usecase() *usecase.Usecase {
	return a.usecase
}

// Run reports the genesis state and serves calls until the context is done.
func (a *Alkanes) Run(ctx context.Context) error {
	info, err := a.usecase.GetTokenInfo(ctx, contracts.GenesisId)
	if err != nil {
		return errors.Wrap(err, "can't read genesis token info")
	}
	logger.InfoContext(ctx, "Started Alkanes runtime",
		slogx.String("name", info.Name),
		slogx.Uint128("totalSupply", info.TotalSupply),
	)
	<-ctx.Done()
	return nil
}

// Shutdown closes the store and releases the database connections.
func (a *Alkanes) Shutdown(ctx context.Context) error {
	var errList []error
	if err := a.store.Close(); err != nil {
		errList = append(errList, errors.Wrap(err, "can't close store"))
	}
	for _, cleanup := range a.cleanupFuncs {
		if err := cleanup(ctx); err != nil {
			errList = append(errList, errors.WithStack(err))
		}
	}
	return errors.Join(errList...)
}

func newStore(ctx context.Context, conf alkanesconfig.Config) (kvstore.Store, []func(context.Context) error, error) {
	switch strings.ToLower(conf.Database) {
	case "badger":
		var (
			store *kvstore.BadgerStore
			err   error
		)
		if conf.DataDir == "" {
			store, err = kvstore.NewInMemoryBadgerStore()
		} else {
			store, err = kvstore.NewBadgerStore(conf.DataDir)
		}
		if err != nil {
			return nil, nil, errors.WithStack(err)
		}
		return store, nil, nil
	case "leveldb":
		var (
			store *kvstore.LevelDBStore
			err   error
		)
		if conf.DataDir == "" {
			store, err = kvstore.NewInMemoryLevelDBStore()
		} else {
			store, err = kvstore.NewLevelDBStore(conf.DataDir)
		}
		if err != nil {
			return nil, nil, errors.WithStack(err)
		}
		return store, nil, nil
	case "postgresql", "postgres", "pg":
		pg, err := postgres.NewPool(ctx, conf.Postgres)
		if err != nil {
			if errors.Is(err, errs.InvalidArgument) {
				return nil, nil, errors.Wrap(err, "Invalid Postgres configuration for alkanes")
			}
			return nil, nil, errors.Wrap(err, "can't create Postgres connection pool")
		}
		cleanup := func(context.Context) error {
			pg.Close()
			return nil
		}
		return kvstore.NewPostgresStore(pg), []func(context.Context) error{cleanup}, nil
	case "memory":
		return kvstore.NewMemoryStore(), nil, nil
	default:
		return nil, nil, errors.Wrapf(errs.Unsupported, "%q database for alkanes is not supported", conf.Database)
	}
}

// verifyStates stamps a fresh store with DBVersion and refuses a store written by another version.
func verifyStates(ctx context.Context, store kvstore.Store) error {
	value, err := store.Get(ctx, dbVersionKey)
	if errors.Is(err, errs.NotFound) {
		return errors.WithStack(store.Write(ctx, []kvstore.Entry{{Key: dbVersionKey, Value: storage.EncodeUint32(DBVersion)}}))
	}
	if err != nil {
		return errors.Wrap(err, "can't read database version")
	}
	version, err := storage.DecodeUint32(value)
	if err != nil {
		return errors.Wrap(err, "can't decode database version")
	}
	if version != DBVersion {
		return errors.Wrapf(errs.Unsupported, "database version mismatch: store has %d, want %d", version, DBVersion)
	}
	return nil
}
