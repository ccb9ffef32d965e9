// Package runtime executes contract calls against the host store.
//
// A call moves the incoming alkanes from the caller to the target, dispatches the
// target contract, persists the storage it returns, then moves the response alkanes
// back to the caller. All of it is flushed to the store as one batch, or none of it
// is when any step fails.
package runtime

import (
	"context"
	"log/slog"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/alkanes-indexer/internal/kvstore"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/alkanes"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/contracts"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/ledger"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/storage"
	"github.com/gaze-network/alkanes-indexer/pkg/logger"
	"github.com/gaze-network/alkanes-indexer/pkg/logger/slogx"
	"github.com/gaze-network/uint128"
)

type Call struct {
	Caller   alkanes.AlkaneId
	Target   alkanes.AlkaneId
	Inputs   []uint128.Uint128
	Incoming alkanes.Parcel
	Height   uint64
	Block    []byte
}

// NewCall builds a call from a cellpack.
func NewCall(caller alkanes.AlkaneId, cellpack alkanes.Cellpack, incoming alkanes.Parcel, height uint64, block []byte) Call {
	return Call{
		Caller:   caller,
		Target:   cellpack.Target,
		Inputs:   cellpack.Inputs,
		Incoming: incoming,
		Height:   height,
		Block:    block,
	}
}

// Runtime serializes calls: one call runs to completion before the next starts.
type Runtime struct {
	mu       sync.Mutex
	store    kvstore.Store
	registry *Registry
}

func New(store kvstore.Store, registry *Registry) *Runtime {
	return &Runtime{
		store:    store,
		registry: registry,
	}
}

func (r *Runtime) Registry() *Registry {
	return r.registry
}

// Execute runs the call and commits its effects to the store.
func (r *Runtime) Execute(ctx context.Context, call Call) (*contracts.CallResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctx = logger.WithContext(ctx, slogx.Stringer("target", call.Target), slogx.Stringer("caller", call.Caller), slogx.Uint64("height", call.Height))

	atomic := storage.NewAtomicPointer(r.store)
	response, err := r.run(ctx, atomic, call)
	if err != nil {
		logger.WarnContext(ctx, "Call failed", slogx.Error(err))
		return nil, errors.WithStack(err)
	}

	pending := atomic.Pending()
	if err := atomic.Flush(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to commit call")
	}
	logger.DebugContext(ctx, "Executed call", slog.Int("writes", pending), slog.Int("transfers", len(response.Alkanes)))
	return response, nil
}

// Simulate runs the call without committing anything.
func (r *Runtime) Simulate(ctx context.Context, call Call) (*contracts.CallResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	response, err := r.run(ctx, storage.NewAtomicPointer(r.store), call)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return response, nil
}

// View runs fn over a read view of the store. Writes made by fn, such as lazy
// inventory registration, are discarded.
func (r *Runtime) View(ctx context.Context, fn func(atomic *storage.AtomicPointer) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return errors.WithStack(fn(storage.NewAtomicPointer(r.store)))
}

func (r *Runtime) run(ctx context.Context, atomic *storage.AtomicPointer, call Call) (_ *contracts.CallResponse, err error) {
	contract, err := r.registry.Get(call.Target)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	atomic.Checkpoint()
	defer func() {
		if err != nil {
			atomic.Rollback()
			return
		}
		atomic.Commit()
	}()

	if err := ledger.Transfer(ctx, atomic, call.Caller, call.Target, call.Incoming); err != nil {
		return nil, errors.Wrap(err, "failed to transfer incoming alkanes")
	}

	c := &contracts.Context{
		Myself:   call.Target,
		Caller:   call.Caller,
		Inputs:   call.Inputs,
		Incoming: call.Incoming,
		Height:   call.Height,
		Block:    call.Block,
		Storage:  storage.NewContractStorage(atomic, call.Target),
	}
	response, err := contracts.Dispatch(ctx, contract, c)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	c.Storage.Commit(response.Storage)

	if err := ledger.Transfer(ctx, atomic, call.Target, call.Caller, response.Alkanes); err != nil {
		return nil, errors.Wrap(err, "failed to transfer response alkanes")
	}
	return response, nil
}
