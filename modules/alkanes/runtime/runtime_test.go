package runtime

import (
	"bytes"
	"context"
	"testing"

	"github.com/btcsuite/btcd/wire"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/alkanes-indexer/common/errs"
	"github.com/gaze-network/alkanes-indexer/internal/kvstore"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/alkanes"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/contracts"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/issuance"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/ledger"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/storage"
	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	miner   = alkanes.NewAlkaneId(100, 1)
	other   = alkanes.NewAlkaneId(100, 2)
	orbital = alkanes.NewAlkaneId(2, 1)
)

func rawBlock(t *testing.T, nonce uint32) []byte {
	t.Helper()
	header := wire.BlockHeader{Version: 1, Nonce: nonce}
	var buf bytes.Buffer
	require.NoError(t, header.Serialize(&buf))
	return buf.Bytes()
}

func opcode(v uint64) []uint128.Uint128 {
	return []uint128.Uint128{uint128.From64(v)}
}

func newRuntime(t *testing.T, store kvstore.Store) *Runtime {
	t.Helper()
	registry := NewRegistry()
	require.NoError(t, registry.Register(contracts.GenesisId, contracts.NewGenesis(issuance.Policy{
		Premine:       uint128.From64(40),
		BaseReward:    uint128.From64(10),
		SupplyCeiling: uint128.From64(100),
		Name:          "DIESEL",
		Symbol:        "DIESEL",
	})))
	require.NoError(t, registry.Register(orbital, contracts.NewOrbital("", "", nil)))
	return New(store, registry)
}

// countingStore counts the entries written to the memory store.
type countingStore struct {
	*kvstore.MemoryStore
	written int
}

func newCountingStore() *countingStore {
	return &countingStore{MemoryStore: kvstore.NewMemoryStore()}
}

func (c *countingStore) Write(ctx context.Context, entries []kvstore.Entry) error {
	c.written += len(entries)
	return c.MemoryStore.Write(ctx, entries)
}

func balance(t *testing.T, r *Runtime, holder, asset alkanes.AlkaneId) uint128.Uint128 {
	t.Helper()
	var result uint128.Uint128
	require.NoError(t, r.View(context.Background(), func(atomic *storage.AtomicPointer) error {
		var err error
		result, err = ledger.Balance(context.Background(), atomic, holder, asset)
		return err
	}))
	return result
}

func totalSupply(t *testing.T, r *Runtime) uint128.Uint128 {
	t.Helper()
	response, err := r.Simulate(context.Background(), Call{Caller: miner, Target: contracts.GenesisId, Inputs: opcode(contracts.OpcodeTotalSupply)})
	require.NoError(t, err)
	supply, err := storage.DecodeUint128(response.Data)
	require.NoError(t, err)
	return supply
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(orbital, contracts.NewOrbital("", "", nil)))
	require.NoError(t, registry.Register(contracts.GenesisId, contracts.NewGenesis(issuance.Policy{})))

	err := registry.Register(orbital, contracts.NewOrbital("", "", nil))
	assert.ErrorIs(t, err, errs.InvalidArgument)

	_, err = registry.Get(alkanes.NewAlkaneId(3, 0))
	assert.ErrorIs(t, err, errs.NotFound)

	assert.Equal(t, []alkanes.AlkaneId{contracts.GenesisId, orbital}, registry.Ids())
}

func TestExecuteScenario(t *testing.T) {
	ctx := context.Background()
	r := newRuntime(t, kvstore.NewMemoryStore())
	mint := func(nonce uint32) error {
		_, err := r.Execute(ctx, Call{Caller: miner, Target: contracts.GenesisId, Inputs: opcode(contracts.OpcodeMint), Height: uint64(nonce), Block: rawBlock(t, nonce)})
		return err
	}

	response, err := r.Execute(ctx, Call{Caller: miner, Target: contracts.GenesisId, Inputs: opcode(contracts.OpcodeInitialize), Block: rawBlock(t, 0)})
	require.NoError(t, err)
	assert.Equal(t, alkanes.NewParcel(alkanes.AlkaneTransfer{Id: contracts.GenesisId, Value: uint128.From64(40)}), response.Alkanes)
	assert.Equal(t, uint128.From64(40), balance(t, r, miner, contracts.GenesisId))
	assert.Equal(t, uint128.From64(40), totalSupply(t, r))

	require.NoError(t, mint(1))
	assert.Equal(t, uint128.From64(50), totalSupply(t, r))

	assert.ErrorIs(t, mint(1), errs.AlreadyMinted)
	assert.Equal(t, uint128.From64(50), totalSupply(t, r))

	require.NoError(t, mint(2))
	assert.Equal(t, uint128.From64(60), totalSupply(t, r))

	for nonce := uint32(3); nonce <= 6; nonce++ {
		require.NoError(t, mint(nonce))
	}
	assert.Equal(t, uint128.From64(100), totalSupply(t, r))

	assert.ErrorIs(t, mint(7), errs.SupplyExceeded)
	assert.Equal(t, uint128.From64(100), totalSupply(t, r))

	// every issued unit is held by the miner
	assert.Equal(t, uint128.From64(100), balance(t, r, miner, contracts.GenesisId))
	assert.True(t, balance(t, r, contracts.GenesisId, contracts.GenesisId).IsZero())
}

func TestExecuteFailureLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()
	r := newRuntime(t, store)

	_, err := r.Execute(ctx, Call{Caller: miner, Target: contracts.GenesisId, Inputs: opcode(contracts.OpcodeInitialize), Block: rawBlock(t, 0)})
	require.NoError(t, err)
	before := store.written

	testcases := []struct {
		name string
		call Call
		err  error
	}{
		{
			name: "unknown_target",
			call: Call{Caller: miner, Target: alkanes.NewAlkaneId(9, 9), Inputs: opcode(contracts.OpcodeMint)},
			err:  errs.NotFound,
		},
		{
			name: "unknown_opcode",
			call: Call{Caller: miner, Target: contracts.GenesisId, Inputs: opcode(5), Incoming: alkanes.NewParcel(alkanes.AlkaneTransfer{Id: contracts.GenesisId, Value: uint128.From64(10)})},
			err:  errs.UnknownOpcode,
		},
		{
			name: "insufficient_incoming",
			call: Call{Caller: other, Target: contracts.GenesisId, Inputs: opcode(contracts.OpcodeName), Incoming: alkanes.NewParcel(alkanes.AlkaneTransfer{Id: contracts.GenesisId, Value: uint128.From64(1)})},
			err:  errs.InsufficientBalance,
		},
		{
			name: "already_initialized",
			call: Call{Caller: miner, Target: contracts.GenesisId, Inputs: opcode(contracts.OpcodeInitialize), Block: rawBlock(t, 9)},
			err:  errs.AlreadyInitialized,
		},
		{
			name: "malformed_block",
			call: Call{Caller: miner, Target: contracts.GenesisId, Inputs: opcode(contracts.OpcodeMint), Block: []byte{0x00}},
			err:  errs.MalformedBlock,
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.Execute(ctx, tc.call)
			assert.ErrorIs(t, err, tc.err)
			assert.Equal(t, before, store.written)
			assert.Equal(t, uint128.From64(40), balance(t, r, miner, contracts.GenesisId))
		})
	}
}

func TestExecuteForwardsIncoming(t *testing.T) {
	ctx := context.Background()
	r := newRuntime(t, kvstore.NewMemoryStore())

	_, err := r.Execute(ctx, Call{Caller: miner, Target: contracts.GenesisId, Inputs: opcode(contracts.OpcodeInitialize), Block: rawBlock(t, 0)})
	require.NoError(t, err)

	incoming := alkanes.NewParcel(alkanes.AlkaneTransfer{Id: contracts.GenesisId, Value: uint128.From64(15)})
	response, err := r.Execute(ctx, Call{Caller: miner, Target: orbital, Inputs: opcode(contracts.OpcodeInitialize), Incoming: incoming})
	require.NoError(t, err)
	assert.Len(t, response.Alkanes, 2)

	assert.Equal(t, uint128.From64(40), balance(t, r, miner, contracts.GenesisId))
	assert.True(t, balance(t, r, orbital, contracts.GenesisId).IsZero())
	assert.Equal(t, uint128.From64(1), balance(t, r, miner, orbital))
}

func TestExecutePersistsContractStorage(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	r := newRuntime(t, store)

	_, err := r.Execute(ctx, Call{Caller: miner, Target: orbital, Inputs: opcode(contracts.OpcodeInitialize)})
	require.NoError(t, err)

	key := []byte("/alkanes/")
	key = append(key, orbital.Bytes()...)
	key = append(key, []byte("/storage//initialized")...)
	value, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, storage.EncodeUint32(1), value)
}

func TestSimulateDoesNotCommit(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()
	r := newRuntime(t, store)

	response, err := r.Simulate(ctx, Call{Caller: miner, Target: contracts.GenesisId, Inputs: opcode(contracts.OpcodeInitialize), Block: rawBlock(t, 0)})
	require.NoError(t, err)
	assert.Equal(t, uint128.From64(40), response.Alkanes[0].Value)
	assert.Zero(t, store.written)

	response, err = r.Simulate(ctx, Call{Caller: miner, Target: contracts.GenesisId, Inputs: opcode(contracts.OpcodeName)})
	require.NoError(t, err)
	assert.Equal(t, []byte("DIESEL"), response.Data)
}

type mockStore struct {
	mock.Mock
	*kvstore.MemoryStore
}

func (m *mockStore) Write(ctx context.Context, entries []kvstore.Entry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func TestExecuteFlushFailure(t *testing.T) {
	ctx := context.Background()
	store := &mockStore{MemoryStore: kvstore.NewMemoryStore()}
	store.On("Write", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	r := newRuntime(t, store)

	_, err := r.Execute(ctx, Call{Caller: miner, Target: orbital, Inputs: opcode(contracts.OpcodeInitialize)})
	assert.ErrorContains(t, err, "disk full")
	store.AssertNumberOfCalls(t, "Write", 1)
	assert.True(t, balance(t, r, miner, orbital).IsZero())
}
