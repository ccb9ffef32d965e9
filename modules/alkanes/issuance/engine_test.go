package issuance

import (
	"context"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/gaze-network/alkanes-indexer/common/errs"
	"github.com/gaze-network/alkanes-indexer/internal/kvstore"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/alkanes"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/storage"
	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var genesisId = alkanes.NewAlkaneId(2, 0)

// contractCall runs fn against a fresh view of the contract storage and keeps its
// writes only if it succeeds.
func contractCall(atomic *storage.AtomicPointer, fn func(s *storage.ContractStorage) error) error {
	s := storage.NewContractStorage(atomic, genesisId)
	if err := fn(s); err != nil {
		return err
	}
	s.Commit(s.Staged())
	return nil
}

func blockHash(n byte) chainhash.Hash {
	var hash chainhash.Hash
	hash[0] = n
	hash[31] = 0xff
	return hash
}

func totalSupply(t *testing.T, atomic *storage.AtomicPointer) uint128.Uint128 {
	t.Helper()
	supply, err := TotalSupply(context.Background(), storage.NewContractStorage(atomic, genesisId))
	require.NoError(t, err)
	return supply
}

func TestSeenKey(t *testing.T) {
	hash := blockHash(7)
	key := SeenKey(hash)
	assert.Equal(t, []byte("/seen/"), key[:6])
	assert.Equal(t, hash[:], key[6:])
	// building a key must not alias the prefix
	assert.Equal(t, []byte("/seen/"), SeenKeyPrefix)
}

func TestObserveBlock(t *testing.T) {
	ctx := context.Background()
	atomic := storage.NewAtomicPointer(kvstore.NewMemoryStore())

	require.NoError(t, contractCall(atomic, func(s *storage.ContractStorage) error {
		return ObserveBlock(ctx, s, blockHash(1))
	}))
	err := contractCall(atomic, func(s *storage.ContractStorage) error {
		return ObserveBlock(ctx, s, blockHash(1))
	})
	assert.ErrorIs(t, err, errs.AlreadyMinted)
	require.NoError(t, contractCall(atomic, func(s *storage.ContractStorage) error {
		return ObserveBlock(ctx, s, blockHash(2))
	}))

	value, err := storage.ContractPointer(atomic, genesisId).Keyword(string(SeenKey(blockHash(1)))).GetUint32(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), value)
}

func TestObserveInitialization(t *testing.T) {
	ctx := context.Background()
	atomic := storage.NewAtomicPointer(kvstore.NewMemoryStore())

	require.NoError(t, contractCall(atomic, func(s *storage.ContractStorage) error {
		initialized, err := IsInitialized(ctx, s)
		require.NoError(t, err)
		assert.False(t, initialized)
		return ObserveInitialization(ctx, s)
	}))
	err := contractCall(atomic, func(s *storage.ContractStorage) error {
		return ObserveInitialization(ctx, s)
	})
	assert.ErrorIs(t, err, errs.AlreadyInitialized)
}

func TestIssue(t *testing.T) {
	ctx := context.Background()
	ceiling := uint128.From64(100)

	testcases := []struct {
		name     string
		supply   uint128.Uint128
		amount   uint128.Uint128
		ceiling  uint128.Uint128
		expected uint128.Uint128
		err      error
	}{
		{"below", uint128.From64(40), uint128.From64(10), ceiling, uint128.From64(50), nil},
		{"exactly_reaches", uint128.From64(90), uint128.From64(10), ceiling, uint128.From64(100), nil},
		{"would_exceed", uint128.From64(95), uint128.From64(10), ceiling, uint128.From64(95), errs.SupplyExceeded},
		{"already_reached", uint128.From64(100), uint128.Zero, ceiling, uint128.From64(100), errs.SupplyExceeded},
		{"overflow", uint128.Max.Sub(uint128.From64(1)), uint128.From64(2), uint128.Max, uint128.Max.Sub(uint128.From64(1)), errs.Overflow},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			atomic := storage.NewAtomicPointer(kvstore.NewMemoryStore())
			require.NoError(t, contractCall(atomic, func(s *storage.ContractStorage) error {
				SetTotalSupply(s, tc.supply)
				return nil
			}))

			err := contractCall(atomic, func(s *storage.ContractStorage) error {
				return Issue(ctx, s, tc.amount, tc.ceiling)
			})
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.expected, totalSupply(t, atomic))
		})
	}
}

func TestEngineMintBeforeInitialize(t *testing.T) {
	ctx := context.Background()
	atomic := storage.NewAtomicPointer(kvstore.NewMemoryStore())
	engine := NewEngine(Policy{BaseReward: uint128.From64(10), SupplyCeiling: uint128.From64(100)})

	err := contractCall(atomic, func(s *storage.ContractStorage) error {
		_, err := engine.Mint(ctx, s, blockHash(1), 1)
		return err
	})
	assert.ErrorIs(t, err, errs.NotInitialized)
	assert.Zero(t, atomic.Pending())
}

func TestEngineInitializeSeenBlock(t *testing.T) {
	ctx := context.Background()
	atomic := storage.NewAtomicPointer(kvstore.NewMemoryStore())
	engine := NewEngine(Policy{Premine: uint128.From64(40), BaseReward: uint128.From64(10), SupplyCeiling: uint128.From64(100)})

	require.NoError(t, contractCall(atomic, func(s *storage.ContractStorage) error {
		_, err := engine.Initialize(ctx, s, blockHash(1))
		return err
	}))

	// the initialize block counts as minted
	err := contractCall(atomic, func(s *storage.ContractStorage) error {
		_, err := engine.Mint(ctx, s, blockHash(1), 1)
		return err
	})
	assert.ErrorIs(t, err, errs.AlreadyMinted)

	// a second initialize on a fresh block fails on the flag
	err = contractCall(atomic, func(s *storage.ContractStorage) error {
		_, err := engine.Initialize(ctx, s, blockHash(2))
		return err
	})
	assert.ErrorIs(t, err, errs.AlreadyInitialized)

	// and its seen mark was discarded with it
	require.NoError(t, contractCall(atomic, func(s *storage.ContractStorage) error {
		_, err := engine.Mint(ctx, s, blockHash(2), 2)
		return err
	}))
	assert.Equal(t, uint128.From64(50), totalSupply(t, atomic))
}

func TestEngineScenario(t *testing.T) {
	ctx := context.Background()
	atomic := storage.NewAtomicPointer(kvstore.NewMemoryStore())
	engine := NewEngine(Policy{
		Premine:       uint128.From64(40),
		BaseReward:    uint128.From64(10),
		SupplyCeiling: uint128.From64(100),
	})
	mint := func(block byte) (uint128.Uint128, error) {
		var reward uint128.Uint128
		err := contractCall(atomic, func(s *storage.ContractStorage) error {
			var err error
			reward, err = engine.Mint(ctx, s, blockHash(block), uint64(block))
			return err
		})
		return reward, err
	}

	var premine uint128.Uint128
	require.NoError(t, contractCall(atomic, func(s *storage.ContractStorage) error {
		var err error
		premine, err = engine.Initialize(ctx, s, blockHash(0))
		return err
	}))
	assert.Equal(t, uint128.From64(40), premine)
	assert.Equal(t, uint128.From64(40), totalSupply(t, atomic))

	reward, err := mint(1)
	require.NoError(t, err)
	assert.Equal(t, uint128.From64(10), reward)
	assert.Equal(t, uint128.From64(50), totalSupply(t, atomic))

	_, err = mint(1)
	assert.ErrorIs(t, err, errs.AlreadyMinted)
	assert.Equal(t, uint128.From64(50), totalSupply(t, atomic))

	_, err = mint(2)
	require.NoError(t, err)
	assert.Equal(t, uint128.From64(60), totalSupply(t, atomic))

	for block := byte(3); block <= 6; block++ {
		_, err := mint(block)
		require.NoError(t, err, "block %d", block)
	}
	assert.Equal(t, uint128.From64(100), totalSupply(t, atomic))

	_, err = mint(7)
	assert.ErrorIs(t, err, errs.SupplyExceeded)
	assert.Equal(t, uint128.From64(100), totalSupply(t, atomic))

	// the failed mint did not consume its block
	seen, err := storage.NewContractStorage(atomic, genesisId).Get(ctx, SeenKey(blockHash(7)))
	require.NoError(t, err)
	assert.Empty(t, seen)
}
