// Package issuance implements the genesis token's issuance rules: the halving
// reward schedule, the one-mint-per-block gate, the initialize-once flag and the
// supply ceiling.
//
// All state lives in the storage of the issuing contract, so every write is staged
// and discarded with the call if it fails.
package issuance

import (
	"context"
	"encoding/hex"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/alkanes-indexer/common/errs"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/storage"
	"github.com/gaze-network/uint128"
)

// Contract-relative storage keys.
var (
	SeenKeyPrefix  = []byte("/seen/")
	TotalSupplyKey = []byte("/totalsupply")
	InitializedKey = []byte("/initialized")
)

func SeenKey(hash chainhash.Hash) []byte {
	return append(append([]byte{}, SeenKeyPrefix...), hash[:]...)
}

// ObserveBlock records that the issuer honored a mint for the block hash.
// Fails with errs.AlreadyMinted if it already did.
func ObserveBlock(ctx context.Context, s *storage.ContractStorage, hash chainhash.Hash) error {
	key := SeenKey(hash)
	value, err := s.Get(ctx, key)
	if err != nil {
		return errors.Wrap(err, "failed to read seen block")
	}
	if len(value) != 0 {
		// internal byte order, as stored
		return errors.Wrapf(errs.AlreadyMinted, "block %s", hex.EncodeToString(hash[:]))
	}
	s.SetUint32(key, 1)
	return nil
}

// ObserveInitialization sets the initialized flag.
// Fails with errs.AlreadyInitialized if it is already set.
func ObserveInitialization(ctx context.Context, s *storage.ContractStorage) error {
	initialized, err := IsInitialized(ctx, s)
	if err != nil {
		return errors.WithStack(err)
	}
	if initialized {
		return errors.WithStack(errs.AlreadyInitialized)
	}
	s.SetUint32(InitializedKey, 1)
	return nil
}

func IsInitialized(ctx context.Context, s *storage.ContractStorage) (bool, error) {
	value, err := s.Get(ctx, InitializedKey)
	if err != nil {
		return false, errors.Wrap(err, "failed to read initialized flag")
	}
	return len(value) != 0, nil
}

func TotalSupply(ctx context.Context, s *storage.ContractStorage) (uint128.Uint128, error) {
	supply, err := s.GetUint128(ctx, TotalSupplyKey)
	if err != nil {
		return uint128.Uint128{}, errors.Wrap(err, "failed to read total supply")
	}
	return supply, nil
}

func SetTotalSupply(s *storage.ContractStorage, v uint128.Uint128) {
	s.SetUint128(TotalSupplyKey, v)
}

// Issue adds amount to the total supply counter.
//
// The issue fails with errs.SupplyExceeded when the counter has already reached
// ceiling or would pass it: no partial amount is ever issued.
func Issue(ctx context.Context, s *storage.ContractStorage, amount uint128.Uint128, ceiling uint128.Uint128) error {
	supply, err := TotalSupply(ctx, s)
	if err != nil {
		return errors.WithStack(err)
	}
	if supply.Cmp(ceiling) >= 0 {
		return errors.Wrapf(errs.SupplyExceeded, "total supply %s has reached the ceiling %s", supply, ceiling)
	}
	next, overflow := supply.AddOverflow(amount)
	if overflow {
		return errors.Wrapf(errs.Overflow, "total supply %s, issue %s", supply, amount)
	}
	if next.Cmp(ceiling) > 0 {
		return errors.Wrapf(errs.SupplyExceeded, "issuing %s on top of %s exceeds the ceiling %s", amount, supply, ceiling)
	}
	SetTotalSupply(s, next)
	return nil
}

// Engine applies a Policy to the storage of the issuing contract.
type Engine struct {
	policy Policy
}

func NewEngine(policy Policy) *Engine {
	return &Engine{policy: policy}
}

func (e *Engine) Policy() Policy {
	return e.policy
}

// Initialize marks the block as seen, sets the initialized flag and issues the
// premine. It returns the premine amount to credit.
func (e *Engine) Initialize(ctx context.Context, s *storage.ContractStorage, hash chainhash.Hash) (uint128.Uint128, error) {
	if err := ObserveBlock(ctx, s, hash); err != nil {
		return uint128.Uint128{}, errors.WithStack(err)
	}
	if err := ObserveInitialization(ctx, s); err != nil {
		return uint128.Uint128{}, errors.WithStack(err)
	}
	if err := Issue(ctx, s, e.policy.Premine, e.policy.SupplyCeiling); err != nil {
		return uint128.Uint128{}, errors.Wrap(err, "failed to issue premine")
	}
	return e.policy.Premine, nil
}

// Mint issues the reward of the block at height, once per block hash. It returns
// the reward to credit.
func (e *Engine) Mint(ctx context.Context, s *storage.ContractStorage, hash chainhash.Hash, height uint64) (uint128.Uint128, error) {
	initialized, err := IsInitialized(ctx, s)
	if err != nil {
		return uint128.Uint128{}, errors.WithStack(err)
	}
	if !initialized {
		return uint128.Uint128{}, errors.WithStack(errs.NotInitialized)
	}
	if err := ObserveBlock(ctx, s, hash); err != nil {
		return uint128.Uint128{}, errors.WithStack(err)
	}
	reward := e.policy.Reward(height)
	if err := Issue(ctx, s, reward, e.policy.SupplyCeiling); err != nil {
		return uint128.Uint128{}, errors.Wrapf(err, "failed to issue reward at height %d", height)
	}
	return reward, nil
}
