package storage

import (
	"context"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/alkanes"
	"github.com/gaze-network/uint128"
	"github.com/samber/lo"
)

// StorageMap is the set of key/value pairs a contract asks the host to persist.
type StorageMap map[string][]byte

// Keys returns the keys in sorted order.
func (m StorageMap) Keys() []string {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return keys
}

// ContractPointer returns the root of a contract's storage namespace:
// /alkanes/ + id + /storage/.
func ContractPointer(atomic *AtomicPointer, id alkanes.AlkaneId) Pointer {
	return atomic.Root().Keyword("/alkanes/").Select(id.Bytes()).Keyword("/storage/")
}

// ContractStorage is the storage a contract sees during a call. Writes are staged
// and only reach the atomic pointer through Commit, so a failed call leaves no trace.
type ContractStorage struct {
	root   Pointer
	staged StorageMap
}

func NewContractStorage(atomic *AtomicPointer, id alkanes.AlkaneId) *ContractStorage {
	return &ContractStorage{
		root:   ContractPointer(atomic, id),
		staged: make(StorageMap),
	}
}

// Get returns the staged value for key, or the committed one.
func (s *ContractStorage) Get(ctx context.Context, key []byte) ([]byte, error) {
	if value, ok := s.staged[string(key)]; ok {
		return value, nil
	}
	value, err := s.root.Select(key).Get(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return value, nil
}

func (s *ContractStorage) Set(key []byte, value []byte) {
	stored := make([]byte, len(value))
	copy(stored, value)
	s.staged[string(key)] = stored
}

func (s *ContractStorage) GetUint128(ctx context.Context, key []byte) (uint128.Uint128, error) {
	value, err := s.Get(ctx, key)
	if err != nil {
		return uint128.Uint128{}, errors.WithStack(err)
	}
	v, err := DecodeUint128(value)
	if err != nil {
		return uint128.Uint128{}, errors.Wrapf(err, "invalid value at %q", key)
	}
	return v, nil
}

func (s *ContractStorage) SetUint128(key []byte, v uint128.Uint128) {
	s.Set(key, EncodeUint128(v))
}

func (s *ContractStorage) GetUint32(ctx context.Context, key []byte) (uint32, error) {
	value, err := s.Get(ctx, key)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	v, err := DecodeUint32(value)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid value at %q", key)
	}
	return v, nil
}

func (s *ContractStorage) SetUint32(key []byte, v uint32) {
	s.Set(key, EncodeUint32(v))
}

// Staged returns a copy of the staged writes.
func (s *ContractStorage) Staged() StorageMap {
	return lo.MapValues(s.staged, func(value []byte, _ string) []byte {
		return slices.Clone(value)
	})
}

// Commit writes m into the contract namespace of the atomic pointer.
func (s *ContractStorage) Commit(m StorageMap) {
	for _, key := range m.Keys() {
		s.root.Keyword(key).Set(m[key])
	}
}
