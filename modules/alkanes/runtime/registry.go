package runtime

import (
	"slices"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/alkanes-indexer/common/errs"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/alkanes"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/contracts"
	"github.com/samber/lo"
)

// Registry maps contract ids to their implementation.
type Registry struct {
	mu        sync.RWMutex
	contracts map[alkanes.AlkaneId]contracts.Contract
}

func NewRegistry() *Registry {
	return &Registry{
		contracts: make(map[alkanes.AlkaneId]contracts.Contract),
	}
}

func (r *Registry) Register(id alkanes.AlkaneId, contract contracts.Contract) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.contracts[id]; ok {
		return errors.Wrapf(errs.InvalidArgument, "contract %s is already registered", id)
	}
	r.contracts[id] = contract
	return nil
}

// Get returns the contract deployed at id. Fails with errs.NotFound.
func (r *Registry) Get(id alkanes.AlkaneId) (contracts.Contract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	contract, ok := r.contracts[id]
	if !ok {
		return nil, errors.Wrapf(errs.NotFound, "no contract at %s", id)
	}
	return contract, nil
}

// Ids returns the registered ids ordered by block, then tx.
func (r *Registry) Ids() []alkanes.AlkaneId {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := lo.Keys(r.contracts)
	slices.SortFunc(ids, func(a, b alkanes.AlkaneId) int {
		if c := a.Block.Cmp(b.Block); c != 0 {
			return c
		}
		return a.Tx.Cmp(b.Tx)
	})
	return ids
}
