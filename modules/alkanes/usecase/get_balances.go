package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/alkanes"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/ledger"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/storage"
	"github.com/gaze-network/uint128"
)

// GetBalances returns the balance of every asset in holder's inventory.
func (u *Usecase) GetBalances(ctx context.Context, holder alkanes.AlkaneId) (alkanes.Parcel, error) {
	var balances alkanes.Parcel
	err := u.runtime.View(ctx, func(atomic *storage.AtomicPointer) error {
		var err error
		balances, err = ledger.Balances(ctx, atomic, holder)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balances")
	}
	return balances, nil
}

func (u *Usecase) GetBalance(ctx context.Context, holder alkanes.AlkaneId, asset alkanes.AlkaneId) (uint128.Uint128, error) {
	var balance uint128.Uint128
	err := u.runtime.View(ctx, func(atomic *storage.AtomicPointer) error {
		var err error
		balance, err = ledger.Balance(ctx, atomic, holder, asset)
		return err
	})
	if err != nil {
		return uint128.Uint128{}, errors.Wrap(err, "failed to get balance")
	}
	return balance, nil
}
