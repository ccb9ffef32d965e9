// Package ledger maps (holder, asset) pairs to uint128 balances and moves value
// between holders.
//
// Every operation runs inside its own checkpoint of the atomic pointer: on failure
// nothing it wrote stays visible, on success its writes join the caller's pending
// batch.
package ledger

import (
	"bytes"
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/alkanes-indexer/common/errs"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/alkanes"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/storage"
	"github.com/gaze-network/uint128"
)

// BalancePointer returns the pointer /alkanes/<asset>/balances/<holder>.
//
// If the balance already holds a value, asset is added to holder's inventory. The
// inventory is therefore populated when a balance is observed, not when it is first
// credited.
func BalancePointer(ctx context.Context, atomic *storage.AtomicPointer, holder alkanes.AlkaneId, asset alkanes.AlkaneId) (storage.Pointer, error) {
	ptr := atomic.Root().Keyword("/alkanes/").Select(asset.Bytes()).Keyword("/balances/").Select(holder.Bytes())
	value, err := ptr.Get(ctx)
	if err != nil {
		return storage.Pointer{}, errors.Wrap(err, "failed to read balance")
	}
	if len(value) != 0 {
		if err := registerInventory(ctx, atomic, holder, asset); err != nil {
			return storage.Pointer{}, errors.WithStack(err)
		}
	}
	return ptr, nil
}

// InventoryPointer returns the list pointer /alkanes<holder>/inventory/.
func InventoryPointer(atomic *storage.AtomicPointer, holder alkanes.AlkaneId) storage.Pointer {
	return atomic.Root().Keyword("/alkanes").Select(holder.Bytes()).Keyword("/inventory/")
}

func registerInventory(ctx context.Context, atomic *storage.AtomicPointer, holder alkanes.AlkaneId, asset alkanes.AlkaneId) error {
	list := InventoryPointer(atomic, holder)
	items, err := list.Values(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to read inventory")
	}
	assetBytes := asset.Bytes()
	for _, item := range items {
		if bytes.Equal(item, assetBytes) {
			return nil
		}
	}
	if err := list.Append(ctx, assetBytes); err != nil {
		return errors.Wrap(err, "failed to append inventory")
	}
	return nil
}

// Balance returns holder's balance of asset.
func Balance(ctx context.Context, atomic *storage.AtomicPointer, holder alkanes.AlkaneId, asset alkanes.AlkaneId) (uint128.Uint128, error) {
	ptr, err := BalancePointer(ctx, atomic, holder, asset)
	if err != nil {
		return uint128.Uint128{}, errors.WithStack(err)
	}
	balance, err := ptr.GetUint128(ctx)
	if err != nil {
		return uint128.Uint128{}, errors.WithStack(err)
	}
	return balance, nil
}

// Credit adds every transfer of parcel to holder's balances.
// Fails with errs.Overflow if a balance would exceed the uint128 range.
func Credit(ctx context.Context, atomic *storage.AtomicPointer, holder alkanes.AlkaneId, parcel alkanes.Parcel) (err error) {
	atomic.Checkpoint()
	defer settle(atomic, &err)

	for _, transfer := range parcel {
		if err := credit(ctx, atomic, holder, transfer); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

// Debit subtracts every transfer of parcel from holder's balances.
//
// An issuer debiting its own token (holder == asset) never fails: a debit beyond its
// balance is dropped and the balance is left as is. Any other holder fails with
// errs.InsufficientBalance.
func Debit(ctx context.Context, atomic *storage.AtomicPointer, holder alkanes.AlkaneId, parcel alkanes.Parcel) (err error) {
	atomic.Checkpoint()
	defer settle(atomic, &err)

	for _, transfer := range parcel {
		ptr, err := BalancePointer(ctx, atomic, holder, transfer.Id)
		if err != nil {
			return errors.WithStack(err)
		}
		balance, err := ptr.GetUint128(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if balance.Cmp(transfer.Value) < 0 {
			if holder != transfer.Id {
				return errors.Wrapf(errs.InsufficientBalance, "%s holds %s of %s, debit %s", holder, balance, transfer.Id, transfer.Value)
			}
			continue
		}
		ptr.SetUint128(balance.Sub(transfer.Value))
	}
	return nil
}

// Transfer moves every transfer of parcel from one holder to another.
//
// When from is the issuer of the asset and holds less than the amount, the amount is
// treated as available: the issuer mints by sending its own token. Any other short
// sender fails with errs.InsufficientBalance.
func Transfer(ctx context.Context, atomic *storage.AtomicPointer, from alkanes.AlkaneId, to alkanes.AlkaneId, parcel alkanes.Parcel) (err error) {
	atomic.Checkpoint()
	defer settle(atomic, &err)

	for _, transfer := range parcel {
		ptr, err := BalancePointer(ctx, atomic, from, transfer.Id)
		if err != nil {
			return errors.WithStack(err)
		}
		balance, err := ptr.GetUint128(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if balance.Cmp(transfer.Value) < 0 {
			if transfer.Id != from {
				return errors.Wrapf(errs.InsufficientBalance, "%s holds %s of %s, transfer %s", from, balance, transfer.Id, transfer.Value)
			}
			balance = transfer.Value
		}
		ptr.SetUint128(balance.Sub(transfer.Value))

		if err := credit(ctx, atomic, to, transfer); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

func credit(ctx context.Context, atomic *storage.AtomicPointer, holder alkanes.AlkaneId, transfer alkanes.AlkaneTransfer) error {
	ptr, err := BalancePointer(ctx, atomic, holder, transfer.Id)
	if err != nil {
		return errors.WithStack(err)
	}
	balance, err := ptr.GetUint128(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	sum, overflow := balance.AddOverflow(transfer.Value)
	if overflow {
		return errors.Wrapf(errs.Overflow, "%s holds %s of %s, credit %s", holder, balance, transfer.Id, transfer.Value)
	}
	ptr.SetUint128(sum)
	return nil
}

// settle commits the checkpoint opened by a ledger operation, or rolls it back if
// the operation failed.
func settle(atomic *storage.AtomicPointer, err *error) {
	if *err != nil {
		atomic.Rollback()
		return
	}
	atomic.Commit()
}
