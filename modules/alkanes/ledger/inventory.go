package ledger

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/alkanes"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/storage"
)

// Inventory returns the assets registered for holder, in registration order.
func Inventory(ctx context.Context, atomic *storage.AtomicPointer, holder alkanes.AlkaneId) ([]alkanes.AlkaneId, error) {
	items, err := InventoryPointer(atomic, holder).Values(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read inventory")
	}
	ids := make([]alkanes.AlkaneId, 0, len(items))
	for i, item := range items {
		id, err := alkanes.NewAlkaneIdFromBytes(item)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid inventory item %d", i)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Balances returns holder's balance of every asset in its inventory.
func Balances(ctx context.Context, atomic *storage.AtomicPointer, holder alkanes.AlkaneId) (alkanes.Parcel, error) {
	ids, err := Inventory(ctx, atomic, holder)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	balances := make(alkanes.Parcel, 0, len(ids))
	for _, id := range ids {
		balance, err := Balance(ctx, atomic, holder, id)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to get balance of %s", id)
		}
		balances = append(balances, alkanes.AlkaneTransfer{Id: id, Value: balance})
	}
	return balances, nil
}
