package alkanes

import (
	"github.com/gaze-network/uint128"
	"github.com/samber/lo"
)

// AlkaneTransfer is an amount of one asset moving between two holders.
type AlkaneTransfer struct {
	Id    AlkaneId        `json:"id"`
	Value uint128.Uint128 `json:"value"`
}

// Parcel is an ordered list of transfers. Order is significant: ledger operations
// apply entries in this order.
type Parcel []AlkaneTransfer

func NewParcel(transfers ...AlkaneTransfer) Parcel {
	return Parcel(transfers)
}

// Ids returns the distinct asset ids in the parcel, in first-seen order.
func (p Parcel) Ids() []AlkaneId {
	return lo.Uniq(lo.Map(p, func(item AlkaneTransfer, _ int) AlkaneId { return item.Id }))
}

// Total sums the values of all transfers of the given asset. ok is false on overflow.
func (p Parcel) Total(id AlkaneId) (total uint128.Uint128, ok bool) {
	for _, transfer := range p {
		if transfer.Id != id {
			continue
		}
		var overflow bool
		total, overflow = total.AddOverflow(transfer.Value)
		if overflow {
			return uint128.Uint128{}, false
		}
	}
	return total, true
}
