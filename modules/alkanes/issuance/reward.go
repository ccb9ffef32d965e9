package issuance

import "github.com/gaze-network/uint128"

// Reward returns the mint reward at height: BaseReward >> (height / HalvingInterval).
// The epoch is counted from height 0, not from GenesisHeight.
func (p Policy) Reward(height uint64) uint128.Uint128 {
	if p.HalvingInterval == 0 {
		return p.BaseReward
	}
	epoch := height / p.HalvingInterval
	if epoch >= 128 {
		return uint128.Zero
	}
	return p.BaseReward.Rsh(uint(epoch))
}
