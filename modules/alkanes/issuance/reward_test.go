package issuance

import (
	"testing"

	"github.com/gaze-network/alkanes-indexer/common"
	"github.com/gaze-network/alkanes-indexer/common/errs"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/config"
	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReward(t *testing.T) {
	policy := Policy{HalvingInterval: 210_000, BaseReward: uint128.From64(5_000_000_000)}

	testcases := []struct {
		height   uint64
		expected uint64
	}{
		{0, 5_000_000_000},
		{209_999, 5_000_000_000},
		{210_000, 2_500_000_000},
		{420_000, 1_250_000_000},
		{840_000, 312_500_000},
		{880_000, 312_500_000},
		{210_000 * 33, 0},
	}
	for _, tc := range testcases {
		assert.Equal(t, uint128.From64(tc.expected), policy.Reward(tc.height), "height %d", tc.height)
	}
}

func TestRewardShiftPastWidth(t *testing.T) {
	policy := Policy{HalvingInterval: 1, BaseReward: uint128.Max}
	assert.Equal(t, uint128.From64(1), policy.Reward(127))
	assert.True(t, policy.Reward(128).IsZero())
	assert.True(t, policy.Reward(1<<63).IsZero())
}

func TestRewardWithoutHalving(t *testing.T) {
	policy := Policy{BaseReward: uint128.From64(1_000_000_000)}
	for _, height := range []uint64{0, 1, 210_000, 1 << 40} {
		assert.Equal(t, uint128.From64(1_000_000_000), policy.Reward(height))
	}
}

func TestRewardMonotonic(t *testing.T) {
	policy := Policy{HalvingInterval: 1000, BaseReward: uint128.From64(5_000_000_000)}
	prev := policy.Reward(0)
	for height := uint64(1); height < 50_000; height++ {
		reward := policy.Reward(height)
		if height%policy.HalvingInterval == 0 {
			require.True(t, reward.Cmp(prev) <= 0, "height %d", height)
			require.Equal(t, prev.Rsh(1), reward, "height %d", height)
		} else {
			require.Equal(t, prev, reward, "height %d", height)
		}
		prev = reward
	}
}

func TestPolicyFor(t *testing.T) {
	mainnet, err := PolicyFor(common.NetworkMainnet)
	require.NoError(t, err)
	assert.Equal(t, uint64(840_000), mainnet.GenesisHeight)
	assert.Equal(t, "DIESEL", mainnet.Name)
	assert.Equal(t, uint128.From64(312_500_000), mainnet.Premine)

	regtest, err := PolicyFor(common.NetworkRegtest)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), regtest.GenesisHeight)
	assert.Equal(t, uint128.From64(50_000_000), regtest.Premine)

	dogecoin, err := PolicyFor(common.NetworkDogecoin)
	require.NoError(t, err)
	assert.Equal(t, "4000000000000000000000", dogecoin.SupplyCeiling.String())
	assert.Equal(t, dogecoin.BaseReward, dogecoin.Reward(100_000_000))

	for network := range policies {
		policy, err := PolicyFor(network)
		require.NoError(t, err)
		assert.True(t, policy.Premine.Cmp(policy.SupplyCeiling) < 0, network.String())
	}

	_, err = PolicyFor(common.Network("signet"))
	assert.ErrorIs(t, err, errs.Unsupported)
}

func TestPolicyOverride(t *testing.T) {
	base, err := PolicyFor(common.NetworkRegtest)
	require.NoError(t, err)

	t.Run("empty", func(t *testing.T) {
		policy, err := base.Override(config.PolicyConfig{})
		require.NoError(t, err)
		assert.Equal(t, base, policy)
	})

	t.Run("fields", func(t *testing.T) {
		interval := uint64(0)
		decimals := uint8(0)
		policy, err := base.Override(config.PolicyConfig{
			HalvingInterval: &interval,
			Decimals:        &decimals,
			BaseReward:      "10",
			Premine:         "40",
			SupplyCeiling:   "100",
			Symbol:          "TEST",
		})
		require.NoError(t, err)
		assert.Equal(t, uint64(0), policy.HalvingInterval)
		assert.Equal(t, uint8(0), policy.Decimals)
		assert.Equal(t, uint128.From64(10), policy.BaseReward)
		assert.Equal(t, uint128.From64(40), policy.Premine)
		assert.Equal(t, uint128.From64(100), policy.SupplyCeiling)
		assert.Equal(t, "TEST", policy.Symbol)
		assert.Equal(t, base.Name, policy.Name)
	})

	t.Run("invalid_quantity", func(t *testing.T) {
		_, err := base.Override(config.PolicyConfig{SupplyCeiling: "ten"})
		assert.ErrorIs(t, err, errs.InvalidArgument)
	})
}
