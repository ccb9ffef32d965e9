package issuance

import (
	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/alkanes-indexer/common"
	"github.com/gaze-network/alkanes-indexer/common/errs"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/config"
	"github.com/gaze-network/uint128"
)

// Policy parameterizes the issuance of the genesis token on one chain.
type Policy struct {
	// GenesisHeight describes the deployment only: issuance does not read it.
	GenesisHeight   uint64
	HalvingInterval uint64 // 0 disables halving
	BaseReward      uint128.Uint128
	Premine         uint128.Uint128
	SupplyCeiling   uint128.Uint128
	Name            string
	Symbol          string
	Decimals        uint8
}

var (
	bitcoinPolicy = Policy{
		GenesisHeight:   0,
		HalvingInterval: 210_000,
		BaseReward:      uint128.From64(5_000_000_000),
		Premine:         uint128.From64(50_000_000),
		SupplyCeiling:   uint128.From64(131_250_000_000_000),
		Name:            "DIESEL",
		Symbol:          "DIESEL",
		Decimals:        8,
	}

	policies = map[common.Network]Policy{
		common.NetworkMainnet: func() Policy {
			p := bitcoinPolicy
			p.GenesisHeight = 840_000
			p.Premine = uint128.From64(312_500_000)
			return p
		}(),
		common.NetworkTestnet: bitcoinPolicy,
		common.NetworkRegtest: bitcoinPolicy,
		common.NetworkFractalMainnet: {
			HalvingInterval: 2_100_000,
			BaseReward:      uint128.From64(2_500_000_000),
			Premine:         uint128.From64(2_500_000_000),
			SupplyCeiling:   uint128.From64(21_000_000_000_000_000),
			Name:            "DIESEL",
			Symbol:          "DIESEL",
			Decimals:        8,
		},
		common.NetworkDogecoin: {
			GenesisHeight: 4_000_000,
			BaseReward:    uint128.From64(1_000_000_000_000),
			Premine:       uint128.From64(1_000_000_000_000),
			SupplyCeiling: utils.Must(uint128.FromString("4000000000000000000000")),
			Name:          "DIESEL",
			Symbol:        "DIESEL",
			Decimals:      8,
		},
		common.NetworkLuckycoin: {
			BaseReward:    uint128.From64(1_000_000_000),
			Premine:       uint128.From64(1_000_000_000),
			SupplyCeiling: uint128.From64(2_000_000_000_000_000),
			Name:          "DIESEL",
			Symbol:        "DIESEL",
			Decimals:      8,
		},
		common.NetworkBellscoin: {
			BaseReward:    uint128.From64(1_000_000_000),
			Premine:       uint128.From64(1_000_000_000),
			SupplyCeiling: uint128.From64(2_000_000_000_000_000),
			Name:          "DIESEL",
			Symbol:        "DIESEL",
			Decimals:      8,
		},
	}
)

// PolicyFor returns the issuance policy deployed on network.
func PolicyFor(network common.Network) (Policy, error) {
	policy, ok := policies[network]
	if !ok {
		return Policy{}, errors.Wrapf(errs.Unsupported, "no issuance policy for network %q", network)
	}
	return policy, nil
}

// Override returns a copy of p with the fields set in conf replaced.
func (p Policy) Override(conf config.PolicyConfig) (Policy, error) {
	if conf.GenesisHeight != nil {
		p.GenesisHeight = *conf.GenesisHeight
	}
	if conf.HalvingInterval != nil {
		p.HalvingInterval = *conf.HalvingInterval
	}
	if conf.Decimals != nil {
		p.Decimals = *conf.Decimals
	}
	if conf.Name != "" {
		p.Name = conf.Name
	}
	if conf.Symbol != "" {
		p.Symbol = conf.Symbol
	}

	quantities := []struct {
		name  string
		value string
		field *uint128.Uint128
	}{
		{"base_reward", conf.BaseReward, &p.BaseReward},
		{"premine", conf.Premine, &p.Premine},
		{"supply_ceiling", conf.SupplyCeiling, &p.SupplyCeiling},
	}
	for _, q := range quantities {
		if q.value == "" {
			continue
		}
		v, err := uint128.FromString(q.value)
		if err != nil {
			return Policy{}, errors.Wrapf(errs.InvalidArgument, "invalid %s %q: %v", q.name, q.value, err)
		}
		*q.field = v
	}
	return p, nil
}
