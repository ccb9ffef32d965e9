package config

import "github.com/gaze-network/alkanes-indexer/internal/postgres"

type Config struct {
	Database    string          `mapstructure:"database"`     // Database to store alkanes state. e.g. `badger` | `leveldb` | `postgres` | `memory`
	DataDir     string          `mapstructure:"data_dir"`     // Directory of the embedded databases (badger, leveldb).
	APIHandlers []string        `mapstructure:"api_handlers"` // List of API handlers to enable. (e.g. `http`)
	Postgres    postgres.Config `mapstructure:"postgres"`
	Policy      PolicyConfig    `mapstructure:"policy"`
	Orbitals    []OrbitalConfig `mapstructure:"orbitals"`
}

// PolicyConfig overrides fields of the network's issuance policy. Zero values keep the default.
// 128-bit quantities are decimal strings.
type PolicyConfig struct {
	GenesisHeight   *uint64 `mapstructure:"genesis_height"`
	HalvingInterval *uint64 `mapstructure:"halving_interval"`
	BaseReward      string  `mapstructure:"base_reward"`
	Premine         string  `mapstructure:"premine"`
	SupplyCeiling   string  `mapstructure:"supply_ceiling"`
	Name            string  `mapstructure:"name"`
	Symbol          string  `mapstructure:"symbol"`
	Decimals        *uint8  `mapstructure:"decimals"`
}

// OrbitalConfig registers a non-fungible contract.
type OrbitalConfig struct {
	Id     string `mapstructure:"id"` // e.g. `2:1`
	Name   string `mapstructure:"name"`
	Symbol string `mapstructure:"symbol"`
	Data   string `mapstructure:"data"` // hex encoded payload returned by the data opcode
}
