package common

import "github.com/btcsuite/btcd/chaincfg"

type Network string

const (
	NetworkMainnet        Network = "mainnet"
	NetworkTestnet        Network = "testnet"
	NetworkRegtest        Network = "regtest"
	NetworkFractalMainnet Network = "fractal-mainnet"
	NetworkDogecoin       Network = "dogecoin"
	NetworkLuckycoin      Network = "luckycoin"
	NetworkBellscoin      Network = "bellscoin"
)

var supportedNetworks = map[Network]struct{}{
	NetworkMainnet:        {},
	NetworkTestnet:        {},
	NetworkRegtest:        {},
	NetworkFractalMainnet: {},
	NetworkDogecoin:       {},
	NetworkLuckycoin:      {},
	NetworkBellscoin:      {},
}

// Fractal shares Bitcoin mainnet's parameters. Non-Bitcoin chains have no entry.
var chainParams = map[Network]*chaincfg.Params{
	NetworkMainnet:        &chaincfg.MainNetParams,
	NetworkTestnet:        &chaincfg.TestNet3Params,
	NetworkRegtest:        &chaincfg.RegressionNetParams,
	NetworkFractalMainnet: &chaincfg.MainNetParams,
}

func (n Network) IsSupported() bool {
	_, ok := supportedNetworks[n]
	return ok
}

// ChainParams returns the btcd parameters of the network, or nil for chains btcd doesn't know.
func (n Network) ChainParams() *chaincfg.Params {
	return chainParams[n]
}

func (n Network) String() string {
	return string(n)
}
