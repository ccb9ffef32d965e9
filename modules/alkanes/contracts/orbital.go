package contracts

import (
	"context"
	"encoding/hex"
	"slices"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/alkanes"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/issuance"
	"github.com/gaze-network/uint128"
)

const (
	DefaultOrbitalName   = "NFT"
	DefaultOrbitalSymbol = "NFT"
)

// DefaultOrbitalData is a 1x1 PNG.
var DefaultOrbitalData = utils.Must(hex.DecodeString("89504e470d0a1a0a0000000d494844520000000100000001010300000025db56ca00000003504c5445000000a77a3dda0000000174524e530040e6d8660000000a4944415408d76360000000020001e221bc330000000049454e44ae426082"))

var (
	_ Contract     = (*Orbital)(nil)
	_ DataProvider = (*Orbital)(nil)
)

// Orbital is a non-fungible token: a supply of exactly one unit, issued to whoever
// initializes it. Empty data falls back to DefaultOrbitalData.
type Orbital struct {
	name   string
	symbol string
	data   []byte
}

func NewOrbital(name string, symbol string, data []byte) *Orbital {
	if len(data) == 0 {
		data = DefaultOrbitalData
	}
	return &Orbital{
		name:   utils.Default(name, DefaultOrbitalName),
		symbol: utils.Default(symbol, DefaultOrbitalSymbol),
		data:   slices.Clone(data),
	}
}

func (o *Orbital) Initialize(ctx context.Context, c *Context) (alkanes.AlkaneTransfer, error) {
	if err := issuance.ObserveInitialization(ctx, c.Storage); err != nil {
		return alkanes.AlkaneTransfer{}, errors.WithStack(err)
	}
	issuance.SetTotalSupply(c.Storage, uint128.From64(1))
	return alkanes.AlkaneTransfer{Id: c.Myself, Value: uint128.From64(1)}, nil
}

func (o *Orbital) Name() string {
	return o.name
}

func (o *Orbital) Symbol() string {
	return o.symbol
}

func (o *Orbital) TotalSupply(ctx context.Context, c *Context) (uint128.Uint128, error) {
	supply, err := issuance.TotalSupply(ctx, c.Storage)
	if err != nil {
		return uint128.Uint128{}, errors.WithStack(err)
	}
	return supply, nil
}

func (o *Orbital) Data() []byte {
	return slices.Clone(o.data)
}
