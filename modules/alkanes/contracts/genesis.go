package contracts

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/alkanes-indexer/core/types"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/alkanes"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/issuance"
	"github.com/gaze-network/uint128"
)

// GenesisId is where the genesis token is deployed.
var GenesisId = alkanes.NewAlkaneId(2, 0)

var (
	_ Contract         = (*Genesis)(nil)
	_ Minter           = (*Genesis)(nil)
	_ DecimalsProvider = (*Genesis)(nil)
)

// Genesis is the fungible token minted once per block on a halving schedule.
type Genesis struct {
	engine *issuance.Engine
}

func NewGenesis(policy issuance.Policy) *Genesis {
	return &Genesis{engine: issuance.NewEngine(policy)}
}

func (g *Genesis) Initialize(ctx context.Context, c *Context) (alkanes.AlkaneTransfer, error) {
	header, err := types.ParseBlockHeader(c.Block, c.Height)
	if err != nil {
		return alkanes.AlkaneTransfer{}, errors.WithStack(err)
	}
	premine, err := g.engine.Initialize(ctx, c.Storage, header.Hash)
	if err != nil {
		return alkanes.AlkaneTransfer{}, errors.WithStack(err)
	}
	return alkanes.AlkaneTransfer{Id: c.Myself, Value: premine}, nil
}

func (g *Genesis) Mint(ctx context.Context, c *Context) (alkanes.AlkaneTransfer, error) {
	header, err := types.ParseBlockHeader(c.Block, c.Height)
	if err != nil {
		return alkanes.AlkaneTransfer{}, errors.WithStack(err)
	}
	reward, err := g.engine.Mint(ctx, c.Storage, header.Hash, header.Height)
	if err != nil {
		return alkanes.AlkaneTransfer{}, errors.WithStack(err)
	}
	return alkanes.AlkaneTransfer{Id: c.Myself, Value: reward}, nil
}

func (g *Genesis) Name() string {
	return g.engine.Policy().Name
}

func (g *Genesis) Symbol() string {
	return g.engine.Policy().Symbol
}

func (g *Genesis) Decimals() uint8 {
	return g.engine.Policy().Decimals
}

func (g *Genesis) TotalSupply(ctx context.Context, c *Context) (uint128.Uint128, error) {
	supply, err := issuance.TotalSupply(ctx, c.Storage)
	if err != nil {
		return uint128.Uint128{}, errors.WithStack(err)
	}
	return supply, nil
}
