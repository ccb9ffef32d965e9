package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/alkanes"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/contracts"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/internal/entity"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/runtime"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/storage"
	"github.com/gaze-network/uint128"
)

// GetTokenInfo reads the metadata of the contract at id through simulated calls.
// Fails with errs.NotFound if no contract is deployed there.
func (u *Usecase) GetTokenInfo(ctx context.Context, id alkanes.AlkaneId) (*entity.TokenInfo, error) {
	contract, err := u.runtime.Registry().Get(id)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	query := func(opcode uint64) ([]byte, error) {
		response, err := u.runtime.Simulate(ctx, runtime.Call{
			Target: id,
			Inputs: []uint128.Uint128{uint128.From64(opcode)},
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to query opcode %d", opcode)
		}
		return response.Data, nil
	}

	name, err := query(contracts.OpcodeName)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	symbol, err := query(contracts.OpcodeSymbol)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	supplyBytes, err := query(contracts.OpcodeTotalSupply)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	supply, err := storage.DecodeUint128(supplyBytes)
	if err != nil {
		return nil, errors.Wrap(err, "invalid total supply")
	}

	var decimals uint8
	if provider, ok := contract.(contracts.DecimalsProvider); ok {
		decimals = provider.Decimals()
	}

	return &entity.TokenInfo{
		Id:          id,
		Name:        string(name),
		Symbol:      string(symbol),
		Decimals:    decimals,
		TotalSupply: supply,
	}, nil
}

// GetDecimals returns the display decimals of the contract at id, or 0 for
// unknown or indivisible tokens.
func (u *Usecase) GetDecimals(id alkanes.AlkaneId) uint8 {
	contract, err := u.runtime.Registry().Get(id)
	if err != nil {
		return 0
	}
	if provider, ok := contract.(contracts.DecimalsProvider); ok {
		return provider.Decimals()
	}
	return 0
}
