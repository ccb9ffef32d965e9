// Package contracts holds the built-in alkanes contracts and the opcode dispatch
// they share.
package contracts

import (
	"context"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/alkanes-indexer/common/errs"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/alkanes"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/storage"
	"github.com/gaze-network/uint128"
)

const (
	OpcodeInitialize  = 0
	OpcodeMint        = 77
	OpcodeName        = 99
	OpcodeSymbol      = 100
	OpcodeTotalSupply = 101
	OpcodeData        = 1000
)

// Context is what a contract sees of the call it serves.
type Context struct {
	Myself   alkanes.AlkaneId
	Caller   alkanes.AlkaneId
	Inputs   []uint128.Uint128 // Inputs[0] is the opcode
	Incoming alkanes.Parcel
	Height   uint64
	Block    []byte // raw block bytes
	Storage  *storage.ContractStorage
}

// CallResponse is the result of a successful call. Alkanes are moved from the
// contract to the caller, Storage is persisted under the contract's namespace.
type CallResponse struct {
	Alkanes alkanes.Parcel
	Data    []byte
	Storage storage.StorageMap
}

type Contract interface {
	Initialize(ctx context.Context, c *Context) (alkanes.AlkaneTransfer, error)
	Name() string
	Symbol() string
	TotalSupply(ctx context.Context, c *Context) (uint128.Uint128, error)
}

// Minter is implemented by contracts that issue on opcode 77.
type Minter interface {
	Mint(ctx context.Context, c *Context) (alkanes.AlkaneTransfer, error)
}

// DataProvider is implemented by contracts that return a fixed payload on opcode 1000.
type DataProvider interface {
	Data() []byte
}

// DecimalsProvider is implemented by contracts with a fractional display unit.
type DecimalsProvider interface {
	Decimals() uint8
}

// Dispatch routes the call to the handler of its opcode. The response forwards the
// incoming alkanes back to the caller, followed by whatever the handler issued.
func Dispatch(ctx context.Context, contract Contract, c *Context) (*CallResponse, error) {
	if len(c.Inputs) == 0 {
		return nil, errors.Wrap(errs.UnknownOpcode, "missing opcode")
	}
	opcode := c.Inputs[0]
	if opcode.Hi != 0 {
		return nil, errors.Wrapf(errs.UnknownOpcode, "opcode %s", opcode)
	}

	response := &CallResponse{
		Alkanes: slices.Clone(c.Incoming),
	}
	switch opcode.Lo {
	case OpcodeInitialize:
		transfer, err := contract.Initialize(ctx, c)
		if err != nil {
			return nil, errors.Wrap(err, "failed to initialize")
		}
		response.Alkanes = append(response.Alkanes, transfer)
	case OpcodeMint:
		minter, ok := contract.(Minter)
		if !ok {
			return nil, errors.Wrapf(errs.UnknownOpcode, "opcode %d", opcode.Lo)
		}
		transfer, err := minter.Mint(ctx, c)
		if err != nil {
			return nil, errors.Wrap(err, "failed to mint")
		}
		response.Alkanes = append(response.Alkanes, transfer)
	case OpcodeName:
		response.Data = []byte(contract.Name())
	case OpcodeSymbol:
		response.Data = []byte(contract.Symbol())
	case OpcodeTotalSupply:
		supply, err := contract.TotalSupply(ctx, c)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		response.Data = storage.EncodeUint128(supply)
	case OpcodeData:
		provider, ok := contract.(DataProvider)
		if !ok {
			return nil, errors.Wrapf(errs.UnknownOpcode, "opcode %d", opcode.Lo)
		}
		response.Data = provider.Data()
	default:
		return nil, errors.Wrapf(errs.UnknownOpcode, "opcode %d", opcode.Lo)
	}
	response.Storage = c.Storage.Staged()
	return response, nil
}
