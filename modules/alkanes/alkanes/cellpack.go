package alkanes

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/alkanes-indexer/common/errs"
	"github.com/gaze-network/alkanes-indexer/pkg/leb128"
	"github.com/gaze-network/uint128"
)

// Cellpack is the encoded form of a call: target id followed by the call inputs.
// The first input is the opcode.
type Cellpack struct {
	Target AlkaneId
	Inputs []uint128.Uint128
}

// Encode returns target.block, target.tx and inputs as consecutive LEB128 values.
func (c Cellpack) Encode() []byte {
	values := make([]uint128.Uint128, 0, len(c.Inputs)+2)
	values = append(values, c.Target.Block, c.Target.Tx)
	values = append(values, c.Inputs...)
	return leb128.EncodeUint128List(values)
}

func DecodeCellpack(data []byte) (Cellpack, error) {
	values, err := leb128.DecodeUint128List(data)
	if err != nil {
		return Cellpack{}, errors.Wrap(errors.Join(err, errs.InvalidArgument), "invalid cellpack")
	}
	if len(values) < 2 {
		return Cellpack{}, errors.Wrap(errs.InvalidArgument, "cellpack must contain a target block and tx")
	}
	return Cellpack{
		Target: AlkaneId{Block: values[0], Tx: values[1]},
		Inputs: values[2:],
	}, nil
}
