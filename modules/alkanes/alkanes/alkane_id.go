package alkanes

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/alkanes-indexer/common/errs"
	"github.com/gaze-network/uint128"
)

// AlkaneIdLength is the length of a serialized AlkaneId.
const AlkaneIdLength = 32

// AlkaneId names a holder account or an asset. The same id is used for both when an
// alkane holds (or issues) its own token.
type AlkaneId struct {
	Block uint128.Uint128
	Tx    uint128.Uint128
}

func NewAlkaneId(block uint64, tx uint64) AlkaneId {
	return AlkaneId{
		Block: uint128.From64(block),
		Tx:    uint128.From64(tx),
	}
}

var (
	ErrInvalidSeparator = errors.Wrap(errs.InvalidArgument, "invalid alkane id: must contain exactly one separator")
	ErrCannotParseBlock = errors.Wrap(errs.InvalidArgument, "invalid alkane id: cannot parse block")
	ErrCannotParseTx    = errors.Wrap(errs.InvalidArgument, "invalid alkane id: cannot parse tx")
	ErrInvalidLength    = errors.Wrap(errs.InvalidArgument, "invalid alkane id: must be 32 bytes")
)

func NewAlkaneIdFromString(str string) (AlkaneId, error) {
	strs := strings.Split(str, ":")
	if len(strs) != 2 {
		return AlkaneId{}, ErrInvalidSeparator
	}
	blockStr, txStr := strs[0], strs[1]
	if blockStr == "" {
		return AlkaneId{}, errors.WithStack(ErrCannotParseBlock)
	}
	if txStr == "" {
		return AlkaneId{}, errors.WithStack(ErrCannotParseTx)
	}
	block, err := uint128.FromString(blockStr)
	if err != nil {
		return AlkaneId{}, errors.WithStack(errors.Join(err, ErrCannotParseBlock))
	}
	tx, err := uint128.FromString(txStr)
	if err != nil {
		return AlkaneId{}, errors.WithStack(errors.Join(err, ErrCannotParseTx))
	}
	return AlkaneId{
		Block: block,
		Tx:    tx,
	}, nil
}

// NewAlkaneIdFromBytes decodes the output of Bytes.
func NewAlkaneIdFromBytes(b []byte) (AlkaneId, error) {
	if len(b) != AlkaneIdLength {
		return AlkaneId{}, errors.Wrapf(ErrInvalidLength, "got %d bytes", len(b))
	}
	return AlkaneId{
		Block: uint128.New(binary.LittleEndian.Uint64(b[0:8]), binary.LittleEndian.Uint64(b[8:16])),
		Tx:    uint128.New(binary.LittleEndian.Uint64(b[16:24]), binary.LittleEndian.Uint64(b[24:32])),
	}, nil
}

// Bytes returns the storage key form: block then tx, each 16 bytes little-endian.
func (a AlkaneId) Bytes() []byte {
	b := make([]byte, AlkaneIdLength)
	binary.LittleEndian.PutUint64(b[0:8], a.Block.Lo)
	binary.LittleEndian.PutUint64(b[8:16], a.Block.Hi)
	binary.LittleEndian.PutUint64(b[16:24], a.Tx.Lo)
	binary.LittleEndian.PutUint64(b[24:32], a.Tx.Hi)
	return b
}

func (a AlkaneId) IsZero() bool {
	return a.Block.IsZero() && a.Tx.IsZero()
}

func (a AlkaneId) String() string {
	return fmt.Sprintf("%s:%s", a.Block, a.Tx)
}

// MarshalJSON implements json.Marshaler
func (a AlkaneId) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (a *AlkaneId) UnmarshalJSON(data []byte) error {
	// data must be quoted
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("must be string")
	}
	data = data[1 : len(data)-1]
	parsed, err := NewAlkaneIdFromString(string(data))
	if err != nil {
		return errors.WithStack(err)
	}
	*a = parsed
	return nil
}
