package leb128

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/alkanes-indexer/common/errs"
	"github.com/gaze-network/uint128"
)

const (
	ErrEmpty        = errs.ErrorKind("leb128: empty byte sequence")
	ErrUnterminated = errs.ErrorKind("leb128: unterminated byte sequence")
)

func EncodeUint128(input uint128.Uint128) []byte {
	bytes := make([]byte, 0)
	// for n >> 7 > 0
	for !input.Rsh(7).IsZero() {
		last7Bits := input.And64(0b0111_1111).Uint8()
		bytes = append(bytes, last7Bits|0b1000_0000)
		input = input.Rsh(7)
	}
	bytes = append(bytes, input.Uint8())
	return bytes
}

func DecodeUint128(data []byte) (n uint128.Uint128, length int, err error) {
	if len(data) == 0 {
		return uint128.Uint128{}, 0, ErrEmpty
	}
	n = uint128.Zero

	for i, b := range data {
		if i > 18 {
			return uint128.Uint128{}, 0, errs.OverflowUint128
		}
		value := uint128.From64(uint64(b & 0b0111_1111))
		if i == 18 && !value.And64(0b0111_1100).IsZero() {
			return uint128.Uint128{}, 0, errs.OverflowUint128
		}
		n = n.Or(value.Lsh(uint(7 * i)))
		// if the high bit is not set, then this is the last byte
		if b&0b1000_0000 == 0 {
			return n, i + 1, nil
		}
	}
	return uint128.Uint128{}, 0, ErrUnterminated
}

// EncodeUint128List concatenates the encodings of all values.
func EncodeUint128List(values []uint128.Uint128) []byte {
	bytes := make([]byte, 0, len(values))
	for _, v := range values {
		bytes = append(bytes, EncodeUint128(v)...)
	}
	return bytes
}

// DecodeUint128List decodes values until data is exhausted.
func DecodeUint128List(data []byte) ([]uint128.Uint128, error) {
	values := make([]uint128.Uint128, 0)
	for len(data) > 0 {
		n, length, err := DecodeUint128(data)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decode value at index %d", len(values))
		}
		values = append(values, n)
		data = data[length:]
	}
	return values, nil
}
