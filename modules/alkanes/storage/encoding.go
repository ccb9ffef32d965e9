package storage

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/alkanes-indexer/common/errs"
	"github.com/gaze-network/uint128"
)

const (
	Uint128Length = 16
	Uint32Length  = 4
)

// EncodeUint128 returns v as 16 little-endian bytes.
func EncodeUint128(v uint128.Uint128) []byte {
	b := make([]byte, Uint128Length)
	binary.LittleEndian.PutUint64(b[0:8], v.Lo)
	binary.LittleEndian.PutUint64(b[8:16], v.Hi)
	return b
}

// DecodeUint128 decodes a stored uint128. An empty value is zero.
func DecodeUint128(b []byte) (uint128.Uint128, error) {
	if len(b) == 0 {
		return uint128.Zero, nil
	}
	if len(b) != Uint128Length {
		return uint128.Uint128{}, errors.Wrapf(errs.InvalidValue, "expected %d bytes for uint128, got %d", Uint128Length, len(b))
	}
	return uint128.New(binary.LittleEndian.Uint64(b[0:8]), binary.LittleEndian.Uint64(b[8:16])), nil
}

// EncodeUint32 returns v as 4 little-endian bytes.
func EncodeUint32(v uint32) []byte {
	b := make([]byte, Uint32Length)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

// DecodeUint32 decodes a stored uint32. An empty value is zero.
func DecodeUint32(b []byte) (uint32, error) {
	if len(b) == 0 {
		return 0, nil
	}
	if len(b) != Uint32Length {
		return 0, errors.Wrapf(errs.InvalidValue, "expected %d bytes for uint32, got %d", Uint32Length, len(b))
	}
	return binary.LittleEndian.Uint32(b), nil
}
