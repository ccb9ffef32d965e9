package types

import (
	"bytes"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/alkanes-indexer/common/errs"
)

// BlockHeaderLength is the size of a serialized Bitcoin block header.
const BlockHeaderLength = wire.MaxBlockHeaderPayload

type BlockHeader struct {
	Hash       chainhash.Hash
	Height     uint64
	Version    int32
	PrevBlock  chainhash.Hash
	MerkleRoot chainhash.Hash
	Timestamp  time.Time
	Bits       uint32
	Nonce      uint32
}

// ParseBlockHeader parses the header at the start of the raw block bytes. Only the
// first 80 bytes are read; the transactions that follow are ignored.
// Fails with errs.MalformedBlock if raw is too short to hold a header.
func ParseBlockHeader(raw []byte, height uint64) (BlockHeader, error) {
	if len(raw) < BlockHeaderLength {
		return BlockHeader{}, errors.Wrapf(errs.MalformedBlock, "block is %d bytes, header needs %d", len(raw), BlockHeaderLength)
	}
	var header wire.BlockHeader
	if err := header.Deserialize(bytes.NewReader(raw[:BlockHeaderLength])); err != nil {
		return BlockHeader{}, errors.Wrapf(errs.MalformedBlock, "can't deserialize header: %v", err)
	}
	return BlockHeader{
		Hash:       header.BlockHash(),
		Height:     height,
		Version:    header.Version,
		PrevBlock:  header.PrevBlock,
		MerkleRoot: header.MerkleRoot,
		Timestamp:  header.Timestamp,
		Bits:       header.Bits,
		Nonce:      header.Nonce,
	}, nil
}
