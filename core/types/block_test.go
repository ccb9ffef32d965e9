package types

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"
	"github.com/gaze-network/alkanes-indexer/common/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Bitcoin mainnet genesis block header.
const genesisHeaderHex = "0100000000000000000000000000000000000000000000000000000000000000000000003ba3edfd7a7b12b27ac72c3e67768f617fc81bc3888a51323a9fb8aa4b1e5e4a29ab5f49ffff001d1dac2b7c"

func TestParseBlockHeader(t *testing.T) {
	raw, err := hex.DecodeString(genesisHeaderHex)
	require.NoError(t, err)

	t.Run("header_only", func(t *testing.T) {
		header, err := ParseBlockHeader(raw, 0)
		require.NoError(t, err)
		assert.Equal(t, *chaincfg.MainNetParams.GenesisHash, header.Hash)
		assert.Equal(t, "000000000019d6689c085ae165831e934ff763ae46a2a6c172b3f1b60a8ce26f", header.Hash.String())
		assert.Equal(t, int32(1), header.Version)
		assert.Equal(t, uint32(2083236893), header.Nonce)
		assert.Equal(t, uint64(0), header.Height)
	})

	t.Run("trailing_body_is_ignored", func(t *testing.T) {
		block := append(append([]byte{}, raw...), 0x01, 0xde, 0xad)
		header, err := ParseBlockHeader(block, 7)
		require.NoError(t, err)
		assert.Equal(t, *chaincfg.MainNetParams.GenesisHash, header.Hash)
		assert.Equal(t, uint64(7), header.Height)
	})

	t.Run("full_block", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, chaincfg.MainNetParams.GenesisBlock.Serialize(&buf))
		header, err := ParseBlockHeader(buf.Bytes(), 0)
		require.NoError(t, err)
		assert.Equal(t, chaincfg.MainNetParams.GenesisBlock.BlockHash(), header.Hash)
	})

	t.Run("too_short", func(t *testing.T) {
		_, err := ParseBlockHeader(raw[:wire.MaxBlockHeaderPayload-1], 0)
		assert.ErrorIs(t, err, errs.MalformedBlock)

		_, err = ParseBlockHeader(nil, 0)
		assert.ErrorIs(t, err, errs.MalformedBlock)
	})
}
