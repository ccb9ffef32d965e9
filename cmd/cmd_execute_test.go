package cmd

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/gaze-network/alkanes-indexer/common"
	"github.com/gaze-network/alkanes-indexer/common/errs"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/alkanes"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/contracts"
	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteOptionsBuild(t *testing.T) {
	fallback := []byte{0xde, 0xad}

	t.Run("cellpack", func(t *testing.T) {
		opts := &executeCmdOptions{Caller: "0:0", Cellpack: "0x02004d", Target: "9:9", Height: 840_000}
		call, err := opts.build(fallback)
		require.NoError(t, err)
		assert.Equal(t, contracts.GenesisId, call.Target)
		assert.Equal(t, []uint128.Uint128{uint128.From64(contracts.OpcodeMint)}, call.Inputs)
		assert.Equal(t, uint64(840_000), call.Height)
		assert.Equal(t, fallback, call.Block)
	})
	t.Run("target_and_inputs", func(t *testing.T) {
		opts := &executeCmdOptions{
			Caller:   "1:5",
			Target:   "2:0",
			Inputs:   []string{"77"},
			Incoming: []string{"2:0=10", "2:0=5"},
			Block:    "beef",
		}
		call, err := opts.build(fallback)
		require.NoError(t, err)
		assert.Equal(t, alkanes.NewAlkaneId(1, 5), call.Caller)
		assert.Equal(t, []uint128.Uint128{uint128.From64(77)}, call.Inputs)
		assert.Len(t, call.Incoming, 2)
		assert.Equal(t, []byte{0xbe, 0xef}, call.Block)
	})
	t.Run("block_file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "block.bin")
		require.NoError(t, os.WriteFile(path, []byte{0x01, 0x02}, 0o600))

		opts := &executeCmdOptions{Caller: "0:0", Target: "2:0", BlockFile: path}
		call, err := opts.build(fallback)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x01, 0x02}, call.Block)
	})

	testcases := []struct {
		name string
		opts executeCmdOptions
	}{
		{"invalid_caller", executeCmdOptions{Caller: "x", Target: "2:0"}},
		{"invalid_cellpack_hex", executeCmdOptions{Caller: "0:0", Cellpack: "zz"}},
		{"short_cellpack", executeCmdOptions{Caller: "0:0", Cellpack: "02"}},
		{"invalid_input", executeCmdOptions{Caller: "0:0", Target: "2:0", Inputs: []string{"mint"}}},
		{"incoming_without_value", executeCmdOptions{Caller: "0:0", Target: "2:0", Incoming: []string{"2:0"}}},
		{"invalid_incoming_value", executeCmdOptions{Caller: "0:0", Target: "2:0", Incoming: []string{"2:0=ten"}}},
		{"invalid_block", executeCmdOptions{Caller: "0:0", Target: "2:0", Block: "xyz"}},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.opts.build(fallback)
			assert.ErrorIs(t, err, errs.InvalidArgument)
		})
	}
}

func TestNewExecuteOutput(t *testing.T) {
	response := &contracts.CallResponse{
		Alkanes: alkanes.NewParcel(
			alkanes.AlkaneTransfer{Id: contracts.GenesisId, Value: uint128.From64(3)},
			alkanes.AlkaneTransfer{Id: alkanes.NewAlkaneId(2, 1), Value: uint128.From64(1)},
			alkanes.AlkaneTransfer{Id: contracts.GenesisId, Value: uint128.From64(4)},
		),
		Data: []byte("NFT"),
	}
	out, err := newExecuteOutput(contracts.GenesisId, response, true)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"2:0": "7", "2:1": "1"}, out.Alkanes)
	assert.Equal(t, hex.EncodeToString([]byte("NFT")), out.Data)
	assert.True(t, out.Simulated)

	overflow := &contracts.CallResponse{Alkanes: alkanes.NewParcel(
		alkanes.AlkaneTransfer{Id: contracts.GenesisId, Value: uint128.Max},
		alkanes.AlkaneTransfer{Id: contracts.GenesisId, Value: uint128.From64(1)},
	)}
	_, err = newExecuteOutput(contracts.GenesisId, overflow, false)
	assert.ErrorIs(t, err, errs.Overflow)
}

func TestGenesisBlock(t *testing.T) {
	block, err := genesisBlock(common.NetworkMainnet)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, chaincfg.MainNetParams.GenesisBlock.Serialize(&buf))
	assert.Equal(t, buf.Bytes(), block)

	block, err = genesisBlock(common.NetworkDogecoin)
	require.NoError(t, err)
	assert.Nil(t, block)
}

func TestVersionHandler(t *testing.T) {
	cmd := NewVersionCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, versionHandler(&versionCmdOptions{Modules: "alkanes"}, cmd, nil))
	assert.Contains(t, out.String(), "v0.1.0")

	assert.ErrorIs(t, versionHandler(&versionCmdOptions{Modules: "runes"}, cmd, nil), errs.Unsupported)
}
