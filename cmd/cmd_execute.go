package cmd

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/alkanes-indexer/common"
	"github.com/gaze-network/alkanes-indexer/common/errs"
	"github.com/gaze-network/alkanes-indexer/internal/config"
	alkanesmodule "github.com/gaze-network/alkanes-indexer/modules/alkanes"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/alkanes"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/contracts"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/runtime"
	"github.com/gaze-network/alkanes-indexer/pkg/logger"
	"github.com/gaze-network/alkanes-indexer/pkg/logger/slogx"
	"github.com/gaze-network/uint128"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

type executeCmdOptions struct {
	Caller    string
	Cellpack  string
	Target    string
	Inputs    []string
	Incoming  []string
	Height    uint64
	Block     string
	BlockFile string
	Simulate  bool
}

func NewExecuteCommand() *cobra.Command {
	opts := &executeCmdOptions{}

	cmd := &cobra.Command{
		Use:   "execute",
		Short: "Execute a single contract call against the configured store",
		Example: `alkanes execute --network regtest --target 2:0 --inputs 0
alkanes execute --network regtest --cellpack 020000 --height 1 --block-file ./block.bin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeHandler(opts, cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Caller, "caller", "0:0", "Alkane id of the caller")
	flags.StringVar(&opts.Cellpack, "cellpack", "", "Hex encoded LEB128 cellpack. Takes precedence over --target and --inputs")
	flags.StringVar(&opts.Target, "target", contracts.GenesisId.String(), "Alkane id of the called contract")
	flags.StringSliceVar(&opts.Inputs, "inputs", nil, "Call inputs, the first one is the opcode. E.g. `77`")
	flags.StringSliceVar(&opts.Incoming, "incoming", nil, "Incoming alkanes as `block:tx=value` pairs")
	flags.Uint64Var(&opts.Height, "height", 0, "Height of the block the call is executed in")
	flags.StringVar(&opts.Block, "block", "", "Hex encoded raw block. Defaults to the genesis block of the network")
	flags.StringVar(&opts.BlockFile, "block-file", "", "Path to a raw block file")
	flags.BoolVar(&opts.Simulate, "simulate", false, "Run the call without committing it")

	return cmd
}

// build converts the options into a call. blockDefault is used when no block is given.
func (opts *executeCmdOptions) build(blockDefault []byte) (runtime.Call, error) {
	caller, err := alkanes.NewAlkaneIdFromString(opts.Caller)
	if err != nil {
		return runtime.Call{}, errors.Wrap(err, "invalid caller")
	}

	var cellpack alkanes.Cellpack
	if opts.Cellpack != "" {
		data, err := hex.DecodeString(strings.TrimPrefix(opts.Cellpack, "0x"))
		if err != nil {
			return runtime.Call{}, errors.Wrapf(errs.InvalidArgument, "cellpack is not valid hex: %v", err)
		}
		if cellpack, err = alkanes.DecodeCellpack(data); err != nil {
			return runtime.Call{}, errors.Wrap(err, "invalid cellpack")
		}
	} else {
		if cellpack.Target, err = alkanes.NewAlkaneIdFromString(opts.Target); err != nil {
			return runtime.Call{}, errors.Wrap(err, "invalid target")
		}
		for i, input := range opts.Inputs {
			v, err := uint128.FromString(strings.TrimSpace(input))
			if err != nil {
				return runtime.Call{}, errors.Wrapf(errs.InvalidArgument, "input #%d is not a valid uint128", i)
			}
			cellpack.Inputs = append(cellpack.Inputs, v)
		}
	}

	incoming := make(alkanes.Parcel, 0, len(opts.Incoming))
	for _, pair := range opts.Incoming {
		rawId, rawValue, found := strings.Cut(pair, "=")
		if !found {
			return runtime.Call{}, errors.Wrapf(errs.InvalidArgument, "incoming %q must be `block:tx=value`", pair)
		}
		id, err := alkanes.NewAlkaneIdFromString(rawId)
		if err != nil {
			return runtime.Call{}, errors.Wrapf(err, "invalid incoming id %q", rawId)
		}
		value, err := uint128.FromString(rawValue)
		if err != nil {
			return runtime.Call{}, errors.Wrapf(errs.InvalidArgument, "invalid incoming value %q", rawValue)
		}
		incoming = append(incoming, alkanes.AlkaneTransfer{Id: id, Value: value})
	}

	block := blockDefault
	switch {
	case opts.Block != "":
		if block, err = hex.DecodeString(strings.TrimPrefix(opts.Block, "0x")); err != nil {
			return runtime.Call{}, errors.Wrapf(errs.InvalidArgument, "block is not valid hex: %v", err)
		}
	case opts.BlockFile != "":
		if block, err = os.ReadFile(opts.BlockFile); err != nil {
			return runtime.Call{}, errors.Wrap(err, "can't read block file")
		}
	}

	return runtime.NewCall(caller, cellpack, incoming, opts.Height, block), nil
}

type executeOutput struct {
	Target    alkanes.AlkaneId  `json:"target"`
	Alkanes   map[string]string `json:"alkanes"`
	Data      string            `json:"data"`
	Simulated bool              `json:"simulated"`
}

func newExecuteOutput(target alkanes.AlkaneId, response *contracts.CallResponse, simulated bool) (executeOutput, error) {
	out := executeOutput{
		Target:    target,
		Alkanes:   make(map[string]string, len(response.Alkanes)),
		Data:      hex.EncodeToString(response.Data),
		Simulated: simulated,
	}
	for _, id := range response.Alkanes.Ids() {
		total, ok := response.Alkanes.Total(id)
		if !ok {
			return executeOutput{}, errors.Wrapf(errs.Overflow, "returned amount of %s", id)
		}
		out.Alkanes[id.String()] = total.String()
	}
	return out, nil
}

func genesisBlock(network common.Network) ([]byte, error) {
	params := network.ChainParams()
	if params == nil {
		return nil, nil
	}
	var buf bytes.Buffer
	if err := params.GenesisBlock.Serialize(&buf); err != nil {
		return nil, errors.Wrap(err, "can't serialize genesis block")
	}
	return buf.Bytes(), nil
}

func executeHandler(opts *executeCmdOptions, cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	conf := config.Load()
	if !conf.Network.IsSupported() {
		return errors.Wrapf(errs.Unsupported, "%q network is not supported", conf.Network.String())
	}

	blockDefault, err := genesisBlock(conf.Network)
	if err != nil {
		return errors.WithStack(err)
	}
	call, err := opts.build(blockDefault)
	if err != nil {
		return errors.WithStack(err)
	}

	module, err := alkanesmodule.NewAlkanes(ctx, conf.Network, conf.Modules.Alkanes)
	if err != nil {
		return errors.Wrap(err, "can't init alkanes")
	}
	defer func() {
		if err := module.Shutdown(ctx); err != nil {
			logger.ErrorContext(ctx, "Failed to close alkanes store", err)
		}
	}()

	execute := lo.Ternary(opts.Simulate, module.Usecase().Simulate, module.Usecase().Execute)
	response, err := execute(ctx, call)
	if err != nil {
		return errors.Wrap(err, "call failed")
	}
	logger.DebugContext(ctx, "Call finished", slogx.Stringer("target", call.Target), slogx.Int("alkanes", len(response.Alkanes)))

	out, err := newExecuteOutput(call.Target, response, opts.Simulate)
	if err != nil {
		return errors.WithStack(err)
	}
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return errors.WithStack(encoder.Encode(out))
}
