package httphandler

import (
	"encoding/hex"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/alkanes-indexer/common/errs"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/alkanes"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/contracts"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/runtime"
	"github.com/gaze-network/uint128"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type transferRequest struct {
	Id    string `json:"id"`
	Value string `json:"value"`
}

type executeRequest struct {
	Caller   string            `json:"caller"`
	Cellpack string            `json:"cellpack"` // hex encoded LEB128 cellpack, takes precedence over target and inputs
	Target   string            `json:"target"`
	Inputs   []string          `json:"inputs"`
	Incoming []transferRequest `json:"incoming"`
	Height   uint64            `json:"height"`
	Block    string            `json:"block"` // hex encoded raw block
	Simulate bool              `json:"simulate"`
}

func decodeHex(s string) ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(s, "0x"))
}

// Validate checks the request and builds the call it describes.
func (r *executeRequest) Validate() (runtime.Call, error) {
	var errList []error
	var call runtime.Call

	caller, err := parseAlkaneId("caller", r.Caller)
	if err != nil {
		errList = append(errList, err)
	}
	call.Caller = caller
	call.Height = r.Height

	if r.Cellpack != "" {
		data, err := decodeHex(r.Cellpack)
		if err != nil {
			errList = append(errList, errors.New("'cellpack' is not valid hex"))
		} else if cellpack, err := alkanes.DecodeCellpack(data); err != nil {
			errList = append(errList, errors.Wrap(err, "'cellpack' is not valid"))
		} else {
			call.Target, call.Inputs = cellpack.Target, cellpack.Inputs
		}
	} else {
		target, err := parseAlkaneId("target", r.Target)
		if err != nil {
			errList = append(errList, err)
		}
		call.Target = target
		for i, input := range r.Inputs {
			v, err := uint128.FromString(input)
			if err != nil {
				errList = append(errList, errors.Errorf("'inputs[%d]' is not a valid uint128", i))
				continue
			}
			call.Inputs = append(call.Inputs, v)
		}
	}

	for i, transfer := range r.Incoming {
		id, err := alkanes.NewAlkaneIdFromString(transfer.Id)
		if err != nil {
			errList = append(errList, errors.Errorf("'incoming[%d].id' is not a valid alkane id", i))
			continue
		}
		value, err := uint128.FromString(transfer.Value)
		if err != nil {
			errList = append(errList, errors.Errorf("'incoming[%d].value' is not a valid uint128", i))
			continue
		}
		call.Incoming = append(call.Incoming, alkanes.AlkaneTransfer{Id: id, Value: value})
	}

	if r.Block != "" {
		block, err := decodeHex(r.Block)
		if err != nil {
			errList = append(errList, errors.New("'block' is not valid hex"))
		}
		call.Block = block
	}

	if err := errs.WithPublicMessage(errors.Join(errList...), "validation error"); err != nil {
		return runtime.Call{}, err
	}
	return call, nil
}

type transfer struct {
	Id    alkanes.AlkaneId `json:"id"`
	Value string           `json:"value"`
}

type executeResult struct {
	Alkanes   []transfer `json:"alkanes"`
	Data      string     `json:"data"` // hex
	Simulated bool       `json:"simulated"`
}

type executeResponse = HttpResponse[executeResult]

func (h *HttpHandler) Execute(ctx *fiber.Ctx) (err error) {
	var req executeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errs.WithPublicMessage(err, "invalid request body")
	}
	call, err := req.Validate()
	if err != nil {
		return errors.WithStack(err)
	}

	var response *contracts.CallResponse
	if req.Simulate {
		response, err = h.usecase.Simulate(ctx.UserContext(), call)
	} else {
		response, err = h.usecase.Execute(ctx.UserContext(), call)
	}
	if err != nil {
		return publicCallError(err)
	}

	resp := executeResponse{
		Result: &executeResult{
			Alkanes: lo.Map(response.Alkanes, func(item alkanes.AlkaneTransfer, _ int) transfer {
				return transfer{Id: item.Id, Value: item.Value.String()}
			}),
			Data:      hex.EncodeToString(response.Data),
			Simulated: req.Simulate,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
