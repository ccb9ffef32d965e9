package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/alkanes-indexer/common/errs"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/alkanes"
	"github.com/gaze-network/alkanes-indexer/pkg/decimals"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type getTokenInfoRequest struct {
	Id string `params:"id"`
}

func (r getTokenInfoRequest) Validate() (alkanes.AlkaneId, error) {
	id, err := parseAlkaneId("id", r.Id)
	return id, errs.WithPublicMessage(err, "validation error")
}

type getTokenInfoResult struct {
	Id                   alkanes.AlkaneId `json:"id"`
	Name                 string           `json:"name"`
	Symbol               string           `json:"symbol"`
	Decimals             uint8            `json:"decimals"`
	TotalSupply          string           `json:"totalSupply"`
	TotalSupplyFormatted decimal.Decimal  `json:"totalSupplyFormatted"`
}

type getTokenInfoResponse = HttpResponse[getTokenInfoResult]

func (h *HttpHandler) GetTokenInfo(ctx *fiber.Ctx) (err error) {
	var req getTokenInfoRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	id, err := req.Validate()
	if err != nil {
		return errors.WithStack(err)
	}

	info, err := h.usecase.GetTokenInfo(ctx.UserContext(), id)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errs.NewPublicError("alkane not found")
		}
		return errors.Wrap(err, "error during GetTokenInfo")
	}

	resp := getTokenInfoResponse{
		Result: &getTokenInfoResult{
			Id:                   info.Id,
			Name:                 info.Name,
			Symbol:               info.Symbol,
			Decimals:             info.Decimals,
			TotalSupply:          info.TotalSupply.String(),
			TotalSupplyFormatted: decimals.ToDecimal(info.TotalSupply, info.Decimals),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
