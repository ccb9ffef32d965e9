package httphandler

import (
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/alkanes-indexer/common/errs"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/alkanes"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type getBalancesRequest struct {
	Holder string `params:"holder"`
	Asset  string `params:"asset"`
}

// Validate parses the holder and, if withAsset is set, the asset.
func (r getBalancesRequest) Validate(withAsset bool) (holder alkanes.AlkaneId, asset alkanes.AlkaneId, err error) {
	var errList []error
	if holder, err = parseAlkaneId("holder", r.Holder); err != nil {
		errList = append(errList, err)
	}
	if withAsset {
		if asset, err = parseAlkaneId("asset", r.Asset); err != nil {
			errList = append(errList, err)
		}
	}
	return holder, asset, errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getBalancesResult struct {
	Holder alkanes.AlkaneId `json:"holder"`
	List   []balance        `json:"list"`
}

type getBalancesResponse = HttpResponse[getBalancesResult]

func (h *HttpHandler) GetBalances(ctx *fiber.Ctx) (err error) {
	var req getBalancesRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	holder, _, err := req.Validate(false)
	if err != nil {
		return errors.WithStack(err)
	}

	balances, err := h.usecase.GetBalances(ctx.UserContext(), holder)
	if err != nil {
		return errors.Wrap(err, "error during GetBalances")
	}

	// sort by amount descending, ties keep inventory order
	slices.SortStableFunc(balances, func(i, j alkanes.AlkaneTransfer) int {
		return j.Value.Cmp(i.Value)
	})
	list := lo.Map(balances, func(item alkanes.AlkaneTransfer, _ int) balance {
		return h.newBalance(item.Id, item.Value)
	})

	resp := getBalancesResponse{
		Result: &getBalancesResult{
			Holder: holder,
			List:   list,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}

type getBalanceResponse = HttpResponse[balance]

func (h *HttpHandler) GetBalance(ctx *fiber.Ctx) (err error) {
	var req getBalancesRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	holder, asset, err := req.Validate(true)
	if err != nil {
		return errors.WithStack(err)
	}

	amount, err := h.usecase.GetBalance(ctx.UserContext(), holder, asset)
	if err != nil {
		return errors.Wrap(err, "error during GetBalance")
	}

	resp := getBalanceResponse{
		Result: lo.ToPtr(h.newBalance(asset, amount)),
	}
	return errors.WithStack(ctx.JSON(resp))
}
