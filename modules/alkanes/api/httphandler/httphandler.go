package httphandler

import (
	"net/url"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/alkanes-indexer/common/errs"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/alkanes"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/usecase"
	"github.com/gaze-network/alkanes-indexer/pkg/decimals"
	"github.com/gaze-network/uint128"
	"github.com/shopspring/decimal"
)

type HttpHandler struct {
	usecase *usecase.Usecase
}

func New(usecase *usecase.Usecase) *HttpHandler {
	return &HttpHandler{
		usecase: usecase,
	}
}

type HttpResponse[T any] struct {
	Error  *string `json:"error"`
	Result *T      `json:"result,omitempty"`
}

type balance struct {
	Id        alkanes.AlkaneId `json:"id"`
	Amount    string           `json:"amount"`
	Formatted decimal.Decimal  `json:"formatted"`
	Decimals  uint8            `json:"decimals"`
}

func (h *HttpHandler) newBalance(id alkanes.AlkaneId, amount uint128.Uint128) balance {
	d := h.usecase.GetDecimals(id)
	return balance{
		Id:        id,
		Amount:    amount.String(),
		Formatted: decimals.ToDecimal(amount, d),
		Decimals:  d,
	}
}

// parseAlkaneId parses a path parameter in the `block:tx` form.
func parseAlkaneId(name string, value string) (alkanes.AlkaneId, error) {
	if value == "" {
		return alkanes.AlkaneId{}, errors.Errorf("'%s' is required", name)
	}
	unescaped, err := url.QueryUnescape(value)
	if err != nil {
		return alkanes.AlkaneId{}, errors.Errorf("'%s' is not a valid alkane id", name)
	}
	id, err := alkanes.NewAlkaneIdFromString(unescaped)
	if err != nil {
		return alkanes.AlkaneId{}, errors.Errorf("'%s' is not a valid alkane id: %v", name, err)
	}
	return id, nil
}

// publicCallError exposes the failure of a contract call to the client.
func publicCallError(err error) error {
	if code, ok := errs.CallFailureCode(err); ok {
		return errs.WithPublicMessageCode(err, "call failed", code)
	}
	return errors.WithStack(err)
}
