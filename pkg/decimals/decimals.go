// Package decimals formats integer token amounts with their divisibility.
package decimals

import (
	"math"

	"github.com/gaze-network/alkanes-indexer/pkg/logger"
	"github.com/gaze-network/alkanes-indexer/pkg/logger/slogx"
	"github.com/gaze-network/uint128"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/constraints"
)

// ToDecimal moves the point of amount left by decimals places: 312500000 with 8 decimals is 3.125.
// It panics when decimals does not fit an int32 exponent.
func ToDecimal[D constraints.Unsigned](amount uint128.Uint128, decimals D) decimal.Decimal {
	if uint64(decimals) > math.MaxInt32 {
		logger.Panic("ToDecimal: decimals should be at most 2^31-1", slogx.Uint64("decimals", uint64(decimals)))
	}
	return decimal.NewFromBigInt(amount.Big(), -int32(decimals))
}
