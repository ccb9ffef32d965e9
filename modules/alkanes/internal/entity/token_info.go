package entity

import (
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/alkanes"
	"github.com/gaze-network/uint128"
)

type TokenInfo struct {
	Id          alkanes.AlkaneId
	Name        string
	Symbol      string
	Decimals    uint8
	TotalSupply uint128.Uint128
}
