package ecx

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClosingPrice is one row of the exchange board.
type ClosingPrice struct {
	Symbol string          // ex: LWSD2
	Date   time.Time       // trade date, midnight UTC
	Price  decimal.Decimal // ex: 4000.00 birr per feresula
}
