package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Tier classifies how stale a grade's band is.
type Tier string

const (
	TierCurrent  Tier = "current"
	TierExtended Tier = "extended"
	TierCritical Tier = "critical"
)

// Color is the status colour shown next to a band.
func (t Tier) Color() string {
	switch t {
	case TierCurrent:
		return "green"
	case TierExtended:
		return "yellow"
	default:
		return "red"
	}
}

// DerivedRange is computed on every query from the ledger state. It is never stored.
type DerivedRange struct {
	Grade            string          `json:"grade"`
	LowerBound       decimal.Decimal `json:"lower_bound"`
	UpperBound       decimal.Decimal `json:"upper_bound"`
	BasePrice        decimal.Decimal `json:"base_price"`
	BasePriceDate    time.Time       `json:"base_price_date"`
	DaysWithoutSales int             `json:"days_without_sales"`
	Tier             Tier            `json:"tier"`
}

// StatusText returns the label shown to operators, ex: "Extended (±15%) - 4 days".
func (r *DerivedRange) StatusText() string {
	switch r.Tier {
	case TierCurrent:
		return "Current (±10%)"
	case TierExtended:
		return fmt.Sprintf("Extended (±15%%) - %d days", r.DaysWithoutSales)
	default:
		return fmt.Sprintf("Critical (±15%%) - %d days", r.DaysWithoutSales)
	}
}
