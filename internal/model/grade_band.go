package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"coffeerange/internal/apperrors"
)

// GradeBand is a fixed band maintained by an administrator.
// It is used only when a grade has no closing price history.
type GradeBand struct {
	ID         int64           `gorm:"column:id;primaryKey"`
	Grade      string          `gorm:"column:grade_name;not null;uniqueIndex"`
	LowerBound decimal.Decimal `gorm:"column:lower_price;type:numeric(14,2);not null"`
	UpperBound decimal.Decimal `gorm:"column:upper_price;type:numeric(14,2);not null;check:chk_band_bounds,lower_price > 0 AND lower_price <= upper_price"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (*GradeBand) TableName() string {
	return "coffee_grades"
}

// Validate checks 0 < lower <= upper.
func (b *GradeBand) Validate() error {
	if !b.LowerBound.IsPositive() || b.LowerBound.GreaterThan(b.UpperBound) {
		return fmt.Errorf("band %s..%s for %s: %w", b.LowerBound, b.UpperBound, b.Grade, apperrors.ErrInvalidBand)
	}
	return nil
}
