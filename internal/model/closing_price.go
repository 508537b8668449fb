package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClosingPrice describes the final recorded trade price of a grade on a day.
// Unique index are Grade and Date together.
type ClosingPrice struct {
	ID         int64           `gorm:"column:id;primaryKey"`
	Grade      string          `gorm:"column:grade_name;not null;uniqueIndex:idx_closing_grade_date"`
	Date       time.Time       `gorm:"column:price_date;type:date;not null;uniqueIndex:idx_closing_grade_date;index"`
	Price      decimal.Decimal `gorm:"column:closing_price;type:numeric(14,2);not null;check:chk_closing_price_positive,closing_price > 0"`
	RecordedBy uuid.UUID       `gorm:"column:entered_by;type:uuid"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (*ClosingPrice) TableName() string {
	return "daily_closing_prices"
}
