package pricerange

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"coffeerange/internal/apperrors"
	"coffeerange/internal/model"
)

// ExtendedTierMaxDays is the last day counted as "extended". Day 11 is the first critical day.
const ExtendedTierMaxDays = 10

var (
	currentSpread  = decimal.New(10, -2)
	extendedSpread = decimal.New(15, -2)
)

// DayCount selects how days without sales are counted.
type DayCount string

const (
	DayCountCalendar DayCount = "calendar"
	// DayCountBusiness skips Saturdays and Sundays.
	DayCountBusiness DayCount = "business"
)

// ParseDayCount parses a config value. Empty means calendar.
func ParseDayCount(s string) (DayCount, error) {
	switch DayCount(s) {
	case "", DayCountCalendar:
		return DayCountCalendar, nil
	case DayCountBusiness:
		return DayCountBusiness, nil
	default:
		return "", fmt.Errorf("unknown day count %q", s)
	}
}

// DateOf strips the time of day, keeping the calendar date as seen in t's location.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of days elapsed from `from` to `to` (0 when equal).
// In business mode only weekdays in (from, to] are counted.
func DaysBetween(from, to time.Time, mode DayCount) int {
	from, to = DateOf(from), DateOf(to)
	total := int(to.Sub(from).Hours() / 24)
	if total <= 0 || mode != DayCountBusiness {
		return total
	}

	weeks := total / 7
	count := weeks * 5
	for d := from.AddDate(0, 0, weeks*7+1); !d.After(to); d = d.AddDate(0, 0, 1) {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			count++
		}
	}
	return count
}

// TierFor returns the tier and the band spread for a number of days without sales.
func TierFor(daysWithoutSales int) (model.Tier, decimal.Decimal) {
	switch {
	case daysWithoutSales <= 0:
		return model.TierCurrent, currentSpread
	case daysWithoutSales <= ExtendedTierMaxDays:
		return model.TierExtended, extendedSpread
	default:
		return model.TierCritical, extendedSpread
	}
}

// Derive turns the most recent closing price of a grade into the band valid on asOf.
// It has no side effects: the same entry and asOf always give the same range.
func Derive(entry *model.ClosingPrice, asOf time.Time, mode DayCount) (*model.DerivedRange, error) {
	if entry == nil {
		return nil, apperrors.ErrNoDynamicData
	}

	baseDate := DateOf(entry.Date)
	if baseDate.After(DateOf(asOf)) {
		return nil, fmt.Errorf("closing price of %s dated %s is after %s: %w",
			entry.Grade, baseDate.Format(time.DateOnly), DateOf(asOf).Format(time.DateOnly), apperrors.ErrInvalidDate)
	}

	days := DaysBetween(baseDate, asOf, mode)
	tier, spread := TierFor(days)
	one := decimal.NewFromInt(1)

	return &model.DerivedRange{
		Grade:            entry.Grade,
		LowerBound:       entry.Price.Mul(one.Sub(spread)).Round(2),
		UpperBound:       entry.Price.Mul(one.Add(spread)).Round(2),
		BasePrice:        entry.Price,
		BasePriceDate:    baseDate,
		DaysWithoutSales: days,
		Tier:             tier,
	}, nil
}

// Ledger is the read side of the closing price ledger needed for derivation.
type Ledger interface {
	MostRecentBefore(ctx context.Context, grade string, asOf time.Time) (*model.ClosingPrice, error)
}

// Engine derives a grade's range from the current ledger state.
type Engine struct {
	logger   *slog.Logger
	ledger   Ledger
	dayCount DayCount
}

func NewEngine(logger *slog.Logger, ledger Ledger, dayCount DayCount) *Engine {
	return &Engine{logger: logger.With("component", "pricerange"), ledger: ledger, dayCount: dayCount}
}

// Range returns the dynamic range of a grade on asOf, or ErrNoDynamicData when
// the grade has no closing price at or before asOf.
func (that *Engine) Range(ctx context.Context, grade string, asOf time.Time) (*model.DerivedRange, error) {
	entry, err := that.ledger.MostRecentBefore(ctx, grade, DateOf(asOf))
	if errors.Is(err, apperrors.ErrClosingPriceNotFound) {
		return nil, fmt.Errorf("grade %s as of %s: %w", grade, DateOf(asOf).Format(time.DateOnly), apperrors.ErrNoDynamicData)
	}
	if err != nil {
		return nil, fmt.Errorf("find most recent closing price: %w", err)
	}

	r, err := Derive(entry, asOf, that.dayCount)
	if err != nil {
		return nil, err
	}

	that.logger.Debug("derived range", "grade", grade, "tier", r.Tier, "days_without_sales", r.DaysWithoutSales)
	return r, nil
}
