package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"coffeerange/internal/apperrors"
	"coffeerange/internal/grades"
	"coffeerange/internal/model"
	"coffeerange/internal/pricerange"
)

type Ledger interface {
	Upsert(ctx context.Context, price *model.ClosingPrice) error
	EntriesOn(ctx context.Context, date time.Time) ([]*model.ClosingPrice, error)
}

type PricePublisher interface {
	PublishPriceRecorded(ctx context.Context, price *model.ClosingPrice) error
}

type RecordPricesUseCase struct {
	logger    *slog.Logger
	ledger    Ledger
	grades    *grades.Set
	publisher PricePublisher
}

// NewRecordPricesUseCase creates the use case. publisher may be nil.
func NewRecordPricesUseCase(logger *slog.Logger, ledger Ledger, set *grades.Set, publisher PricePublisher) *RecordPricesUseCase {
	return &RecordPricesUseCase{
		logger:    logger.With("component", "record_prices"),
		ledger:    ledger,
		grades:    set,
		publisher: publisher,
	}
}

// ParsePrice parses a price typed by an operator, ex: "4,250.50".
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty price: %w", apperrors.ErrInvalidPrice)
	}

	price, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("price %q: %w", s, apperrors.ErrInvalidPrice)
	}

	if err = checkPrice(price); err != nil {
		return decimal.Zero, err
	}

	return price, nil
}

// checkPrice accepts positive prices with at most 2 decimal places, so the stored
// value is exactly the submitted one.
func checkPrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return fmt.Errorf("price %s is not positive: %w", price, apperrors.ErrInvalidPrice)
	}
	if !price.Equal(price.Truncate(2)) {
		return fmt.Errorf("price %s has more than 2 decimal places: %w", price, apperrors.ErrInvalidPrice)
	}
	return nil
}

// RecordPrice validates and stores the closing price of a grade. A second call for
// the same grade and date replaces the first.
func (that *RecordPricesUseCase) RecordPrice(ctx context.Context, grade string, date time.Time, price decimal.Decimal, recordedBy uuid.UUID) (*model.ClosingPrice, error) {
	log := that.logger.With("method", "RecordPrice")

	if err := checkPrice(price); err != nil {
		return nil, err
	}

	if date.IsZero() {
		return nil, fmt.Errorf("missing date: %w", apperrors.ErrInvalidDate)
	}

	grade, err := that.grades.Check(grade)
	if err != nil {
		return nil, err
	}

	entry := &model.ClosingPrice{
		Grade:      grade,
		Date:       pricerange.DateOf(date),
		Price:      price,
		RecordedBy: recordedBy,
	}

	if err = that.ledger.Upsert(ctx, entry); err != nil {
		return nil, fmt.Errorf("upsert closing price: %w", err)
	}

	log.Info("closing price recorded", "grade", entry.Grade, "date", entry.Date.Format(time.DateOnly), "price", entry.Price.String())

	if that.publisher != nil {
		if err = that.publisher.PublishPriceRecorded(ctx, entry); err != nil {
			log.Error("failed to publish recorded price", "grade", entry.Grade, "error", err)
		}
	}

	return entry, nil
}

// DayResult is the outcome of a submitted entry form. Each grade is recorded independently.
type DayResult struct {
	Recorded []*model.ClosingPrice
	Failed   map[string]error
}

// RecordDay records the closing prices of one day. Failures are collected per grade;
// the returned error is set only when nothing could be attempted.
func (that *RecordPricesUseCase) RecordDay(ctx context.Context, date time.Time, prices map[string]decimal.Decimal, recordedBy uuid.UUID) (*DayResult, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("missing date: %w", apperrors.ErrInvalidDate)
	}

	list := make([]string, 0, len(prices))
	for grade := range prices {
		list = append(list, grade)
	}
	sort.Strings(list)

	result := &DayResult{Failed: make(map[string]error)}
	for _, grade := range list {
		entry, err := that.RecordPrice(ctx, grade, date, prices[grade], recordedBy)
		if err != nil {
			result.Failed[grade] = err
			continue
		}
		result.Recorded = append(result.Recorded, entry)
	}

	return result, nil
}

// EntriesOn returns the prices recorded on a date, used to pre-fill the entry form.
func (that *RecordPricesUseCase) EntriesOn(ctx context.Context, date time.Time) ([]*model.ClosingPrice, error) {
	entries, err := that.ledger.EntriesOn(ctx, pricerange.DateOf(date))
	if err != nil {
		return nil, fmt.Errorf("fetch entries on %s: %w", date.Format(time.DateOnly), err)
	}
	return entries, nil
}
