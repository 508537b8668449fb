package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"coffeerange/internal/apperrors"
	"coffeerange/internal/interaction/ecx"
	"coffeerange/internal/model"
)

type BoardInteraction interface {
	GetClosingPrices(ctx context.Context, date time.Time) ([]ecx.ClosingPrice, error)
}

type PriceWriter interface {
	RecordPrice(ctx context.Context, grade string, date time.Time, price decimal.Decimal, recordedBy uuid.UUID) (*model.ClosingPrice, error)
}

// ImportSummary counts the rows of one import.
type ImportSummary struct {
	Imported int
	Skipped  int
	Failed   int
}

// ImportPricesUseCase copies the exchange board closing prices into the ledger.
type ImportPricesUseCase struct {
	logger      *slog.Logger
	interaction BoardInteraction
	writer      PriceWriter
	operator    uuid.UUID
}

// NewImportPricesUseCase creates the use case. Imported rows are recorded by operator.
func NewImportPricesUseCase(logger *slog.Logger, interaction BoardInteraction, writer PriceWriter, operator uuid.UUID) *ImportPricesUseCase {
	return &ImportPricesUseCase{
		logger:      logger.With("component", "import_prices"),
		interaction: interaction,
		writer:      writer,
		operator:    operator,
	}
}

// ImportDay imports the board of a trade date. Rows of other dates and unknown grades
// are skipped; a row that fails to store does not stop the others.
func (that *ImportPricesUseCase) ImportDay(ctx context.Context, date time.Time) (*ImportSummary, error) {
	log := that.logger.With("method", "ImportDay", "date", date.Format(time.DateOnly))

	prices, err := that.interaction.GetClosingPrices(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("get closing prices: %w", err)
	}

	day := date.Format(time.DateOnly)
	summary := &ImportSummary{}
	for _, p := range prices {
		if p.Date.Format(time.DateOnly) != day {
			summary.Skipped++
			continue
		}

		_, err = that.writer.RecordPrice(ctx, p.Symbol, p.Date, p.Price, that.operator)
		switch {
		case err == nil:
			summary.Imported++
		case errors.Is(err, apperrors.ErrUnknownGrade):
			summary.Skipped++
			log.Debug("skipping unknown grade", "symbol", p.Symbol)
		default:
			summary.Failed++
			log.Error("failed to record closing price", "symbol", p.Symbol, "error", err)
		}
	}

	log.Info("closing prices imported", "imported", summary.Imported, "skipped", summary.Skipped, "failed", summary.Failed)
	return summary, nil
}

// ImportToday is the scheduled job form of ImportDay.
func (that *ImportPricesUseCase) ImportToday(ctx context.Context, today time.Time) {
	if _, err := that.ImportDay(ctx, today); err != nil {
		that.logger.Error("failed to import closing prices", "method", "ImportToday", "error", err)
	}
}
