package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"coffeerange/internal/grades"
	"coffeerange/internal/model"
)

type BandStore interface {
	Save(ctx context.Context, band *model.GradeBand) error
	List(ctx context.Context) ([]*model.GradeBand, error)
}

// ManageCatalogUseCase maintains the fixed bands used when a grade has no closing price.
type ManageCatalogUseCase struct {
	logger *slog.Logger
	store  BandStore
	grades *grades.Set
}

func NewManageCatalogUseCase(logger *slog.Logger, store BandStore, set *grades.Set) *ManageCatalogUseCase {
	return &ManageCatalogUseCase{logger: logger.With("component", "manage_catalog"), store: store, grades: set}
}

func (that *ManageCatalogUseCase) SaveBand(ctx context.Context, grade string, lower, upper decimal.Decimal) (*model.GradeBand, error) {
	grade, err := that.grades.Check(grade)
	if err != nil {
		return nil, err
	}

	band := &model.GradeBand{Grade: grade, LowerBound: lower.Round(2), UpperBound: upper.Round(2)}
	if err = band.Validate(); err != nil {
		return nil, err
	}

	if err = that.store.Save(ctx, band); err != nil {
		return nil, fmt.Errorf("save fixed band: %w", err)
	}

	that.logger.Info("fixed band saved", "grade", grade, "lower", band.LowerBound.String(), "upper", band.UpperBound.String())
	return band, nil
}

func (that *ManageCatalogUseCase) ListBands(ctx context.Context) ([]*model.GradeBand, error) {
	bands, err := that.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list fixed bands: %w", err)
	}
	return bands, nil
}
