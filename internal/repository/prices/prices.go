package prices

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"coffeerange/internal/apperrors"
	"coffeerange/internal/model"
)

// Repository is the closing price ledger backed by PostgreSQL.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert writes the (grade, date) row or overwrites the existing one.
func (that *Repository) Upsert(ctx context.Context, price *model.ClosingPrice) error {
	price.Date = dateOf(price.Date)

	query := that.db.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "grade_name"}, {Name: "price_date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"closing_price": gorm.Expr("EXCLUDED.closing_price"),
				"entered_by":    gorm.Expr("EXCLUDED.entered_by"),
				"updated_at":    gorm.Expr("EXCLUDED.updated_at"),
			}),
		},
	)

	err := query.Create(price).Error
	if errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return fmt.Errorf("price %s rejected by database: %w: %w", price.Price, apperrors.ErrInvalidPrice, err)
	}
	if err != nil {
		return fmt.Errorf("upsert closing price in database: %w: %w", apperrors.ErrStoreUnavailable, err)
	}

	return nil
}

// MostRecentBefore returns the row with the greatest date <= asOf for the grade.
func (that *Repository) MostRecentBefore(ctx context.Context, grade string, asOf time.Time) (*model.ClosingPrice, error) {
	var price model.ClosingPrice

	query := that.db.WithContext(ctx).Model(&model.ClosingPrice{}).
		Where("grade_name = ? AND price_date <= ?", grade, dateOf(asOf)).
		Order("price_date DESC")

	err := query.Take(&price).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrClosingPriceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch most recent closing price from database: %w: %w", apperrors.ErrStoreUnavailable, err)
	}

	return &price, nil
}

// EntriesOn returns every grade's row for a date, ordered by grade.
func (that *Repository) EntriesOn(ctx context.Context, date time.Time) ([]*model.ClosingPrice, error) {
	var entries []*model.ClosingPrice

	query := that.db.WithContext(ctx).Model(&model.ClosingPrice{}).Where("price_date = ?", dateOf(date)).Order("grade_name")
	if err := query.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("fetch closing prices from database: %w: %w", apperrors.ErrStoreUnavailable, err)
	}

	return entries, nil
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
