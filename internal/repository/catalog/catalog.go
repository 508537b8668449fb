package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"coffeerange/internal/apperrors"
	"coffeerange/internal/model"
)

// Repository stores the fixed bands set by administrators.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (that *Repository) LookupFixed(ctx context.Context, grade string) (*model.GradeBand, error) {
	var band model.GradeBand

	err := that.db.WithContext(ctx).Where("grade_name = ?", grade).Take(&band).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrFixedBandNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch fixed band from database: %w: %w", apperrors.ErrStoreUnavailable, err)
	}

	return &band, nil
}

// Save creates or replaces the band of a grade.
func (that *Repository) Save(ctx context.Context, band *model.GradeBand) error {
	if err := band.Validate(); err != nil {
		return err
	}

	query := that.db.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "grade_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"lower_price", "upper_price", "updated_at"}),
		},
	)

	err := query.Create(band).Error
	if errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return fmt.Errorf("band of %s rejected by database: %w: %w", band.Grade, apperrors.ErrInvalidBand, err)
	}
	if err != nil {
		return fmt.Errorf("upsert fixed band in database: %w: %w", apperrors.ErrStoreUnavailable, err)
	}

	return nil
}

func (that *Repository) List(ctx context.Context) ([]*model.GradeBand, error) {
	var bands []*model.GradeBand

	if err := that.db.WithContext(ctx).Order("grade_name ASC").Find(&bands).Error; err != nil {
		return nil, fmt.Errorf("fetch fixed bands from database: %w: %w", apperrors.ErrStoreUnavailable, err)
	}

	return bands, nil
}
