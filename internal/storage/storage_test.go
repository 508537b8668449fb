package storage_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"coffeerange/internal/model"
	"coffeerange/testing/suite"
)

func Test_PostgresConnection(t *testing.T) {
	ctx, st := suite.New(t, suite.WithPostgres())

	t.Run("ping", func(t *testing.T) {
		require.NoError(t, st.Conn.Ping(ctx))
	})

	t.Run("migration is repeatable", func(t *testing.T) {
		assert.NotPanics(t, st.Conn.MustMigration)

		migrator := st.GetDB().Migrator()
		assert.True(t, migrator.HasConstraint(&model.ClosingPrice{}, "chk_closing_price_positive"))
		assert.True(t, migrator.HasConstraint(&model.GradeBand{}, "chk_band_bounds"))
	})

	t.Run("non-positive price is rejected by the table", func(t *testing.T) {
		err := st.GetDB().WithContext(ctx).Create(&model.ClosingPrice{
			Grade:      "LWSD1",
			Date:       suite.GetDateTime(t, "2024-03-01"),
			Price:      decimal.Zero,
			RecordedBy: uuid.New(),
		}).Error
		assert.ErrorIs(t, err, gorm.ErrCheckConstraintViolated)
	})

	t.Run("inverted band is rejected by the table", func(t *testing.T) {
		err := st.GetDB().WithContext(ctx).Create(&model.GradeBand{
			Grade:      "LWYC1",
			LowerBound: decimal.NewFromInt(5500),
			UpperBound: decimal.NewFromInt(5000),
		}).Error
		assert.ErrorIs(t, err, gorm.ErrCheckConstraintViolated)
	})
}

func Test_RedisConnection(t *testing.T) {
	ctx, st := suite.New(t, suite.WithRedis())

	require.NoError(t, st.GetRedis().Ping(ctx))
}
