package prices_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"coffeerange/internal/apperrors"
	"coffeerange/internal/model"
	"coffeerange/internal/repository/prices"
	"coffeerange/testing/ledgertest"
	"coffeerange/testing/suite"
)

func Test_Repository(t *testing.T) {
	ctx, st := suite.New(t, suite.WithPostgres())
	repository := prices.NewRepository(st.GetDB())

	ledgertest.Run(t, ctx, repository)

	t.Run("overwrite keeps the row id", func(t *testing.T) {
		date := suite.GetDateTime(t, "2024-07-01")

		first := &model.ClosingPrice{Grade: "LWSD1", Date: date, Price: decimal.NewFromInt(5000)}
		require.NoError(t, repository.Upsert(ctx, first))
		require.NotZero(t, first.ID)

		second := &model.ClosingPrice{Grade: "LWSD1", Date: date, Price: decimal.NewFromInt(5100)}
		require.NoError(t, repository.Upsert(ctx, second))

		var count int64
		require.NoError(t, st.GetDB().WithContext(ctx).Model(&model.ClosingPrice{}).Where("grade_name = ? AND price_date = ?", "LWSD1", date).Count(&count).Error)
		require.Equal(t, int64(1), count)
	})

	t.Run("price rounded to zero by the column is invalid, not retryable", func(t *testing.T) {
		price := &model.ClosingPrice{Grade: "LWSD4", Date: suite.GetDateTime(t, "2024-07-02"), Price: suite.GetPrice(t, "0.004")}

		err := repository.Upsert(ctx, price)
		require.ErrorIs(t, err, apperrors.ErrInvalidPrice)
		require.NotErrorIs(t, err, apperrors.ErrStoreUnavailable)
	})
}
