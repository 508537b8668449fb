package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"coffeerange/internal/model"
	"coffeerange/internal/usecases"
	"coffeerange/testing/fakes"
	"coffeerange/testing/suite"
)

type snapshotMock struct {
	mock.Mock
}

func (m *snapshotMock) PublishRangesSnapshot(ctx context.Context, report *usecases.RangeReport) error {
	return m.Called(ctx, report).Error(0)
}

func Test_PublishRangesUseCase_Publish(t *testing.T) {
	ctx, st := suite.New(t)

	ledger := fakes.NewLedger()
	require.NoError(t, ledger.Upsert(ctx, &model.ClosingPrice{Grade: "LWSD1", Date: suite.GetDateTime(t, "2024-03-01"), Price: decimal.NewFromInt(4000)}))
	require.NoError(t, ledger.Upsert(ctx, &model.ClosingPrice{Grade: "LWSD2", Date: suite.GetDateTime(t, "2024-03-10"), Price: decimal.NewFromInt(4000)}))

	query := newQueryUseCase(st, ledger, fakes.NewCatalog(), []string{"LWSD1", "LWSD2", "LWSD3"})
	asOf := suite.GetDateTime(t, "2024-03-12")

	t.Run("should publish the snapshot and report critical grades", func(t *testing.T) {
		publisher := &snapshotMock{}
		publisher.On("PublishRangesSnapshot", mock.Anything, mock.MatchedBy(func(r *usecases.RangeReport) bool {
			return len(r.Ranges) == 2 && len(r.Gaps) == 1
		})).Return(nil).Once()

		critical, err := usecases.NewPublishRangesUseCase(st.Logger, query, publisher).Publish(ctx, asOf)
		require.NoError(t, err)
		require.Equal(t, []string{"LWSD1"}, critical)
		publisher.AssertExpectations(t)
	})

	t.Run("should work without a publisher", func(t *testing.T) {
		critical, err := usecases.NewPublishRangesUseCase(st.Logger, query, nil).Publish(ctx, asOf)
		require.NoError(t, err)
		require.Equal(t, []string{"LWSD1"}, critical)
	})

	t.Run("should return publisher errors", func(t *testing.T) {
		publisher := &snapshotMock{}
		publisher.On("PublishRangesSnapshot", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

		_, err := usecases.NewPublishRangesUseCase(st.Logger, query, publisher).Publish(ctx, asOf)
		require.ErrorContains(t, err, "publish ranges snapshot")
	})
}
