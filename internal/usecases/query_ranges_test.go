package usecases_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"coffeerange/internal/apperrors"
	"coffeerange/internal/grades"
	"coffeerange/internal/model"
	"coffeerange/internal/pricerange"
	"coffeerange/internal/usecases"
	"coffeerange/testing/fakes"
	"coffeerange/testing/suite"
)

func newQueryUseCase(st *suite.Suite, ledger *fakes.Ledger, catalog *fakes.Catalog, list []string) *usecases.QueryRangesUseCase {
	engine := pricerange.NewEngine(st.Logger, ledger, pricerange.DayCountCalendar)
	return usecases.NewQueryRangesUseCase(st.Logger, engine, catalog, grades.NewSet(list, false), usecases.QueryConfig{
		ParallelLookups: 2,
		LookupTimeout:   100 * time.Millisecond,
	})
}

func Test_QueryRangesUseCase_CurrentRanges(t *testing.T) {
	t.Run("should keep grade order and fall back to fixed bands", func(t *testing.T) {
		ctx, st := suite.New(t)

		ledger := fakes.NewLedger()
		require.NoError(t, ledger.Upsert(ctx, &model.ClosingPrice{Grade: "LWSD2", Date: suite.GetDateTime(t, "2024-03-01"), Price: decimal.NewFromInt(4000)}))
		require.NoError(t, ledger.Upsert(ctx, &model.ClosingPrice{Grade: "LWBP1", Date: suite.GetDateTime(t, "2024-02-20"), Price: decimal.NewFromInt(1000)}))

		catalog := fakes.NewCatalog(&model.GradeBand{Grade: "LWYC1", LowerBound: decimal.NewFromInt(5000), UpperBound: decimal.NewFromInt(5500)})

		uc := newQueryUseCase(st, ledger, catalog, []string{"LWSD2", "LWYC1", "LWBP1"})

		report, err := uc.CurrentRanges(ctx, suite.GetDateTime(t, "2024-03-11"))
		require.NoError(t, err)
		require.Empty(t, report.Gaps)
		require.Len(t, report.Ranges, 3)

		require.Equal(t, "LWSD2", report.Ranges[0].Grade)
		require.Equal(t, usecases.SourceDynamic, report.Ranges[0].Source)
		require.Equal(t, model.TierExtended, report.Ranges[0].Dynamic.Tier)
		require.Equal(t, "3400", report.Ranges[0].Dynamic.LowerBound.String())
		require.Equal(t, "4600", report.Ranges[0].Dynamic.UpperBound.String())

		require.Equal(t, "LWYC1", report.Ranges[1].Grade)
		require.Equal(t, usecases.SourceFixed, report.Ranges[1].Source)
		lower, upper := report.Ranges[1].Bounds()
		require.Equal(t, "5000", lower.String())
		require.Equal(t, "5500", upper.String())

		require.Equal(t, "LWBP1", report.Ranges[2].Grade)
		require.Equal(t, model.TierCritical, report.Ranges[2].Dynamic.Tier)
		require.Equal(t, 20, report.Ranges[2].Dynamic.DaysWithoutSales)
	})

	t.Run("should omit a grade without any data and annotate the gap", func(t *testing.T) {
		ctx, st := suite.New(t)

		ledger := fakes.NewLedger()
		require.NoError(t, ledger.Upsert(ctx, &model.ClosingPrice{Grade: "LWSD2", Date: suite.GetDateTime(t, "2024-03-01"), Price: decimal.NewFromInt(4000)}))

		uc := newQueryUseCase(st, ledger, fakes.NewCatalog(), []string{"LWSD2", "LWSD3"})

		report, err := uc.CurrentRanges(ctx, suite.GetDateTime(t, "2024-03-01"))
		require.NoError(t, err)
		require.Len(t, report.Ranges, 1)
		require.Equal(t, "LWSD2", report.Ranges[0].Grade)

		require.Len(t, report.Gaps, 1)
		require.Equal(t, "LWSD3", report.Gaps[0].Grade)
		require.Equal(t, "no price data", report.Gaps[0].Reason)
		require.ErrorIs(t, report.Gaps[0].Err, apperrors.ErrNoDynamicData)
		require.False(t, report.Gaps[0].Retryable())
		require.Equal(t, int64(1), uc.Gaps())
	})

	t.Run("should isolate failed and stalled grades", func(t *testing.T) {
		ctx, st := suite.New(t)

		ledger := fakes.NewLedger()
		for _, grade := range []string{"LWSD1", "LWSD2", "LWSD3"} {
			require.NoError(t, ledger.Upsert(ctx, &model.ClosingPrice{Grade: grade, Date: suite.GetDateTime(t, "2024-03-01"), Price: decimal.NewFromInt(4000)}))
		}
		ledger.FailGrade("LWSD1", errors.New("connection reset"))
		ledger.StallGrade("LWSD2")

		uc := newQueryUseCase(st, ledger, fakes.NewCatalog(), []string{"LWSD1", "LWSD2", "LWSD3"})

		report, err := uc.CurrentRanges(ctx, suite.GetDateTime(t, "2024-03-01"))
		require.NoError(t, err)
		require.Len(t, report.Ranges, 1)
		require.Equal(t, "LWSD3", report.Ranges[0].Grade)

		require.Len(t, report.Gaps, 2)
		for _, gap := range report.Gaps {
			require.ErrorIs(t, gap.Err, apperrors.ErrStoreUnavailable, gap.Grade)
			require.True(t, gap.Retryable())
		}
		require.Equal(t, "LWSD1", report.Gaps[0].Grade)
		require.Equal(t, "LWSD2", report.Gaps[1].Grade)
	})

	t.Run("should reflect a new closing price immediately", func(t *testing.T) {
		ctx, st := suite.New(t)

		ledger := fakes.NewLedger()
		uc := newQueryUseCase(st, ledger, fakes.NewCatalog(), []string{"LWBP1"})
		asOf := suite.GetDateTime(t, "2024-04-01")

		require.NoError(t, ledger.Upsert(ctx, &model.ClosingPrice{Grade: "LWBP1", Date: asOf, Price: decimal.NewFromInt(1000)}))
		require.NoError(t, ledger.Upsert(ctx, &model.ClosingPrice{Grade: "LWBP1", Date: asOf, Price: decimal.NewFromInt(1050)}))

		report, err := uc.CurrentRanges(ctx, asOf)
		require.NoError(t, err)
		require.Len(t, report.Ranges, 1)
		require.Equal(t, "1050", report.Ranges[0].Dynamic.BasePrice.String())
		require.Equal(t, 1, ledger.Count("LWBP1"))
	})

	t.Run("should group ranges by category", func(t *testing.T) {
		ctx, st := suite.New(t)

		ledger := fakes.NewLedger()
		for _, grade := range []string{"LUBPAA1", "LWSD1", "LWSD2"} {
			require.NoError(t, ledger.Upsert(ctx, &model.ClosingPrice{Grade: grade, Date: suite.GetDateTime(t, "2024-03-01"), Price: decimal.NewFromInt(4000)}))
		}

		uc := newQueryUseCase(st, ledger, fakes.NewCatalog(), []string{"LWSD2", "LUBPAA1", "LWSD1"})

		report, err := uc.CurrentRanges(ctx, suite.GetDateTime(t, "2024-03-01"))
		require.NoError(t, err)

		groups := report.ByCategory()
		require.Len(t, groups, 2)
		require.Len(t, groups[model.CategoryLUBPAA], 1)
		require.Equal(t, "LWSD2", groups[model.CategoryLWSD][0].Grade)
		require.Equal(t, "LWSD1", groups[model.CategoryLWSD][1].Grade)
	})
}

func Test_QueryRangesUseCase_CurrentRange(t *testing.T) {
	t.Run("should propagate the error kind of a single grade", func(t *testing.T) {
		ctx, st := suite.New(t)

		ledger := fakes.NewLedger()
		ledger.FailGrade("LWSD1", errors.New("boom"))

		uc := newQueryUseCase(st, ledger, fakes.NewCatalog(), nil)
		asOf := suite.GetDateTime(t, "2024-03-01")

		_, err := uc.CurrentRange(ctx, "LWSD1", asOf)
		require.ErrorIs(t, err, apperrors.ErrStoreUnavailable)

		_, err = uc.CurrentRange(ctx, "LWSD4", asOf)
		require.ErrorIs(t, err, apperrors.ErrNoDynamicData)

		_, err = uc.CurrentRange(ctx, " ", asOf)
		require.ErrorIs(t, err, apperrors.ErrUnknownGrade)
	})

	t.Run("should reject unknown grades in strict mode", func(t *testing.T) {
		ctx, st := suite.New(t)

		ledger := fakes.NewLedger()
		engine := pricerange.NewEngine(st.Logger, ledger, pricerange.DayCountCalendar)
		uc := usecases.NewQueryRangesUseCase(st.Logger, engine, fakes.NewCatalog(), grades.NewSet(nil, true), usecases.QueryConfig{})

		_, err := uc.CurrentRange(ctx, "ROBUSTA1", suite.GetDateTime(t, "2024-03-01"))
		require.ErrorIs(t, err, apperrors.ErrUnknownGrade)
	})

	t.Run("should normalize the grade code", func(t *testing.T) {
		ctx, st := suite.New(t)

		ledger := fakes.NewLedger()
		require.NoError(t, ledger.Upsert(ctx, &model.ClosingPrice{Grade: "LWSD2", Date: suite.GetDateTime(t, "2024-03-01"), Price: decimal.NewFromInt(4000)}))

		uc := newQueryUseCase(st, ledger, fakes.NewCatalog(), nil)

		r, err := uc.CurrentRange(ctx, " lwsd2 ", suite.GetDateTime(t, "2024-03-12"))
		require.NoError(t, err)
		require.Equal(t, "LWSD2", r.Grade)
		require.Equal(t, 11, r.Dynamic.DaysWithoutSales)
		require.Equal(t, model.TierCritical, r.Dynamic.Tier)
	})
}
