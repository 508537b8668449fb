// Package ledgertest holds the behaviour every closing price ledger must share.
package ledgertest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"coffeerange/internal/apperrors"
	"coffeerange/internal/model"
	"coffeerange/testing/suite"
)

type Ledger interface {
	Upsert(ctx context.Context, price *model.ClosingPrice) error
	MostRecentBefore(ctx context.Context, grade string, asOf time.Time) (*model.ClosingPrice, error)
	EntriesOn(ctx context.Context, date time.Time) ([]*model.ClosingPrice, error)
}

// Run checks ledger against the ledger contract. Each subtest uses its own grades,
// so one ledger instance can serve all of them.
func Run(t *testing.T, ctx context.Context, ledger Ledger) {
	t.Run("upsert then most recent before returns the exact price", func(t *testing.T) {
		operator := uuid.New()
		date := suite.GetDateTime(t, "2024-03-01")

		require.NoError(t, ledger.Upsert(ctx, &model.ClosingPrice{Grade: "LWSD2", Date: date, Price: decimal.RequireFromString("4000.25"), RecordedBy: operator}))

		found, err := ledger.MostRecentBefore(ctx, "LWSD2", date)
		require.NoError(t, err)
		require.Equal(t, "LWSD2", found.Grade)
		require.True(t, decimal.RequireFromString("4000.25").Equal(found.Price), found.Price.String())
		require.True(t, date.Equal(found.Date), found.Date.String())
		require.Equal(t, operator, found.RecordedBy)
	})

	t.Run("second write to the same grade and date wins and keeps one row", func(t *testing.T) {
		date := suite.GetDateTime(t, "2024-04-01")

		require.NoError(t, ledger.Upsert(ctx, &model.ClosingPrice{Grade: "LWBP1", Date: date, Price: decimal.NewFromInt(1000), RecordedBy: uuid.New()}))
		require.NoError(t, ledger.Upsert(ctx, &model.ClosingPrice{Grade: "LWBP1", Date: date, Price: decimal.NewFromInt(1050), RecordedBy: uuid.New()}))

		found, err := ledger.MostRecentBefore(ctx, "LWBP1", date)
		require.NoError(t, err)
		require.True(t, decimal.NewFromInt(1050).Equal(found.Price), found.Price.String())

		entries, err := ledger.EntriesOn(ctx, date)
		require.NoError(t, err)

		var rows int
		for _, e := range entries {
			if e.Grade == "LWBP1" {
				rows++
			}
		}
		require.Equal(t, 1, rows)
	})

	t.Run("most recent before picks the greatest date not after asOf", func(t *testing.T) {
		for i, day := range []string{"2024-05-01", "2024-05-03", "2024-05-10"} {
			require.NoError(t, ledger.Upsert(ctx, &model.ClosingPrice{
				Grade: "LWYC3",
				Date:  suite.GetDateTime(t, day),
				Price: decimal.NewFromInt(int64(2000 + i*10)),
			}))
		}

		found, err := ledger.MostRecentBefore(ctx, "LWYC3", suite.GetDateTime(t, "2024-05-09"))
		require.NoError(t, err)
		require.True(t, suite.GetDateTime(t, "2024-05-03").Equal(found.Date))
		require.True(t, decimal.NewFromInt(2010).Equal(found.Price))

		found, err = ledger.MostRecentBefore(ctx, "LWYC3", suite.GetDateTime(t, "2024-05-10"))
		require.NoError(t, err)
		require.True(t, suite.GetDateTime(t, "2024-05-10").Equal(found.Date))

		_, err = ledger.MostRecentBefore(ctx, "LWYC3", suite.GetDateTime(t, "2024-04-30"))
		require.ErrorIs(t, err, apperrors.ErrClosingPriceNotFound)
	})

	t.Run("grade without history is not found", func(t *testing.T) {
		_, err := ledger.MostRecentBefore(ctx, "LUBPAA5", suite.GetDateTime(t, "2024-05-01"))
		require.ErrorIs(t, err, apperrors.ErrClosingPriceNotFound)
	})

	t.Run("entries on returns every grade of the date", func(t *testing.T) {
		date := suite.GetDateTime(t, "2024-06-03")
		for _, grade := range []string{"LUBPAA1", "LWSD4", "LWBP4"} {
			require.NoError(t, ledger.Upsert(ctx, &model.ClosingPrice{Grade: grade, Date: date, Price: decimal.NewFromInt(3000)}))
		}
		require.NoError(t, ledger.Upsert(ctx, &model.ClosingPrice{Grade: "LWSD4", Date: date.AddDate(0, 0, 1), Price: decimal.NewFromInt(3100)}))

		entries, err := ledger.EntriesOn(ctx, date)
		require.NoError(t, err)

		var gradesOnDay []string
		for _, e := range entries {
			gradesOnDay = append(gradesOnDay, e.Grade)
		}
		require.ElementsMatch(t, []string{"LUBPAA1", "LWSD4", "LWBP4"}, gradesOnDay)

		entries, err = ledger.EntriesOn(ctx, suite.GetDateTime(t, "1999-01-01"))
		require.NoError(t, err)
		require.Empty(t, entries)
	})
}
