package telegram_test

import (
	"testing"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"coffeerange/internal/grades"
	"coffeerange/internal/interaction/telegram"
	"coffeerange/internal/model"
	"coffeerange/internal/pricerange"
	"coffeerange/internal/usecases"
	"coffeerange/locales"
	"coffeerange/testing/fakes"
	"coffeerange/testing/suite"
)

func newUpdate(userID int64, languageCode string, text string) *models.Update {
	return &models.Update{Message: &models.Message{
		From: &models.User{ID: userID, LanguageCode: languageCode},
		Chat: models.Chat{ID: userID},
		Text: text,
	}}
}

func newCallbackQuery(userID int64, languageCode string, data string) *models.Update {
	return &models.Update{CallbackQuery: &models.CallbackQuery{
		ID:   "callback-id",
		From: models.User{ID: userID, LanguageCode: languageCode},
		Data: data,
		Message: models.MaybeInaccessibleMessage{
			Message: &models.Message{ID: 7, Chat: models.Chat{ID: userID}},
		},
	}}
}

var fixedLWYC1 = &model.GradeBand{Grade: "LWYC1", LowerBound: decimal.NewFromInt(5000), UpperBound: decimal.NewFromInt(5500)}

func newInteraction(t *testing.T, st *suite.Suite, ledger *fakes.Ledger, today string, bands ...*model.GradeBand) (*telegram.Interaction, *suite.TelegramClient) {
	bundle, err := locales.GetBundle(st.BaseDir)
	require.NoError(t, err)

	catalog := fakes.NewCatalog(bands...)
	engine := pricerange.NewEngine(st.Logger, ledger, pricerange.DayCountCalendar)
	query := usecases.NewQueryRangesUseCase(st.Logger, engine, catalog, grades.NewSet([]string{"LWSD2", "LWSD3", "LWYC1"}, true), usecases.QueryConfig{})

	client := suite.NewTelegramClient(t)
	interaction := telegram.NewInteraction(st.Logger, "token", client, bundle, query, time.UTC).
		WithClock(func() time.Time { return suite.GetDateTime(t, today).Add(10 * time.Hour) })

	return interaction, client
}

func Test_HandlerRanges(t *testing.T) {
	ctx, st := suite.New(t)

	ledger := fakes.NewLedger()
	require.NoError(t, ledger.Upsert(ctx, &model.ClosingPrice{Grade: "LWSD2", Date: suite.GetDateTime(t, "2024-03-01"), Price: decimal.NewFromInt(4000)}))

	t.Run("should send today's ranges - en", func(t *testing.T) {
		interaction, client := newInteraction(t, st, ledger, "2024-03-11", fixedLWYC1)

		interaction.TgBot.ProcessUpdate(ctx, newUpdate(1, "en", "/ranges"))

		req := client.Next("sendMessage")
		require.Equal(t, "1", req.Form["chat_id"])
		require.Equal(t, "<b>Price ranges on 2024-03-11</b>\n"+
			"\n<b>Semi-Dry Arabica</b>\n<pre>\n"+
			"Grade    Low        High       Status\n"+
			"LWSD2    3400.00    4600.00    🟡 10d\n"+
			"</pre>"+
			"\n<b>Yellow Cherry</b>\n<pre>\n"+
			"Grade    Low        High       Status\n"+
			"LWYC1    5000.00    5500.00    ⚪ Fixed\n"+
			"</pre>"+
			"\n<i>No data: LWSD3</i>", req.Form["text"])
	})

	t.Run("should send today's ranges - am", func(t *testing.T) {
		interaction, client := newInteraction(t, st, ledger, "2024-03-01")

		interaction.TgBot.ProcessUpdate(ctx, newUpdate(2, "am", "/ranges"))

		req := client.Next("sendMessage")
		require.Equal(t, "2", req.Form["chat_id"])
		require.Contains(t, req.Form["text"], "የዋጋ ክልሎች በ 2024-03-01")
		require.Contains(t, req.Form["text"], "LWSD2    3600.00    4400.00    🟢 ወቅታዊ")
	})

	t.Run("should tell when nothing is available", func(t *testing.T) {
		interaction, client := newInteraction(t, st, fakes.NewLedger(), "2024-03-01")

		interaction.TgBot.ProcessUpdate(ctx, newUpdate(3, "en", "/ranges"))

		req := client.Next("sendMessage")
		require.Equal(t, "No price ranges are available on 2024-03-01.", req.Form["text"])
	})
}

func Test_HandlerHistory(t *testing.T) {
	ctx, st := suite.New(t)

	ledger := fakes.NewLedger()
	require.NoError(t, ledger.Upsert(ctx, &model.ClosingPrice{Grade: "LWSD2", Date: suite.GetDateTime(t, "2024-03-01"), Price: decimal.NewFromInt(4000)}))

	interaction, client := newInteraction(t, st, ledger, "2024-03-20", fixedLWYC1)

	interaction.TgBot.ProcessUpdate(ctx, newUpdate(1, "en", "/history"))

	req := client.Next("sendMessage")
	require.Equal(t, "Choose a date: March 2024", req.Form["text"])
	require.Contains(t, req.Form["reply_markup"], "cal:day:2024-03-12")
	require.NotContains(t, req.Form["reply_markup"], "cal:day:2024-03-21")
	require.Contains(t, req.Form["reply_markup"], "cal:month:2024-02")

	interaction.TgBot.ProcessUpdate(ctx, newCallbackQuery(1, "en", "cal:day:2024-03-12"))

	req = client.Next("editMessageText")
	require.Equal(t, "7", req.Form["message_id"])
	require.Contains(t, req.Form["text"], "Price ranges on 2024-03-12")
	require.Contains(t, req.Form["text"], "LWSD2    3400.00    4600.00    🔴 11d")
}
