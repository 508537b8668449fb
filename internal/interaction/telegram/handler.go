package telegram

import (
	"context"
	"time"

	telegramBot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

func (that *Interaction) handlerStart(ctx context.Context, bot *telegramBot.Bot, update *models.Update) {
	log := that.logger.With("method", "handlerStart", "user_id", update.Message.From.ID, "language", update.Message.From.LanguageCode)

	if _, err := that.sendLocaledMessage(ctx, bot, update, "startWelcomeMessage"); err != nil {
		log.Error("failed to send message", "error", err)
		return
	}
}

func (that *Interaction) handlerHelp(ctx context.Context, bot *telegramBot.Bot, update *models.Update) {
	log := that.logger.With("method", "handlerHelp", "user_id", update.Message.From.ID)

	if _, err := that.sendLocaledMessage(ctx, bot, update, "helpMessage"); err != nil {
		log.Error("error sending message", "error", err)
		return
	}
}

func (that *Interaction) handlerRanges(ctx context.Context, bot *telegramBot.Bot, update *models.Update) {
	log := that.logger.With("method", "handlerRanges", "user_id", update.Message.From.ID)

	languageCode := update.Message.From.LanguageCode
	text, err := that.rangesText(ctx, languageCode, that.today())
	if err != nil {
		log.Error("failed to get ranges", "error", err)
		text, _ = that.renderLocaledMessage(languageCode, "rangesUnavailableMessage")
	}

	if _, err = bot.SendMessage(ctx, &telegramBot.SendMessageParams{ChatID: update.Message.Chat.ID, Text: text, ParseMode: models.ParseModeHTML}); err != nil {
		log.Error("error sending message", "error", err)
		return
	}
}

func (that *Interaction) handlerHistory(ctx context.Context, bot *telegramBot.Bot, update *models.Update) {
	log := that.logger.With("method", "handlerHistory", "user_id", update.Message.From.ID)

	today := that.today()
	if err := that.calendar.SendCalendar(ctx, bot, update.Message.From.LanguageCode, update.Message.Chat.ID, today.Add(-HistoryWindow), today); err != nil {
		log.Error("failed to send calendar", "error", err)
		return
	}
}

func (that *Interaction) handlerCalendar(ctx context.Context, bot *telegramBot.Bot, update *models.Update) {
	log := that.logger.With("method", "handlerCalendar", "user_id", update.CallbackQuery.From.ID)

	today := that.today()
	if err := that.calendar.HandleCallback(ctx, bot, update.CallbackQuery.From.LanguageCode, update, today.Add(-HistoryWindow), today); err != nil {
		log.Error("failed to handle calendar callback", "data", update.CallbackQuery.Data, "error", err)
		return
	}
}

// selectedDate replaces the calendar with the ranges as of the picked date.
func (that *Interaction) selectedDate(ctx context.Context, bot *telegramBot.Bot, languageCode string, chatID int64, messageID int, date time.Time) {
	log := that.logger.With("method", "selectedDate", "chat_id", chatID, "date", date.Format(time.DateOnly))

	text, err := that.rangesText(ctx, languageCode, date)
	if err != nil {
		log.Error("failed to get ranges", "error", err)
		text, _ = that.renderLocaledMessage(languageCode, "rangesUnavailableMessage")
	}

	if _, err = bot.EditMessageText(ctx, &telegramBot.EditMessageTextParams{ChatID: chatID, MessageID: messageID, Text: text, ParseMode: models.ParseModeHTML}); err != nil {
		log.Error("error editing message", "error", err)
		return
	}
}

func (that *Interaction) rangesText(ctx context.Context, languageCode string, asOf time.Time) (string, error) {
	report, err := that.ranges.CurrentRanges(ctx, asOf)
	if err != nil {
		return "", err
	}

	if len(report.Ranges) == 0 {
		return that.renderLocaledMessage(languageCode, "noRangesMessage", "Date", asOf.Format(time.DateOnly))
	}

	return that.RangesToString(languageCode, report), nil
}
