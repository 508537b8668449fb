package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	telegramBot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"coffeerange/internal/interaction/telegram/calendar"
	"coffeerange/internal/usecases"
)

var ErrWrongNumberOfArguments = fmt.Errorf("wrong number of arguments")

// HistoryWindow is how far back /history lets the user pick a date.
const HistoryWindow = 90 * 24 * time.Hour

type RangeQuerier interface {
	CurrentRanges(ctx context.Context, asOf time.Time) (*usecases.RangeReport, error)
}

type Interaction struct {
	logger   *slog.Logger
	TgBot    *telegramBot.Bot
	bundle   *i18n.Bundle
	ranges   RangeQuerier
	calendar *calendar.Calendar
	loc      *time.Location
	now      func() time.Time
}

func NewInteraction(logger *slog.Logger, token string, client telegramBot.HttpClient, bundle *i18n.Bundle, ranges RangeQuerier, loc *time.Location) *Interaction {
	cnt := &Interaction{
		logger: logger.With("component", "telegram"),
		bundle: bundle,
		ranges: ranges,
		loc:    loc,
		now:    time.Now,
	}
	cnt.calendar = calendar.New(nil, cnt.selectedDate, bundle)

	opts := []telegramBot.Option{
		telegramBot.WithHTTPClient(time.Minute, client),
		telegramBot.WithSkipGetMe(),
		telegramBot.WithDefaultHandler(cnt.handler),
	}

	b, _ := telegramBot.New(token, opts...)
	b.RegisterHandler(telegramBot.HandlerTypeMessageText, "/start", telegramBot.MatchTypeExact, cnt.handlerStart)
	b.RegisterHandler(telegramBot.HandlerTypeMessageText, "/help", telegramBot.MatchTypeExact, cnt.handlerHelp)
	b.RegisterHandler(telegramBot.HandlerTypeMessageText, "/ranges", telegramBot.MatchTypeExact, cnt.handlerRanges)
	b.RegisterHandler(telegramBot.HandlerTypeMessageText, "/history", telegramBot.MatchTypeExact, cnt.handlerHistory)
	b.RegisterHandler(telegramBot.HandlerTypeCallbackQueryData, calendar.Prefix, telegramBot.MatchTypePrefix, cnt.handlerCalendar)

	cnt.TgBot = b
	return cnt
}

// WithClock replaces the clock used for "today".
func (that *Interaction) WithClock(now func() time.Time) *Interaction {
	that.now = now
	return that
}

func (that *Interaction) Start(ctx context.Context) {
	that.TgBot.Start(ctx)
}

func (that *Interaction) today() time.Time {
	return that.now().In(that.loc)
}

func (that *Interaction) handler(_ context.Context, _ *telegramBot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	that.logger.Debug("unhandled message", "user_id", update.Message.From.ID, "text", update.Message.Text)
}

func (that *Interaction) getLocalizer(languageCode string) *i18n.Localizer {
	if languageCode == "" {
		languageCode = "en"
	}

	return i18n.NewLocalizer(that.bundle, languageCode)
}

// renderLocaledMessage renders a localized message; args are key/value pairs of template data.
func (that *Interaction) renderLocaledMessage(languageCode string, messageID string, args ...string) (string, error) {
	if len(args)%2 != 0 {
		return "", ErrWrongNumberOfArguments
	}

	templateData := make(map[string]string, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		templateData[args[i]] = args[i+1]
	}

	text, err := that.getLocalizer(languageCode).Localize(&i18n.LocalizeConfig{MessageID: messageID, TemplateData: templateData})
	if err != nil {
		return "", fmt.Errorf("localize message: %w", err)
	}

	return text, nil
}

// sendLocaledMessage sends a localized message to the user.
func (that *Interaction) sendLocaledMessage(ctx context.Context, bot *telegramBot.Bot, update *models.Update, messageID string, args ...string) (*models.Message, error) {
	text, err := that.renderLocaledMessage(update.Message.From.LanguageCode, messageID, args...)
	if err != nil {
		return nil, fmt.Errorf("render localed message: %w", err)
	}

	msg, err := bot.SendMessage(ctx, &telegramBot.SendMessageParams{ChatID: update.Message.Chat.ID, Text: text})
	if err != nil {
		return nil, fmt.Errorf("send message to telegram user: %w", err)
	}

	return msg, nil
}
