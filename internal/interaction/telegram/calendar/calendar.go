// Package calendar renders an inline keyboard date picker limited to a date window.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tg "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/nicksnyder/go-i18n/v2/i18n"
)

const Prefix = "cal:"

const noop = Prefix + "noop"

var ErrInvalidCallback = errors.New("invalid calendar callback")

// SelectedDateCallback is called once a day button is pressed.
type SelectedDateCallback func(ctx context.Context, b *tg.Bot, languageCode string, chatID int64, messageID int, date time.Time)

type Calendar struct {
	disableDays          []time.Weekday
	selectedDateCallback SelectedDateCallback
	bundle               *i18n.Bundle
}

func New(disableDays []time.Weekday, selectedDateCallback SelectedDateCallback, bundle *i18n.Bundle) *Calendar {
	return &Calendar{disableDays: disableDays, selectedDateCallback: selectedDateCallback, bundle: bundle}
}

// SendCalendar sends the month of dateEnd. Earlier months are reached with the navigation row.
func (c *Calendar) SendCalendar(ctx context.Context, b *tg.Bot, languageCode string, chatID int64, dateStart, dateEnd time.Time) error {
	text, markup, err := c.MonthView(languageCode, dateStart, dateEnd, dateEnd.Year(), dateEnd.Month())
	if err != nil {
		return err
	}

	if _, err = b.SendMessage(ctx, &tg.SendMessageParams{ChatID: chatID, Text: text, ReplyMarkup: markup}); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

// HandleCallback handles the data of a pressed button: "cal:month:2024-03" or "cal:day:2024-03-11".
func (c *Calendar) HandleCallback(ctx context.Context, b *tg.Bot, languageCode string, update *models.Update, dateStart, dateEnd time.Time) error {
	query := update.CallbackQuery
	defer func() {
		_, _ = b.AnswerCallbackQuery(ctx, &tg.AnswerCallbackQueryParams{CallbackQueryID: query.ID})
	}()

	action, arg, err := ParseCallback(query.Data)
	if err != nil {
		return err
	}

	if query.Message.Message == nil {
		return fmt.Errorf("callback without message: %w", ErrInvalidCallback)
	}
	chatID := query.Message.Message.Chat.ID
	messageID := query.Message.Message.ID

	switch action {
	case "month":
		month, err := time.Parse("2006-01", arg)
		if err != nil {
			return fmt.Errorf("parse month %q: %w", arg, ErrInvalidCallback)
		}

		text, markup, err := c.MonthView(languageCode, dateStart, dateEnd, month.Year(), month.Month())
		if err != nil {
			return err
		}

		if _, err = b.EditMessageText(ctx, &tg.EditMessageTextParams{ChatID: chatID, MessageID: messageID, Text: text, ReplyMarkup: markup}); err != nil {
			return fmt.Errorf("edit message: %w", err)
		}

	case "day":
		selected, err := time.Parse(time.DateOnly, arg)
		if err != nil {
			return fmt.Errorf("parse day %q: %w", arg, ErrInvalidCallback)
		}
		c.selectedDateCallback(ctx, b, languageCode, chatID, messageID, selected)
	}

	return nil
}

// ParseCallback splits callback data into action and argument. "cal:noop" has no argument.
func ParseCallback(data string) (string, string, error) {
	if !strings.HasPrefix(data, Prefix) {
		return "", "", ErrInvalidCallback
	}

	parts := strings.SplitN(strings.TrimPrefix(data, Prefix), ":", 2)
	if len(parts) == 1 {
		return parts[0], "", nil
	}

	return parts[0], parts[1], nil
}

// MonthView builds the text and keyboard of one month. Days outside [dateStart, dateEnd]
// and disabled weekdays are not selectable.
func (c *Calendar) MonthView(languageCode string, dateStart, dateEnd time.Time, year int, month time.Month) (string, *models.InlineKeyboardMarkup, error) {
	localizer := i18n.NewLocalizer(c.bundle, languageCode)

	monthName, _ := localizer.Localize(&i18n.LocalizeConfig{MessageID: "month." + month.String()[:3]})
	text, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    "chooseDay",
		TemplateData: map[string]string{"Month": monthName, "Year": fmt.Sprint(year)},
	})
	if err != nil {
		return "", nil, fmt.Errorf("localize message: %w", err)
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	start := dayOf(dateStart)
	end := dayOf(dateEnd)

	var rows [][]models.InlineKeyboardButton

	header := make([]models.InlineKeyboardButton, 0, 7)
	for _, d := range []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"} {
		txt, _ := localizer.Localize(&i18n.LocalizeConfig{MessageID: "day." + d})
		header = append(header, models.InlineKeyboardButton{Text: txt, CallbackData: noop})
	}
	rows = append(rows, header)

	// Monday first: Sunday is 7.
	offset := int(first.Weekday())
	if offset == 0 {
		offset = 7
	}

	var row []models.InlineKeyboardButton
	for i := 1; i < offset; i++ {
		row = append(row, models.InlineKeyboardButton{Text: " ", CallbackData: noop})
	}

	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		btn := models.InlineKeyboardButton{Text: fmt.Sprintf("%2d", d.Day()), CallbackData: Prefix + "day:" + d.Format(time.DateOnly)}
		if d.Before(start) || d.After(end) || c.disabled(d.Weekday()) {
			btn = models.InlineKeyboardButton{Text: "·", CallbackData: noop}
		}

		row = append(row, btn)
		if len(row) == 7 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		for len(row) < 7 {
			row = append(row, models.InlineKeyboardButton{Text: " ", CallbackData: noop})
		}
		rows = append(rows, row)
	}

	var nav []models.InlineKeyboardButton
	if prev := first.AddDate(0, 0, -1); !prev.Before(start) {
		nav = append(nav, models.InlineKeyboardButton{Text: "«", CallbackData: Prefix + "month:" + prev.Format("2006-01")})
	}
	if next := last.AddDate(0, 0, 1); !next.After(end) {
		nav = append(nav, models.InlineKeyboardButton{Text: "»", CallbackData: Prefix + "month:" + next.Format("2006-01")})
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}

	return text, &models.InlineKeyboardMarkup{InlineKeyboard: rows}, nil
}

func (c *Calendar) disabled(weekday time.Weekday) bool {
	for _, d := range c.disableDays {
		if d == weekday {
			return true
		}
	}
	return false
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
