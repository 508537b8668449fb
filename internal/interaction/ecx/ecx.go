package ecx

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

type Interaction struct {
	logger  *slog.Logger
	client  *http.Client
	baseURL string
}

// NewInteraction creates a client of the exchange board published at baseURL.
func NewInteraction(logger *slog.Logger, client *http.Client, baseURL string) *Interaction {
	return &Interaction{
		logger:  logger.With("component", "ecx"),
		client:  client,
		baseURL: baseURL,
	}
}

// GetClosingPrices returns the closing prices published for the given trade date.
func (that *Interaction) GetClosingPrices(ctx context.Context, date time.Time) ([]ClosingPrice, error) {
	target, err := url.Parse(that.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	query := target.Query()
	query.Set("date", date.Format(time.DateOnly))
	target.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := that.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status code: %d", resp.StatusCode)
	}

	prices, err := ParseClosingPrices(resp.Body)
	if err != nil {
		return nil, err
	}

	that.logger.Debug("fetched closing prices", "date", date.Format(time.DateOnly), "count", len(prices))
	return prices, nil
}
