package ecx

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"
)

// ParseClosingPrices reads the closing price table of the exchange board.
// Rows look like: <tr><td>Mar 1, 2024</td><td>LWSD2</td><td>...</td><td>4,000.00</td></tr>,
// where the closing price is the last column. Rows that cannot be read are skipped.
func ParseClosingPrices(r io.Reader) ([]ClosingPrice, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var prices []ClosingPrice

	doc.Find("table tbody tr").Each(func(_ int, tr *goquery.Selection) {
		tds := tr.Find("td")
		if tds.Length() < 3 {
			return
		}

		date, err := dateparse.ParseIn(strings.TrimSpace(tds.Eq(0).Text()), time.UTC)
		if err != nil {
			return
		}

		symbol := strings.ToUpper(strings.TrimSpace(tds.Eq(1).Text()))
		if symbol == "" {
			return
		}

		price, err := decimal.NewFromString(cleanNumber(tds.Last().Text()))
		if err != nil || !price.IsPositive() {
			return
		}

		prices = append(prices, ClosingPrice{
			Symbol: symbol,
			Date:   time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
			Price:  price,
		})
	})

	sort.SliceStable(prices, func(i, j int) bool {
		if prices[i].Date.Equal(prices[j].Date) {
			return prices[i].Symbol < prices[j].Symbol
		}
		return prices[i].Date.Before(prices[j].Date)
	})

	return prices, nil
}

func cleanNumber(s string) string {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	return strings.TrimSpace(s)
}
