package suite

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"coffeerange/internal/pricerange"
)

// GetDateTime returns the ledger date of a YYYY-MM-DD string.
// Example: GetDateTime(t, "2024-03-01")
func GetDateTime(t *testing.T, incomingDateTime string) time.Time {
	t.Helper()

	dateTime, err := time.Parse(time.DateOnly, incomingDateTime)
	if err != nil {
		t.Fatalf("could not parse date time: %v", err)
	}
	return pricerange.DateOf(dateTime)
}

// GetPrice returns the decimal price of a string as typed by an operator.
// Example: GetPrice(t, "4000.25")
func GetPrice(t *testing.T, incomingPrice string) decimal.Decimal {
	t.Helper()

	price, err := decimal.NewFromString(incomingPrice)
	if err != nil {
		t.Fatalf("could not parse price: %v", err)
	}
	return price
}

// DaysAfter returns the date n calendar days after a YYYY-MM-DD string.
// Example: DaysAfter(t, "2024-03-01", 10) is 2024-03-11.
func DaysAfter(t *testing.T, incomingDateTime string, n int) time.Time {
	t.Helper()

	return GetDateTime(t, incomingDateTime).AddDate(0, 0, n)
}
