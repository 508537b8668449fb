package cmd

import (
	"fmt"
	"time"

	"coffeerange/internal/apperrors"
)

const dateLayout = "2006-01-02"

// parseDate reads a YYYY-MM-DD flag value in the configured timezone. Empty means today.
func parseDate(value string) (time.Time, error) {
	loc := cnf.Timezone.Location()
	if value == "" {
		return time.Now().In(loc), nil
	}

	date, err := time.ParseInLocation(dateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %w", apperrors.ErrInvalidDate, value, err)
	}
	return date, nil
}
