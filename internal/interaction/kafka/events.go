package kafka

import (
	"time"

	"github.com/google/uuid"

	"coffeerange/internal/model"
	"coffeerange/internal/usecases"
)

const (
	EventClosingPriceRecorded  = "CLOSING_PRICE_RECORDED"
	EventClosingPriceSubmitted = "CLOSING_PRICE_SUBMITTED"
	EventRangesSnapshot        = "RANGES_SNAPSHOT"
)

// PriceEvent carries a closing price. Price and Date are strings to keep decimals exact
// and dates free of time zones, ex: {"grade":"LWSD2","date":"2024-03-01","price":"4000.00"}.
type PriceEvent struct {
	EventType  string    `json:"event_type"`
	Grade      string    `json:"grade"`
	Date       string    `json:"date"`
	Price      string    `json:"price"`
	RecordedBy uuid.UUID `json:"recorded_by"`
	Timestamp  time.Time `json:"timestamp"`
}

func newPriceEvent(eventType string, price *model.ClosingPrice) PriceEvent {
	return PriceEvent{
		EventType:  eventType,
		Grade:      price.Grade,
		Date:       price.Date.Format(time.DateOnly),
		Price:      price.Price.StringFixed(2),
		RecordedBy: price.RecordedBy,
		Timestamp:  time.Now(),
	}
}

// RangeEntry is one grade of a snapshot.
type RangeEntry struct {
	Grade            string `json:"grade"`
	Source           string `json:"source"`
	LowerBound       string `json:"lower_bound"`
	UpperBound       string `json:"upper_bound"`
	Tier             string `json:"tier,omitempty"`
	DaysWithoutSales int    `json:"days_without_sales"`
}

type SnapshotEvent struct {
	EventType string               `json:"event_type"`
	AsOf      string               `json:"as_of"`
	Ranges    []RangeEntry         `json:"ranges"`
	Gaps      []*usecases.RangeGap `json:"gaps"`
	Timestamp time.Time            `json:"timestamp"`
}

func newSnapshotEvent(report *usecases.RangeReport) SnapshotEvent {
	event := SnapshotEvent{
		EventType: EventRangesSnapshot,
		AsOf:      report.AsOf.Format(time.DateOnly),
		Ranges:    make([]RangeEntry, 0, len(report.Ranges)),
		Gaps:      report.Gaps,
		Timestamp: time.Now(),
	}

	for _, r := range report.Ranges {
		lower, upper := r.Bounds()
		entry := RangeEntry{
			Grade:      r.Grade,
			Source:     string(r.Source),
			LowerBound: lower.StringFixed(2),
			UpperBound: upper.StringFixed(2),
		}
		if r.Dynamic != nil {
			entry.Tier = string(r.Dynamic.Tier)
			entry.DaysWithoutSales = r.Dynamic.DaysWithoutSales
		}
		event.Ranges = append(event.Ranges, entry)
	}

	return event
}
