package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"coffeerange/internal/model"
)

type SnapshotPublisher interface {
	PublishRangesSnapshot(ctx context.Context, report *RangeReport) error
}

type ReportQuerier interface {
	CurrentRanges(ctx context.Context, asOf time.Time) (*RangeReport, error)
}

// PublishRangesUseCase publishes the daily ranges and reports the grades in the critical tier.
type PublishRangesUseCase struct {
	logger    *slog.Logger
	ranges    ReportQuerier
	publisher SnapshotPublisher
}

// NewPublishRangesUseCase creates the use case. publisher may be nil, then only the report is logged.
func NewPublishRangesUseCase(logger *slog.Logger, ranges ReportQuerier, publisher SnapshotPublisher) *PublishRangesUseCase {
	return &PublishRangesUseCase{logger: logger.With("component", "publish_ranges"), ranges: ranges, publisher: publisher}
}

// Publish returns the grades found in the critical tier.
func (that *PublishRangesUseCase) Publish(ctx context.Context, asOf time.Time) ([]string, error) {
	log := that.logger.With("method", "Publish", "as_of", asOf.Format(time.DateOnly))

	report, err := that.ranges.CurrentRanges(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("current ranges: %w", err)
	}

	var critical []string
	for _, r := range report.Ranges {
		if r.Dynamic != nil && r.Dynamic.Tier == model.TierCritical {
			critical = append(critical, r.Grade)
		}
	}

	if len(critical) > 0 {
		log.Warn("grades without sales for too long", "grades", critical)
	}

	if that.publisher != nil {
		if err = that.publisher.PublishRangesSnapshot(ctx, report); err != nil {
			return critical, fmt.Errorf("publish ranges snapshot: %w", err)
		}
	}

	log.Info("ranges published", "ranges", len(report.Ranges), "gaps", len(report.Gaps), "critical", len(critical))
	return critical, nil
}

// PublishToday is the scheduled job form of Publish.
func (that *PublishRangesUseCase) PublishToday(ctx context.Context, today time.Time) {
	if _, err := that.Publish(ctx, today); err != nil {
		that.logger.Error("failed to publish ranges", "method", "PublishToday", "error", err)
	}
}
