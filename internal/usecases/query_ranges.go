package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"coffeerange/internal/apperrors"
	"coffeerange/internal/grades"
	"coffeerange/internal/model"
)

const (
	DefaultParallelLookups = 4
	DefaultLookupTimeout   = 5 * time.Second
)

type RangeEngine interface {
	Range(ctx context.Context, grade string, asOf time.Time) (*model.DerivedRange, error)
}

type Catalog interface {
	LookupFixed(ctx context.Context, grade string) (*model.GradeBand, error)
}

// RangeSource tells whether a band was derived from closing prices or taken from the catalog.
type RangeSource string

const (
	SourceDynamic RangeSource = "dynamic"
	SourceFixed   RangeSource = "fixed"
)

// GradeRange is the band valid for a grade. Exactly one of Dynamic and Fixed is set.
type GradeRange struct {
	Grade   string              `json:"grade"`
	Source  RangeSource         `json:"source"`
	Dynamic *model.DerivedRange `json:"dynamic,omitempty"`
	Fixed   *model.GradeBand    `json:"fixed,omitempty"`
}

func (r *GradeRange) Bounds() (decimal.Decimal, decimal.Decimal) {
	if r.Dynamic != nil {
		return r.Dynamic.LowerBound, r.Dynamic.UpperBound
	}
	return r.Fixed.LowerBound, r.Fixed.UpperBound
}

// RangeGap annotates a grade left out of a batch.
type RangeGap struct {
	Grade  string `json:"grade"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

// Retryable reports whether the gap comes from a store failure rather than missing data.
func (g *RangeGap) Retryable() bool {
	return errors.Is(g.Err, apperrors.ErrStoreUnavailable)
}

type RangeReport struct {
	AsOf   time.Time     `json:"as_of"`
	Ranges []*GradeRange `json:"ranges"`
	Gaps   []*RangeGap   `json:"gaps"`
}

// ByCategory groups the ranges by grade category, keeping the report order inside each group.
func (r *RangeReport) ByCategory() map[model.Category][]*GradeRange {
	out := make(map[model.Category][]*GradeRange)
	for _, gr := range r.Ranges {
		c := model.CategoryOf(gr.Grade)
		out[c] = append(out[c], gr)
	}
	return out
}

type QueryConfig struct {
	ParallelLookups int
	LookupTimeout   time.Duration
}

type QueryRangesUseCase struct {
	logger  *slog.Logger
	engine  RangeEngine
	catalog Catalog
	grades  *grades.Set
	config  QueryConfig
	gaps    *atomic.Int64
}

func NewQueryRangesUseCase(logger *slog.Logger, engine RangeEngine, catalog Catalog, set *grades.Set, config QueryConfig) *QueryRangesUseCase {
	if config.ParallelLookups <= 0 {
		config.ParallelLookups = DefaultParallelLookups
	}
	if config.LookupTimeout <= 0 {
		config.LookupTimeout = DefaultLookupTimeout
	}

	return &QueryRangesUseCase{
		logger:  logger.With("component", "query_ranges"),
		engine:  engine,
		catalog: catalog,
		grades:  set,
		config:  config,
		gaps:    atomic.NewInt64(0),
	}
}

// Gaps returns how many grades were left out of batch reports since start.
func (that *QueryRangesUseCase) Gaps() int64 {
	return that.gaps.Load()
}

// Grades returns the configured grade list.
func (that *QueryRangesUseCase) Grades() []string {
	return that.grades.List()
}

// CurrentRanges returns the range of every configured grade as of asOf.
func (that *QueryRangesUseCase) CurrentRanges(ctx context.Context, asOf time.Time) (*RangeReport, error) {
	return that.CurrentRangesFor(ctx, that.grades.List(), asOf)
}

// CurrentRangesFor returns the ranges of the given grades in the given order. Grades
// without any band, and grades whose lookup failed, are reported as gaps. Only the
// cancellation of ctx fails the whole call.
func (that *QueryRangesUseCase) CurrentRangesFor(ctx context.Context, list []string, asOf time.Time) (*RangeReport, error) {
	log := that.logger.With("method", "CurrentRangesFor", "as_of", asOf.Format(time.DateOnly))

	results := make([]*GradeRange, len(list))
	failures := make([]error, len(list))

	g := errgroup.Group{}
	g.SetLimit(that.config.ParallelLookups)

	for i, grade := range list {
		i, grade := i, grade
		g.Go(func() error {
			results[i], failures[i] = that.CurrentRange(ctx, grade, asOf)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("current ranges: %w", err)
	}

	report := &RangeReport{AsOf: asOf, Ranges: make([]*GradeRange, 0, len(list))}
	for i, grade := range list {
		err := failures[i]
		if err == nil {
			report.Ranges = append(report.Ranges, results[i])
			continue
		}

		gap := &RangeGap{Grade: grade, Reason: gapReason(err), Err: err}
		report.Gaps = append(report.Gaps, gap)
		that.gaps.Inc()

		if gap.Retryable() {
			log.Error("failed to look up range", "grade", grade, "error", err)
		} else {
			log.Warn("grade omitted from ranges", "grade", grade, "reason", gap.Reason)
		}
	}

	return report, nil
}

// CurrentRange returns the dynamic range of a grade, falling back to its fixed band.
// It fails with ErrNoDynamicData when neither exists.
func (that *QueryRangesUseCase) CurrentRange(ctx context.Context, grade string, asOf time.Time) (*GradeRange, error) {
	grade, err := that.grades.Check(grade)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, that.config.LookupTimeout)
	defer cancel()

	dynamic, err := that.engine.Range(ctx, grade, asOf)
	if err == nil {
		return &GradeRange{Grade: grade, Source: SourceDynamic, Dynamic: dynamic}, nil
	}
	if !errors.Is(err, apperrors.ErrNoDynamicData) {
		return nil, storeError(ctx, grade, err)
	}

	fixed, err := that.catalog.LookupFixed(ctx, grade)
	if errors.Is(err, apperrors.ErrFixedBandNotFound) {
		return nil, fmt.Errorf("grade %s has no closing price and no fixed band: %w", grade, apperrors.ErrNoDynamicData)
	}
	if err != nil {
		return nil, storeError(ctx, grade, fmt.Errorf("lookup fixed band: %w", err))
	}

	return &GradeRange{Grade: grade, Source: SourceFixed, Fixed: fixed}, nil
}

// storeError makes a lookup that ran out of time retryable.
func storeError(ctx context.Context, grade string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, apperrors.ErrStoreUnavailable) {
		return fmt.Errorf("lookup %s timed out: %w: %w", grade, apperrors.ErrStoreUnavailable, err)
	}
	return err
}

func gapReason(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrNoDynamicData):
		return "no price data"
	case errors.Is(err, apperrors.ErrUnknownGrade):
		return "unknown grade"
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		return "store unavailable"
	default:
		return err.Error()
	}
}
