package fakes

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"coffeerange/internal/apperrors"
	"coffeerange/internal/model"
)

// Ledger is an in-memory closing price ledger. One row per (grade, date), last write wins.
type Ledger struct {
	mu       sync.RWMutex
	rows     map[string]map[time.Time]*model.ClosingPrice
	nextID   int64
	failures map[string]error
	stalled  map[string]struct{}
}

func NewLedger() *Ledger {
	return &Ledger{
		rows:     make(map[string]map[time.Time]*model.ClosingPrice),
		failures: make(map[string]error),
		stalled:  make(map[string]struct{}),
	}
}

// FailGrade makes every read of grade return err wrapped as ErrStoreUnavailable.
func (that *Ledger) FailGrade(grade string, err error) {
	that.mu.Lock()
	defer that.mu.Unlock()
	that.failures[grade] = err
}

// StallGrade makes reads of grade block until the context is done.
func (that *Ledger) StallGrade(grade string) {
	that.mu.Lock()
	defer that.mu.Unlock()
	that.stalled[grade] = struct{}{}
}

func (that *Ledger) Upsert(_ context.Context, price *model.ClosingPrice) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	date := dateOf(price.Date)
	byDate, ok := that.rows[price.Grade]
	if !ok {
		byDate = make(map[time.Time]*model.ClosingPrice)
		that.rows[price.Grade] = byDate
	}

	stored := *price
	stored.Date = date
	if existing, ok := byDate[date]; ok {
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
	} else {
		that.nextID++
		stored.ID = that.nextID
		stored.CreatedAt = time.Now()
	}
	stored.UpdatedAt = time.Now()
	byDate[date] = &stored

	price.ID = stored.ID
	return nil
}

func (that *Ledger) MostRecentBefore(ctx context.Context, grade string, asOf time.Time) (*model.ClosingPrice, error) {
	that.mu.RLock()
	_, stalled := that.stalled[grade]
	failure := that.failures[grade]
	that.mu.RUnlock()

	if stalled {
		<-ctx.Done()
		return nil, fmt.Errorf("read %s: %w: %w", grade, apperrors.ErrStoreUnavailable, ctx.Err())
	}
	if failure != nil {
		return nil, fmt.Errorf("read %s: %w: %w", grade, apperrors.ErrStoreUnavailable, failure)
	}

	that.mu.RLock()
	defer that.mu.RUnlock()

	var found *model.ClosingPrice
	asOf = dateOf(asOf)
	for date, row := range that.rows[grade] {
		if date.After(asOf) {
			continue
		}
		if found == nil || date.After(found.Date) {
			found = row
		}
	}

	if found == nil {
		return nil, apperrors.ErrClosingPriceNotFound
	}

	out := *found
	return &out, nil
}

func (that *Ledger) EntriesOn(_ context.Context, date time.Time) ([]*model.ClosingPrice, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	date = dateOf(date)
	var out []*model.ClosingPrice
	for _, byDate := range that.rows {
		if row, ok := byDate[date]; ok {
			cp := *row
			out = append(out, &cp)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Grade < out[j].Grade })
	return out, nil
}

// Count returns the number of rows stored for a grade.
func (that *Ledger) Count(grade string) int {
	that.mu.RLock()
	defer that.mu.RUnlock()
	return len(that.rows[grade])
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
