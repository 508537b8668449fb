package redisprices

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"coffeerange/internal/apperrors"
	"coffeerange/internal/model"
)

// Layout:
//
//	<prefix>:dates:<grade>  sorted set of dates (member YYYY-MM-DD, score days since epoch)
//	<prefix>:rows:<grade>   hash date -> row JSON
//	<prefix>:day:<date>     set of grades priced on that date
const DefaultPrefix = "closing"

type row struct {
	Price      decimal.Decimal `json:"price"`
	RecordedBy uuid.UUID       `json:"recorded_by"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Repository is the closing price ledger backed by Redis.
type Repository struct {
	client *redis.Client
	prefix string
}

func NewRepository(client *redis.Client, prefix string) *Repository {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Repository{client: client, prefix: prefix}
}

func (that *Repository) Upsert(ctx context.Context, price *model.ClosingPrice) error {
	date := dateOf(price.Date)
	member := date.Format(time.DateOnly)
	now := time.Now().UTC()

	createdAt := now
	existing, err := that.client.HGet(ctx, that.rowsKey(price.Grade), member).Result()
	switch {
	case errors.Is(err, redis.Nil):
	case err != nil:
		return fmt.Errorf("read closing price from redis: %w: %w", apperrors.ErrStoreUnavailable, err)
	default:
		var old row
		if err = json.Unmarshal([]byte(existing), &old); err == nil {
			createdAt = old.CreatedAt
		}
	}

	data, err := json.Marshal(row{Price: price.Price, RecordedBy: price.RecordedBy, CreatedAt: createdAt, UpdatedAt: now})
	if err != nil {
		return fmt.Errorf("marshal closing price: %w", err)
	}

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, that.datesKey(price.Grade), redis.Z{Score: score(date), Member: member})
		pipe.HSet(ctx, that.rowsKey(price.Grade), member, data)
		pipe.SAdd(ctx, that.dayKey(date), price.Grade)
		return nil
	})
	if err != nil {
		return fmt.Errorf("upsert closing price in redis: %w: %w", apperrors.ErrStoreUnavailable, err)
	}

	price.Date = date
	price.CreatedAt = createdAt
	price.UpdatedAt = now
	return nil
}

func (that *Repository) MostRecentBefore(ctx context.Context, grade string, asOf time.Time) (*model.ClosingPrice, error) {
	dates, err := that.client.ZRevRangeByScore(ctx, that.datesKey(grade), &redis.ZRangeBy{
		Max:   strconv.FormatFloat(score(dateOf(asOf)), 'f', 0, 64),
		Min:   "-inf",
		Count: 1,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("fetch most recent closing date from redis: %w: %w", apperrors.ErrStoreUnavailable, err)
	}

	if len(dates) == 0 {
		return nil, apperrors.ErrClosingPriceNotFound
	}

	return that.get(ctx, grade, dates[0])
}

func (that *Repository) EntriesOn(ctx context.Context, date time.Time) ([]*model.ClosingPrice, error) {
	date = dateOf(date)

	gradesOnDay, err := that.client.SMembers(ctx, that.dayKey(date)).Result()
	if err != nil {
		return nil, fmt.Errorf("fetch grades of day from redis: %w: %w", apperrors.ErrStoreUnavailable, err)
	}

	sort.Strings(gradesOnDay)

	entries := make([]*model.ClosingPrice, 0, len(gradesOnDay))
	for _, grade := range gradesOnDay {
		entry, err := that.get(ctx, grade, date.Format(time.DateOnly))
		if errors.Is(err, apperrors.ErrClosingPriceNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func (that *Repository) get(ctx context.Context, grade, member string) (*model.ClosingPrice, error) {
	data, err := that.client.HGet(ctx, that.rowsKey(grade), member).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.ErrClosingPriceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch closing price from redis: %w: %w", apperrors.ErrStoreUnavailable, err)
	}

	var r row
	if err = json.Unmarshal([]byte(data), &r); err != nil {
		return nil, fmt.Errorf("unmarshal closing price %s/%s: %w", grade, member, err)
	}

	date, err := time.Parse(time.DateOnly, member)
	if err != nil {
		return nil, fmt.Errorf("parse closing date %q: %w", member, err)
	}

	return &model.ClosingPrice{
		Grade:      grade,
		Date:       date,
		Price:      r.Price,
		RecordedBy: r.RecordedBy,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}, nil
}

func (that *Repository) datesKey(grade string) string {
	return that.prefix + ":dates:" + grade
}

func (that *Repository) rowsKey(grade string) string {
	return that.prefix + ":rows:" + grade
}

func (that *Repository) dayKey(date time.Time) string {
	return that.prefix + ":day:" + date.Format(time.DateOnly)
}

func score(date time.Time) float64 {
	return float64(date.Unix() / 86400)
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
