package fakes

import (
	"context"
	"sort"
	"sync"

	"coffeerange/internal/apperrors"
	"coffeerange/internal/model"
)

// Catalog is an in-memory fixed band catalog.
type Catalog struct {
	mu    sync.RWMutex
	bands map[string]*model.GradeBand
}

func NewCatalog(bands ...*model.GradeBand) *Catalog {
	c := &Catalog{bands: make(map[string]*model.GradeBand, len(bands))}
	for _, b := range bands {
		c.bands[b.Grade] = b
	}
	return c
}

func (that *Catalog) LookupFixed(_ context.Context, grade string) (*model.GradeBand, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	band, ok := that.bands[grade]
	if !ok {
		return nil, apperrors.ErrFixedBandNotFound
	}

	out := *band
	return &out, nil
}

func (that *Catalog) Save(_ context.Context, band *model.GradeBand) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	stored := *band
	that.bands[band.Grade] = &stored
	return nil
}

func (that *Catalog) List(_ context.Context) ([]*model.GradeBand, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	out := make([]*model.GradeBand, 0, len(that.bands))
	for _, b := range that.bands {
		cp := *b
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Grade < out[j].Grade })
	return out, nil
}
