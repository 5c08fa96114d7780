// Package market persists Market aggregates as JSON documents under
// pazar:market:{id}.
package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/pazar-cloud/pazar/internal/db"
	"github.com/pazar-cloud/pazar/internal/domain"
)

// store is the consumer interface for markets (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements the market repository over a db.Store.
type Repo struct {
	store store
}

// New creates a market repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Put upserts a market, last write wins on the id.
func (r *Repo) Put(ctx context.Context, m domain.Market) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal market %s: %w", m.ID, err)
	}
	if err := r.store.Set(ctx, key(m.ID), data); err != nil {
		return fmt.Errorf("set market %s: %w", m.ID, err)
	}
	return nil
}

// Get retrieves a market by id.
func (r *Repo) Get(ctx context.Context, id string) (domain.Market, error) {
	data, err := r.store.Get(ctx, key(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Market{}, domain.ErrMarketNotFound
		}
		return domain.Market{}, fmt.Errorf("get market %s: %w", id, err)
	}
	var m domain.Market
	if err := json.Unmarshal(data, &m); err != nil {
		return domain.Market{}, fmt.Errorf("unmarshal market %s: %w", id, err)
	}
	return m, nil
}

// Exists checks whether a market is stored under the id.
func (r *Repo) Exists(ctx context.Context, id string) (bool, error) {
	ok, err := r.store.Exists(ctx, key(id))
	if err != nil {
		return false, fmt.Errorf("exists market %s: %w", id, err)
	}
	return ok, nil
}

// List returns all markets sorted by id.
func (r *Repo) List(ctx context.Context) ([]domain.Market, error) {
	keys, err := r.store.Scan(ctx, key("*"))
	if err != nil {
		return nil, fmt.Errorf("scan markets: %w", err)
	}
	markets := make([]domain.Market, 0, len(keys))
	for _, k := range keys {
		data, err := r.store.Get(ctx, k)
		if err != nil {
			if errors.Is(err, db.ErrKeyNotFound) {
				continue // deleted between scan and get
			}
			return nil, fmt.Errorf("get market %s: %w", k, err)
		}
		var m domain.Market
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("unmarshal market %s: %w", k, err)
		}
		markets = append(markets, m)
	}
	sort.Slice(markets, func(i, j int) bool { return markets[i].ID < markets[j].ID })
	return markets, nil
}

// Delete removes a market by id.
func (r *Repo) Delete(ctx context.Context, id string) error {
	ok, err := r.store.Exists(ctx, key(id))
	if err != nil {
		return fmt.Errorf("exists market %s: %w", id, err)
	}
	if !ok {
		return domain.ErrMarketNotFound
	}
	if err := r.store.Del(ctx, key(id)); err != nil {
		return fmt.Errorf("del market %s: %w", id, err)
	}
	return nil
}

func key(id string) string {
	return domain.KeyPrefix + "market:" + id
}
