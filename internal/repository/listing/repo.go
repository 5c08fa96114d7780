// Package listing persists per-market product listings as JSON documents
// under pazar:listing:{marketId}:{id}. A store-side counter assigns each
// listing a sequence number on first write; FindByMarket returns listings
// in that insertion order, which price tie-breaks depend on.
package listing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/pazar-cloud/pazar/internal/db"
	"github.com/pazar-cloud/pazar/internal/domain"
)

// store is the consumer interface for listings (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
	Incr(ctx context.Context, key string) (int64, error)
}

// Repo implements the listing repository over a db.Store.
type Repo struct {
	store store
}

// New creates a listing repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// NextSeq reserves the next value of the shared listing sequence.
func (r *Repo) NextSeq(ctx context.Context) (int64, error) {
	seq, err := r.store.Incr(ctx, seqKey())
	if err != nil {
		return 0, fmt.Errorf("next listing seq: %w", err)
	}
	return seq, nil
}

// Put upserts a listing. A zero Seq is assigned from the store sequence so
// insertion order stays deterministic under concurrent writes.
func (r *Repo) Put(ctx context.Context, l *domain.Listing) error {
	if l.Seq == 0 {
		seq, err := r.NextSeq(ctx)
		if err != nil {
			return err
		}
		l.Seq = seq
	}
	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("marshal listing %s: %w", l.ID, err)
	}
	if err := r.store.Set(ctx, key(l.MarketID, l.ID), data); err != nil {
		return fmt.Errorf("set listing %s: %w", l.ID, err)
	}
	return nil
}

// Get retrieves a listing by market and listing id.
func (r *Repo) Get(ctx context.Context, marketID, id string) (domain.Listing, error) {
	data, err := r.store.Get(ctx, key(marketID, id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Listing{}, domain.ErrListingNotFound
		}
		return domain.Listing{}, fmt.Errorf("get listing %s: %w", id, err)
	}
	var l domain.Listing
	if err := json.Unmarshal(data, &l); err != nil {
		return domain.Listing{}, fmt.Errorf("unmarshal listing %s: %w", id, err)
	}
	return l, nil
}

// FindByMarket returns all listings of a market in insertion order. An
// unknown market yields an empty slice, not an error.
func (r *Repo) FindByMarket(ctx context.Context, marketID string) ([]domain.Listing, error) {
	return r.scan(ctx, key(marketID, "*"))
}

// FindByProduct returns all listings of a product across markets in
// insertion order.
func (r *Repo) FindByProduct(ctx context.Context, productID string) ([]domain.Listing, error) {
	all, err := r.scan(ctx, key("*", "*"))
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, l := range all {
		if l.ProductID == productID {
			out = append(out, l)
		}
	}
	return out, nil
}

// List returns every stored listing in insertion order.
func (r *Repo) List(ctx context.Context) ([]domain.Listing, error) {
	return r.scan(ctx, key("*", "*"))
}

// Delete removes a listing by market and listing id.
func (r *Repo) Delete(ctx context.Context, marketID, id string) error {
	if err := r.store.Del(ctx, key(marketID, id)); err != nil {
		return fmt.Errorf("del listing %s: %w", id, err)
	}
	return nil
}

func (r *Repo) scan(ctx context.Context, pattern string) ([]domain.Listing, error) {
	keys, err := r.store.Scan(ctx, pattern)
	if err != nil {
		return nil, fmt.Errorf("scan listings: %w", err)
	}
	listings := make([]domain.Listing, 0, len(keys))
	for _, k := range keys {
		data, err := r.store.Get(ctx, k)
		if err != nil {
			if errors.Is(err, db.ErrKeyNotFound) {
				continue
			}
			return nil, fmt.Errorf("get listing %s: %w", k, err)
		}
		var l domain.Listing
		if err := json.Unmarshal(data, &l); err != nil {
			return nil, fmt.Errorf("unmarshal listing %s: %w", k, err)
		}
		listings = append(listings, l)
	}
	sort.Slice(listings, func(i, j int) bool { return listings[i].Seq < listings[j].Seq })
	return listings, nil
}

func key(marketID, id string) string {
	return domain.KeyPrefix + "listing:" + marketID + ":" + id
}

func seqKey() string {
	return domain.KeyPrefix + "listing:seq"
}
