// Package product persists Product catalog entries as JSON documents under
// pazar:product:{id}.
package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/pazar-cloud/pazar/internal/db"
	"github.com/pazar-cloud/pazar/internal/domain"
)

// store is the consumer interface for products (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements the product repository over a db.Store.
type Repo struct {
	store store
}

// New creates a product repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Put upserts a product, last write wins on the id.
func (r *Repo) Put(ctx context.Context, p domain.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal product %s: %w", p.ID, err)
	}
	if err := r.store.Set(ctx, key(p.ID), data); err != nil {
		return fmt.Errorf("set product %s: %w", p.ID, err)
	}
	return nil
}

// Get retrieves a product by id.
func (r *Repo) Get(ctx context.Context, id string) (domain.Product, error) {
	data, err := r.store.Get(ctx, key(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("get product %s: %w", id, err)
	}
	var p domain.Product
	if err := json.Unmarshal(data, &p); err != nil {
		return domain.Product{}, fmt.Errorf("unmarshal product %s: %w", id, err)
	}
	return p, nil
}

// Exists checks whether a product is stored under the id.
func (r *Repo) Exists(ctx context.Context, id string) (bool, error) {
	ok, err := r.store.Exists(ctx, key(id))
	if err != nil {
		return false, fmt.Errorf("exists product %s: %w", id, err)
	}
	return ok, nil
}

// List returns all products sorted by id.
func (r *Repo) List(ctx context.Context) ([]domain.Product, error) {
	keys, err := r.store.Scan(ctx, key("*"))
	if err != nil {
		return nil, fmt.Errorf("scan products: %w", err)
	}
	products := make([]domain.Product, 0, len(keys))
	for _, k := range keys {
		data, err := r.store.Get(ctx, k)
		if err != nil {
			if errors.Is(err, db.ErrKeyNotFound) {
				continue
			}
			return nil, fmt.Errorf("get product %s: %w", k, err)
		}
		var p domain.Product
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("unmarshal product %s: %w", k, err)
		}
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

// Delete removes a product by id. Listings referencing the product are left
// alone; the store never garbage-collects.
func (r *Repo) Delete(ctx context.Context, id string) error {
	ok, err := r.store.Exists(ctx, key(id))
	if err != nil {
		return fmt.Errorf("exists product %s: %w", id, err)
	}
	if !ok {
		return domain.ErrProductNotFound
	}
	if err := r.store.Del(ctx, key(id)); err != nil {
		return fmt.Errorf("del product %s: %w", id, err)
	}
	return nil
}

func key(id string) string {
	return domain.KeyPrefix + "product:" + id
}
