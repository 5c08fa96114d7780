package catalog

import (
	"context"

	"github.com/pazar-cloud/pazar/internal/domain"
)

// ProductReader reads the global product catalog.
type ProductReader interface {
	Get(ctx context.Context, id string) (domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
}

// ListingReader reads per-market listings in insertion order.
type ListingReader interface {
	FindByMarket(ctx context.Context, marketID string) ([]domain.Listing, error)
}

// MarketReader answers market existence for price summaries.
type MarketReader interface {
	Exists(ctx context.Context, id string) (bool, error)
}
