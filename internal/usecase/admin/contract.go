package admin

import (
	"context"

	"github.com/pazar-cloud/pazar/internal/domain"
)

// MarketStore is the market repository surface the mutator needs.
type MarketStore interface {
	Put(ctx context.Context, m domain.Market) error
	Get(ctx context.Context, id string) (domain.Market, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]domain.Market, error)
	Delete(ctx context.Context, id string) error
}

// ProductStore is the product repository surface the mutator needs.
type ProductStore interface {
	Put(ctx context.Context, p domain.Product) error
	Get(ctx context.Context, id string) (domain.Product, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// ListingStore is the listing repository surface the mutator needs.
type ListingStore interface {
	Put(ctx context.Context, l *domain.Listing) error
	FindByMarket(ctx context.Context, marketID string) ([]domain.Listing, error)
	List(ctx context.Context) ([]domain.Listing, error)
	Delete(ctx context.Context, marketID, id string) error
	NextSeq(ctx context.Context) (int64, error)
}
