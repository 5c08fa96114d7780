// Package admin implements the write side of the catalog: market and
// product CRUD, listing and stall mutation, and the composite seller claim
// flow that keeps a market's stall layout consistent with its listings.
package admin

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pazar-cloud/pazar/internal/domain"
	"github.com/pazar-cloud/pazar/internal/idgen"
	"github.com/pazar-cloud/pazar/internal/kmutex"
)

// Service handles catalog mutations. Read-modify-write cycles on a market
// are serialized through a keyed mutex so concurrent stall mutations on the
// same market never lose updates.
type Service struct {
	markets  MarketStore
	products ProductStore
	listings ListingStore
	locks    *kmutex.KMutex
	logger   *zap.Logger
}

// New creates an admin service.
func New(markets MarketStore, products ProductStore, listings ListingStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		markets:  markets,
		products: products,
		listings: listings,
		locks:    kmutex.New(),
		logger:   logger,
	}
}

// MarketUpdate is a partial market payload; nil fields are left untouched.
// The identifier always comes from the call path, never the payload.
type MarketUpdate struct {
	Name         *string       `json:"name"`
	Address      *string       `json:"address"`
	Latitude     *float64      `json:"latitude"`
	Longitude    *float64      `json:"longitude"`
	IsOpenToday  *bool         `json:"isOpenToday"`
	OpeningHours *string       `json:"openingHours"`
	Map2D        *domain.Map2D `json:"map2D"`
	Map3D        *domain.Map3D `json:"map3D"`
}

// ProductUpdate is a partial product payload; nil fields are left untouched.
type ProductUpdate struct {
	Name      *string `json:"name"`
	Category  *string `json:"category"`
	Unit      *string `json:"unit"`
	Freshness *string `json:"freshness"`
}

// CreateMarket stores a new market, generating an identifier when the
// payload carries none and filling default 2D/3D layouts when absent.
func (s *Service) CreateMarket(ctx context.Context, m domain.Market) (domain.Market, error) {
	if err := m.Validate(); err != nil {
		return domain.Market{}, fmt.Errorf("%w: %w", domain.ErrBadRequest, err)
	}
	if m.ID == "" {
		m.ID = idgen.Market()
	}
	if m.Map2D == nil {
		m.Map2D = domain.DefaultMap2D()
	}
	if m.Map3D == nil {
		m.Map3D = domain.DefaultMap3D()
	}
	if err := s.markets.Put(ctx, m); err != nil {
		return domain.Market{}, fmt.Errorf("create market: %w", err)
	}
	return m, nil
}

// UpdateMarket merges a partial payload over the stored market.
func (s *Service) UpdateMarket(ctx context.Context, id string, upd MarketUpdate) (domain.Market, error) {
	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	m, err := s.markets.Get(ctx, id)
	if err != nil {
		return domain.Market{}, fmt.Errorf("get market: %w", err)
	}

	if upd.Name != nil {
		m.Name = *upd.Name
	}
	if upd.Address != nil {
		m.Address = *upd.Address
	}
	if upd.Latitude != nil {
		m.Latitude = *upd.Latitude
	}
	if upd.Longitude != nil {
		m.Longitude = *upd.Longitude
	}
	if upd.IsOpenToday != nil {
		m.IsOpenToday = *upd.IsOpenToday
	}
	if upd.OpeningHours != nil {
		m.OpeningHours = *upd.OpeningHours
	}
	if upd.Map2D != nil {
		m.Map2D = upd.Map2D
	}
	if upd.Map3D != nil {
		m.Map3D = upd.Map3D
	}

	if err := s.markets.Put(ctx, m); err != nil {
		return domain.Market{}, fmt.Errorf("update market: %w", err)
	}
	return m, nil
}

// DeleteMarket removes a market by id.
func (s *Service) DeleteMarket(ctx context.Context, id string) error {
	if err := s.markets.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete market: %w", err)
	}
	return nil
}

// CreateProduct stores a new product, generating an identifier when the
// payload carries none.
func (s *Service) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	if err := p.Validate(); err != nil {
		return domain.Product{}, fmt.Errorf("%w: %w", domain.ErrBadRequest, err)
	}
	if p.ID == "" {
		p.ID = idgen.Product()
	}
	if err := s.products.Put(ctx, p); err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

// UpdateProduct merges a partial payload over the stored product.
func (s *Service) UpdateProduct(ctx context.Context, id string, upd ProductUpdate) (domain.Product, error) {
	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	p, err := s.products.Get(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	}

	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Category != nil {
		p.Category = *upd.Category
	}
	if upd.Unit != nil {
		p.Unit = *upd.Unit
	}
	if upd.Freshness != nil {
		p.Freshness = *upd.Freshness
	}

	if err := s.products.Put(ctx, p); err != nil {
		return domain.Product{}, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

// DeleteProduct removes a product by id. Listings referencing it are left
// in place.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// AddListing stores a listing under the market. It does not touch the
// market's stall layout; the claim flow does both sides.
func (s *Service) AddListing(ctx context.Context, marketID string, l domain.Listing) (domain.Listing, error) {
	if err := l.Validate(); err != nil {
		return domain.Listing{}, fmt.Errorf("%w: %w", domain.ErrBadRequest, err)
	}
	l.MarketID = marketID
	if l.ID == "" {
		l.ID = idgen.Listing()
	}
	if err := s.listings.Put(ctx, &l); err != nil {
		return domain.Listing{}, fmt.Errorf("add listing: %w", err)
	}
	return l, nil
}

// RemoveListing deletes every listing of the market matching both product
// and stall number, reporting whether anything was removed.
func (s *Service) RemoveListing(ctx context.Context, marketID, productID, stallNumber string) (bool, error) {
	market, err := s.listings.FindByMarket(ctx, marketID)
	if err != nil {
		return false, fmt.Errorf("find listings: %w", err)
	}
	removed := false
	for _, l := range market {
		if l.ProductID != productID || l.StallNumber != stallNumber {
			continue
		}
		if err := s.listings.Delete(ctx, marketID, l.ID); err != nil {
			return removed, fmt.Errorf("delete listing %s: %w", l.ID, err)
		}
		removed = true
	}
	return removed, nil
}

// AddStall appends a stall to the market's 2D layout.
func (s *Service) AddStall(ctx context.Context, marketID string, stall domain.Stall) (domain.Stall, error) {
	if stall.ID == "" {
		return domain.Stall{}, fmt.Errorf("%w: stall id is required", domain.ErrBadRequest)
	}

	s.locks.Lock(marketID)
	defer s.locks.Unlock(marketID)

	m, err := s.markets.Get(ctx, marketID)
	if err != nil {
		return domain.Stall{}, fmt.Errorf("get market: %w", err)
	}
	m.AddStall(stall)
	if err := s.markets.Put(ctx, m); err != nil {
		return domain.Stall{}, fmt.Errorf("add stall: %w", err)
	}
	return stall, nil
}

// RemoveStall removes a stall from the market's 2D layout by id, reporting
// whether anything was removed.
func (s *Service) RemoveStall(ctx context.Context, marketID, stallID string) (bool, error) {
	s.locks.Lock(marketID)
	defer s.locks.Unlock(marketID)

	m, err := s.markets.Get(ctx, marketID)
	if err != nil {
		return false, fmt.Errorf("get market: %w", err)
	}
	if !m.RemoveStall(stallID) {
		return false, nil
	}
	if err := s.markets.Put(ctx, m); err != nil {
		return false, fmt.Errorf("remove stall: %w", err)
	}
	return true, nil
}

// Dashboard aggregates store counts for the admin overview.
type Dashboard struct {
	TotalMarkets  int `json:"totalMarkets"`
	TotalProducts int `json:"totalProducts"`
	TotalListings int `json:"totalListings"`
}

// Stats is the admin system statistics answer.
type Stats struct {
	ActiveMarkets  int    `json:"activeMarkets"`
	ActiveProducts int    `json:"activeProducts"`
	SystemStatus   string `json:"systemStatus"`
}

// GetDashboard counts stored entities.
func (s *Service) GetDashboard(ctx context.Context) (Dashboard, error) {
	markets, err := s.markets.List(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list markets: %w", err)
	}
	products, err := s.products.List(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list products: %w", err)
	}
	listings, err := s.listings.List(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list listings: %w", err)
	}
	return Dashboard{
		TotalMarkets:  len(markets),
		TotalProducts: len(products),
		TotalListings: len(listings),
	}, nil
}

// GetStats reports markets open today and total products.
func (s *Service) GetStats(ctx context.Context) (Stats, error) {
	markets, err := s.markets.List(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("list markets: %w", err)
	}
	products, err := s.products.List(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("list products: %w", err)
	}
	active := 0
	for _, m := range markets {
		if m.IsOpenToday {
			active++
		}
	}
	return Stats{
		ActiveMarkets:  active,
		ActiveProducts: len(products),
		SystemStatus:   "healthy",
	}, nil
}
