package pazar

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pazar-cloud/pazar/internal/db"
	dbMemory "github.com/pazar-cloud/pazar/internal/db/memory"
	dbRedis "github.com/pazar-cloud/pazar/internal/db/redis"
	"github.com/pazar-cloud/pazar/internal/domain"
	listingrepo "github.com/pazar-cloud/pazar/internal/repository/listing"
	marketrepo "github.com/pazar-cloud/pazar/internal/repository/market"
	productrepo "github.com/pazar-cloud/pazar/internal/repository/product"
	adminuc "github.com/pazar-cloud/pazar/internal/usecase/admin"
	cataloguc "github.com/pazar-cloud/pazar/internal/usecase/catalog"
	healthuc "github.com/pazar-cloud/pazar/internal/usecase/health"
	maprouteuc "github.com/pazar-cloud/pazar/internal/usecase/maproute"
)

const defaultReadinessTimeout = 10 * time.Second

// ClaimRequest is re-exported for callers of ClaimStall.
type ClaimRequest = adminuc.ClaimRequest

// ClaimResult is re-exported for callers of ClaimStall.
type ClaimResult = adminuc.ClaimResult

// SearchResult is re-exported for callers of Search.
type SearchResult = cataloguc.SearchResult

// PriceSummary is re-exported for callers of Prices.
type PriceSummary = cataloguc.PriceSummary

// CheapestResult is re-exported for callers of Cheapest.
type CheapestResult = cataloguc.CheapestResult

// Client is the pazar SDK entry point. All operations run in-process
// against the configured store.
type Client struct {
	store   db.Store
	catalog *cataloguc.Service
	maps    *maprouteuc.Service
	admin   *adminuc.Service
	health  *healthuc.Service
}

// New creates a pazar Client. The provided context is used for the initial
// readiness check when a remote store is configured.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{driver: "memory", logger: zap.NewNop()}
	for _, o := range opts {
		o.apply(cfg)
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("pazar: database not ready: %w", err)
	}

	markets := marketrepo.New(store)
	products := productrepo.New(store)
	listings := listingrepo.New(store)

	return &Client{
		store:   store,
		catalog: cataloguc.New(products, listings, markets),
		maps:    maprouteuc.New(markets),
		admin:   adminuc.New(markets, products, listings, cfg.logger),
		health:  healthuc.New(store),
	}, nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "memory":
		return dbMemory.NewStore(), nil
	case "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("pazar: create redis store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("pazar: unknown driver %q", cfg.driver)
	}
}

// Close releases the underlying store connection.
func (c *Client) Close() {
	c.store.Close()
}

// Healthy reports whether the underlying store answers pings.
func (c *Client) Healthy(ctx context.Context) bool {
	return c.health.Check(ctx).Status == healthuc.Healthy
}

// Search queries the catalog. marketID is optional; when set, matches are
// enriched with that market's cheapest offer per product.
func (c *Client) Search(ctx context.Context, query, marketID string) (SearchResult, error) {
	return c.catalog.Search(ctx, query, marketID)
}

// Products returns the full product catalog.
func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	return c.catalog.Products(ctx)
}

// ProductsByCategory filters products by category, case-insensitively.
func (c *Client) ProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return c.catalog.ByCategory(ctx, category)
}

// Prices compares every offer of a product inside one market.
func (c *Client) Prices(ctx context.Context, productID, marketID string) (PriceSummary, error) {
	return c.catalog.Summary(ctx, productID, marketID)
}

// Cheapest resolves the lowest-priced offer of a product in a market plus
// the route to its stall.
func (c *Client) Cheapest(ctx context.Context, productID, marketID string) (CheapestResult, error) {
	return c.catalog.Cheapest(ctx, productID, marketID)
}

// Markets returns all markets.
func (c *Client) Markets(ctx context.Context) ([]domain.Market, error) {
	return c.maps.Markets(ctx)
}

// Market returns a single market.
func (c *Client) Market(ctx context.Context, id string) (domain.Market, error) {
	return c.maps.Market(ctx, id)
}

// Map returns a market's 2D and 3D layout.
func (c *Client) Map(ctx context.Context, marketID string) (maprouteuc.MarketMap, error) {
	return c.maps.GetMap(ctx, marketID)
}

// Route resolves a stall number to coordinates and directions.
func (c *Client) Route(ctx context.Context, marketID, stallNumber string) (domain.Route, error) {
	return c.maps.Route(ctx, marketID, stallNumber)
}

// CreateMarket stores a new market.
func (c *Client) CreateMarket(ctx context.Context, m domain.Market) (domain.Market, error) {
	return c.admin.CreateMarket(ctx, m)
}

// UpdateMarket merges a partial payload over a stored market.
func (c *Client) UpdateMarket(ctx context.Context, id string, upd adminuc.MarketUpdate) (domain.Market, error) {
	return c.admin.UpdateMarket(ctx, id, upd)
}

// DeleteMarket removes a market.
func (c *Client) DeleteMarket(ctx context.Context, id string) error {
	return c.admin.DeleteMarket(ctx, id)
}

// CreateProduct stores a new product.
func (c *Client) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	return c.admin.CreateProduct(ctx, p)
}

// UpdateProduct merges a partial payload over a stored product.
func (c *Client) UpdateProduct(ctx context.Context, id string, upd adminuc.ProductUpdate) (domain.Product, error) {
	return c.admin.UpdateProduct(ctx, id, upd)
}

// DeleteProduct removes a product.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.admin.DeleteProduct(ctx, id)
}

// AddListing stores a listing under a market without touching its layout.
func (c *Client) AddListing(ctx context.Context, marketID string, l domain.Listing) (domain.Listing, error) {
	return c.admin.AddListing(ctx, marketID, l)
}

// RemoveListing deletes listings matching product and stall number.
func (c *Client) RemoveListing(ctx context.Context, marketID, productID, stallNumber string) (bool, error) {
	return c.admin.RemoveListing(ctx, marketID, productID, stallNumber)
}

// AddStall appends a stall to a market's 2D layout.
func (c *Client) AddStall(ctx context.Context, marketID string, s domain.Stall) (domain.Stall, error) {
	return c.admin.AddStall(ctx, marketID, s)
}

// RemoveStall removes a stall from a market's 2D layout.
func (c *Client) RemoveStall(ctx context.Context, marketID, stallID string) (bool, error) {
	return c.admin.RemoveStall(ctx, marketID, stallID)
}

// ClaimStall runs the composite seller claim flow.
func (c *Client) ClaimStall(ctx context.Context, req ClaimRequest) (ClaimResult, error) {
	return c.admin.ClaimStall(ctx, req)
}
