// Package catalog implements the read side of the product index: free-text
// search with price enrichment, category filtering, per-market listings,
// and cheapest/most-expensive resolution.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pazar-cloud/pazar/internal/domain"
	"github.com/pazar-cloud/pazar/internal/suggest"
)

// prefixLen is how many leading query characters the permissive prefix
// rule compares against product names. The rule false-positives on
// unrelated words by design; callers rely on the behavior staying put.
const prefixLen = 3

// PriceEntry is one vendor's price point inside a search match.
type PriceEntry struct {
	Price       float64 `json:"price"`
	StallNumber string  `json:"stallNumber"`
	VendorName  string  `json:"vendorName"`
}

// Match is a product matched by search, optionally enriched with the
// cheapest offer of the requested market.
type Match struct {
	domain.Product

	MinPrice    *float64         `json:"minPrice,omitempty"`
	StallNumber string           `json:"stallNumber,omitempty"`
	Location    *domain.Location `json:"location,omitempty"`
	VendorName  string           `json:"vendorName,omitempty"`
	AllPrices   []PriceEntry     `json:"allPrices,omitempty"`
}

// SearchResult is the full search answer including static suggestions.
type SearchResult struct {
	Query       string   `json:"query"`
	Results     []Match  `json:"results"`
	Count       int      `json:"count"`
	Suggestions []string `json:"aiSuggestions"`
}

// PriceSummary compares every offer of a product inside one market.
type PriceSummary struct {
	Product       domain.Product   `json:"product"`
	Prices        []domain.Listing `json:"prices"`
	Cheapest      *domain.Listing  `json:"cheapest"`
	MostExpensive *domain.Listing  `json:"mostExpensive"`
}

// CheapestResult resolves the lowest-priced offer plus the route to it.
type CheapestResult struct {
	Product        domain.Product `json:"product"`
	CheapestOption domain.Listing `json:"cheapestOption"`
	Route          domain.Route   `json:"route"`
}

// Service handles catalog queries.
type Service struct {
	products ProductReader
	listings ListingReader
	markets  MarketReader
}

// New creates a catalog service.
func New(products ProductReader, listings ListingReader, markets MarketReader) *Service {
	return &Service{products: products, listings: listings, markets: markets}
}

// Search matches products against a free-text query. When marketID is
// non-empty each match is enriched with that market's cheapest offer and
// full price list; products the market does not list stay unenriched.
func (s *Service) Search(ctx context.Context, query, marketID string) (SearchResult, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return SearchResult{}, fmt.Errorf("list products: %w", err)
	}

	var market []domain.Listing
	if marketID != "" {
		market, err = s.listings.FindByMarket(ctx, marketID)
		if err != nil {
			return SearchResult{}, fmt.Errorf("find listings: %w", err)
		}
	}

	q := strings.ToLower(query)
	results := make([]Match, 0)
	for _, p := range products {
		if !matches(p, q) {
			continue
		}
		m := Match{Product: p}
		enrich(&m, market)
		results = append(results, m)
	}

	return SearchResult{
		Query:       query,
		Results:     results,
		Count:       len(results),
		Suggestions: suggest.Suggest(query),
	}, nil
}

// matches implements the search predicate: case-insensitive substring on
// name or category, or the first three query characters as a name prefix.
func matches(p domain.Product, q string) bool {
	name := strings.ToLower(p.Name)
	if strings.Contains(name, q) || strings.Contains(strings.ToLower(p.Category), q) {
		return true
	}
	prefix := []rune(q)
	if len(prefix) > prefixLen {
		prefix = prefix[:prefixLen]
	}
	return strings.HasPrefix(name, string(prefix))
}

// enrich copies the cheapest offer of the product, and all its price
// points, from the market's listings onto the match. Nothing happens when
// the market has no listing for the product.
func enrich(m *Match, market []domain.Listing) {
	var offers []domain.Listing
	for _, l := range market {
		if l.ProductID == m.ID {
			offers = append(offers, l)
		}
	}
	if len(offers) == 0 {
		return
	}

	best := cheapestOf(offers)
	price := best.Price
	loc := best.Location()
	m.MinPrice = &price
	m.StallNumber = best.StallNumber
	m.Location = &loc
	m.VendorName = best.VendorName

	m.AllPrices = make([]PriceEntry, len(offers))
	for i, l := range offers {
		m.AllPrices[i] = PriceEntry{Price: l.Price, StallNumber: l.StallNumber, VendorName: l.VendorName}
	}
}

// cheapestOf returns the lowest-priced listing; price ties resolve to the
// first listing in storage order.
func cheapestOf(offers []domain.Listing) domain.Listing {
	best := offers[0]
	for _, l := range offers[1:] {
		if l.Price < best.Price {
			best = l
		}
	}
	return best
}

// Products returns the full product catalog.
func (s *Service) Products(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// Product returns a single catalog entry by identifier.
func (s *Service) Product(ctx context.Context, id string) (domain.Product, error) {
	product, err := s.products.Get(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

// ListingsForMarket returns a market's listings in insertion order. An
// unknown market yields an empty sequence, not an error.
func (s *Service) ListingsForMarket(ctx context.Context, marketID string) ([]domain.Listing, error) {
	listings, err := s.listings.FindByMarket(ctx, marketID)
	if err != nil {
		return nil, fmt.Errorf("find listings: %w", err)
	}
	return listings, nil
}

// Summary compares all offers of a product in a market, sorted ascending
// by price. A product unknown to the catalog fails with ErrProductNotFound;
// a market absent from the store fails with ErrBadRequest. A known market
// with zero offers succeeds with an empty price list.
func (s *Service) Summary(ctx context.Context, productID, marketID string) (PriceSummary, error) {
	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return PriceSummary{}, fmt.Errorf("get product: %w", err)
	}

	known, err := s.markets.Exists(ctx, marketID)
	if err != nil {
		return PriceSummary{}, fmt.Errorf("check market: %w", err)
	}
	if !known {
		return PriceSummary{}, fmt.Errorf("%w: unknown market %q", domain.ErrBadRequest, marketID)
	}

	market, err := s.listings.FindByMarket(ctx, marketID)
	if err != nil {
		return PriceSummary{}, fmt.Errorf("find listings: %w", err)
	}

	var prices []domain.Listing
	for _, l := range market {
		if l.ProductID == productID {
			prices = append(prices, l)
		}
	}
	// Stable keeps insertion order among equal prices.
	sort.SliceStable(prices, func(i, j int) bool { return prices[i].Price < prices[j].Price })

	summary := PriceSummary{Product: product, Prices: prices}
	if len(prices) > 0 {
		summary.Cheapest = &prices[0]
		summary.MostExpensive = &prices[len(prices)-1]
	}
	return summary, nil
}

// Cheapest resolves the lowest-priced offer of a product in a market and
// the route to its stall. Fails with ErrListingNotFound when the market
// has no offer of the product.
func (s *Service) Cheapest(ctx context.Context, productID, marketID string) (CheapestResult, error) {
	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return CheapestResult{}, fmt.Errorf("get product: %w", err)
	}

	market, err := s.listings.FindByMarket(ctx, marketID)
	if err != nil {
		return CheapestResult{}, fmt.Errorf("find listings: %w", err)
	}

	var offers []domain.Listing
	for _, l := range market {
		if l.ProductID == productID {
			offers = append(offers, l)
		}
	}
	if len(offers) == 0 {
		return CheapestResult{}, fmt.Errorf("%w: product %q in market %q", domain.ErrListingNotFound, productID, marketID)
	}

	best := cheapestOf(offers)
	return CheapestResult{
		Product:        product,
		CheapestOption: best,
		Route:          domain.NewRoute(best.StallNumber, best.Location()),
	}, nil
}

// ByCategory returns products whose category equals the given one,
// case-insensitively.
func (s *Service) ByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]domain.Product, 0)
	for _, p := range products {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out, nil
}
