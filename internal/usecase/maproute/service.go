// Package maproute resolves a market's spatial layout and routes to its
// stalls.
package maproute

import (
	"context"
	"fmt"

	"github.com/pazar-cloud/pazar/internal/domain"
)

// MarketReader reads market aggregates.
type MarketReader interface {
	Get(ctx context.Context, id string) (domain.Market, error)
	List(ctx context.Context) ([]domain.Market, error)
}

// MarketMap is the combined 2D/3D layout answer for a market.
type MarketMap struct {
	MarketID   string        `json:"marketId"`
	MarketName string        `json:"marketName"`
	Map2D      *domain.Map2D `json:"map2D"`
	Map3D      *domain.Map3D `json:"map3D"`
}

// Service handles map and route lookups.
type Service struct {
	markets MarketReader
}

// New creates a map/route service.
func New(markets MarketReader) *Service {
	return &Service{markets: markets}
}

// Markets returns all markets sorted by identifier.
func (s *Service) Markets(ctx context.Context) ([]domain.Market, error) {
	markets, err := s.markets.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list markets: %w", err)
	}
	return markets, nil
}

// Market returns a single market by identifier.
func (s *Service) Market(ctx context.Context, id string) (domain.Market, error) {
	market, err := s.markets.Get(ctx, id)
	if err != nil {
		return domain.Market{}, fmt.Errorf("get market: %w", err)
	}
	return market, nil
}

// GetMap returns a market's 2D and 3D layout.
func (s *Service) GetMap(ctx context.Context, marketID string) (MarketMap, error) {
	market, err := s.markets.Get(ctx, marketID)
	if err != nil {
		return MarketMap{}, fmt.Errorf("get market: %w", err)
	}
	return MarketMap{
		MarketID:   market.ID,
		MarketName: market.Name,
		Map2D:      market.Map2D,
		Map3D:      market.Map3D,
	}, nil
}

// Route resolves a stall number to its coordinates and a templated
// direction string. The stall must exist in the market's 2D layout.
func (s *Service) Route(ctx context.Context, marketID, stallNumber string) (domain.Route, error) {
	market, err := s.markets.Get(ctx, marketID)
	if err != nil {
		return domain.Route{}, fmt.Errorf("get market: %w", err)
	}

	stall, ok := market.StallByID(stallNumber)
	if !ok {
		return domain.Route{}, fmt.Errorf("%w: stall %q in market %q", domain.ErrStallNotFound, stallNumber, marketID)
	}

	return domain.NewRoute(stall.ID, domain.Location{X: stall.X, Y: stall.Y, Z: stall.Z}), nil
}
