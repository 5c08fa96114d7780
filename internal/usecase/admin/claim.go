package admin

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pazar-cloud/pazar/internal/domain"
	"github.com/pazar-cloud/pazar/internal/idgen"
)

// ClaimRequest is the seller-facing payload for taking a stall in a market.
// Either ProductID references an existing product, or Product carries a full
// payload to create a new one.
type ClaimRequest struct {
	MarketID   string          `json:"marketId"`
	ProductID  string          `json:"productId"`
	Product    *domain.Product `json:"product"`
	Price      float64         `json:"price"`
	X          float64         `json:"x"`
	Y          float64         `json:"y"`
	Z          float64         `json:"z"`
	VendorName string          `json:"vendorName"`
}

// ClaimResult reports the entities a successful claim produced.
type ClaimResult struct {
	Listing domain.Listing `json:"listing"`
	Stall   domain.Stall   `json:"stall"`
	Product domain.Product `json:"product"`
}

// ClaimStall runs the composite claim: resolve or create the product,
// assign a fresh stall number, store the listing, then append the matching
// stall to the market's 2D layout. The listing write and the stall append
// must land together; if the stall append fails the listing is deleted
// again so the two views of the market stay consistent.
func (s *Service) ClaimStall(ctx context.Context, req ClaimRequest) (ClaimResult, error) {
	if req.MarketID == "" {
		return ClaimResult{}, fmt.Errorf("%w: marketId is required", domain.ErrBadRequest)
	}
	if req.Price <= 0 {
		return ClaimResult{}, fmt.Errorf("%w: price must be positive", domain.ErrBadRequest)
	}

	s.locks.Lock(req.MarketID)
	defer s.locks.Unlock(req.MarketID)

	market, err := s.markets.Get(ctx, req.MarketID)
	if err != nil {
		return ClaimResult{}, fmt.Errorf("get market: %w", err)
	}

	product, err := s.resolveProduct(ctx, req)
	if err != nil {
		return ClaimResult{}, err
	}

	stallNumber, err := s.nextStallNumber(ctx, market)
	if err != nil {
		return ClaimResult{}, err
	}

	listing := domain.Listing{
		ID:          idgen.Listing(),
		MarketID:    req.MarketID,
		ProductID:   product.ID,
		Price:       req.Price,
		StallNumber: stallNumber,
		X:           req.X,
		Y:           req.Y,
		Z:           req.Z,
		VendorName:  req.VendorName,
	}
	if err := s.listings.Put(ctx, &listing); err != nil {
		return ClaimResult{}, fmt.Errorf("store listing: %w", err)
	}

	stall := domain.Stall{
		ID:         stallNumber,
		X:          req.X,
		Y:          req.Y,
		Z:          req.Z,
		Type:       product.Category,
		VendorName: req.VendorName,
	}
	market.AddStall(stall)
	if err := s.markets.Put(ctx, market); err != nil {
		// Compensating rollback: the listing must not survive without its
		// stall, so undo the write we just made.
		if delErr := s.listings.Delete(ctx, req.MarketID, listing.ID); delErr != nil {
			s.logger.Warn("claim rollback failed, listing orphaned",
				zap.String("market_id", req.MarketID),
				zap.String("listing_id", listing.ID),
				zap.Error(delErr))
		}
		return ClaimResult{}, fmt.Errorf("append stall: %w", err)
	}

	return ClaimResult{Listing: listing, Stall: stall, Product: product}, nil
}

func (s *Service) resolveProduct(ctx context.Context, req ClaimRequest) (domain.Product, error) {
	if req.ProductID != "" {
		p, err := s.products.Get(ctx, req.ProductID)
		if err != nil {
			return domain.Product{}, fmt.Errorf("get product: %w", err)
		}
		return p, nil
	}
	if req.Product == nil {
		return domain.Product{}, fmt.Errorf("%w: productId or product payload is required", domain.ErrBadRequest)
	}
	p := *req.Product
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

// nextStallNumber draws sequence numbers until one is free in the market's
// layout. The sequence is store-global so concurrent claims on different
// markets never race on it.
func (s *Service) nextStallNumber(ctx context.Context, m domain.Market) (string, error) {
	for {
		seq, err := s.listings.NextSeq(ctx)
		if err != nil {
			return "", fmt.Errorf("next stall number: %w", err)
		}
		num := idgen.StallNumber(seq)
		if !m.HasStall(num) {
			return num, nil
		}
	}
}
