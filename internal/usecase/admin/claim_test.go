package admin

import (
	"context"
	"errors"
	"testing"

	"github.com/pazar-cloud/pazar/internal/domain"
)

func seedClaimFixture(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()
	if err := f.markets.Put(ctx, domain.Market{ID: "market_1", Name: "Merkez Pazar", Map2D: domain.DefaultMap2D()}); err != nil {
		t.Fatalf("put market: %v", err)
	}
	if err := f.products.Put(ctx, domain.Product{ID: "prod_1", Name: "Domates", Category: "Sebze", Unit: "kg"}); err != nil {
		t.Fatalf("put product: %v", err)
	}
}

func TestClaimStall_ExistingProduct(t *testing.T) {
	f := newFixture(t)
	seedClaimFixture(t, f)
	ctx := context.Background()

	res, err := f.svc.ClaimStall(ctx, ClaimRequest{
		MarketID:   "market_1",
		ProductID:  "prod_1",
		Price:      18.50,
		X:          120,
		Y:          80,
		VendorName: "Ahmet'in Sebzeleri",
	})
	if err != nil {
		t.Fatalf("claim: %v", err)
	}

	if res.Listing.StallNumber != res.Stall.ID {
		t.Errorf("listing stall %q and layout stall %q must match", res.Listing.StallNumber, res.Stall.ID)
	}
	if res.Stall.Type != "Sebze" || res.Stall.VendorName != "Ahmet'in Sebzeleri" {
		t.Errorf("unexpected stall: %+v", res.Stall)
	}
	if res.Stall.X != 120 || res.Stall.Y != 80 {
		t.Errorf("stall must take the requested position: %+v", res.Stall)
	}
	if res.Product.ID != "prod_1" {
		t.Errorf("unexpected product: %+v", res.Product)
	}

	// Both sides of the claim must be persisted.
	m, _ := f.markets.Get(ctx, "market_1")
	if !m.HasStall(res.Stall.ID) {
		t.Error("stall missing from stored layout")
	}
	listings, _ := f.listings.FindByMarket(ctx, "market_1")
	if len(listings) != 1 || listings[0].ID != res.Listing.ID {
		t.Errorf("unexpected stored listings: %+v", listings)
	}
}

func TestClaimStall_NewProductPayload(t *testing.T) {
	f := newFixture(t)
	seedClaimFixture(t, f)
	ctx := context.Background()

	res, err := f.svc.ClaimStall(ctx, ClaimRequest{
		MarketID: "market_1",
		Product:  &domain.Product{Name: "Salatalık", Category: "Sebze", Unit: "kg"},
		Price:    15.00,
	})
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if res.Product.ID == "" {
		t.Error("expected a generated product id")
	}
	if _, err := f.products.Get(ctx, res.Product.ID); err != nil {
		t.Errorf("new product must be stored: %v", err)
	}
}

func TestClaimStall_SkipsTakenStallNumbers(t *testing.T) {
	f := newFixture(t)
	seedClaimFixture(t, f)
	ctx := context.Background()

	// S-001 is already occupied, so the claim must draw past it.
	m, _ := f.markets.Get(ctx, "market_1")
	m.AddStall(domain.Stall{ID: "S-001"})
	if err := f.markets.Put(ctx, m); err != nil {
		t.Fatalf("put market: %v", err)
	}

	res, err := f.svc.ClaimStall(ctx, ClaimRequest{MarketID: "market_1", ProductID: "prod_1", Price: 18.50})
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if res.Stall.ID != "S-002" {
		t.Errorf("expected S-002, got %q", res.Stall.ID)
	}
}

func TestClaimStall_Validation(t *testing.T) {
	f := newFixture(t)
	seedClaimFixture(t, f)
	ctx := context.Background()

	if _, err := f.svc.ClaimStall(ctx, ClaimRequest{ProductID: "prod_1", Price: 18.50}); !errors.Is(err, domain.ErrBadRequest) {
		t.Errorf("missing market: expected ErrBadRequest, got %v", err)
	}
	if _, err := f.svc.ClaimStall(ctx, ClaimRequest{MarketID: "market_1", ProductID: "prod_1"}); !errors.Is(err, domain.ErrBadRequest) {
		t.Errorf("missing price: expected ErrBadRequest, got %v", err)
	}
	if _, err := f.svc.ClaimStall(ctx, ClaimRequest{MarketID: "market_1", Price: 18.50}); !errors.Is(err, domain.ErrBadRequest) {
		t.Errorf("no product reference: expected ErrBadRequest, got %v", err)
	}
	if _, err := f.svc.ClaimStall(ctx, ClaimRequest{MarketID: "market_1", ProductID: "prod_nope", Price: 18.50}); !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("unknown product: expected ErrProductNotFound, got %v", err)
	}
	if _, err := f.svc.ClaimStall(ctx, ClaimRequest{MarketID: "market_nope", ProductID: "prod_1", Price: 18.50}); !errors.Is(err, domain.ErrMarketNotFound) {
		t.Errorf("unknown market: expected ErrMarketNotFound, got %v", err)
	}
}

// failingMarketStore lets the claim read the market but rejects the write
// that appends the stall, forcing the compensating listing delete.
type failingMarketStore struct {
	MarketStore
	puts int
}

func (f *failingMarketStore) Put(ctx context.Context, m domain.Market) error {
	f.puts++
	return errors.New("write refused")
}

func TestClaimStall_RollsBackListingOnStallFailure(t *testing.T) {
	f := newFixture(t)
	seedClaimFixture(t, f)
	ctx := context.Background()

	failing := &failingMarketStore{MarketStore: f.markets}
	svc := New(failing, f.products, f.listings, nil)

	_, err := svc.ClaimStall(ctx, ClaimRequest{MarketID: "market_1", ProductID: "prod_1", Price: 18.50})
	if err == nil {
		t.Fatal("expected the claim to fail")
	}
	if failing.puts != 1 {
		t.Errorf("expected exactly one market write attempt, got %d", failing.puts)
	}

	listings, getErr := f.listings.FindByMarket(ctx, "market_1")
	if getErr != nil {
		t.Fatalf("find listings: %v", getErr)
	}
	if len(listings) != 0 {
		t.Errorf("listing must be rolled back, found %+v", listings)
	}
}
