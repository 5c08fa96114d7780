package maproute

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pazar-cloud/pazar/internal/db/memory"
	"github.com/pazar-cloud/pazar/internal/domain"
	marketrepo "github.com/pazar-cloud/pazar/internal/repository/market"
)

func newService(t *testing.T) (*Service, *marketrepo.Repo) {
	t.Helper()
	repo := marketrepo.New(memory.NewStore())
	return New(repo), repo
}

func seedMarket(t *testing.T, repo *marketrepo.Repo) domain.Market {
	t.Helper()
	m := domain.Market{
		ID:   "market_1",
		Name: "Merkez Pazar",
		Map2D: &domain.Map2D{
			Width:  400,
			Height: 300,
			Stalls: []domain.Stall{
				{ID: "A-12", X: 120, Y: 80, Type: "Sebze", VendorName: "Ahmet'in Sebzeleri"},
				{ID: "B-05", X: 250, Y: 150, Z: 1},
			},
		},
		Map3D: &domain.Map3D{Enabled: true, FloorCount: 2},
	}
	if err := repo.Put(context.Background(), m); err != nil {
		t.Fatalf("put market: %v", err)
	}
	return m
}

func TestGetMap(t *testing.T) {
	svc, repo := newService(t)
	want := seedMarket(t, repo)

	got, err := svc.GetMap(context.Background(), "market_1")
	if err != nil {
		t.Fatalf("get map: %v", err)
	}
	if got.MarketID != want.ID || got.MarketName != want.Name {
		t.Errorf("unexpected identity: %+v", got)
	}
	if got.Map2D == nil || got.Map2D.Width != 400 || len(got.Map2D.Stalls) != 2 {
		t.Errorf("unexpected 2D layout: %+v", got.Map2D)
	}
	if got.Map3D == nil || !got.Map3D.Enabled || got.Map3D.FloorCount != 2 {
		t.Errorf("unexpected 3D layout: %+v", got.Map3D)
	}
}

func TestGetMap_UnknownMarket(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.GetMap(context.Background(), "market_nope")
	if !errors.Is(err, domain.ErrMarketNotFound) {
		t.Fatalf("expected ErrMarketNotFound, got %v", err)
	}
}

func TestRoute_ReturnsStallCoordinates(t *testing.T) {
	svc, repo := newService(t)
	seedMarket(t, repo)

	route, err := svc.Route(context.Background(), "market_1", "B-05")
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if route.StallNumber != "B-05" {
		t.Errorf("unexpected stall: %q", route.StallNumber)
	}
	if route.Location.X != 250 || route.Location.Y != 150 || route.Location.Z != 1 {
		t.Errorf("unexpected location: %+v", route.Location)
	}
	if !strings.Contains(route.Directions, "B-05") {
		t.Errorf("directions must name the stall: %q", route.Directions)
	}
	if route.EstimatedTime == "" {
		t.Error("expected a walk time estimate")
	}
}

func TestRoute_UnknownStall(t *testing.T) {
	svc, repo := newService(t)
	seedMarket(t, repo)

	_, err := svc.Route(context.Background(), "market_1", "Z-99")
	if !errors.Is(err, domain.ErrStallNotFound) {
		t.Fatalf("expected ErrStallNotFound, got %v", err)
	}
}

func TestRoute_UnknownMarket(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Route(context.Background(), "market_nope", "A-12")
	if !errors.Is(err, domain.ErrMarketNotFound) {
		t.Fatalf("expected ErrMarketNotFound, got %v", err)
	}
}

func TestRoute_MarketWithoutLayout(t *testing.T) {
	svc, repo := newService(t)
	if err := repo.Put(context.Background(), domain.Market{ID: "market_2", Name: "Boş Pazar"}); err != nil {
		t.Fatalf("put market: %v", err)
	}

	_, err := svc.Route(context.Background(), "market_2", "A-12")
	if !errors.Is(err, domain.ErrStallNotFound) {
		t.Fatalf("expected ErrStallNotFound, got %v", err)
	}
}

func TestMarkets_SortedByID(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	for _, id := range []string{"market_2", "market_1"} {
		if err := repo.Put(ctx, domain.Market{ID: id, Name: id}); err != nil {
			t.Fatalf("put market: %v", err)
		}
	}

	markets, err := svc.Markets(ctx)
	if err != nil {
		t.Fatalf("markets: %v", err)
	}
	if len(markets) != 2 || markets[0].ID != "market_1" || markets[1].ID != "market_2" {
		t.Errorf("unexpected order: %+v", markets)
	}
}

func TestMarket_Get(t *testing.T) {
	svc, repo := newService(t)
	seedMarket(t, repo)

	m, err := svc.Market(context.Background(), "market_1")
	if err != nil {
		t.Fatalf("market: %v", err)
	}
	if m.Name != "Merkez Pazar" {
		t.Errorf("unexpected market: %+v", m)
	}

	if _, err := svc.Market(context.Background(), "nope"); !errors.Is(err, domain.ErrMarketNotFound) {
		t.Fatalf("expected ErrMarketNotFound, got %v", err)
	}
}
