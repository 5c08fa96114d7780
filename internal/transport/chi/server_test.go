package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/pazar-cloud/pazar/internal/db/memory"
	"github.com/pazar-cloud/pazar/internal/domain"
	listingrepo "github.com/pazar-cloud/pazar/internal/repository/listing"
	marketrepo "github.com/pazar-cloud/pazar/internal/repository/market"
	productrepo "github.com/pazar-cloud/pazar/internal/repository/product"
	adminuc "github.com/pazar-cloud/pazar/internal/usecase/admin"
	cataloguc "github.com/pazar-cloud/pazar/internal/usecase/catalog"
	healthuc "github.com/pazar-cloud/pazar/internal/usecase/health"
	maprouteuc "github.com/pazar-cloud/pazar/internal/usecase/maproute"
)

func newTestRouter(t *testing.T) (http.Handler, *adminuc.Service) {
	t.Helper()

	store := memory.NewStore()
	markets := marketrepo.New(store)
	products := productrepo.New(store)
	listings := listingrepo.New(store)

	catalog := cataloguc.New(products, listings, markets)
	maps := maprouteuc.New(markets)
	admin := adminuc.New(markets, products, listings, zap.NewNop())
	health := healthuc.New(store)

	srv := NewServer(catalog, maps, admin, health, zap.NewNop())
	r := chirouter.NewRouter()
	srv.Routes(r)
	return r, admin
}

func seedTestData(t *testing.T, admin *adminuc.Service) (domain.Market, domain.Product) {
	t.Helper()
	ctx := context.Background()

	market, err := admin.CreateMarket(ctx, domain.Market{
		Name:        "Merkez Pazar",
		Address:     "Kadıköy",
		IsOpenToday: true,
	})
	if err != nil {
		t.Fatalf("create market: %v", err)
	}

	product, err := admin.CreateProduct(ctx, domain.Product{
		Name:     "Domates",
		Category: "Sebze",
		Unit:     "kg",
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	if _, err := admin.AddStall(ctx, market.ID, domain.Stall{ID: "A-12", X: 120, Y: 80}); err != nil {
		t.Fatalf("add stall: %v", err)
	}
	if _, err := admin.AddListing(ctx, market.ID, domain.Listing{
		ProductID:   product.ID,
		Price:       18.50,
		StallNumber: "A-12",
		X:           120,
		Y:           80,
		VendorName:  "Ahmet'in Sebzeleri",
	}); err != nil {
		t.Fatalf("add listing: %v", err)
	}

	return market, product
}

func TestHealthCheck_OK(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body["status"])
	}
}

func TestSearchProducts_MissingQuery_400(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/api/products/search", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestSearchProducts_WireShape(t *testing.T) {
	router, admin := newTestRouter(t)
	market, _ := seedTestData(t, admin)

	req := httptest.NewRequest("GET", "/api/products/search?query=dom&marketId="+market.ID, http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var body struct {
		Query       string           `json:"query"`
		Results     []map[string]any `json:"results"`
		Count       int              `json:"count"`
		Suggestions []string         `json:"aiSuggestions"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Query != "dom" {
		t.Errorf("expected query 'dom', got %q", body.Query)
	}
	if body.Count != 1 || len(body.Results) != 1 {
		t.Fatalf("expected one match, got count=%d results=%d", body.Count, len(body.Results))
	}
	if body.Results[0]["name"] != "Domates" {
		t.Errorf("expected Domates, got %v", body.Results[0]["name"])
	}
	if body.Results[0]["minPrice"] != 18.50 {
		t.Errorf("expected minPrice 18.50, got %v", body.Results[0]["minPrice"])
	}
}

func TestGetCheapest_UnknownProduct_404(t *testing.T) {
	router, admin := newTestRouter(t)
	market, _ := seedTestData(t, admin)

	req := httptest.NewRequest("GET", "/api/products/prod_nope/cheapest?marketId="+market.ID, http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errResp.Code != CodeProductNotFound {
		t.Errorf("expected code %s, got %s", CodeProductNotFound, errResp.Code)
	}
}

func TestGetPrices_UnknownMarket_400(t *testing.T) {
	router, admin := newTestRouter(t)
	_, product := seedTestData(t, admin)

	req := httptest.NewRequest("GET", "/api/products/"+product.ID+"/prices?marketId=market_nope", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestGetRoute_ReturnsStallCoordinates(t *testing.T) {
	router, admin := newTestRouter(t)
	market, _ := seedTestData(t, admin)

	req := httptest.NewRequest("GET", "/api/markets/"+market.ID+"/route/A-12", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var route domain.Route
	if err := json.NewDecoder(rr.Body).Decode(&route); err != nil {
		t.Fatalf("decode route: %v", err)
	}
	if route.StallNumber != "A-12" {
		t.Errorf("expected stall A-12, got %q", route.StallNumber)
	}
	if route.Location.X != 120 || route.Location.Y != 80 {
		t.Errorf("unexpected location: %+v", route.Location)
	}
	if route.EstimatedTime != domain.EstimatedWalkTime {
		t.Errorf("expected estimated time %q, got %q", domain.EstimatedWalkTime, route.EstimatedTime)
	}
}

func TestGetRoute_UnknownStall_404(t *testing.T) {
	router, admin := newTestRouter(t)
	market, _ := seedTestData(t, admin)

	req := httptest.NewRequest("GET", "/api/markets/"+market.ID+"/route/Z-99", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestClaimStall_CreatesListingAndStall(t *testing.T) {
	router, admin := newTestRouter(t)
	market, product := seedTestData(t, admin)

	payload := map[string]any{
		"marketId":   market.ID,
		"productId":  product.ID,
		"price":      22.0,
		"x":          200.0,
		"y":          100.0,
		"vendorName": "Yeni Satıcı",
	}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest("POST", "/api/seller/stall/claim", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var result adminuc.ClaimResult
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Listing.StallNumber != result.Stall.ID {
		t.Errorf("listing stall %q does not match stall id %q", result.Listing.StallNumber, result.Stall.ID)
	}

	// The new stall must be routable.
	routeReq := httptest.NewRequest("GET", "/api/markets/"+market.ID+"/route/"+result.Stall.ID, http.NoBody)
	routeRR := httptest.NewRecorder()
	router.ServeHTTP(routeRR, routeReq)
	if routeRR.Code != http.StatusOK {
		t.Errorf("expected claimed stall to be routable, got %d", routeRR.Code)
	}
}

func TestAdminCreateMarket_FillsDefaults(t *testing.T) {
	router, _ := newTestRouter(t)

	body, _ := json.Marshal(map[string]any{"name": "Yeni Pazar"})
	req := httptest.NewRequest("POST", "/api/admin/markets", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var market domain.Market
	if err := json.NewDecoder(rr.Body).Decode(&market); err != nil {
		t.Fatalf("decode market: %v", err)
	}
	if market.ID == "" {
		t.Error("expected generated market id")
	}
	if market.Map2D == nil || market.Map2D.Width != 400 || market.Map2D.Height != 300 {
		t.Errorf("expected default 400x300 layout, got %+v", market.Map2D)
	}
	if market.Map3D == nil || !market.Map3D.Enabled || market.Map3D.FloorCount != 1 {
		t.Errorf("expected default 3D layout, got %+v", market.Map3D)
	}
}

func TestAdminRemoveStall_ReportsRemoval(t *testing.T) {
	router, admin := newTestRouter(t)
	market, _ := seedTestData(t, admin)

	req := httptest.NewRequest("DELETE", "/api/admin/markets/"+market.ID+"/stalls/A-12", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body map[string]bool
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !body["removed"] {
		t.Error("expected removed=true")
	}

	// Second removal is a no-op.
	rr2 := httptest.NewRecorder()
	router.ServeHTTP(rr2, httptest.NewRequest("DELETE", "/api/admin/markets/"+market.ID+"/stalls/A-12", http.NoBody))
	if rr2.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr2.Code)
	}
	var body2 map[string]bool
	_ = json.NewDecoder(rr2.Body).Decode(&body2)
	if body2["removed"] {
		t.Error("expected removed=false on second delete")
	}
}

func TestAdminDashboard_Counts(t *testing.T) {
	router, admin := newTestRouter(t)
	seedTestData(t, admin)

	req := httptest.NewRequest("GET", "/api/admin/dashboard", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var dash adminuc.Dashboard
	if err := json.NewDecoder(rr.Body).Decode(&dash); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if dash.TotalMarkets != 1 || dash.TotalProducts != 1 || dash.TotalListings != 1 {
		t.Errorf("unexpected counts: %+v", dash)
	}
}
