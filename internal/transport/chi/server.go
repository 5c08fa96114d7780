// Package chi wires the catalog, map and admin use cases to an HTTP API.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pazar-cloud/pazar/internal/domain"
	"github.com/pazar-cloud/pazar/internal/metrics"
	adminuc "github.com/pazar-cloud/pazar/internal/usecase/admin"
	cataloguc "github.com/pazar-cloud/pazar/internal/usecase/catalog"
	healthuc "github.com/pazar-cloud/pazar/internal/usecase/health"
	maprouteuc "github.com/pazar-cloud/pazar/internal/usecase/maproute"
)

// ErrorCode identifies an API error category.
type ErrorCode string

// API error codes.
const (
	CodeBadRequest      ErrorCode = "bad_request"
	CodeUnauthorized    ErrorCode = "unauthorized"
	CodeMarketNotFound  ErrorCode = "market_not_found"
	CodeProductNotFound ErrorCode = "product_not_found"
	CodeListingNotFound ErrorCode = "listing_not_found"
	CodeStallNotFound   ErrorCode = "stall_not_found"
	CodeNotFound        ErrorCode = "not_found"
	CodeConflict        ErrorCode = "conflict"
	CodeInternalError   ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error body for all endpoints.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the catalog over HTTP.
type Server struct {
	catalog       *cataloguc.Service
	maps          *maprouteuc.Service
	admin         *adminuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	catalog *cataloguc.Service,
	maps *maprouteuc.Service,
	admin *adminuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		catalog: catalog,
		maps:    maps,
		admin:   admin,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrMarketNotFound, http.StatusNotFound, CodeMarketNotFound),
		sentinelHandler(domain.ErrProductNotFound, http.StatusNotFound, CodeProductNotFound),
		sentinelHandler(domain.ErrListingNotFound, http.StatusNotFound, CodeListingNotFound),
		sentinelHandler(domain.ErrStallNotFound, http.StatusNotFound, CodeStallNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrBadRequest, http.StatusBadRequest, CodeBadRequest),
		sentinelHandler(domain.ErrConflict, http.StatusConflict, CodeConflict),
	}
	return s
}

// Routes registers every endpoint on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api", func(r chi.Router) {
		r.Route("/markets", func(r chi.Router) {
			r.Get("/", s.ListMarkets)
			r.Get("/{marketId}", s.GetMarket)
			r.Get("/{marketId}/map", s.GetMarketMap)
			r.Get("/{marketId}/route/{stallNumber}", s.GetRoute)
			r.Get("/{marketId}/products", s.ListMarketProducts)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", s.ListProducts)
			r.Get("/search", s.SearchProducts)
			r.Get("/category/{category}", s.ProductsByCategory)
			r.Get("/{productId}", s.GetProduct)
			r.Get("/{productId}/prices", s.GetPrices)
			r.Get("/{productId}/cheapest", s.GetCheapest)
		})

		r.Post("/seller/stall/claim", s.ClaimStall)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/dashboard", s.GetDashboard)
			r.Get("/stats", s.GetStats)

			r.Post("/markets", s.CreateMarket)
			r.Put("/markets/{marketId}", s.UpdateMarket)
			r.Delete("/markets/{marketId}", s.DeleteMarket)

			r.Post("/products", s.CreateProduct)
			r.Put("/products/{productId}", s.UpdateProduct)
			r.Delete("/products/{productId}", s.DeleteProduct)

			r.Post("/markets/{marketId}/listings", s.AddListing)
			r.Delete("/markets/{marketId}/listings", s.RemoveListing)

			r.Post("/markets/{marketId}/stalls", s.AddStall)
			r.Delete("/markets/{marketId}/stalls/{stallId}", s.RemoveStall)
		})
	})
}

// ListMarkets handles GET /api/markets.
func (s *Server) ListMarkets(w http.ResponseWriter, r *http.Request) {
	markets, err := s.maps.Markets(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, markets)
}

// GetMarket handles GET /api/markets/{marketId}.
func (s *Server) GetMarket(w http.ResponseWriter, r *http.Request) {
	market, err := s.maps.Market(r.Context(), chi.URLParam(r, "marketId"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, market)
}

// GetMarketMap handles GET /api/markets/{marketId}/map.
func (s *Server) GetMarketMap(w http.ResponseWriter, r *http.Request) {
	m, err := s.maps.GetMap(r.Context(), chi.URLParam(r, "marketId"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// GetRoute handles GET /api/markets/{marketId}/route/{stallNumber}.
func (s *Server) GetRoute(w http.ResponseWriter, r *http.Request) {
	route, err := s.maps.Route(r.Context(), chi.URLParam(r, "marketId"), chi.URLParam(r, "stallNumber"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	metrics.RouteLookupsTotal.Inc()
	writeJSON(w, http.StatusOK, route)
}

// ListMarketProducts handles GET /api/markets/{marketId}/products.
func (s *Server) ListMarketProducts(w http.ResponseWriter, r *http.Request) {
	listings, err := s.catalog.ListingsForMarket(r.Context(), chi.URLParam(r, "marketId"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if listings == nil {
		listings = []domain.Listing{}
	}
	writeJSON(w, http.StatusOK, listings)
}

// ListProducts handles GET /api/products.
func (s *Server) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.catalog.Products(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// GetProduct handles GET /api/products/{productId}.
func (s *Server) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := s.catalog.Product(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// SearchProducts handles GET /api/products/search?query=&marketId=.
func (s *Server) SearchProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "query parameter is required")
		return
	}
	marketID := r.URL.Query().Get("marketId")

	result, err := s.catalog.Search(r.Context(), query, marketID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	scope := "global"
	if marketID != "" {
		scope = "market"
	}
	metrics.SearchesTotal.WithLabelValues(scope).Inc()
	metrics.SearchResultsReturned.Observe(float64(result.Count))

	writeJSON(w, http.StatusOK, result)
}

// ProductsByCategory handles GET /api/products/category/{category}.
func (s *Server) ProductsByCategory(w http.ResponseWriter, r *http.Request) {
	products, err := s.catalog.ByCategory(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// GetPrices handles GET /api/products/{productId}/prices?marketId=.
func (s *Server) GetPrices(w http.ResponseWriter, r *http.Request) {
	marketID := r.URL.Query().Get("marketId")
	if marketID == "" {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "marketId parameter is required")
		return
	}

	summary, err := s.catalog.Summary(r.Context(), chi.URLParam(r, "productId"), marketID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// GetCheapest handles GET /api/products/{productId}/cheapest?marketId=.
func (s *Server) GetCheapest(w http.ResponseWriter, r *http.Request) {
	marketID := r.URL.Query().Get("marketId")
	if marketID == "" {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "marketId parameter is required")
		return
	}

	result, err := s.catalog.Cheapest(r.Context(), chi.URLParam(r, "productId"), marketID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ClaimStall handles POST /api/seller/stall/claim.
func (s *Server) ClaimStall(w http.ResponseWriter, r *http.Request) {
	var req adminuc.ClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := s.admin.ClaimStall(r.Context(), req)
	if err != nil {
		metrics.StallClaimsTotal.WithLabelValues("error").Inc()
		s.handleDomainError(w, err)
		return
	}

	metrics.StallClaimsTotal.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusCreated, result)
}

// CreateMarket handles POST /api/admin/markets.
func (s *Server) CreateMarket(w http.ResponseWriter, r *http.Request) {
	var m domain.Market
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	created, err := s.admin.CreateMarket(r.Context(), m)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateMarket handles PUT /api/admin/markets/{marketId}.
func (s *Server) UpdateMarket(w http.ResponseWriter, r *http.Request) {
	var upd adminuc.MarketUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	updated, err := s.admin.UpdateMarket(r.Context(), chi.URLParam(r, "marketId"), upd)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteMarket handles DELETE /api/admin/markets/{marketId}.
func (s *Server) DeleteMarket(w http.ResponseWriter, r *http.Request) {
	if err := s.admin.DeleteMarket(r.Context(), chi.URLParam(r, "marketId")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateProduct handles POST /api/admin/products.
func (s *Server) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	created, err := s.admin.CreateProduct(r.Context(), p)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateProduct handles PUT /api/admin/products/{productId}.
func (s *Server) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var upd adminuc.ProductUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	updated, err := s.admin.UpdateProduct(r.Context(), chi.URLParam(r, "productId"), upd)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteProduct handles DELETE /api/admin/products/{productId}.
func (s *Server) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.admin.DeleteProduct(r.Context(), chi.URLParam(r, "productId")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddListing handles POST /api/admin/markets/{marketId}/listings.
func (s *Server) AddListing(w http.ResponseWriter, r *http.Request) {
	var l domain.Listing
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	created, err := s.admin.AddListing(r.Context(), chi.URLParam(r, "marketId"), l)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// RemoveListing handles DELETE /api/admin/markets/{marketId}/listings?productId=&stallNumber=.
func (s *Server) RemoveListing(w http.ResponseWriter, r *http.Request) {
	productID := r.URL.Query().Get("productId")
	stallNumber := r.URL.Query().Get("stallNumber")
	if productID == "" || stallNumber == "" {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "productId and stallNumber parameters are required")
		return
	}

	removed, err := s.admin.RemoveListing(r.Context(), chi.URLParam(r, "marketId"), productID, stallNumber)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

// AddStall handles POST /api/admin/markets/{marketId}/stalls.
func (s *Server) AddStall(w http.ResponseWriter, r *http.Request) {
	var stall domain.Stall
	if err := json.NewDecoder(r.Body).Decode(&stall); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	created, err := s.admin.AddStall(r.Context(), chi.URLParam(r, "marketId"), stall)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// RemoveStall handles DELETE /api/admin/markets/{marketId}/stalls/{stallId}.
func (s *Server) RemoveStall(w http.ResponseWriter, r *http.Request) {
	removed, err := s.admin.RemoveStall(r.Context(), chi.URLParam(r, "marketId"), chi.URLParam(r, "stallId"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

// GetDashboard handles GET /api/admin/dashboard.
func (s *Server) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := s.admin.GetDashboard(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

// GetStats handles GET /api/admin/stats.
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.admin.GetStats(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrMarketNotFound,
		domain.ErrProductNotFound,
		domain.ErrListingNotFound,
		domain.ErrStallNotFound,
		domain.ErrNotFound,
		domain.ErrBadRequest,
		domain.ErrConflict,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
