package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/lauracastellan/velora-backend/internal/cart"
	"github.com/lauracastellan/velora-backend/internal/catalog"
	"github.com/lauracastellan/velora-backend/internal/feedback"
	"github.com/lauracastellan/velora-backend/pkg/config"
	pkgerrors "github.com/lauracastellan/velora-backend/pkg/errors"
)

type fixedCatalog struct {
	products []catalog.Product
}

func (f fixedCatalog) List(_ context.Context, spec catalog.FilterSpec) ([]catalog.Product, int, error) {
	filtered := catalog.Apply(f.products, spec)
	return filtered, len(filtered), nil
}

func (f fixedCatalog) Get(_ context.Context, id string) (*catalog.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (f fixedCatalog) Discounted(context.Context) ([]catalog.Product, error)  { return f.products, nil }
func (f fixedCatalog) NewArrivals(context.Context) ([]catalog.Product, error) { return f.products, nil }
func (f fixedCatalog) TopRated(context.Context) ([]catalog.Product, error)    { return f.products, nil }
func (f fixedCatalog) Facets(context.Context) (*catalog.Facets, error) {
	return &catalog.Facets{}, nil
}

type noopSink struct{}

func (noopSink) Submit(context.Context, feedback.Submission) error { return nil }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Env = "dev"
	cfg.Cart.SessionCookie = "velora_session"
	cfg.Cart.SessionTTL = 0
	cfg.Feedback.MaxCommentSize = 4096
	cfg.RateLimit.Disabled = true
	return cfg
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return NewRouter(RouterParams{
		Config: testConfig(),
		Catalog: fixedCatalog{products: []catalog.Product{
			{ID: "1", Brand: "Aria", Price: decimal.NewFromInt(25)},
		}},
		CartRegistry:    cart.NewRegistry(0),
		Feedback:        noopSink{},
		MetricsGatherer: prometheus.NewRegistry(),
	})
}

func TestRouterWiresCoreRoutes(t *testing.T) {
	router := newTestRouter(t)

	for _, target := range []string{
		"/health/live",
		"/health/ready",
		"/metrics",
		"/api/v1/products",
		"/api/v1/products/facets",
		"/api/v1/products/discounted",
		"/api/v1/products/new-arrivals",
		"/api/v1/products/top-rated",
		"/api/v1/products/1",
		"/api/v1/cart",
		"/api/v1/cart/count",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", target, rec.Code)
		}
	}
}

func TestRouterSessionCookieFlowsIntoCart(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"product_id":"1","size":"M","color":"Black","quantity":1}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("add: expected 200 got %d: %s", rec.Code, rec.Body.String())
	}

	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "velora_session" {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatalf("expected a session cookie on first contact")
	}

	// Same cookie sees the same cart.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/cart/count", nil)
	req.AddCookie(sessionCookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope struct {
		Data struct {
			Count int `json:"count"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode count: %v", err)
	}
	if envelope.Data.Count != 1 {
		t.Fatalf("expected count 1 got %d", envelope.Data.Count)
	}

	// A fresh caller gets an empty cart.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/cart/count", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode count: %v", err)
	}
	if envelope.Data.Count != 0 {
		t.Fatalf("expected empty cart for new session, got %d", envelope.Data.Count)
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}
