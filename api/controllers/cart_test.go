package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lauracastellan/velora-backend/api/middleware"
	"github.com/lauracastellan/velora-backend/internal/cart"
	"github.com/lauracastellan/velora-backend/internal/catalog"
)

func newSessionRequest(method, target string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(middleware.WithSessionID(req.Context(), uuid.NewString()))
}

func decodeCartResponse(t *testing.T, rec *httptest.ResponseRecorder) cartResponse {
	t.Helper()
	var envelope struct {
		Data cartResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Data
}

func TestCartAddItemResolvesProductFromCatalog(t *testing.T) {
	registry := cart.NewRegistry(time.Hour)
	svc := &stubCatalogService{products: []catalog.Product{
		{ID: "7", Title: "Canvas Tote", Price: decimal.NewFromFloat(19.99)},
	}}
	handler := CartAddItem(registry, svc, nil)

	body := []byte(`{"product_id":"7","size":"M","color":"Natural","quantity":2}`)
	req := newSessionRequest(http.MethodPost, "/api/v1/cart/items", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}

	state := decodeCartResponse(t, rec)
	if state.ItemCount != 2 {
		t.Fatalf("expected item count 2 got %d", state.ItemCount)
	}
	if len(state.Items) != 1 {
		t.Fatalf("expected one line got %d", len(state.Items))
	}
	if state.Items[0].Product.Title != "Canvas Tote" {
		t.Fatalf("product should come from the catalog, got %+v", state.Items[0].Product)
	}
	if !state.Total.Equal(decimal.NewFromFloat(39.98)) {
		t.Fatalf("unexpected total %s", state.Total)
	}
}

func TestCartAddItemRejectsUnknownProduct(t *testing.T) {
	registry := cart.NewRegistry(time.Hour)
	handler := CartAddItem(registry, &stubCatalogService{}, nil)

	body := []byte(`{"product_id":"missing","size":"M","color":"Black","quantity":1}`)
	req := newSessionRequest(http.MethodPost, "/api/v1/cart/items", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestCartAddItemRejectsZeroQuantity(t *testing.T) {
	registry := cart.NewRegistry(time.Hour)
	svc := &stubCatalogService{products: sampleProducts()}
	handler := CartAddItem(registry, svc, nil)

	body := []byte(`{"product_id":"1","size":"M","color":"White","quantity":0}`)
	req := newSessionRequest(http.MethodPost, "/api/v1/cart/items", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestCartUpdateItemZeroRemovesLine(t *testing.T) {
	registry := cart.NewRegistry(time.Hour)
	sessionID := uuid.NewString()
	store := registry.Get(sessionID)
	store.Add(catalog.Product{ID: "7", Price: decimal.NewFromInt(10)}, "M", "Black", 3)

	handler := CartUpdateItem(registry, nil)
	body := []byte(`{"product_id":"7","size":"M","color":"Black","quantity":0}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/cart/items", bytes.NewReader(body))
	req = req.WithContext(middleware.WithSessionID(req.Context(), sessionID))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	state := decodeCartResponse(t, rec)
	if len(state.Items) != 0 {
		t.Fatalf("expected empty cart got %d lines", len(state.Items))
	}
	if !state.Total.IsZero() {
		t.Fatalf("expected zero total got %s", state.Total)
	}
}

func TestCartUpdateItemRequiresQuantity(t *testing.T) {
	registry := cart.NewRegistry(time.Hour)
	handler := CartUpdateItem(registry, nil)

	body := []byte(`{"product_id":"7","size":"M","color":"Black"}`)
	req := newSessionRequest(http.MethodPatch, "/api/v1/cart/items", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestCartRemoveItem(t *testing.T) {
	registry := cart.NewRegistry(time.Hour)
	sessionID := uuid.NewString()
	store := registry.Get(sessionID)
	store.Add(catalog.Product{ID: "7", Price: decimal.NewFromInt(10)}, "M", "Black", 1)
	store.Add(catalog.Product{ID: "8", Price: decimal.NewFromInt(20)}, "L", "White", 1)

	handler := CartRemoveItem(registry, nil)
	body := []byte(`{"product_id":"7","size":"M","color":"Black"}`)
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items", bytes.NewReader(body))
	req = req.WithContext(middleware.WithSessionID(req.Context(), sessionID))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	state := decodeCartResponse(t, rec)
	if len(state.Items) != 1 || state.Items[0].Product.ID != "8" {
		t.Fatalf("expected only product 8 to remain, got %+v", state.Items)
	}
}

func TestCartGetAndCountAndClear(t *testing.T) {
	registry := cart.NewRegistry(time.Hour)
	sessionID := uuid.NewString()
	store := registry.Get(sessionID)
	store.Add(catalog.Product{ID: "7", Price: decimal.NewFromInt(10)}, "M", "Black", 4)

	withSession := func(method, target string) *http.Request {
		req := httptest.NewRequest(method, target, nil)
		return req.WithContext(middleware.WithSessionID(req.Context(), sessionID))
	}

	rec := httptest.NewRecorder()
	CartGet(registry, nil).ServeHTTP(rec, withSession(http.MethodGet, "/api/v1/cart"))
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200 got %d", rec.Code)
	}
	if state := decodeCartResponse(t, rec); state.ItemCount != 4 {
		t.Fatalf("get: expected count 4 got %d", state.ItemCount)
	}

	rec = httptest.NewRecorder()
	CartCount(registry, nil).ServeHTTP(rec, withSession(http.MethodGet, "/api/v1/cart/count"))
	var countEnvelope struct {
		Data cartCountResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&countEnvelope); err != nil {
		t.Fatalf("count: decode response: %v", err)
	}
	if countEnvelope.Data.Count != 4 {
		t.Fatalf("count: expected 4 got %d", countEnvelope.Data.Count)
	}

	rec = httptest.NewRecorder()
	CartClear(registry, nil).ServeHTTP(rec, withSession(http.MethodDelete, "/api/v1/cart"))
	if rec.Code != http.StatusOK {
		t.Fatalf("clear: expected 200 got %d", rec.Code)
	}
	if state := decodeCartResponse(t, rec); len(state.Items) != 0 {
		t.Fatalf("clear: expected empty cart got %+v", state.Items)
	}
}

func TestCartsAreIsolatedBySession(t *testing.T) {
	registry := cart.NewRegistry(time.Hour)
	svc := &stubCatalogService{products: sampleProducts()}
	handler := CartAddItem(registry, svc, nil)

	body := []byte(`{"product_id":"1","size":"M","color":"White","quantity":1}`)
	req := newSessionRequest(http.MethodPost, "/api/v1/cart/items", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	other := newSessionRequest(http.MethodGet, "/api/v1/cart", nil)
	rec = httptest.NewRecorder()
	CartGet(registry, nil).ServeHTTP(rec, other)
	if state := decodeCartResponse(t, rec); len(state.Items) != 0 {
		t.Fatalf("sessions should not share carts, got %+v", state.Items)
	}
}

func TestCartHandlersRequireSession(t *testing.T) {
	registry := cart.NewRegistry(time.Hour)
	handler := CartGet(registry, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 without session middleware, got %d", rec.Code)
	}
}
