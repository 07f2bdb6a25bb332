package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lauracastellan/velora-backend/api/responses"
	"github.com/lauracastellan/velora-backend/api/validators"
	"github.com/lauracastellan/velora-backend/internal/catalog"
	pkgerrors "github.com/lauracastellan/velora-backend/pkg/errors"
	"github.com/lauracastellan/velora-backend/pkg/logger"
)

type productListResponse struct {
	Items []catalog.Product `json:"items"`
	Count int               `json:"count"`
}

// ListProducts serves the listing page: the catalog filtered and sorted by
// the query string, plus the visible count.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		spec, err := validators.ParseFilterSpec(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, count, err := svc.List(r.Context(), spec)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, productListResponse{Items: items, Count: count})
	}
}

// GetProduct serves a single product by id.
func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID := strings.TrimSpace(chi.URLParam(r, "productId"))
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithProductID(ctx, productID)
		}

		product, err := svc.Get(ctx, productID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// DiscountedProducts serves the products ingestion marked down.
func DiscountedProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return derivedView(svc, logg, func(r *http.Request) ([]catalog.Product, error) {
		return svc.Discounted(r.Context())
	})
}

// NewArrivals serves the products ingestion flagged as new.
func NewArrivals(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return derivedView(svc, logg, func(r *http.Request) ([]catalog.Product, error) {
		return svc.NewArrivals(r.Context())
	})
}

// TopRated serves the best rated slice of the catalog.
func TopRated(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return derivedView(svc, logg, func(r *http.Request) ([]catalog.Product, error) {
		return svc.TopRated(r.Context())
	})
}

func derivedView(svc catalog.Service, logg *logger.Logger, load func(*http.Request) ([]catalog.Product, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		items, err := load(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, productListResponse{Items: items, Count: len(items)})
	}
}

// ProductFacets serves the distinct filter values the listing sidebar
// renders.
func ProductFacets(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		facets, err := svc.Facets(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, facets)
	}
}
