package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/lauracastellan/velora-backend/api/middleware"
	"github.com/lauracastellan/velora-backend/api/responses"
	"github.com/lauracastellan/velora-backend/api/validators"
	"github.com/lauracastellan/velora-backend/internal/cart"
	"github.com/lauracastellan/velora-backend/internal/catalog"
	pkgerrors "github.com/lauracastellan/velora-backend/pkg/errors"
	"github.com/lauracastellan/velora-backend/pkg/logger"
)

type cartResponse struct {
	Items     []cart.LineItem `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

type cartCountResponse struct {
	Count int `json:"count"`
}

func newCartResponse(state cart.State) cartResponse {
	return cartResponse{
		Items:     state.Items,
		Total:     state.Total,
		ItemCount: state.ItemCount(),
	}
}

func sessionStore(r *http.Request, registry *cart.Registry) (*cart.Store, error) {
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session context missing")
	}
	return registry.Get(sessionID), nil
}

// CartGet serves the session's full cart.
func CartGet(registry *cart.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if registry == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart registry unavailable"))
			return
		}

		store, err := sessionStore(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(store.Snapshot()))
	}
}

// CartCount serves just the header badge number.
func CartCount(registry *cart.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if registry == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart registry unavailable"))
			return
		}

		store, err := sessionStore(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartCountResponse{Count: store.ItemCount()})
	}
}

type addCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Size      string `json:"size" validate:"required"`
	Color     string `json:"color" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// CartAddItem adds a selection to the session's cart. The product record is
// resolved through the catalog service so the stored price always comes from
// the source, never the client.
func CartAddItem(registry *cart.Registry, svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if registry == nil || svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart dependencies unavailable"))
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithProductID(ctx, payload.ProductID)
		}

		product, err := svc.Get(ctx, payload.ProductID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		store, err := sessionStore(r, registry)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		state := store.Add(*product, payload.Size, payload.Color, payload.Quantity)
		responses.WriteSuccess(w, newCartResponse(state))
	}
}

type updateCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Size      string `json:"size" validate:"required"`
	Color     string `json:"color" validate:"required"`
	Quantity  *int   `json:"quantity" validate:"required,gte=0"`
}

// CartUpdateItem overwrites a line's quantity. Zero removes the line, and a
// key that matches nothing leaves the cart as it was.
func CartUpdateItem(registry *cart.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if registry == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart registry unavailable"))
			return
		}

		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := sessionStore(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state := store.UpdateQuantity(payload.ProductID, payload.Size, payload.Color, *payload.Quantity)
		responses.WriteSuccess(w, newCartResponse(state))
	}
}

type removeCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Size      string `json:"size" validate:"required"`
	Color     string `json:"color" validate:"required"`
}

// CartRemoveItem drops a line by its composite key.
func CartRemoveItem(registry *cart.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if registry == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart registry unavailable"))
			return
		}

		var payload removeCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := sessionStore(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state := store.Remove(payload.ProductID, payload.Size, payload.Color)
		responses.WriteSuccess(w, newCartResponse(state))
	}
}

// CartClear empties the session's cart.
func CartClear(registry *cart.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if registry == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart registry unavailable"))
			return
		}

		store, err := sessionStore(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(store.Clear()))
	}
}
