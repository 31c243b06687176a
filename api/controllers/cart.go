package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/api/views"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

type cartAddRequest struct {
	ProductID int64 `json:"product_id" validate:"required,min=1"`
}

func CartView(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := requireWorkspace(w, r, logg)
		if !ok {
			return
		}
		responses.WriteView(w, http.StatusOK, views.NewCart(ws), nil)
	}
}

// CartAdd adds one unit of a catalog product to the device cart.
func CartAdd(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := requireWorkspace(w, r, logg)
		if !ok {
			return
		}
		var req cartAddRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ws.Catalog.EnsureLoaded(r.Context())
		product, err := ws.Catalog.Get(req.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ws.Cart.Add(r.Context(), product)
		responses.WriteView(w, http.StatusOK, views.NewCart(ws), nil)
	}
}

func CartRemove(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := requireWorkspace(w, r, logg)
		if !ok {
			return
		}
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		// Removing a product that is not in the cart leaves it unchanged.
		ws.Cart.Remove(r.Context(), id)
		responses.WriteView(w, http.StatusOK, views.NewCart(ws), nil)
	}
}

func CartClear(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := requireWorkspace(w, r, logg)
		if !ok {
			return
		}
		ws.Cart.Clear(r.Context())
		responses.WriteView(w, http.StatusOK, views.NewCart(ws), nil)
	}
}
