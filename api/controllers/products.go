package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/api/views"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/workspace"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/types"
)

// ProductsList renders the catalog, filtered by ?q= when present. A failed
// remote fetch still renders the custom products with an error notice.
func ProductsList(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := requireWorkspace(w, r, logg)
		if !ok {
			return
		}
		res := ws.Catalog.Load(r.Context())
		query := validators.SearchQuery(r)
		list := res.Products
		if query != "" {
			list = ws.Catalog.Search(query)
		}
		responses.WriteView(w, http.StatusOK, views.NewProducts(ws, query, list), res.Notice)
	}
}

func ProductsReload(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := requireWorkspace(w, r, logg)
		if !ok {
			return
		}
		res := ws.Catalog.Reload(r.Context())
		responses.WriteView(w, http.StatusOK, views.NewProducts(ws, "", res.Products), res.Notice)
	}
}

func ProductsCreate(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := requireWorkspace(w, r, logg)
		if !ok {
			return
		}
		var in catalog.Input
		if err := validators.DecodeJSONBody(r, &in); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ws.Catalog.EnsureLoaded(r.Context())
		_, notice, err := ws.Catalog.Add(r.Context(), in)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteView(w, http.StatusCreated, productsView(ws), notice)
	}
}

func ProductsUpdate(logg *logger.Logger) http.HandlerFunc {
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
		var in catalog.Input
		if err := validators.DecodeJSONBody(r, &in); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ws.Catalog.EnsureLoaded(r.Context())
		_, notice, err := ws.Catalog.Edit(r.Context(), id, in)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteView(w, http.StatusOK, productsView(ws), notice)
	}
}

// ProductsDelete removes a product only when the request carries a
// confirmation. Without one it answers CONFIRMATION_REQUIRED and changes nothing.
func ProductsDelete(logg *logger.Logger) http.HandlerFunc {
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
		ws.Catalog.EnsureLoaded(r.Context())
		notice, err := ws.Catalog.Delete(r.Context(), id, requestConfirmation(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteView(w, http.StatusOK, productsView(ws), notice)
	}
}

// ProductDetails is the card's "view details" action. A product without a
// description answers with an error notice.
func ProductDetails(logg *logger.Logger) http.HandlerFunc {
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
		ws.Catalog.EnsureLoaded(r.Context())
		p, err := ws.Catalog.Details(id)
		if err != nil {
			responses.WriteErrorNotice(r.Context(), logg, w, err, detailsNotice(err))
			return
		}
		responses.WriteView(w, http.StatusOK, views.ProductDetails{Header: views.NewHeader(ws), Product: p}, nil)
	}
}

func productsView(ws *workspace.Workspace) views.Products {
	return views.NewProducts(ws, "", ws.Catalog.Products())
}

func detailsNotice(err error) *types.Notice {
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		return nil
	}
	notice := &types.Notice{Level: types.NoticeError, Message: typed.Message()}
	if details, ok := typed.Details().(map[string]any); ok {
		if desc, ok := details["description"].(string); ok {
			notice.Description = desc
		}
	}
	return notice
}
