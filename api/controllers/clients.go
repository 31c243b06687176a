package controllers

import (
	"math"
	"net/http"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/api/views"
	"github.com/angelmondragon/storefront-backend/internal/clients"
	"github.com/angelmondragon/storefront-backend/internal/workspace"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// ClientsList renders one page of the registry. Out-of-range pages are clamped.
func ClientsList(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := requireWorkspace(w, r, logg)
		if !ok {
			return
		}
		page, err := validators.ParseQueryInt(r, "page", 1, math.MinInt32, math.MaxInt32)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteView(w, http.StatusOK, views.NewClients(ws, ws.Clients.Page(page)), nil)
	}
}

func ClientsCreate(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := requireWorkspace(w, r, logg)
		if !ok {
			return
		}
		var in clients.Input
		if err := validators.DecodeJSONBody(r, &in); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		_, notice, err := ws.Clients.Add(r.Context(), in)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteView(w, http.StatusCreated, lastClientsPage(ws), notice)
	}
}

func ClientsUpdate(logg *logger.Logger) http.HandlerFunc {
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
		var in clients.Input
		if err := validators.DecodeJSONBody(r, &in); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		_, notice, err := ws.Clients.Update(r.Context(), id, in)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteView(w, http.StatusOK, views.NewClients(ws, ws.Clients.Page(1)), notice)
	}
}

func ClientsDelete(logg *logger.Logger) http.HandlerFunc {
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
		notice, err := ws.Clients.Delete(r.Context(), id, requestConfirmation(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteView(w, http.StatusOK, views.NewClients(ws, ws.Clients.Page(1)), notice)
	}
}

// lastClientsPage shows the page holding the newest record.
func lastClientsPage(ws *workspace.Workspace) views.Clients {
	first := ws.Clients.Page(1)
	return views.NewClients(ws, ws.Clients.Page(first.Window.TotalPages))
}
