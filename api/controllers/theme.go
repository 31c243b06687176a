package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/api/views"
	"github.com/angelmondragon/storefront-backend/internal/theme"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

type themeRequest struct {
	Mode string `json:"mode" validate:"required"`
}

func ThemeGet(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := requireWorkspace(w, r, logg)
		if !ok {
			return
		}
		responses.WriteView(w, http.StatusOK, views.NewTheme(ws), nil)
	}
}

func ThemeSet(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := requireWorkspace(w, r, logg)
		if !ok {
			return
		}
		var req themeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		mode, err := theme.ParseMode(req.Mode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if _, err := ws.Theme.Set(r.Context(), mode); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteView(w, http.StatusOK, views.NewTheme(ws), nil)
	}
}

func ThemeToggle(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := requireWorkspace(w, r, logg)
		if !ok {
			return
		}
		ws.Theme.Toggle(r.Context())
		responses.WriteView(w, http.StatusOK, views.NewTheme(ws), nil)
	}
}
