package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/views"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

func NotFound(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := requireWorkspace(w, r, logg)
		if !ok {
			return
		}
		if logg != nil {
			logg.Warn(logg.WithField(r.Context(), "path", r.URL.Path), "route.not_found")
		}
		responses.WriteView(w, http.StatusNotFound, views.NewNotFound(ws), nil)
	}
}
