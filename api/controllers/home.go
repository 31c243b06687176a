package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/views"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// Home renders the landing view with the top remote products. A failed
// fetch renders an empty list.
func Home(topLimit int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := requireWorkspace(w, r, logg)
		if !ok {
			return
		}
		top := ws.Catalog.Top(r.Context(), topLimit)
		responses.WriteView(w, http.StatusOK, views.NewHome(ws, top), nil)
	}
}
