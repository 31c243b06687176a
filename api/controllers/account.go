package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/views"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

func Account(acct config.AccountConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := requireWorkspace(w, r, logg)
		if !ok {
			return
		}
		responses.WriteView(w, http.StatusOK, views.NewAccount(ws, acct), nil)
	}
}
