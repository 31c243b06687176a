package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/internal/workspace"
	"github.com/angelmondragon/storefront-backend/pkg/confirm"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

const confirmHeader = "X-Confirm"

// requireWorkspace returns the device workspace or writes an internal error
// when the route was mounted without the Workspace middleware.
func requireWorkspace(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (*workspace.Workspace, bool) {
	ws := middleware.WorkspaceFromContext(r.Context())
	if ws == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "workspace missing from context"))
		return nil, false
	}
	return ws, true
}

// requestConfirmation maps ?confirm=true or X-Confirm: yes onto a fixed answer.
func requestConfirmation(r *http.Request) confirm.Confirmer {
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("confirm")))
	h := strings.ToLower(strings.TrimSpace(r.Header.Get(confirmHeader)))
	return confirm.Always(q == "true" || q == "yes" || q == "1" || h == "yes" || h == "true")
}
