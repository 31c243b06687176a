package middleware

import (
	"context"
	"net/http"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/internal/workspace"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

const DeviceIDHeader = "X-Device-Id"

// WorkspaceResolver is the part of the workspace manager the middleware needs.
type WorkspaceResolver interface {
	Get(ctx context.Context, deviceID string) (*workspace.Workspace, error)
}

// Workspace resolves the caller's workspace from X-Device-Id. Requests
// without the header share the default workspace.
func Workspace(resolver WorkspaceResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ws, err := resolver.Get(ctx, r.Header.Get(DeviceIDHeader))
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			if logg != nil {
				ctx = logg.WithDeviceID(ctx, ws.DeviceID)
			}
			w.Header().Set(DeviceIDHeader, ws.DeviceID)
			next.ServeHTTP(w, r.WithContext(WithWorkspace(ctx, ws)))
		})
	}
}
