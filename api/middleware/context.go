package middleware

import (
	"context"

	"github.com/angelmondragon/storefront-backend/internal/workspace"
)

type contextKey string

const ctxWorkspace contextKey = "workspace"

// WorkspaceFromContext returns the workspace resolved by the Workspace middleware.
func WorkspaceFromContext(ctx context.Context) *workspace.Workspace {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxWorkspace).(*workspace.Workspace); ok {
		return v
	}
	return nil
}

// WithWorkspace injects the device workspace into the context for downstream handlers.
func WithWorkspace(ctx context.Context, ws *workspace.Workspace) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxWorkspace, ws)
}
