package theme

import (
	"context"
	"testing"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/kvstore"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

func newTestService(t *testing.T, store kvstore.Store) Service {
	t.Helper()
	svc, err := NewService(context.Background(), Deps{Store: store, Logger: logger.Nop()})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestDefaultsToLight(t *testing.T) {
	if got := newTestService(t, kvstore.NewMemory()).Mode(); got != Light {
		t.Fatalf("expected light, got %s", got)
	}
}

func TestTogglePersists(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	svc := newTestService(t, store)

	if got := svc.Toggle(ctx); got != Dark {
		t.Fatalf("expected dark, got %s", got)
	}
	if got := newTestService(t, store).Mode(); got != Dark {
		t.Fatalf("expected persisted dark, got %s", got)
	}
	if got := svc.Toggle(ctx); got != Light {
		t.Fatalf("expected light, got %s", got)
	}
}

func TestSetValidatesMode(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, kvstore.NewMemory())

	if got, err := svc.Set(ctx, "DARK"); err != nil || got != Dark {
		t.Fatalf("expected dark, got %s err=%v", got, err)
	}
	if _, err := svc.Set(ctx, "sepia"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if svc.Mode() != Dark {
		t.Fatalf("invalid set must not change the mode")
	}
}

func TestUnknownStoredValueFallsBack(t *testing.T) {
	store := kvstore.NewMemory()
	_ = store.Set(context.Background(), StorageKey, `"neon"`)
	if got := newTestService(t, store).Mode(); got != Light {
		t.Fatalf("expected light fallback, got %s", got)
	}
}
