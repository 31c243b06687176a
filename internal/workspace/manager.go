// Package workspace builds the per-device bundle of cart, catalog, client
// registry and theme that every view and CLI command operates on.
package workspace

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/clients"
	"github.com/angelmondragon/storefront-backend/internal/theme"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/events"
	"github.com/angelmondragon/storefront-backend/pkg/ids"
	"github.com/angelmondragon/storefront-backend/pkg/kvstore"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
)

// DefaultDeviceID is used when a caller does not identify itself.
const DefaultDeviceID = "local"

var deviceIDRe = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// NormalizeDeviceID trims raw and falls back to DefaultDeviceID when empty.
func NormalizeDeviceID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return DefaultDeviceID, nil
	}
	if !deviceIDRe.MatchString(id) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid device id").WithDetails(map[string]string{"device_id": "must be 1-64 letters, digits, dot, dash or underscore"})
	}
	return id, nil
}

// Workspace is everything one device sees. The Cart is shared by every view
// of the device.
type Workspace struct {
	DeviceID string
	Cart     cart.Service
	Catalog  catalog.Service
	Clients  clients.Service
	Theme    theme.Service

	badge       atomic.Int64
	unsubscribe func()
}

// Badge is the cart item count shown in the header, kept current by a cart subscription.
func (w *Workspace) Badge() int {
	return int(w.badge.Load())
}

type Deps struct {
	Store           kvstore.Store
	Source          catalog.Source
	Publisher       events.Publisher
	Logger          *logger.Logger
	Metrics         *metrics.Storefront
	Catalog         catalog.Settings
	ClientsPageSize int
}

// Manager creates workspaces lazily, once per device id.
type Manager struct {
	deps Deps
	ids  *ids.Generator

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

func NewManager(deps Deps) (*Manager, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("store required")
	}
	if deps.Source == nil {
		return nil, fmt.Errorf("product source required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if deps.Publisher == nil {
		deps.Publisher = events.Noop{}
	}
	return &Manager{
		deps:       deps,
		ids:        ids.NewGenerator(),
		workspaces: map[string]*Workspace{},
	}, nil
}

// Get returns the workspace for deviceID, building it on first use.
func (m *Manager) Get(ctx context.Context, deviceID string) (*Workspace, error) {
	id, err := NormalizeDeviceID(deviceID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if ws, ok := m.workspaces[id]; ok {
		return ws, nil
	}

	ws, err := m.build(m.deps.Logger.WithDeviceID(ctx, id), id)
	if err != nil {
		return nil, err
	}
	m.workspaces[id] = ws
	return ws, nil
}

func (m *Manager) build(ctx context.Context, deviceID string) (*Workspace, error) {
	store := kvstore.Prefixed(m.deps.Store, kvstore.DevicePrefix(deviceID))
	emitter := events.ForDevice(m.deps.Publisher, deviceID, m.deps.Logger, m.deps.Metrics)

	cartSvc, err := cart.NewService(ctx, cart.Deps{
		Store:   store,
		Logger:  m.deps.Logger,
		Metrics: m.deps.Metrics,
		Events:  emitter,
	})
	if err != nil {
		return nil, fmt.Errorf("building cart: %w", err)
	}
	catalogSvc, err := catalog.NewService(catalog.Deps{
		Source:   m.deps.Source,
		Store:    store,
		Logger:   m.deps.Logger,
		Metrics:  m.deps.Metrics,
		Events:   emitter,
		IDs:      m.ids,
		Settings: m.deps.Catalog,
	})
	if err != nil {
		return nil, fmt.Errorf("building catalog: %w", err)
	}
	clientsSvc, err := clients.NewService(ctx, clients.Deps{
		Store:    store,
		Logger:   m.deps.Logger,
		Metrics:  m.deps.Metrics,
		Events:   emitter,
		IDs:      m.ids,
		PageSize: m.deps.ClientsPageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("building clients: %w", err)
	}
	themeSvc, err := theme.NewService(ctx, theme.Deps{
		Store:   store,
		Logger:  m.deps.Logger,
		Metrics: m.deps.Metrics,
		Events:  emitter,
	})
	if err != nil {
		return nil, fmt.Errorf("building theme: %w", err)
	}

	ws := &Workspace{
		DeviceID: deviceID,
		Cart:     cartSvc,
		Catalog:  catalogSvc,
		Clients:  clientsSvc,
		Theme:    themeSvc,
	}
	ws.badge.Store(int64(cartSvc.TotalItems()))
	ws.unsubscribe = cartSvc.Subscribe(func(s cart.Snapshot) {
		ws.badge.Store(int64(s.TotalItems))
	})

	m.deps.Logger.Debug(ctx, "workspace created")
	return ws, nil
}

// Devices lists the device ids with a live workspace.
func (m *Manager) Devices() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.workspaces))
	for id := range m.workspaces {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Ping checks the shared store.
func (m *Manager) Ping(ctx context.Context) error {
	return m.deps.Store.Ping(ctx)
}

// Close drops every workspace and its cart subscription.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, ws := range m.workspaces {
		if ws.unsubscribe != nil {
			ws.unsubscribe()
		}
		delete(m.workspaces, id)
	}
}
