// Package bootstrap wires config into a running workspace manager. Both the
// API server and shopctl start from here so they share storage semantics.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/workspace"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/events"
	"github.com/angelmondragon/storefront-backend/pkg/kvstore"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
)

type Options struct {
	// Registerer receives the storefront metrics. Nil disables them.
	Registerer prometheus.Registerer
	// Source replaces the remote catalog client, mainly for tests.
	Source catalog.Source
	// Publisher replaces the configured event publisher.
	Publisher events.Publisher
}

type Runtime struct {
	Manager *workspace.Manager
	Metrics *metrics.Storefront
	Driver  string

	backend   *kvstore.Backend
	publisher events.Publisher
}

func Build(ctx context.Context, cfg *config.Config, logg *logger.Logger, opts Options) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}

	m := metrics.NewStorefront(opts.Registerer)

	backend, err := kvstore.Open(ctx, cfg, logg)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	publisher := opts.Publisher
	if publisher == nil {
		publisher, err = events.Open(ctx, cfg.PubSub, logg)
		if err != nil {
			return nil, multierr.Append(fmt.Errorf("opening event publisher: %w", err), backend.Close())
		}
	}

	source := opts.Source
	if source == nil {
		source = catalog.NewRemoteClient(
			catalog.WithBaseURL(cfg.Catalog.BaseURL),
			catalog.WithTimeout(cfg.Catalog.Timeout),
			catalog.WithRetries(cfg.Catalog.Retries, cfg.Catalog.RetryBackoff),
			catalog.WithMetrics(m),
		)
	}

	manager, err := workspace.NewManager(workspace.Deps{
		Store:     backend.Store,
		Source:    source,
		Publisher: publisher,
		Logger:    logg.Component("workspace"),
		Metrics:   m,
		Catalog: catalog.Settings{
			RemoteTTL:         cfg.Catalog.RemoteTTL,
			TopLimit:          cfg.Catalog.TopLimit,
			CustomIDThreshold: cfg.Catalog.CustomIDThreshold,
			PlaceholderImage:  cfg.Catalog.PlaceholderImage,
			DefaultCategory:   cfg.Catalog.DefaultCategory,
		},
		ClientsPageSize: cfg.Clients.PageSize,
	})
	if err != nil {
		return nil, multierr.Combine(err, publisher.Close(), backend.Close())
	}

	return &Runtime{
		Manager:   manager,
		Metrics:   m,
		Driver:    backend.Driver,
		backend:   backend,
		publisher: publisher,
	}, nil
}

// Close drops the workspaces, flushes the publisher and releases storage.
func (r *Runtime) Close() error {
	if r == nil {
		return nil
	}
	r.Manager.Close()
	return multierr.Combine(r.publisher.Close(), r.backend.Close())
}
