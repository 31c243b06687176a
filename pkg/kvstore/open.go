package kvstore

import (
	"context"
	"fmt"
	"io"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/migrate"
	"github.com/angelmondragon/storefront-backend/pkg/redis"
	"go.uber.org/multierr"
)

// Backend is an opened Store together with the connections it owns.
type Backend struct {
	Store
	Driver  string
	closers []io.Closer
}

// Close releases every connection owned by the backend.
func (b *Backend) Close() error {
	var err error
	for _, c := range b.closers {
		err = multierr.Append(err, c.Close())
	}
	b.closers = nil
	return err
}

// Open builds the store selected by cfg.Storage.Driver. SQL drivers run
// pending migrations first when auto-migrate is enabled.
func Open(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*Backend, error) {
	driver := cfg.Storage.Driver
	ctx = logg.WithField(ctx, "storage_driver", driver)

	switch driver {
	case config.StorageMemory:
		logg.Warn(ctx, "memory storage selected; state is lost on restart")
		return &Backend{Store: NewMemory(), Driver: driver}, nil

	case config.StorageRedis:
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, fmt.Errorf("connecting redis: %w", err)
		}
		store, err := NewRedis(client)
		if err != nil {
			return nil, multierr.Append(err, client.Close())
		}
		return &Backend{Store: store, Driver: driver, closers: []io.Closer{client}}, nil

	case config.StorageSQLite, config.StoragePostgres:
		client, err := db.New(ctx, driver, cfg.DB, logg)
		if err != nil {
			return nil, fmt.Errorf("connecting database: %w", err)
		}
		if err := migrate.MaybeRun(ctx, cfg, logg, client); err != nil {
			return nil, multierr.Append(fmt.Errorf("migrating: %w", err), client.Close())
		}
		store, err := NewSQL(client)
		if err != nil {
			return nil, multierr.Append(err, client.Close())
		}
		return &Backend{Store: store, Driver: driver, closers: []io.Closer{client}}, nil
	}

	return nil, fmt.Errorf("unsupported storage driver %q", driver)
}
