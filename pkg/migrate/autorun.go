package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// MaybeRun brings the kv_entries schema up to date before the SQL store is
// used. It is a no-op without a client or with STOREFRONT_AUTO_MIGRATE=false,
// in which case the schema must already exist.
func MaybeRun(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if client == nil || !cfg.App.AutoMigrate {
		return nil
	}

	sqlDB, err := client.SQL()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}
	driver := client.Driver()

	before, err := Version(ctx, sqlDB, driver)
	if err != nil {
		return err
	}
	if err := Run(ctx, sqlDB, driver, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}
	after, err := Version(ctx, sqlDB, driver)
	if err != nil {
		return err
	}

	ctx = logg.WithFields(ctx, map[string]any{
		"env":          cfg.App.Env,
		"driver":       driver,
		"from_version": before,
		"to_version":   after,
	})
	if after == before {
		logg.Debug(ctx, "storage schema already current")
		return nil
	}
	logg.Info(ctx, "storage schema migrated")
	return nil
}
