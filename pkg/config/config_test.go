package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != AppEnvDev {
		t.Fatalf("expected default env dev, got %q", cfg.App.Env)
	}
	if cfg.Storage.Driver != StorageSQLite {
		t.Fatalf("expected sqlite storage by default, got %q", cfg.Storage.Driver)
	}
	if cfg.Catalog.BaseURL != "https://fakestoreapi.com" {
		t.Fatalf("unexpected catalog base url %q", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.CustomIDThreshold != 1000 {
		t.Fatalf("expected custom threshold 1000, got %d", cfg.Catalog.CustomIDThreshold)
	}
	if cfg.Catalog.TopLimit != 5 {
		t.Fatalf("expected top limit 5, got %d", cfg.Catalog.TopLimit)
	}
	if cfg.Clients.PageSize != 10 {
		t.Fatalf("expected page size 10, got %d", cfg.Clients.PageSize)
	}
	if len(cfg.HTTP.CORSOrigins) != 2 {
		t.Fatalf("expected two default cors origins, got %v", cfg.HTTP.CORSOrigins)
	}
	if cfg.PubSub.Enabled() {
		t.Fatalf("pubsub should be disabled without project and topic")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv(EnvAppEnv, "prod")
	t.Setenv(EnvStorageDriver, StorageRedis)
	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	t.Setenv(EnvCatalogTimeout, "3s")
	t.Setenv(EnvGCPProjectID, "project-123")
	t.Setenv(EnvPubSubEventsTopic, "storefront-events")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if !cfg.App.IsProd() {
		t.Fatalf("expected prod env")
	}
	if cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Fatalf("unexpected Redis URL: %q", cfg.Redis.URL)
	}
	if cfg.Catalog.Timeout != 3*time.Second {
		t.Fatalf("expected catalog timeout 3s, got %v", cfg.Catalog.Timeout)
	}
	if !cfg.PubSub.Enabled() {
		t.Fatalf("expected pubsub enabled")
	}
}

func TestLoad_RedisDriverRequiresAddress(t *testing.T) {
	t.Setenv(EnvStorageDriver, StorageRedis)

	if _, err := Load(); err == nil {
		t.Fatal("expected redis driver without url to return an error")
	}
}

func TestLoad_UnknownDriver(t *testing.T) {
	t.Setenv(EnvStorageDriver, "cassandra")

	if _, err := Load(); err == nil {
		t.Fatal("expected unknown driver to return an error")
	}
}

func TestLoad_RejectsNonPositivePageSize(t *testing.T) {
	t.Setenv(EnvClientsPageSize, "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected zero page size to return an error")
	}
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
	if prodConfig.IsDev() {
		t.Fatalf("expected IsDev false for %q", prodConfig.Env)
	}
}
