package db

import (
	"context"
	"testing"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	return conn
}

func TestNewRejectsMissingDSN(t *testing.T) {
	if _, err := New(context.Background(), config.StorageSQLite, config.DBConfig{}, nil); err == nil {
		t.Fatal("expected missing DSN to fail")
	}
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	if _, err := New(context.Background(), "oracle", config.DBConfig{DSN: "x"}, nil); err == nil {
		t.Fatal("expected unknown driver to fail")
	}
}

func TestNewOpensSQLite(t *testing.T) {
	client, err := New(context.Background(), config.StorageSQLite, config.DBConfig{DSN: "file::memory:"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()

	if client.Driver() != config.StorageSQLite {
		t.Fatalf("unexpected driver %q", client.Driver())
	}
	sqlDB, err := client.SQL()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	if got := sqlDB.Stats().MaxOpenConnections; got != 1 {
		t.Fatalf("expected sqlite to be capped at one connection, got %d", got)
	}
}

func TestPing(t *testing.T) {
	client := NewFromGorm(newTestDB(t), config.StorageSQLite)
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
}
