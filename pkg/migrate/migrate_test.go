package migrate

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/config"
)

func TestEmbeddedMigrationsAreValid(t *testing.T) {
	fsys, dir := Embedded()
	if err := ValidateFS(fsys, dir); err != nil {
		t.Fatalf("embedded migrations invalid: %v", err)
	}
}

func TestKVMigrationContainsTable(t *testing.T) {
	data, err := embedded.ReadFile("migrations/20260105090000_create_kv_entries.sql")
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)
	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS kv_entries",
		"entry_key VARCHAR(255) PRIMARY KEY",
		"DROP TABLE IF EXISTS kv_entries",
	} {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestDialect(t *testing.T) {
	if d, err := Dialect(config.StorageSQLite); err != nil || d != "sqlite3" {
		t.Fatalf("unexpected sqlite dialect %q err=%v", d, err)
	}
	if d, err := Dialect(config.StoragePostgres); err != nil || d != "postgres" {
		t.Fatalf("unexpected postgres dialect %q err=%v", d, err)
	}
	if _, err := Dialect(config.StorageRedis); err == nil {
		t.Fatalf("redis should have no sql dialect")
	}
}

func TestRunUpCreatesKVTable(t *testing.T) {
	db, err := Open(config.StorageSQLite, "file::memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	if err := Run(context.Background(), db, config.StorageSQLite, "up"); err != nil {
		t.Fatalf("goose up: %v", err)
	}

	version, err := Version(context.Background(), db, config.StorageSQLite)
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if version != 20260105090500 {
		t.Fatalf("unexpected version %d", version)
	}

	var name string
	row := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='kv_entries'`)
	if err := row.Scan(&name); err != nil {
		t.Fatalf("kv_entries table missing: %v", err)
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	path, err := CreateSQLMigration(dir, "Add Theme Column!", now)
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if !strings.HasSuffix(path, "20260304050607_add_theme_column.sql") {
		t.Fatalf("unexpected path %s", path)
	}
	if err := ValidateFS(os.DirFS(dir), "."); err != nil {
		t.Fatalf("created migration should validate: %v", err)
	}
	if _, err := CreateSQLMigration(dir, "Add Theme Column!", now); err == nil {
		t.Fatalf("expected duplicate migration to fail")
	}
	if _, err := CreateSQLMigration(dir, "!!!", now); err == nil {
		t.Fatalf("expected empty sanitized name to fail")
	}
}
