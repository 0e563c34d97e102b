package database

import (
	"context"
	"io/fs"
	"testing"
	"testing/fstest"
	"time"
)

// testMigrations mirrors the shape of the embedded schema.
var testMigrations = fstest.MapFS{
	"20261017_120000_nvs_regions.up.sql": {Data: []byte(`
		CREATE TABLE IF NOT EXISTS nvs_regions (
			name TEXT PRIMARY KEY,
			capacity INTEGER NOT NULL,
			data BLOB NOT NULL,
			updated_at TEXT NOT NULL
		) STRICT;`)},
	"20261017_120000_nvs_regions.down.sql": {Data: []byte(`DROP TABLE IF EXISTS nvs_regions;`)},
	"20261017_120100_audit_logs.up.sql": {Data: []byte(`
		CREATE TABLE IF NOT EXISTS audit_logs (
			id TEXT PRIMARY KEY,
			action TEXT NOT NULL
		) STRICT;`)},
	"README.md": {Data: []byte("not a migration")},
}

// useMigrations swaps MigrationsFS for the duration of the test.
func useMigrations(t *testing.T, fsys fs.FS) {
	t.Helper()

	origFS := MigrationsFS
	origDir := MigrationsDir
	t.Cleanup(func() {
		MigrationsFS = origFS
		MigrationsDir = origDir
	})

	MigrationsFS = fsys
	MigrationsDir = "."
}

// TestMigrate verifies migration application.
func TestMigrate(t *testing.T) {
	useMigrations(t, testMigrations)

	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	for _, table := range []string{"nvs_regions", "audit_logs"} {
		var name string
		err := db.QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s not created: %v", table, err)
		}
	}

	applied, pending, err := db.GetMigrationStatus(ctx)
	if err != nil {
		t.Fatalf("GetMigrationStatus() error = %v", err)
	}
	if len(applied) != 2 {
		t.Errorf("expected 2 applied migrations, got %d", len(applied))
	}
	if len(pending) != 0 {
		t.Errorf("expected 0 pending migrations, got %d", len(pending))
	}
	if applied[0].Version != "20261017_120000" {
		t.Errorf("first applied = %s, want 20261017_120000", applied[0].Version)
	}

	// Running again should be idempotent
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
}

// TestMigrate_FailureRollsBack verifies a broken migration leaves earlier ones applied.
func TestMigrate_FailureRollsBack(t *testing.T) {
	useMigrations(t, fstest.MapFS{
		"20261017_120000_ok.up.sql":     {Data: []byte("CREATE TABLE ok_table (id INTEGER);")},
		"20261017_130000_broken.up.sql": {Data: []byte("CREATE TABL broken (id INTEGER);")},
	})

	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx := context.Background()
	if err := db.Migrate(ctx); err == nil {
		t.Fatal("Migrate() succeeded with broken migration")
	}

	applied, pending, err := db.GetMigrationStatus(ctx)
	if err != nil {
		t.Fatalf("GetMigrationStatus() error = %v", err)
	}
	if len(applied) != 1 || len(pending) != 1 {
		t.Errorf("applied = %d, pending = %d; want 1, 1", len(applied), len(pending))
	}
	if pending[0].Name != "broken" {
		t.Errorf("pending = %s, want broken", pending[0].Name)
	}
}

// TestMigrateNoMigrations verifies behaviour with no migrations.
func TestMigrateNoMigrations(t *testing.T) {
	useMigrations(t, nil)

	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() with no migrations error = %v", err)
	}
}

// TestGetMigrationStatus verifies status reporting before migrating.
func TestGetMigrationStatus(t *testing.T) {
	useMigrations(t, testMigrations)

	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	applied, pending, err := db.GetMigrationStatus(context.Background())
	if err != nil {
		t.Fatalf("GetMigrationStatus() error = %v", err)
	}
	if len(applied) != 0 {
		t.Errorf("expected 0 applied, got %d", len(applied))
	}
	if len(pending) != 2 {
		t.Errorf("expected 2 pending, got %d", len(pending))
	}
}

// TestParseMigrationFilename verifies filename parsing.
func TestParseMigrationFilename(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		wantVersion string
		wantIsUp    bool
		wantOk      bool
	}{
		{
			name:        "valid up migration",
			filename:    "20261017_120000_nvs_regions.up.sql",
			wantVersion: "20261017_120000",
			wantIsUp:    true,
			wantOk:      true,
		},
		{
			name:        "valid down migration",
			filename:    "20261017_120000_nvs_regions.down.sql",
			wantVersion: "20261017_120000",
			wantIsUp:    false,
			wantOk:      true,
		},
		{
			name:     "not sql file",
			filename: "readme.txt",
			wantOk:   false,
		},
		{
			name:     "missing direction",
			filename: "20261017_120000_nvs_regions.sql",
			wantOk:   false,
		},
		{
			name:     "invalid format",
			filename: "invalid.up.sql",
			wantOk:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, isUp, ok := parseMigrationFilename(tt.filename)
			if ok != tt.wantOk {
				t.Errorf("ok = %v, want %v", ok, tt.wantOk)
			}
			if ok {
				if version != tt.wantVersion {
					t.Errorf("version = %v, want %v", version, tt.wantVersion)
				}
				if isUp != tt.wantIsUp {
					t.Errorf("isUp = %v, want %v", isUp, tt.wantIsUp)
				}
			}
		})
	}
}

// TestExtractMigrationName verifies name extraction.
func TestExtractMigrationName(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"20261017_120000_nvs_regions.up.sql", "nvs_regions"},
		{"20261017_120100_audit_logs.down.sql", "audit_logs"},
		{"20261017_120000_init.up.sql", "init"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := extractMigrationName(tt.filename); got != tt.want {
				t.Errorf("extractMigrationName(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}
