package nvs

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB creates an in-memory SQLite database with the nvs_regions schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	// A second pooled connection would see a different :memory: database
	db.SetMaxOpenConns(1)

	schema := `
		CREATE TABLE nvs_regions (
			name TEXT PRIMARY KEY,
			capacity INTEGER NOT NULL,
			data BLOB NOT NULL,
			updated_at TEXT NOT NULL
		) STRICT;
	`
	if _, execErr := db.Exec(schema); execErr != nil {
		db.Close()
		t.Fatalf("failed to create test schema: %v", execErr)
	}

	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup
	return db
}

func TestSQLite_OpenMissingRowIsErased(t *testing.T) {
	s := NewSQLite(setupTestDB(t), "params")

	if err := s.Open(16); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if !IsBlank(s.Raw()) {
		t.Error("missing row did not open as blank region")
	}
}

func TestSQLite_CommitAndReopen(t *testing.T) {
	db := setupTestDB(t)
	s := NewSQLite(db, "params")
	if err := s.Open(16); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if err := s.WriteBytes(2, []byte{0xAB, 0xCD}); err != nil {
		t.Fatalf("WriteBytes() error = %v", err)
	}
	if err := s.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	// Second commit updates the same row
	if err := s.SetByte(0, 0x01); err != nil {
		t.Fatalf("SetByte() error = %v", err)
	}
	if err := s.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	var rows int
	if err := db.QueryRow("SELECT COUNT(*) FROM nvs_regions").Scan(&rows); err != nil {
		t.Fatalf("counting rows: %v", err)
	}
	if rows != 1 {
		t.Errorf("nvs_regions rows = %d, want 1", rows)
	}

	reopened := NewSQLite(db, "params")
	if err := reopened.Open(16); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	got, _ := reopened.ReadBytes(0, 4)
	want := []byte{0x01, 0xFF, 0xAB, 0xCD}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("reopened bytes = %v, want %v", got, want)
		}
	}
}

func TestSQLite_RegionsAreIndependent(t *testing.T) {
	db := setupTestDB(t)

	a := NewSQLite(db, "a")
	if err := a.Open(4); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := a.SetByte(0, 0x01); err != nil {
		t.Fatalf("SetByte() error = %v", err)
	}
	if err := a.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	b := NewSQLite(db, "b")
	if err := b.Open(4); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if !IsBlank(b.Raw()) {
		t.Error("region b sees region a's content")
	}
}
