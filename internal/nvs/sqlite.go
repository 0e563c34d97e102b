package nvs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// defaultQueryTimeout bounds each SQLite round trip. Medium calls carry no
// context, so the timeout is applied internally.
const defaultQueryTimeout = 5 * time.Second

// SQLite is a Medium stored as one BLOB row in the nvs_regions table.
//
// Several named regions can share one database. The table is created by the
// embedded migrations (see migrations/).
type SQLite struct {
	shadow
	db   *sql.DB
	name string
}

var _ Medium = (*SQLite)(nil)

// NewSQLite returns a medium for the named region in db.
func NewSQLite(db *sql.DB, name string) *SQLite {
	return &SQLite{db: db, name: name}
}

// Name returns the region name.
func (s *SQLite) Name() string {
	return s.name
}

// Open loads the region row. A missing row is an erased region.
func (s *SQLite) Open(capacity int) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultQueryTimeout)
	defer cancel()

	var data []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM nvs_regions WHERE name = ?",
		s.name,
	).Scan(&data)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("reading region %q: %w", s.name, err)
	}

	return s.load(data, capacity)
}

// Commit upserts the region row with the shadow content.
func (s *SQLite) Commit() error {
	data, err := s.snapshot()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultQueryTimeout)
	defer cancel()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO nvs_regions (name, capacity, data, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		   capacity = excluded.capacity,
		   data = excluded.data,
		   updated_at = excluded.updated_at`,
		s.name, len(data), data, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("%w: writing region %q: %w", ErrCommitFailed, s.name, err)
	}

	return nil
}

// Close drops the shadow. The database handle is owned by the caller.
func (s *SQLite) Close() error {
	s.buf = nil
	return nil
}
