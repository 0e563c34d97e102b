// Package migrations embeds SQL migration files into the binary.
//
// The nvs_regions table backs the SQLite parameter medium and audit_logs
// records parameter changes.
package migrations

import (
	"embed"

	"github.com/nerrad567/pidstore/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	// Register embedded migrations with the database package.
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
