// Package database provides SQLite connectivity for the pidstore service.
//
// The database is optional. When enabled it holds:
//   - nvs_regions: parameter region images for the sqlite medium (nvs.SQLite)
//   - audit_logs: the parameter change trail written by the audit package
//
// Security Considerations:
//   - All queries use parameterised statements
//   - Database file permissions are set to 0600 (owner read/write only)
//   - Region images contain Wi-Fi and MQTT credentials in clear text
//
// Usage:
//
//	db, err := database.Open(database.ConfigFrom(cfg.Database))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Migration Strategy:
//
// Migrations are additive-only: new columns must be NULLABLE or have
// DEFAULT values, and nothing is dropped or renamed. Only .up.sql files
// are applied; .down.sql files document the inverse for manual recovery.
package database
