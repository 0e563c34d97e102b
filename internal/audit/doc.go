// Package audit records who changed the stored configuration and when.
//
// Every storage.Change becomes one row in the audit_logs table:
//
//	action         entity_type  entity_id      details
//	set            parameter    brewSetpoint   {"value": 94.5, "committed": true}
//	save           config                      {"committed": true}
//	commit         config                      {"committed": true}
//	factory_reset  config                      {"committed": true}
//
// Secret parameter values (Wi-Fi and MQTT passwords) are stored as
// "[redacted]".
//
// Usage:
//
//	rec := audit.NewRecorder(audit.NewSQLiteRepository(db.DB), logger)
//	go rec.Run(ctx)
//	store.OnChange(rec.Record)
package audit
