// Package influxdb provides InfluxDB connectivity for the pidstore service.
//
// It wraps the official influxdb-client-go v2 library for connection
// management, point writing, and health monitoring.
//
// # Purpose
//
// This package keeps the history of the stored configuration:
//   - one "parameter" point per changed numeric or toggle parameter
//   - one "config_event" point per commit, save or factory reset
//
// Every point carries the machine hostname as its host tag. Text
// parameters (credentials, addresses) are never written.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB, cfg.Device.Hostname)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.WriteParameter("brewSetpoint", 94.5, "api")
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are reported via the
// SetOnError callback. Connection and health check errors are returned
// directly.
package influxdb
