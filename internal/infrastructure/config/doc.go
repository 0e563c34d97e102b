// Package config handles loading and validating pidstore service configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// The service configuration is separate from the controller parameters:
// it says where the parameter region lives (storage medium and strategy)
// and how it is exposed (MQTT, HTTP API, InfluxDB). The parameters
// themselves live in the region managed by the storage package.
//
// Security Considerations:
//   - Sensitive values (passwords, tokens) should be set via environment variables
//   - The config file should have restricted permissions (0600)
//   - The JWT secret is required whenever the HTTP API is enabled
//
// Usage:
//
//	cfg, err := config.Load("configs/pidstore.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Storage.Strategy)
package config
