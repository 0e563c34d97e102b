package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the pidstore service.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Device    DeviceConfig    `yaml:"device"`
	Storage   StorageConfig   `yaml:"storage"`
	Database  DatabaseConfig  `yaml:"database"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	API       APIConfig       `yaml:"api"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	Logging   LoggingConfig   `yaml:"logging"`
	Security  SecurityConfig  `yaml:"security"`
}

// DeviceConfig identifies the machine this service persists parameters for.
type DeviceConfig struct {
	// Hostname is used in MQTT topics and discovery unique IDs.
	Hostname string `yaml:"hostname"`
	Name     string `yaml:"name"`
	Model    string `yaml:"model"`
}

// StorageConfig selects the non-volatile medium and the region strategy.
type StorageConfig struct {
	// Medium is one of "file", "sqlite" or "memory".
	Medium string `yaml:"medium"`

	// Strategy is "document" (JSON object at offset 0) or "raw" (fixed
	// binary layout).
	Strategy string `yaml:"strategy"`

	// Path is the image file for the file medium.
	Path string `yaml:"path"`

	// Capacity is the region size in bytes.
	Capacity int `yaml:"capacity"`

	// Region names the row holding the image for the sqlite medium.
	Region string `yaml:"region"`

	// MigrateLegacy converts a region holding the binary layout into a
	// document during setup. Only used by the document strategy.
	MigrateLegacy bool `yaml:"migrate_legacy"`

	// HealthInterval is how often the service re-validates the region
	// (in seconds). 0 disables the check.
	HealthInterval int `yaml:"health_interval"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`

	// TopicPrefix is prepended to the device hostname for parameter topics.
	// Empty means the stored mqttTopicPrefix parameter is used.
	TopicPrefix string `yaml:"topic_prefix"`

	// Discovery enables Home Assistant discovery documents.
	Discovery       bool   `yaml:"discovery"`
	DiscoveryPrefix string `yaml:"discovery_prefix"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Enabled  bool             `yaml:"enabled"`
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	TLS      TLSConfig        `yaml:"tls"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// TLSConfig contains TLS certificate settings.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// APITimeoutConfig contains HTTP timeout settings.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// WebSocketConfig contains WebSocket server settings.
type WebSocketConfig struct {
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// SecurityConfig contains security settings.
type SecurityConfig struct {
	JWT JWTConfig `yaml:"jwt"`
}

// JWTConfig contains JWT token settings.
type JWTConfig struct {
	Secret string `yaml:"secret"`
	// Issuer is checked on incoming tokens when set.
	Issuer string `yaml:"issuer"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: PIDSTORE_SECTION_KEY
// For example: PIDSTORE_STORAGE_PATH, PIDSTORE_MQTT_HOST
//
// Parameters:
//   - path: Path to the YAML configuration file. Empty means defaults and
//     environment only.
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration without file or environment
// overrides.
func Default() *Config {
	return defaultConfig()
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Device: DeviceConfig{
			Hostname: "silvia",
			Name:     "Espresso machine",
			Model:    "PID controller",
		},
		Storage: StorageConfig{
			Medium:         "file",
			Strategy:       "document",
			Path:           "./data/nvs.bin",
			Capacity:       4096,
			Region:         "config",
			HealthInterval: 60,
		},
		Database: DatabaseConfig{
			Path:        "./data/pidstore.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "pidstore",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
			Discovery:       true,
			DiscoveryPrefix: "homeassistant",
		},
		API: APIConfig{
			Enabled: true,
			Host:    "0.0.0.0",
			Port:    8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			Path:           "/ws",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		InfluxDB: InfluxDBConfig{
			Bucket:        "espresso",
			BatchSize:     100,
			FlushInterval: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: PIDSTORE_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Device
	if v := os.Getenv("PIDSTORE_DEVICE_HOSTNAME"); v != "" {
		cfg.Device.Hostname = v
	}

	// Storage
	if v := os.Getenv("PIDSTORE_STORAGE_MEDIUM"); v != "" {
		cfg.Storage.Medium = v
	}
	if v := os.Getenv("PIDSTORE_STORAGE_STRATEGY"); v != "" {
		cfg.Storage.Strategy = v
	}
	if v := os.Getenv("PIDSTORE_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("PIDSTORE_STORAGE_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Storage.Capacity = n
		}
	}

	// Database
	if v := os.Getenv("PIDSTORE_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// MQTT
	if v := os.Getenv("PIDSTORE_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("PIDSTORE_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("PIDSTORE_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// API
	if v := os.Getenv("PIDSTORE_API_HOST"); v != "" {
		cfg.API.Host = v
	}

	// InfluxDB
	if v := os.Getenv("PIDSTORE_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Security - JWT secret (always override in production)
	if v := os.Getenv("PIDSTORE_JWT_SECRET"); v != "" {
		cfg.Security.JWT.Secret = v
	}

	if v := os.Getenv("PIDSTORE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for errors and security issues.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Device.Hostname == "" {
		errs = append(errs, "device.hostname is required")
	}

	// Storage validation
	switch c.Storage.Medium {
	case "file":
		if c.Storage.Path == "" {
			errs = append(errs, "storage.path is required for the file medium")
		}
	case "sqlite":
		if !c.Database.Enabled {
			errs = append(errs, "storage.medium sqlite requires database.enabled")
		}
		if c.Storage.Region == "" {
			errs = append(errs, "storage.region is required for the sqlite medium")
		}
	case "memory":
	default:
		errs = append(errs, "storage.medium must be file, sqlite, or memory")
	}
	if c.Storage.Strategy != "" && c.Storage.Strategy != "document" && c.Storage.Strategy != "raw" {
		errs = append(errs, "storage.strategy must be document or raw")
	}
	// Bounds mirror nvs.MaxCapacity
	if c.Storage.Capacity < 0 || c.Storage.Capacity > 64*1024 {
		errs = append(errs, "storage.capacity must be between 0 and 65536")
	}

	// Database validation
	if c.Database.Enabled && c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	// MQTT validation
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.Discovery && c.MQTT.DiscoveryPrefix == "" {
		errs = append(errs, "mqtt.discovery_prefix is required when discovery is enabled")
	}

	// API validation
	if c.API.Enabled {
		if c.API.Port < 1 || c.API.Port > 65535 {
			errs = append(errs, "api.port must be between 1 and 65535")
		}

		// A forged token can change boiler setpoints, so the secret is required
		// whenever the API is served.
		const minJWTSecretLength = 32
		if c.Security.JWT.Secret == "" {
			errs = append(errs, "security.jwt.secret is required (set PIDSTORE_JWT_SECRET environment variable)")
		} else if len(c.Security.JWT.Secret) < minJWTSecretLength {
			errs = append(errs, "security.jwt.secret must be at least 32 characters")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}

// GetHealthInterval returns the storage health check interval as a Duration.
func (c *Config) GetHealthInterval() time.Duration {
	return time.Duration(c.Storage.HealthInterval) * time.Second
}
