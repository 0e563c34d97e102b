// pidstore - persistent configuration service for an espresso PID controller
//
// pidstore owns the non-volatile parameter region of the controller: it
// validates the region on start, seeds the factory defaults when the region
// is blank or corrupt, and serves typed access to every parameter over a
// REST/WebSocket API and MQTT. Changes are recorded in an audit log and,
// when enabled, exported to InfluxDB.
//
// Usage:
//
//	pidstore                run the service
//	pidstore export         print the stored configuration as YAML
//	pidstore token          mint a bearer token for the mutating API routes
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/nerrad567/pidstore/migrations"

	"github.com/nerrad567/pidstore/internal/api"
	"github.com/nerrad567/pidstore/internal/audit"
	"github.com/nerrad567/pidstore/internal/infrastructure/config"
	"github.com/nerrad567/pidstore/internal/infrastructure/database"
	"github.com/nerrad567/pidstore/internal/infrastructure/influxdb"
	"github.com/nerrad567/pidstore/internal/infrastructure/logging"
	"github.com/nerrad567/pidstore/internal/infrastructure/mqtt"
	"github.com/nerrad567/pidstore/internal/nvs"
	"github.com/nerrad567/pidstore/internal/params"
	"github.com/nerrad567/pidstore/internal/paramsync"
	"github.com/nerrad567/pidstore/internal/storage"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var err error
	args := os.Args[1:]
	switch {
	case len(args) == 0:
		err = run(ctx)
	case args[0] == "export":
		err = runExport(ctx, args[1:], os.Stdout)
	case args[0] == "token":
		err = runToken(args[1:], os.Stdout)
	default:
		err = fmt.Errorf("unknown command %q (want export or token)", args[0])
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the service, separated from main for testability.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error { //nolint:gocognit,gocyclo // Startup sequence: each optional component adds a branch
	log := logging.Default()
	log.Info("starting pidstore",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log = logging.New(cfg.Logging, version)
	log.Info("configuration loaded", "path", configPath, "level", cfg.Logging.Level)

	// Database (audit log, sqlite medium)
	var db *database.DB
	if cfg.Database.Enabled {
		db, err = openDatabase(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer func() {
			log.Info("closing database")
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing database", "error", closeErr)
			}
		}()
		log.Info("database connected", "path", cfg.Database.Path)
	}

	// Configuration store
	store, err := newStore(cfg.Storage, db)
	if err != nil {
		return err
	}
	store.SetLogger(log.With("component", "storage"))
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			log.Error("error closing configuration store", "error", closeErr)
		}
	}()

	if db != nil {
		recorder := audit.NewRecorder(audit.NewSQLiteRepository(db.DB), log.With("component", "audit"))
		store.OnChange(recorder.Record)

		// Stopped after the other components so their last changes are kept
		recorderCtx, stopRecorder := context.WithCancel(context.Background())
		recorderDone := make(chan struct{})
		go func() {
			recorder.Run(recorderCtx)
			close(recorderDone)
		}()
		defer func() {
			stopRecorder()
			<-recorderDone
		}()
	}

	snapshot := setupStore(ctx, store, log)

	// MQTT parameter sync
	if cfg.MQTT.Enabled || snapshot.MQTTOn {
		mqttClient, bridge, mqttErr := startMQTT(cfg, snapshot, store, log)
		if mqttErr != nil {
			log.Warn("MQTT unavailable, continuing without parameter sync", "error", mqttErr)
		} else {
			defer func() {
				log.Info("disconnecting from MQTT")
				if closeErr := mqttClient.Close(); closeErr != nil {
					log.Error("error closing MQTT", "error", closeErr)
				}
			}()
			go func() {
				if runErr := bridge.Run(ctx); runErr != nil {
					log.Error("parameter sync stopped", "error", runErr)
				}
			}()
		}
	} else {
		log.Info("MQTT disabled")
	}

	// InfluxDB change export
	if cfg.InfluxDB.Enabled || snapshot.InfluxDBOn {
		influxCfg := cfg.InfluxDB
		influxCfg.Enabled = true
		influxClient, influxErr := influxdb.Connect(influxCfg, cfg.Device.Hostname)
		if influxErr != nil {
			log.Warn("InfluxDB unavailable, continuing without export", "error", influxErr)
		} else {
			defer func() {
				log.Info("closing InfluxDB connection")
				if closeErr := influxClient.Close(); closeErr != nil {
					log.Error("error closing InfluxDB", "error", closeErr)
				}
			}()
			influxClient.SetOnError(func(err error) {
				log.Error("InfluxDB write error", "error", err)
			})
			store.OnChange(influxRecorder(influxClient, store))
			log.Info("InfluxDB connected", "url", cfg.InfluxDB.URL, "bucket", cfg.InfluxDB.Bucket)
		}
	} else {
		log.Info("InfluxDB disabled")
	}

	// REST/WebSocket API
	if cfg.API.Enabled {
		deps := api.Deps{
			Config:   cfg.API,
			WS:       cfg.WebSocket,
			Security: cfg.Security,
			Logger:   log.With("component", "api"),
			Store:    store,
			Version:  version,
		}
		if db != nil {
			deps.Audit = audit.NewSQLiteRepository(db.DB)
			deps.Regions = db
		}
		server, apiErr := api.New(deps)
		if apiErr != nil {
			return fmt.Errorf("creating API server: %w", apiErr)
		}
		if startErr := server.Start(ctx); startErr != nil {
			return fmt.Errorf("starting API server: %w", startErr)
		}
		defer func() {
			if closeErr := server.Close(); closeErr != nil {
				log.Error("error closing API server", "error", closeErr)
			}
		}()
	}

	log.Info("initialisation complete, waiting for shutdown signal")
	watchStore(ctx, store, cfg.GetHealthInterval(), log)

	log.Info("shutdown signal received, cleaning up")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses PIDSTORE_CONFIG environment variable if set, otherwise default.
// A missing default file is not an error: the built-in defaults apply.
func getConfigPath() string {
	if path := os.Getenv("PIDSTORE_CONFIG"); path != "" {
		return path
	}
	if _, err := os.Stat(defaultConfigPath); err != nil {
		return ""
	}
	return defaultConfigPath
}

// openDatabase opens the SQLite database and applies the migrations.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*database.DB, error) {
	db, err := database.Open(database.ConfigFrom(cfg))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close() //nolint:errcheck // Already failing
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}

// newMedium builds the medium selected by cfg. The sqlite medium needs db.
func newMedium(cfg config.StorageConfig, db *database.DB) (nvs.Medium, error) {
	switch cfg.Medium {
	case "file":
		return nvs.NewFile(cfg.Path), nil
	case "sqlite":
		if db == nil {
			return nil, errors.New("storage medium sqlite requires the database")
		}
		return nvs.NewSQLite(db.DB, cfg.Region), nil
	case "memory":
		return nvs.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage medium %q", cfg.Medium)
	}
}

// newStore creates the configuration store. Setup is not run.
func newStore(cfg config.StorageConfig, db *database.DB) (*storage.Store, error) {
	medium, err := newMedium(cfg, db)
	if err != nil {
		return nil, err
	}
	strategy, err := storage.ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	store, err := storage.New(storage.Options{
		Medium:        medium,
		Capacity:      cfg.Capacity,
		Strategy:      strategy,
		MigrateLegacy: cfg.MigrateLegacy,
	})
	if err != nil {
		return nil, fmt.Errorf("creating configuration store: %w", err)
	}
	return store, nil
}

// setupStore runs Setup and loads the configuration. When the medium
// cannot be used the defaults are returned and the service keeps running
// without persistence.
func setupStore(ctx context.Context, store *storage.Store, log *logging.Logger) *params.Snapshot {
	valid, err := store.Setup(ctx)
	if err != nil {
		log.Error("configuration store unavailable, running on defaults", "error", err)
		return params.Defaults()
	}
	if !valid {
		log.Warn("configuration region not valid after setup")
	}

	snapshot, err := store.LoadConfig()
	if err != nil {
		log.Error("loading configuration failed, running on defaults", "error", err)
		return params.Defaults()
	}
	log.Info("configuration store ready",
		"strategy", store.Strategy(),
		"capacity", store.Capacity(),
	)
	return snapshot
}

// startMQTT connects to the broker and creates the parameter sync bridge.
// The stored broker address, port, login and topic prefix take precedence
// over the service config.
func startMQTT(cfg *config.Config, snapshot *params.Snapshot, store *storage.Store, log *logging.Logger) (*mqtt.Client, *paramsync.Bridge, error) {
	mqttCfg := cfg.MQTT
	if snapshot.MQTTServerIP != "" {
		mqttCfg.Broker.Host = snapshot.MQTTServerIP
	}
	if snapshot.MQTTServerPort != 0 {
		mqttCfg.Broker.Port = int(snapshot.MQTTServerPort)
	}
	var creds *mqtt.Credentials
	if snapshot.MQTTUsername != "" {
		creds = &mqtt.Credentials{Username: snapshot.MQTTUsername, Password: snapshot.MQTTPassword}
		mqttCfg.Auth.Username = creds.Username
		mqttCfg.Auth.Password = creds.Password
	}
	prefix := mqttCfg.TopicPrefix
	if prefix == "" {
		prefix = snapshot.MQTTTopicPrefix
	}

	topics := mqtt.NewTopics(prefix, cfg.Device.Hostname)
	client, err := mqtt.Connect(mqttCfg, topics, creds)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to MQTT: %w", err)
	}
	client.SetLogger(log)
	client.SetOnConnect(func() { log.Info("MQTT connected") })
	client.SetOnDisconnect(func(err error) { log.Warn("MQTT disconnected", "error", err) })
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", mqttCfg.Broker.Host, mqttCfg.Broker.Port),
		"topics", topics.Base(),
		"username", mqttCfg.Auth.Username,
		logging.Redacted("password", mqttCfg.Auth.Password),
	)

	bridge := paramsync.New(store, client, paramsync.Options{
		Topics:          topics,
		QoS:             byte(mqttCfg.QoS), //nolint:gosec // Validated to 0..2
		Discovery:       mqttCfg.Discovery,
		DiscoveryPrefix: mqttCfg.DiscoveryPrefix,
		Device: paramsync.Device{
			Hostname: cfg.Device.Hostname,
			Name:     cfg.Device.Name,
			Model:    cfg.Device.Model,
		},
	})
	bridge.SetLogger(log.With("component", "paramsync"))
	store.OnChange(bridge.HandleChange)
	return client, bridge, nil
}

// influxWriter is the part of *influxdb.Client the change recorder uses.
type influxWriter interface {
	WriteParameter(field string, value any, source string)
	WriteEvent(kind, source string, committed bool)
	WriteSnapshot(values map[string]any, source string)
}

// influxRecorder returns a change listener exporting item values, whole
// snapshots and lifecycle events.
func influxRecorder(w influxWriter, store *storage.Store) func(storage.Change) {
	return func(c storage.Change) {
		switch c.Kind {
		case storage.ChangeItem:
			w.WriteParameter(c.Field, c.Value, c.Source)
		case storage.ChangeSnapshot:
			w.WriteEvent(string(c.Kind), c.Source, c.Committed)
			snapshot, err := store.LoadConfig()
			if err == nil {
				w.WriteSnapshot(snapshot.Values(), c.Source)
			}
		default:
			w.WriteEvent(string(c.Kind), c.Source, c.Committed)
		}
	}
}

// watchStore blocks until ctx is done, re-validating the region every
// interval. While the store is unusable it logs a warning on every tick.
func watchStore(ctx context.Context, store *storage.Store, interval time.Duration, log *logging.Logger) {
	if interval <= 0 {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			checkStore(store, log)
		}
	}
}

// checkStore logs the health of the store and reports whether it is usable.
func checkStore(store *storage.Store, log *logging.Logger) bool {
	if state := store.State(); state != storage.StateReady {
		log.Warn("configuration store unavailable, running on defaults", "state", state)
		return false
	}
	if !store.Validate() {
		log.Warn("configuration region no longer valid")
		return false
	}
	guard := store.Guard()
	log.Debug("configuration store healthy", "commits", guard.Count())
	return true
}
