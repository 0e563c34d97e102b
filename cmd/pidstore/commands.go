package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/nerrad567/pidstore/internal/api"
	"github.com/nerrad567/pidstore/internal/infrastructure/config"
	"github.com/nerrad567/pidstore/internal/infrastructure/database"
	"github.com/nerrad567/pidstore/internal/params"
)

// exportMask replaces secret values unless -secrets is given.
const exportMask = "********"

// runExport prints the stored configuration as YAML.
//
// It opens the configured medium the same way the service does, so a blank
// region is seeded with the defaults first. Secret fields are masked unless
// -secrets is passed.
func runExport(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	configPath := fs.String("config", getConfigPath(), "configuration file")
	withSecrets := fs.Bool("secrets", false, "include passwords in the output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var db *database.DB
	if cfg.Database.Enabled {
		db, err = openDatabase(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close() //nolint:errcheck // Read-only use
	}

	store, err := newStore(cfg.Storage, db)
	if err != nil {
		return err
	}
	defer store.Close() //nolint:errcheck // Read-only use

	if _, err := store.Setup(ctx); err != nil {
		return fmt.Errorf("opening configuration store: %w", err)
	}
	snapshot, err := store.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	if !*withSecrets {
		maskSecrets(snapshot)
	}
	return writeYAML(out, snapshot)
}

// maskSecrets replaces every secret text field of s with exportMask.
func maskSecrets(s *params.Snapshot) {
	for _, f := range params.Fields() {
		if !f.Secret {
			continue
		}
		if p, ok := s.Ref(f.Item).(*string); ok {
			*p = exportMask
		}
	}
}

func writeYAML(out io.Writer, v any) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}

// runToken prints a bearer token for the mutating API routes, signed with
// the configured JWT secret.
func runToken(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	configPath := fs.String("config", getConfigPath(), "configuration file")
	subject := fs.String("subject", "admin", "token subject")
	ttl := fs.Duration("ttl", api.DefaultTokenTTL, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	token, err := api.IssueToken(cfg.Security.JWT.Secret, cfg.Security.JWT.Issuer, *subject, *ttl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, token)
	return err
}
