// Package config provides configuration management for the userload CLI.
//
// Configuration is layered: built-in defaults, then userload.yaml, then
// USERLOAD_* environment variables, then command-line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/driftline-labs/userload/internal/adapter"
)

// Default configuration values.
const (
	DefaultType   = "postgres"
	DefaultTable  = "users"
	DefaultOutput = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

// TargetConfig holds the database connection settings.
type TargetConfig struct {
	Type     string            `koanf:"type"`
	Host     string            `koanf:"host"`
	Port     int               `koanf:"port"`
	User     string            `koanf:"user"`
	Password string            `koanf:"password"`
	Database string            `koanf:"database"`
	Schema   string            `koanf:"schema"`
	Options  map[string]string `koanf:"options"`
}

// Validate checks that the target names a registered adapter type.
// Type matching is case-insensitive.
func (t *TargetConfig) Validate() error {
	if t.Type == "" {
		return fmt.Errorf("target type is required")
	}
	name := strings.ToLower(t.Type)
	if !adapter.IsRegistered(name) {
		return &adapter.UnknownAdapterError{Type: t.Type, Available: adapter.ListAdapters()}
	}
	return nil
}

// Config holds all CLI configuration options.
type Config struct {
	Verbose      bool          `koanf:"verbose"`
	OutputFormat string        `koanf:"output"`
	Target       *TargetConfig `koanf:"target"`
}

// AdapterConfig maps the target settings onto an adapter configuration.
// File-based engines (sqlite, duckdb) take their path from the database
// field.
func (c *Config) AdapterConfig() adapter.Config {
	t := c.Target
	if t == nil {
		t = &TargetConfig{Type: DefaultType}
	}
	return adapter.Config{
		Type:     strings.ToLower(t.Type),
		Path:     t.Database,
		Host:     t.Host,
		Port:     t.Port,
		Database: t.Database,
		Username: t.User,
		Password: t.Password,
		Schema:   t.Schema,
		Options:  t.Options,
	}
}
