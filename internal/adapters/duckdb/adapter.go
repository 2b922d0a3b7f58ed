// Package duckdb provides a DuckDB database adapter for userload.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver

	"github.com/driftline-labs/userload/internal/adapter"
)

// Adapter implements the adapter.Adapter interface for DuckDB.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new DuckDB adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// DialectName returns the SQL dialect for this adapter.
func (a *Adapter) DialectName() string {
	return "duckdb"
}

// Connect establishes a connection to DuckDB.
// Use ":memory:" as the path for an in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	path := cfg.Path
	if path == "" {
		path = cfg.Database
	}
	if path == "" {
		path = ":memory:"
	}
	if path == ":memory:" {
		path = ""
	}

	a.Logger.Debug("connecting to duckdb", slog.String("path", path))

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return fmt.Errorf("failed to open duckdb connection: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping duckdb: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// placeholder formats the ? parameter marker.
func placeholder(int) string {
	return "?"
}

// PrepareInsert prepares a parametrized insert using ? placeholders.
func (a *Adapter) PrepareInsert(ctx context.Context, table string, columns ...string) (adapter.InsertStmt, error) {
	return a.PrepareInsertCommon(ctx, table, columns, placeholder)
}

// GetTableMetadata retrieves metadata for a specified table using DuckDB's
// information_schema.
func (a *Adapter) GetTableMetadata(ctx context.Context, table string) (*adapter.Metadata, error) {
	schema := a.Cfg.Schema
	if schema == "" {
		schema = "main"
	}
	return a.GetTableMetadataCommon(ctx, table, schema, placeholder)
}

// IsUniqueViolation reports whether err is a unique-constraint violation.
// DuckDB reports these as constraint errors mentioning the violated
// unique/primary key constraint.
func (a *Adapter) IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "violates unique constraint") ||
		strings.Contains(msg, "violates primary key constraint") ||
		strings.Contains(msg, "Duplicate key")
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
