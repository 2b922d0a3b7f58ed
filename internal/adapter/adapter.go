// Package adapter provides database adapter interfaces and implementations
// for userload's import pipeline.
//
// This package contains the public contract that all database adapters must
// implement. Concrete adapter implementations are in internal/adapters/
// subdirectories and register themselves via init().
package adapter

import (
	"context"
	"database/sql"
	"errors"
)

// ErrTableNotFound is wrapped by GetTableMetadata when the requested table
// does not exist in the active schema.
var ErrTableNotFound = errors.New("table not found")

// Config holds the configuration for connecting to a database.
type Config struct {
	// Type specifies the database type (e.g., "postgres", "sqlite", "duckdb")
	Type string

	// Path is the file path for file-based databases (e.g., SQLite, DuckDB).
	// Use ":memory:" for in-memory databases.
	Path string

	// Host is the hostname for network-based databases
	Host string

	// Port is the port number for network-based databases
	Port int

	// Database is the database name
	Database string

	// Username for authentication
	Username string

	// Password for authentication
	Password string

	// Schema is the default schema to use
	Schema string

	// Options contains additional driver-specific options
	Options map[string]string
}

// Column represents a column in a database table.
type Column struct {
	// Name is the column name
	Name string

	// Type is the data type of the column
	Type string

	// Nullable indicates whether the column allows NULL values
	Nullable bool

	// MaxLength is the declared maximum character length. Zero means the
	// column carries no declared bound (e.g., TEXT).
	MaxLength int64

	// Position is the ordinal position of the column in the table
	Position int
}

// Metadata holds metadata about a database table.
type Metadata struct {
	// Schema is the schema containing the table
	Schema string

	// Name is the table name
	Name string

	// Columns contains metadata for each column
	Columns []Column

	// RowCount is the approximate number of rows (may not be exact)
	RowCount int64
}

// Column returns the column with the given name, or nil if absent.
func (m *Metadata) Column(name string) *Column {
	for i := range m.Columns {
		if m.Columns[i].Name == name {
			return &m.Columns[i]
		}
	}
	return nil
}

// Rows wraps sql.Rows to provide a consistent interface across adapters.
type Rows struct {
	*sql.Rows
}

// InsertStmt is a prepared parametrized insert. Exec returns the number of
// rows affected by one execution.
type InsertStmt interface {
	Exec(ctx context.Context, args ...any) (int64, error)
	Close() error
}

// Adapter defines the interface that all database adapters must implement.
// It is the pipeline's entire view of the database: execute DDL, prepare a
// parametrized insert, and read schema metadata.
type Adapter interface {
	// Connect establishes a connection to the database using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// Exec executes a SQL statement that doesn't return rows (e.g., CREATE, INSERT).
	Exec(ctx context.Context, sql string) error

	// Query executes a SQL statement that returns rows.
	Query(ctx context.Context, sql string) (*Rows, error)

	// PrepareInsert prepares a parametrized INSERT into table for the given
	// columns, using the dialect's placeholder style.
	PrepareInsert(ctx context.Context, table string, columns ...string) (InsertStmt, error)

	// GetTableMetadata retrieves metadata for a specified table. Wraps
	// ErrTableNotFound when the table is absent.
	GetTableMetadata(ctx context.Context, table string) (*Metadata, error)

	// IsUniqueViolation reports whether err was caused by a unique-constraint
	// conflict, which the import pipeline treats as a recoverable skip.
	IsUniqueViolation(err error) bool

	// DialectName returns the SQL dialect name for this adapter
	// (e.g., "postgres", "sqlite").
	DialectName() string
}
