// Package sqlite provides a SQLite database adapter for userload, built on
// the cgo-free modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	_ "modernc.org/sqlite" // sqlite driver

	"github.com/driftline-labs/userload/internal/adapter"
)

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
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
	return "sqlite"
}

// Connect establishes a connection to SQLite.
// Use ":memory:" as the path for an in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	path := cfg.Path
	if path == "" {
		path = cfg.Database
	}
	if path == "" {
		path = ":memory:"
	}

	a.Logger.Debug("connecting to sqlite", slog.String("path", path))

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite connection: %w", err)
	}

	// In-memory databases exist per connection; pin the pool to one so
	// every statement sees the same database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite: %w", err)
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

// varcharLenPattern extracts the declared length from types like VARCHAR(255).
var varcharLenPattern = regexp.MustCompile(`(?i)^\s*(?:var)?char(?:acter)?\s*(?:varying)?\s*\(\s*(\d+)\s*\)`)

// GetTableMetadata retrieves metadata for a specified table.
// SQLite has no information_schema; column shape comes from PRAGMA
// table_info, with declared VARCHAR(n) bounds parsed from the type text.
func (a *Adapter) GetTableMetadata(ctx context.Context, table string) (*adapter.Metadata, error) {
	if a.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	_, tableName := adapter.ParseQualifiedName(table, "main")

	query := fmt.Sprintf("PRAGMA table_info(%q)", tableName)
	rows, err := a.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []adapter.Column
	for rows.Next() {
		var (
			cid     int
			name    string
			colType string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		col := adapter.Column{
			Name:     name,
			Type:     colType,
			Nullable: notNull == 0,
			Position: cid + 1,
		}
		if m := varcharLenPattern.FindStringSubmatch(colType); m != nil {
			if n, err := strconv.ParseInt(m[1], 10, 64); err == nil {
				col.MaxLength = n
			}
		}
		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s: %w", table, adapter.ErrTableNotFound)
	}

	// Get row count
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %q", tableName) //nolint:gosec // Table names are validated by caller
	var rowCount int64
	if err := a.DB.QueryRowContext(ctx, countQuery).Scan(&rowCount); err != nil {
		rowCount = 0
	}

	return &adapter.Metadata{
		Schema:   "main",
		Name:     tableName,
		Columns:  columns,
		RowCount: rowCount,
	}, nil
}

// IsUniqueViolation reports whether err is a unique-constraint violation.
// modernc.org/sqlite surfaces SQLITE_CONSTRAINT_UNIQUE (2067) and
// SQLITE_CONSTRAINT_PRIMARYKEY (1555) through the error text.
func (a *Adapter) IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
