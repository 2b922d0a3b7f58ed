// Package schema verifies and creates the shape of the users table before
// an import touches it.
package schema

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/driftline-labs/userload/internal/adapter"
)

// TableName is the target table for imports.
const TableName = "users"

// InsertColumns are the persisted user columns, in insert order.
var InsertColumns = []string{"name", "surname", "email"}

// minColumnLength is the compatibility floor for the user columns. Creation
// uses 255, but externally pre-created tables with looser bounds still pass
// as long as they exceed 127 characters.
const minColumnLength = 127

// Gatekeeper verifies a target table's existence and shape, and creates the
// table on request.
type Gatekeeper struct {
	db     adapter.Adapter
	logger *slog.Logger
}

// NewGatekeeper creates a gatekeeper over a connected adapter.
func NewGatekeeper(db adapter.Adapter, logger *slog.Logger) *Gatekeeper {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Gatekeeper{db: db, logger: logger}
}

// createTableStatements returns the DDL for the users table in the given
// dialect: auto-incrementing id, bounded name/surname, unique bounded email.
// The CREATE is intentionally plain; an existing table makes it fail.
func createTableStatements(dialect string) []string {
	const columns = "name VARCHAR(255) NOT NULL, surname VARCHAR(255) NOT NULL, email VARCHAR(255) NOT NULL UNIQUE"

	switch dialect {
	case "sqlite":
		return []string{
			fmt.Sprintf("CREATE TABLE %s (id INTEGER PRIMARY KEY AUTOINCREMENT, %s)", TableName, columns),
		}
	case "duckdb":
		return []string{
			fmt.Sprintf("CREATE SEQUENCE %s_id_seq", TableName),
			fmt.Sprintf("CREATE TABLE %s (id BIGINT PRIMARY KEY DEFAULT nextval('%s_id_seq'), %s)", TableName, TableName, columns),
		}
	case "postgres":
		return []string{
			fmt.Sprintf("CREATE TABLE %s (id BIGSERIAL PRIMARY KEY, %s)", TableName, columns),
		}
	default:
		return []string{
			fmt.Sprintf("CREATE TABLE %s (id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY, %s)", TableName, columns),
		}
	}
}

// CreateTable issues the users table DDL for the adapter's dialect.
func (g *Gatekeeper) CreateTable(ctx context.Context) error {
	g.logger.Debug("creating table", slog.String("table", TableName), slog.String("dialect", g.db.DialectName()))

	for _, stmt := range createTableStatements(g.db.DialectName()) {
		if err := g.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create table %s: %w", TableName, err)
		}
	}
	return nil
}

// CheckCompatible inspects catalog metadata for the users table, requiring
// the name, surname, and email columns to exist with a declared maximum
// length above the floor (or no declared bound at all). Uniqueness of email
// is deliberately not verified.
func (g *Gatekeeper) CheckCompatible(ctx context.Context) (bool, error) {
	md, err := g.db.GetTableMetadata(ctx, TableName)
	if err != nil {
		if errors.Is(err, adapter.ErrTableNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to inspect table %s: %w", TableName, err)
	}

	for _, name := range InsertColumns {
		col := md.Column(name)
		if col == nil {
			g.logger.Debug("missing column", slog.String("column", name))
			return false, nil
		}
		if col.MaxLength != 0 && col.MaxLength <= minColumnLength {
			g.logger.Debug("column too narrow",
				slog.String("column", name), slog.Int64("max_length", col.MaxLength))
			return false, nil
		}
	}
	return true, nil
}

// Verify reports a fatal error when the users table is absent or
// incompatible, with a remediation hint for the user.
func (g *Gatekeeper) Verify(ctx context.Context) error {
	ok, err := g.CheckCompatible(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("table %q is missing or incompatible; run with --create_table first", TableName)
	}
	return nil
}
