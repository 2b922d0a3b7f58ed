package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftline-labs/userload/internal/adapter"
)

func TestBuildPostgresDSN(t *testing.T) {
	tests := []struct {
		name     string
		config   adapter.Config
		expected string
	}{
		{
			name: "basic connection",
			config: adapter.Config{
				Host:     "localhost",
				Port:     5432,
				Database: "users",
				Username: "importer",
				Password: "secret",
			},
			expected: "host=localhost port=5432 dbname=users sslmode=disable user=importer password=secret",
		},
		{
			name: "with custom sslmode",
			config: adapter.Config{
				Host:     "prod.example.com",
				Port:     5432,
				Database: "directory",
				Username: "admin",
				Options:  map[string]string{"sslmode": "require"},
			},
			expected: "host=prod.example.com port=5432 dbname=directory sslmode=require user=admin",
		},
		{
			name: "defaults",
			config: adapter.Config{
				Database: "users",
			},
			expected: "host=localhost port=5432 dbname=users sslmode=disable",
		},
		{
			name: "custom port",
			config: adapter.Config{
				Host:     "db.example.com",
				Port:     5433,
				Database: "users",
				Username: "importer",
			},
			expected: "host=db.example.com port=5433 dbname=users sslmode=disable user=importer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn := buildPostgresDSN(tt.config)
			assert.Equal(t, tt.expected, dsn)
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	adp := New(nil)

	dupErr := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	assert.True(t, adp.IsUniqueViolation(dupErr))
	assert.True(t, adp.IsUniqueViolation(fmt.Errorf("exec: %w", dupErr)))

	assert.False(t, adp.IsUniqueViolation(&pgconn.PgError{Code: "23502"}))
	assert.False(t, adp.IsUniqueViolation(errors.New("connection reset")))
	assert.False(t, adp.IsUniqueViolation(nil))
}

func TestNew(t *testing.T) {
	adp := New(nil)
	require.NotNil(t, adp)
	assert.Equal(t, "postgres", adp.DialectName())
	assert.False(t, adp.IsConnected())
}

// mockAdapter wires a sqlmock connection into the adapter.
func mockAdapter(t *testing.T) (*Adapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	adp := New(nil)
	adp.DB = db
	return adp, mock
}

func TestGetTableMetadata(t *testing.T) {
	adp, mock := mockAdapter(t)

	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("public", "users").
		WillReturnRows(sqlmock.NewRows(
			[]string{"column_name", "data_type", "is_nullable", "character_maximum_length", "ordinal_position"}).
			AddRow("id", "bigint", "NO", nil, 1).
			AddRow("name", "character varying", "NO", 255, 2).
			AddRow("surname", "character varying", "NO", 255, 3).
			AddRow("email", "character varying", "NO", 255, 4))
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	md, err := adp.GetTableMetadata(context.Background(), "users")
	require.NoError(t, err)

	assert.Equal(t, "public", md.Schema)
	assert.Equal(t, "users", md.Name)
	assert.Equal(t, int64(42), md.RowCount)
	require.Len(t, md.Columns, 4)

	email := md.Column("email")
	require.NotNil(t, email)
	assert.Equal(t, int64(255), email.MaxLength)
	assert.False(t, email.Nullable)

	id := md.Column("id")
	require.NotNil(t, id)
	assert.Zero(t, id.MaxLength)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTableMetadataMissingTable(t *testing.T) {
	adp, mock := mockAdapter(t)

	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("public", "users").
		WillReturnRows(sqlmock.NewRows(
			[]string{"column_name", "data_type", "is_nullable", "character_maximum_length", "ordinal_position"}))

	_, err := adp.GetTableMetadata(context.Background(), "users")
	require.Error(t, err)
	assert.ErrorIs(t, err, adapter.ErrTableNotFound)
}

func TestGetTableMetadataQualifiedName(t *testing.T) {
	adp, mock := mockAdapter(t)

	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("app", "users").
		WillReturnRows(sqlmock.NewRows(
			[]string{"column_name", "data_type", "is_nullable", "character_maximum_length", "ordinal_position"}).
			AddRow("email", "character varying", "NO", 255, 1))
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	md, err := adp.GetTableMetadata(context.Background(), "app.users")
	require.NoError(t, err)
	assert.Equal(t, "app", md.Schema)
}

func TestPrepareInsertPlaceholders(t *testing.T) {
	adp, mock := mockAdapter(t)

	mock.ExpectPrepare(`INSERT INTO users \(name, surname, email\) VALUES \(\$1, \$2, \$3\)`).
		ExpectExec().
		WithArgs("John", "Doe", "john@example.com").
		WillReturnResult(sqlmock.NewResult(1, 1))

	stmt, err := adp.PrepareInsert(context.Background(), "users", "name", "surname", "email")
	require.NoError(t, err)
	defer func() { _ = stmt.Close() }()

	n, err := stmt.Exec(context.Background(), "John", "Doe", "john@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPrepareInsertRequiresColumns(t *testing.T) {
	adp, _ := mockAdapter(t)

	_, err := adp.PrepareInsert(context.Background(), "users")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no columns specified")
}
