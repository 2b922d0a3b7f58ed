package adapter

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnknownAdapterError_Error(t *testing.T) {
	err := &UnknownAdapterError{
		Type:      "fake_db",
		Available: []string{"postgres", "sqlite"},
	}

	msg := err.Error()

	assert.NotEmpty(t, msg, "error message should not be empty")

	// Should mention the type
	assert.Contains(t, msg, "fake_db", "error should mention the unknown type 'fake_db'")

	// Should hint about config
	assert.Contains(t, msg, "userload.yaml", "error should mention config file")
}

func TestRegister(t *testing.T) {
	Register("test_adapter_internal", func(_ *slog.Logger) Adapter { return nil })

	assert.True(t, IsRegistered("test_adapter_internal"), "test_adapter_internal should be registered after Register()")

	factory, ok := Get("test_adapter_internal")
	assert.True(t, ok, "Get(test_adapter_internal) should return true after Register()")
	assert.NotNil(t, factory, "Get(test_adapter_internal) should return non-nil factory")
}

func TestNew_EmptyType(t *testing.T) {
	_, err := New(Config{Type: ""}, nil)
	require.Error(t, err, "New with empty type should fail")
	assert.Equal(t, "adapter type not specified", err.Error(), "error message")
}

func TestNew_UnknownType(t *testing.T) {
	_, err := New(Config{Type: "no_such_db"}, nil)
	require.Error(t, err)

	var unknownErr *UnknownAdapterError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "no_such_db", unknownErr.Type)
}

func TestListAdaptersSorted(t *testing.T) {
	Register("zzz_test", func(_ *slog.Logger) Adapter { return nil })
	Register("aaa_test", func(_ *slog.Logger) Adapter { return nil })

	names := ListAdapters()
	assert.Contains(t, names, "aaa_test")
	assert.Contains(t, names, "zzz_test")
	assert.IsIncreasing(t, names)
}

func TestMetadataColumnLookup(t *testing.T) {
	md := &Metadata{
		Name: "users",
		Columns: []Column{
			{Name: "id", Position: 1},
			{Name: "email", Position: 4, MaxLength: 255},
		},
	}

	col := md.Column("email")
	require.NotNil(t, col)
	assert.Equal(t, int64(255), col.MaxLength)

	assert.Nil(t, md.Column("missing"))
}

func TestParseQualifiedName(t *testing.T) {
	tests := []struct {
		input      string
		defSchema  string
		wantSchema string
		wantTable  string
	}{
		{"users", "public", "public", "users"},
		{"app.users", "public", "app", "users"},
		{"users", "main", "main", "users"},
	}

	for _, tt := range tests {
		schema, table := ParseQualifiedName(tt.input, tt.defSchema)
		assert.Equal(t, tt.wantSchema, schema)
		assert.Equal(t, tt.wantTable, table)
	}
}
