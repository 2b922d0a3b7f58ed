package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNormalizesNames(t *testing.T) {
	tests := []struct {
		name        string
		fields      []string
		wantName    string
		wantSurname string
	}{
		{
			name:        "all caps",
			fields:      []string{"JOHN", "DOE", "john@example.com"},
			wantName:    "John",
			wantSurname: "Doe",
		},
		{
			name:        "mixed case",
			fields:      []string{"jOHN", "dOE", "john@example.com"},
			wantName:    "John",
			wantSurname: "Doe",
		},
		{
			name:        "surrounding whitespace",
			fields:      []string{"  john ", " Doe  ", "john@example.com"},
			wantName:    "John",
			wantSurname: "Doe",
		},
		{
			name:        "apostrophe stays literal",
			fields:      []string{"o'brien", "mcdonald", "o@example.com"},
			wantName:    "O'brien",
			wantSurname: "Mcdonald",
		},
		{
			name:        "single rune",
			fields:      []string{"x", "y", "x@example.com"},
			wantName:    "X",
			wantSurname: "Y",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, err := Validate(tt.fields)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, row.Name)
			assert.Equal(t, tt.wantSurname, row.Surname)
		})
	}
}

func TestValidateIsIdempotent(t *testing.T) {
	row, err := Validate([]string{"John", "Doe", "john.doe@example.com"})
	require.NoError(t, err)

	again, err := Validate([]string{row.Name, row.Surname, row.Email})
	require.NoError(t, err)
	assert.Equal(t, row, again)
}

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"john.doe@example.com",
		"mo'connor@cat.net.nz",
		"sam!@walters.org",
		"user%example.com@example.org",
		"a+b@plus.example.com",
		"x_y=z@under.example.io",
		"1234567890@numbers.example.com",
		"a@b.co",
	}
	for _, email := range valid {
		t.Run(email, func(t *testing.T) {
			row, err := Validate([]string{"John", "Doe", email})
			require.NoError(t, err)
			assert.Equal(t, email, row.Email)
		})
	}

	invalid := []string{
		"edward@jikes@com.au",
		`just"not"right@example.com`,
		"John..Doe@example.com",
		".lead@example.com",
		"trail.@example.com",
		"noatsign.example.com",
		"john@",
		"@example.com",
		"john@example",
		"john@-bad.example.com",
		"john doe@example.com",
		"",
	}
	for _, email := range invalid {
		t.Run("reject "+email, func(t *testing.T) {
			_, err := Validate([]string{"John", "Doe", email})
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "email", verr.Field)
		})
	}
}

func TestValidateLowercasesEmail(t *testing.T) {
	row, err := Validate([]string{"John", "Doe", "John.DOE@Example.COM"})
	require.NoError(t, err)
	assert.Equal(t, "john.doe@example.com", row.Email)
}

func TestValidateRejectsShortRows(t *testing.T) {
	for _, fields := range [][]string{
		{},
		{"John"},
		{"John", "Doe"},
	} {
		_, err := Validate(fields)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fewer than 3 columns")
	}
}

func TestValidateRejectsEmptyRequiredFields(t *testing.T) {
	tests := []struct {
		name      string
		fields    []string
		wantField string
	}{
		{"empty name", []string{"", "Doe", "john@example.com"}, "name"},
		{"whitespace name", []string{"   ", "Doe", "john@example.com"}, "name"},
		{"empty surname", []string{"John", "", "john@example.com"}, "surname"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.fields)
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestValidateKeepsExtraColumns(t *testing.T) {
	row, err := Validate([]string{"John", "Doe", "john@example.com", "engineering", "active"})
	require.NoError(t, err)
	assert.Equal(t, []string{"engineering", "active"}, row.Extra)

	row, err = Validate([]string{"John", "Doe", "john@example.com"})
	require.NoError(t, err)
	assert.Nil(t, row.Extra)
}
