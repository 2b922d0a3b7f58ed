package importer

// validate.go - per-row normalization and validation rules

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// minColumns is the number of leading fields a row must carry
// (name, surname, email).
const minColumns = 3

// Row is a normalized user record ready for insertion. Extra holds any
// trailing fields past the email column; they are reported upstream but
// never persisted.
type Row struct {
	Name    string
	Surname string
	Email   string
	Extra   []string
}

// Email address grammar: the local part is dot-separated atoms of letters,
// digits, and the unquoted specials !#$%&'*+-/=?^_`{|} (no leading, trailing,
// or doubled dot); the domain is standard dotted host labels with at least
// two labels. Input is lowercased before matching.
var emailPattern = regexp.MustCompile(
	"^[a-z0-9!#$%&'*+\\-/=?^_\x60{|}]+(\\.[a-z0-9!#$%&'*+\\-/=?^_\x60{|}]+)*" +
		"@[a-z0-9]([a-z0-9-]*[a-z0-9])?(\\.[a-z0-9]([a-z0-9-]*[a-z0-9])?)+$")

// Validate maps one raw CSV record to a normalized Row or a ValidationError.
// Validation is idempotent: an already-normalized row validates to itself.
func Validate(fields []string) (Row, error) {
	if len(fields) < minColumns {
		return Row{}, &ValidationError{
			Message: "fewer than 3 columns",
		}
	}

	name := capitalize(strings.TrimSpace(fields[0]))
	if name == "" {
		return Row{}, &ValidationError{Field: "name", Message: "required field is empty"}
	}

	surname := capitalize(strings.TrimSpace(fields[1]))
	if surname == "" {
		return Row{}, &ValidationError{Field: "surname", Message: "required field is empty"}
	}

	email := strings.ToLower(strings.TrimSpace(fields[2]))
	if !emailPattern.MatchString(email) {
		return Row{}, &ValidationError{Field: "email", Value: email, Message: "invalid email address"}
	}

	row := Row{Name: name, Surname: surname, Email: email}
	if len(fields) > minColumns {
		row.Extra = fields[minColumns:]
	}
	return row, nil
}

// capitalize lowercases s and upper-cases its first rune. The rule is
// deliberately literal, not smart title-casing: "o'brien" becomes "O'brien".
func capitalize(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(s)
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
