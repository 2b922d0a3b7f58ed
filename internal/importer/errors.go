package importer

import "fmt"

// ValidationError describes why a row failed validation. Row-level errors are
// always recoverable: the pipeline logs them and continues with the next line.
type ValidationError struct {
	Field   string // field/column name, empty for structural failures
	Value   string // the offending value, if any
	Message string // human-readable reason
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}
