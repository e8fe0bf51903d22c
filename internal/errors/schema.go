package errors

import (
	stdErrors "errors"
	"fmt"
	"strings"
)

// SchemaError represents an input spreadsheet that cannot be processed
// (missing name column, empty header, unreadable file). Schema errors are
// fatal at startup; no partial run is attempted.
type SchemaError struct {
	Path    string
	Message string
	Columns []string // header columns actually present, if any
}

func (e *SchemaError) Error() string {
	if len(e.Columns) > 0 {
		return fmt.Sprintf("%s: %s (columns: %s)", e.Path, e.Message, strings.Join(e.Columns, ", "))
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// NewMissingColumnError creates a SchemaError for a required column that is
// absent from the input header.
func NewMissingColumnError(path, column string, columns []string) *SchemaError {
	return &SchemaError{
		Path:    path,
		Message: fmt.Sprintf("missing required column %q", column),
		Columns: columns,
	}
}

// NewSchemaError creates a SchemaError with a free-form message.
func NewSchemaError(path, message string) *SchemaError {
	return &SchemaError{Path: path, Message: message}
}

// IsSchemaError checks if error is a SchemaError
func IsSchemaError(err error) bool {
	var schemaErr *SchemaError
	return stdErrors.As(err, &schemaErr)
}
