// Package errors defines the failure taxonomy for the report pipeline and
// its mapping onto structured HTTP responses. Every failure surfaces to the
// user; nothing is logged and dropped.
package errors

import (
	"fmt"
	"strings"
)

// SchemaError reports canonical columns still missing after the column
// mapping has been applied. Normalization is fail-fast: no partial dataset
// is ever returned alongside a SchemaError.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// NewSchemaError creates a SchemaError for the given missing column names.
func NewSchemaError(missing []string) *SchemaError {
	return &SchemaError{Missing: missing}
}

// ValueError reports a cell that could not be parsed into its typed form.
// Row is 1-based and counts data rows, excluding the header.
type ValueError struct {
	Row    int
	Column string
	Cause  error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("row %d, column %q: %v", e.Row, e.Column, e.Cause)
}

func (e *ValueError) Unwrap() error {
	return e.Cause
}

// UnsupportedFormatError reports an upload whose file extension is not
// recognized. No parsing is attempted.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format %q (expected .xlsx or .csv)", e.Ext)
}

// EmptyInputError reports an aggregation or pipeline stage invoked on zero
// matching records, e.g. a date filter that excludes every row. It is
// raised before any rendering is attempted.
type EmptyInputError struct {
	Op string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s: no records in input", e.Op)
}

// RenderingError reports a failure writing a chart image or document file.
// It aborts the remaining pipeline; partial artifacts are not offered for
// download.
type RenderingError struct {
	Artifact string
	Err      error
}

func (e *RenderingError) Error() string {
	return fmt.Sprintf("rendering %s: %v", e.Artifact, e.Err)
}

func (e *RenderingError) Unwrap() error {
	return e.Err
}
