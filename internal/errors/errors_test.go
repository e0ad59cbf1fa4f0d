package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "missing required columns: likes, views",
		NewSchemaError([]string{"likes", "views"}).Error())
	assert.Equal(t, `row 3, column "views": bad number`,
		(&ValueError{Row: 3, Column: "views", Cause: fmt.Errorf("bad number")}).Error())
	assert.Equal(t, `unsupported file format ".pdf" (expected .xlsx or .csv)`,
		(&UnsupportedFormatError{Ext: ".pdf"}).Error())
	assert.Equal(t, "peak: no records in input",
		(&EmptyInputError{Op: "peak"}).Error())
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"schema", NewSchemaError([]string{"likes"}), http.StatusUnprocessableEntity, "SCHEMA_ERROR"},
		{"value", &ValueError{Row: 1, Column: "views"}, http.StatusUnprocessableEntity, "VALUE_ERROR"},
		{"format", &UnsupportedFormatError{Ext: ".pdf"}, http.StatusUnprocessableEntity, "UNSUPPORTED_FORMAT"},
		{"empty", &EmptyInputError{Op: "x"}, http.StatusUnprocessableEntity, "EMPTY_INPUT"},
		{"rendering", &RenderingError{Artifact: "a.png", Err: fmt.Errorf("disk full")}, http.StatusInternalServerError, "RENDERING_ERROR"},
		{"api passthrough", ErrNoDataset, http.StatusConflict, "NO_DATASET"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := FromError(tt.err)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.wantCode, apiErr.ErrorCode)
		})
	}
}

func TestFromErrorWrapped(t *testing.T) {
	wrapped := fmt.Errorf("loading upload: %w", &EmptyInputError{Op: "load"})
	apiErr := FromError(wrapped)
	assert.Equal(t, "EMPTY_INPUT", apiErr.ErrorCode)
}

func TestRenderingErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := &RenderingError{Artifact: "a.png", Err: cause}
	assert.ErrorIs(t, err, cause)
}
