package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// Predefined errors for conditions not tied to a pipeline failure.
var (
	ErrInvalidRequest = New(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")
	ErrNoDataset      = New(http.StatusConflict, "NO_DATASET", "No dataset loaded; upload a file or load the sample data first")
	ErrNotFound       = New(http.StatusNotFound, "NOT_FOUND", "Resource not found")
	ErrInternalServer = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
)

// ValidationError carries per-field validation details in API responses.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrValidation creates a validation error with field details
func ErrValidation(field, message string) *APIError {
	return &APIError{
		StatusCode: http.StatusBadRequest,
		ErrorCode:  "VALIDATION_FAILED",
		Message:    "Request validation failed",
		Details:    ValidationError{Field: field, Message: message},
	}
}

// FromError maps a pipeline error onto its API representation. Domain
// errors keep their message verbatim so the user sees exactly what failed.
func FromError(err error) *APIError {
	var (
		schemaErr    *SchemaError
		valueErr     *ValueError
		formatErr    *UnsupportedFormatError
		emptyErr     *EmptyInputError
		renderingErr *RenderingError
		apiErr       *APIError
	)

	switch {
	case stderrors.As(err, &apiErr):
		return apiErr
	case stderrors.As(err, &schemaErr):
		return &APIError{
			StatusCode: http.StatusUnprocessableEntity,
			ErrorCode:  "SCHEMA_ERROR",
			Message:    schemaErr.Error(),
			Details:    schemaErr.Missing,
		}
	case stderrors.As(err, &valueErr):
		return New(http.StatusUnprocessableEntity, "VALUE_ERROR", valueErr.Error())
	case stderrors.As(err, &formatErr):
		return New(http.StatusUnprocessableEntity, "UNSUPPORTED_FORMAT", formatErr.Error())
	case stderrors.As(err, &emptyErr):
		return New(http.StatusUnprocessableEntity, "EMPTY_INPUT", emptyErr.Error())
	case stderrors.As(err, &renderingErr):
		return New(http.StatusInternalServerError, "RENDERING_ERROR", renderingErr.Error())
	default:
		return New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", err.Error())
	}
}
