package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
)

// Sentinel errors for the analysis pipeline. Wrap them with fmt.Errorf("%w")
// and test with errors.Is.
var (
	// ErrFileNotFound marks a dataset path that does not exist
	ErrFileNotFound = errors.New("file not found")
	// ErrMissingColumn marks a dataset lacking a column the analysis needs
	ErrMissingColumn = errors.New("missing column")
	// ErrEmptyDataset marks a dataset with no usable rows
	ErrEmptyDataset = errors.New("empty dataset")
	// ErrNoReport is returned before the first successful analysis run
	ErrNoReport = errors.New("no report available")
	// ErrUnknownSection marks a report section or plot name that does not exist
	ErrUnknownSection = errors.New("unknown section")
)

// MissingFileError reports a dataset file that could not be found
type MissingFileError struct {
	Path string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("%s: %s", ErrFileNotFound, e.Path)
}

// Is lets errors.Is(err, ErrFileNotFound) match
func (e *MissingFileError) Is(target error) bool {
	return target == ErrFileNotFound
}

// MissingFiles collects the paths of every MissingFileError in err,
// including those combined with errors.Join.
func MissingFiles(err error) []string {
	var paths []string
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		if mf, ok := e.(*MissingFileError); ok {
			paths = append(paths, mf.Path)
			return
		}
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(u.Unwrap())
		}
	}
	walk(err)
	return paths
}

// MissingColumnsError reports required columns absent from a dataset
type MissingColumnsError struct {
	Dataset string
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Dataset, ErrMissingColumn, strings.Join(e.Columns, ", "))
}

// Is lets errors.Is(err, ErrMissingColumn) match
func (e *MissingColumnsError) Is(target error) bool {
	return target == ErrMissingColumn
}

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

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Predefined error types for common scenarios
var (
	ErrRateLimitExceeded = New(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Rate limit exceeded")
	ErrInternalServer    = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
)

// NotFoundError creates a not found error whose details name the resource
func NotFoundError(resource string) *APIError {
	return NewWithDetails(http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("%s not found", resource), resource)
}
