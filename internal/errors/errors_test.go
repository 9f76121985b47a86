package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingFileError(t *testing.T) {
	err := fmt.Errorf("load landings: %w", &MissingFileError{Path: "dataset1.csv"})

	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.Contains(t, err.Error(), "dataset1.csv")
	assert.Equal(t, []string{"dataset1.csv"}, MissingFiles(err))
}

func TestMissingFiles_Joined(t *testing.T) {
	err := errors.Join(
		&MissingFileError{Path: "a.csv"},
		fmt.Errorf("wrapped: %w", &MissingFileError{Path: "b.csv"}),
		errors.New("unrelated"),
	)

	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.Equal(t, []string{"a.csv", "b.csv"}, MissingFiles(err))
	assert.Empty(t, MissingFiles(nil))
	assert.Empty(t, MissingFiles(errors.New("plain")))
}

func TestMissingColumnsError(t *testing.T) {
	err := &MissingColumnsError{Dataset: "landings", Columns: []string{"risk", "habit"}}

	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Equal(t, "landings missing column: risk, habit", err.Error())
}

func TestErrorToProblem(t *testing.T) {
	h := NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"missing file", &MissingFileError{Path: "x.csv"}, http.StatusNotFound, TypeDataNotFound},
		{"unknown section", fmt.Errorf("%w: foo", ErrUnknownSection), http.StatusNotFound, TypeNotFound},
		{"no report", ErrNoReport, http.StatusServiceUnavailable, TypeReportNotReady},
		{"missing column", &MissingColumnsError{Dataset: "d", Columns: []string{"c"}}, http.StatusUnprocessableEntity, TypeDataInvalid},
		{"empty dataset", fmt.Errorf("clean: %w", ErrEmptyDataset), http.StatusUnprocessableEntity, TypeDataInvalid},
		{"api error", ErrRateLimitExceeded, http.StatusTooManyRequests, TypeRateLimit},
		{"not found api error", fmt.Errorf("%w: %w", NotFoundError(`section "x"`), ErrUnknownSection), http.StatusNotFound, TypeNotFound},
		{"anything else", errors.New("disk on fire"), http.StatusInternalServerError, TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/report", nil)
			p := h.ErrorToProblem(tt.err, r)
			assert.Equal(t, tt.wantStatus, p.Status)
			assert.Equal(t, tt.wantType, p.Type)
			assert.Equal(t, "/api/report", p.Instance)
		})
	}
}

func TestHandleError_WritesProblemJSON(t *testing.T) {
	h := NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/report", nil)
	h.HandleError(rec, r, errors.Join(&MissingFileError{Path: "a.csv"}, &MissingFileError{Path: "b.csv"}))

	require.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TypeDataNotFound, body["type"])
	assert.Equal(t, float64(http.StatusNotFound), body["status"])
	assert.ElementsMatch(t, []interface{}{"a.csv", "b.csv"}, body["missing_files"])
	assert.Contains(t, body, "trace_id")
}

func TestNotFoundError(t *testing.T) {
	h := NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))

	rec := httptest.NewRecorder()
	h.HandleError(rec, httptest.NewRequest(http.MethodGet, "/api/report/x", nil), NotFoundError(`section "x"`))

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TypeNotFound, body["type"])
	assert.Equal(t, "NOT_FOUND", body["error_code"])
	assert.Equal(t, `section "x"`, body["details"])
	assert.Equal(t, `section "x" not found`, body["detail"])
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	p := NewProblemDetails(http.StatusBadRequest, TypeDataInvalid, "Bad", "", "").
		WithExtension("field", "alpha")

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "alpha", body["field"])
	assert.Equal(t, "Bad", body["title"])
	assert.NotContains(t, body, "detail")
	assert.NotContains(t, body, "instance")
}
