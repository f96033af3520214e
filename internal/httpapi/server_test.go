package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/ccflags/internal/compdb"
	"github.com/blackwell-systems/ccflags/internal/resolver"
)

func newTestHandler() http.Handler {
	db := compdb.FromEntries([]compdb.Entry{{
		Directory: "/proj",
		File:      "src/a.c",
		Arguments: []string{"cc", "-Iinclude", "-c", "src/a.c"},
	}})
	return NewServer(&resolver.Resolver{DB: db}, "1.2.3").Handler()
}

func get(t *testing.T, h http.Handler, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := get(t, newTestHandler(), "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestVersion(t *testing.T) {
	rec := get(t, newTestHandler(), "/version", nil)
	assert.JSONEq(t, `{"version":"1.2.3"}`, rec.Body.String())
}

func TestFlags_Found(t *testing.T) {
	rec := get(t, newTestHandler(), "/flags?file="+url.QueryEscape("/proj/src/a.c"), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body fileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "/proj/src/a.c", body.File)
	assert.False(t, body.IsHeader)
	assert.True(t, body.DoCache)
	assert.Equal(t, []string{"-I/proj/include"}, body.Flags)
}

func TestFlags_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		status int
		code   string
	}{
		{"missing file", "/flags", http.StatusBadRequest, "missing_file"},
		{"relative file", "/flags?file=src/a.c", http.StatusBadRequest, "relative_file"},
		{"unknown file", "/flags?file=/other/b.c", http.StatusNotFound, "no_compilation_info"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := get(t, newTestHandler(), tc.target, nil)
			assert.Equal(t, tc.status, rec.Code)

			var body apiError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body.Error.Code)
		})
	}
}

func TestRequestID(t *testing.T) {
	h := newTestHandler()

	rec := get(t, h, "/healthz", nil)
	_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	assert.NoError(t, err, "generated request id should be a UUID")

	rec = get(t, h, "/healthz", http.Header{RequestIDHeader: {"editor-42"}})
	assert.Equal(t, "editor-42", rec.Header().Get(RequestIDHeader))
}

func TestUnknownRoute(t *testing.T) {
	rec := get(t, newTestHandler(), "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
