package http

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zengjun200211-svg/douyindata/internal/dataset"
	apperrors "github.com/zengjun200211-svg/douyindata/internal/errors"
	"github.com/zengjun200211-svg/douyindata/internal/services"
)

// stubDataService scripts the data handler's dependency.
type stubDataService struct {
	status     services.Status
	uploadErr  error
	mappingErr error

	uploadedName string
	mapping      map[string]string
	sampleCalls  int
}

func (s *stubDataService) LoadSample(dataset.SampleOptions) services.Status {
	s.sampleCalls++
	return s.status
}

func (s *stubDataService) LoadUpload(r io.Reader, filename string) (services.Status, error) {
	io.Copy(io.Discard, r)
	s.uploadedName = filename
	if s.uploadErr != nil {
		return services.Status{}, s.uploadErr
	}
	return s.status, nil
}

func (s *stubDataService) ApplyMapping(mapping map[string]string) (services.Status, error) {
	s.mapping = mapping
	if s.mappingErr != nil {
		return services.Status{}, s.mappingErr
	}
	return s.status, nil
}

func (s *stubDataService) Status() services.Status {
	return s.status
}

func newDataServer(svc *stubDataService) *httptest.Server {
	h := NewDataHandler(svc, dataset.DefaultSampleOptions(), 1<<20, nil)
	return httptest.NewServer(h.Routes())
}

func multipartUpload(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestGetStatus(t *testing.T) {
	svc := &stubDataService{status: services.Status{Loaded: true, Records: 42}}
	server := newDataServer(svc)
	defer server.Close()

	resp, err := http.Get(server.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var status services.Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.True(t, status.Loaded)
	assert.Equal(t, 42, status.Records)
}

func TestLoadSample(t *testing.T) {
	svc := &stubDataService{status: services.Status{Loaded: true, Records: 180}}
	server := newDataServer(svc)
	defer server.Close()

	resp, err := http.Post(server.URL+"/sample", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, svc.sampleCalls)
}

func TestUpload(t *testing.T) {
	svc := &stubDataService{status: services.Status{Loaded: true, Records: 3}}
	server := newDataServer(svc)
	defer server.Close()

	body, contentType := multipartUpload(t, "file", "metrics.csv", "account,date\nA,2024-05-01\n")
	resp, err := http.Post(server.URL+"/upload", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "metrics.csv", svc.uploadedName)
}

func TestUploadMissingFilePart(t *testing.T) {
	server := newDataServer(&stubDataService{})
	defer server.Close()

	body, contentType := multipartUpload(t, "wrong_field", "metrics.csv", "x")
	resp, err := http.Post(server.URL+"/upload", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUploadErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unsupported format", &apperrors.UnsupportedFormatError{Ext: ".pdf"}, http.StatusUnprocessableEntity, "UNSUPPORTED_FORMAT"},
		{"empty input", &apperrors.EmptyInputError{Op: "load metrics.csv"}, http.StatusUnprocessableEntity, "EMPTY_INPUT"},
		{"bad value", &apperrors.ValueError{Row: 3, Column: "views"}, http.StatusUnprocessableEntity, "VALUE_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newDataServer(&stubDataService{uploadErr: tt.err})
			defer server.Close()

			body, contentType := multipartUpload(t, "file", "metrics.csv", "x")
			resp, err := http.Post(server.URL+"/upload", contentType, body)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			var apiErr apperrors.APIError
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&apiErr))
			assert.Equal(t, tt.wantCode, apiErr.ErrorCode)
		})
	}
}

func TestApplyMapping(t *testing.T) {
	svc := &stubDataService{status: services.Status{Loaded: true}}
	server := newDataServer(svc)
	defer server.Close()

	payload := `{"mapping":{"fans":"followers"}}`
	resp, err := http.Post(server.URL+"/mapping", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]string{"fans": "followers"}, svc.mapping)
}

func TestApplyMappingValidation(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"malformed json", `{`},
		{"empty mapping", `{"mapping":{}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newDataServer(&stubDataService{})
			defer server.Close()

			resp, err := http.Post(server.URL+"/mapping", "application/json", strings.NewReader(tt.payload))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestApplyMappingWithoutPendingUpload(t *testing.T) {
	server := newDataServer(&stubDataService{mappingErr: apperrors.ErrNoDataset})
	defer server.Close()

	payload := `{"mapping":{"fans":"followers"}}`
	resp, err := http.Post(server.URL+"/mapping", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}
