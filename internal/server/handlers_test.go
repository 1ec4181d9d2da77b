package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rag-assistant/internal/ingest"
	"rag-assistant/internal/models"
	"rag-assistant/internal/rag"
)

type stubIngestor struct {
	report models.BatchReport
	got    []ingest.UploadedFile
}

func (s *stubIngestor) IngestBatch(ctx context.Context, files []ingest.UploadedFile) models.BatchReport {
	s.got = files
	return s.report
}

type stubQuerier struct {
	answer *models.Answer
	err    error
	got    string
}

func (s *stubQuerier) Query(ctx context.Context, query string) (*models.Answer, error) {
	s.got = query
	if s.err != nil {
		return nil, s.err
	}
	return s.answer, nil
}

func postJSON(t *testing.T, s *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func multipartUpload(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, content := range files {
		fw, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = io.Copy(fw, strings.NewReader(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestHandleQuery_OK(t *testing.T) {
	q := &stubQuerier{answer: &models.Answer{
		Text:    "The capital of France is Paris.",
		Sources: []models.Source{{Text: "Paris is the capital of France.", Filename: "facts.txt"}},
	}}
	s := New(&stubIngestor{}, q, t.TempDir())

	rec := postJSON(t, s, "/query", map[string]string{"query": "What is the capital of France?"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AnswerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Answer, "Paris")
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "facts.txt", resp.Sources[0].Filename)
	assert.Equal(t, "What is the capital of France?", q.got)
}

func TestHandleQuery_BlankQueryIs400(t *testing.T) {
	q := &stubQuerier{err: rag.ErrEmptyQuery}
	s := New(&stubIngestor{}, q, t.TempDir())

	rec := postJSON(t, s, "/query", map[string]string{"query": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleQuery_PipelineFailureIs500(t *testing.T) {
	q := &stubQuerier{err: errors.New("synthesis failed: model unavailable")}
	s := New(&stubIngestor{}, q, t.TempDir())

	rec := postJSON(t, s, "/query", map[string]string{"query": "q"})
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "synthesis failed")
}

func TestHandleQuery_SuggestionsShape(t *testing.T) {
	q := &stubQuerier{answer: &models.Answer{Suggestions: []models.Suggestion{}}}
	s := New(&stubIngestor{}, q, t.TempDir())

	rec := postJSON(t, s, "/query", map[string]string{"query": "improve?"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"suggestions": []}`, rec.Body.String())
}

func TestHandleIngest_OK(t *testing.T) {
	ing := &stubIngestor{report: models.BatchReport{Processed: 2, Chunks: 7}}
	s := New(ing, &stubQuerier{}, t.TempDir())

	body, contentType := multipartUpload(t, map[string]string{
		"a.txt": "alpha",
		"b.txt": "beta",
	})
	req := httptest.NewRequest(http.MethodPost, "/ingest", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp IngestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.FilesProcessed)
	assert.Equal(t, 7, resp.ChunksInserted)
	assert.Empty(t, resp.Errors)
	require.Len(t, ing.got, 2)
	// Original filenames are preserved for payload attribution.
	names := []string{ing.got[0].Name, ing.got[1].Name}
	assert.ElementsMatch(t, []string{"a.txt", "b.txt"}, names)
}

func TestHandleIngest_PartialFailureStill200(t *testing.T) {
	ing := &stubIngestor{report: models.BatchReport{
		Processed: 1,
		Chunks:    3,
		Errors:    []models.IngestError{{Filename: "bad.pdf", Message: "embedding chunks: boom"}},
	}}
	s := New(ing, &stubQuerier{}, t.TempDir())

	body, contentType := multipartUpload(t, map[string]string{"good.txt": "x", "bad.pdf": "y"})
	req := httptest.NewRequest(http.MethodPost, "/ingest", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp IngestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0], "bad.pdf")
}

func TestHandleIngest_NoFilesIs400(t *testing.T) {
	s := New(&stubIngestor{}, &stubQuerier{}, t.TempDir())

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, "/ingest", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleIngest_TempFilesRemoved(t *testing.T) {
	dir := t.TempDir()
	ing := &stubIngestor{report: models.BatchReport{Processed: 1, Chunks: 1}}
	s := New(ing, &stubQuerier{}, dir)

	body, contentType := multipartUpload(t, map[string]string{"a.txt": "alpha"})
	req := httptest.NewRequest(http.MethodPost, "/ingest", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, ing.got, 1)
	_, err := os.Stat(ing.got[0].Path)
	assert.True(t, os.IsNotExist(err))
}

func TestHealthz(t *testing.T) {
	s := New(&stubIngestor{}, &stubQuerier{}, t.TempDir())
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
