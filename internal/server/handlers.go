package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"rag-assistant/internal/helper"
	"rag-assistant/internal/ingest"
	"rag-assistant/internal/models"
	"rag-assistant/internal/rag"
)

// IngestResponse reports one ingestion batch. Partial failure is still a
// 200: whatever succeeded is counted and the rest is listed in errors.
type IngestResponse struct {
	Message        string   `json:"message"`
	FilesProcessed int      `json:"files_processed"`
	ChunksInserted int      `json:"chunks_inserted"`
	Errors         []string `json:"errors"`
}

type QueryRequest struct {
	Query string `json:"query"`
}

type AnswerResponse struct {
	Answer  string          `json:"answer"`
	Sources []models.Source `json:"sources"`
}

type SuggestionsResponse struct {
	Suggestions []models.Suggestion `json:"suggestions"`
}

func (s *Server) handleIngest(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "expected multipart form upload")
	}
	uploads := form.File["files"]
	if len(uploads) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no files were sent")
	}

	if err := helper.CreateFolder(s.uploadDir); err != nil {
		return fmt.Errorf("creating upload dir: %w", err)
	}

	files := make([]ingest.UploadedFile, 0, len(uploads))
	// Temp copies are removed whether or not processing succeeds.
	defer func() {
		for _, f := range files {
			if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
				log.Warn().Err(err).Str("path", f.Path).Msg("Failed to remove temp upload")
			}
		}
	}()

	for _, fh := range uploads {
		name := filepath.Base(fh.Filename)
		id, err := helper.GenerateUUID()
		if err != nil {
			return err
		}
		path := filepath.Join(s.uploadDir, fmt.Sprintf("%s-%s", id, name))
		if err := saveUpload(fh, path); err != nil {
			return fmt.Errorf("saving upload %s: %w", name, err)
		}
		files = append(files, ingest.UploadedFile{Path: path, Name: fh.Filename})
	}

	report := s.ingestor.IngestBatch(c.Request().Context(), files)

	errMsgs := make([]string, 0, len(report.Errors))
	for _, e := range report.Errors {
		errMsgs = append(errMsgs, fmt.Sprintf("Failed to process file %s: %s", e.Filename, e.Message))
	}
	return c.JSON(http.StatusOK, IngestResponse{
		Message:        fmt.Sprintf("Indexing complete. Processed %d/%d files.", report.Processed, len(uploads)),
		FilesProcessed: report.Processed,
		ChunksInserted: report.Chunks,
		Errors:         errMsgs,
	})
}

func (s *Server) handleQuery(c echo.Context) error {
	var req QueryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	answer, err := s.querier.Query(c.Request().Context(), req.Query)
	if err != nil {
		if errors.Is(err, rag.ErrEmptyQuery) {
			return echo.NewHTTPError(http.StatusBadRequest, "query must not be empty")
		}
		return err
	}

	if answer.Suggestions != nil {
		return c.JSON(http.StatusOK, SuggestionsResponse{Suggestions: answer.Suggestions})
	}
	return c.JSON(http.StatusOK, AnswerResponse{Answer: answer.Text, Sources: answer.Sources})
}

func saveUpload(fh *multipart.FileHeader, path string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}
