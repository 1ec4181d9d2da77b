// Package server exposes the ingestion and query pipelines over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"rag-assistant/internal/ingest"
	"rag-assistant/internal/models"
)

// Ingestor is the ingestion pipeline consumed by the upload handler.
type Ingestor interface {
	IngestBatch(ctx context.Context, files []ingest.UploadedFile) models.BatchReport
}

// Querier is the query orchestrator consumed by the query handler.
type Querier interface {
	Query(ctx context.Context, query string) (*models.Answer, error)
}

type Server struct {
	e         *echo.Echo
	ingestor  Ingestor
	querier   Querier
	uploadDir string
}

func New(ingestor Ingestor, querier Querier, uploadDir string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		log.Error().Err(err).Int("code", code).Str("method", req.Method).Str("path", req.URL.Path).Msg("Request failed")
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]string{"error": msg})
		}
	}

	s := &Server{e: e, ingestor: ingestor, querier: querier, uploadDir: uploadDir}

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.POST("/ingest", s.handleIngest)
	e.POST("/query", s.handleQuery)

	return s
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
