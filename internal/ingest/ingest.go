// Package ingest orchestrates extract, chunk, embed and upsert for uploaded
// documents. Batches have partial-failure semantics: one bad file never
// stops the rest.
package ingest

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"rag-assistant/internal/chunker"
	"rag-assistant/internal/embedding"
	"rag-assistant/internal/extractor"
	"rag-assistant/internal/helper"
	"rag-assistant/internal/models"
	"rag-assistant/internal/vectorindex"
)

// UploadedFile points at a transient on-disk copy of one uploaded file.
// Name is the original filename; the caller owns Path's lifetime.
type UploadedFile struct {
	Path string
	Name string
}

// Pipeline ingests documents into the vector index.
type Pipeline struct {
	embedder     embedding.Embedder
	index        vectorindex.Index
	chunkSize    int
	chunkOverlap int

	// extract is swappable for tests; defaults to extractor.Extract.
	extract func(path string) string
}

func NewPipeline(embedder embedding.Embedder, index vectorindex.Index, chunkSize, chunkOverlap int) *Pipeline {
	return &Pipeline{
		embedder:     embedder,
		index:        index,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		extract:      extractor.Extract,
	}
}

// IngestFile processes a single file and returns the number of chunks
// indexed. Empty or unsupported files return 0 without error; embedding and
// upsert failures are returned for the caller to record.
func (p *Pipeline) IngestFile(ctx context.Context, path, filename string) (int, error) {
	text := p.extract(path)
	chunks := chunker.Split(text, p.chunkSize, p.chunkOverlap)
	if len(chunks) == 0 {
		log.Debug().Str("file", filename).Msg("No chunks generated, skipping")
		return 0, nil
	}

	vectors, err := p.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("embedding chunks: %w", err)
	}

	points := make([]vectorindex.Point, len(chunks))
	for i, chunk := range chunks {
		id, err := helper.GenerateUUID()
		if err != nil {
			return 0, err
		}
		points[i] = vectorindex.Point{
			ID:      id,
			Vector:  vectors[i],
			Payload: vectorindex.Payload{Text: chunk, Source: filename},
		}
	}

	if err := p.index.Upsert(ctx, points); err != nil {
		return 0, fmt.Errorf("upserting points: %w", err)
	}
	return len(chunks), nil
}

// IngestBatch processes files in order. Files yielding no chunks are skipped
// silently; files that fail are recorded in the report's error list and the
// batch continues.
func (p *Pipeline) IngestBatch(ctx context.Context, files []UploadedFile) models.BatchReport {
	var report models.BatchReport
	for _, f := range files {
		n, err := p.IngestFile(ctx, f.Path, f.Name)
		if err != nil {
			log.Error().Err(err).Str("file", f.Name).Msg("Failed to process file")
			report.Errors = append(report.Errors, models.IngestError{
				Filename: f.Name,
				Message:  err.Error(),
			})
			continue
		}
		if n > 0 {
			report.Processed++
			report.Chunks += n
		}
	}
	return report
}
