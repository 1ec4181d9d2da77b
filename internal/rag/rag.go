// Package rag composes retrieval, relevance filtering and answer synthesis
// into one query cycle.
package rag

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"rag-assistant/internal/models"
)

// ErrEmptyQuery rejects blank queries before any external call is made.
var ErrEmptyQuery = errors.New("query must not be empty")

// NoContextAnswer is returned when retrieval finds nothing; the filtering
// and synthesis models are never called in that case.
const NoContextAnswer = "I could not find any relevant information in the documents to answer your question."

// RAG runs the full query path: retrieve, filter, synthesize.
type RAG struct {
	retriever *Retriever
	filter    *Filter
	synth     *Synthesizer
	topK      int
}

func NewRAG(retriever *Retriever, filter *Filter, synth *Synthesizer, topK int) *RAG {
	return &RAG{retriever: retriever, filter: filter, synth: synth, topK: topK}
}

func (r *RAG) Query(ctx context.Context, query string) (*models.Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	results, err := r.retriever.Retrieve(ctx, query, r.topK)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		log.Debug().Str("query", query).Msg("No results retrieved, short-circuiting")
		return &models.Answer{Text: NoContextAnswer, Sources: []models.Source{}}, nil
	}

	filtered := r.filter.Filter(ctx, query, results)
	log.Debug().Int("retrieved", len(results)).Int("filtered", len(filtered)).Msg("Context selected")

	return r.synth.Synthesize(ctx, query, filtered)
}
