package rag

import (
	"context"
	"fmt"

	"rag-assistant/internal/embedding"
	"rag-assistant/internal/models"
	"rag-assistant/internal/vectorindex"
)

// Retriever embeds a query and fetches its nearest chunks from the index.
type Retriever struct {
	embedder embedding.Embedder
	index    vectorindex.Index
}

func NewRetriever(embedder embedding.Embedder, index vectorindex.Index) *Retriever {
	return &Retriever{embedder: embedder, index: index}
}

// Retrieve returns up to k hits ordered by descending similarity. A failed
// query embedding propagates; zero matches return an empty slice.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]models.Retrieved, error) {
	vector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	hits, err := r.index.Search(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}
	results := make([]models.Retrieved, 0, len(hits))
	for _, h := range hits {
		results = append(results, models.Retrieved{
			Text:   h.Payload.Text,
			Source: h.Payload.Source,
			Score:  h.Score,
		})
	}
	return results, nil
}
