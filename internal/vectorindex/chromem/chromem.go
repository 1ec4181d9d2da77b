// Package chromem adapts the embedded chromem-go database to the
// vectorindex contract.
package chromem

import (
	"context"
	"fmt"
	"runtime"

	"github.com/philippgille/chromem-go"

	"rag-assistant/internal/vectorindex"
)

const compress = false

// Store wraps one chromem-go collection.
type Store struct {
	db         *chromem.DB
	collection *chromem.Collection
	name       string
}

// New opens (or creates) a persistent database at path, or an in-memory one
// when inMemory is set.
func New(path, collectionName string, inMemory bool) (*Store, error) {
	var (
		db  *chromem.DB
		err error
	)
	if inMemory {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(path, compress)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
	}
	return &Store{db: db, name: collectionName}, nil
}

func (s *Store) EnsureCollection(ctx context.Context, dimension int) error {
	c, err := s.db.GetOrCreateCollection(s.name, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to create/get collection: %w", err)
	}
	s.collection = c
	return nil
}

func (s *Store) Upsert(ctx context.Context, points []vectorindex.Point) error {
	if len(points) == 0 {
		return nil
	}
	docs := make([]chromem.Document, len(points))
	for i, p := range points {
		docs[i] = chromem.Document{
			ID:        p.ID,
			Content:   p.Payload.Text,
			Metadata:  map[string]string{"source": p.Payload.Source},
			Embedding: p.Vector,
		}
	}
	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}
	return nil
}

func (s *Store) Search(ctx context.Context, vector []float32, k int) ([]vectorindex.Hit, error) {
	// chromem rejects queries asking for more results than stored documents.
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}
	results, err := s.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: vector,
		NResults:       k,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %w", err)
	}
	hits := make([]vectorindex.Hit, 0, len(results))
	for _, r := range results {
		hits = append(hits, vectorindex.Hit{
			Payload: vectorindex.Payload{Text: r.Content, Source: r.Metadata["source"]},
			Score:   r.Similarity,
		})
	}
	return hits, nil
}
