// Package vectorindex defines the contract the pipeline requires from a
// vector similarity store. The store is the system of record for indexed
// chunks; only the ingestion pipeline writes to it.
package vectorindex

import "context"

// Payload is the data carried alongside each vector.
type Payload struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

// Point is one persisted (id, vector, payload) record. IDs are generated
// UUIDs and never reused; upserting an existing ID overwrites it.
type Point struct {
	ID      string
	Vector  []float32
	Payload Payload
}

// Hit is one similarity match, scored higher for closer vectors.
type Hit struct {
	Payload Payload
	Score   float32
}

// Index is a nearest-neighbour store over fixed-dimension vectors.
type Index interface {
	// EnsureCollection creates the backing collection if absent. Idempotent.
	EnsureCollection(ctx context.Context, dimension int) error
	// Upsert durably writes all points before returning.
	Upsert(ctx context.Context, points []Point) error
	// Search returns up to k hits ordered by descending similarity. An empty
	// store yields an empty result, not an error.
	Search(ctx context.Context, vector []float32, k int) ([]Hit, error)
}
