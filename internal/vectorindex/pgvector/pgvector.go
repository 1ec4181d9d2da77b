// Package pgvector backs the vectorindex contract with Postgres and the
// pgvector extension, accessed through bun.
package pgvector

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"rag-assistant/internal/vectorindex"
)

type document struct {
	bun.BaseModel `bun:"table:documents,alias:d"`
	ID            string    `bun:"id,pk"`
	Text          string    `bun:"text,notnull"`
	Source        string    `bun:"source,notnull"`
	Embedding     []float32 `bun:"embedding,notnull"`
}

type Store struct {
	db *bun.DB
}

type Config struct {
	DSN      string
	Password string
	Debug    bool
}

func New(cfg Config) *Store {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(cfg.DSN),
		pgdriver.WithPassword(cfg.Password),
	))
	db := bun.NewDB(sqldb, pgdialect.New())
	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) EnsureCollection(ctx context.Context, dimension int) error {
	if _, err := s.db.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("failed to enable pgvector: %w", err)
	}
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS documents (
		id uuid PRIMARY KEY,
		text text NOT NULL,
		source text NOT NULL,
		embedding vector(%d) NOT NULL
	)`, dimension)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create documents table: %w", err)
	}
	return nil
}

func (s *Store) Upsert(ctx context.Context, points []vectorindex.Point) error {
	if len(points) == 0 {
		return nil
	}
	docs := make([]document, len(points))
	for i, p := range points {
		docs[i] = document{
			ID:        p.ID,
			Text:      p.Payload.Text,
			Source:    p.Payload.Source,
			Embedding: p.Vector,
		}
	}
	_, err := s.db.NewInsert().
		Model(&docs).
		On("CONFLICT (id) DO UPDATE").
		Set("text = EXCLUDED.text").
		Set("source = EXCLUDED.source").
		Set("embedding = EXCLUDED.embedding").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to store documents: %w", err)
	}
	return nil
}

func (s *Store) Search(ctx context.Context, vector []float32, k int) ([]vectorindex.Hit, error) {
	var rows []struct {
		Text     string  `bun:"text"`
		Source   string  `bun:"source"`
		Distance float32 `bun:"distance"`
	}
	err := s.db.NewSelect().
		Model((*document)(nil)).
		Column("text", "source").
		ColumnExpr("embedding <=> ? AS distance", vector).
		OrderExpr("embedding <=> ?", vector).
		Limit(k).
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to search documents: %w", err)
	}
	hits := make([]vectorindex.Hit, 0, len(rows))
	for _, r := range rows {
		hits = append(hits, vectorindex.Hit{
			Payload: vectorindex.Payload{Text: r.Text, Source: r.Source},
			// cosine distance to similarity
			Score: 1 - r.Distance,
		})
	}
	return hits, nil
}
