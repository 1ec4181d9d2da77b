// Package embedding wraps the external embedding model behind a small
// gateway interface. Vectors come back in the same order and count as the
// input texts; a rejected batch fails as a whole.
package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"rag-assistant/internal/config"
)

// Embedder maps text to fixed-dimension vectors.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Gateway is a langchaingo-backed Embedder.
type Gateway struct {
	impl *embeddings.EmbedderImpl
}

// NewGateway builds an embedder for the configured provider.
func NewGateway(cfg *config.LLMConfig) (*Gateway, error) {
	var (
		impl *embeddings.EmbedderImpl
		err  error
	)
	switch cfg.Provider {
	case "ollama":
		impl, err = newOllamaEmbedder(cfg)
	default:
		impl, err = newOpenAIEmbedder(cfg)
	}
	if err != nil {
		return nil, err
	}
	return &Gateway{impl: impl}, nil
}

func newOpenAIEmbedder(cfg *config.LLMConfig) (*embeddings.EmbedderImpl, error) {
	llm, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")),
		openai.WithModel(cfg.EmbeddingModel),
		openai.WithEmbeddingModel(cfg.EmbeddingModel),
	)
	if err != nil {
		return nil, fmt.Errorf("error initializing LLM: %w", err)
	}
	return embeddings.NewEmbedder(llm)
}

func newOllamaEmbedder(cfg *config.LLMConfig) (*embeddings.EmbedderImpl, error) {
	llm, err := ollama.New(
		ollama.WithServerURL(cfg.BaseURL),
		ollama.WithModel(cfg.EmbeddingModel),
	)
	if err != nil {
		return nil, fmt.Errorf("error initializing LLM: %w", err)
	}
	return embeddings.NewEmbedder(llm)
}

func (g *Gateway) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := g.impl.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("error generating embeddings: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedding gateway returned %d vectors for %d texts", len(vectors), len(texts))
	}
	return vectors, nil
}

func (g *Gateway) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vector, err := g.impl.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("error generating embedding: %w", err)
	}
	return vector, nil
}
