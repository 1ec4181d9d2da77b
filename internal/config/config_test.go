package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "llm:\n  key: test-key\n"))
	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, 2000, cfg.RAG.ChunkSize)
	assert.Equal(t, 200, cfg.RAG.ChunkOverlap)
	assert.Equal(t, 5, cfg.RAG.TopK)
	assert.Equal(t, "narrative", cfg.RAG.Mode)
	assert.Equal(t, "chromem", cfg.Store.Type)
	assert.Equal(t, 1536, cfg.Store.Dimension)
}

func TestLoadConfig_Overrides(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
rag:
  mode: suggestions
  corpus: codebase
  top_k: 8
store:
  type: qdrant
  collection: code_chunks
`))
	require.NoError(t, err)
	assert.Equal(t, "suggestions", cfg.RAG.Mode)
	assert.Equal(t, "codebase", cfg.RAG.Corpus)
	assert.Equal(t, 8, cfg.RAG.TopK)
	assert.Equal(t, "qdrant", cfg.Store.Type)
	assert.Equal(t, "code_chunks", cfg.Store.Collection)
}

func TestLoadConfig_UnknownMode(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "rag:\n  mode: verse\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown rag mode")
}

func TestLoadConfig_UnknownStore(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "store:\n  type: faiss\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store type")
}

func TestLoadConfig_PgvectorRequiresDSN(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "store:\n  type: pgvector\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres.dsn")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
