package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	UploadDir string `yaml:"upload_dir"`
}

// LLMConfig configures one OpenAI-compatible or Ollama endpoint.
type LLMConfig struct {
	Provider       string `yaml:"provider"`
	BaseURL        string `yaml:"base_url"`
	Key            string `yaml:"key"`
	ChatModel      string `yaml:"chat_model"`
	EmbeddingModel string `yaml:"embedding_model"`
	TimeoutSecs    int    `yaml:"timeout_secs"`
}

// RAGConfig controls chunking and the query pipeline.
type RAGConfig struct {
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
	TopK         int    `yaml:"top_k"`
	Mode         string `yaml:"mode"`   // "narrative" or "suggestions"
	Corpus       string `yaml:"corpus"` // noun used in the insufficient-information phrase
}

// ChromemConfig configures the embedded chromem-go store.
type ChromemConfig struct {
	Path     string `yaml:"path"`
	InMemory bool   `yaml:"in_memory"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// PostgresConfig configures the pgvector-backed store.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	Password string `yaml:"password"`
	Debug    bool   `yaml:"debug"`
}

// StoreConfig selects and configures the vector index backend.
type StoreConfig struct {
	Type       string         `yaml:"type"` // chromem | qdrant | pgvector
	Collection string         `yaml:"collection"`
	Dimension  int            `yaml:"dimension"`
	Chromem    ChromemConfig  `yaml:"chromem"`
	Qdrant     QdrantConfig   `yaml:"qdrant"`
	Postgres   PostgresConfig `yaml:"postgres"`
}

type Config struct {
	Server ServerConfig `yaml:"server"`
	LLM    LLMConfig    `yaml:"llm"`
	RAG    RAGConfig    `yaml:"rag"`
	Store  StoreConfig  `yaml:"store"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8000"
	}
	if cfg.Server.UploadDir == "" {
		cfg.Server.UploadDir = "temp_uploads"
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "openai"
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.LLM.ChatModel == "" {
		cfg.LLM.ChatModel = "gpt-4o-mini"
	}
	if cfg.LLM.EmbeddingModel == "" {
		cfg.LLM.EmbeddingModel = "text-embedding-3-small"
	}
	if cfg.LLM.TimeoutSecs == 0 {
		cfg.LLM.TimeoutSecs = 60
	}
	if cfg.RAG.ChunkSize == 0 {
		cfg.RAG.ChunkSize = 2000
	}
	if cfg.RAG.ChunkOverlap == 0 {
		cfg.RAG.ChunkOverlap = 200
	}
	if cfg.RAG.TopK == 0 {
		cfg.RAG.TopK = 5
	}
	if cfg.RAG.Mode == "" {
		cfg.RAG.Mode = "narrative"
	}
	if cfg.RAG.Corpus == "" {
		cfg.RAG.Corpus = "documents"
	}
	if cfg.Store.Type == "" {
		cfg.Store.Type = "chromem"
	}
	if cfg.Store.Collection == "" {
		cfg.Store.Collection = "rag_documents"
	}
	if cfg.Store.Dimension == 0 {
		cfg.Store.Dimension = 1536
	}
	if cfg.Store.Chromem.Path == "" {
		cfg.Store.Chromem.Path = "./chromem-data"
	}
	if cfg.Store.Qdrant.URL == "" {
		cfg.Store.Qdrant.URL = "http://localhost:6333"
	}
	if cfg.Store.Qdrant.TimeoutSecs == 0 {
		cfg.Store.Qdrant.TimeoutSecs = 15
	}
}

func validate(cfg *Config) error {
	switch cfg.RAG.Mode {
	case "narrative", "suggestions":
	default:
		return fmt.Errorf("unknown rag mode: %s", cfg.RAG.Mode)
	}
	switch cfg.Store.Type {
	case "chromem", "qdrant":
	case "pgvector":
		if cfg.Store.Postgres.DSN == "" {
			return fmt.Errorf("store type pgvector requires postgres.dsn")
		}
	default:
		return fmt.Errorf("unknown store type: %s", cfg.Store.Type)
	}
	return nil
}
