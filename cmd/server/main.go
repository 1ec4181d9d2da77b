package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"rag-assistant/internal/config"
	"rag-assistant/internal/embedding"
	"rag-assistant/internal/ingest"
	"rag-assistant/internal/llmservice"
	"rag-assistant/internal/prompts"
	"rag-assistant/internal/rag"
	"rag-assistant/internal/server"
	"rag-assistant/internal/vectorindex"
	"rag-assistant/internal/vectorindex/chromem"
	"rag-assistant/internal/vectorindex/pgvector"
	"rag-assistant/internal/vectorindex/qdrant"
)

const defaultConfigPath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", defaultConfigPath, "Path to the config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	log.Debug().Interface("config", cfg).Msg("Loaded config")

	if err := prompts.ValidateTemplates(); err != nil {
		log.Fatal().Err(err).Msg("Invalid prompt templates")
	}

	embedder, err := embedding.NewGateway(&cfg.LLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	llm, err := llmservice.New(&cfg.LLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing chat model")
	}

	index, err := newIndex(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing vector index")
	}
	if err := index.EnsureCollection(context.Background(), cfg.Store.Dimension); err != nil {
		log.Fatal().Err(err).Msg("Error ensuring collection")
	}

	pipeline := ingest.NewPipeline(embedder, index, cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	orchestrator := rag.NewRAG(
		rag.NewRetriever(embedder, index),
		rag.NewFilter(llm),
		rag.NewSynthesizer(llm, cfg.RAG.Mode, cfg.RAG.Corpus),
		cfg.RAG.TopK,
	)

	srv := server.New(pipeline, orchestrator, cfg.Server.UploadDir)
	log.Info().Str("addr", cfg.Server.Addr).Str("store", cfg.Store.Type).Str("mode", cfg.RAG.Mode).Msg("Starting server")
	if err := srv.Start(cfg.Server.Addr); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

func newIndex(cfg *config.Config) (vectorindex.Index, error) {
	switch cfg.Store.Type {
	case "qdrant":
		return qdrant.New(qdrant.Config{
			URL:        cfg.Store.Qdrant.URL,
			APIKey:     cfg.Store.Qdrant.APIKey,
			Collection: cfg.Store.Collection,
			Timeout:    time.Duration(cfg.Store.Qdrant.TimeoutSecs) * time.Second,
		}), nil
	case "pgvector":
		return pgvector.New(pgvector.Config{
			DSN:      cfg.Store.Postgres.DSN,
			Password: cfg.Store.Postgres.Password,
			Debug:    cfg.Store.Postgres.Debug,
		}), nil
	default:
		return chromem.New(cfg.Store.Chromem.Path, cfg.Store.Collection, cfg.Store.Chromem.InMemory)
	}
}
