package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/docassist/docassist/internal/catalog"
	"github.com/docassist/docassist/internal/config"
	"github.com/docassist/docassist/internal/embeddings"
	"github.com/docassist/docassist/internal/ingest"
	"github.com/docassist/docassist/internal/storage"
	"github.com/docassist/docassist/internal/vectordb"
)

// createStore builds the configured document store implementation.
func createStore(ctx context.Context, cfg *config.Config) (storage.DocumentStore, error) {
	switch cfg.StorageBackend {
	case config.BackendS3:
		return storage.NewMinioStore(ctx, storage.MinioConfig{
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Bucket:    cfg.S3.Bucket,
			Secure:    cfg.S3.Secure,
		})
	default:
		return storage.NewLocalStore(cfg.StorageDir)
	}
}

// createEmbedder builds the configured embedding client.
func createEmbedder(cfg *config.Config) (embeddings.Embedder, error) {
	switch cfg.EmbeddingProvider {
	case config.ProviderOllama:
		return embeddings.NewOllamaEmbedder(cfg.EmbeddingModel, cfg.DimsFor(), cfg.OllamaBaseURL), nil
	case config.ProviderOpenAI:
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is not set")
		}
		return embeddings.NewOpenAIEmbedder(apiKey, cfg.EmbeddingModel), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.EmbeddingProvider)
	}
}

// openComponents loads the config and constructs the store, index, catalog,
// and pipeline shared by the ingest, query, serve, and mcp commands.
func openComponents(ctx context.Context) (*config.Config, storage.DocumentStore, *vectordb.Index, *catalog.Store, *ingest.Pipeline, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	store, err := createStore(ctx, cfg)
	if err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("creating document store: %w", err)
	}

	embedder, err := createEmbedder(cfg)
	if err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("creating embedder: %w", err)
	}

	index, err := vectordb.Open(cfg.VectorDir, cfg.Collection, embedder)
	if err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("opening vector index: %w", err)
	}

	cat, err := catalog.Open(cfg.CatalogPath)
	if err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("opening catalog: %w", err)
	}

	pipeline := ingest.New(store, index, cat, ingest.Chunker{
		Size:    cfg.ChunkSize,
		Overlap: cfg.ChunkOverlap,
	})

	return cfg, store, index, cat, pipeline, nil
}
