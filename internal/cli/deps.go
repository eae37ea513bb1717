package cli

import (
	"errors"
	"fmt"
	"os"

	"syllabi/config"
	"syllabi/internal/adapter/embedding"
	"syllabi/internal/adapter/store"
	"syllabi/internal/domain"
	"syllabi/internal/port"
	"syllabi/internal/usecase"
)

// newEmbedder builds the embedding provider selected in config.
func newEmbedder(cfg *config.Config) (port.Embedder, error) {
	switch cfg.Embedding.Provider {
	case "openai":
		if cfg.Embedding.BaseURL != "" {
			return embedding.NewCompatibleClient(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model, cfg.Embedding.BaseURL)
		}
		return embedding.NewOpenAIClient(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model)
	case "ollama":
		return embedding.NewOllamaClient(cfg.Embedding.Model, cfg.Embedding.BaseURL)
	case "mock":
		return embedding.NewMockEmbedder(cfg.Embedding.Dimension), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Embedding.Provider)
	}
}

// newStoreOverride returns a remote vector store when one is configured,
// or nil to use the engine's default bolt store.
func newStoreOverride(cfg *config.Config, runID string, dimension int) (port.VectorStore, error) {
	if cfg.Store.Backend != "qdrant" {
		return nil, nil
	}
	return store.NewQdrantStore(store.QdrantConfig{
		URL:        cfg.Store.QdrantURL,
		APIKey:     os.Getenv(cfg.Store.QdrantAPIKeyEnv),
		Collection: cfg.Store.QdrantCollection + "-" + runID,
		Dimension:  dimension,
	})
}

// openEngine loads an existing run, optionally creating it when absent.
func openEngine(cfg *config.Config, runID string, create bool) (*usecase.Engine, error) {
	embedder, err := newEmbedder(cfg)
	if err != nil {
		return nil, err
	}

	st, err := newStoreOverride(cfg, runID, embedder.Dimension())
	if err != nil {
		return nil, err
	}

	eng, err := usecase.LoadEngine(runID, cfg.RAG.BaseDir, embedder, st, logger)
	if err == nil {
		return eng, nil
	}
	if !create || !errors.Is(err, domain.ErrRunNotFound) {
		return nil, err
	}

	return usecase.NewEngine(usecase.EngineOptions{
		RunID:        runID,
		BaseDir:      cfg.RAG.BaseDir,
		ChunkSize:    cfg.RAG.ChunkSize,
		ChunkOverlap: cfg.RAG.ChunkOverlap,
		Embedder:     embedder,
		Store:        st,
		Logger:       logger,
	})
}
