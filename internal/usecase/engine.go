package usecase

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"syllabi/internal/adapter/chunker"
	"syllabi/internal/adapter/store"
	"syllabi/internal/domain"
	"syllabi/internal/port"
)

// Default chunk parameters, used when a run is created without explicit
// values and when loading a run whose config sidecar is missing.
const (
	DefaultChunkSize    = 512
	DefaultChunkOverlap = 50
)

const (
	vectorDirName  = "vectors"
	vectorFileName = "vector.db"
	configFileName = "metadata.json"
)

// Engine ties the chunker, embedding provider and vector store together
// for one run. Writes are serialized; retrievals may run concurrently with
// each other but never observe a partially written batch. Purge requires
// exclusive access.
type Engine struct {
	runID    string
	cfg      domain.RunConfig
	store    port.VectorStore
	embedder port.Embedder
	chunker  *chunker.WindowChunker
	log      *slog.Logger

	mu       sync.RWMutex // serializes writes and purge against retrievals
	statsMu  sync.Mutex
	counters EngineCounters
}

// EngineCounters tracks work done by this engine instance since
// construction (or the last purge).
type EngineCounters struct {
	DocumentsAdded   int
	ChunksAdded      int
	QueriesPerformed int
}

// EngineOptions configures a new engine.
type EngineOptions struct {
	// RunID identifies the run; generated when empty.
	RunID string
	// BaseDir is the parent of per-run directories; default "output".
	BaseDir string
	// ChunkSize and ChunkOverlap fall back to the package defaults.
	ChunkSize    int
	ChunkOverlap int
	// Embedder is required.
	Embedder port.Embedder
	// Store overrides the default bolt store under the run directory,
	// e.g. for a remote Qdrant collection. The config sidecar is still
	// written to the run directory.
	Store  port.VectorStore
	Logger *slog.Logger

	// createdAt preserves the original timestamp when reloading a run.
	createdAt float64
}

// NewEngine creates an engine for a run, creating its storage directory
// and persisting the run config sidecar.
func NewEngine(opts EngineOptions) (*Engine, error) {
	if opts.Embedder == nil {
		return nil, fmt.Errorf("%w: embedder is required", domain.ErrInvalidInput)
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if opts.BaseDir == "" {
		opts.BaseDir = "output"
	}
	if opts.ChunkSize == 0 {
		opts.ChunkSize = DefaultChunkSize
		if opts.ChunkOverlap == 0 {
			opts.ChunkOverlap = DefaultChunkOverlap
		}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	chk, err := chunker.NewWindowChunker(opts.ChunkSize, opts.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	vectorDir := filepath.Join(opts.BaseDir, opts.RunID, vectorDirName)
	if err := os.MkdirAll(vectorDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create vector directory: %w", err)
	}

	st := opts.Store
	if st == nil {
		st, err = store.NewBoltVectorStore(filepath.Join(vectorDir, vectorFileName), opts.Embedder.Dimension())
		if err != nil {
			return nil, fmt.Errorf("%w: opening vector store for run %s: %v", domain.ErrStorage, opts.RunID, err)
		}
	}

	createdAt := opts.createdAt
	if createdAt == 0 {
		createdAt = float64(time.Now().UnixNano()) / 1e9
	}

	e := &Engine{
		runID: opts.RunID,
		cfg: domain.RunConfig{
			RunID:          opts.RunID,
			EmbeddingModel: opts.Embedder.ModelName(),
			ChunkSize:      opts.ChunkSize,
			ChunkOverlap:   opts.ChunkOverlap,
			CreatedAt:      createdAt,
		},
		store:    st,
		embedder: opts.Embedder,
		chunker:  chk,
		log:      opts.Logger.With("run_id", opts.RunID),
	}

	if err := e.saveConfig(filepath.Join(vectorDir, configFileName)); err != nil {
		st.Close()
		return nil, err
	}

	e.log.Info("initialized rag engine",
		"embedding_model", e.cfg.EmbeddingModel,
		"chunk_size", e.cfg.ChunkSize,
		"chunk_overlap", e.cfg.ChunkOverlap)
	return e, nil
}

// LoadEngine reconstructs the engine for a previously created run. It
// fails with ErrRunNotFound when no persisted data exists for the run; a
// missing config sidecar falls back to default chunk parameters. A
// non-nil st overrides the default bolt store, in which case only the
// sidecar is probed (a remote collection has no local artifact).
func LoadEngine(runID, baseDir string, embedder port.Embedder, st port.VectorStore, logger *slog.Logger) (*Engine, error) {
	if baseDir == "" {
		baseDir = "output"
	}

	vectorDir := filepath.Join(baseDir, runID, vectorDirName)
	probe := filepath.Join(vectorDir, vectorFileName)
	if st != nil {
		probe = filepath.Join(vectorDir, configFileName)
	}
	if _, err := os.Stat(probe); err != nil {
		return nil, fmt.Errorf("%w: no vector data for run %s under %s", domain.ErrRunNotFound, runID, baseDir)
	}

	opts := EngineOptions{
		RunID:    runID,
		BaseDir:  baseDir,
		Embedder: embedder,
		Store:    st,
		Logger:   logger,
	}

	data, err := os.ReadFile(filepath.Join(vectorDir, configFileName))
	if err == nil {
		var cfg domain.RunConfig
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse run config: %w", err)
		}
		opts.ChunkSize = cfg.ChunkSize
		opts.ChunkOverlap = cfg.ChunkOverlap
		opts.createdAt = cfg.CreatedAt
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read run config: %w", err)
	}

	return NewEngine(opts)
}

func (e *Engine) saveConfig(path string) error {
	data, err := json.MarshalIndent(e.cfg, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to persist run config: %w", err)
	}
	return nil
}

// RunID returns the run identifier.
func (e *Engine) RunID() string { return e.runID }

// Config returns the immutable run configuration.
func (e *Engine) Config() domain.RunConfig { return e.cfg }

// AddDocument chunks, embeds and stores one document, returning the
// number of chunks added. Blank text is a no-op. Embeddings for all
// chunks are requested in a single provider batch; on provider failure
// nothing is stored.
func (e *Engine) AddDocument(text string, metadata map[string]string, source string) (int, error) {
	if strings.TrimSpace(text) == "" {
		e.log.Debug("skipping empty document", "source", source)
		return 0, nil
	}

	meta := metadata
	if source != "" {
		meta = make(map[string]string, len(metadata)+1)
		for k, v := range metadata {
			meta[k] = v
		}
		meta["source"] = source
	}

	chunks := e.chunker.Chunk(text)
	if len(chunks) == 0 {
		e.log.Debug("no chunks generated from document", "source", source)
		return 0, nil
	}

	embeddings, err := e.embedder.Embed(chunks)
	if err != nil {
		e.log.Error("failed to generate embeddings",
			"operation", "add_document", "source", source, "chunks", len(chunks), "error", err)
		return 0, fmt.Errorf("%w: embedding %d chunks for run %s: %v", domain.ErrEmbedding, len(chunks), e.runID, err)
	}

	e.mu.Lock()
	_, err = e.store.Add(chunks, embeddings, meta, source)
	e.mu.Unlock()
	if err != nil {
		e.log.Error("failed to store document",
			"operation", "add_document", "source", source, "chunks", len(chunks), "error", err)
		return 0, fmt.Errorf("%w: storing %d chunks for run %s: %v", domain.ErrStorage, len(chunks), e.runID, err)
	}

	e.statsMu.Lock()
	e.counters.DocumentsAdded++
	e.counters.ChunksAdded += len(chunks)
	e.statsMu.Unlock()

	e.log.Debug("added document", "source", source, "chunks", len(chunks))
	return len(chunks), nil
}

// Retrieve embeds the query and returns ranked matching chunks.
func (e *Engine) Retrieve(query string, topK int, threshold float64, sourceFilter []string) ([]domain.SearchResult, error) {
	queryEmbedding, err := e.embedder.EmbedOne(query)
	if err != nil {
		e.log.Error("failed to embed query", "operation", "retrieve", "error", err)
		return nil, fmt.Errorf("%w: embedding query for run %s: %v", domain.ErrEmbedding, e.runID, err)
	}

	e.mu.RLock()
	results, err := e.store.Search(queryEmbedding, topK, threshold, sourceFilter)
	e.mu.RUnlock()
	if err != nil {
		e.log.Error("vector search failed",
			"operation", "retrieve", "top_k", topK, "threshold", threshold, "error", err)
		return nil, fmt.Errorf("%w: searching run %s: %v", domain.ErrRetrieval, e.runID, err)
	}

	e.statsMu.Lock()
	e.counters.QueriesPerformed++
	e.statsMu.Unlock()

	e.log.Debug("retrieved context", "results", len(results), "top_k", topK)
	return results, nil
}

// Stats returns a snapshot of run configuration and store counts.
func (e *Engine) Stats() (domain.EngineStats, error) {
	e.mu.RLock()
	storeStats, err := e.store.Stats()
	e.mu.RUnlock()
	if err != nil {
		return domain.EngineStats{}, fmt.Errorf("%w: reading stats for run %s: %v", domain.ErrStorage, e.runID, err)
	}

	e.statsMu.Lock()
	queries := e.counters.QueriesPerformed
	e.statsMu.Unlock()

	return domain.EngineStats{
		RunID:              e.runID,
		DocumentCount:      storeStats.DocumentCount,
		ChunkCount:         storeStats.ChunkCount,
		EmbeddingModel:     e.cfg.EmbeddingModel,
		ChunkSize:          e.cfg.ChunkSize,
		EmbeddingDimension: e.embedder.Dimension(),
		CreatedAt:          e.cfg.CreatedAt,
		QueryCount:         queries,
	}, nil
}

// Counters returns the in-memory work counters for this instance.
func (e *Engine) Counters() EngineCounters {
	e.statsMu.Lock()
	defer e.statsMu.Unlock()
	return e.counters
}

// Purge wipes all stored vectors and resets counters. Irreversible.
func (e *Engine) Purge() error {
	e.log.Warn("purging all data")

	e.mu.Lock()
	err := e.store.Purge()
	e.mu.Unlock()
	if err != nil {
		return fmt.Errorf("%w: purging run %s: %v", domain.ErrStorage, e.runID, err)
	}

	e.statsMu.Lock()
	e.counters = EngineCounters{}
	e.statsMu.Unlock()

	e.log.Info("store purged")
	return nil
}

// Close releases the vector store.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Close()
}
