package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.RAG.ChunkSize != 512 || cfg.RAG.ChunkOverlap != 50 {
		t.Errorf("wrong chunk defaults: %d/%d", cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	}
	if cfg.RAG.TopK != 5 {
		t.Errorf("wrong top_k default: %d", cfg.RAG.TopK)
	}
	if cfg.Collect.MaxContentLength != 10000 {
		t.Errorf("wrong max content length: %d", cfg.Collect.MaxContentLength)
	}
	if cfg.Embedding.Provider != "ollama" {
		t.Errorf("wrong default provider: %q", cfg.Embedding.Provider)
	}
	if cfg.Store.Backend != "bolt" {
		t.Errorf("wrong default backend: %q", cfg.Store.Backend)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RAG.ChunkSize != 512 {
		t.Errorf("expected defaults, got chunk size %d", cfg.RAG.ChunkSize)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "syllabi.yaml")
	content := `
rag:
  chunk_size: 256
embedding:
  provider: mock
  dimension: 16
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RAG.ChunkSize != 256 {
		t.Errorf("override not applied: %d", cfg.RAG.ChunkSize)
	}
	if cfg.Embedding.Provider != "mock" || cfg.Embedding.Dimension != 16 {
		t.Errorf("embedding overrides not applied: %+v", cfg.Embedding)
	}
	// Untouched fields keep their defaults.
	if cfg.RAG.TopK != 5 {
		t.Errorf("default lost: top_k %d", cfg.RAG.TopK)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("rag: [not a mapping"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid yaml")
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RAG.ChunkSize = 1024
	cfg.Store.Backend = "qdrant"

	path := filepath.Join(t.TempDir(), "syllabi.yaml")
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.RAG.ChunkSize != 1024 {
		t.Errorf("chunk size not persisted: %d", loaded.RAG.ChunkSize)
	}
	if loaded.Store.Backend != "qdrant" {
		t.Errorf("backend not persisted: %q", loaded.Store.Backend)
	}
}

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "syllabi.yaml"), []byte("rag:\n  top_k: 9\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RAG.TopK != 9 {
		t.Errorf("syllabi.yaml not picked up: top_k %d", cfg.RAG.TopK)
	}
}

func TestLoadFromDirHiddenFallback(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".syllabi"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".syllabi", "config.yaml"), []byte("rag:\n  top_k: 7\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RAG.TopK != 7 {
		t.Errorf(".syllabi/config.yaml not picked up: top_k %d", cfg.RAG.TopK)
	}
}

func TestLoadFromDirEmpty(t *testing.T) {
	cfg, err := LoadFromDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RAG.ChunkSize != 512 {
		t.Errorf("expected defaults, got chunk size %d", cfg.RAG.ChunkSize)
	}
}

func TestMaxFileBytes(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.MaxFileBytes(); got != 10<<20 {
		t.Errorf("expected 10 MiB, got %d", got)
	}
	cfg.Collect.MaxFileSizeMB = 0.5
	if got := cfg.MaxFileBytes(); got != 1<<19 {
		t.Errorf("expected 512 KiB, got %d", got)
	}
}
