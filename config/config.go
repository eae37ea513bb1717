package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the syllabi tool.
type Config struct {
	Collect   CollectConfig   `yaml:"collect"`
	RAG       RAGConfig       `yaml:"rag"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Store     StoreConfig     `yaml:"store"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// CollectConfig holds resource collection configuration.
type CollectConfig struct {
	Includes              []string `yaml:"includes"`
	Excludes              []string `yaml:"excludes"`
	MaxConcurrentRequests int      `yaml:"max_concurrent_requests"`
	MaxFileSizeMB         float64  `yaml:"max_file_size_mb"`
	MaxContentLength      int      `yaml:"max_content_length"`
	MaxContextItems       int      `yaml:"max_context_items"`
}

// RAGConfig holds retrieval configuration.
type RAGConfig struct {
	BaseDir      string  `yaml:"base_dir"`
	ChunkSize    int     `yaml:"chunk_size"`
	ChunkOverlap int     `yaml:"chunk_overlap"`
	TopK         int     `yaml:"top_k"`
	Threshold    float64 `yaml:"threshold"` // drop results scoring below this
}

// EmbeddingConfig holds embedding provider configuration.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"`    // "openai", "ollama", "mock"
	Model     string `yaml:"model"`       // e.g. "text-embedding-3-small"
	APIKeyEnv string `yaml:"api_key_env"` // environment variable for the API key
	BaseURL   string `yaml:"base_url"`
	Dimension int    `yaml:"dimension"` // used by the mock provider
}

// StoreConfig selects the vector store backend.
type StoreConfig struct {
	Backend          string `yaml:"backend"` // "bolt" or "qdrant"
	QdrantURL        string `yaml:"qdrant_url"`
	QdrantAPIKeyEnv  string `yaml:"qdrant_api_key_env"`
	QdrantCollection string `yaml:"qdrant_collection"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Collect: CollectConfig{
			Includes:              []string{"**/*.md", "**/*.txt", "**/*.rst", "**/*.html"},
			Excludes:              []string{"**/node_modules/**", "**/.git/**", "**/vendor/**"},
			MaxConcurrentRequests: 5,
			MaxFileSizeMB:         10.0,
			MaxContentLength:      10000,
			MaxContextItems:       5,
		},
		RAG: RAGConfig{
			BaseDir:      "output",
			ChunkSize:    512,
			ChunkOverlap: 50,
			TopK:         5,
			Threshold:    0.0,
		},
		Embedding: EmbeddingConfig{
			Provider:  "ollama",
			Model:     "nomic-embed-text",
			APIKeyEnv: "OPENAI_API_KEY",
			Dimension: 768,
		},
		Store: StoreConfig{
			Backend:          "bolt",
			QdrantURL:        "http://localhost:6333",
			QdrantAPIKeyEnv:  "QDRANT_API_KEY",
			QdrantCollection: "syllabi",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file, returning defaults when the
// file does not exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for
// syllabi.yaml, then .syllabi/config.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "syllabi.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".syllabi", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// MaxFileBytes converts the configured file size cap to bytes.
func (c *Config) MaxFileBytes() int64 {
	return int64(c.Collect.MaxFileSizeMB * (1 << 20))
}
