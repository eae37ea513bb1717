package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"syllabi/internal/domain"
)

// QdrantStore is a minimal REST client to a Qdrant collection, usable as a
// drop-in remote alternative to the bolt store. It assumes cosine distance
// and creates the collection if missing.
//
// Document counts are tracked per process only; Qdrant has no cheap way to
// recover "number of Add batches" after a restart. Tie order between equal
// scores is whatever Qdrant returns.
type QdrantStore struct {
	url        string
	apiKey     string
	collection string
	dimension  int
	client     *http.Client

	mu       sync.Mutex
	docCount int
}

// QdrantConfig configures the remote store connection.
type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
	Dimension  int
	Timeout    time.Duration
}

// NewQdrantStore connects to Qdrant and ensures the collection exists.
func NewQdrantStore(cfg QdrantConfig) (*QdrantStore, error) {
	if cfg.Dimension <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive, got %d", domain.ErrInvalidInput, cfg.Dimension)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	s := &QdrantStore{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		dimension:  cfg.Dimension,
		client:     &http.Client{Timeout: timeout},
	}
	if err := s.ensureCollection(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *QdrantStore) ensureCollection() error {
	body := map[string]any{
		"vectors": map[string]any{
			"size":     s.dimension,
			"distance": "Cosine",
		},
	}
	// Qdrant returns 200 if the collection already exists with the same
	// schema; a real conflict propagates as an error.
	return s.doJSON("PUT", fmt.Sprintf("%s/collections/%s", s.url, s.collection), body, nil)
}

// Add upserts one document's chunks as points with text/source payloads.
func (s *QdrantStore) Add(chunks []string, embeddings [][]float32, metadata map[string]string, source string) ([]string, error) {
	if len(chunks) != len(embeddings) {
		return nil, fmt.Errorf("%w: %d chunks but %d embeddings", domain.ErrInvalidInput, len(chunks), len(embeddings))
	}
	for i, emb := range embeddings {
		if len(emb) != s.dimension {
			return nil, fmt.Errorf("%w: embedding %d has dimension %d, store expects %d", domain.ErrInvalidInput, i, len(emb), s.dimension)
		}
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	ids := make([]string, len(chunks))
	points := make([]map[string]any, len(chunks))
	for i := range chunks {
		ids[i] = uuid.New().String()
		payload := map[string]any{
			"text":   chunks[i],
			"source": source,
			"index":  i,
		}
		for k, v := range metadata {
			payload["meta_"+k] = v
		}
		points[i] = map[string]any{
			"id":      ids[i],
			"vector":  embeddings[i],
			"payload": payload,
		}
	}

	body := map[string]any{"points": points}
	url := fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, s.collection)
	if err := s.doJSON("PUT", url, body, nil); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.docCount++
	s.mu.Unlock()
	return ids, nil
}

// Search queries Qdrant with its native threshold and source filtering.
func (s *QdrantStore) Search(query []float32, topK int, threshold float64, sourceFilter []string) ([]domain.SearchResult, error) {
	if len(query) != s.dimension {
		return nil, fmt.Errorf("%w: query has dimension %d, store expects %d", domain.ErrInvalidInput, len(query), s.dimension)
	}
	if topK <= 0 {
		return nil, nil
	}

	req := map[string]any{
		"vector":       query,
		"limit":        topK,
		"with_payload": true,
	}
	if threshold > 0 {
		req["score_threshold"] = threshold
	}
	if len(sourceFilter) > 0 {
		req["filter"] = map[string]any{
			"must": []map[string]any{
				{"key": "source", "match": map[string]any{"any": sourceFilter}},
			},
		}
	}

	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/points/search", s.url, s.collection)
	if err := s.doJSON("POST", url, req, &resp); err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, 0, len(resp.Result))
	for _, r := range resp.Result {
		res := domain.SearchResult{Score: r.Score}
		meta := make(map[string]string)
		for k, v := range r.Payload {
			switch {
			case k == "text":
				if text, ok := v.(string); ok {
					res.Text = text
				}
			case k == "source":
				if src, ok := v.(string); ok {
					res.Source = src
				}
			case len(k) > 5 && k[:5] == "meta_":
				if val, ok := v.(string); ok {
					meta[k[5:]] = val
				}
			}
		}
		if len(meta) > 0 {
			res.Metadata = meta
		}
		results = append(results, res)
	}
	return results, nil
}

// Stats reports the remote point count and the local document counter.
func (s *QdrantStore) Stats() (domain.StoreStats, error) {
	var resp struct {
		Result struct {
			PointsCount int `json:"points_count"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s", s.url, s.collection)
	if err := s.doJSON("GET", url, nil, &resp); err != nil {
		return domain.StoreStats{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.StoreStats{
		DocumentCount: s.docCount,
		ChunkCount:    resp.Result.PointsCount,
	}, nil
}

// Purge drops and recreates the collection.
func (s *QdrantStore) Purge() error {
	url := fmt.Sprintf("%s/collections/%s", s.url, s.collection)
	if err := s.doJSON("DELETE", url, nil, nil); err != nil {
		return err
	}
	if err := s.ensureCollection(); err != nil {
		return err
	}
	s.mu.Lock()
	s.docCount = 0
	s.mu.Unlock()
	return nil
}

// Close is a no-op; the HTTP client holds no persistent handles.
func (s *QdrantStore) Close() error {
	return nil
}

func (s *QdrantStore) doJSON(method, url string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant returned status %d: %s", resp.StatusCode, string(data))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to parse qdrant response: %w", err)
		}
	}
	return nil
}
