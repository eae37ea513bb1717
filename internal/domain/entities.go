package domain

import "time"

// Resource is a single piece of collected raw content, identified by its
// originating URL or file path.
type Resource struct {
	ID       string            `json:"-"`
	Title    string            `json:"title"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ResourceMetadata carries set-wide metadata such as extracted keywords.
// Keyword order is significant for display.
type ResourceMetadata struct {
	Keywords []string `json:"keywords"`
}

// ResourceSet is a snapshot of collected resources, split into the url and
// file namespaces. Maps are keyed by resource ID; insertion order is kept
// separately because dedup and display both depend on it.
type ResourceSet struct {
	URLs     map[string]*Resource `json:"urls"`
	Files    map[string]*Resource `json:"files"`
	Stats    map[string]int       `json:"stats"`
	Metadata ResourceMetadata     `json:"metadata"`

	urlOrder  []string
	fileOrder []string
}

// NewResourceSet creates an empty resource set.
func NewResourceSet() *ResourceSet {
	return &ResourceSet{
		URLs:  make(map[string]*Resource),
		Files: make(map[string]*Resource),
		Stats: make(map[string]int),
	}
}

// AddURL inserts a url resource, tracking insertion order. Re-adding an
// existing ID replaces the content but keeps the original position.
func (s *ResourceSet) AddURL(r *Resource) {
	if _, ok := s.URLs[r.ID]; !ok {
		s.urlOrder = append(s.urlOrder, r.ID)
	}
	s.URLs[r.ID] = r
}

// AddFile inserts a file resource, tracking insertion order.
func (s *ResourceSet) AddFile(r *Resource) {
	if _, ok := s.Files[r.ID]; !ok {
		s.fileOrder = append(s.fileOrder, r.ID)
	}
	s.Files[r.ID] = r
}

// URLOrder returns url IDs in insertion order, dropping IDs that have been
// removed from the map since insertion.
func (s *ResourceSet) URLOrder() []string {
	return liveOrder(s.urlOrder, s.URLs)
}

// FileOrder returns file IDs in insertion order.
func (s *ResourceSet) FileOrder() []string {
	return liveOrder(s.fileOrder, s.Files)
}

// SetURLOrder replaces the tracked url insertion order. Used after decoding
// a set from JSON, where map order is lost.
func (s *ResourceSet) SetURLOrder(ids []string) { s.urlOrder = ids }

// SetFileOrder replaces the tracked file insertion order.
func (s *ResourceSet) SetFileOrder(ids []string) { s.fileOrder = ids }

func liveOrder(order []string, m map[string]*Resource) []string {
	ids := make([]string, 0, len(m))
	for _, id := range order {
		if _, ok := m[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Chunk is a bounded, overlapping window of a document's text. Index is
// the zero-based position of the chunk within its document.
type Chunk struct {
	Text   string
	Index  int
	Source string
}

// SearchResult is one ranked retrieval hit. Score follows the cosine
// similarity convention (higher is better, 1.0 is identical direction).
type SearchResult struct {
	Text     string            `json:"text"`
	Score    float64           `json:"score"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Source   string            `json:"source,omitempty"`
}

// StoreStats reports counts from a vector store.
type StoreStats struct {
	DocumentCount int
	ChunkCount    int
}

// RunConfig is the per-run configuration persisted next to the vector
// store. It is written once when a run is created and never mutated.
type RunConfig struct {
	RunID          string  `json:"run_id"`
	EmbeddingModel string  `json:"embedding_model"`
	ChunkSize      int     `json:"chunk_size"`
	ChunkOverlap   int     `json:"chunk_overlap"`
	CreatedAt      float64 `json:"created_at"`
}

// CreatedTime converts the persisted unix timestamp to a time.Time.
func (c RunConfig) CreatedTime() time.Time {
	sec := int64(c.CreatedAt)
	nsec := int64((c.CreatedAt - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}

// EngineStats is the snapshot returned by the engine's Stats call.
type EngineStats struct {
	RunID              string  `json:"run_id"`
	DocumentCount      int     `json:"document_count"`
	ChunkCount         int     `json:"chunk_count"`
	EmbeddingModel     string  `json:"embedding_model"`
	ChunkSize          int     `json:"chunk_size"`
	EmbeddingDimension int     `json:"embedding_dimension"`
	CreatedAt          float64 `json:"created_at"`
	QueryCount         int     `json:"query_count"`
}
