package port

import "syllabi/internal/domain"

// VectorStore persists chunk text plus embeddings and serves ranked
// nearest-neighbor queries over them.
type VectorStore interface {
	// Add stores one document's chunks with their embeddings and shared
	// metadata, returning the assigned chunk ids. len(chunks) must equal
	// len(embeddings) and every embedding must match the store dimension;
	// violations fail the whole batch. The batch becomes visible to
	// readers atomically.
	Add(chunks []string, embeddings [][]float32, metadata map[string]string, source string) ([]string, error)

	// Search returns up to topK results ordered by descending cosine
	// similarity, excluding scores below threshold. When sourceFilter is
	// non-empty, only records whose source is in the filter are
	// candidates. Ties are broken by insertion order, earlier first.
	Search(query []float32, topK int, threshold float64, sourceFilter []string) ([]domain.SearchResult, error)

	// Stats returns document and chunk counts.
	Stats() (domain.StoreStats, error)

	// Purge removes all persisted data, leaving an empty usable store.
	Purge() error

	// Close releases underlying storage handles.
	Close() error
}
