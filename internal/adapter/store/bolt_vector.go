package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"sync"

	"go.etcd.io/bbolt"

	"syllabi/internal/domain"
)

var (
	bucketVectors = []byte("vectors")
	bucketMeta    = []byte("meta")
	keyDocCount   = []byte("document_count")
)

// BoltVectorStore persists chunk text, embeddings and metadata in a bbolt
// file and serves brute-force cosine search from an in-memory copy. Writes
// are serialized; a batch becomes visible to readers only after its
// transaction commits.
type BoltVectorStore struct {
	path      string
	dimension int

	mu       sync.RWMutex
	db       *bbolt.DB
	records  []vectorRecord
	docCount int
}

type vectorRecord struct {
	id       string
	seq      uint64
	text     string
	vector   []float32
	metadata map[string]string
	source   string
}

type storedRecord struct {
	Text     string            `json:"text"`
	Vector   []float32         `json:"v"`
	Metadata map[string]string `json:"m,omitempty"`
	Source   string            `json:"s,omitempty"`
}

// NewBoltVectorStore opens (or creates) the store at path. All embeddings
// added to one store must have the given dimension.
func NewBoltVectorStore(path string, dimension int) (*BoltVectorStore, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive, got %d", domain.ErrInvalidInput, dimension)
	}

	s := &BoltVectorStore{path: path, dimension: dimension}
	if err := s.open(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *BoltVectorStore) open() error {
	db, err := bbolt.Open(s.path, 0600, nil)
	if err != nil {
		return fmt.Errorf("failed to open vector db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketVectors, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return err
	}

	s.db = db
	s.records = nil
	s.docCount = 0
	if err := s.loadRecords(); err != nil {
		db.Close()
		return fmt.Errorf("failed to load vectors: %w", err)
	}
	return nil
}

// loadRecords reads all persisted vectors into memory. Bolt iterates keys
// in byte order, which matches insertion order because keys are big-endian
// sequence numbers.
func (s *BoltVectorStore) loadRecords() error {
	return s.db.View(func(tx *bbolt.Tx) error {
		if data := tx.Bucket(bucketMeta).Get(keyDocCount); data != nil {
			json.Unmarshal(data, &s.docCount)
		}

		return tx.Bucket(bucketVectors).ForEach(func(k, v []byte) error {
			var stored storedRecord
			if err := json.Unmarshal(v, &stored); err != nil {
				return nil // skip corrupted entries
			}
			seq := binary.BigEndian.Uint64(k)
			s.records = append(s.records, vectorRecord{
				id:       chunkID(seq),
				seq:      seq,
				text:     stored.Text,
				vector:   stored.Vector,
				metadata: stored.Metadata,
				source:   stored.Source,
			})
			return nil
		})
	})
}

// Add stores one document's chunks and embeddings as a single batch.
func (s *BoltVectorStore) Add(chunks []string, embeddings [][]float32, metadata map[string]string, source string) ([]string, error) {
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

	s.mu.Lock()
	defer s.mu.Unlock()

	added := make([]vectorRecord, 0, len(chunks))
	ids := make([]string, 0, len(chunks))

	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketVectors)
		for i, text := range chunks {
			seq, err := b.NextSequence()
			if err != nil {
				return err
			}

			stored := storedRecord{
				Text:     text,
				Vector:   embeddings[i],
				Metadata: metadata,
				Source:   source,
			}
			data, err := json.Marshal(stored)
			if err != nil {
				return err
			}
			if err := b.Put(seqKey(seq), data); err != nil {
				return err
			}

			id := chunkID(seq)
			ids = append(ids, id)
			added = append(added, vectorRecord{
				id:       id,
				seq:      seq,
				text:     text,
				vector:   embeddings[i],
				metadata: metadata,
				source:   source,
			})
		}

		count, err := json.Marshal(s.docCount + 1)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketMeta).Put(keyDocCount, count)
	})
	if err != nil {
		return nil, err
	}

	// The transaction committed; publish the batch to readers.
	s.records = append(s.records, added...)
	s.docCount++
	return ids, nil
}

// Search ranks all candidate vectors by cosine similarity to the query.
func (s *BoltVectorStore) Search(query []float32, topK int, threshold float64, sourceFilter []string) ([]domain.SearchResult, error) {
	if len(query) != s.dimension {
		return nil, fmt.Errorf("%w: query has dimension %d, store expects %d", domain.ErrInvalidInput, len(query), s.dimension)
	}
	if topK <= 0 {
		return nil, nil
	}

	var allowed map[string]bool
	if len(sourceFilter) > 0 {
		allowed = make(map[string]bool, len(sourceFilter))
		for _, src := range sourceFilter {
			allowed[src] = true
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		rec   *vectorRecord
		score float64
	}

	candidates := make([]scored, 0, len(s.records))
	for i := range s.records {
		rec := &s.records[i]
		if allowed != nil && !allowed[rec.source] {
			continue
		}
		score := cosineSimilarity(query, rec.vector)
		if score < threshold {
			continue
		}
		candidates = append(candidates, scored{rec: rec, score: score})
	}

	// Descending by score; earlier-inserted records win ties.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].rec.seq < candidates[j].rec.seq
	})

	if topK > len(candidates) {
		topK = len(candidates)
	}

	results := make([]domain.SearchResult, topK)
	for i := 0; i < topK; i++ {
		results[i] = domain.SearchResult{
			Text:     candidates[i].rec.text,
			Score:    candidates[i].score,
			Metadata: candidates[i].rec.metadata,
			Source:   candidates[i].rec.source,
		}
	}
	return results, nil
}

// Stats returns document and chunk counts.
func (s *BoltVectorStore) Stats() (domain.StoreStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.StoreStats{
		DocumentCount: s.docCount,
		ChunkCount:    len(s.records),
	}, nil
}

// Purge deletes the backing file and recreates an empty store. Requires
// exclusive access; in-flight readers and writers must have drained.
func (s *BoltVectorStore) Purge() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close store before purge: %w", err)
	}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove store file: %w", err)
	}
	return s.open()
}

// Close releases the underlying database handle.
func (s *BoltVectorStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

func chunkID(seq uint64) string {
	return fmt.Sprintf("chunk-%d", seq)
}

// cosineSimilarity calculates the cosine similarity between two vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
