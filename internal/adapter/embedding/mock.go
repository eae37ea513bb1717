package embedding

import "fmt"

// MockEmbedder produces deterministic character-derived vectors for tests
// and offline runs. Not semantically meaningful.
type MockEmbedder struct {
	dimension int
	fail      bool
}

// NewMockEmbedder creates a mock embedder with the given dimension.
func NewMockEmbedder(dimension int) *MockEmbedder {
	return &MockEmbedder{dimension: dimension}
}

// FailNext makes every subsequent call return an error, simulating an
// unreachable provider.
func (e *MockEmbedder) FailNext(fail bool) { e.fail = fail }

// Embed generates one deterministic vector per input text.
func (e *MockEmbedder) Embed(texts []string) ([][]float32, error) {
	if e.fail {
		return nil, fmt.Errorf("mock provider unavailable")
	}
	embeddings := make([][]float32, len(texts))
	for i := range texts {
		embeddings[i] = make([]float32, e.dimension)
		for j, r := range texts[i] {
			if j >= e.dimension {
				break
			}
			embeddings[i][j] = float32(r) / 1000.0
		}
	}
	return embeddings, nil
}

// EmbedOne generates a deterministic vector for a single text.
func (e *MockEmbedder) EmbedOne(text string) ([]float32, error) {
	vectors, err := e.Embed([]string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// Dimension returns the configured dimension.
func (e *MockEmbedder) Dimension() int {
	return e.dimension
}

// ModelName identifies the mock.
func (e *MockEmbedder) ModelName() string {
	return "mock"
}
