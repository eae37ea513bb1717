package port

// Embedder generates vector embeddings for text.
type Embedder interface {
	// Embed generates embeddings for the given texts in one provider
	// round trip. Returns one vector per input, in input order.
	Embed(texts []string) ([][]float32, error)

	// EmbedOne generates an embedding for a single text.
	EmbedOne(text string) ([]float32, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int

	// ModelName returns the name of the embedding model.
	ModelName() string
}
