package domain

import "errors"

// Failure categories surfaced by the engine and stores. Callers match
// with errors.Is; the wrapped message carries run id and operation detail.
var (
	// ErrEmbedding indicates the embedding provider was unreachable or
	// returned a malformed response. The current operation is abandoned;
	// nothing is partially stored.
	ErrEmbedding = errors.New("embedding failed")

	// ErrStorage indicates a vector store write or read failed.
	ErrStorage = errors.New("storage failed")

	// ErrRetrieval indicates a search against the vector store failed.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrRunNotFound indicates no persisted data exists for a run id.
	ErrRunNotFound = errors.New("run not found")

	// ErrInvalidInput indicates a precondition violation, such as
	// mismatched chunk/embedding counts or overlap >= chunk size.
	ErrInvalidInput = errors.New("invalid input")
)
