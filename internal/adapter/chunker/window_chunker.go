package chunker

import (
	"fmt"
	"strings"

	"syllabi/internal/domain"
)

// WindowChunker splits text into fixed-size character windows that overlap
// by a configured amount. The window advances by size-overlap each step, so
// consecutive chunks cover the text with no gaps and the final chunk always
// carries the tail even when shorter than the window.
type WindowChunker struct {
	size    int
	overlap int
}

// NewWindowChunker creates a chunker. overlap must satisfy
// 0 <= overlap < size.
func NewWindowChunker(size, overlap int) (*WindowChunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidInput, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: overlap must be in [0, %d), got %d", domain.ErrInvalidInput, size, overlap)
	}
	return &WindowChunker{size: size, overlap: overlap}, nil
}

// Size returns the configured window width in characters.
func (c *WindowChunker) Size() int { return c.size }

// Overlap returns the configured overlap in characters.
func (c *WindowChunker) Overlap() int { return c.overlap }

// Chunk splits text into ordered overlapping windows. Empty or
// whitespace-only text yields no chunks. The same input always produces
// the same sequence.
func (c *WindowChunker) Chunk(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	step := c.size - c.overlap

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + c.size
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
