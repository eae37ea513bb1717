package port

import "syllabi/internal/domain"

// Collector gathers raw resources from URLs and local paths into a fresh
// ResourceSet owned by the caller. Format-specific extraction is out of
// scope: content is treated as plain text.
type Collector interface {
	Collect(urls, paths []string) (*domain.ResourceSet, error)
}
