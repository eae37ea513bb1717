package usecase

import (
	"encoding/json"
	"log/slog"
	"os"
	"sort"
	"strings"

	"syllabi/internal/domain"
)

// TruncationSuffix marks content that was cut at the length cap.
const TruncationSuffix = "... [content truncated]"

// signatureWindow is the number of leading characters that form a
// resource's near-duplicate signature. A prefix this short gives false
// positives for documents sharing boilerplate headers and misses
// paraphrased duplicates; that trade-off is intentional.
const signatureWindow = 100

// ResourcePipeline normalizes a collected ResourceSet in place:
// deduplication first, then truncation, so duplicate signatures are
// computed from untruncated content.
type ResourcePipeline struct {
	maxContentLength int
	log              *slog.Logger
}

// NewResourcePipeline creates a pipeline with the given content cap.
func NewResourcePipeline(maxContentLength int, logger *slog.Logger) *ResourcePipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResourcePipeline{
		maxContentLength: maxContentLength,
		log:              logger,
	}
}

// Process runs deduplication followed by truncation.
func (p *ResourcePipeline) Process(set *domain.ResourceSet) {
	p.Deduplicate(set)
	p.Truncate(set)
}

// Deduplicate removes near-duplicate resources within each namespace.
// URLs are only compared to urls and files to files. Resources with empty
// content are dropped. The first occurrence in insertion order wins.
// Writes stats.duplicates_removed with the combined removal count.
func (p *ResourcePipeline) Deduplicate(set *domain.ResourceSet) {
	urlsRemoved := dedupeNamespace(set.URLs, set.URLOrder())
	filesRemoved := dedupeNamespace(set.Files, set.FileOrder())

	set.Stats["duplicates_removed"] = urlsRemoved + filesRemoved

	if urlsRemoved+filesRemoved > 0 {
		p.log.Debug("deduplication removed resources",
			"urls_removed", urlsRemoved,
			"files_removed", filesRemoved)
	}
}

func dedupeNamespace(resources map[string]*domain.Resource, order []string) int {
	seen := make(map[string]bool)
	removed := 0

	for _, id := range order {
		r := resources[id]
		if r.Content == "" {
			delete(resources, id)
			removed++
			continue
		}

		sig := signature(r.Content)
		if seen[sig] {
			delete(resources, id)
			removed++
			continue
		}
		seen[sig] = true
	}

	return removed
}

// signature builds the near-duplicate fingerprint: the first 100
// characters, lowercased, with whitespace runs collapsed to single spaces
// and the result trimmed.
func signature(content string) string {
	runes := []rune(content)
	if len(runes) > signatureWindow {
		runes = runes[:signatureWindow]
	}
	return strings.Join(strings.Fields(strings.ToLower(string(runes))), " ")
}

// Truncate caps every resource's content at maxContentLength characters,
// appending the truncation suffix. Shorter content is untouched.
func (p *ResourcePipeline) Truncate(set *domain.ResourceSet) {
	for _, r := range set.URLs {
		p.truncateResource(r)
	}
	for _, r := range set.Files {
		p.truncateResource(r)
	}
}

func (p *ResourcePipeline) truncateResource(r *domain.Resource) {
	runes := []rune(r.Content)
	if len(runes) <= p.maxContentLength {
		return
	}
	r.Content = string(runes[:p.maxContentLength]) + TruncationSuffix
}

// SaveResourceSet writes the set to a JSON file in the exported shape
// {urls, files, stats, metadata}.
func SaveResourceSet(set *domain.ResourceSet, path string) error {
	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadResourceSet reads a set previously written by SaveResourceSet.
// JSON objects carry no ordering, so insertion order is rebuilt from
// sorted keys to stay deterministic.
func LoadResourceSet(path string) (*domain.ResourceSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	set := domain.NewResourceSet()
	if err := json.Unmarshal(data, set); err != nil {
		return nil, err
	}
	if set.URLs == nil {
		set.URLs = make(map[string]*domain.Resource)
	}
	if set.Files == nil {
		set.Files = make(map[string]*domain.Resource)
	}
	if set.Stats == nil {
		set.Stats = make(map[string]int)
	}

	for id, r := range set.URLs {
		r.ID = id
	}
	for id, r := range set.Files {
		r.ID = id
	}
	set.SetURLOrder(sortedKeys(set.URLs))
	set.SetFileOrder(sortedKeys(set.Files))
	return set, nil
}

func sortedKeys(m map[string]*domain.Resource) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
