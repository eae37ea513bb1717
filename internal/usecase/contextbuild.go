package usecase

import (
	"fmt"
	"path/filepath"
	"strings"

	"syllabi/internal/domain"
)

const (
	// snippetLimit caps per-resource content in the assembled context.
	snippetLimit = 500
	// keywordLimit caps the keywords section.
	keywordLimit = 20
)

// ContextAssembler renders a ResourceSet into a bounded text block for
// prompting. It never mutates its input and produces identical output for
// identical input.
type ContextAssembler struct {
	maxItems int
}

// NewContextAssembler creates an assembler including at most maxItems
// resources per section.
func NewContextAssembler(maxItems int) *ContextAssembler {
	if maxItems <= 0 {
		maxItems = 5
	}
	return &ContextAssembler{maxItems: maxItems}
}

// Build formats the set into Web Resources, Local Resources and Keywords
// sections. Empty sections are omitted.
func (a *ContextAssembler) Build(set *domain.ResourceSet) string {
	var parts []string

	urlIDs := set.URLOrder()
	if len(urlIDs) > 0 {
		var sb strings.Builder
		sb.WriteString("## Web Resources\n")
		for _, id := range capIDs(urlIDs, a.maxItems) {
			r := set.URLs[id]
			title := r.Title
			if title == "" {
				title = id
			}
			sb.WriteString(fmt.Sprintf("\n### %s\n%s\n", title, snippet(r.Content)))
		}
		parts = append(parts, sb.String())
	}

	fileIDs := set.FileOrder()
	if len(fileIDs) > 0 {
		var sb strings.Builder
		sb.WriteString("## Local Resources\n")
		for _, id := range capIDs(fileIDs, a.maxItems) {
			r := set.Files[id]
			title := r.Title
			if title == "" {
				title = filepath.Base(id)
			}
			sb.WriteString(fmt.Sprintf("\n### %s\n%s\n", title, snippet(r.Content)))
		}
		parts = append(parts, sb.String())
	}

	keywords := set.Metadata.Keywords
	if len(keywords) > 0 {
		if len(keywords) > keywordLimit {
			keywords = keywords[:keywordLimit]
		}
		parts = append(parts, fmt.Sprintf("## Keywords\n%s", strings.Join(keywords, ", ")))
	}

	return strings.Join(parts, "\n\n")
}

// BuildFromResults formats retrieval hits the same way, one section of
// ranked snippets.
func (a *ContextAssembler) BuildFromResults(results []domain.SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("## Retrieved Context\n")
	limit := len(results)
	if limit > a.maxItems {
		limit = a.maxItems
	}
	for i := 0; i < limit; i++ {
		r := results[i]
		label := r.Source
		if label == "" {
			label = fmt.Sprintf("result %d", i+1)
		}
		sb.WriteString(fmt.Sprintf("\n### %s (score %.2f)\n%s\n", label, r.Score, snippet(r.Text)))
	}
	return sb.String()
}

func capIDs(ids []string, max int) []string {
	if len(ids) > max {
		return ids[:max]
	}
	return ids
}

func snippet(content string) string {
	runes := []rune(content)
	if len(runes) <= snippetLimit {
		return content
	}
	return string(runes[:snippetLimit]) + "..."
}
