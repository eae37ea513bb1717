package usecase

import (
	"path/filepath"
	"strings"
	"testing"

	"syllabi/internal/domain"
)

func urlResource(id, content string) *domain.Resource {
	return &domain.Resource{ID: id, Title: id, Content: content}
}

func TestDeduplicateFirstOccurrenceWins(t *testing.T) {
	p := NewResourcePipeline(10000, nil)

	prefix := strings.Repeat("shared opening text ", 5) // 100 chars
	set := domain.NewResourceSet()
	set.AddURL(urlResource("https://a.example", prefix+"tail of the first document"))
	set.AddURL(urlResource("https://b.example", prefix+"a completely different tail"))
	set.AddURL(urlResource("https://c.example", "entirely unrelated content"))

	p.Deduplicate(set)

	if set.Stats["duplicates_removed"] != 1 {
		t.Errorf("expected 1 duplicate removed, got %d", set.Stats["duplicates_removed"])
	}
	if _, ok := set.URLs["https://a.example"]; !ok {
		t.Error("first occurrence was removed")
	}
	if _, ok := set.URLs["https://b.example"]; ok {
		t.Error("later duplicate survived")
	}
	if _, ok := set.URLs["https://c.example"]; !ok {
		t.Error("distinct resource was removed")
	}
}

func TestDeduplicateNormalizesSignature(t *testing.T) {
	p := NewResourcePipeline(10000, nil)

	set := domain.NewResourceSet()
	set.AddURL(urlResource("a", "Hello   World, introduction to algebra"))
	set.AddURL(urlResource("b", "hello world,\nintroduction   to algebra"))

	p.Deduplicate(set)

	if set.Stats["duplicates_removed"] != 1 {
		t.Errorf("case and whitespace variants should collide, removed %d", set.Stats["duplicates_removed"])
	}
	if len(set.URLs) != 1 {
		t.Errorf("expected 1 resource left, got %d", len(set.URLs))
	}
}

func TestDeduplicateDropsEmptyContent(t *testing.T) {
	p := NewResourcePipeline(10000, nil)

	set := domain.NewResourceSet()
	set.AddURL(urlResource("empty", ""))
	set.AddURL(urlResource("kept", "real content"))

	p.Deduplicate(set)

	if set.Stats["duplicates_removed"] != 1 {
		t.Errorf("empty resource should count as removed, got %d", set.Stats["duplicates_removed"])
	}
	if _, ok := set.URLs["empty"]; ok {
		t.Error("empty resource survived")
	}
	if _, ok := set.URLs["kept"]; !ok {
		t.Error("non-empty resource was removed")
	}
}

func TestDeduplicateNamespacesAreIndependent(t *testing.T) {
	p := NewResourcePipeline(10000, nil)

	content := "identical content in both namespaces"
	set := domain.NewResourceSet()
	set.AddURL(urlResource("https://a.example", content))
	set.AddFile(&domain.Resource{ID: "/notes/a.md", Content: content})

	p.Deduplicate(set)

	if set.Stats["duplicates_removed"] != 0 {
		t.Errorf("url and file namespaces must not be compared, removed %d", set.Stats["duplicates_removed"])
	}
	if len(set.URLs) != 1 || len(set.Files) != 1 {
		t.Error("cross-namespace resource was removed")
	}
}

func TestDeduplicateIdempotent(t *testing.T) {
	p := NewResourcePipeline(10000, nil)

	set := domain.NewResourceSet()
	set.AddURL(urlResource("a", "some content"))
	set.AddURL(urlResource("b", "some content"))

	p.Deduplicate(set)
	if len(set.URLs) != 1 {
		t.Fatalf("expected 1 resource after first pass, got %d", len(set.URLs))
	}

	p.Deduplicate(set)
	if set.Stats["duplicates_removed"] != 0 {
		t.Errorf("second pass removed %d resources", set.Stats["duplicates_removed"])
	}
	if len(set.URLs) != 1 {
		t.Errorf("second pass changed the set, %d resources left", len(set.URLs))
	}
}

func TestTruncate(t *testing.T) {
	p := NewResourcePipeline(10000, nil)

	set := domain.NewResourceSet()
	set.AddURL(urlResource("long", strings.Repeat("x", 15000)))
	set.AddURL(urlResource("short", "short content"))
	set.AddURL(urlResource("exact", strings.Repeat("y", 10000)))

	p.Truncate(set)

	long := set.URLs["long"].Content
	if len(long) != 10000+len(TruncationSuffix) {
		t.Errorf("expected %d chars, got %d", 10000+len(TruncationSuffix), len(long))
	}
	if !strings.HasSuffix(long, TruncationSuffix) {
		t.Error("truncated content missing suffix")
	}
	if set.URLs["short"].Content != "short content" {
		t.Error("short content was modified")
	}
	if len(set.URLs["exact"].Content) != 10000 {
		t.Error("content at exactly the cap was modified")
	}
}

func TestProcessRunsDedupBeforeTruncate(t *testing.T) {
	p := NewResourcePipeline(10000, nil)

	set := domain.NewResourceSet()
	set.AddURL(urlResource("a", strings.Repeat("z", 15000)))
	set.AddURL(urlResource("b", strings.Repeat("z", 12000)))

	p.Process(set)

	if set.Stats["duplicates_removed"] != 1 {
		t.Errorf("expected 1 duplicate, got %d", set.Stats["duplicates_removed"])
	}
	if len(set.URLs) != 1 {
		t.Fatalf("expected 1 resource, got %d", len(set.URLs))
	}
	if !strings.HasSuffix(set.URLs["a"].Content, TruncationSuffix) {
		t.Error("surviving resource was not truncated")
	}
}

func TestSaveLoadResourceSet(t *testing.T) {
	set := domain.NewResourceSet()
	set.AddURL(&domain.Resource{ID: "https://a.example", Title: "A", Content: "web content",
		Metadata: map[string]string{"content_type": "text/html"}})
	set.AddFile(&domain.Resource{ID: "/notes/a.md", Title: "a.md", Content: "file content"})
	set.Stats["sources_processed"] = 2
	set.Metadata.Keywords = []string{"algebra", "calculus"}

	path := filepath.Join(t.TempDir(), "resources.json")
	if err := SaveResourceSet(set, path); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadResourceSet(path)
	if err != nil {
		t.Fatal(err)
	}

	r, ok := loaded.URLs["https://a.example"]
	if !ok {
		t.Fatal("url resource missing after reload")
	}
	if r.ID != "https://a.example" {
		t.Errorf("resource ID not rebuilt from key, got %q", r.ID)
	}
	if r.Title != "A" || r.Content != "web content" {
		t.Errorf("resource fields lost: %+v", r)
	}
	if r.Metadata["content_type"] != "text/html" {
		t.Error("resource metadata lost")
	}
	if _, ok := loaded.Files["/notes/a.md"]; !ok {
		t.Error("file resource missing after reload")
	}
	if loaded.Stats["sources_processed"] != 2 {
		t.Error("stats lost")
	}
	if len(loaded.Metadata.Keywords) != 2 || loaded.Metadata.Keywords[0] != "algebra" {
		t.Errorf("keywords lost: %v", loaded.Metadata.Keywords)
	}
	if got := loaded.URLOrder(); len(got) != 1 || got[0] != "https://a.example" {
		t.Errorf("url order not rebuilt: %v", got)
	}
}

func TestLoadResourceSetMissingFile(t *testing.T) {
	if _, err := LoadResourceSet(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
