package collector

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
)

func TestCollectFiles(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "notes.md")
	writeFile(t, path, "some file content")

	c := New(Options{})
	set, err := c.Collect(nil, []string{path})
	if err != nil {
		t.Fatal(err)
	}

	abs, _ := filepath.Abs(path)
	r, ok := set.Files[abs]
	if !ok {
		t.Fatalf("file resource missing, got %v", set.Files)
	}
	if r.Title != "notes.md" {
		t.Errorf("expected base-name title, got %q", r.Title)
	}
	if r.Content != "some file content" {
		t.Errorf("wrong content %q", r.Content)
	}
	if set.Stats["sources_processed"] != 1 {
		t.Errorf("expected 1 source processed, got %d", set.Stats["sources_processed"])
	}
	if set.Stats["total_content_size"] != len("some file content") {
		t.Errorf("wrong total content size %d", set.Stats["total_content_size"])
	}
}

func TestCollectDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.md"), "aaa")
	writeFile(t, filepath.Join(root, "sub", "b.md"), "bbb")
	writeFile(t, filepath.Join(root, "c.bin"), "ccc")

	c := New(Options{Includes: []string{"**/*.md"}})
	set, err := c.Collect(nil, []string{root})
	if err != nil {
		t.Fatal(err)
	}

	if len(set.Files) != 2 {
		t.Fatalf("expected 2 files, got %d: %v", len(set.Files), set.Files)
	}
	if set.Stats["sources_processed"] != 2 {
		t.Errorf("expected 2 sources processed, got %d", set.Stats["sources_processed"])
	}
}

func TestCollectSkipsOversizedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "big.md"), "0123456789")
	writeFile(t, filepath.Join(root, "small.md"), "ok")

	c := New(Options{MaxFileBytes: 5})
	set, err := c.Collect(nil, []string{root})
	if err != nil {
		t.Fatal(err)
	}

	if len(set.Files) != 1 {
		t.Fatalf("expected oversized file skipped, got %v", set.Files)
	}
	for _, r := range set.Files {
		if r.Title != "small.md" {
			t.Errorf("wrong file survived: %q", r.Title)
		}
	}
}

func TestCollectURLs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprintf(w, "page %s", r.URL.Path)
	}))
	defer srv.Close()

	urls := []string{srv.URL + "/one", srv.URL + "/two", srv.URL + "/three"}

	c := New(Options{MaxConcurrent: 2})
	set, err := c.Collect(urls, nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(set.URLs) != 3 {
		t.Fatalf("expected 3 url resources, got %d", len(set.URLs))
	}
	r := set.URLs[urls[0]]
	if r == nil || r.Content != "page /one" {
		t.Fatalf("wrong content for first url: %+v", r)
	}
	if r.Metadata["content_type"] != "text/plain" {
		t.Errorf("content type not recorded: %v", r.Metadata)
	}

	// Insertion order follows the input order, not completion order.
	order := set.URLOrder()
	for i, want := range urls {
		if order[i] != want {
			t.Errorf("position %d: expected %q, got %q", i, want, order[i])
		}
	}
}

func TestCollectSkipsFailedURLs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			http.Error(w, "nope", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, "good content")
	}))
	defer srv.Close()

	c := New(Options{})
	set, err := c.Collect([]string{srv.URL + "/bad", srv.URL + "/good"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(set.URLs) != 1 {
		t.Fatalf("expected failed fetch skipped, got %v", set.URLs)
	}
	if set.URLs[srv.URL+"/good"] == nil {
		t.Error("successful fetch missing")
	}
	if set.Stats["sources_processed"] != 1 {
		t.Errorf("expected 1 source processed, got %d", set.Stats["sources_processed"])
	}
}
