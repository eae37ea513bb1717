package collector

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func walkNames(t *testing.T, w *Walker, root string) map[string]bool {
	t.Helper()
	files, err := w.Walk(root)
	if err != nil {
		t.Fatal(err)
	}
	names := make(map[string]bool)
	for _, f := range files {
		rel, err := filepath.Rel(root, f.Path)
		if err != nil {
			t.Fatal(err)
		}
		names[filepath.ToSlash(rel)] = true
	}
	return names
}

func TestWalkerIncludes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.md"), "a")
	writeFile(t, filepath.Join(root, "b.txt"), "b")
	writeFile(t, filepath.Join(root, "c.log"), "c")
	writeFile(t, filepath.Join(root, "sub", "d.md"), "d")

	names := walkNames(t, NewWalker([]string{"**/*.md"}, nil), root)

	if !names["a.md"] || !names["sub/d.md"] {
		t.Errorf("expected markdown files, got %v", names)
	}
	if names["b.txt"] || names["c.log"] {
		t.Errorf("non-matching files included: %v", names)
	}
}

func TestWalkerExcludes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "keep.md"), "k")
	writeFile(t, filepath.Join(root, "node_modules", "dep.md"), "d")

	names := walkNames(t, NewWalker([]string{"**/*.md"}, []string{"**/node_modules/**"}), root)

	if !names["keep.md"] {
		t.Errorf("expected keep.md, got %v", names)
	}
	if names["node_modules/dep.md"] {
		t.Errorf("excluded file included: %v", names)
	}
}

func TestWalkerDefaultIncludesEverything(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.md"), "a")
	writeFile(t, filepath.Join(root, "b.bin"), "b")

	names := walkNames(t, NewWalker(nil, nil), root)

	if !names["a.md"] || !names["b.bin"] {
		t.Errorf("expected all files, got %v", names)
	}
}

func TestWalkerReportsSize(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.md"), "12345")

	files, err := NewWalker(nil, nil).Walk(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	if files[0].Size != 5 {
		t.Errorf("expected size 5, got %d", files[0].Size)
	}
}
