package discover

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWalkSkipsVendorAndTestFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main")
	writeFile(t, root, "main_test.go", "package main")
	writeFile(t, root, "vendor/dep/dep.go", "package dep")
	writeFile(t, root, ".hidden/skip.go", "package skip")
	writeFile(t, root, "notes.md", "# hi")

	w := NewWalker([]string{".go"})
	paths, err := w.Walk(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}

	if len(paths) != 1 || paths[0] != "main.go" {
		t.Fatalf("got %v, want [main.go]", paths)
	}
}

func TestReadAllReturnsContent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.py", "x = 1\n")

	w := NewWalker([]string{".py"})
	files, err := w.ReadAll(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("got %d files, want 1", len(files))
	}
	if string(files[0].Content) != "x = 1\n" {
		t.Errorf("got content %q", files[0].Content)
	}
	if files[0].RelativePath != "a.py" {
		t.Errorf("got relative path %q", files[0].RelativePath)
	}
}
