// Package discover walks a project root and reads candidate source files,
// grounded on viant-linager's info.Project.CreateDocuments (afs.New() +
// fs.DownloadWithURL to read file content) combined with a stdlib
// filepath.WalkDir traversal. The core parser/graph packages never import
// this one — only cmd/ does, keeping file discovery an external
// collaborator to the in-memory graph.
package discover

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
)

var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	".git":         true,
}

// ExtensionSet maps a file extension to true when some parser adapter can
// handle it. Walk filters by this so callers never hand the registry a
// file it has no adapter for.
type ExtensionSet map[string]bool

// File is one discovered source file: its path relative to root and content.
type File struct {
	AbsolutePath string
	RelativePath string
	Content      []byte
}

// Walker discovers files under a root matching a set of extensions.
type Walker struct {
	fs   storage.Service
	exts ExtensionSet
}

func NewWalker(exts []string) *Walker {
	set := make(ExtensionSet, len(exts))
	for _, e := range exts {
		set[e] = true
	}
	return &Walker{fs: afs.New(), exts: set}
}

// Walk lists every file under root this walker's extension set accepts,
// skipping dot-directories, vendor/build directories, symlinks, and
// test-convention files (spec's discovery rules).
func (w *Walker) Walk(ctx context.Context, root string) ([]string, error) {
	var paths []string
	err := fileWalk(root, func(relPath string, isDir bool) error {
		name := filepath.Base(relPath)
		if isDir {
			if strings.HasPrefix(name, ".") || skipDirs[name] {
				return errSkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		if !w.exts[filepath.Ext(name)] {
			return nil
		}
		if isTestFile(name) {
			return nil
		}
		paths = append(paths, relPath)
		return nil
	})
	return paths, err
}

// Read downloads one file's content through afs, relative to root.
func (w *Walker) Read(ctx context.Context, root, relPath string) (*File, error) {
	abs := filepath.Join(root, relPath)
	content, err := w.fs.DownloadWithURL(ctx, abs)
	if err != nil {
		return nil, err
	}
	return &File{
		AbsolutePath: abs,
		RelativePath: filepath.ToSlash(relPath),
		Content:      content,
	}, nil
}

// ReadAll discovers and reads every matching file under root.
func (w *Walker) ReadAll(ctx context.Context, root string) ([]*File, error) {
	paths, err := w.Walk(ctx, root)
	if err != nil {
		return nil, err
	}
	files := make([]*File, 0, len(paths))
	for _, p := range paths {
		f, err := w.Read(ctx, root, p)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func isTestFile(name string) bool {
	switch {
	case strings.HasSuffix(name, "_test.go"):
		return true
	case strings.HasSuffix(name, ".test.ts"), strings.HasSuffix(name, ".test.tsx"),
		strings.HasSuffix(name, ".test.js"), strings.HasSuffix(name, ".spec.ts"),
		strings.HasSuffix(name, ".spec.js"):
		return true
	case strings.HasPrefix(name, "test_") && strings.HasSuffix(name, ".py"):
		return true
	}
	return false
}
