package discover

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// errSkipDir signals fileWalk to skip an entire subtree, mirroring
// filepath.SkipDir without exposing the stdlib sentinel to callers.
var errSkipDir = errors.New("skip directory")

// fileWalk walks root with path/filepath.WalkDir, reporting each entry's
// path relative to root. Symlinks are skipped entirely — the spec's
// discovery rules exclude symlinked trees.
func fileWalk(root string, visit func(relPath string, isDir bool) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		info, err := os.Lstat(path)
		if err != nil {
			return err
		}
		if info.Mode()&os.ModeSymlink != 0 {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		verr := visit(rel, d.IsDir())
		if verr == errSkipDir {
			return filepath.SkipDir
		}
		return verr
	})
}
