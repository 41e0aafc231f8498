package sevenzip

import (
	"fmt"
	"io/fs"
	"path/filepath"
)

// ListEntries walks the extracted tree depth-first and returns the
// explicit content manifest handed to the packer: every file as its
// POSIX-separator relative path, every directory (the root excepted)
// as its relative path with a trailing slash.
//
// Directories are listed before their contents, so a directory that
// contains zero files is still represented. An implicit "pack the whole
// directory" step would silently drop such entries, which is why the
// manifest is authoritative and exhaustive.
func ListEntries(root string) ([]string, error) {
	var entries []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			entries = append(entries, rel+"/")
		} else {
			entries = append(entries, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk extracted tree: %w", err)
	}

	return entries, nil
}
