package scaffold

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"trk-go/internal/manifest"
)

// Entry is one path found under the managed root during a scan.
// Paths are relative to the root and use forward slashes.
type Entry struct {
	Path  string
	IsDir bool
}

// Scan recursively lists the managed root's actual entries, excluding the
// root itself and the manifest file. Results are sorted by path.
func Scan(root string) ([]Entry, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat managed root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("managed root is not a directory: %s", root)
	}

	var entries []Entry
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return fmt.Errorf("computing relative path: %w", err)
		}
		rel = filepath.ToSlash(rel)
		if rel == manifest.Filename {
			return nil
		}
		entries = append(entries, Entry{Path: rel, IsDir: d.IsDir()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning managed root: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

// hashContent returns the hex SHA-256 of data. Managed file drift is
// detected by comparing these hashes, never by mtime.
func hashContent(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
