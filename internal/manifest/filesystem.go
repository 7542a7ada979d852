package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"trk-go/internal/fsutil"
)

// FileStore persists manifests as a JSON file under each managed root.
type FileStore struct{}

// NewFileStore creates a store backed by the real filesystem.
func NewFileStore() *FileStore {
	return &FileStore{}
}

// Load reads the manifest from <root>/.trk-manifest.json.
// Returns nil (no error) if the file does not exist yet.
func (s *FileStore) Load(root string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(root, Filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}

// Save writes the manifest atomically so a crash mid-write never leaves a
// corrupt ledger behind.
func (s *FileStore) Save(root string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	data = append(data, '\n')

	if err := fsutil.WriteFileAtomic(filepath.Join(root, Filename), data, 0644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// Compile-time check that FileStore implements the Store interface
var _ Store = (*FileStore)(nil)
