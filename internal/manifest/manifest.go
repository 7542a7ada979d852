// Package manifest implements the persisted ledger of managed scaffold
// files. The ledger records the hash each managed file had when it was last
// materialized, which is what lets the reconciler tell "never created" apart
// from "deleted since last run" and "modified since last run".
package manifest

import (
	"sort"
	"time"
)

// SchemaVersion is the current manifest schema version.
const SchemaVersion = 1

// Filename is the manifest's location relative to the managed root.
// The filesystem scanner excludes it from drift classification.
const Filename = ".trk-manifest.json"

// Entry is one managed path and the content hash it had when last written.
// Directories are recorded with an empty hash (existence only).
type Entry struct {
	Path string `json:"path"`
	Hash string `json:"hash"`
}

// Manifest is the ledger persisted under each managed root.
type Manifest struct {
	SchemaVersion int       `json:"schemaVersion"`
	ToolVersion   string    `json:"toolVersion"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	ManagedFiles  []Entry   `json:"managedFiles"`
}

// New creates an empty manifest stamped with the given tool version and time.
func New(toolVersion string, now time.Time) *Manifest {
	return &Manifest{
		SchemaVersion: SchemaVersion,
		ToolVersion:   toolVersion,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// GetEntry returns the entry for path, or nil if the path is not recorded.
func (m *Manifest) GetEntry(path string) *Entry {
	for i := range m.ManagedFiles {
		if m.ManagedFiles[i].Path == path {
			return &m.ManagedFiles[i]
		}
	}
	return nil
}

// UpsertEntry adds or overwrites the entry for path.
// Entries are kept sorted by path so serialization is reproducible.
func (m *Manifest) UpsertEntry(path, hash string) {
	if e := m.GetEntry(path); e != nil {
		e.Hash = hash
		return
	}
	m.ManagedFiles = append(m.ManagedFiles, Entry{Path: path, Hash: hash})
	sort.Slice(m.ManagedFiles, func(i, j int) bool {
		return m.ManagedFiles[i].Path < m.ManagedFiles[j].Path
	})
}

// RemoveEntry deletes the entry for path. Removing an absent path is a no-op.
func (m *Manifest) RemoveEntry(path string) {
	for i := range m.ManagedFiles {
		if m.ManagedFiles[i].Path == path {
			m.ManagedFiles = append(m.ManagedFiles[:i], m.ManagedFiles[i+1:]...)
			return
		}
	}
}

// Clone returns a deep copy of the manifest.
func (m *Manifest) Clone() *Manifest {
	c := *m
	c.ManagedFiles = append([]Entry(nil), m.ManagedFiles...)
	return &c
}

// Store abstracts manifest persistence so the reconciler can be tested
// against an in-memory ledger.
type Store interface {
	// Load returns the manifest for the given root, or nil if none has
	// been persisted yet.
	Load(root string) (*Manifest, error)

	// Save persists the manifest for the given root.
	Save(root string, m *Manifest) error
}
