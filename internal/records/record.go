// Package records scans persisted records across both on-disk layouts and
// repairs display-number collisions introduced by disconnected writers.
package records

import "time"

// Format identifies a record's on-disk layout.
type Format int

const (
	// FormatFile is the current layout: one markdown file per record with
	// YAML frontmatter.
	FormatFile Format = iota
	// FormatFolder is the legacy layout: one folder per record with a
	// metadata.json file. Retained for backward compatibility.
	FormatFolder
)

func (f Format) String() string {
	if f == FormatFolder {
		return "legacy"
	}
	return "file"
}

// Record is one scanned record. It is derived from disk on every scan and
// never stored independently; the filesystem enforces id uniqueness (one
// file or folder per id).
type Record struct {
	ID            string
	Format        Format
	DisplayNumber uint32
	CreatedAt     time.Time

	// Path is the record file (current format) or record folder (legacy).
	Path string
}
