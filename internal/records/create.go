package records

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// newRecordFrontmatter fixes the field order of freshly created records.
type newRecordFrontmatter struct {
	ID            string `yaml:"id"`
	DisplayNumber uint32 `yaml:"displayNumber"`
	Title         string `yaml:"title"`
	Status        string `yaml:"status"`
	CreatedAt     string `yaml:"createdAt"`
}

// CreateFile writes a new current-format record under root and returns its
// path. The file is created exclusively so an id collision fails loudly
// instead of overwriting.
func CreateFile(root, id, title string, displayNumber uint32, createdAt time.Time) (string, error) {
	fm := newRecordFrontmatter{
		ID:            id,
		DisplayNumber: displayNumber,
		Title:         title,
		Status:        "open",
		CreatedAt:     createdAt.UTC().Format(time.RFC3339),
	}

	var buf bytes.Buffer
	buf.Write(fmDelimiter)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return "", fmt.Errorf("encoding frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding frontmatter: %w", err)
	}
	buf.WriteString("---\n\n## Summary\n\n## Notes\n")

	path := filepath.Join(root, id+".md")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("creating record file: %w", err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("writing record file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing record file: %w", err)
	}
	return path, nil
}
