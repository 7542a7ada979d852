package records

import (
	"testing"
	"time"

	"trk-go/internal/trk"
)

func TestCreateFile(t *testing.T) {
	t0 := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	t.Run("creates a scannable record", func(t *testing.T) {
		root := t.TempDir()

		path, err := CreateFile(root, "7c2e1f0a", "Fix the widget", 4, t0)
		if err != nil {
			t.Fatalf("CreateFile() error = %v", err)
		}

		recs, err := NewScanner(trk.NewNopLogger()).Scan(root)
		if err != nil {
			t.Fatalf("Scan() error = %v", err)
		}
		if len(recs) != 1 {
			t.Fatalf("len(records) = %d, want 1", len(recs))
		}

		r := recs[0]
		if r.ID != "7c2e1f0a" {
			t.Errorf("ID = %q, want 7c2e1f0a", r.ID)
		}
		if r.DisplayNumber != 4 {
			t.Errorf("DisplayNumber = %d, want 4", r.DisplayNumber)
		}
		if !r.CreatedAt.Equal(t0) {
			t.Errorf("CreatedAt = %v, want %v", r.CreatedAt, t0)
		}
		if r.Path != path {
			t.Errorf("Path = %q, want %q", r.Path, path)
		}
	})

	t.Run("fails on an id collision instead of overwriting", func(t *testing.T) {
		root := t.TempDir()

		if _, err := CreateFile(root, "dup", "First", 1, t0); err != nil {
			t.Fatalf("CreateFile() error = %v", err)
		}
		if _, err := CreateFile(root, "dup", "Second", 2, t0); err == nil {
			t.Error("CreateFile() expected error for duplicate id")
		}
	})
}
