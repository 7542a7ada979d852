package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	"trk-go/internal/fsutil"
	"trk-go/internal/manifest"
	"trk-go/internal/trk"
)

// previewLimit bounds how much disk content a FileInfo carries for display.
const previewLimit = 200

// FileInfo is an ephemeral snapshot of one catalog entry produced during
// planning. It is never persisted.
type FileInfo struct {
	Path           string
	Kind           Kind
	ContentHash    string
	ContentPreview string
}

// Plan classifies every catalog entry against current disk state.
// It is recomputed on every call and never cached.
type Plan struct {
	ToCreate      []FileInfo // absent on disk and never materialized
	ToRestore     []FileInfo // absent on disk but present in the manifest
	ToReset       []FileInfo // present on disk with drifted content
	TypeConflicts []FileInfo // directory expected but file found, or vice versa
	UpToDate      []string
	UserFiles     []string // paths under the root the catalog does not own
}

// Decisions carries explicit caller consent for destructive convergence.
// A nil or empty decision set means "touch nothing that needs consent".
type Decisions struct {
	Restore map[string]bool
	Reset   map[string]bool
}

// Result reports what Apply did, plus the resulting manifest.
type Result struct {
	Created  []string
	Restored []string
	Reset    []string
	Skipped  []string
	Manifest *manifest.Manifest
}

// Reconciler diffs the catalog against the managed root and converges disk
// state, recording what it materialized in the manifest ledger.
//
// Callers must serialize reconciliation and per-record mutation for the same
// root; concurrent unserialized calls against one root are not supported.
type Reconciler struct {
	catalog     []Template
	store       manifest.Store
	logger      trk.Logger
	clock       trk.Clock
	toolVersion string
}

// NewReconciler creates a reconciler over the given catalog and ledger.
func NewReconciler(catalog []Template, store manifest.Store, logger trk.Logger, clock trk.Clock, toolVersion string) *Reconciler {
	return &Reconciler{
		catalog:     catalog,
		store:       store,
		logger:      logger,
		clock:       clock,
		toolVersion: toolVersion,
	}
}

// Plan computes the reconciliation plan for root without side effects.
func (r *Reconciler) Plan(root string) (*Plan, error) {
	m, err := r.store.Load(root)
	if err != nil {
		return nil, fmt.Errorf("loading manifest: %w", err)
	}

	entries, err := Scan(root)
	if err != nil {
		return nil, err
	}

	onDisk := make(map[string]bool, len(entries))
	for _, e := range entries {
		onDisk[e.Path] = e.IsDir
	}

	plan := &Plan{}
	catalogPaths := make(map[string]bool, len(r.catalog))

	for _, t := range r.catalog {
		catalogPaths[t.Path] = true

		isDir, exists := onDisk[t.Path]
		if !exists {
			info := FileInfo{Path: t.Path, Kind: t.Kind, ContentHash: hashContent([]byte(t.Content))}
			if m != nil && m.GetEntry(t.Path) != nil {
				plan.ToRestore = append(plan.ToRestore, info)
			} else {
				plan.ToCreate = append(plan.ToCreate, info)
			}
			continue
		}

		if (t.Kind == KindDirectory) != isDir {
			info, err := r.snapshotDisk(root, t, isDir)
			if err != nil {
				return nil, err
			}
			plan.TypeConflicts = append(plan.TypeConflicts, info)
			continue
		}

		if t.Kind == KindDirectory {
			plan.UpToDate = append(plan.UpToDate, t.Path)
			continue
		}

		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(t.Path)))
		if err != nil {
			return nil, fmt.Errorf("reading managed file %s: %w", t.Path, err)
		}
		diskHash := hashContent(data)
		if diskHash == hashContent([]byte(t.Content)) {
			plan.UpToDate = append(plan.UpToDate, t.Path)
			continue
		}
		plan.ToReset = append(plan.ToReset, FileInfo{
			Path:           t.Path,
			Kind:           t.Kind,
			ContentHash:    diskHash,
			ContentPreview: preview(data),
		})
	}

	for _, e := range entries {
		if !catalogPaths[e.Path] {
			plan.UserFiles = append(plan.UserFiles, e.Path)
		}
	}

	return plan, nil
}

// Apply converges root toward the catalog. It re-derives the classification
// against current disk state rather than trusting a plan computed earlier.
//
// Absent or drifted entries are only written when force is set or the caller
// consented to the specific path, except merge-capable files, which are
// merged unconditionally because the merge never removes user content.
func (r *Reconciler) Apply(root string, decisions Decisions, force bool) (*Result, error) {
	plan, err := r.Plan(root)
	if err != nil {
		return nil, err
	}

	m, err := r.store.Load(root)
	if err != nil {
		return nil, fmt.Errorf("loading manifest: %w", err)
	}
	firstRun := m == nil
	if firstRun {
		m = manifest.New(r.toolVersion, r.clock.Now())
	}

	result := &Result{Manifest: m}
	changed := false

	byPath := make(map[string]Template, len(r.catalog))
	for _, t := range r.catalog {
		byPath[t.Path] = t
	}

	for _, info := range plan.ToCreate {
		t := byPath[info.Path]
		if err := r.materialize(root, t, m); err != nil {
			return nil, err
		}
		result.Created = append(result.Created, t.Path)
		changed = true
		r.logger.Info("scaffold entry created", "path", t.Path)
	}

	for _, info := range plan.ToRestore {
		t := byPath[info.Path]
		if !force && !decisions.Restore[t.Path] {
			result.Skipped = append(result.Skipped, t.Path)
			r.logger.Debug("restore skipped, no consent", "path", t.Path)
			continue
		}
		if err := r.materialize(root, t, m); err != nil {
			return nil, err
		}
		result.Restored = append(result.Restored, t.Path)
		changed = true
		r.logger.Info("scaffold entry restored", "path", t.Path)
	}

	for _, info := range plan.ToReset {
		t := byPath[info.Path]
		if t.Merge == MergeJSONArrays {
			if err := r.mergeFile(root, t, m); err != nil {
				return nil, err
			}
			result.Reset = append(result.Reset, t.Path)
			changed = true
			r.logger.Info("scaffold entry merged", "path", t.Path)
			continue
		}
		if !force && !decisions.Reset[t.Path] {
			result.Skipped = append(result.Skipped, t.Path)
			r.logger.Debug("reset skipped, no consent", "path", t.Path)
			continue
		}
		if err := r.materialize(root, t, m); err != nil {
			return nil, err
		}
		result.Reset = append(result.Reset, t.Path)
		changed = true
		r.logger.Info("scaffold entry reset", "path", t.Path)
	}

	for _, info := range plan.TypeConflicts {
		t := byPath[info.Path]
		if !force && !decisions.Reset[t.Path] {
			result.Skipped = append(result.Skipped, t.Path)
			r.logger.Warn("type conflict left in place", "path", t.Path)
			continue
		}
		if err := os.RemoveAll(filepath.Join(root, filepath.FromSlash(t.Path))); err != nil {
			return nil, fmt.Errorf("removing conflicting entry %s: %w", t.Path, err)
		}
		if err := r.materialize(root, t, m); err != nil {
			return nil, err
		}
		result.Reset = append(result.Reset, t.Path)
		changed = true
		r.logger.Info("type conflict resolved", "path", t.Path)
	}

	for _, path := range plan.UpToDate {
		if m.GetEntry(path) != nil {
			continue
		}
		t := byPath[path]
		m.UpsertEntry(path, entryHash(t))
		changed = true
	}

	if firstRun || changed {
		m.UpdatedAt = r.clock.Now()
		if err := r.store.Save(root, m); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// materialize writes a catalog entry to disk and records it in the manifest.
func (r *Reconciler) materialize(root string, t Template, m *manifest.Manifest) error {
	dest := filepath.Join(root, filepath.FromSlash(t.Path))

	if t.Kind == KindDirectory {
		if err := os.MkdirAll(dest, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", t.Path, err)
		}
		m.UpsertEntry(t.Path, "")
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("creating parent directory for %s: %w", t.Path, err)
	}
	if err := fsutil.WriteFileAtomic(dest, []byte(t.Content), 0644); err != nil {
		return fmt.Errorf("writing managed file %s: %w", t.Path, err)
	}
	m.UpsertEntry(t.Path, hashContent([]byte(t.Content)))
	return nil
}

// mergeFile applies the JSON array merge between the on-disk file and its
// template, writing the merged content atomically.
func (r *Reconciler) mergeFile(root string, t Template, m *manifest.Manifest) error {
	dest := filepath.Join(root, filepath.FromSlash(t.Path))

	existing, err := os.ReadFile(dest)
	if err != nil {
		return fmt.Errorf("reading managed file %s: %w", t.Path, err)
	}
	merged, err := mergeJSONArrays(existing, []byte(t.Content))
	if err != nil {
		return fmt.Errorf("merging %s: %w", t.Path, err)
	}
	if err := fsutil.WriteFileAtomic(dest, merged, 0644); err != nil {
		return fmt.Errorf("writing merged file %s: %w", t.Path, err)
	}
	m.UpsertEntry(t.Path, hashContent(merged))
	return nil
}

// snapshotDisk captures what actually occupies a catalog path on disk.
func (r *Reconciler) snapshotDisk(root string, t Template, isDir bool) (FileInfo, error) {
	info := FileInfo{Path: t.Path, Kind: t.Kind}
	if isDir {
		return info, nil
	}
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(t.Path)))
	if err != nil {
		return info, fmt.Errorf("reading conflicting entry %s: %w", t.Path, err)
	}
	info.ContentHash = hashContent(data)
	info.ContentPreview = preview(data)
	return info, nil
}

func entryHash(t Template) string {
	if t.Kind == KindDirectory {
		return ""
	}
	return hashContent([]byte(t.Content))
}

func preview(data []byte) string {
	if len(data) > previewLimit {
		data = data[:previewLimit]
	}
	return string(data)
}
