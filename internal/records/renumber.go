package records

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"trk-go/internal/fsutil"
	"trk-go/internal/trk"
)

// Reconciler repairs display-number collisions: two offline writers can
// independently assign the same sequence number to new records, and this
// deterministically reassigns the losers once the files meet again.
//
// Callers must serialize record mutation for the same records root.
type Reconciler struct {
	scanner *Scanner
	logger  trk.Logger
}

// NewReconciler creates a display-number reconciler.
func NewReconciler(logger trk.Logger) *Reconciler {
	return &Reconciler{
		scanner: NewScanner(logger),
		logger:  logger,
	}
}

// Reconcile finds duplicate display numbers under root and reassigns every
// record except the earliest-created in each colliding group. New numbers
// start strictly above the pre-reassignment global maximum, so they cannot
// collide with existing numbers or with each other. Returns the number of
// records reassigned; a collision-free root yields 0, which makes the
// operation idempotent.
func (r *Reconciler) Reconcile(root string) (int, error) {
	records, err := r.scanner.Scan(root)
	if err != nil {
		return 0, err
	}

	groups := make(map[uint32][]*Record)
	var max uint32
	for _, rec := range records {
		groups[rec.DisplayNumber] = append(groups[rec.DisplayNumber], rec)
		if rec.DisplayNumber > max {
			max = rec.DisplayNumber
		}
	}

	// Walk colliding groups in ascending number order so reassignment is
	// deterministic regardless of scan order.
	var collided []uint32
	for n, group := range groups {
		if len(group) > 1 {
			collided = append(collided, n)
		}
	}
	sort.Slice(collided, func(i, j int) bool { return collided[i] < collided[j] })

	next := max + 1
	reassigned := 0
	for _, n := range collided {
		group := groups[n]
		// Earliest creation wins and keeps its number.
		sort.Slice(group, func(i, j int) bool { return group[i].CreatedAt.Before(group[j].CreatedAt) })

		for _, rec := range group[1:] {
			if err := r.rewrite(rec, next); err != nil {
				return reassigned, err
			}
			r.logger.Info("display number reassigned",
				"id", rec.ID, "from", rec.DisplayNumber, "to", next)
			next++
			reassigned++
		}
	}

	return reassigned, nil
}

// NextDisplayNumber returns the next free display number for root:
// one above the current maximum, or 1 for an empty root. Used by record
// creation, not by reconciliation.
func (r *Reconciler) NextDisplayNumber(root string) (uint32, error) {
	records, err := r.scanner.Scan(root)
	if err != nil {
		return 0, err
	}

	var max uint32
	for _, rec := range records {
		if rec.DisplayNumber > max {
			max = rec.DisplayNumber
		}
	}
	return max + 1, nil
}

// rewrite persists a record's new display number in its format-appropriate
// metadata, leaving every other field untouched.
func (r *Reconciler) rewrite(rec *Record, n uint32) error {
	if rec.Format == FormatFolder {
		return rewriteLegacyDisplayNumber(filepath.Join(rec.Path, legacyMetadataFile), n)
	}

	data, err := os.ReadFile(rec.Path)
	if err != nil {
		return fmt.Errorf("reading record %s: %w", rec.ID, err)
	}
	updated, err := rewriteDisplayNumber(data, n)
	if err != nil {
		return fmt.Errorf("rewriting record %s: %w", rec.ID, err)
	}
	if err := fsutil.WriteFileAtomic(rec.Path, updated, 0644); err != nil {
		return fmt.Errorf("writing record %s: %w", rec.ID, err)
	}
	return nil
}

// rewriteLegacyDisplayNumber updates displayNumber in a legacy metadata
// file. Opaque fields round-trip unchanged.
func rewriteLegacyDisplayNumber(path string, n uint32) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading legacy metadata: %w", err)
	}
	doc, err := decodeLegacyMetadata(data)
	if err != nil {
		return err
	}

	target := doc
	if _, ok := doc["displayNumber"]; !ok {
		nested, ok := doc["record"].(map[string]any)
		if !ok {
			return fmt.Errorf("displayNumber not found in %s", path)
		}
		target = nested
	}
	target["displayNumber"] = n

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding legacy metadata: %w", err)
	}
	out = append(out, '\n')

	if err := fsutil.WriteFileAtomic(path, out, 0644); err != nil {
		return fmt.Errorf("writing legacy metadata: %w", err)
	}
	return nil
}
