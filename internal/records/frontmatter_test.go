package records

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

const sampleRecord = `---
id: 7c2e1f0a
displayNumber: 4
title: Fix the widget
status: open
createdAt: "2026-01-15T10:00:00Z"
assignee: sam
---

## Summary

The widget is broken.
`

func TestSplitFrontmatter(t *testing.T) {
	t.Run("splits frontmatter from body", func(t *testing.T) {
		fm, rest, err := splitFrontmatter([]byte(sampleRecord))
		if err != nil {
			t.Fatalf("splitFrontmatter() error = %v", err)
		}
		if !strings.Contains(string(fm), "displayNumber: 4") {
			t.Errorf("frontmatter missing displayNumber: %q", fm)
		}
		if !strings.Contains(string(rest), "The widget is broken.") {
			t.Errorf("body missing content: %q", rest)
		}
	})

	t.Run("rejects documents without frontmatter", func(t *testing.T) {
		for _, doc := range []string{"no frontmatter", "---\nunterminated"} {
			if _, _, err := splitFrontmatter([]byte(doc)); err == nil {
				t.Errorf("splitFrontmatter(%q) expected error", doc)
			}
		}
	})
}

func TestParseFrontmatter(t *testing.T) {
	fm, err := parseFrontmatter([]byte(sampleRecord))
	if err != nil {
		t.Fatalf("parseFrontmatter() error = %v", err)
	}
	if fm.ID != "7c2e1f0a" {
		t.Errorf("ID = %q, want 7c2e1f0a", fm.ID)
	}
	if fm.DisplayNumber != 4 {
		t.Errorf("DisplayNumber = %d, want 4", fm.DisplayNumber)
	}
	if fm.CreatedAt != "2026-01-15T10:00:00Z" {
		t.Errorf("CreatedAt = %q, want RFC3339 string", fm.CreatedAt)
	}
}

func TestRewriteDisplayNumber(t *testing.T) {
	t.Run("updates number and preserves everything else", func(t *testing.T) {
		out, err := rewriteDisplayNumber([]byte(sampleRecord), 6)
		if err != nil {
			t.Fatalf("rewriteDisplayNumber() error = %v", err)
		}

		fm, err := parseFrontmatter(out)
		if err != nil {
			t.Fatalf("rewritten record does not parse: %v", err)
		}
		if fm.DisplayNumber != 6 {
			t.Errorf("DisplayNumber = %d, want 6", fm.DisplayNumber)
		}
		if fm.ID != "7c2e1f0a" || fm.CreatedAt != "2026-01-15T10:00:00Z" {
			t.Error("unrelated consumed fields changed")
		}

		// Opaque fields survive.
		raw, _, err := splitFrontmatter(out)
		if err != nil {
			t.Fatal(err)
		}
		var doc map[string]any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			t.Fatal(err)
		}
		if doc["assignee"] != "sam" || doc["title"] != "Fix the widget" {
			t.Errorf("opaque fields lost: %v", doc)
		}

		// The body survives byte for byte.
		if !strings.HasSuffix(string(out), "## Summary\n\nThe widget is broken.\n") {
			t.Errorf("body changed: %q", out)
		}
	})

	t.Run("adds the field when missing", func(t *testing.T) {
		doc := "---\nid: x\ncreatedAt: \"2026-01-15T10:00:00Z\"\n---\nbody\n"
		out, err := rewriteDisplayNumber([]byte(doc), 3)
		if err != nil {
			t.Fatalf("rewriteDisplayNumber() error = %v", err)
		}
		fm, err := parseFrontmatter(out)
		if err != nil {
			t.Fatal(err)
		}
		if fm.DisplayNumber != 3 {
			t.Errorf("DisplayNumber = %d, want 3", fm.DisplayNumber)
		}
	})

	t.Run("rewrites are stable across repeated application", func(t *testing.T) {
		once, err := rewriteDisplayNumber([]byte(sampleRecord), 9)
		if err != nil {
			t.Fatal(err)
		}
		twice, err := rewriteDisplayNumber(once, 9)
		if err != nil {
			t.Fatal(err)
		}
		if string(once) != string(twice) {
			t.Error("repeated rewrite with the same number changed the file")
		}
	})
}
