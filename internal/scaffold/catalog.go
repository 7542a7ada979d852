// Package scaffold keeps the fixed set of files and directories a tracker
// project is built from present on disk and faithful to their canonical
// content, without ever touching files it does not own.
package scaffold

// Kind distinguishes file templates from directory templates.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
)

// MergeStrategy selects how a modified managed file is converged.
type MergeStrategy int

const (
	// MergeNone overwrites with template content, subject to caller consent.
	MergeNone MergeStrategy = iota
	// MergeJSONArrays unions array fields of the existing and template JSON
	// documents. The merge only adds content, so it is applied without
	// requiring consent.
	MergeJSONArrays
)

// Template describes one file or directory the scaffold owns inside the
// managed root. Directories never carry content or a merge strategy.
type Template struct {
	Path    string
	Kind    Kind
	Content string
	Merge   MergeStrategy
}

const readmeContent = `# Project records

This directory is managed by trk, a file-based record tracker.

- records/       one file per record, YAML frontmatter + markdown body
- records/archive/  archived records
- docs/          free-form project documents
- docs/decisions/   decision records
- templates/     templates used when creating records
- attachments/   files referenced from records
- hooks/         scripts run around record operations

Records are plain files: edit them, commit them, merge them. Run
` + "`trk doctor plan`" + ` to check this scaffold for drift.
`

const gitignoreContent = `.trk-manifest.json
attachments/*.tmp
`

const recordTemplateContent = `---
id: ""
displayNumber: 0
title: ""
status: open
createdAt: ""
---

## Summary

## Notes
`

const spellConfigContent = `{
  "version": "0.2",
  "language": "en",
  "words": [
    "createdAt",
    "displayNumber",
    "renumber",
    "trk"
  ],
  "ignorePaths": [
    ".trk-manifest.json",
    "attachments/**"
  ]
}
`

// Catalog returns the fixed list of managed entries, ordered by path.
// 7 directories and 4 files.
func Catalog() []Template {
	return []Template{
		{Path: ".gitignore", Kind: KindFile, Content: gitignoreContent},
		{Path: "README.md", Kind: KindFile, Content: readmeContent},
		{Path: "attachments", Kind: KindDirectory},
		{Path: "cspell.json", Kind: KindFile, Content: spellConfigContent, Merge: MergeJSONArrays},
		{Path: "docs", Kind: KindDirectory},
		{Path: "docs/decisions", Kind: KindDirectory},
		{Path: "hooks", Kind: KindDirectory},
		{Path: "records", Kind: KindDirectory},
		{Path: "records/archive", Kind: KindDirectory},
		{Path: "templates", Kind: KindDirectory},
		{Path: "templates/record.md", Kind: KindFile, Content: recordTemplateContent},
	}
}
