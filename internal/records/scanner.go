package records

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"trk-go/internal/trk"
)

// legacyMetadataFile is the metadata file inside a legacy record folder.
const legacyMetadataFile = "metadata.json"

// Scanner lists every persisted record under a records root, across both
// the current file-per-record layout and the legacy folder-per-record one.
// Records whose metadata fails to parse are logged and skipped so one
// corrupt file cannot abort a scan.
type Scanner struct {
	logger trk.Logger
}

// NewScanner creates a scanner that reports skipped records to logger.
func NewScanner(logger trk.Logger) *Scanner {
	return &Scanner{logger: logger}
}

// Scan returns all parseable records under root, sorted by display number
// and then by creation time.
func (s *Scanner) Scan(root string) ([]*Record, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading records root: %w", err)
	}

	var records []*Record
	for _, entry := range entries {
		full := filepath.Join(root, entry.Name())

		if entry.IsDir() {
			rec, ok := s.scanLegacy(full, entry.Name())
			if ok {
				records = append(records, rec)
			}
			continue
		}

		if !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		rec, ok := s.scanFile(full, entry.Name())
		if ok {
			records = append(records, rec)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].DisplayNumber != records[j].DisplayNumber {
			return records[i].DisplayNumber < records[j].DisplayNumber
		}
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}

// scanFile parses a current-format record. Returns false if the file is not
// a parseable record.
func (s *Scanner) scanFile(path, name string) (*Record, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		s.logger.Warn("skipping unreadable record", "path", path, "error", err)
		return nil, false
	}

	fm, err := parseFrontmatter(data)
	if err != nil {
		s.logger.Warn("skipping record with bad frontmatter", "path", path, "error", err)
		return nil, false
	}

	createdAt, err := time.Parse(time.RFC3339, fm.CreatedAt)
	if err != nil {
		s.logger.Warn("skipping record with bad createdAt", "path", path, "error", err)
		return nil, false
	}

	id := fm.ID
	if id == "" {
		id = strings.TrimSuffix(name, ".md")
	}

	return &Record{
		ID:            id,
		Format:        FormatFile,
		DisplayNumber: fm.DisplayNumber,
		CreatedAt:     createdAt,
		Path:          path,
	}, true
}

// scanLegacy parses a legacy folder record. Folders without a metadata.json
// are not records (e.g. the archive directory) and are skipped silently.
func (s *Scanner) scanLegacy(dir, name string) (*Record, bool) {
	metaPath := filepath.Join(dir, legacyMetadataFile)
	data, err := os.ReadFile(metaPath)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("skipping unreadable legacy record", "path", metaPath, "error", err)
		}
		return nil, false
	}

	doc, err := decodeLegacyMetadata(data)
	if err != nil {
		s.logger.Warn("skipping legacy record with bad metadata", "path", metaPath, "error", err)
		return nil, false
	}

	displayNumber, createdAt, err := legacyFields(doc)
	if err != nil {
		s.logger.Warn("skipping legacy record with bad metadata", "path", metaPath, "error", err)
		return nil, false
	}

	return &Record{
		ID:            name,
		Format:        FormatFolder,
		DisplayNumber: displayNumber,
		CreatedAt:     createdAt,
		Path:          dir,
	}, true
}

func decodeLegacyMetadata(data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing metadata: %w", err)
	}
	return doc, nil
}

// legacyFields extracts displayNumber and createdAt from legacy metadata.
// The fields live at the top level, or nested under a "record" sub-object
// in older layouts.
func legacyFields(doc map[string]any) (uint32, time.Time, error) {
	target := doc
	if _, ok := doc["displayNumber"]; !ok {
		nested, ok := doc["record"].(map[string]any)
		if !ok {
			return 0, time.Time{}, fmt.Errorf("displayNumber not found")
		}
		target = nested
	}

	num, ok := target["displayNumber"].(float64)
	if !ok || num < 0 || num != float64(uint32(num)) {
		return 0, time.Time{}, fmt.Errorf("displayNumber is not a valid number")
	}

	raw, ok := target["createdAt"].(string)
	if !ok {
		return 0, time.Time{}, fmt.Errorf("createdAt not found")
	}
	createdAt, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("parsing createdAt: %w", err)
	}

	return uint32(num), createdAt, nil
}
