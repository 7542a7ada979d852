package scaffold

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// ErrNotJSONObject is returned when a merge input does not parse as a JSON
// object. Callers treat this as a whole-operation failure.
var ErrNotJSONObject = errors.New("not a JSON object")

// mergeJSONArrays merges an existing managed JSON document with its template.
//
// Template scalar fields are authoritative. For every field whose value is
// an array in either document, the two arrays are unioned, deduplicated and
// sorted so the result is reproducible. Top-level fields present only in the
// existing document are copied through unchanged, so user additions survive.
// The output carries a trailing newline.
func mergeJSONArrays(existing, template []byte) ([]byte, error) {
	existingDoc, err := decodeObject(existing)
	if err != nil {
		return nil, fmt.Errorf("existing content: %w", err)
	}
	templateDoc, err := decodeObject(template)
	if err != nil {
		return nil, fmt.Errorf("template content: %w", err)
	}

	merged := make(map[string]any, len(existingDoc)+len(templateDoc))
	for k, v := range existingDoc {
		merged[k] = v
	}
	for k, tv := range templateDoc {
		ev, inExisting := merged[k]
		ta, tIsArray := tv.([]any)
		ea, eIsArray := ev.([]any)
		switch {
		case tIsArray || (inExisting && eIsArray):
			merged[k] = unionStrings(ea, ta)
		default:
			merged[k] = tv
		}
	}

	out, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding merged document: %w", err)
	}
	return append(out, '\n'), nil
}

func decodeObject(data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotJSONObject, err)
	}
	if doc == nil {
		return nil, ErrNotJSONObject
	}
	return doc, nil
}

// unionStrings unions two JSON arrays into a sorted, deduplicated string
// slice. Non-string elements are formatted via their JSON representation so
// the union is still total.
func unionStrings(a, b []any) []any {
	seen := make(map[string]bool)
	var out []string
	for _, list := range [][]any{a, b} {
		for _, v := range list {
			s, ok := v.(string)
			if !ok {
				raw, _ := json.Marshal(v)
				s = string(raw)
			}
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	sort.Strings(out)

	result := make([]any, len(out))
	for i, s := range out {
		result[i] = s
	}
	return result
}
