package scaffold

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestMergeJSONArrays(t *testing.T) {
	t.Run("unions, dedupes and sorts array fields", func(t *testing.T) {
		existing := `{"version":"0.1","words":["alpha","centy","custom"]}`
		template := `{"version":"0.2","words":["centy","displayNumber","createdAt"]}`

		out, err := mergeJSONArrays([]byte(existing), []byte(template))
		if err != nil {
			t.Fatalf("mergeJSONArrays() error = %v", err)
		}

		var doc map[string]any
		if err := json.Unmarshal(out, &doc); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}

		want := []any{"alpha", "centy", "createdAt", "custom", "displayNumber"}
		if !reflect.DeepEqual(doc["words"], want) {
			t.Errorf("words = %v, want %v", doc["words"], want)
		}
	})

	t.Run("template scalars are authoritative", func(t *testing.T) {
		out, err := mergeJSONArrays(
			[]byte(`{"version":"0.1","language":"de"}`),
			[]byte(`{"version":"0.2","language":"en"}`),
		)
		if err != nil {
			t.Fatalf("mergeJSONArrays() error = %v", err)
		}
		var doc map[string]any
		json.Unmarshal(out, &doc)
		if doc["version"] != "0.2" || doc["language"] != "en" {
			t.Errorf("scalars = %v/%v, want template values", doc["version"], doc["language"])
		}
	})

	t.Run("existing-only fields are preserved", func(t *testing.T) {
		out, err := mergeJSONArrays(
			[]byte(`{"flagWords":["wip"],"custom":"x"}`),
			[]byte(`{"version":"0.2"}`),
		)
		if err != nil {
			t.Fatalf("mergeJSONArrays() error = %v", err)
		}
		var doc map[string]any
		json.Unmarshal(out, &doc)
		if !reflect.DeepEqual(doc["flagWords"], []any{"wip"}) {
			t.Errorf("flagWords = %v, want [wip]", doc["flagWords"])
		}
		if doc["custom"] != "x" {
			t.Errorf("custom = %v, want x", doc["custom"])
		}
	})

	t.Run("array absent in existing document", func(t *testing.T) {
		out, err := mergeJSONArrays(
			[]byte(`{"version":"0.1"}`),
			[]byte(`{"version":"0.2","ignorePaths":["b","a"]}`),
		)
		if err != nil {
			t.Fatalf("mergeJSONArrays() error = %v", err)
		}
		var doc map[string]any
		json.Unmarshal(out, &doc)
		if !reflect.DeepEqual(doc["ignorePaths"], []any{"a", "b"}) {
			t.Errorf("ignorePaths = %v, want sorted [a b]", doc["ignorePaths"])
		}
	})

	t.Run("output ends with a newline", func(t *testing.T) {
		out, err := mergeJSONArrays([]byte(`{}`), []byte(`{}`))
		if err != nil {
			t.Fatalf("mergeJSONArrays() error = %v", err)
		}
		if !strings.HasSuffix(string(out), "\n") {
			t.Error("merged output missing trailing newline")
		}
	})

	t.Run("rejects non-object inputs", func(t *testing.T) {
		cases := []struct {
			name               string
			existing, template string
		}{
			{"existing array", `[1,2]`, `{}`},
			{"existing garbage", `nope`, `{}`},
			{"template array", `{}`, `[]`},
			{"existing null", `null`, `{}`},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := mergeJSONArrays([]byte(tc.existing), []byte(tc.template))
				if !errors.Is(err, ErrNotJSONObject) {
					t.Errorf("error = %v, want ErrNotJSONObject", err)
				}
			})
		}
	})
}
