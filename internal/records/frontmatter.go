package records

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

var (
	fmDelimiter = []byte("---\n")

	errNoFrontmatter = errors.New("no YAML frontmatter")
)

// splitFrontmatter splits a record file into its frontmatter (without the
// delimiter lines) and the remainder of the document, delimiter included.
func splitFrontmatter(data []byte) (fm, rest []byte, err error) {
	if !bytes.HasPrefix(data, fmDelimiter) {
		return nil, nil, errNoFrontmatter
	}
	body := data[len(fmDelimiter):]
	end := bytes.Index(body, []byte("\n---"))
	if end < 0 {
		return nil, nil, errNoFrontmatter
	}
	return body[:end+1], body[end+1:], nil
}

// frontmatter is the subset of record frontmatter this subsystem consumes.
// All other fields are opaque and must survive rewrites untouched.
type frontmatter struct {
	ID            string `yaml:"id"`
	DisplayNumber uint32 `yaml:"displayNumber"`
	CreatedAt     string `yaml:"createdAt"`
}

func parseFrontmatter(data []byte) (*frontmatter, error) {
	fm, _, err := splitFrontmatter(data)
	if err != nil {
		return nil, err
	}
	var parsed frontmatter
	if err := yaml.Unmarshal(fm, &parsed); err != nil {
		return nil, fmt.Errorf("parsing frontmatter: %w", err)
	}
	return &parsed, nil
}

// rewriteDisplayNumber replaces the displayNumber value in a record file's
// frontmatter, leaving every other frontmatter field and the document body
// byte-for-byte intact. Node surgery keeps field order and comments.
func rewriteDisplayNumber(data []byte, n uint32) ([]byte, error) {
	fm, rest, err := splitFrontmatter(data)
	if err != nil {
		return nil, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(fm, &doc); err != nil {
		return nil, fmt.Errorf("parsing frontmatter: %w", err)
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, errNoFrontmatter
	}

	value := strconv.FormatUint(uint64(n), 10)
	mapping := doc.Content[0]
	found := false
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == "displayNumber" {
			v := mapping.Content[i+1]
			v.SetString(value)
			v.Tag = "!!int"
			v.Style = 0
			found = true
			break
		}
	}
	if !found {
		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: "displayNumber"},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: value},
		)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(mapping); err != nil {
		return nil, fmt.Errorf("encoding frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding frontmatter: %w", err)
	}

	var out bytes.Buffer
	out.Write(fmDelimiter)
	out.Write(buf.Bytes())
	out.Write(rest)
	return out.Bytes(), nil
}
