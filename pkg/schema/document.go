package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"sigs.k8s.io/yaml"
)

// Document is a JSON value read from disk. Raw always holds JSON, even when the
// file on disk was YAML. Numbers in Value are json.Number so integer-ness
// survives for "type": "integer" checks.
type Document struct {
	Path  string
	Raw   []byte
	Value any
}

// ParseDocument decodes data into a Document. Files ending in .yaml or .yml are
// converted to JSON first.
func ParseDocument(path string, data []byte) (*Document, error) {
	raw := data
	if isYAML(path) {
		converted, err := yaml.YAMLToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("yaml to json: %w", err)
		}
		raw = converted
	}
	value, err := decodeJSON(raw)
	if err != nil {
		return nil, err
	}
	return &Document{Path: path, Raw: raw, Value: value}, nil
}

func decodeJSON(raw []byte) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errors.New("empty document")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}
	return v, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
