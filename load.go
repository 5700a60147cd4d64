package reshape

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var errEmptyDocument = errors.New("empty document")

// LoadSchema loads and parses a schema from a YAML or JSON file.
func LoadSchema(path string) (Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file %s: %w", path, err)
	}

	return ParseSchema(data)
}

// ParseSchema parses a schema from YAML or JSON data. The top level must be a mapping,
// key order is preserved.
func ParseSchema(data []byte) (Map, error) {
	var schema Map

	// flow style YAML also starts with a brace, fall back to YAML if it is not JSON
	if isJSON(data) && json.Unmarshal(data, &schema) == nil {
		return schema, nil
	}

	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	if schema == nil {
		return nil, fmt.Errorf("parse schema: %w", errEmptyDocument)
	}

	return schema, nil
}

// LoadDocument loads a YAML or JSON file as source object. The result can be passed
// to [Formatter.Format] directly.
func LoadDocument(path string) (*yaml.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", path, err)
	}

	return ParseDocument(data)
}

// ParseDocument parses YAML or JSON data into a document node.
func ParseDocument(data []byte) (*yaml.Node, error) {
	var doc yaml.Node

	// libyaml rejects some valid JSON, e.g. tab indentation
	if isJSON(data) {
		if value, err := parseJSON(data); err == nil {
			if err := doc.Encode(value); err != nil {
				return nil, fmt.Errorf("parse document: %w", err)
			}

			return &doc, nil
		}
	}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	if doc.Kind == 0 {
		return nil, fmt.Errorf("parse document: %w", errEmptyDocument)
	}

	return &doc, nil
}

// isJSON reports whether data looks like a JSON object or array.
func isJSON(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')
}

func parseJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	value, err := decodeJSONValue(dec)
	if err != nil {
		return nil, err
	}

	if dec.More() {
		return nil, errors.New("trailing data after JSON value")
	}

	return value, nil
}
