package reshape

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Entry is a single key/value pair of a [Map].
type Entry struct {
	Key   string
	Value any
}

// Map is an ordered mapping from string keys to values. It is used for schemas as well
// as for formatted objects, so the key order of a schema is also the key order of its result.
//
// Map encodes to and decodes from JSON and YAML objects while keeping the key order.
type Map []Entry

// Get returns the value stored under key.
func (m Map) Get(key string) (any, bool) {
	for _, entry := range m {
		if entry.Key == key {
			return entry.Value, true
		}
	}

	return nil, false
}

// Set replaces the value stored under key, or appends a new entry.
func (m *Map) Set(key string, value any) {
	for idx := range *m {
		if (*m)[idx].Key == key {
			(*m)[idx].Value = value
			return
		}
	}

	*m = append(*m, Entry{Key: key, Value: value})
}

// Len returns the number of entries.
func (m Map) Len() int {
	return len(m)
}

// Keys returns the keys in order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for _, entry := range m {
		keys = append(keys, entry.Key)
	}

	return keys
}

// ToMap converts the Map into a map[string]any. Nested Map values, also within
// slices, are converted too.
func (m Map) ToMap() map[string]any {
	result := make(map[string]any, len(m))
	for _, entry := range m {
		result[entry.Key] = toPlain(entry.Value)
	}

	return result
}

func toPlain(value any) any {
	switch value := value.(type) {
	case Map:
		return value.ToMap()

	case []any:
		values := make([]any, len(value))
		for idx, element := range value {
			values[idx] = toPlain(element)
		}

		return values

	default:
		return value
	}
}

func (m Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for idx, entry := range m {
		if idx > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(entry.Key)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", entry.Key, err)
		}

		value, err := json.Marshal(entry.Value)
		if err != nil {
			return nil, fmt.Errorf("marshal value of %q: %w", entry.Key, err)
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object. Nested objects become a Map, arrays become []any.
// Integral numbers are decoded as int, all other numbers as float64.
func (m *Map) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	value, err := decodeJSONValue(dec)
	if err != nil {
		return err
	}

	decoded, ok := value.(Map)
	if !ok {
		return fmt.Errorf("expected a JSON object, got %T", value)
	}

	*m = decoded
	return nil
}

func decodeJSONValue(dec *json.Decoder) (any, error) {
	token, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch token := token.(type) {
	case json.Delim:
		switch token {
		case '{':
			m := Map{}

			for dec.More() {
				keyToken, err := dec.Token()
				if err != nil {
					return nil, err
				}

				key, ok := keyToken.(string)
				if !ok {
					return nil, errors.New("object key is not a string")
				}

				value, err := decodeJSONValue(dec)
				if err != nil {
					return nil, fmt.Errorf("key %q: %w", key, err)
				}

				m.Set(key, value)
			}

			// closing brace
			if _, err := dec.Token(); err != nil {
				return nil, err
			}

			return m, nil

		case '[':
			values := []any{}

			for dec.More() {
				value, err := decodeJSONValue(dec)
				if err != nil {
					return nil, fmt.Errorf("element idx=%d: %w", len(values), err)
				}

				values = append(values, value)
			}

			// closing bracket
			if _, err := dec.Token(); err != nil {
				return nil, err
			}

			return values, nil

		default:
			return nil, fmt.Errorf("unexpected delimiter %q", token)
		}

	case json.Number:
		if intValue, err := strconv.Atoi(token.String()); err == nil {
			return intValue, nil
		}

		return token.Float64()

	default:
		// string, bool or nil
		return token, nil
	}
}

func (m Map) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for _, entry := range m {
		var valueNode yaml.Node
		if err := valueNode.Encode(entry.Value); err != nil {
			return nil, fmt.Errorf("encode value of %q: %w", entry.Key, err)
		}

		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: entry.Key}
		node.Content = append(node.Content, keyNode, &valueNode)
	}

	return node, nil
}

// UnmarshalYAML decodes a YAML mapping, keeping the key order.
func (m *Map) UnmarshalYAML(node *yaml.Node) error {
	value, err := decodeNode(node)
	if err != nil {
		return err
	}

	decoded, ok := value.(Map)
	if !ok {
		return fmt.Errorf("line %d: expected a mapping, got %T", node.Line, value)
	}

	*m = decoded
	return nil
}
