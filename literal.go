package reshape

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidLiteral is returned by [ParseLiteral] for anything that is not a plain data literal.
var ErrInvalidLiteral = errors.New("invalid literal")

// ParseLiteral parses a data literal as used for default values in accessors, e.g. the
// `"anonymous"` in `@user.nick="anonymous"`.
//
// Supported are double or single quoted strings, integers, floats, true, false, null,
// sequences `[1, 2]` and mappings `{a: 1, "b": 2}` with bare or quoted keys. Anything
// else, most notably bare words, is rejected with [ErrInvalidLiteral]. Mappings are
// returned as [Map], sequences as []any.
func ParseLiteral(expr string) (any, error) {
	dec := yaml.NewDecoder(strings.NewReader(spaceColons(expr)))

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse literal %q: %w", expr, errors.Join(err, ErrInvalidLiteral))
	}

	var trailing yaml.Node
	if err := dec.Decode(&trailing); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("literal %q: more than one document: %w", expr, ErrInvalidLiteral)
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, fmt.Errorf("literal %q: %w", expr, ErrInvalidLiteral)
	}

	if err := checkLiteral(doc.Content[0]); err != nil {
		return nil, fmt.Errorf("literal %q: %w", expr, err)
	}

	return decodeNode(doc.Content[0])
}

func checkLiteral(node *yaml.Node) error {
	if node.Anchor != "" || node.Style&yaml.TaggedStyle != 0 {
		return fmt.Errorf("anchors and tags are not allowed: %w", ErrInvalidLiteral)
	}

	switch node.Kind {
	case yaml.ScalarNode:
		return checkScalar(node)

	case yaml.SequenceNode:
		if node.Style&yaml.FlowStyle == 0 {
			return fmt.Errorf("sequence must use [...]: %w", ErrInvalidLiteral)
		}

		for _, element := range node.Content {
			if err := checkLiteral(element); err != nil {
				return err
			}
		}

		return nil

	case yaml.MappingNode:
		if node.Style&yaml.FlowStyle == 0 {
			return fmt.Errorf("mapping must use {...}: %w", ErrInvalidLiteral)
		}

		for idx := 0; idx+1 < len(node.Content); idx += 2 {
			if err := checkKey(node.Content[idx]); err != nil {
				return err
			}

			if err := checkLiteral(node.Content[idx+1]); err != nil {
				return err
			}
		}

		return nil

	default:
		return fmt.Errorf("aliases are not allowed: %w", ErrInvalidLiteral)
	}
}

func checkScalar(node *yaml.Node) error {
	if node.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0 {
		return nil
	}

	if node.Style != 0 {
		return fmt.Errorf("block scalars are not allowed: %w", ErrInvalidLiteral)
	}

	switch node.ShortTag() {
	case "!!int":
		return nil

	case "!!float":
		lower := strings.ToLower(node.Value)
		if strings.Contains(lower, "inf") || strings.Contains(lower, "nan") {
			return fmt.Errorf("%q is not a number: %w", node.Value, ErrInvalidLiteral)
		}

		return nil

	case "!!bool":
		if node.Value == "true" || node.Value == "false" {
			return nil
		}

	case "!!null":
		if node.Value == "null" {
			return nil
		}
	}

	return fmt.Errorf("bare word %q: %w", node.Value, ErrInvalidLiteral)
}

func checkKey(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode || node.Anchor != "" || node.Style&yaml.TaggedStyle != 0 {
		return fmt.Errorf("mapping key must be a plain or quoted string: %w", ErrInvalidLiteral)
	}

	if node.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0 {
		return nil
	}

	if isIdent(node.Value) {
		return nil
	}

	if _, ok := parseInteger[uint64](node.Value, 64); ok {
		return nil
	}

	return fmt.Errorf("invalid mapping key %q: %w", node.Value, ErrInvalidLiteral)
}

// isIdent reports whether s is usable as a bare mapping key.
func isIdent(s string) bool {
	if s == "" {
		return false
	}

	for idx, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && idx > 0:
		default:
			return false
		}
	}

	return true
}

// spaceColons adds a space after every colon outside of quoted strings, so compact
// mappings like {a:1} separate key and value in flow YAML. An unquoted colon is never
// part of a valid literal otherwise.
func spaceColons(expr string) string {
	if !strings.Contains(expr, ":") {
		return expr
	}

	var buf strings.Builder
	buf.Grow(len(expr) + 8)

	var quote byte
	for idx := 0; idx < len(expr); idx++ {
		ch := expr[idx]
		buf.WriteByte(ch)

		switch {
		case quote == '"' && ch == '\\' && idx+1 < len(expr):
			idx++
			buf.WriteByte(expr[idx])

		case quote != 0:
			if ch == quote {
				quote = 0
			}

		case ch == '"' || ch == '\'':
			quote = ch

		case ch == ':' && idx+1 < len(expr) && expr[idx+1] != ' ':
			buf.WriteByte(' ')
		}
	}

	return buf.String()
}
