package reshape

import (
	"errors"
	"fmt"
	"iter"

	"gopkg.in/yaml.v3"
)

// maximum nesting while decoding a yaml.Node, guards against alias cycles.
const maxNodeDepth = 10_000

var errNodeTooDeep = errors.New("document nested too deep")

var errExcessiveAliasing = errors.New("document contains excessive aliasing")

// NodeSource adapts a parsed YAML (or JSON) document to a [Source] without decoding it first.
// Document nodes and aliases are followed transparently. Mappings are looked up by the value of
// their scalar keys, sequences by decimal index.
func NodeSource(node *yaml.Node) Source {
	return nodeSource{node: node}
}

type nodeSource struct {
	node *yaml.Node
}

var _ Source = nodeSource{}

func (n nodeSource) Get(key string) (Source, error) {
	node := contentOf(n.node)
	if node == nil {
		return nil, ErrNotSupported
	}

	switch node.Kind {
	case yaml.MappingNode:
		for idx := 0; idx+1 < len(node.Content); idx += 2 {
			keyNode := contentOf(node.Content[idx])
			if keyNode != nil && keyNode.Kind == yaml.ScalarNode && keyNode.Value == key {
				return nodeSource{node: node.Content[idx+1]}, nil
			}
		}

		return nil, ErrNoValue

	case yaml.SequenceNode:
		idx, ok := parseIndex(key, len(node.Content))
		if !ok {
			return nil, ErrNoValue
		}

		return nodeSource{node: node.Content[idx]}, nil

	default:
		return nil, ErrNotSupported
	}
}

func (n nodeSource) Iter() (iter.Seq[Source], error) {
	node := contentOf(n.node)
	if node == nil || node.Kind != yaml.SequenceNode {
		return nil, ErrNotSupported
	}

	it := func(yield func(Source) bool) {
		for _, element := range node.Content {
			if !yield(nodeSource{node: element}) {
				return
			}
		}
	}

	return it, nil
}

func (n nodeSource) Value() (any, error) {
	if n.node == nil {
		return nil, nil
	}

	return decodeNode(n.node)
}

// contentOf unwraps document and alias nodes.
func contentOf(node *yaml.Node) *yaml.Node {
	for depth := 0; node != nil && depth < maxNodeDepth; depth++ {
		switch node.Kind {
		case yaml.DocumentNode:
			if len(node.Content) == 0 {
				return nil
			}

			node = node.Content[0]

		case yaml.AliasNode:
			node = node.Alias

		default:
			return node
		}
	}

	return nil
}

// decodeNode converts a yaml.Node into plain go values. Mappings become an ordered [Map],
// sequences become []any and scalars are decoded using the yaml.v3 resolution rules.
func decodeNode(node *yaml.Node) (any, error) {
	var d nodeDecoder
	return d.decode(node, 0)
}

// limits for the share of nodes decoded through an alias, same as yaml.v3 uses
const (
	aliasRatioRangeLow  = 400_000
	aliasRatioRangeHigh = 4_000_000
	aliasRatioRange     = float64(aliasRatioRangeHigh - aliasRatioRangeLow)
)

// nodeDecoder counts decoded nodes to reject documents that expand through aliases
// far beyond their own size.
type nodeDecoder struct {
	decoded    int
	aliased    int
	aliasDepth int
}

func (d *nodeDecoder) decode(node *yaml.Node, depth int) (any, error) {
	if depth > maxNodeDepth {
		return nil, errNodeTooDeep
	}

	if node == nil {
		return nil, nil
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}

		return d.decode(node.Content[0], depth+1)

	case yaml.AliasNode:
		d.aliasDepth++
		defer func() { d.aliasDepth-- }()

		return d.decode(node.Alias, depth+1)
	}

	d.decoded++
	if d.aliasDepth > 0 {
		d.aliased++
	}

	if d.excessiveAliasing() {
		return nil, fmt.Errorf("line %d: %w", node.Line, errExcessiveAliasing)
	}

	switch node.Kind {
	case yaml.MappingNode:
		m := make(Map, 0, len(node.Content)/2)

		for idx := 0; idx+1 < len(node.Content); idx += 2 {
			keyNode := contentOf(node.Content[idx])
			if keyNode == nil || keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping key must be a scalar", node.Content[idx].Line)
			}

			value, err := d.decode(node.Content[idx+1], depth+1)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", keyNode.Value, err)
			}

			m.Set(keyNode.Value, value)
		}

		return m, nil

	case yaml.SequenceNode:
		values := make([]any, 0, len(node.Content))

		for idx, element := range node.Content {
			value, err := d.decode(element, depth+1)
			if err != nil {
				return nil, fmt.Errorf("element idx=%d: %w", idx, err)
			}

			values = append(values, value)
		}

		return values, nil

	case yaml.ScalarNode:
		var value any
		if err := node.Decode(&value); err != nil {
			return nil, fmt.Errorf("line %d: decode scalar: %w", node.Line, err)
		}

		return value, nil

	default:
		return nil, fmt.Errorf("line %d: unexpected node kind %d", node.Line, node.Kind)
	}
}

func (d *nodeDecoder) excessiveAliasing() bool {
	if d.aliased <= 100 || d.decoded <= 1000 {
		return false
	}

	return float64(d.aliased)/float64(d.decoded) > allowedAliasRatio(d.decoded)
}

// allowedAliasRatio permits almost only aliased nodes in small documents, but at most
// ten percent in very large ones.
func allowedAliasRatio(decoded int) float64 {
	switch {
	case decoded <= aliasRatioRangeLow:
		return 0.99

	case decoded >= aliasRatioRangeHigh:
		return 0.10

	default:
		return 0.99 - 0.89*(float64(decoded-aliasRatioRangeLow)/aliasRatioRange)
	}
}
