package reshape

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const nodeDocument = `
name: lorem
nick: null
count: 3
items:
  - id: 1
    tags: [a, b]
  - id: 2
defaults: &defaults
  color: red
copy: *defaults
`

func parseNode(t *testing.T, input string) *yaml.Node {
	t.Helper()

	var node yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(input), &node))
	return &node
}

func TestNodeSource_Get(t *testing.T) {
	source := NodeSource(parseNode(t, nodeDocument))

	formatted := NewFormatter().WithDefault("-").FormatSource(Map{
		{"name", "@name"},
		{"nick", "@nick=\"none\""},
		{"count", "@count"},
		{"firstId", "@items.0.id"},
		{"secondTag", "@items.0.tags.1"},
		{"missingIndex", "@items.2.id"},
		{"missingKey", "@items.1.tags"},
		{"scalarChild", "@name.first"},
		{"alias", "@copy.color"},
	}, source)

	require.Equal(t, Map{
		{"name", "lorem"},
		{"nick", nil},
		{"count", 3},
		{"firstId", 1},
		{"secondTag", "b"},
		{"missingIndex", "-"},
		{"missingKey", "-"},
		{"scalarChild", "-"},
		{"alias", "red"},
	}, formatted)
}

func TestNodeSource_Collections(t *testing.T) {
	source := NodeSource(parseNode(t, nodeDocument))

	formatted := NewFormatter().FormatSource(Map{
		{"ids", []any{"@items", "@id"}},
		{"items", []any{"@items", Map{
			{"id", "@id"},
			{"tags", "@tags=[]"},
		}}},
		{"notASequence", []any{"@defaults", "@color"}},
	}, source)

	require.Equal(t, Map{
		{"ids", []any{1, 2}},
		{"items", []any{
			Map{{"id", 1}, {"tags", []any{"a", "b"}}},
			Map{{"id", 2}, {"tags", []any{}}},
		}},
		{"notASequence", Map{{"color", "red"}}},
	}, formatted)
}

func TestNodeSource_Value(t *testing.T) {
	value, err := NodeSource(parseNode(t, nodeDocument)).Value()
	require.NoError(t, err)

	m, ok := value.(Map)
	require.True(t, ok)
	require.Equal(t, []string{"name", "nick", "count", "items", "defaults", "copy"}, m.Keys())

	copied, _ := m.Get("copy")
	require.Equal(t, Map{{"color", "red"}}, copied)
}

func TestNodeSource_Nil(t *testing.T) {
	source := NodeSource(nil)

	_, err := source.Get("a")
	require.ErrorIs(t, err, ErrNotSupported)

	_, err = source.Iter()
	require.ErrorIs(t, err, ErrNotSupported)

	value, err := source.Value()
	require.NoError(t, err)
	require.Nil(t, value)
}

func TestDecodeNode_RejectsComplexKeys(t *testing.T) {
	_, err := decodeNode(parseNode(t, "? [a, b]\n: value\n"))
	require.Error(t, err)
}

// laughs builds a small document whose aliases expand to 10^9 scalars.
func laughs() string {
	var buf strings.Builder

	buf.WriteString("a: &a [lol, lol, lol, lol, lol, lol, lol, lol, lol, lol]\n")

	for level := 'b'; level <= 'i'; level++ {
		previous := string(level - 1)
		buf.WriteString(string(level) + ": &" + string(level) + " [")
		buf.WriteString(strings.TrimSuffix(strings.Repeat("*"+previous+", ", 10), ", "))
		buf.WriteString("]\n")
	}

	return buf.String()
}

func TestDecodeNode_ExcessiveAliasing(t *testing.T) {
	node := parseNode(t, laughs())

	_, err := decodeNode(node)
	require.ErrorIs(t, err, errExcessiveAliasing)

	_, err = NodeSource(node).Value()
	require.ErrorIs(t, err, errExcessiveAliasing)

	// lookups through aliases are still fine, reading the expanded value is not
	formatted := NewFormatter().WithDefault("-").FormatSource(Map{
		{"leaf", "@i.0.0.0.0.0.0.0.0.0"},
		{"expanded", "@i"},
		{"levels", []any{"@i", "@0.0"}},
	}, NodeSource(node))

	require.Equal(t, "lol", formatted[0].Value)
	require.Equal(t, "-", formatted[1].Value)

	levels, ok := formatted[2].Value.([]any)
	require.True(t, ok)
	require.Len(t, levels, 10)
	require.Equal(t, "-", levels[0])

	var m Map
	require.ErrorIs(t, yaml.Unmarshal([]byte(laughs()), &m), errExcessiveAliasing)
}

func TestDecodeNode_ModerateAliasing(t *testing.T) {
	input := "base: &base {name: x, tags: [a, b]}\n" +
		"items: [" + strings.TrimSuffix(strings.Repeat("*base, ", 150), ", ") + "]\n"

	value, err := decodeNode(parseNode(t, input))
	require.NoError(t, err)

	items, _ := value.(Map).Get("items")
	require.Len(t, items, 150)
}
