package reshape

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSchema_YAML(t *testing.T) {
	schema, err := ParseSchema([]byte(`
name: '@user.name="anonymous"'
kind: user
items: ['@items', {id: '@id'}]
`))
	require.NoError(t, err)

	require.Equal(t, Map{
		{"name", `@user.name="anonymous"`},
		{"kind", "user"},
		{"items", []any{"@items", Map{{"id", "@id"}}}},
	}, schema)
}

func TestParseSchema_JSON(t *testing.T) {
	schema, err := ParseSchema([]byte("{\n\t\"z\": \"@z\",\n\t\"a\": [\"@list\", {\"id\": \"@id\"}],\n\t\"n\": 1\n}"))
	require.NoError(t, err)

	require.Equal(t, Map{
		{"z", "@z"},
		{"a", []any{"@list", Map{{"id", "@id"}}}},
		{"n", 1},
	}, schema)
}

func TestParseSchema_FlowYAML(t *testing.T) {
	schema, err := ParseSchema([]byte(`{b: '@b', a: 2}`))
	require.NoError(t, err)
	require.Equal(t, Map{{"b", "@b"}, {"a", 2}}, schema)
}

func TestParseSchema_Invalid(t *testing.T) {
	_, err := ParseSchema(nil)
	require.ErrorIs(t, err, errEmptyDocument)

	_, err = ParseSchema([]byte("- '@a'\n- '@b'\n"))
	require.Error(t, err)

	_, err = ParseSchema([]byte(`["@a"]`))
	require.Error(t, err)

	_, err = ParseSchema([]byte("a: [1, 2"))
	require.Error(t, err)
}

func TestParseDocument(t *testing.T) {
	schema := Map{
		{"name", "@user.name"},
		{"ratio", "@user.ratio"},
		{"ids", []any{"@items", "@id"}},
	}

	expected := Map{
		{"name", "Albert"},
		{"ratio", 2.5},
		{"ids", []any{1, 2}},
	}

	inputs := map[string]string{
		"yaml": "user:\n  name: Albert\n  ratio: 2.5\nitems:\n  - id: 1\n  - id: 2\n",
		"json": "{\n\t\"user\": {\"name\": \"Albert\", \"ratio\": 2.5},\n\t\"items\": [{\"id\": 1}, {\"id\": 2}]\n}",
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			doc, err := ParseDocument([]byte(input))
			require.NoError(t, err)
			require.Equal(t, expected, Format(schema, doc))
		})
	}
}

func TestParseDocument_Invalid(t *testing.T) {
	_, err := ParseDocument(nil)
	require.ErrorIs(t, err, errEmptyDocument)

	_, err = ParseDocument([]byte("a: [1, 2"))
	require.Error(t, err)
}

func TestLoadSchemaAndDocument(t *testing.T) {
	dir := t.TempDir()

	schemaPath := filepath.Join(dir, "schema.yaml")
	require.NoError(t, os.WriteFile(schemaPath, []byte("greeting: '@greeting=\"hello\"'\nname: '@name'\n"), 0o600))

	documentPath := filepath.Join(dir, "document.json")
	require.NoError(t, os.WriteFile(documentPath, []byte(`{"name": "world"}`), 0o600))

	schema, err := LoadSchema(schemaPath)
	require.NoError(t, err)

	doc, err := LoadDocument(documentPath)
	require.NoError(t, err)

	require.Equal(t, Map{{"greeting", "hello"}, {"name", "world"}}, Format(schema, doc))

	_, err = LoadSchema(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadDocument(filepath.Join(dir, "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
