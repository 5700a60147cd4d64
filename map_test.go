package reshape

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestMap_GetSet(t *testing.T) {
	var m Map

	_, ok := m.Get("a")
	require.False(t, ok)

	m.Set("b", 1)
	m.Set("a", 2)
	m.Set("b", 3)

	value, ok := m.Get("b")
	require.True(t, ok)
	require.Equal(t, 3, value)

	require.Equal(t, []string{"b", "a"}, m.Keys())
	require.Equal(t, 2, m.Len())
}

func TestMap_ToMap(t *testing.T) {
	m := Map{
		{"a", 1},
		{"nested", Map{{"b", []any{Map{{"c", true}}, 2}}}},
	}

	require.Equal(t, map[string]any{
		"a": 1,
		"nested": map[string]any{
			"b": []any{map[string]any{"c": true}, 2},
		},
	}, m.ToMap())
}

func TestMap_MarshalJSONKeepsOrder(t *testing.T) {
	m := Map{
		{"z", 1},
		{"a", Map{{"y", "x"}, {"b", nil}}},
		{"m", []any{1, "two", Map{}}},
	}

	data, err := json.Marshal(m)
	require.NoError(t, err)
	require.Equal(t, `{"z":1,"a":{"y":"x","b":null},"m":[1,"two",{}]}`, string(data))
}

func TestMap_UnmarshalJSON(t *testing.T) {
	var m Map
	err := json.Unmarshal([]byte(`{"z": 1, "a": {"y": 1.5, "b": null}, "m": [1, "two", {}, true]}`), &m)
	require.NoError(t, err)

	require.Equal(t, Map{
		{"z", 1},
		{"a", Map{{"y", 1.5}, {"b", nil}}},
		{"m", []any{1, "two", Map{}, true}},
	}, m)
}

func TestMap_UnmarshalJSONRequiresObject(t *testing.T) {
	var m Map
	err := json.Unmarshal([]byte(`[1, 2]`), &m)
	require.Error(t, err)
}

func TestMap_YAMLRoundTrip(t *testing.T) {
	input := "z: 1\na:\n  y: x\n  b: null\nm:\n  - 1\n  - two\n"

	var m Map
	require.NoError(t, yaml.Unmarshal([]byte(input), &m))

	require.Equal(t, Map{
		{"z", 1},
		{"a", Map{{"y", "x"}, {"b", nil}}},
		{"m", []any{1, "two"}},
	}, m)

	data, err := yaml.Marshal(m)
	require.NoError(t, err)
	require.Equal(t, "z: 1\na:\n    y: x\n    b: null\nm:\n    - 1\n    - two\n", string(data))
}

func TestMap_UnmarshalYAMLRequiresMapping(t *testing.T) {
	var m Map
	err := yaml.Unmarshal([]byte("- 1\n- 2\n"), &m)
	require.Error(t, err)
}
