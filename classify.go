package reshape

import (
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// Kind is the role a schema value plays during formatting.
type Kind int

const (
	// KindLiteral values are copied to the output unchanged.
	KindLiteral Kind = iota

	// KindSimpleAccessor is a string starting with the accessor symbol.
	KindSimpleAccessor

	// KindCollectionAccessor is a two element sequence of a simple accessor naming a
	// collection and a simple accessor or nested schema applied to each element.
	KindCollectionAccessor

	// KindNestedSchema is a mapping that is formatted recursively.
	KindNestedSchema
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "Literal"
	case KindSimpleAccessor:
		return "SimpleAccessor"
	case KindCollectionAccessor:
		return "CollectionAccessor"
	case KindNestedSchema:
		return "NestedSchema"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// schemaValue is a classified schema value. Which fields are set depends on Kind.
type schemaValue struct {
	Kind Kind

	// the raw value for KindLiteral
	Literal any

	// the accessor for KindSimpleAccessor, the collection path for KindCollectionAccessor
	Accessor string

	// applied to each element for KindCollectionAccessor
	Target *schemaValue

	// the schema for KindNestedSchema
	Schema Map
}

// Classify reports how value is treated when it appears in a schema.
func (f *Formatter) Classify(value any) Kind {
	return f.classify(value).Kind
}

func (f *Formatter) classify(value any) schemaValue {
	if accessor, ok := f.simpleAccessor(value); ok {
		return schemaValue{Kind: KindSimpleAccessor, Accessor: accessor}
	}

	if schema, ok := asSchema(value); ok {
		return schemaValue{Kind: KindNestedSchema, Schema: schema}
	}

	if collection, ok := f.collectionAccessor(value); ok {
		return collection
	}

	return schemaValue{Kind: KindLiteral, Literal: value}
}

func (f *Formatter) simpleAccessor(value any) (string, bool) {
	accessor, ok := value.(string)
	if !ok || !strings.HasPrefix(accessor, f.symbol()) {
		return "", false
	}

	return accessor, true
}

func (f *Formatter) collectionAccessor(value any) (schemaValue, bool) {
	pair, ok := asPair(value)
	if !ok {
		return schemaValue{}, false
	}

	collectionPath, ok := f.simpleAccessor(pair[0])
	if !ok {
		return schemaValue{}, false
	}

	var target schemaValue

	if accessor, ok := f.simpleAccessor(pair[1]); ok {
		target = schemaValue{Kind: KindSimpleAccessor, Accessor: accessor}
	} else if schema, ok := asSchema(pair[1]); ok {
		target = schemaValue{Kind: KindNestedSchema, Schema: schema}
	} else {
		return schemaValue{}, false
	}

	return schemaValue{Kind: KindCollectionAccessor, Accessor: collectionPath, Target: &target}, true
}

// asSchema returns value as a Map if it is mapping shaped. Go maps are converted
// with their keys in sorted order.
func asSchema(value any) (Map, bool) {
	switch value := value.(type) {
	case Map:
		return value, true

	case map[string]any:
		keys := make([]string, 0, len(value))
		for key := range value {
			keys = append(keys, key)
		}

		slices.Sort(keys)

		schema := make(Map, 0, len(keys))
		for _, key := range keys {
			schema = append(schema, Entry{Key: key, Value: value[key]})
		}

		return schema, true
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}

	schema := make(Map, 0, rv.Len())
	for it := rv.MapRange(); it.Next(); {
		schema = append(schema, Entry{Key: it.Key().String(), Value: it.Value().Interface()})
	}

	slices.SortFunc(schema, func(a, b Entry) int { return strings.Compare(a.Key, b.Key) })

	return schema, true
}

// asPair returns the elements of a two element slice or array.
func asPair(value any) ([2]any, bool) {
	if pair, ok := value.([]any); ok {
		if len(pair) != 2 {
			return [2]any{}, false
		}

		return [2]any{pair[0], pair[1]}, true
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return [2]any{}, false
	}

	if rv.Type() == tyMap || rv.Len() != 2 {
		return [2]any{}, false
	}

	return [2]any{rv.Index(0).Interface(), rv.Index(1).Interface()}, true
}
