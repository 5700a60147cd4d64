package reshape

import (
	"iter"
	"reflect"
	"strconv"

	"golang.org/x/exp/constraints"
	"gopkg.in/yaml.v3"
)

var tyMap = reflect.TypeFor[Map]()

// ValueSource adapts an arbitrary go value to a [Source]. Struct fields are looked up
// by their `json` tag.
//
// Lookups follow these rules:
//   - maps with string keys use the key as is, maps with integer keys parse it as a decimal
//     number of the key's width
//   - slices and arrays accept a decimal index within their bounds
//   - structs resolve exported fields by tag name, promoting fields of embedded structs
//   - pointers and interfaces are followed, a nil pointer has no children
//   - strings and byte slices are plain values without children
//
// Values that implement [Source] themselves or are a *[yaml.Node] are used directly once they
// are reached during a lookup.
func ValueSource(value any) Source {
	return valueOf(value, "json")
}

func valueOf(value any, structTag string) Source {
	switch value := value.(type) {
	case Source:
		return value
	case *yaml.Node:
		return NodeSource(value)
	}

	return valueSource{value: reflect.ValueOf(value), structTag: structTag}
}

type valueSource struct {
	value     reflect.Value
	structTag string
}

var _ Source = valueSource{}

func (v valueSource) Get(key string) (Source, error) {
	rv := indirect(v.value)
	if !rv.IsValid() {
		return nil, ErrNotSupported
	}

	if rv.Type() == tyMap {
		value, ok := rv.Interface().(Map).Get(key)
		if !ok {
			return nil, ErrNoValue
		}

		return valueOf(value, v.structTag), nil
	}

	switch rv.Kind() {
	case reflect.Map:
		mapKey, ok := parseMapKey(rv.Type().Key(), key)
		if !ok {
			return nil, ErrNoValue
		}

		value := rv.MapIndex(mapKey)
		if !value.IsValid() {
			return nil, ErrNoValue
		}

		return v.child(value), nil

	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return nil, ErrNotSupported
		}

		idx, ok := parseIndex(key, rv.Len())
		if !ok {
			return nil, ErrNoValue
		}

		return v.child(rv.Index(idx)), nil

	case reflect.Struct:
		index := structFields(rv.Type(), v.structTag)[key]
		if index == nil {
			return nil, ErrNoValue
		}

		// fails if an embedded pointer on the way is nil
		value, err := rv.FieldByIndexErr(index)
		if err != nil {
			return nil, ErrNoValue
		}

		return v.child(value), nil

	default:
		return nil, ErrNotSupported
	}
}

func (v valueSource) Iter() (iter.Seq[Source], error) {
	rv := indirect(v.value)
	if !rv.IsValid() || rv.Type() == tyMap {
		return nil, ErrNotSupported
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return nil, ErrNotSupported
		}

		it := func(yield func(Source) bool) {
			for idx := range rv.Len() {
				if !yield(v.child(rv.Index(idx))) {
					return
				}
			}
		}

		return it, nil

	default:
		return nil, ErrNotSupported
	}
}

func (v valueSource) Value() (any, error) {
	if !v.value.IsValid() {
		// a nil interface, present but without a value
		return nil, nil
	}

	if !v.value.CanInterface() {
		return nil, ErrNotSupported
	}

	return v.value.Interface(), nil
}

func (v valueSource) child(value reflect.Value) Source {
	if value.IsValid() && value.CanInterface() {
		switch value.Interface().(type) {
		case Source, *yaml.Node:
			return valueOf(value.Interface(), v.structTag)
		}
	}

	return valueSource{value: value, structTag: v.structTag}
}

// indirect follows pointers and interfaces. Returns the zero reflect.Value
// if a nil is found on the way.
func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() {
		switch rv.Kind() {
		case reflect.Pointer, reflect.Interface:
			if rv.IsNil() {
				return reflect.Value{}
			}

			rv = rv.Elem()

		default:
			return rv
		}
	}

	return rv
}

func parseMapKey(ty reflect.Type, segment string) (reflect.Value, bool) {
	key := reflect.New(ty).Elem()

	switch ty.Kind() {
	case reflect.String:
		key.SetString(segment)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		value, ok := parseInteger[int64](segment, ty.Bits())
		if !ok {
			return reflect.Value{}, false
		}

		key.SetInt(value)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		value, ok := parseInteger[uint64](segment, ty.Bits())
		if !ok {
			return reflect.Value{}, false
		}

		key.SetUint(value)

	case reflect.Interface:
		// map[any]any and friends, only if a string fits into the interface
		segmentValue := reflect.ValueOf(segment)
		if !segmentValue.Type().AssignableTo(ty) {
			return reflect.Value{}, false
		}

		key.Set(segmentValue)

	default:
		return reflect.Value{}, false
	}

	return key, true
}

func parseIndex(segment string, length int) (int, bool) {
	idx, ok := parseInteger[int](segment, strconv.IntSize)
	if !ok || idx < 0 || idx >= length {
		return 0, false
	}

	return idx, true
}

// parseInteger parses a segment in canonical decimal notation, e.g. "12" but not "012" or "+12".
func parseInteger[T constraints.Integer](segment string, bitSize int) (T, bool) {
	var zero T

	// true only for signed types
	if zero-1 < zero {
		value, err := strconv.ParseInt(segment, 10, bitSize)
		if err != nil || strconv.FormatInt(value, 10) != segment {
			return zero, false
		}

		return T(value), true
	}

	value, err := strconv.ParseUint(segment, 10, bitSize)
	if err != nil || strconv.FormatUint(value, 10) != segment {
		return zero, false
	}

	return T(value), true
}
