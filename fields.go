package reshape

import (
	"reflect"
	"strings"
	"sync"
)

type fieldCacheKey struct {
	Type reflect.Type
	Tag  string
}

// Field indices by name, indexed by fieldCacheKey
var fieldCache sync.Map

// structFields returns the index of every addressable field name of a struct type.
// A nil index marks a name that is ambiguous and must be treated as missing.
func structFields(ty reflect.Type, structTag string) map[string][]int {
	key := fieldCacheKey{Type: ty, Tag: structTag}
	if cached, ok := fieldCache.Load(key); ok {
		return cached.(map[string][]int)
	}

	cached, _ := fieldCache.LoadOrStore(key, collectFields(ty, structTag))
	return cached.(map[string][]int)
}

func collectFields(ty reflect.Type, structTag string) map[string][]int {
	if ty.Kind() != reflect.Struct {
		panic("not a struct")
	}

	type embedded struct {
		Type  reflect.Type
		Index []int
	}

	type candidate struct {
		Index    []int
		Explicit bool
	}

	fields := map[string][]int{}
	visited := map[reflect.Type]struct{}{}

	// walk the type one embedding depth at a time. a name found on a shallower
	// level always hides the same name on deeper levels.
	level := []embedded{{Type: ty}}

	for len(level) > 0 {
		var next []embedded

		candidates := map[string][]candidate{}

		for _, item := range level {
			if _, ok := visited[item.Type]; ok {
				continue
			}

			visited[item.Type] = struct{}{}

			for idx := range item.Type.NumField() {
				fi := item.Type.Field(idx)
				if !fi.IsExported() {
					continue
				}

				name, explicit := nameOf(fi, structTag)
				if name == "" {
					continue
				}

				// allocate a new slice for every index by capping the parents index
				parent := item.Index
				index := append(parent[:len(parent):len(parent)], idx)

				if fi.Anonymous && !explicit {
					embeddedType := fi.Type
					if embeddedType.Kind() == reflect.Pointer {
						embeddedType = embeddedType.Elem()
					}

					if embeddedType.Kind() == reflect.Struct {
						next = append(next, embedded{Type: embeddedType, Index: index})
						continue
					}
				}

				candidates[name] = append(candidates[name], candidate{Index: index, Explicit: explicit})
			}
		}

		for name, found := range candidates {
			if _, ok := fields[name]; ok {
				continue
			}

			if len(found) == 1 {
				fields[name] = found[0].Index
				continue
			}

			var explicit []candidate
			for _, c := range found {
				if c.Explicit {
					explicit = append(explicit, c)
				}
			}

			if len(explicit) == 1 {
				fields[name] = explicit[0].Index
				continue
			}

			// ambiguous on this level, also hides deeper fields
			fields[name] = nil
		}

		level = next
	}

	return fields
}

func nameOf(fi reflect.StructField, structTag string) (name string, explicit bool) {
	tag := fi.Tag.Get(structTag)

	switch {
	case tag == "":
		return fi.Name, false

	case tag == "-":
		// empty name: skip this field
		return "", true
	}

	alias, _, _ := strings.Cut(tag, ",")
	if alias == "" {
		return fi.Name, false
	}

	return alias, true
}
