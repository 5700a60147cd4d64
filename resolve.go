package reshape

import (
	"errors"
	"log/slog"
	"strings"
)

// accessor is a parsed simple accessor.
type accessor struct {
	// the raw accessor string, used for logging
	Raw string

	// dotted path with the accessor symbol stripped, empty for the source itself
	Path string

	// the default literal, valid if HasDefault is set
	DefaultExpr string
	HasDefault  bool
}

func (f *Formatter) parseAccessor(raw string) accessor {
	rest := strings.TrimPrefix(raw, f.symbol())

	// more than one default symbol makes the default ambiguous, the path is still
	// everything before the first one.
	pieces := strings.Split(rest, DefaultSymbol)

	parsed := accessor{Raw: raw, Path: pieces[0]}
	if len(pieces) == 2 {
		parsed.DefaultExpr = pieces[1]
		parsed.HasDefault = true
	}

	return parsed
}

// fallback returns the temporary default of the accessor if it parses,
// the global default otherwise.
func (f *Formatter) fallback(a accessor) any {
	if !a.HasDefault {
		return f.defaultValue
	}

	value, err := ParseLiteral(a.DefaultExpr)
	if err != nil {
		f.log().Debug("ignore malformed default",
			slog.String("accessor", a.Raw),
			slog.Any("error", err),
		)

		return f.defaultValue
	}

	return value
}

func (f *Formatter) resolve(value schemaValue, source Source) any {
	switch value.Kind {
	case KindSimpleAccessor:
		return f.resolveSimple(f.parseAccessor(value.Accessor), source)

	case KindCollectionAccessor:
		return f.resolveCollection(value, source)

	case KindNestedSchema:
		return f.FormatSource(value.Schema, source)

	default:
		return value.Literal
	}
}

func (f *Formatter) resolveSimple(a accessor, source Source) any {
	found, ok := f.lookup(a, source)
	if !ok {
		return f.fallback(a)
	}

	return f.valueOf(a, found)
}

// resolveCollection maps the target of a collection accessor over the sequence at its path.
// If there is no sequence at the path, the value at the path (or the default) is returned
// without mapping. A default is never mapped over, even if it is a sequence itself.
func (f *Formatter) resolveCollection(value schemaValue, source Source) any {
	a := f.parseAccessor(value.Accessor)

	found, ok := f.lookup(a, source)
	if !ok {
		return f.fallback(a)
	}

	elements, err := found.Iter()
	if err != nil {
		f.log().Debug("collection accessor does not point to a sequence",
			slog.String("accessor", a.Raw),
			slog.Any("error", err),
		)

		return f.valueOf(a, found)
	}

	results := []any{}
	for element := range elements {
		results = append(results, f.resolve(*value.Target, element))
	}

	return results
}

// lookup walks the path of the accessor, starting at source.
func (f *Formatter) lookup(a accessor, source Source) (Source, bool) {
	if a.Path == "" {
		return source, source != nil
	}

	current := source

	for segment := range strings.SplitSeq(a.Path, ".") {
		if current == nil {
			return nil, false
		}

		next, err := current.Get(segment)
		switch {
		case errors.Is(err, ErrNoValue), errors.Is(err, ErrNotSupported):
			return nil, false

		case err != nil:
			f.log().Debug("lookup failed",
				slog.String("accessor", a.Raw),
				slog.String("segment", segment),
				slog.Any("error", err),
			)

			return nil, false
		}

		current = next
	}

	return current, current != nil
}

func (f *Formatter) valueOf(a accessor, found Source) any {
	value, err := found.Value()
	if err != nil {
		f.log().Debug("read value failed",
			slog.String("accessor", a.Raw),
			slog.Any("error", err),
		)

		return f.fallback(a)
	}

	return value
}
