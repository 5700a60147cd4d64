package reshape

import (
	"log/slog"
)

// DefaultAccessorSymbol marks a schema string as an accessor if no other symbol is configured.
const DefaultAccessorSymbol = "@"

// DefaultSymbol separates the path of an accessor from its default literal.
const DefaultSymbol = "="

var discardLogger = slog.New(slog.DiscardHandler)

// The default Formatter instance.
var formatter Formatter

// Format formats the schema against object using the default [Formatter].
func Format(schema Map, object any) Map {
	return formatter.Format(schema, object)
}

// Formatter formats schemas against source objects. The zero value is ready to use: it
// recognizes "@" as accessor symbol, uses nil as global default and looks up struct fields
// by their `json` tag. A Formatter is immutable and safe for concurrent use.
type Formatter struct {
	// prefix that marks a string as accessor, empty means DefaultAccessorSymbol
	accessorSymbol string

	// returned for missing values if an accessor has no valid default of its own
	defaultValue any

	// the struct tag that is used to look up struct fields
	structTag string

	logger *slog.Logger
}

// NewFormatter returns a Formatter with the "@" accessor symbol, a nil global default and the `json` struct tag.
func NewFormatter() *Formatter {
	return &Formatter{
		accessorSymbol: DefaultAccessorSymbol,
		structTag:      "json",
	}
}

// WithAccessorSymbol returns a copy of the Formatter that recognizes accessors by the given
// prefix. The symbol may be longer than one character. An empty symbol restores the default.
func (f *Formatter) WithAccessorSymbol(symbol string) *Formatter {
	if f.symbol() == symbol {
		return f
	}

	copied := *f
	copied.accessorSymbol = symbol
	return &copied
}

// WithDefault returns a copy of the Formatter that uses value as the global default.
func (f *Formatter) WithDefault(value any) *Formatter {
	copied := *f
	copied.defaultValue = value
	return &copied
}

// WithTag returns a copy of the Formatter that looks up struct fields by the given struct tag.
func (f *Formatter) WithTag(structTag string) *Formatter {
	if f.structTag == structTag {
		return f
	}

	copied := *f
	copied.structTag = structTag
	return &copied
}

// WithLogger returns a copy of the Formatter that reports recovered lookups,
// like malformed default literals, on debug level to logger.
func (f *Formatter) WithLogger(logger *slog.Logger) *Formatter {
	copied := *f
	copied.logger = logger
	return &copied
}

// Format builds a new Map with the same keys, in the same order, as schema. Every value is
// classified and resolved against object:
//   - literals are copied as is
//   - simple accessors are replaced by the value at their path, or their default
//   - collection accessors are mapped over the sequence at their path
//   - nested schemas are formatted recursively against the same object
//
// object may be any go value supported by [ValueSource], a *[yaml.Node] or a [Source].
// Format never fails, neither schema nor object are modified.
func (f *Formatter) Format(schema Map, object any) Map {
	return f.FormatSource(schema, valueOf(object, f.tag()))
}

// FormatSource is like [Formatter.Format] but reads from a [Source].
func (f *Formatter) FormatSource(schema Map, source Source) Map {
	formatted := make(Map, 0, len(schema))

	for _, entry := range schema {
		value := f.resolve(f.classify(entry.Value), source)
		formatted = append(formatted, Entry{Key: entry.Key, Value: value})
	}

	return formatted
}

func (f *Formatter) symbol() string {
	if f.accessorSymbol == "" {
		return DefaultAccessorSymbol
	}

	return f.accessorSymbol
}

func (f *Formatter) tag() string {
	if f.structTag == "" {
		return "json"
	}

	return f.structTag
}

func (f *Formatter) log() *slog.Logger {
	if f.logger == nil {
		return discardLogger
	}

	return f.logger
}
