// Package reshape builds new objects from a declarative schema. A schema is an ordered [Map]
// whose leaves are either literals or accessor strings. [Formatter.Format] walks the schema and
// replaces every accessor with the value it points to in a source object.
//
// An accessor starts with the accessor symbol (default "@") followed by a dotted path and an
// optional default literal:
//
//	"@user.name"                  lookup user -> name
//	"@items.0.id"                 integer segments index into sequences
//	"@user.nick=\"anonymous\""    fall back to "anonymous" if the path is missing
//
// A two element sequence whose first element is an accessor is a collection accessor. If the
// first accessor points to a sequence in the source object, the second element (another accessor
// or a nested schema) is applied to every element of that sequence:
//
//	schema:
//	  names: ["@people", "@name"]
//	  people: ["@people", {first: "@name", city: "@address.city=\"unknown\""}]
//
// Defaults only replace missing values. A value that is present, even nil, zero or empty, is
// returned as is. Default literals are data only (strings, numbers, booleans, null, flow
// sequences and flow mappings) and are parsed by [ParseLiteral]; nothing in a schema is ever
// evaluated as code.
//
// Source objects are read through the [Source] interface. Plain Go values (maps, slices, structs,
// pointers), [Map] values and parsed YAML or JSON documents ([NodeSource]) are supported out of
// the box. Custom data models can implement [Source] directly, typically by embedding
// [EmptySource].
//
// Formatting never fails: malformed defaults, missing paths and type mismatches all degrade to a
// default value. Those recovered branches are reported through the [log/slog] logger configured
// with [Formatter.WithLogger].
package reshape
