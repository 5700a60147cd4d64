package reshape

import (
	"errors"
	"iter"
)

// ErrNoValue is returned by a container [Source] that does not have the requested child.
var ErrNoValue = errors.New("no value")

// ErrNotSupported is returned if a [Source] does not support an operation, e.g. Get on a scalar.
var ErrNotSupported = errors.New("not supported")

// Source represents read access to a source object, designed to work with [Formatter.Format].
// It defines a small data model that is enough to walk dotted paths and collections:
//   - **Containers**: [Source.Get] retrieves the child stored under a key. Keys are property
//     names for mappings and decimal indices for sequences.
//   - **Sequences**: [Source.Iter] iterates over the elements of a list-like value.
//   - **Values**: [Source.Value] materializes the current value as a plain go value that is
//     copied into the formatted output.
//
// The distinction between [ErrNoValue] and [ErrNotSupported] is important. A container that simply
// does not have the requested child must return [ErrNoValue]. A value that is not a container at
// all must return [ErrNotSupported]. Both are treated as "missing" by the formatter, any other
// error is logged and treated as missing, too.
//
// A nil value that is present in the source object is still a value: its [Source.Value] returns
// nil without an error and no default is substituted for it.
//
// To implement a custom [Source], embed [EmptySource] and override the methods your data model
// supports:
//
//	type HeaderSource struct {
//	    reshape.EmptySource
//	    Header http.Header
//	}
//
//	func (h HeaderSource) Get(key string) (reshape.Source, error) {
//	    // Custom logic for handling headers
//	}
type Source interface {
	// Get returns a child value of this [Source] if it exists.
	// Returns error [ErrNotSupported] if the current [Source] does not have any
	// child values. If the [Source] does have children, but just not the
	// requested child, [ErrNoValue] must be returned.
	Get(key string) (Source, error)

	// Iter interprets the [Source] as a sequence and iterates over the
	// elements within.
	// Returns [ErrNotSupported] if the [Source] is not a sequence.
	Iter() (iter.Seq[Source], error)

	// Value returns the current value as a go value.
	Value() (any, error)
}

// EmptySource is a Source that returns ErrNotSupported for all methods.
// It is useful as an embedded base for your own custom Source implementation.
type EmptySource struct{}

var _ Source = EmptySource{}

func (EmptySource) Get(key string) (Source, error) {
	return nil, ErrNotSupported
}

func (EmptySource) Iter() (iter.Seq[Source], error) {
	return nil, ErrNotSupported
}

func (EmptySource) Value() (any, error) {
	return nil, ErrNotSupported
}

// StringSource adapts a `string` to a Source. It has no children and is not iterable.
type StringSource string

var _ Source = StringSource("")

func (s StringSource) Get(key string) (Source, error) {
	return nil, ErrNotSupported
}

func (s StringSource) Iter() (iter.Seq[Source], error) {
	return nil, ErrNotSupported
}

func (s StringSource) Value() (any, error) {
	return string(s), nil
}
