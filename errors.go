package bincfg

import (
	"errors"
	"fmt"
)

// ErrInvalidBinaryConfigData is returned by Validate and New when the byte
// buffer is not a well-formed binary config data blob. Returned errors wrap
// this sentinel together with a short reason; match with errors.Is.
var ErrInvalidBinaryConfigData = errors.New("binary config data blob is invalid")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidBinaryConfigData, fmt.Sprintf(format, args...))
}

// Writer errors.
var (
	// ErrEmptyRootTable is returned by NewWriter: empty root tables are
	// not supported.
	ErrEmptyRootTable = errors.New("empty binary config root tables are not supported")

	// ErrTableKeyRequired is returned when a table element is written
	// without a non-empty string key.
	ErrTableKeyRequired = errors.New("a non-empty string key is required for a table element")

	// ErrArrayKeyNotRequired is returned when an array element is written
	// with a string key.
	ErrArrayKeyNotRequired = errors.New("a string key is not required for an array element")

	// ErrNonUniqueKey is returned when a key string repeats within a
	// single table.
	ErrNonUniqueKey = errors.New("a non-unique string key was provided for a table element")

	// ErrEndCallMismatch is returned by End without a matching previous
	// call to Array or Table.
	ErrEndCallMismatch = errors.New("mismatched call to End (expected a previous call to Array/Table)")
)

// MixedArrayError is returned when an array element's kind is incompatible
// with the kind established by the array's first element.
type MixedArrayError struct {
	Expected ValueType
	Found    ValueType
}

func (e *MixedArrayError) Error() string {
	return fmt.Sprintf("mixed (and non-convertible) type values in the array: expected %q, found %q",
		e.Expected, e.Found)
}

// LengthMismatchError is returned when a container receives more elements
// than declared, or is closed or finished before it is full.
type LengthMismatchError struct {
	Expected uint32
	Found    uint32
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("mismatch between declared array/table length (%d) and actual number of elements provided (%d)",
		e.Expected, e.Found)
}

// UnfinishedError is returned by Finish while nested containers remain open.
type UnfinishedError struct {
	Count uint32
}

func (e *UnfinishedError) Error() string {
	return fmt.Sprintf("%d unfinished array(s)/table(s) remain in the call to Finish", e.Count)
}

// Reader errors. Each type serves both plain accessors and path accessors;
// plain accessors leave Path empty.

// EmptyKeyError is returned when a table is queried with an empty key.
type EmptyKeyError struct {
	Path Path
}

func (e *EmptyKeyError) Error() string {
	if len(e.Path) == 0 {
		return "table key is empty"
	}
	return fmt.Sprintf("empty key in path (at %s)", e.Path)
}

// KeyDoesNotExistError is returned when a table has no element under the
// queried key. For path accessors, Path includes the missing key.
type KeyDoesNotExistError struct {
	Path Path
}

func (e *KeyDoesNotExistError) Error() string {
	if len(e.Path) == 0 {
		return "table key does not exist"
	}
	return fmt.Sprintf("key does not exist (at %s)", e.Path)
}

// IndexOutOfBoundsError is returned when an array index is out of bounds.
// Len is the actual array length. For path accessors, Path includes the
// offending index.
type IndexOutOfBoundsError struct {
	Path Path
	Len  uint32
}

func (e *IndexOutOfBoundsError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("array index out of bounds (length is %d)", e.Len)
	}
	return fmt.Sprintf("index out of bounds (at %s, length is %d)", e.Path, e.Len)
}

// IncorrectValueTypeError is returned by typed accessors when the value
// exists but has a different kind. Type is the actual kind.
type IncorrectValueTypeError struct {
	Type ValueType
}

func (e *IncorrectValueTypeError) Error() string {
	return fmt.Sprintf("value is of incorrect type: %q", e.Type)
}

// ValueNotAnArrayError is returned by path accessors when a path step is an
// index but the value at Path is not an array.
type ValueNotAnArrayError struct {
	Path Path
	Type ValueType
}

func (e *ValueNotAnArrayError) Error() string {
	return fmt.Sprintf("value is not an array (at %s, type is %q)", e.Path, e.Type)
}

// ValueNotATableError is returned by path accessors when a path step is a
// string key but the value at Path is not a table.
type ValueNotATableError struct {
	Path Path
	Type ValueType
}

func (e *ValueNotATableError) Error() string {
	return fmt.Sprintf("value is not a table (at %s, type is %q)", e.Path, e.Type)
}
