package bincfg

import (
	"fmt"
	"strings"

	"github.com/scigolib/bincfg/internal/format"
)

// ConfigKey is one step of a config path: a string key into a table, or an
// integer index into an array.
type ConfigKey struct {
	key     string
	index   uint32
	isIndex bool
}

// Key returns a table-key path step.
func Key(key string) ConfigKey {
	return ConfigKey{key: key}
}

// Index returns an array-index path step.
func Index(index uint32) ConfigKey {
	return ConfigKey{index: index, isIndex: true}
}

// String implements fmt.Stringer: quoted keys, bare indices.
func (k ConfigKey) String() string {
	if k.isIndex {
		return fmt.Sprintf("%d", k.index)
	}
	return fmt.Sprintf("%q", k.key)
}

// Path is a sequence of config keys identifying a nested value,
// parent to child. An empty path identifies the receiver itself.
type Path []ConfigKey

// String implements fmt.Stringer. The empty path renders as "<root>".
func (p Path) String() string {
	if len(p) == 0 {
		return "<root>"
	}
	var sb strings.Builder
	for i, k := range p {
		if i > 0 {
			sb.WriteByte('/')
		}
		sb.WriteString(k.String())
	}
	return sb.String()
}

func clonePath(path []ConfigKey) Path {
	return append(Path(nil), path...)
}

// GetPath resolves path starting at this value. An empty path returns the
// value itself. String steps require the current value to be a Table;
// index steps require an Array. On failure the returned error reports the
// path consumed so far (see the error types for what each includes).
func (v Value) GetPath(path ...ConfigKey) (Value, error) {
	cur := v
	for i, k := range path {
		if k.isIndex {
			arr, ok := cur.Array()
			if !ok {
				return Value{}, &ValueNotAnArrayError{Path: clonePath(path[:i]), Type: cur.typ}
			}
			if k.index >= arr.Len() {
				return Value{}, &IndexOutOfBoundsError{Path: clonePath(path[:i+1]), Len: arr.Len()}
			}
			cur = arr.at.value(k.index)
			continue
		}

		table, ok := cur.Table()
		if !ok {
			return Value{}, &ValueNotATableError{Path: clonePath(path[:i]), Type: cur.typ}
		}
		if k.key == "" {
			return Value{}, &EmptyKeyError{Path: clonePath(path[:i])}
		}
		next, err := table.GetHashed(k.key, format.StringHash(k.key))
		if err != nil {
			return Value{}, &KeyDoesNotExistError{Path: clonePath(path[:i+1])}
		}
		cur = next
	}
	return cur, nil
}

// GetBoolPath resolves path and extracts a Bool.
func (v Value) GetBoolPath(path ...ConfigKey) (bool, error) {
	leaf, err := v.GetPath(path...)
	if err != nil {
		return false, err
	}
	b, ok := leaf.Bool()
	if !ok {
		return false, &IncorrectValueTypeError{Type: leaf.typ}
	}
	return b, nil
}

// GetI64Path resolves path and extracts an int64, truncating F64 leaves.
func (v Value) GetI64Path(path ...ConfigKey) (int64, error) {
	leaf, err := v.GetPath(path...)
	if err != nil {
		return 0, err
	}
	i, ok := leaf.I64()
	if !ok {
		return 0, &IncorrectValueTypeError{Type: leaf.typ}
	}
	return i, nil
}

// GetF64Path resolves path and extracts a float64, widening I64 leaves.
func (v Value) GetF64Path(path ...ConfigKey) (float64, error) {
	leaf, err := v.GetPath(path...)
	if err != nil {
		return 0, err
	}
	f, ok := leaf.F64()
	if !ok {
		return 0, &IncorrectValueTypeError{Type: leaf.typ}
	}
	return f, nil
}

// GetStringPath resolves path and extracts a String.
func (v Value) GetStringPath(path ...ConfigKey) (string, error) {
	leaf, err := v.GetPath(path...)
	if err != nil {
		return "", err
	}
	s, ok := leaf.Str()
	if !ok {
		return "", &IncorrectValueTypeError{Type: leaf.typ}
	}
	return s, nil
}

// GetArrayPath resolves path and extracts an Array.
func (v Value) GetArrayPath(path ...ConfigKey) (Array, error) {
	leaf, err := v.GetPath(path...)
	if err != nil {
		return Array{}, err
	}
	a, ok := leaf.Array()
	if !ok {
		return Array{}, &IncorrectValueTypeError{Type: leaf.typ}
	}
	return a, nil
}

// GetTablePath resolves path and extracts a Table.
func (v Value) GetTablePath(path ...ConfigKey) (Table, error) {
	leaf, err := v.GetPath(path...)
	if err != nil {
		return Table{}, err
	}
	t, ok := leaf.Table()
	if !ok {
		return Table{}, &IncorrectValueTypeError{Type: leaf.typ}
	}
	return t, nil
}

// value wraps the table in a Value so path resolution can start here.
func (t Table) value() Value {
	return Value{typ: TypeTable, t: t}
}

func (a Array) value() Value {
	return Value{typ: TypeArray, a: a}
}

// GetPath resolves path starting at this table.
func (t Table) GetPath(path ...ConfigKey) (Value, error) { return t.value().GetPath(path...) }

// GetBoolPath resolves path starting at this table and extracts a Bool.
func (t Table) GetBoolPath(path ...ConfigKey) (bool, error) { return t.value().GetBoolPath(path...) }

// GetI64Path resolves path starting at this table and extracts an int64.
func (t Table) GetI64Path(path ...ConfigKey) (int64, error) { return t.value().GetI64Path(path...) }

// GetF64Path resolves path starting at this table and extracts a float64.
func (t Table) GetF64Path(path ...ConfigKey) (float64, error) { return t.value().GetF64Path(path...) }

// GetStringPath resolves path starting at this table and extracts a String.
func (t Table) GetStringPath(path ...ConfigKey) (string, error) {
	return t.value().GetStringPath(path...)
}

// GetArrayPath resolves path starting at this table and extracts an Array.
func (t Table) GetArrayPath(path ...ConfigKey) (Array, error) {
	return t.value().GetArrayPath(path...)
}

// GetTablePath resolves path starting at this table and extracts a Table.
func (t Table) GetTablePath(path ...ConfigKey) (Table, error) {
	return t.value().GetTablePath(path...)
}

// GetPath resolves path starting at this array.
func (a Array) GetPath(path ...ConfigKey) (Value, error) { return a.value().GetPath(path...) }

// GetBoolPath resolves path starting at this array and extracts a Bool.
func (a Array) GetBoolPath(path ...ConfigKey) (bool, error) { return a.value().GetBoolPath(path...) }

// GetI64Path resolves path starting at this array and extracts an int64.
func (a Array) GetI64Path(path ...ConfigKey) (int64, error) { return a.value().GetI64Path(path...) }

// GetF64Path resolves path starting at this array and extracts a float64.
func (a Array) GetF64Path(path ...ConfigKey) (float64, error) { return a.value().GetF64Path(path...) }

// GetStringPath resolves path starting at this array and extracts a String.
func (a Array) GetStringPath(path ...ConfigKey) (string, error) {
	return a.value().GetStringPath(path...)
}

// GetArrayPath resolves path starting at this array and extracts an Array.
func (a Array) GetArrayPath(path ...ConfigKey) (Array, error) {
	return a.value().GetArrayPath(path...)
}

// GetTablePath resolves path starting at this array and extracts a Table.
func (a Array) GetTablePath(path ...ConfigKey) (Table, error) {
	return a.value().GetTablePath(path...)
}
