package bincfg

import (
	"sort"
	"strings"

	"github.com/scigolib/bincfg/internal/format"
)

// Tree is the mutable in-memory form of a config: a root TreeTable whose
// values own their data, unlike the borrowed views of a validated blob.
// A Tree converts to the blob form with ToBlob and is rebuilt from a
// validated blob with Config.ToTree.
type Tree struct {
	root *TreeTable
}

// NewTree returns a tree with an empty root table.
func NewTree() *Tree {
	return &Tree{root: NewTreeTable()}
}

// Root returns the tree's root table.
func (t *Tree) Root() *TreeTable {
	return t.root
}

// ToBlob records the tree through a Writer and returns the finished blob.
// Table keys are emitted in sorted order, so equal trees produce equal
// blobs. An empty root table cannot be recorded.
func (t *Tree) ToBlob() ([]byte, error) {
	w, err := NewWriter(uint32(t.root.Len()))
	if err != nil {
		return nil, err
	}
	if err := writeTreeTable(w, t.root); err != nil {
		return nil, err
	}
	return w.Finish()
}

// TreeValue is one mutable config value: a tagged union over the six
// kinds with owned payloads.
type TreeValue struct {
	typ ValueType
	b   bool
	i   int64
	f   float64
	s   string
	a   *TreeArray
	t   *TreeTable
}

// BoolValue returns a Bool tree value.
func BoolValue(value bool) TreeValue {
	return TreeValue{typ: TypeBool, b: value}
}

// I64Value returns an I64 tree value.
func I64Value(value int64) TreeValue {
	return TreeValue{typ: TypeI64, i: value}
}

// F64Value returns an F64 tree value.
func F64Value(value float64) TreeValue {
	return TreeValue{typ: TypeF64, f: value}
}

// StringValue returns a String tree value.
func StringValue(value string) TreeValue {
	return TreeValue{typ: TypeString, s: value}
}

// ArrayValue returns an Array tree value wrapping array.
func ArrayValue(array *TreeArray) TreeValue {
	return TreeValue{typ: TypeArray, a: array}
}

// TableValue returns a Table tree value wrapping table.
func TableValue(table *TreeTable) TreeValue {
	return TreeValue{typ: TypeTable, t: table}
}

// Type returns the value's kind.
func (v TreeValue) Type() ValueType {
	return v.typ
}

// Bool extracts the bool payload.
func (v TreeValue) Bool() (value, ok bool) {
	return v.b, v.typ == TypeBool
}

// I64 extracts a signed integer payload, truncating F64 values.
func (v TreeValue) I64() (value int64, ok bool) {
	switch v.typ {
	case TypeI64:
		return v.i, true
	case TypeF64:
		return int64(v.f), true
	default:
		return 0, false
	}
}

// F64 extracts a float payload, widening I64 values.
func (v TreeValue) F64() (value float64, ok bool) {
	switch v.typ {
	case TypeF64:
		return v.f, true
	case TypeI64:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// Str extracts the string payload.
func (v TreeValue) Str() (value string, ok bool) {
	return v.s, v.typ == TypeString
}

// Array extracts the array payload.
func (v TreeValue) Array() (value *TreeArray, ok bool) {
	return v.a, v.typ == TypeArray
}

// Table extracts the table payload.
func (v TreeValue) Table() (value *TreeTable, ok bool) {
	return v.t, v.typ == TypeTable
}

// TreeTable is a mutable string-keyed table. Keys are non-empty.
type TreeTable struct {
	items map[string]TreeValue
}

// NewTreeTable returns an empty table.
func NewTreeTable() *TreeTable {
	return &TreeTable{items: make(map[string]TreeValue)}
}

// Len returns the number of elements.
func (t *TreeTable) Len() int {
	return len(t.items)
}

// Set stores value under key, replacing any previous value.
// Empty keys are rejected.
func (t *TreeTable) Set(key string, value TreeValue) error {
	if key == "" {
		return &EmptyKeyError{}
	}
	t.items[key] = value
	return nil
}

// Get returns the value under key.
func (t *TreeTable) Get(key string) (TreeValue, error) {
	if key == "" {
		return TreeValue{}, &EmptyKeyError{}
	}
	v, ok := t.items[key]
	if !ok {
		return TreeValue{}, &KeyDoesNotExistError{}
	}
	return v, nil
}

// Contains reports whether key is present.
func (t *TreeTable) Contains(key string) bool {
	_, ok := t.items[key]
	return ok
}

// Remove deletes key and reports whether it was present.
func (t *TreeTable) Remove(key string) bool {
	_, ok := t.items[key]
	delete(t.items, key)
	return ok
}

// Keys returns the table's keys in sorted order.
func (t *TreeTable) Keys() []string {
	keys := make([]string, 0, len(t.items))
	for key := range t.items {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// TreeArray is a mutable ordered array. Element kinds are uniform under
// the same compatibility rule the writer enforces: identical kinds, or
// I64 and F64 mixed.
type TreeArray struct {
	items []TreeValue
}

// NewTreeArray returns an empty array.
func NewTreeArray() *TreeArray {
	return &TreeArray{}
}

// Len returns the number of elements.
func (a *TreeArray) Len() int {
	return len(a.items)
}

// Push appends value. Its kind must be compatible with the existing
// elements.
func (a *TreeArray) Push(value TreeValue) error {
	if len(a.items) > 0 {
		expected := a.items[0].typ
		if !format.Compatible(uint32(expected), uint32(value.typ)) {
			return &MixedArrayError{Expected: expected, Found: value.typ}
		}
	}
	a.items = append(a.items, value)
	return nil
}

// Pop removes and returns the last element. ok is false if the array is
// empty.
func (a *TreeArray) Pop() (value TreeValue, ok bool) {
	if len(a.items) == 0 {
		return TreeValue{}, false
	}
	last := a.items[len(a.items)-1]
	a.items = a.items[:len(a.items)-1]
	return last, true
}

// Get returns the element at index.
func (a *TreeArray) Get(index int) (TreeValue, error) {
	if index < 0 || index >= len(a.items) {
		return TreeValue{}, &IndexOutOfBoundsError{Len: uint32(len(a.items))}
	}
	return a.items[index], nil
}

// Set replaces the element at index. The new kind must stay compatible
// with the rest of the array.
func (a *TreeArray) Set(index int, value TreeValue) error {
	if index < 0 || index >= len(a.items) {
		return &IndexOutOfBoundsError{Len: uint32(len(a.items))}
	}
	for i, other := range a.items {
		if i == index {
			continue
		}
		if !format.Compatible(uint32(other.typ), uint32(value.typ)) {
			return &MixedArrayError{Expected: other.typ, Found: value.typ}
		}
	}
	a.items[index] = value
	return nil
}

// ToTree rebuilds a mutable tree from the config. All strings are copied
// out of the blob, so the tree does not borrow from it.
func (c *Config) ToTree() *Tree {
	tree := NewTree()
	tableToTree(c.Root(), tree.root)
	return tree
}

func tableToTree(src Table, dst *TreeTable) {
	it := src.Iter()
	for {
		key, v, ok := it.Next()
		if !ok {
			return
		}
		dst.items[strings.Clone(key)] = valueToTree(v)
	}
}

func valueToTree(v Value) TreeValue {
	switch v.typ {
	case TypeBool:
		return BoolValue(v.b)
	case TypeI64:
		return I64Value(v.i)
	case TypeF64:
		return F64Value(v.f)
	case TypeString:
		return StringValue(strings.Clone(v.s))
	case TypeArray:
		array := NewTreeArray()
		it := v.a.Iter()
		for {
			elem, ok := it.Next()
			if !ok {
				break
			}
			array.items = append(array.items, valueToTree(elem))
		}
		return ArrayValue(array)
	default:
		table := NewTreeTable()
		tableToTree(v.t, table)
		return TableValue(table)
	}
}

func writeTreeTable(w *Writer, t *TreeTable) error {
	for _, key := range t.Keys() {
		if err := writeTreeValue(w, key, t.items[key]); err != nil {
			return err
		}
	}
	return nil
}

func writeTreeValue(w *Writer, key string, v TreeValue) error {
	switch v.typ {
	case TypeBool:
		return w.Bool(key, v.b)
	case TypeI64:
		return w.I64(key, v.i)
	case TypeF64:
		return w.F64(key, v.f)
	case TypeString:
		return w.String(key, v.s)
	case TypeArray:
		if err := w.Array(key, uint32(v.a.Len())); err != nil {
			return err
		}
		for _, elem := range v.a.items {
			if err := writeTreeValue(w, "", elem); err != nil {
				return err
			}
		}
		return w.End()
	case TypeTable:
		if err := w.Table(key, uint32(v.t.Len())); err != nil {
			return err
		}
		if err := writeTreeTable(w, v.t); err != nil {
			return err
		}
		return w.End()
	default:
		return &IncorrectValueTypeError{Type: v.typ}
	}
}
