package bincfg

import "github.com/scigolib/bincfg/internal/format"

// Table is a zero-copy handle to a table within a validated blob.
// Handles are cheap to copy and must not outlive the blob.
type Table struct {
	at arrayOrTable
}

// Len returns the number of elements.
func (t Table) Len() uint32 {
	return t.at.count
}

// IsEmpty reports whether the table has no elements.
func (t Table) IsEmpty() bool {
	return t.at.count == 0
}

// Contains reports whether the table has an element under key.
// An empty key is never contained.
func (t Table) Contains(key string) bool {
	if key == "" {
		return false
	}
	_, err := t.GetHashed(key, format.StringHash(key))
	return err == nil
}

// Get returns the value under key, or an EmptyKeyError or
// KeyDoesNotExistError.
func (t Table) Get(key string) (Value, error) {
	if key == "" {
		return Value{}, &EmptyKeyError{}
	}
	return t.GetHashed(key, format.StringHash(key))
}

// GetHashed is Get for callers that already know the FNV-1a hash of key,
// skipping the re-hash. The caller guarantees keyHash is the hash of key.
func (t Table) GetHashed(key string, keyHash uint32) (Value, error) {
	if key == "" {
		return Value{}, &EmptyKeyError{}
	}

	// Linear scan: the persisted hash filters candidates, the string
	// bytes decide, so colliding keys still resolve correctly.
	for i := uint32(0); i < t.at.count; i++ {
		pv := t.at.packedValue(i)
		if pv.KeyHash != keyHash {
			continue
		}
		if t.at.key(i) == key {
			return t.at.value(i), nil
		}
	}
	return Value{}, &KeyDoesNotExistError{}
}

// GetBool returns the Bool value under key.
func (t Table) GetBool(key string) (bool, error) {
	v, err := t.Get(key)
	if err != nil {
		return false, err
	}
	b, ok := v.Bool()
	if !ok {
		return false, &IncorrectValueTypeError{Type: v.typ}
	}
	return b, nil
}

// GetI64 returns the numeric value under key as an int64.
// F64 values are truncated toward zero.
func (t Table) GetI64(key string) (int64, error) {
	v, err := t.Get(key)
	if err != nil {
		return 0, err
	}
	i, ok := v.I64()
	if !ok {
		return 0, &IncorrectValueTypeError{Type: v.typ}
	}
	return i, nil
}

// GetF64 returns the numeric value under key as a float64.
// I64 values are widened.
func (t Table) GetF64(key string) (float64, error) {
	v, err := t.Get(key)
	if err != nil {
		return 0, err
	}
	f, ok := v.F64()
	if !ok {
		return 0, &IncorrectValueTypeError{Type: v.typ}
	}
	return f, nil
}

// GetString returns the String value under key as a zero-copy view.
func (t Table) GetString(key string) (string, error) {
	v, err := t.Get(key)
	if err != nil {
		return "", err
	}
	s, ok := v.Str()
	if !ok {
		return "", &IncorrectValueTypeError{Type: v.typ}
	}
	return s, nil
}

// GetArray returns the Array value under key.
func (t Table) GetArray(key string) (Array, error) {
	v, err := t.Get(key)
	if err != nil {
		return Array{}, err
	}
	a, ok := v.Array()
	if !ok {
		return Array{}, &IncorrectValueTypeError{Type: v.typ}
	}
	return a, nil
}

// GetTable returns the Table value under key.
func (t Table) GetTable(key string) (Table, error) {
	v, err := t.Get(key)
	if err != nil {
		return Table{}, err
	}
	nested, ok := v.Table()
	if !ok {
		return Table{}, &IncorrectValueTypeError{Type: v.typ}
	}
	return nested, nil
}

// Iter returns a lazy iterator over the table's (key, value) pairs in
// stored order. The order is stable for a given blob but otherwise
// unspecified. The iterator is finite and not restartable.
func (t Table) Iter() *TableIter {
	return &TableIter{table: t}
}

// TableIter iterates over a table's (key, value) pairs.
type TableIter struct {
	table Table
	index uint32
}

// Next returns the next pair. ok is false once the table is exhausted.
// The key is a zero-copy view into the blob.
func (it *TableIter) Next() (key string, v Value, ok bool) {
	if it.index >= it.table.at.count {
		return "", Value{}, false
	}
	key = it.table.at.key(it.index)
	v = it.table.at.value(it.index)
	it.index++
	return key, v, true
}
