package bincfg

// Array is a zero-copy handle to an array within a validated blob.
// Handles are cheap to copy and must not outlive the blob.
type Array struct {
	at arrayOrTable
}

// Len returns the number of elements.
func (a Array) Len() uint32 {
	return a.at.count
}

// IsEmpty reports whether the array has no elements.
func (a Array) IsEmpty() bool {
	return a.at.count == 0
}

// Get returns the value at index, or an IndexOutOfBoundsError.
func (a Array) Get(index uint32) (Value, error) {
	if index >= a.at.count {
		return Value{}, &IndexOutOfBoundsError{Len: a.at.count}
	}
	return a.at.value(index), nil
}

// GetBool returns the Bool value at index.
func (a Array) GetBool(index uint32) (bool, error) {
	v, err := a.Get(index)
	if err != nil {
		return false, err
	}
	b, ok := v.Bool()
	if !ok {
		return false, &IncorrectValueTypeError{Type: v.typ}
	}
	return b, nil
}

// GetI64 returns the numeric value at index as an int64.
// F64 elements are truncated toward zero.
func (a Array) GetI64(index uint32) (int64, error) {
	v, err := a.Get(index)
	if err != nil {
		return 0, err
	}
	i, ok := v.I64()
	if !ok {
		return 0, &IncorrectValueTypeError{Type: v.typ}
	}
	return i, nil
}

// GetF64 returns the numeric value at index as a float64.
// I64 elements are widened.
func (a Array) GetF64(index uint32) (float64, error) {
	v, err := a.Get(index)
	if err != nil {
		return 0, err
	}
	f, ok := v.F64()
	if !ok {
		return 0, &IncorrectValueTypeError{Type: v.typ}
	}
	return f, nil
}

// GetString returns the String value at index as a zero-copy view.
func (a Array) GetString(index uint32) (string, error) {
	v, err := a.Get(index)
	if err != nil {
		return "", err
	}
	s, ok := v.Str()
	if !ok {
		return "", &IncorrectValueTypeError{Type: v.typ}
	}
	return s, nil
}

// GetArray returns the Array value at index.
func (a Array) GetArray(index uint32) (Array, error) {
	v, err := a.Get(index)
	if err != nil {
		return Array{}, err
	}
	nested, ok := v.Array()
	if !ok {
		return Array{}, &IncorrectValueTypeError{Type: v.typ}
	}
	return nested, nil
}

// GetTable returns the Table value at index.
func (a Array) GetTable(index uint32) (Table, error) {
	v, err := a.Get(index)
	if err != nil {
		return Table{}, err
	}
	t, ok := v.Table()
	if !ok {
		return Table{}, &IncorrectValueTypeError{Type: v.typ}
	}
	return t, nil
}

// Iter returns a lazy iterator over the array's values in stored order.
// The iterator is finite and not restartable.
func (a Array) Iter() *ArrayIter {
	return &ArrayIter{array: a}
}

// ArrayIter iterates over an array's values.
type ArrayIter struct {
	array Array
	index uint32
}

// Next returns the next value. ok is false once the array is exhausted.
func (it *ArrayIter) Next() (v Value, ok bool) {
	if it.index >= it.array.at.count {
		return Value{}, false
	}
	v = it.array.at.value(it.index)
	it.index++
	return v, true
}
