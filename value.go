package bincfg

// ValueType identifies the kind of a config value. The numeric values
// match the 4-bit kind codes stored in the blob.
type ValueType uint32

const (
	TypeInvalid ValueType = iota
	TypeBool
	TypeI64
	TypeF64
	TypeString
	TypeArray
	TypeTable
)

// String implements fmt.Stringer.
func (t ValueType) String() string {
	switch t {
	case TypeBool:
		return "Bool"
	case TypeI64:
		return "I64"
	case TypeF64:
		return "F64"
	case TypeString:
		return "String"
	case TypeArray:
		return "Array"
	case TypeTable:
		return "Table"
	default:
		return "Invalid"
	}
}

// Value is one config value: a tagged union over the six kinds.
// String, Array and Table payloads borrow the underlying blob and must not
// outlive it.
type Value struct {
	typ ValueType
	b   bool
	i   int64
	f   float64
	s   string
	a   Array
	t   Table
}

// Type returns the value's kind.
func (v Value) Type() ValueType {
	return v.typ
}

// Bool extracts the bool payload. ok is false if the value is not a Bool.
func (v Value) Bool() (value, ok bool) {
	return v.b, v.typ == TypeBool
}

// I64 extracts a signed integer payload. F64 values are truncated toward
// zero. ok is false if the value is neither an I64 nor an F64.
func (v Value) I64() (value int64, ok bool) {
	switch v.typ {
	case TypeI64:
		return v.i, true
	case TypeF64:
		return int64(v.f), true
	default:
		return 0, false
	}
}

// F64 extracts a float payload. I64 values are widened. ok is false if the
// value is neither an F64 nor an I64.
func (v Value) F64() (value float64, ok bool) {
	switch v.typ {
	case TypeF64:
		return v.f, true
	case TypeI64:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// Str extracts the string payload, a zero-copy view into the blob.
// ok is false if the value is not a String.
func (v Value) Str() (value string, ok bool) {
	return v.s, v.typ == TypeString
}

// Array extracts the array handle. ok is false if the value is not an Array.
func (v Value) Array() (value Array, ok bool) {
	return v.a, v.typ == TypeArray
}

// Table extracts the table handle. ok is false if the value is not a Table.
func (v Value) Table() (value Table, ok bool) {
	return v.t, v.typ == TypeTable
}
