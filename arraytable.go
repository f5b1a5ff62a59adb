package bincfg

import (
	"math"
	"unsafe"

	"github.com/scigolib/bincfg/internal/format"
)

// arrayOrTable is the shared navigation primitive behind Array and Table:
// the whole validated blob, the key-table band, and this container's
// element range. Arrays and tables are the same on-blob shape and differ
// only in accessor semantics.
//
// All methods perform unchecked reads; validation (see Validate) has
// already established that every offset, length, index and string they
// will touch is in range.
type arrayOrTable struct {
	data        []byte
	keyTableOff uint32
	keyTableLen uint32
	// Offset of the first packed value slot; 0 when count is 0.
	off   uint32
	count uint32
}

func (at arrayOrTable) child(off, count uint32) arrayOrTable {
	return arrayOrTable{
		data:        at.data,
		keyTableOff: at.keyTableOff,
		keyTableLen: at.keyTableLen,
		off:         off,
		count:       count,
	}
}

// packedValue decodes the element slot at index. The caller ensures
// index < count.
func (at arrayOrTable) packedValue(index uint32) format.PackedValue {
	off := at.off + index*format.PackedValueSize
	return format.DecodePackedValue(at.data[off:])
}

// keyEntry decodes the key-table entry at index. The caller ensures
// index < keyTableLen.
func (at arrayOrTable) keyEntry(index uint32) format.KeyEntry {
	off := at.keyTableOff + index*format.KeyEntrySize
	return format.DecodeKeyEntry(at.data[off:])
}

// str returns a zero-copy string view over [off, off+n). The view is valid
// for the blob's lifetime; the blob is immutable once constructed.
func (at arrayOrTable) str(off, n uint32) string {
	if n == 0 {
		return ""
	}
	return unsafe.String(&at.data[off], int(n))
}

// key returns the key string of the table element at index.
func (at arrayOrTable) key(index uint32) string {
	entry := at.keyEntry(at.packedValue(index).KeyIndex())
	return at.str(entry.Offset, entry.Len)
}

// value unpacks the element at index into a Value. The caller ensures
// index < count.
func (at arrayOrTable) value(index uint32) Value {
	pv := at.packedValue(index)

	switch pv.Kind() {
	case format.KindBool:
		return Value{typ: TypeBool, b: pv.Payload == 1}
	case format.KindI64:
		return Value{typ: TypeI64, i: int64(pv.Payload)}
	case format.KindF64:
		return Value{typ: TypeF64, f: math.Float64frombits(pv.Payload)}
	case format.KindString:
		return Value{typ: TypeString, s: at.str(pv.Offset(), pv.Len())}
	case format.KindArray:
		return Value{typ: TypeArray, a: Array{at: at.child(pv.Offset(), pv.Len())}}
	default:
		return Value{typ: TypeTable, t: Table{at: at.child(pv.Offset(), pv.Len())}}
	}
}
