// Package format defines the bit-exact layout of the binary config data
// blob: the header, the 16-byte packed values, the key-table entries and
// the layout constants shared by the writer, the validator and the readers.
// All multi-byte fields are little-endian.
package format

import (
	"encoding/binary"
	"math"
)

// Magic is the header sentinel, "bcfg" read as a little-endian u32.
const Magic uint32 = 0x67666362

// Fixed structure sizes in bytes.
const (
	HeaderSize      = 16
	PackedValueSize = 16
	KeyEntrySize    = 8

	// MinStringSectionSize is one key byte plus its NUL terminator.
	MinStringSectionSize = 2

	// MinSize is the smallest possible blob: header, one packed value,
	// one key-table entry, one key byte and its NUL terminator.
	MinSize = HeaderSize + PackedValueSize + KeyEntrySize + MinStringSectionSize

	// MaxSize bounds the whole blob, since all offsets are u32.
	MaxSize = math.MaxUint32
)

// type_and_key_index bit layout:
//
//	|-- kind --|------- key index -------|
//	|- 4 bits -|-------- 28 bits --------|
const (
	KeyIndexBits = 28
	KeyIndexMask = (1 << KeyIndexBits) - 1

	// MaxKeyIndex bounds the number of unique key strings per blob.
	MaxKeyIndex = KeyIndexMask
)

// Kind codes stored in the upper 4 bits of type_and_key_index.
// 0 is reserved as invalid.
const (
	KindInvalid uint32 = iota
	KindBool
	KindI64
	KindF64
	KindString
	KindArray
	KindTable
)

// KindValid reports whether code is one of the six value kinds.
func KindValid(code uint32) bool {
	return code >= KindBool && code <= KindTable
}

// Compatible reports whether a value of kind found may appear in an array
// whose kind was established as expected. Identical kinds are compatible,
// and I64 and F64 are mutually compatible.
func Compatible(expected, found uint32) bool {
	if expected == found {
		return true
	}
	return (expected == KindI64 || expected == KindF64) &&
		(found == KindI64 || found == KindF64)
}

// Header is the decoded form of the 16-byte blob header.
type Header struct {
	RootLen        uint32
	KeyTableOffset uint32
	KeyTableLen    uint32
}

// CheckMagic reports whether data begins with the header magic.
// The caller ensures len(data) >= 4.
func CheckMagic(data []byte) bool {
	return binary.LittleEndian.Uint32(data) == Magic
}

// DecodeHeader decodes the header fields following the magic.
// The caller ensures len(data) >= HeaderSize.
func DecodeHeader(data []byte) Header {
	return Header{
		RootLen:        binary.LittleEndian.Uint32(data[4:]),
		KeyTableOffset: binary.LittleEndian.Uint32(data[8:]),
		KeyTableLen:    binary.LittleEndian.Uint32(data[12:]),
	}
}

// Encode writes the magic and the header fields into data.
// The caller ensures len(data) >= HeaderSize.
func (h Header) Encode(data []byte) {
	binary.LittleEndian.PutUint32(data, Magic)
	binary.LittleEndian.PutUint32(data[4:], h.RootLen)
	binary.LittleEndian.PutUint32(data[8:], h.KeyTableOffset)
	binary.LittleEndian.PutUint32(data[12:], h.KeyTableLen)
}

// PackedValue is the decoded form of one 16-byte value slot.
//
// Payload meaning depends on the kind: Bool stores 0 or 1, I64 the
// two's-complement bit pattern, F64 the IEEE-754 bit pattern; String,
// Array and Table store the data offset in the upper 32 bits and the
// length (bytes for strings, elements for containers) in the lower 32.
type PackedValue struct {
	TypeAndKeyIndex uint32
	KeyHash         uint32
	Payload         uint64
}

// DecodePackedValue decodes the 16-byte slot at the start of data.
// The caller ensures len(data) >= PackedValueSize.
func DecodePackedValue(data []byte) PackedValue {
	return PackedValue{
		TypeAndKeyIndex: binary.LittleEndian.Uint32(data),
		KeyHash:         binary.LittleEndian.Uint32(data[4:]),
		Payload:         binary.LittleEndian.Uint64(data[8:]),
	}
}

// Encode writes the packed value into data.
// The caller ensures len(data) >= PackedValueSize.
func (v PackedValue) Encode(data []byte) {
	binary.LittleEndian.PutUint32(data, v.TypeAndKeyIndex)
	binary.LittleEndian.PutUint32(data[4:], v.KeyHash)
	binary.LittleEndian.PutUint64(data[8:], v.Payload)
}

// Kind returns the 4-bit kind code.
func (v PackedValue) Kind() uint32 {
	return v.TypeAndKeyIndex >> KeyIndexBits
}

// KeyIndex returns the 28-bit key-table index. It is 0 for array elements.
func (v PackedValue) KeyIndex() uint32 {
	return v.TypeAndKeyIndex & KeyIndexMask
}

// Offset returns the data offset of a String/Array/Table payload.
func (v PackedValue) Offset() uint32 {
	return uint32(v.Payload >> 32)
}

// Len returns the length of a String/Array/Table payload.
func (v PackedValue) Len() uint32 {
	return uint32(v.Payload)
}

// SetOffset replaces the offset half of the payload, keeping the length.
func (v *PackedValue) SetOffset(offset uint32) {
	v.Payload = uint64(offset)<<32 | v.Payload&math.MaxUint32
}

func packType(kind, keyIndex uint32) uint32 {
	return kind<<KeyIndexBits | keyIndex&KeyIndexMask
}

// NewBool builds a packed Bool value.
func NewBool(keyIndex, keyHash uint32, value bool) PackedValue {
	var payload uint64
	if value {
		payload = 1
	}
	return PackedValue{packType(KindBool, keyIndex), keyHash, payload}
}

// NewI64 builds a packed I64 value.
func NewI64(keyIndex, keyHash uint32, value int64) PackedValue {
	return PackedValue{packType(KindI64, keyIndex), keyHash, uint64(value)}
}

// NewF64 builds a packed F64 value.
func NewF64(keyIndex, keyHash uint32, value float64) PackedValue {
	return PackedValue{packType(KindF64, keyIndex), keyHash, math.Float64bits(value)}
}

// NewString builds a packed String value. Zero-length strings carry a
// zero offset.
func NewString(keyIndex, keyHash, offset, length uint32) PackedValue {
	if length == 0 {
		offset = 0
	}
	return PackedValue{packType(KindString, keyIndex), keyHash, uint64(offset)<<32 | uint64(length)}
}

// NewContainer builds a packed Array or Table value. Empty containers
// carry a zero offset.
func NewContainer(kind, keyIndex, keyHash, offset, length uint32) PackedValue {
	if length == 0 {
		offset = 0
	}
	return PackedValue{packType(kind, keyIndex), keyHash, uint64(offset)<<32 | uint64(length)}
}

// KeyEntry locates one interned key string within the blob: the string's
// byte offset and its length, excluding the trailing NUL.
type KeyEntry struct {
	Offset uint32
	Len    uint32
}

// DecodeKeyEntry decodes the 8-byte entry at the start of data.
// The caller ensures len(data) >= KeyEntrySize.
func DecodeKeyEntry(data []byte) KeyEntry {
	return KeyEntry{
		Offset: binary.LittleEndian.Uint32(data),
		Len:    binary.LittleEndian.Uint32(data[4:]),
	}
}

// Encode writes the key entry into data.
// The caller ensures len(data) >= KeyEntrySize.
func (e KeyEntry) Encode(data []byte) {
	binary.LittleEndian.PutUint32(data, e.Offset)
	binary.LittleEndian.PutUint32(data[4:], e.Len)
}
