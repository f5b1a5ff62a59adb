package bincfg

import (
	"unicode/utf8"

	"github.com/scigolib/bincfg/internal/format"
)

// Validate decides whether data is a well-formed binary config data blob.
// It returns nil only if every structural invariant of the format holds;
// the readers may then navigate the blob without further checks.
//
// Validation is a single pass over the structure and allocates nothing
// beyond the call stack, apart from the error it returns on failure. It
// never mutates data. All failures wrap
// ErrInvalidBinaryConfigData.
func Validate(data []byte) error {
	// Smallest possible blob: header, one packed value, one key-table
	// entry, one key byte and its NUL terminator.
	if len(data) < format.MinSize {
		return invalidf("data too small (%d bytes)", len(data))
	}
	if uint64(len(data)) > format.MaxSize {
		return invalidf("data too large (%d bytes)", len(data))
	}
	if !format.CheckMagic(data) {
		return invalidf("bad header magic")
	}

	h := format.DecodeHeader(data)
	if h.RootLen == 0 {
		return invalidf("empty root table")
	}
	if h.KeyTableLen == 0 {
		return invalidf("empty key table")
	}

	// All range arithmetic below is done in uint64 so u32 products and
	// sums cannot wrap.
	blobLen := uint64(len(data))
	keyTableStart := uint64(h.KeyTableOffset)
	keyTableSize := uint64(h.KeyTableLen) * format.KeyEntrySize

	// The key table comes after the header and at least one packed value,
	// and leaves room for the shortest possible string section.
	if keyTableStart < format.HeaderSize+format.PackedValueSize ||
		keyTableStart+keyTableSize > blobLen-format.MinStringSectionSize {
		return invalidf("key table out of range")
	}

	v := &validator{
		data:        data,
		blobLen:     blobLen,
		keyTableOff: keyTableStart,
		keyTableLen: uint64(h.KeyTableLen),
		valueEnd:    blobLen - format.MinStringSectionSize - keyTableSize,
		stringStart: keyTableStart + keyTableSize,
	}

	// Root table slots follow the header directly.
	rootEnd := uint64(format.HeaderSize) + uint64(h.RootLen)*format.PackedValueSize
	if rootEnd > v.valueEnd {
		return invalidf("root table out of range")
	}

	return v.container(format.HeaderSize, uint64(h.RootLen), true)
}

type validator struct {
	data    []byte
	blobLen uint64

	keyTableOff uint64
	keyTableLen uint64

	// valueEnd is the exclusive upper bound for packed value slots: the
	// blob length minus the key table and the shortest string section.
	valueEnd uint64
	// stringStart is the inclusive lower bound for string data: the first
	// byte past the key table.
	stringStart uint64
}

// container validates the count packed values at off, recursing into
// nested arrays and tables. isTable selects key checks (tables) versus
// key-absence and kind-uniformity checks (arrays).
func (v *validator) container(off, count uint64, isTable bool) error {
	// Nested containers' data must lie past this container's own slots;
	// the watermark advances as children claim their slot regions, so
	// sibling regions cannot overlap.
	watermark := off + count*format.PackedValueSize

	elemKind := format.KindInvalid

	for i := uint64(0); i < count; i++ {
		pv := format.DecodePackedValue(v.data[off+i*format.PackedValueSize:])

		kind := pv.Kind()
		if !format.KindValid(kind) {
			return invalidf("invalid value kind %d", kind)
		}

		if isTable {
			if err := v.tableKey(pv); err != nil {
				return err
			}
		} else {
			// Array elements carry no key.
			if pv.KeyIndex() != 0 || pv.KeyHash != 0 {
				return invalidf("array element has key fields")
			}
			// The first element's kind sets the array's kind.
			if elemKind != format.KindInvalid && !format.Compatible(elemKind, kind) {
				return invalidf("mixed value kinds in array")
			}
			elemKind = kind
		}

		switch kind {
		case format.KindBool:
			if pv.Payload > 1 {
				return invalidf("boolean payload is %d", pv.Payload)
			}

		case format.KindI64, format.KindF64:
			// Any bit pattern is a valid i64/f64.

		case format.KindString:
			if err := v.stringData(pv.Offset(), pv.Len()); err != nil {
				return err
			}

		case format.KindArray, format.KindTable:
			childOff := uint64(pv.Offset())
			childCount := uint64(pv.Len())

			if childCount == 0 {
				if childOff != 0 {
					return invalidf("empty container has a data offset")
				}
				continue
			}

			childSize := childCount * format.PackedValueSize
			if childOff < watermark || childOff+childSize > v.valueEnd {
				return invalidf("container elements out of range")
			}
			if err := v.container(childOff, childCount, kind == format.KindTable); err != nil {
				return err
			}
			watermark += childSize
		}
	}

	return nil
}

// tableKey validates a table element's key: index in range, referenced
// string non-empty, in the string band, NUL-terminated, valid UTF-8, and
// matching the persisted hash.
func (v *validator) tableKey(pv format.PackedValue) error {
	index := uint64(pv.KeyIndex())
	if index >= v.keyTableLen {
		return invalidf("key index %d out of range", index)
	}

	entry := format.DecodeKeyEntry(v.data[v.keyTableOff+index*format.KeyEntrySize:])
	if entry.Len == 0 {
		return invalidf("empty table key string")
	}

	off, n := uint64(entry.Offset), uint64(entry.Len)
	if off < v.stringStart || off+n+1 > v.blobLen {
		return invalidf("key string out of range")
	}
	if v.data[off+n] != 0 {
		return invalidf("key string is not NUL-terminated")
	}

	key := v.data[off : off+n]
	if !utf8.Valid(key) {
		return invalidf("key string is not valid UTF-8")
	}
	if format.HashBytes(key) != pv.KeyHash {
		return invalidf("key hash mismatch")
	}

	return nil
}

// stringData validates a string value payload: zero offset when empty,
// otherwise in the string band, NUL-terminated and valid UTF-8.
func (v *validator) stringData(offset, length uint32) error {
	if length == 0 {
		if offset != 0 {
			return invalidf("empty string has a data offset")
		}
		return nil
	}

	off, n := uint64(offset), uint64(length)
	if off < v.stringStart || off+n+1 > v.blobLen {
		return invalidf("string out of range")
	}
	if v.data[off+n] != 0 {
		return invalidf("string is not NUL-terminated")
	}
	if !utf8.Valid(v.data[off : off+n]) {
		return invalidf("string is not valid UTF-8")
	}

	return nil
}
