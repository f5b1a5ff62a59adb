package bincfg

import "github.com/scigolib/bincfg/internal/format"

// Writer records a binary config as a depth-first sequence of operations
// and emits the finished data blob.
//
// A Writer is created with the root table's element count. Leaf values are
// written with Bool, I64, F64 and String; nested containers are opened
// with Array and Table, filled by the following calls, and closed with
// End. Finish closes the root table and returns the blob.
//
// Table elements (including the root's) require a non-empty string key;
// array elements take an empty key. Each container must receive exactly
// the number of elements it declared.
//
// A Writer is not safe for concurrent use and must not be used after
// Finish.
type Writer struct {
	// dataOffset is the allocation cursor: the blob offset where the next
	// container's value slots, and finally the key table, will be placed.
	dataOffset uint32

	// buf holds the header and all packed value slots.
	buf []byte

	// Interned strings by hash. Offsets are relative to the string
	// section during recording and fixed up to blob offsets at Finish.
	strings   map[uint32][]internedString
	stringBuf []byte

	// The key table under construction, and the index assigned to each
	// interned key string.
	keyEntries []format.KeyEntry
	keyIndex   map[internedString]uint32

	// LIFO stack of the root table and any open nested containers.
	stack []openContainer
}

// internedString locates one unique string in the string section.
type internedString struct {
	offset uint32
	len    uint32
}

// openContainer is the bookkeeping record for one currently-open
// array or table.
type openContainer struct {
	table    bool
	declared uint32
	filled   uint32

	// Blob offset of the next element slot.
	valueOffset uint32

	// Tables: interned key records by hash, for duplicate detection.
	keys map[uint32][]internedString

	// Arrays: the established element kind, KindInvalid until the first
	// element is written.
	elemKind uint32
}

// tableKey is a table element's persisted key fields. Array elements use
// the zero value.
type tableKey struct {
	hash  uint32
	index uint32
}

// NewWriter begins recording a config whose root table has rootLen
// elements. Empty root tables are not supported.
func NewWriter(rootLen uint32) (*Writer, error) {
	if rootLen == 0 {
		return nil, ErrEmptyRootTable
	}

	w := &Writer{
		strings:  make(map[uint32][]internedString),
		keyIndex: make(map[internedString]uint32),
	}

	// Reserve the header; the key-table fields are patched at Finish.
	w.buf = make([]byte, format.HeaderSize, format.HeaderSize+rootLen*format.PackedValueSize)
	format.Header{RootLen: rootLen}.Encode(w.buf)
	w.dataOffset = format.HeaderSize

	// The root table's slots follow the header directly.
	w.stack = append(w.stack, openContainer{
		table:       true,
		declared:    rootLen,
		valueOffset: w.dataOffset,
		keys:        make(map[uint32][]internedString),
	})
	w.grow(rootLen)

	return w, nil
}

// Bool writes a bool value into the currently open container.
func (w *Writer) Bool(key string, value bool) error {
	k, offset, err := w.keyAndValueOffset(key, TypeBool)
	if err != nil {
		return err
	}
	w.emit(format.NewBool(k.index, k.hash, value), offset)
	return nil
}

// I64 writes an int64 value into the currently open container.
func (w *Writer) I64(key string, value int64) error {
	k, offset, err := w.keyAndValueOffset(key, TypeI64)
	if err != nil {
		return err
	}
	w.emit(format.NewI64(k.index, k.hash, value), offset)
	return nil
}

// F64 writes a float64 value into the currently open container.
func (w *Writer) F64(key string, value float64) error {
	k, offset, err := w.keyAndValueOffset(key, TypeF64)
	if err != nil {
		return err
	}
	w.emit(format.NewF64(k.index, k.hash, value), offset)
	return nil
}

// String writes a string value into the currently open container.
// The string is interned: repeated values are stored once.
func (w *Writer) String(key, value string) error {
	k, offset, err := w.keyAndValueOffset(key, TypeString)
	if err != nil {
		return err
	}

	var s internedString
	if len(value) > 0 {
		s = w.intern(value)
	}
	w.emit(format.NewString(k.index, k.hash, s.offset, s.len), offset)
	return nil
}

// Array opens an array of length elements in the currently open container
// and makes it the target of the next length calls. End must be called
// after the last element.
func (w *Writer) Array(key string, length uint32) error {
	return w.arrayOrTable(key, length, false)
}

// Table opens a table of length elements in the currently open container
// and makes it the target of the next length calls. End must be called
// after the last element.
func (w *Writer) Table(key string, length uint32) error {
	return w.arrayOrTable(key, length, true)
}

// End closes the innermost open container. The container must have
// received exactly its declared number of elements.
func (w *Writer) End() error {
	// The root table is closed by Finish, not End.
	if len(w.stack) < 2 {
		return ErrEndCallMismatch
	}

	top := &w.stack[len(w.stack)-1]
	if top.filled != top.declared {
		return &LengthMismatchError{Expected: top.declared, Found: top.filled}
	}

	w.stack = w.stack[:len(w.stack)-1]
	return nil
}

// Finish consumes the writer and returns the finished blob. All nested
// containers must have been closed and the root table must be full.
func (w *Writer) Finish() ([]byte, error) {
	if len(w.stack) > 1 {
		return nil, &UnfinishedError{Count: uint32(len(w.stack) - 1)}
	}

	root := w.stack[0]
	if root.filled < root.declared {
		return nil, &LengthMismatchError{Expected: root.declared, Found: root.filled}
	}

	// Append the key table, then the string section.
	keyTableOffset := w.dataOffset
	var entryBuf [format.KeyEntrySize]byte
	for _, entry := range w.keyEntries {
		entry.Encode(entryBuf[:])
		w.buf = append(w.buf, entryBuf[:]...)
	}

	stringBase := keyTableOffset + uint32(len(w.keyEntries))*format.KeyEntrySize
	data := append(w.buf, w.stringBuf...)

	// Patch the header now that the key table is placed.
	format.Header{
		RootLen:        root.declared,
		KeyTableOffset: keyTableOffset,
		KeyTableLen:    uint32(len(w.keyEntries)),
	}.Encode(data)

	// Fix up the section-relative string offsets to blob offsets, now
	// that the string section's base is known.
	fixupStringOffsets(data, format.HeaderSize, root.declared, stringBase)
	for i := range w.keyEntries {
		off := keyTableOffset + uint32(i)*format.KeyEntrySize
		entry := format.DecodeKeyEntry(data[off:])
		entry.Offset += stringBase
		entry.Encode(data[off:])
	}

	w.stack = nil
	w.buf = nil
	w.stringBuf = nil

	return data, nil
}

// grow extends the value buffer with count zeroed slots and advances the
// allocation cursor past them.
func (w *Writer) grow(count uint32) {
	w.buf = append(w.buf, make([]byte, count*format.PackedValueSize)...)
	w.dataOffset += count * format.PackedValueSize
}

func (w *Writer) arrayOrTable(key string, length uint32, table bool) error {
	typ := TypeArray
	kind := format.KindArray
	if table {
		typ = TypeTable
		kind = format.KindTable
	}

	k, offset, err := w.keyAndValueOffset(key, typ)
	if err != nil {
		return err
	}

	// The container's elements are allocated at the current cursor; the
	// parent slot records that offset and the declared length.
	w.emit(format.NewContainer(kind, k.index, k.hash, w.dataOffset, length), offset)

	child := openContainer{
		table:       table,
		declared:    length,
		valueOffset: w.dataOffset,
	}
	if table {
		child.keys = make(map[uint32][]internedString)
	}
	w.stack = append(w.stack, child)
	w.grow(length)

	return nil
}

// keyAndValueOffset checks the currently open container can accept one
// more element of the given kind, resolves the element's key fields, and
// returns the blob offset of the element's slot. On error the writer's
// state is unchanged.
func (w *Writer) keyAndValueOffset(key string, typ ValueType) (tableKey, uint32, error) {
	parent := &w.stack[len(w.stack)-1]

	if parent.filled >= parent.declared {
		return tableKey{}, 0, &LengthMismatchError{
			Expected: parent.declared,
			Found:    parent.filled + 1,
		}
	}

	if !parent.table {
		if key != "" {
			return tableKey{}, 0, ErrArrayKeyNotRequired
		}
		kind := uint32(typ)
		if parent.elemKind != format.KindInvalid && !format.Compatible(parent.elemKind, kind) {
			return tableKey{}, 0, &MixedArrayError{
				Expected: ValueType(parent.elemKind),
				Found:    typ,
			}
		}
		parent.elemKind = kind
		return tableKey{}, parent.valueOffset, nil
	}

	if key == "" {
		return tableKey{}, 0, ErrTableKeyRequired
	}
	k, err := w.internKey(parent, key)
	if err != nil {
		return tableKey{}, 0, err
	}
	return k, parent.valueOffset, nil
}

// internKey interns the key string, assigns its key-table index, and
// checks uniqueness within the parent table by full string comparison, so
// hash collisions between distinct keys are permitted.
func (w *Writer) internKey(parent *openContainer, key string) (tableKey, error) {
	hash := format.StringHash(key)
	s := w.internWithHash(key, hash)

	bucket := parent.keys[hash]
	for _, prev := range bucket {
		if prev == s {
			return tableKey{}, ErrNonUniqueKey
		}
	}
	parent.keys[hash] = append(bucket, s)

	index, ok := w.keyIndex[s]
	if !ok {
		index = uint32(len(w.keyEntries))
		w.keyEntries = append(w.keyEntries, format.KeyEntry{Offset: s.offset, Len: s.len})
		w.keyIndex[s] = index
	}

	return tableKey{hash: hash, index: index}, nil
}

// intern returns the section record for the string, writing it (with a
// trailing NUL) only if no equal string was interned before.
func (w *Writer) intern(s string) internedString {
	return w.internWithHash(s, format.StringHash(s))
}

func (w *Writer) internWithHash(s string, hash uint32) internedString {
	bucket := w.strings[hash]
	for _, entry := range bucket {
		// Hashes collide; the bytes decide.
		if string(w.stringBuf[entry.offset:entry.offset+entry.len]) == s {
			return entry
		}
	}

	entry := internedString{offset: uint32(len(w.stringBuf)), len: uint32(len(s))}
	w.stringBuf = append(w.stringBuf, s...)
	w.stringBuf = append(w.stringBuf, 0)
	w.strings[hash] = append(bucket, entry)

	return entry
}

// emit writes the packed value into its slot and advances the parent's
// fill count and slot cursor. The caller has verified the parent is not
// full.
func (w *Writer) emit(pv format.PackedValue, offset uint32) {
	pv.Encode(w.buf[offset:])

	parent := &w.stack[len(w.stack)-1]
	parent.filled++
	parent.valueOffset += format.PackedValueSize
}

// fixupStringOffsets walks the count packed values at off depth-first and
// adds base to the offset of every non-empty string value, converting
// section-relative offsets to blob offsets.
func fixupStringOffsets(data []byte, off, count, base uint32) {
	for i := uint32(0); i < count; i++ {
		slot := off + i*format.PackedValueSize
		pv := format.DecodePackedValue(data[slot:])

		switch pv.Kind() {
		case format.KindString:
			if pv.Len() > 0 {
				pv.SetOffset(pv.Offset() + base)
				pv.Encode(data[slot:])
			}
		case format.KindArray, format.KindTable:
			if pv.Len() > 0 {
				fixupStringOffsets(data, pv.Offset(), pv.Len(), base)
			}
		}
	}
}
