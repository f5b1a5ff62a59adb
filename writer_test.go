package bincfg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriterEmptyRootTable(t *testing.T) {
	_, err := NewWriter(0)
	require.ErrorIs(t, err, ErrEmptyRootTable)

	// But this works.
	w, err := NewWriter(1)
	require.NoError(t, err)
	require.NotNil(t, w)
}

func TestWriterTableKeyRequired(t *testing.T) {
	w, err := NewWriter(1)
	require.NoError(t, err)

	require.ErrorIs(t, w.Bool("", true), ErrTableKeyRequired)

	// But this works.
	require.NoError(t, w.Bool("bool", true))
}

func TestWriterArrayKeyNotRequired(t *testing.T) {
	w, err := NewWriter(1)
	require.NoError(t, err)
	require.NoError(t, w.Array("array", 1))

	require.ErrorIs(t, w.Bool("bool", true), ErrArrayKeyNotRequired)

	// But this works.
	require.NoError(t, w.Bool("", true))
}

func TestWriterMixedArray(t *testing.T) {
	w, err := NewWriter(1)
	require.NoError(t, err)
	require.NoError(t, w.Array("array", 2))
	require.NoError(t, w.Bool("", true))

	var mixed *MixedArrayError
	require.ErrorAs(t, w.I64("", 7), &mixed)
	require.Equal(t, TypeBool, mixed.Expected)
	require.Equal(t, TypeI64, mixed.Found)

	// But this works.
	require.NoError(t, w.Bool("", false))
}

func TestWriterNumericArrayCompatibility(t *testing.T) {
	// I64 and F64 may mix in either order.
	w, err := NewWriter(1)
	require.NoError(t, err)
	require.NoError(t, w.Array("array", 3))
	require.NoError(t, w.I64("", 54))
	require.NoError(t, w.F64("", 3.14))
	require.NoError(t, w.I64("", -1))
	require.NoError(t, w.End())

	_, err = w.Finish()
	require.NoError(t, err)
}

func TestWriterNonUniqueKey(t *testing.T) {
	w, err := NewWriter(2)
	require.NoError(t, err)
	require.NoError(t, w.Bool("bool", true))

	require.ErrorIs(t, w.Bool("bool", true), ErrNonUniqueKey)

	// But this works.
	require.NoError(t, w.Bool("other_bool", false))
}

func TestWriterSameKeyInDifferentTables(t *testing.T) {
	// Keys must be unique per table, not per config.
	w, err := NewWriter(2)
	require.NoError(t, err)
	require.NoError(t, w.Bool("foo", true))
	require.NoError(t, w.Table("table", 1))
	require.NoError(t, w.Bool("foo", false))
	require.NoError(t, w.End())

	_, err = w.Finish()
	require.NoError(t, err)
}

func TestWriterLengthMismatch(t *testing.T) {
	t.Run("underflow root table", func(t *testing.T) {
		w, err := NewWriter(1)
		require.NoError(t, err)

		_, err = w.Finish()
		var mismatch *LengthMismatchError
		require.ErrorAs(t, err, &mismatch)
		require.Equal(t, uint32(1), mismatch.Expected)
		require.Equal(t, uint32(0), mismatch.Found)
	})

	t.Run("overflow root table", func(t *testing.T) {
		w, err := NewWriter(1)
		require.NoError(t, err)
		require.NoError(t, w.Bool("bool_0", true))

		var mismatch *LengthMismatchError
		require.ErrorAs(t, w.Bool("bool_1", true), &mismatch)
		require.Equal(t, uint32(1), mismatch.Expected)
		require.Equal(t, uint32(2), mismatch.Found)

		// But this works.
		_, err = w.Finish()
		require.NoError(t, err)
	})

	t.Run("underflow nested table", func(t *testing.T) {
		w, err := NewWriter(1)
		require.NoError(t, err)
		require.NoError(t, w.Table("table", 2))
		require.NoError(t, w.Bool("bool_0", true))

		var mismatch *LengthMismatchError
		require.ErrorAs(t, w.End(), &mismatch)
		require.Equal(t, uint32(2), mismatch.Expected)
		require.Equal(t, uint32(1), mismatch.Found)

		// But this works.
		require.NoError(t, w.Bool("bool_1", false))
		require.NoError(t, w.End())
		_, err = w.Finish()
		require.NoError(t, err)
	})

	t.Run("overflow nested array", func(t *testing.T) {
		w, err := NewWriter(1)
		require.NoError(t, err)
		require.NoError(t, w.Array("array", 1))
		require.NoError(t, w.Bool("", true))

		var mismatch *LengthMismatchError
		require.ErrorAs(t, w.Bool("", true), &mismatch)
		require.Equal(t, uint32(1), mismatch.Expected)
		require.Equal(t, uint32(2), mismatch.Found)

		// But this works.
		require.NoError(t, w.End())
		_, err = w.Finish()
		require.NoError(t, err)
	})
}

func TestWriterEndCallMismatch(t *testing.T) {
	w, err := NewWriter(1)
	require.NoError(t, err)
	require.NoError(t, w.Bool("bool", true))

	require.ErrorIs(t, w.End(), ErrEndCallMismatch)

	// But this works.
	_, err = w.Finish()
	require.NoError(t, err)

	// Empty nested containers still need End.
	w, err = NewWriter(1)
	require.NoError(t, err)
	require.NoError(t, w.Array("array", 0))
	require.NoError(t, w.End())
	_, err = w.Finish()
	require.NoError(t, err)
}

func TestWriterUnfinishedArraysOrTables(t *testing.T) {
	w, err := NewWriter(1)
	require.NoError(t, err)
	require.NoError(t, w.Array("array", 1))

	_, err = w.Finish()
	var unfinished *UnfinishedError
	require.ErrorAs(t, err, &unfinished)
	require.Equal(t, uint32(1), unfinished.Count)

	// But this succeeds.
	w, err = NewWriter(1)
	require.NoError(t, err)
	require.NoError(t, w.Array("array", 1))
	require.NoError(t, w.Bool("", false))
	require.NoError(t, w.End())
	_, err = w.Finish()
	require.NoError(t, err)
}

// writeScenarioConfig records the reference config used by several tests:
//
//	array_value = { 54, 12, 78.9 } -- array_value
//	bool_value = true
//	float_value = 3.14
//	int_value = 7
//	string_value = "foo"
//	table_value = {
//		bar = 2020,
//		baz = "hello",
//		foo = false,
//	} -- table_value
func writeScenarioConfig(t *testing.T) []byte {
	t.Helper()

	w, err := NewWriter(6)
	require.NoError(t, err)

	require.NoError(t, w.Array("array_value", 3))
	require.NoError(t, w.I64("", 54))
	require.NoError(t, w.I64("", 12))
	require.NoError(t, w.F64("", 78.9))
	require.NoError(t, w.End())

	require.NoError(t, w.Bool("bool_value", true))
	require.NoError(t, w.F64("float_value", 3.14))
	require.NoError(t, w.I64("int_value", 7))
	require.NoError(t, w.String("string_value", "foo"))

	require.NoError(t, w.Table("table_value", 3))
	require.NoError(t, w.I64("bar", 2020))
	require.NoError(t, w.String("baz", "hello"))
	require.NoError(t, w.Bool("foo", false))
	require.NoError(t, w.End())

	data, err := w.Finish()
	require.NoError(t, err)
	return data
}

func TestWriterScenario(t *testing.T) {
	data := writeScenarioConfig(t)

	config, err := New(data)
	require.NoError(t, err)
	root := config.Root()

	require.False(t, root.Contains("missing_value"))

	require.True(t, root.Contains("array_value"))
	arrayValue, err := root.GetArray("array_value")
	require.NoError(t, err)
	require.Equal(t, uint32(3), arrayValue.Len())

	i, err := arrayValue.GetI64(0)
	require.NoError(t, err)
	require.Equal(t, int64(54), i)
	f, err := arrayValue.GetF64(0)
	require.NoError(t, err)
	require.InDelta(t, 54.0, f, 1e-9)

	i, err = arrayValue.GetI64(2)
	require.NoError(t, err)
	require.Equal(t, int64(78), i)
	f, err = arrayValue.GetF64(2)
	require.NoError(t, err)
	require.InDelta(t, 78.9, f, 1e-9)

	b, err := root.GetBool("bool_value")
	require.NoError(t, err)
	require.True(t, b)

	f, err = root.GetF64("float_value")
	require.NoError(t, err)
	require.InDelta(t, 3.14, f, 1e-9)

	i, err = root.GetI64("int_value")
	require.NoError(t, err)
	require.Equal(t, int64(7), i)

	s, err := root.GetString("string_value")
	require.NoError(t, err)
	require.Equal(t, "foo", s)

	tableValue, err := root.GetTable("table_value")
	require.NoError(t, err)
	require.Equal(t, uint32(3), tableValue.Len())

	i, err = tableValue.GetI64("bar")
	require.NoError(t, err)
	require.Equal(t, int64(2020), i)
	s, err = tableValue.GetString("baz")
	require.NoError(t, err)
	require.Equal(t, "hello", s)
	b, err = tableValue.GetBool("foo")
	require.NoError(t, err)
	require.False(t, b)
	require.False(t, tableValue.Contains("bob"))
}

func TestWriterEmptyStringValue(t *testing.T) {
	// Empty string values carry a zero offset, like empty containers.
	w, err := NewWriter(2)
	require.NoError(t, err)
	require.NoError(t, w.String("empty", ""))
	require.NoError(t, w.String("full", "x"))

	data, err := w.Finish()
	require.NoError(t, err)
	require.NoError(t, Validate(data))

	config := NewUnchecked(data)
	s, err := config.Root().GetString("empty")
	require.NoError(t, err)
	require.Equal(t, "", s)
	s, err = config.Root().GetString("full")
	require.NoError(t, err)
	require.Equal(t, "x", s)
}

func TestWriterStringInterning(t *testing.T) {
	// The same string used as a key and as a value is stored once.
	w, err := NewWriter(2)
	require.NoError(t, err)
	require.NoError(t, w.String("foo", "foo"))
	require.NoError(t, w.String("bar", "foo"))

	data, err := w.Finish()
	require.NoError(t, err)
	require.NoError(t, Validate(data))

	// Strings: "foo\0" and "bar\0" only.
	config := NewUnchecked(data)
	info := Inspect(config)
	require.Equal(t, uint32(8), info.StringSectionSize)
}
