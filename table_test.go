package bincfg

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scigolib/bincfg/internal/format"
)

func TestTableGet(t *testing.T) {
	config, err := New(writeMinimalConfig(t))
	require.NoError(t, err)
	root := config.Root()

	require.Equal(t, uint32(1), root.Len())
	require.False(t, root.IsEmpty())

	b, err := root.GetBool("a")
	require.NoError(t, err)
	require.True(t, b)

	_, err = root.GetBool("b")
	var missing *KeyDoesNotExistError
	require.ErrorAs(t, err, &missing)

	_, err = root.Get("")
	var empty *EmptyKeyError
	require.ErrorAs(t, err, &empty)

	require.True(t, root.Contains("a"))
	require.False(t, root.Contains("b"))
	require.False(t, root.Contains(""))
}

func TestTableTypedAccessors(t *testing.T) {
	config, err := New(writeScenarioConfig(t))
	require.NoError(t, err)
	root := config.Root()

	// Wrong-kind lookups report the actual kind.
	_, err = root.GetString("bool_value")
	var incorrect *IncorrectValueTypeError
	require.ErrorAs(t, err, &incorrect)
	require.Equal(t, TypeBool, incorrect.Type)

	_, err = root.GetArray("table_value")
	require.ErrorAs(t, err, &incorrect)
	require.Equal(t, TypeTable, incorrect.Type)

	_, err = root.GetTable("array_value")
	require.ErrorAs(t, err, &incorrect)
	require.Equal(t, TypeArray, incorrect.Type)

	_, err = root.GetBool("int_value")
	require.ErrorAs(t, err, &incorrect)
	require.Equal(t, TypeI64, incorrect.Type)

	// Numeric accessors accept either numeric kind.
	i, err := root.GetI64("float_value")
	require.NoError(t, err)
	require.Equal(t, int64(3), i)

	f, err := root.GetF64("int_value")
	require.NoError(t, err)
	require.InDelta(t, 7.0, f, 1e-9)
}

func TestTableGetHashed(t *testing.T) {
	config, err := New(writeScenarioConfig(t))
	require.NoError(t, err)
	root := config.Root()

	v, err := root.GetHashed("int_value", format.StringHash("int_value"))
	require.NoError(t, err)
	i, ok := v.I64()
	require.True(t, ok)
	require.Equal(t, int64(7), i)
}

func TestTableIterationOrder(t *testing.T) {
	// Iteration visits elements in the order the writer received them.
	w, err := NewWriter(4)
	require.NoError(t, err)
	require.NoError(t, w.I64("delta", 4))
	require.NoError(t, w.I64("alpha", 1))
	require.NoError(t, w.I64("charlie", 3))
	require.NoError(t, w.I64("bravo", 2))

	data, err := w.Finish()
	require.NoError(t, err)
	config, err := New(data)
	require.NoError(t, err)

	var keys []string
	var values []int64
	it := config.Root().Iter()
	for {
		key, v, ok := it.Next()
		if !ok {
			break
		}
		keys = append(keys, key)
		i, ok := v.I64()
		require.True(t, ok)
		values = append(values, i)
	}

	require.Equal(t, []string{"delta", "alpha", "charlie", "bravo"}, keys)
	require.Equal(t, []int64{4, 1, 3, 2}, values)

	// The iterator is exhausted and stays exhausted.
	_, _, ok := it.Next()
	require.False(t, ok)
}

func TestTableHashCollisions(t *testing.T) {
	// "costarring"/"liquid" and "declinate"/"macallums" collide under
	// 32-bit FNV-1a; lookups must still resolve by string equality.
	w, err := NewWriter(2)
	require.NoError(t, err)
	require.NoError(t, w.String("costarring", "declinate"))
	require.NoError(t, w.String("liquid", "macallums"))

	data, err := w.Finish()
	require.NoError(t, err)

	config, err := New(data)
	require.NoError(t, err)
	root := config.Root()

	s, err := root.GetString("liquid")
	require.NoError(t, err)
	require.Equal(t, "macallums", s)

	s, err = root.GetString("costarring")
	require.NoError(t, err)
	require.Equal(t, "declinate", s)
}

func TestTableCollidingKeysAreDistinct(t *testing.T) {
	// Colliding keys are distinct, not duplicates.
	w, err := NewWriter(1)
	require.NoError(t, err)
	require.NoError(t, w.Table("t", 2))
	require.NoError(t, w.I64("altarage", 1))
	require.NoError(t, w.I64("zinke", 2))
	require.NoError(t, w.End())

	data, err := w.Finish()
	require.NoError(t, err)
	config, err := New(data)
	require.NoError(t, err)

	nested, err := config.Root().GetTable("t")
	require.NoError(t, err)

	i, err := nested.GetI64("altarage")
	require.NoError(t, err)
	require.Equal(t, int64(1), i)
	i, err = nested.GetI64("zinke")
	require.NoError(t, err)
	require.Equal(t, int64(2), i)
}

func TestStoredHashesMatchKeys(t *testing.T) {
	// Every persisted key hash equals the FNV-1a of the stored string.
	data := writeScenarioConfig(t)
	config, err := New(data)
	require.NoError(t, err)
	requireHashesMatch(t, config.Root())
}

func requireHashesMatch(t *testing.T, table Table) {
	t.Helper()

	for i := uint32(0); i < table.Len(); i++ {
		pv := table.at.packedValue(i)
		require.Equal(t, format.StringHash(table.at.key(i)), pv.KeyHash)
	}

	it := table.Iter()
	for {
		_, v, ok := it.Next()
		if !ok {
			return
		}
		if nested, ok := v.Table(); ok {
			requireHashesMatch(t, nested)
		}
	}
}
