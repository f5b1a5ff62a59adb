package bincfg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMinimalConfig(t *testing.T) {
	data := writeMinimalConfig(t)
	require.NoError(t, Validate(data))

	config, err := New(data)
	require.NoError(t, err)

	root := config.Root()
	require.Equal(t, uint32(1), root.Len())

	b, err := root.GetBool("a")
	require.NoError(t, err)
	require.True(t, b)

	_, err = root.GetBool("b")
	var missing *KeyDoesNotExistError
	require.ErrorAs(t, err, &missing)
}

func TestNewUnchecked(t *testing.T) {
	data := writeMinimalConfig(t)
	config := NewUnchecked(data)

	b, err := config.Root().GetBool("a")
	require.NoError(t, err)
	require.True(t, b)
}

func TestInspect(t *testing.T) {
	config, err := New(writeMinimalConfig(t))
	require.NoError(t, err)

	info := Inspect(config)
	require.Equal(t, uint32(42), info.BlobSize)
	require.Equal(t, uint32(1), info.RootLen)
	require.Equal(t, uint32(32), info.KeyTableOffset)
	require.Equal(t, uint32(1), info.KeyTableLen)
	require.Equal(t, uint32(40), info.StringSectionOffset)
	require.Equal(t, uint32(2), info.StringSectionSize)
}

func TestValueTypeString(t *testing.T) {
	require.Equal(t, "Bool", TypeBool.String())
	require.Equal(t, "I64", TypeI64.String())
	require.Equal(t, "F64", TypeF64.String())
	require.Equal(t, "String", TypeString.String())
	require.Equal(t, "Array", TypeArray.String())
	require.Equal(t, "Table", TypeTable.String())
	require.Equal(t, "Invalid", TypeInvalid.String())
}
