package pbschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScalarDataType(t *testing.T) {
	var tests = []struct {
		in     string
		scalar ScalarType
	}{
		{in: "double", scalar: DoubleScalar},
		{in: "string", scalar: StringScalar},
		{in: "sfixed64", scalar: Sfixed64Scalar},
		{in: "UINT32", scalar: Uint32Scalar},
	}
	for _, tt := range tests {
		sdt, err := NewScalarDataType(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.scalar, sdt.Scalar(), tt.in)
		assert.Equal(t, ScalarDataTypeKind, sdt.Kind(), tt.in)
	}

	_, err := NewScalarDataType("Temperature")
	assert.Error(t, err)
}

func TestScalarTypeClassification(t *testing.T) {
	assert.True(t, DoubleScalar.IsNumeric())
	assert.False(t, DoubleScalar.IsInteger())
	assert.True(t, Sint64Scalar.IsInteger())
	assert.False(t, Sint64Scalar.IsUnsigned())
	assert.True(t, Fixed32Scalar.IsUnsigned())
	assert.False(t, StringScalar.IsNumeric())
	assert.False(t, BoolScalar.IsNumeric())
}

func TestCompositeDataTypeNames(t *testing.T) {
	key, err := NewScalarDataType("string")
	require.NoError(t, err)
	value, err := NewScalarDataType("int64")
	require.NoError(t, err)

	mdt := MapDataType{KeyType: key, ValueType: value}
	assert.Equal(t, "map<string, int64>", mdt.Name())
	assert.Equal(t, MapDataTypeKind, mdt.Kind())

	ndt := NewNamedDataType("test.option.v1.TestEnum")
	assert.Equal(t, "test.option.v1.TestEnum", ndt.Name())
	assert.Equal(t, NamedDataTypeKind, ndt.Kind())
}
