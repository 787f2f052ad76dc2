package pbschema

import (
	"errors"
	"fmt"
	"strings"
)

// DataTypeKind is an enumeration which represents the possible kinds
// of field datatypes in message and extend declaration constructs.
type DataTypeKind int

const (
	// ScalarDataTypeKind indicates a scalar-builtin datatype
	ScalarDataTypeKind DataTypeKind = iota
	// MapDataTypeKind indicates a protobuf map datatype
	MapDataTypeKind
	// NamedDataTypeKind indicates a named type-reference to a message or enum
	NamedDataTypeKind
)

// DataType is the interface which must be implemented by the field datatypes.
// Name() returns the name of the datatype and Kind() returns the kind
// of the datatype.
type DataType interface {
	Name() string
	Kind() DataTypeKind
}

// ScalarType is an enumeration which represents all known supported scalar
// field datatypes. The same enumeration describes the declared value type
// of a scalar extension option.
type ScalarType int

const (
	// BoolScalar represents the Bool protobuf type
	BoolScalar ScalarType = iota + 1
	// BytesScalar represents the Bytes protobuf type
	BytesScalar
	// DoubleScalar represents the Double protobuf type
	DoubleScalar
	// FloatScalar represents the Float protobuf type
	FloatScalar
	// Fixed32Scalar represents the Fixed32 protobuf type
	Fixed32Scalar
	// Fixed64Scalar represents the Fixed64 protobuf type
	Fixed64Scalar
	// Int32Scalar represents the Int32 protobuf type
	Int32Scalar
	// Int64Scalar represents the Int64 protobuf type
	Int64Scalar
	// Sfixed32Scalar represents the SFixed32 protobuf type
	Sfixed32Scalar
	// Sfixed64Scalar represents the SFixed64 protobuf type
	Sfixed64Scalar
	// Sint32Scalar represents the SInt32 protobuf type
	Sint32Scalar
	// Sint64Scalar represents the SInt64 protobuf type
	Sint64Scalar
	// StringScalar represents the String protobuf type
	StringScalar
	// Uint32Scalar represents the UInt32 protobuf type
	Uint32Scalar
	// Uint64Scalar represents the UInt64 protobuf type
	Uint64Scalar
)

var scalarLookupMap = map[string]ScalarType{
	"bool":     BoolScalar,
	"bytes":    BytesScalar,
	"double":   DoubleScalar,
	"float":    FloatScalar,
	"fixed32":  Fixed32Scalar,
	"fixed64":  Fixed64Scalar,
	"int32":    Int32Scalar,
	"int64":    Int64Scalar,
	"sfixed32": Sfixed32Scalar,
	"sfixed64": Sfixed64Scalar,
	"sint32":   Sint32Scalar,
	"sint64":   Sint64Scalar,
	"string":   StringScalar,
	"uint32":   Uint32Scalar,
	"uint64":   Uint64Scalar,
}

// IsNumeric reports whether the scalar accepts numeric literals.
func (st ScalarType) IsNumeric() bool {
	switch st {
	case BoolScalar, BytesScalar, StringScalar:
		return false
	}
	return true
}

// IsInteger reports whether the scalar is an integer type, i.e. numeric
// but rejecting fractional literals.
func (st ScalarType) IsInteger() bool {
	return st.IsNumeric() && st != DoubleScalar && st != FloatScalar
}

// IsUnsigned reports whether the scalar is an unsigned integer type.
func (st ScalarType) IsUnsigned() bool {
	switch st {
	case Uint32Scalar, Uint64Scalar, Fixed32Scalar, Fixed64Scalar:
		return true
	}
	return false
}

// ScalarDataType is a construct which represents
// all supported protobuf scalar datatypes.
type ScalarDataType struct {
	scalarType ScalarType
	name       string
}

// Name function implementation of interface DataType for ScalarDataType
func (sdt ScalarDataType) Name() string {
	return sdt.name
}

// Kind function implementation of interface DataType for ScalarDataType
func (sdt ScalarDataType) Kind() DataTypeKind {
	return ScalarDataTypeKind
}

// Scalar returns the ScalarType enumeration value of the datatype.
func (sdt ScalarDataType) Scalar() ScalarType {
	return sdt.scalarType
}

// NewScalarDataType creates and returns a new ScalarDataType for the given string.
// If a scalar data type mapping does not exist for the given string, an Error is returned.
func NewScalarDataType(s string) (ScalarDataType, error) {
	key := strings.ToLower(s)
	st := scalarLookupMap[key]
	if st == 0 {
		msg := fmt.Sprintf("'%v' is not a valid ScalarDataType", s)
		return ScalarDataType{}, errors.New(msg)
	}
	return ScalarDataType{name: key, scalarType: st}, nil
}

// MapDataType is a construct which represents a protobuf map datatype.
type MapDataType struct {
	KeyType   DataType
	ValueType DataType
}

// Name function implementation of interface DataType for MapDataType
func (mdt MapDataType) Name() string {
	return "map<" + mdt.KeyType.Name() + ", " + mdt.ValueType.Name() + ">"
}

// Kind function implementation of interface DataType for MapDataType
func (mdt MapDataType) Kind() DataTypeKind {
	return MapDataTypeKind
}

// NamedDataType is a construct which represents a message or enum datatype
// referenced by name as a field type in message or extend declarations.
type NamedDataType struct {
	name string
}

// Name function implementation of interface DataType for NamedDataType
func (ndt NamedDataType) Name() string {
	return ndt.name
}

// Kind function implementation of interface DataType for NamedDataType
func (ndt NamedDataType) Kind() DataTypeKind {
	return NamedDataTypeKind
}

// NewNamedDataType creates a NamedDataType for the given type-reference.
func NewNamedDataType(name string) NamedDataType {
	return NamedDataType{name: name}
}
