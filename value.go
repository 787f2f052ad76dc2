package pbschema

import (
	"fmt"
	"strconv"
	"strings"
)

// LiteralKind is an enumeration of the shapes an option value can take
// at its declaration site, before the option is matched against the
// extension which declares its type.
type LiteralKind int

// The various literal kinds
const (
	NumberLiteral LiteralKind = iota
	StringLiteral
	BoolLiteral
	IdentifierLiteral
)

var literalKindToStringMap = [...]string{
	NumberLiteral:     "number",
	StringLiteral:     "string",
	BoolLiteral:       "boolean",
	IdentifierLiteral: "identifier",
}

func (lk LiteralKind) String() string {
	return literalKindToStringMap[lk]
}

// Literal is an option value exactly as written in the source. Text is the
// verbatim token text; for string literals it is the raw content between
// the quotes with escapes unprocessed. Literals stay untyped until the
// option resolution pass matches them against an extension declaration.
type Literal struct {
	Kind LiteralKind
	Text string
}

// Value is a type-checked option value produced by resolving a Literal
// against the declared type of its extension. Type describes the declared
// type; exactly one of the value attributes is meaningful, per Type.
type Value struct {
	Type   DataType
	Double float64
	Int    int64
	Uint   uint64
	Bool   bool
	Str    string
	Bytes  []byte
	Enum   string
}

func (v Value) String() string {
	sdt, ok := v.Type.(ScalarDataType)
	if !ok {
		return v.Enum
	}
	switch {
	case sdt.Scalar() == BoolScalar:
		return strconv.FormatBool(v.Bool)
	case sdt.Scalar() == StringScalar:
		return v.Str
	case sdt.Scalar() == BytesScalar:
		return fmt.Sprintf("%x", v.Bytes)
	case sdt.Scalar().IsInteger() && sdt.Scalar().IsUnsigned():
		return strconv.FormatUint(v.Uint, 10)
	case sdt.Scalar().IsInteger():
		return strconv.FormatInt(v.Int, 10)
	default:
		return strconv.FormatFloat(v.Double, 'g', -1, 64)
	}
}

// ResolvedOption is the result of matching the option usages on one field
// against a single extension declaration. Values preserves source order and
// holds exactly one element unless the extension is repeated.
type ResolvedOption struct {
	Name     string
	Repeated bool
	Values   []Value
}

// Value returns the first resolved value. It is the usual accessor for
// non-repeated options.
func (ro ResolvedOption) Value() Value {
	if len(ro.Values) == 0 {
		return Value{}
	}
	return ro.Values[0]
}

// unescapeString processes the escape sequences of a string literal's raw
// text and returns the resulting bytes.
func unescapeString(s string) ([]byte, error) {
	var buf strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			buf.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return nil, fmt.Errorf("trailing backslash in string literal")
		}
		switch s[i] {
		case 'n':
			buf.WriteByte('\n')
		case 'r':
			buf.WriteByte('\r')
		case 't':
			buf.WriteByte('\t')
		case 'a':
			buf.WriteByte('\a')
		case 'b':
			buf.WriteByte('\b')
		case 'f':
			buf.WriteByte('\f')
		case 'v':
			buf.WriteByte('\v')
		case '\\', '\'', '"', '?':
			buf.WriteByte(s[i])
		case 'x', 'X':
			// one or two hex digits
			j := i + 1
			for j < len(s) && j < i+3 && isHexDigit(s[j]) {
				j++
			}
			if j == i+1 {
				return nil, fmt.Errorf("truncated hex escape in string literal")
			}
			b, err := strconv.ParseUint(s[i+1:j], 16, 8)
			if err != nil {
				return nil, fmt.Errorf("invalid hex escape in string literal")
			}
			buf.WriteByte(byte(b))
			i = j - 1
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i
			for j < len(s) && j < i+3 && s[j] >= '0' && s[j] <= '7' {
				j++
			}
			b, err := strconv.ParseUint(s[i:j], 8, 8)
			if err != nil {
				return nil, fmt.Errorf("invalid octal escape in string literal")
			}
			buf.WriteByte(byte(b))
			i = j - 1
		default:
			return nil, fmt.Errorf("unknown escape '\\%c' in string literal", s[i])
		}
	}
	return []byte(buf.String()), nil
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
