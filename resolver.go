package pbschema

import (
	"math"
	"strconv"
	"strings"
)

// resolveOptions matches every parenthesized option usage on every field
// of the file against the extension declarations in the table, type-checks
// the literals and produces the per-field resolved option sequences.
// Unparenthesized usages reference predefined options rather than
// extensions and pass through unresolved.
func resolveOptions(sf *SchemaFile, table *symbolTable) (map[fieldKey][]ResolvedOption, error) {
	resolved := map[fieldKey][]ResolvedOption{}
	for i := range sf.Messages {
		if err := resolveMessageOptions(&sf.Messages[i], sf.Messages[i].Name, table, resolved); err != nil {
			return nil, err
		}
	}
	return resolved, nil
}

func resolveMessageOptions(me *MessageElement, path string, table *symbolTable, resolved map[fieldKey][]ResolvedOption) error {
	for i := range me.Fields {
		if err := resolveFieldOptions(&me.Fields[i], path, table, resolved); err != nil {
			return err
		}
	}
	for _, oo := range me.OneOfs {
		for i := range oo.Fields {
			if err := resolveFieldOptions(&oo.Fields[i], path, table, resolved); err != nil {
				return err
			}
		}
	}
	for i := range me.Messages {
		child := &me.Messages[i]
		if err := resolveMessageOptions(child, path+"."+child.Name, table, resolved); err != nil {
			return err
		}
	}
	return nil
}

// resolveFieldOptions folds a field's ordered option usages into resolved
// options. Usages naming the same repeated extension accumulate into one
// ResolvedOption whose values keep source order; a repeat against a
// non-repeated extension is an error. Fields without options resolve to an
// empty sequence.
func resolveFieldOptions(fe *FieldElement, message string, table *symbolTable, resolved map[fieldKey][]ResolvedOption) error {
	key := fieldKey{message: message, field: fe.Name}
	options := []ResolvedOption{}
	index := map[string]int{}

	for _, usage := range fe.Options {
		if !usage.IsParenthesized {
			continue
		}
		decl, ok := table.extensions[usage.Name]
		if !ok {
			return &UnknownOptionError{Field: fe.Name, Option: usage.Name}
		}

		value, err := coerceLiteral(fe.Name, usage.Name, usage.Value, decl, table)
		if err != nil {
			return err
		}

		if at, ok := index[usage.Name]; ok {
			if !decl.Repeated {
				return &DuplicateOptionError{Field: fe.Name, Option: usage.Name}
			}
			options[at].Values = append(options[at].Values, value)
			continue
		}
		index[usage.Name] = len(options)
		options = append(options, ResolvedOption{
			Name:     usage.Name,
			Repeated: decl.Repeated,
			Values:   []Value{value},
		})
	}

	resolved[key] = options
	return nil
}

// coerceLiteral type-checks an untyped literal against the declared type
// of the extension and produces the typed value.
func coerceLiteral(field, option string, lit Literal, decl *ExtensionDecl, table *symbolTable) (Value, error) {
	switch dt := decl.Type.(type) {
	case ScalarDataType:
		return coerceScalar(field, option, lit, dt)
	case NamedDataType:
		ee := table.lookupEnum(dt.Name(), decl.Package)
		if ee == nil {
			// message-typed options take aggregate values, which this
			// resolver does not support
			return Value{}, &OptionTypeMismatchError{Field: field, Option: option, Want: dt.Name(), Got: lit.Kind.String() + " literal"}
		}
		if lit.Kind != IdentifierLiteral {
			return Value{}, &OptionTypeMismatchError{Field: field, Option: option, Want: "enum " + ee.QualifiedName, Got: lit.Kind.String() + " literal"}
		}
		for _, ec := range ee.EnumConstants {
			if ec.Name == lit.Text {
				return Value{Type: decl.Type, Enum: ec.Name}, nil
			}
		}
		return Value{}, &OptionEnumValueError{Field: field, Option: option, Enum: ee.QualifiedName, Value: lit.Text}
	}
	return Value{}, &OptionTypeMismatchError{Field: field, Option: option, Want: decl.Type.Name(), Got: lit.Kind.String() + " literal"}
}

func coerceScalar(field, option string, lit Literal, sdt ScalarDataType) (Value, error) {
	st := sdt.Scalar()
	mismatch := func() (Value, error) {
		return Value{}, &OptionTypeMismatchError{Field: field, Option: option, Want: sdt.Name(), Got: lit.Kind.String() + " literal"}
	}
	outOfRange := func() (Value, error) {
		return Value{}, &OptionRangeError{Field: field, Option: option, Value: lit.Text, Want: sdt.Name()}
	}

	switch {
	case st == BoolScalar:
		if lit.Kind != BoolLiteral {
			return mismatch()
		}
		return Value{Type: sdt, Bool: lit.Text == "true"}, nil

	case st == StringScalar:
		if lit.Kind != StringLiteral {
			return mismatch()
		}
		b, err := unescapeString(lit.Text)
		if err != nil {
			return Value{}, &OptionTypeMismatchError{Field: field, Option: option, Want: sdt.Name(), Got: err.Error()}
		}
		return Value{Type: sdt, Str: string(b)}, nil

	case st == BytesScalar:
		if lit.Kind != StringLiteral {
			return mismatch()
		}
		b, err := unescapeString(lit.Text)
		if err != nil {
			return Value{}, &OptionTypeMismatchError{Field: field, Option: option, Want: sdt.Name(), Got: err.Error()}
		}
		return Value{Type: sdt, Bytes: b}, nil

	case st == DoubleScalar || st == FloatScalar:
		if lit.Kind != NumberLiteral {
			return mismatch()
		}
		f, err := strconv.ParseFloat(lit.Text, 64)
		if err != nil {
			return outOfRange()
		}
		if st == FloatScalar && math.Abs(f) > math.MaxFloat32 {
			return outOfRange()
		}
		return Value{Type: sdt, Double: f}, nil

	case st.IsUnsigned():
		if lit.Kind != NumberLiteral {
			return mismatch()
		}
		if isFractional(lit.Text) {
			return mismatch()
		}
		u, err := strconv.ParseUint(lit.Text, 10, 64)
		if err != nil {
			return outOfRange()
		}
		if (st == Uint32Scalar || st == Fixed32Scalar) && u > math.MaxUint32 {
			return outOfRange()
		}
		return Value{Type: sdt, Uint: u}, nil

	default: // signed integer types
		if lit.Kind != NumberLiteral {
			return mismatch()
		}
		if isFractional(lit.Text) {
			return mismatch()
		}
		n, err := strconv.ParseInt(lit.Text, 10, 64)
		if err != nil {
			return outOfRange()
		}
		if is32BitSigned(st) && (n < math.MinInt32 || n > math.MaxInt32) {
			return outOfRange()
		}
		return Value{Type: sdt, Int: n}, nil
	}
}

func is32BitSigned(st ScalarType) bool {
	return st == Int32Scalar || st == Sint32Scalar || st == Sfixed32Scalar
}

// isFractional reports whether a numeric literal carries a fraction or
// exponent, which integer option types reject.
func isFractional(text string) bool {
	return strings.ContainsAny(text, ".eE")
}
