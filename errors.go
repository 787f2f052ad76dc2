package pbschema

import "fmt"

// LexError is returned when the lexer encounters input it cannot tokenize,
// e.g. an unterminated string literal or an invalid character. It carries
// the position in the source at which tokenization failed.
type LexError struct {
	Pos Position
	Msg string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%v: %v", e.Pos, e.Msg)
}

// ParseError is returned when the parser encounters a structurally invalid
// schema file. It carries the position of the offending token and, where
// applicable, what the parser expected to find there. Parsing is not
// error-recovering; the first ParseError aborts the file.
type ParseError struct {
	Pos      Position
	Expected string
	Found    string
	Msg      string
}

func (e *ParseError) Error() string {
	if e.Expected != "" {
		return fmt.Sprintf("%v: expected %v, but found: %v", e.Pos, e.Expected, e.Found)
	}
	return fmt.Sprintf("%v: %v", e.Pos, e.Msg)
}

// DuplicateFieldNumberError is returned when two fields within one message
// declare the same field number.
type DuplicateFieldNumberError struct {
	Message string
	Field   string
	Number  int
}

func (e *DuplicateFieldNumberError) Error() string {
	return fmt.Sprintf("duplicate field number %v on field '%v' in message '%v'", e.Number, e.Field, e.Message)
}

// ImportNotFoundError is returned when a declared import path cannot be
// resolved by the configured ImportProvider. The provider's own error is
// available via Unwrap.
type ImportNotFoundError struct {
	Path string
	Err  error
}

func (e *ImportNotFoundError) Error() string {
	return fmt.Sprintf("unable to resolve import '%v': %v", e.Path, e.Err)
}

func (e *ImportNotFoundError) Unwrap() error {
	return e.Err
}

// ImportCycleError is returned when a file's imports eventually lead back to
// a file that is still being loaded. Chain lists the import paths in the
// order they were followed, ending with the repeated path.
type ImportCycleError struct {
	Path  string
	Chain []string
}

func (e *ImportCycleError) Error() string {
	return fmt.Sprintf("import cycle detected at '%v' (chain: %v)", e.Path, e.Chain)
}

// UnknownOptionError is returned when a field option usage names an
// extension that is not declared by the file or any of its imports.
type UnknownOptionError struct {
	Field  string
	Option string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("option '(%v)' on field '%v' does not match any declared extension", e.Option, e.Field)
}

// OptionTypeMismatchError is returned when an option literal's shape does
// not fit the declared type of its extension, e.g. a string literal assigned
// to a double option or a fractional literal assigned to an integer option.
type OptionTypeMismatchError struct {
	Field  string
	Option string
	Want   string
	Got    string
}

func (e *OptionTypeMismatchError) Error() string {
	return fmt.Sprintf("option '(%v)' on field '%v' is declared as %v but was given %v", e.Option, e.Field, e.Want, e.Got)
}

// OptionRangeError is returned when a numeric option literal parses but does
// not fit the declared numeric type of its extension.
type OptionRangeError struct {
	Field  string
	Option string
	Value  string
	Want   string
}

func (e *OptionRangeError) Error() string {
	return fmt.Sprintf("option '(%v)' on field '%v': value %v out of range for %v", e.Option, e.Field, e.Value, e.Want)
}

// OptionEnumValueError is returned when an enum-typed option is given an
// identifier which is not a declared value of the referenced enum.
type OptionEnumValueError struct {
	Field  string
	Option string
	Enum   string
	Value  string
}

func (e *OptionEnumValueError) Error() string {
	return fmt.Sprintf("option '(%v)' on field '%v': '%v' is not a value of enum '%v'", e.Option, e.Field, e.Value, e.Enum)
}

// DuplicateOptionError is returned when a non-repeated extension is targeted
// by more than one option usage on the same field.
type DuplicateOptionError struct {
	Field  string
	Option string
}

func (e *DuplicateOptionError) Error() string {
	return fmt.Sprintf("option '(%v)' specified more than once on field '%v'", e.Option, e.Field)
}

// NotFoundError is returned by Schema query methods when the named message,
// field or option does not exist in the model. It is a query-time error
// only; the Schema itself remains valid.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %v named '%v'", e.Kind, e.Name)
}
