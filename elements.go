package pbschema

// OptionUsage is a datastructure which models one option applied at a
// declaration site. For field options this is one entry of the bracketed
// option list; the Value stays an untyped Literal until option resolution.
// Parenthesized names are fully-qualified extension references.
type OptionUsage struct {
	Name            string
	Value           Literal
	IsParenthesized bool
}

// EnumConstantElement is a datastructure which models
// the fields within an enum construct. Enum constants can
// also have inline options specified.
type EnumConstantElement struct {
	Name          string
	Documentation string
	Options       []OptionUsage
	Tag           int
}

// EnumElement is a datastructure which models
// the enum construct in a schema file. Enums are
// defined standalone or as nested entities within messages.
type EnumElement struct {
	Name          string
	QualifiedName string
	Documentation string
	Options       []OptionUsage
	EnumConstants []EnumConstantElement
}

// FieldElement is a datastructure which models a field of a message,
// a field of a oneof element or an entry in an extend declaration.
// Options preserves the declaration order of the bracketed option list.
type FieldElement struct {
	Name          string
	Documentation string
	Options       []OptionUsage
	Label         string /* optional, required, repeated */
	Type          DataType
	Tag           int
}

// OneOfElement is a datastructure which models
// a oneof construct in a schema file. All the fields in a
// oneof construct share memory, and at most one field can be
// set at any time.
type OneOfElement struct {
	Name          string
	Documentation string
	Options       []OptionUsage
	Fields        []FieldElement
}

// ExtensionsElement is a datastructure which models
// an extensions construct in a message. It reserves a range of field
// numbers which other files may populate via extend declarations.
type ExtensionsElement struct {
	Documentation string
	Start         int
	End           int
}

// ReservedRangeElement is a datastructure which models
// a reserved construct in a message.
type ReservedRangeElement struct {
	Documentation string
	Start         int
	End           int
}

// MessageElement is a datastructure which models
// the message construct in a schema file. Fields preserves
// declaration order, which is not necessarily field number order.
type MessageElement struct {
	Name           string
	QualifiedName  string
	Documentation  string
	Options        []OptionUsage
	Fields         []FieldElement
	Enums          []EnumElement
	Messages       []MessageElement
	OneOfs         []OneOfElement
	Extensions     []ExtensionsElement
	ReservedRanges []ReservedRangeElement
	ReservedNames  []string
}

// ExtendElement is a datastructure which models
// the extend construct, which attaches new fields to a previously
// declared message type. Extend declarations targeting option messages
// (e.g. google.protobuf.FieldOptions) are how custom options are declared.
type ExtendElement struct {
	Name          string
	QualifiedName string
	Documentation string
	Fields        []FieldElement
}

// SchemaFile is a datastructure which represents the parsed model
// of one schema file.
//
// It includes the package name, the syntax, the import dependencies,
// any public import dependencies, any options, enums, messages and
// extend declarations.
//
// This is populated by the parser and is immutable afterwards.
type SchemaFile struct {
	FileName           string
	PackageName        string
	Syntax             string
	Dependencies       []string
	PublicDependencies []string
	Options            []OptionUsage
	Enums              []EnumElement
	Messages           []MessageElement
	ExtendDeclarations []ExtendElement
}

// ExtensionDecl describes one declared extension field, extracted from an
// extend declaration during import resolution. Name is fully qualified
// with the declaring file's package. Extensions declared by any imported
// file register here, keyed by that name; the resolver never needs to
// change when new option declarations appear.
type ExtensionDecl struct {
	Name     string
	Target   string
	Type     DataType
	Repeated bool
	Tag      int
	Package  string
}
