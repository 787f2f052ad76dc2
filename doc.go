/*
Package pbschema is a library for parsing protocol buffer (".proto") schema
files and resolving the custom field options they carry.

It runs a single pipeline per schema file: the source text is tokenized and
parsed into a SchemaFile, the file's imports are loaded and parsed to collect
the extension declarations they contain, and every field-level option usage
is matched against those declarations and type-checked. The result is a
read-only Schema which client code queries for messages, fields and resolved
option values.

# API

Clients should invoke the following apis :-

	func Parse(r io.Reader, p ImportProvider) (*Schema, error)

The Parse() function expects the client code to provide a reader for the
schema content and also an ImportProvider which can be used to callback the
client code for any imports in the schema content. If there are no imports,
the client can choose to pass this as nil.

	func ParseFile(file string) (*Schema, error)

The ParseFile() function is a utility function which expects the client code
to provide only the path of the schema file. If there are any imports in the
schema file, the parser will look for them in the same directory where the
schema file resides.

Clients needing more control (an injected logger, batch compilation of many
files) construct a Compiler directly:

	c := pbschema.NewCompiler(provider, pbschema.WithLogger(logger))
	schemas, err := c.CompileFiles("a.proto", "b.proto")

Files compiled in one batch are processed concurrently; the ImportProvider
is the only shared resource and must tolerate concurrent reads.

# Option resolution

Extension declarations are an open registry: any imported file can extend an
options message (typically google.protobuf.FieldOptions) and the declared
extension fields become resolvable under their fully-qualified names. Option
values are kept in their untyped literal form through parsing and only
coerced against the declared extension type during resolution, so a literal
like 100.1 stays verbatim text until the resolver knows whether it is a
double or an error.

# Design Considerations

This library logs nothing by default. Any failures are communicated back to
client code via the returned error, which is one of the typed errors in this
package (LexError, ParseError, ImportNotFoundError, UnknownOptionError and
friends) and carries a line and column number where one applies. Load-time
failures abort the whole pass for that file; no partial Schema is returned.
Query-time lookups of unknown names return NotFoundError without affecting
the Schema.
*/
package pbschema
