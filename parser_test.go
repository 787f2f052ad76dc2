package pbschema_test

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbschema/pbschema"
)

func parseSource(t *testing.T, src string) *pbschema.SchemaFile {
	t.Helper()
	sf, err := pbschema.ParseSource("test.proto", strings.NewReader(src))
	require.NoError(t, err)
	return sf
}

func parseTestdata(t *testing.T, path string) *pbschema.SchemaFile {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	sf, err := pbschema.ParseSource(path, f)
	require.NoError(t, err)
	return sf
}

func TestParseFixture(t *testing.T) {
	sf := parseTestdata(t, "testdata/fieldoptions_fixture.proto")

	assert.Equal(t, "proto2", sf.Syntax)
	assert.Equal(t, "test.v1", sf.PackageName)
	assert.Equal(t, []string{"test/option/v1/fieldoptions.proto"}, sf.Dependencies)

	require.Len(t, sf.Messages, 1)
	msg := sf.Messages[0]
	assert.Equal(t, "OptionTestMessage", msg.Name)
	assert.Equal(t, "test.v1.OptionTestMessage", msg.QualifiedName)
	require.Len(t, msg.Fields, 20)

	// fields come back in declaration order, not field number order
	assert.Equal(t, "test_name", msg.Fields[0].Name)
	assert.Equal(t, 1, msg.Fields[0].Tag)
	assert.Equal(t, "test_index", msg.Fields[1].Name)
	assert.Equal(t, 2, msg.Fields[1].Tag)
	assert.Equal(t, "field_with_fieldoption_double", msg.Fields[2].Name)
	assert.Equal(t, 700, msg.Fields[2].Tag)
	last := msg.Fields[len(msg.Fields)-1]
	assert.Equal(t, "field_with_fieldoption_repeated_string", last.Name)
	assert.Equal(t, 813, last.Tag)
	assert.Equal(t, "repeated", last.Label)

	// option usages stay untyped literals at parse time
	dbl := msg.Fields[2]
	require.Len(t, dbl.Options, 1)
	assert.Equal(t, "test.option.v1.fieldoption_double", dbl.Options[0].Name)
	assert.True(t, dbl.Options[0].IsParenthesized)
	assert.Equal(t, pbschema.NumberLiteral, dbl.Options[0].Value.Kind)
	assert.Equal(t, "100.1", dbl.Options[0].Value.Text)

	// two usages of the repeated extension, source order preserved
	require.Len(t, last.Options, 2)
	assert.Equal(t, "Oh yeah", last.Options[0].Value.Text)
	assert.Equal(t, "Oh no", last.Options[1].Value.Text)

	// fields declared without a bracket list carry no usages
	assert.Empty(t, msg.Fields[0].Options)
	assert.Empty(t, msg.Fields[8].Options)
}

func TestParseOptionsFile(t *testing.T) {
	sf := parseTestdata(t, "testdata/test/option/v1/fieldoptions.proto")

	assert.Equal(t, "test.option.v1", sf.PackageName)
	require.Len(t, sf.Enums, 1)
	assert.Equal(t, "test.option.v1.TestEnum", sf.Enums[0].QualifiedName)
	require.Len(t, sf.Enums[0].EnumConstants, 3)
	assert.Equal(t, "ENUM1", sf.Enums[0].EnumConstants[1].Name)
	assert.Equal(t, 1, sf.Enums[0].EnumConstants[1].Tag)

	require.Len(t, sf.ExtendDeclarations, 1)
	ext := sf.ExtendDeclarations[0]
	assert.Equal(t, "google.protobuf.FieldOptions", ext.Name)
	assert.Len(t, ext.Fields, 19)
	assert.Equal(t, "fieldoption_double", ext.Fields[0].Name)
	assert.Equal(t, 101001, ext.Fields[0].Tag)
	assert.Equal(t, "repeated", ext.Fields[17].Label)
}

func TestParseNestedConstructs(t *testing.T) {
	sf := parseSource(t, `
syntax = "proto3";
package demo;

message Outer {
  option deprecated = true;

  message Inner {
    string value = 1;
  }

  enum Mode {
    MODE_UNSPECIFIED = 0;
    MODE_FAST = 1;
  }

  oneof choice {
    string name = 1;
    int32 id = 2;
  }

  map<string, int64> counts = 3;
  reserved 100 to 199, 250;
  reserved "legacy_name";
}
`)

	require.Len(t, sf.Messages, 1)
	outer := sf.Messages[0]
	assert.Equal(t, "demo.Outer", outer.QualifiedName)

	require.Len(t, outer.Messages, 1)
	assert.Equal(t, "demo.Outer.Inner", outer.Messages[0].QualifiedName)
	require.Len(t, outer.Enums, 1)
	assert.Equal(t, "demo.Outer.Mode", outer.Enums[0].QualifiedName)

	require.Len(t, outer.OneOfs, 1)
	assert.Equal(t, "choice", outer.OneOfs[0].Name)
	require.Len(t, outer.OneOfs[0].Fields, 2)

	require.Len(t, outer.Fields, 1)
	assert.Equal(t, "map<string, int64>", outer.Fields[0].Type.Name())
	assert.Equal(t, pbschema.MapDataTypeKind, outer.Fields[0].Type.Kind())

	require.Len(t, outer.ReservedRanges, 2)
	assert.Equal(t, 100, outer.ReservedRanges[0].Start)
	assert.Equal(t, 199, outer.ReservedRanges[0].End)
	assert.Equal(t, 250, outer.ReservedRanges[1].Start)
	assert.Equal(t, []string{"legacy_name"}, outer.ReservedNames)

	require.Len(t, outer.Options, 1)
	assert.Equal(t, "deprecated", outer.Options[0].Name)
	assert.False(t, outer.Options[0].IsParenthesized)
}

func TestParseDocumentation(t *testing.T) {
	sf := parseSource(t, `
// Greeting payload.
// Second line.
message Hello {
  // The message text.
  string text = 1;
}
`)
	require.Len(t, sf.Messages, 1)
	assert.Equal(t, "Greeting payload.\nSecond line.", sf.Messages[0].Documentation)
	require.Len(t, sf.Messages[0].Fields, 1)
	assert.Equal(t, "The message text.", sf.Messages[0].Fields[0].Documentation)
}

func TestParseDuplicateFieldNumber(t *testing.T) {
	_, err := pbschema.ParseSource("dup.proto", strings.NewReader(`
message Broken {
  optional string a = 5;
  optional string b = 5;
}
`))
	var dupErr *pbschema.DuplicateFieldNumberError
	require.True(t, errors.As(err, &dupErr), "got: %v", err)
	assert.Equal(t, "Broken", dupErr.Message)
	assert.Equal(t, "b", dupErr.Field)
	assert.Equal(t, 5, dupErr.Number)
}

func TestParseErrors(t *testing.T) {
	var tests = []struct {
		name string
		src  string
		want string
	}{
		{name: "missing semicolon", src: `message M { optional int32 a = 1 }`, want: "expected"},
		{name: "missing field number", src: `message M { optional int32 a; }`, want: "'='"},
		{name: "bad syntax value", src: `syntax = "proto4";`, want: "proto2"},
		{name: "field number zero", src: `message M { optional int32 a = 0; }`, want: "positive"},
		{name: "service unsupported", src: `service Greeter {}`, want: "not supported"},
		{name: "unterminated message", src: `message M { optional int32 a = 1;`, want: "'}'"},
		{name: "field at file scope", src: `optional int32 a = 1;`, want: "declaration"},
		{name: "label in oneof", src: `message M { oneof o { optional int32 a = 1; } }`, want: "disallowed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pbschema.ParseSource(tt.name, strings.NewReader(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := pbschema.ParseSource("pos.proto", strings.NewReader("message M {\n  optional int32 a == 1;\n}"))
	var parseErr *pbschema.ParseError
	require.True(t, errors.As(err, &parseErr), "got: %v", err)
	assert.Equal(t, 2, parseErr.Pos.Line)
}
