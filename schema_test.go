package pbschema_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbschema/pbschema"
)

func fixtureSchema(t *testing.T) *pbschema.Schema {
	t.Helper()
	schema, err := pbschema.ParseFile("testdata/fieldoptions_fixture.proto")
	require.NoError(t, err)
	return schema
}

func TestSchemaMessageLookup(t *testing.T) {
	schema := fixtureSchema(t)

	msg, err := schema.Message("OptionTestMessage")
	require.NoError(t, err)
	assert.Equal(t, "test.v1.OptionTestMessage", msg.QualifiedName)

	// the fully-qualified name works too
	qualified, err := schema.Message("test.v1.OptionTestMessage")
	require.NoError(t, err)
	assert.Same(t, msg, qualified)

	_, err = schema.Message("NoSuchMessage")
	var notFoundErr *pbschema.NotFoundError
	require.True(t, errors.As(err, &notFoundErr))
	assert.Equal(t, "message", notFoundErr.Kind)

	// a failed query leaves the model intact
	_, err = schema.Message("OptionTestMessage")
	assert.NoError(t, err)
}

func TestSchemaFieldsInDeclarationOrder(t *testing.T) {
	schema := fixtureSchema(t)
	fields, err := schema.Fields("OptionTestMessage")
	require.NoError(t, err)
	require.Len(t, fields, 20)
	assert.Equal(t, "test_name", fields[0].Name)
	assert.Equal(t, "field_with_fieldoption_repeated_string", fields[19].Name)
}

func TestSchemaQueryNotFound(t *testing.T) {
	schema := fixtureSchema(t)

	_, err := schema.FieldOptions("OptionTestMessage", "no_such_field")
	var notFoundErr *pbschema.NotFoundError
	require.True(t, errors.As(err, &notFoundErr))
	assert.Equal(t, "field", notFoundErr.Kind)

	_, err = schema.FieldOption("OptionTestMessage", "test_name", "test.option.v1.fieldoption_double")
	require.True(t, errors.As(err, &notFoundErr))
	assert.Equal(t, "option", notFoundErr.Kind)

	_, err = schema.FieldOptions("Missing", "test_name")
	require.True(t, errors.As(err, &notFoundErr))
	assert.Equal(t, "message", notFoundErr.Kind)
}

func TestSchemaMessageNames(t *testing.T) {
	src := `
syntax = "proto3";
package names;
message Zeta {}
message Alpha {
  message Inner {}
}
`
	schema, err := pbschema.Parse(strings.NewReader(src), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Alpha.Inner", "Zeta"}, schema.MessageNames())
}

// rootImportProvider resolves all imports against one base directory, the
// way a batch run over a schema tree does.
type rootImportProvider struct {
	dir string
}

func (rp *rootImportProvider) Provide(path string) (io.Reader, error) {
	raw, err := os.ReadFile(filepath.Join(rp.dir, filepath.FromSlash(path)))
	if err != nil {
		return nil, err
	}
	return strings.NewReader(string(raw)), nil
}

func TestCompileFiles(t *testing.T) {
	c := pbschema.NewCompiler(&rootImportProvider{dir: "testdata"})
	schemas, err := c.CompileFiles(
		"testdata/fieldoptions_fixture.proto",
		"testdata/test/option/v1/fieldoptions.proto",
		"testdata/google/protobuf/descriptor.proto",
	)
	require.NoError(t, err)
	require.Len(t, schemas, 3)

	// results come back in input order
	_, err = schemas[0].Message("OptionTestMessage")
	assert.NoError(t, err)
	_, err = schemas[1].Message("TestMessage")
	assert.NoError(t, err)
	_, err = schemas[2].Message("FieldOptions")
	assert.NoError(t, err)
}

func TestCompileFilesFirstErrorWins(t *testing.T) {
	c := pbschema.NewCompiler(&rootImportProvider{dir: "testdata"})
	_, err := c.CompileFiles("testdata/fieldoptions_fixture.proto", "testdata/does_not_exist.proto")
	require.Error(t, err)
}

func TestCompilerLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	c := pbschema.NewCompiler(&rootImportProvider{dir: "testdata"}, pbschema.WithLogger(logger))

	_, err := c.CompileFile("testdata/fieldoptions_fixture.proto")
	require.NoError(t, err)

	logged := buf.String()
	assert.Contains(t, logged, "parsed schema file")
	assert.Contains(t, logged, "resolved imports")
	assert.Contains(t, logged, "resolved field options")
}
