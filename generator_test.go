package pbschema_test

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/pbschema/pbschema"
)

// astComparers let go-cmp look inside the unexported datatype
// representations when comparing schema files.
var astComparers = cmp.Options{
	cmp.AllowUnexported(pbschema.ScalarDataType{}, pbschema.NamedDataType{}),
}

// roundTrip parses, regenerates and reparses the source, asserting that the
// second parse yields the same schema file as the first.
func roundTrip(t *testing.T, name string, src []byte) {
	t.Helper()
	first, err := pbschema.ParseSource(name, bytes.NewReader(src))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, first.Generate(&out))

	second, err := pbschema.ParseSource(name, bytes.NewReader(out.Bytes()))
	require.NoError(t, err, "regenerated source failed to parse:\n%s", out.String())

	if diff := cmp.Diff(first, second, astComparers); diff != "" {
		t.Errorf("round trip mismatch (-first +second):\n%v\nregenerated source:\n%s", diff, out.String())
	}
}

func TestRoundTripTestdata(t *testing.T) {
	var tests = []struct {
		file string
	}{
		{file: "testdata/fieldoptions_fixture.proto"},
		{file: "testdata/test/option/v1/fieldoptions.proto"},
		{file: "testdata/google/protobuf/descriptor.proto"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			raw, err := os.ReadFile(tt.file)
			require.NoError(t, err)
			roundTrip(t, tt.file, raw)
		})
	}
}

func TestRoundTripConstructs(t *testing.T) {
	src := `
syntax = "proto3";
package round.trip;

import public "shared.proto";

option java_package = "com.example.round";

// Mode of operation.
enum Mode {
  MODE_UNSPECIFIED = 0;
  MODE_FAST = 1 [deprecated = true];
}

message Envelope {
  option deprecated = true;

  reserved 10 to 20, 55;
  reserved "old_field";
  extensions 1000 to max;

  oneof payload {
    string text = 1;
    bytes blob = 2;
  }

  map<string, int32> labels = 3;
  repeated Mode modes = 4;

  message Nested {
    // Negative defaults happen.
    optional sint32 delta = 1;
  }
}

extend Envelope {
  optional string extra = 1001;
}
`
	// note: imports are not loaded here; ParseSource is a pure
	// text-to-model transform
	roundTrip(t, "roundtrip.proto", []byte(src))
}

func TestRoundTripQuotedStrings(t *testing.T) {
	// single-quoted literals may contain bare double quotes; regenerating
	// them must not produce malformed source
	src := `
syntax = "proto2";

import 'dir with "quotes"/other.proto';

message Strings {
  optional string plain = 1 [default = 'say "hi"'];
  optional string escaped = 2 [default = "say \"hi\""];
  optional string apostrophe = 3 [default = "it's"];
}
`
	roundTrip(t, "quoted.proto", []byte(src))

	sf, err := pbschema.ParseSource("quoted.proto", strings.NewReader(src))
	require.NoError(t, err)
	var out bytes.Buffer
	require.NoError(t, sf.Generate(&out))
	require.Contains(t, out.String(), `'say "hi"'`)
	require.Contains(t, out.String(), `"say \"hi\""`)
	require.Contains(t, out.String(), `"it's"`)
}

func TestGenerateRequiresWriter(t *testing.T) {
	sf, err := pbschema.ParseSource("x.proto", strings.NewReader(`syntax = "proto3";`))
	require.NoError(t, err)
	require.Error(t, sf.Generate(nil))
}
