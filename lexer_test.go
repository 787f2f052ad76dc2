package pbschema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	lx := newLexer([]byte(src))
	var toks []Token
	for {
		tok, err := lx.next()
		require.NoError(t, err)
		if tok.Kind == EOFToken {
			return toks
		}
		toks = append(toks, tok)
	}
}

func TestLexTokenStream(t *testing.T) {
	src := `syntax = "proto2";
optional double d = 700 [(test.option.v1.fieldoption_double) = 100.1];`

	toks := lexAll(t, src)

	var kinds []TokenKind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	expected := []TokenKind{
		IdentToken, SymbolToken, StringToken, SymbolToken,
		IdentToken, IdentToken, IdentToken, SymbolToken, IntToken,
		SymbolToken, SymbolToken, IdentToken, SymbolToken, SymbolToken,
		FloatToken, SymbolToken, SymbolToken,
	}
	assert.Equal(t, expected, kinds)

	// literal text is preserved verbatim
	assert.Equal(t, "proto2", toks[2].Text)
	assert.Equal(t, "700", toks[8].Text)
	assert.Equal(t, "test.option.v1.fieldoption_double", toks[11].Text)
	assert.Equal(t, "100.1", toks[14].Text)
}

func TestLexPositions(t *testing.T) {
	toks := lexAll(t, "syntax\n  message")
	require.Len(t, toks, 2)
	assert.Equal(t, Position{Line: 1, Column: 1}, toks[0].Pos)
	assert.Equal(t, Position{Line: 2, Column: 3}, toks[1].Pos)
}

func TestLexNumbers(t *testing.T) {
	var tests = []struct {
		src  string
		kind TokenKind
	}{
		{src: "0", kind: IntToken},
		{src: "813", kind: IntToken},
		{src: "-32", kind: IntToken},
		{src: "100.1", kind: FloatToken},
		{src: "-0.5", kind: FloatToken},
		{src: ".5", kind: FloatToken},
		{src: "-.5", kind: FloatToken},
		{src: "1e9", kind: FloatToken},
		{src: "2.5e-3", kind: FloatToken},
	}
	for _, tt := range tests {
		toks := lexAll(t, tt.src)
		require.Len(t, toks, 1, tt.src)
		assert.Equal(t, tt.kind, toks[0].Kind, tt.src)
		assert.Equal(t, tt.src, toks[0].Text, tt.src)
	}
}

func TestLexLeadingDot(t *testing.T) {
	// a dot followed by a digit starts a float, any other dot starts a
	// fully-qualified type reference
	toks := lexAll(t, ".5 .google.protobuf.FieldOptions")
	require.Len(t, toks, 2)
	assert.Equal(t, FloatToken, toks[0].Kind)
	assert.Equal(t, ".5", toks[0].Text)
	assert.Equal(t, IdentToken, toks[1].Kind)
	assert.Equal(t, ".google.protobuf.FieldOptions", toks[1].Text)
}

func TestLexStringKeepsEscapesRaw(t *testing.T) {
	toks := lexAll(t, `"Oh \"yeah\"\n"`)
	require.Len(t, toks, 1)
	assert.Equal(t, StringToken, toks[0].Kind)
	assert.Equal(t, `Oh \"yeah\"\n`, toks[0].Text)
}

func TestLexCommentsAttachToNextToken(t *testing.T) {
	src := `// first line
// second line
message`
	toks := lexAll(t, src)
	require.Len(t, toks, 1)
	assert.Equal(t, "first line\nsecond line", toks[0].Comment)

	toks = lexAll(t, "/* block\n * comment */ enum")
	require.Len(t, toks, 1)
	assert.Equal(t, "block\ncomment", toks[0].Comment)
}

func TestLexUnterminatedString(t *testing.T) {
	lx := newLexer([]byte("\n  \"abc"))
	_, err := lx.next()
	var lexErr *LexError
	require.True(t, errors.As(err, &lexErr))
	assert.Equal(t, Position{Line: 2, Column: 3}, lexErr.Pos)
	assert.Contains(t, lexErr.Error(), "unterminated string")
}

func TestLexUnterminatedBlockComment(t *testing.T) {
	lx := newLexer([]byte("/* never closed"))
	_, err := lx.next()
	var lexErr *LexError
	require.True(t, errors.As(err, &lexErr))
	assert.Contains(t, lexErr.Error(), "unterminated block comment")
}

func TestLexInvalidCharacter(t *testing.T) {
	lx := newLexer([]byte("message @"))
	_, err := lx.next()
	require.NoError(t, err)
	_, err = lx.next()
	var lexErr *LexError
	require.True(t, errors.As(err, &lexErr))
	assert.Equal(t, Position{Line: 1, Column: 9}, lexErr.Pos)
}

func TestLexRestartable(t *testing.T) {
	src := "message Foo {}"
	first := lexAll(t, src)
	second := lexAll(t, src)
	assert.Equal(t, first, second)
}
