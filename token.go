package pbschema

import "fmt"

// TokenKind is an enumeration which represents the possible kinds of
// lexical tokens in a schema file.
type TokenKind int

// The various token kinds
const (
	EOFToken TokenKind = iota
	IdentToken
	IntToken
	FloatToken
	StringToken
	SymbolToken
)

var tokenKindToStringMap = [...]string{
	EOFToken:    "eof",
	IdentToken:  "identifier",
	IntToken:    "integer",
	FloatToken:  "float",
	StringToken: "string",
	SymbolToken: "symbol",
}

func (tk TokenKind) String() string {
	return tokenKindToStringMap[tk]
}

// Position is a location in a schema file. Lines and columns are 1-based.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("line: %v, column: %v", p.Line, p.Column)
}

// Token is a single lexical token. Text holds the literal text exactly as
// written in the source; for string tokens it is the raw content between
// the quotes with escape sequences left unprocessed, so that type coercion
// downstream sees the verbatim form.
//
// Comment carries the text of any comments which immediately preceded the
// token, stripped of the comment markers. The parser attaches it to the
// declaration starting at this token as documentation.
type Token struct {
	Kind    TokenKind
	Text    string
	Sym     rune
	Pos     Position
	Comment string
}

func (t Token) describe() string {
	switch t.Kind {
	case EOFToken:
		return "end of input"
	case SymbolToken:
		return fmt.Sprintf("'%c'", t.Sym)
	default:
		return fmt.Sprintf("%v '%v'", t.Kind, t.Text)
	}
}
