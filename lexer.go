package pbschema

import (
	"strings"
)

// The lexer. It walks the raw source text and produces tokens one at a
// time via next(). It is restartable only from scratch; create a new lexer
// to re-tokenize the same input.
type lexer struct {
	input []byte
	pos   int
	line  int
	col   int
}

func newLexer(input []byte) *lexer {
	return &lexer{input: input, line: 1, col: 1}
}

// next returns the next token in the input, skipping whitespace and
// comments. Comment text encountered on the way is attached to the
// returned token. At the end of the input it returns an EOFToken; calling
// it again keeps returning EOFToken.
func (lx *lexer) next() (Token, error) {
	var comments []string
	for {
		lx.skipWhitespace()
		start := lx.position()
		c, ok := lx.peek()
		if !ok {
			return Token{Kind: EOFToken, Pos: start, Comment: joinComments(comments)}, nil
		}

		if c == '/' {
			comment, err := lx.readComment()
			if err != nil {
				return Token{}, err
			}
			if comment != "" {
				comments = append(comments, comment)
			}
			continue
		}

		tok, err := lx.readToken(start)
		if err != nil {
			return Token{}, err
		}
		tok.Comment = joinComments(comments)
		return tok, nil
	}
}

func (lx *lexer) readToken(start Position) (Token, error) {
	c, _ := lx.peek()
	switch {
	case c == '.' && lx.digitAt(1):
		return lx.readNumber(start)
	case isLetter(c) || c == '_' || c == '.':
		// a leading dot starts a fully-qualified type reference
		return Token{Kind: IdentToken, Text: lx.readWord(), Pos: start}, nil
	case isDigit(c) || c == '-':
		return lx.readNumber(start)
	case c == '"' || c == '\'':
		return lx.readString(start)
	case isSymbol(c):
		lx.advance()
		return Token{Kind: SymbolToken, Sym: rune(c), Pos: start}, nil
	}
	return Token{}, &LexError{Pos: start, Msg: "invalid character '" + string(rune(c)) + "'"}
}

// readWord reads an identifier. Dots are included so that qualified names
// like test.option.v1.fieldoption_double lex as one token.
func (lx *lexer) readWord() string {
	from := lx.pos
	for {
		c, ok := lx.peek()
		if !ok || !isValidCharInWord(c) {
			break
		}
		lx.advance()
	}
	return string(lx.input[from:lx.pos])
}

func (lx *lexer) readNumber(start Position) (Token, error) {
	from := lx.pos
	if c, _ := lx.peek(); c == '-' {
		lx.advance()
		if c2, ok := lx.peek(); !ok || (!isDigit(c2) && !(c2 == '.' && lx.digitAt(1))) {
			return Token{}, &LexError{Pos: start, Msg: "expected digit after '-'"}
		}
	}
	kind := IntToken
	for {
		c, ok := lx.peek()
		if !ok {
			break
		}
		if isDigit(c) {
			lx.advance()
		} else if c == '.' || c == 'e' || c == 'E' {
			kind = FloatToken
			lx.advance()
			// a sign may follow an exponent marker
			if c == 'e' || c == 'E' {
				if c2, ok := lx.peek(); ok && (c2 == '+' || c2 == '-') {
					lx.advance()
				}
			}
		} else {
			break
		}
	}
	return Token{Kind: kind, Text: string(lx.input[from:lx.pos]), Pos: start}, nil
}

// readString reads a quoted string literal. The token text is the raw
// content between the quotes; escape sequences are not processed here.
func (lx *lexer) readString(start Position) (Token, error) {
	quote, _ := lx.peek()
	lx.advance()
	from := lx.pos
	for {
		c, ok := lx.peek()
		if !ok || c == '\n' {
			return Token{}, &LexError{Pos: start, Msg: "unterminated string literal"}
		}
		if c == quote {
			text := string(lx.input[from:lx.pos])
			lx.advance()
			return Token{Kind: StringToken, Text: text, Pos: start}, nil
		}
		if c == '\\' {
			lx.advance()
			if _, ok := lx.peek(); !ok {
				return Token{}, &LexError{Pos: start, Msg: "unterminated string literal"}
			}
		}
		lx.advance()
	}
}

// readComment consumes a // or /* comment and returns its text with the
// markers stripped and each line trimmed.
func (lx *lexer) readComment() (string, error) {
	start := lx.position()
	lx.advance()
	c, ok := lx.peek()
	if !ok {
		return "", &LexError{Pos: start, Msg: "invalid character '/'"}
	}
	if c == '/' {
		lx.advance()
		from := lx.pos
		for {
			c, ok := lx.peek()
			if !ok || c == '\n' {
				break
			}
			lx.advance()
		}
		return strings.TrimSpace(string(lx.input[from:lx.pos])), nil
	}
	if c == '*' {
		lx.advance()
		from := lx.pos
		for {
			c, ok := lx.peek()
			if !ok {
				return "", &LexError{Pos: start, Msg: "unterminated block comment"}
			}
			if c == '*' {
				end := lx.pos
				lx.advance()
				if c2, ok := lx.peek(); ok && c2 == '/' {
					lx.advance()
					return trimBlockComment(string(lx.input[from:end])), nil
				}
				continue
			}
			lx.advance()
		}
	}
	return "", &LexError{Pos: start, Msg: "invalid character '/'"}
}

func (lx *lexer) skipWhitespace() {
	for {
		c, ok := lx.peek()
		if !ok || !isWhitespace(c) {
			break
		}
		lx.advance()
	}
}

func (lx *lexer) peek() (byte, bool) {
	if lx.pos >= len(lx.input) {
		return 0, false
	}
	return lx.input[lx.pos], true
}

func (lx *lexer) advance() {
	if lx.pos >= len(lx.input) {
		return
	}
	if lx.input[lx.pos] == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	lx.pos++
}

// digitAt reports whether the byte offset positions past the cursor is a
// decimal digit.
func (lx *lexer) digitAt(offset int) bool {
	if lx.pos+offset >= len(lx.input) {
		return false
	}
	return isDigit(lx.input[lx.pos+offset])
}

func (lx *lexer) position() Position {
	return Position{Line: lx.line, Column: lx.col}
}

func joinComments(comments []string) string {
	return strings.Join(comments, "\n")
}

// trimBlockComment normalizes the body of a /* */ comment: each line loses
// its leading decoration asterisk and surrounding whitespace.
func trimBlockComment(s string) string {
	lines := strings.Split(s, "\n")
	var out []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func isValidCharInWord(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_' || c == '.'
}

func isSymbol(c byte) bool {
	switch c {
	case '=', ';', '{', '}', '[', ']', '(', ')', '<', '>', ',', ':':
		return true
	}
	return false
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
