package pbschema

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseSource parses schema source text into a SchemaFile. The name is
// recorded on the returned file and used in error context. No import
// loading or option resolution happens here; use a Compiler for the full
// pipeline.
func ParseSource(name string, r io.Reader) (*SchemaFile, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	sf := &SchemaFile{FileName: name}
	p := &parser{lx: newLexer(raw)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.parseFile(sf); err != nil {
		return nil, err
	}
	return sf, nil
}

// The parser. This struct has all the methods which actually perform the
// job of parsing the token stream into a SchemaFile.
type parser struct {
	lx *lexer
	// The current lookahead token
	tok Token
	// The current package name + nested type names, separated by dots
	prefix string
}

// This method just looks for documentation and
// then declarations in a loop till EOF is reached
func (p *parser) parseFile(sf *SchemaFile) error {
	for p.tok.Kind != EOFToken {
		if err := p.readDeclaration(sf, p.tok.Comment, parseCtx{ctxType: fileCtx}); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) readDeclaration(sf *SchemaFile, documentation string, ctx parseCtx) error {
	// Skip unnecessary semicolons...
	if p.isSym(';') {
		return p.advance()
	}

	if ctx.ctxType == enumCtx {
		return p.readEnumBody(documentation, ctx)
	}

	if p.tok.Kind != IdentToken {
		return p.errExpected("a declaration")
	}
	label := p.tok.Text

	switch label {
	case "package":
		if !ctx.permitsPackage() {
			return p.errUnexpected("'package'", ctx)
		}
		return p.readPackage(sf)
	case "syntax":
		if !ctx.permitsSyntax() {
			return p.errUnexpected("'syntax'", ctx)
		}
		return p.readSyntax(sf)
	case "import":
		if !ctx.permitsImport() {
			return p.errUnexpected("'import'", ctx)
		}
		return p.readImport(sf)
	case "option":
		if !ctx.permitsOption() {
			return p.errUnexpected("'option'", ctx)
		}
		return p.readOption(sf, ctx)
	case "message":
		if !ctx.permitsMsg() {
			return p.errUnexpected("'message'", ctx)
		}
		return p.readMessage(sf, documentation, ctx)
	case "enum":
		if !ctx.permitsEnum() {
			return p.errUnexpected("'enum'", ctx)
		}
		return p.readEnum(sf, documentation, ctx)
	case "extend":
		if !ctx.permitsExtend() {
			return p.errUnexpected("'extend'", ctx)
		}
		return p.readExtend(sf, documentation)
	case "oneof":
		if !ctx.permitsOneOf() {
			return p.errUnexpected("'oneof'", ctx)
		}
		return p.readOneOf(sf, documentation, ctx)
	case "extensions":
		if !ctx.permitsExtensions() {
			return p.errUnexpected("'extensions'", ctx)
		}
		return p.readExtensions(documentation, ctx)
	case "reserved":
		if !ctx.permitsReserved() {
			return p.errUnexpected("'reserved'", ctx)
		}
		return p.readReserved(documentation, ctx)
	case "service", "rpc":
		return &ParseError{Pos: p.tok.Pos, Msg: fmt.Sprintf("'%v' declarations are not supported", label)}
	}

	if !ctx.permitsField() {
		return p.errExpected("a top-level declaration")
	}
	return p.readField(documentation, ctx)
}

func (p *parser) readPackage(sf *SchemaFile) error {
	if err := p.advance(); err != nil {
		return err
	}
	name, err := p.expectIdent("package name")
	if err != nil {
		return err
	}
	sf.PackageName = name
	p.prefix = name + "."
	return p.expectSym(';')
}

func (p *parser) readSyntax(sf *SchemaFile) error {
	if err := p.advance(); err != nil {
		return err
	}
	if err := p.expectSym('='); err != nil {
		return err
	}
	syntax, err := p.expectString("syntax value")
	if err != nil {
		return err
	}
	if syntax != "proto2" && syntax != "proto3" {
		return &ParseError{Pos: p.tok.Pos, Msg: "'syntax' must be 'proto2' or 'proto3'. Found: " + syntax}
	}
	sf.Syntax = syntax
	return p.expectSym(';')
}

func (p *parser) readImport(sf *SchemaFile) error {
	if err := p.advance(); err != nil {
		return err
	}
	public := false
	if p.tok.Kind == IdentToken {
		switch p.tok.Text {
		case "public":
			public = true
			if err := p.advance(); err != nil {
				return err
			}
		case "weak":
			// recorded as a plain dependency
			if err := p.advance(); err != nil {
				return err
			}
		}
	}
	path, err := p.expectString("import path")
	if err != nil {
		return err
	}
	if public {
		sf.PublicDependencies = append(sf.PublicDependencies, path)
	} else {
		sf.Dependencies = append(sf.Dependencies, path)
	}
	return p.expectSym(';')
}

// readOption parses a standalone `option name = value;` statement and
// hangs it off the construct the context points at.
func (p *parser) readOption(sf *SchemaFile, ctx parseCtx) error {
	if err := p.advance(); err != nil {
		return err
	}
	usage, err := p.readOptionUsage()
	if err != nil {
		return err
	}
	if err := p.expectSym(';'); err != nil {
		return err
	}

	switch ctx.ctxType {
	case fileCtx:
		sf.Options = append(sf.Options, usage)
	case msgCtx:
		me := ctx.obj.(*MessageElement)
		me.Options = append(me.Options, usage)
	case oneOfCtx:
		oe := ctx.obj.(*OneOfElement)
		oe.Options = append(oe.Options, usage)
	case enumCtx:
		ee := ctx.obj.(*EnumElement)
		ee.Options = append(ee.Options, usage)
	}
	return nil
}

// readOptionUsage parses one `name = literal` pair, with the name
// optionally parenthesized to reference an extension.
func (p *parser) readOptionUsage() (OptionUsage, error) {
	name, parenthesized, err := p.readOptionName()
	if err != nil {
		return OptionUsage{}, err
	}
	if err := p.expectSym('='); err != nil {
		return OptionUsage{}, err
	}
	lit, err := p.readLiteral()
	if err != nil {
		return OptionUsage{}, err
	}
	return OptionUsage{Name: name, Value: lit, IsParenthesized: parenthesized}, nil
}

func (p *parser) readOptionName() (string, bool, error) {
	if p.isSym('(') {
		if err := p.advance(); err != nil {
			return "", false, err
		}
		name, err := p.expectIdent("option name")
		if err != nil {
			return "", false, err
		}
		if err := p.expectSym(')'); err != nil {
			return "", false, err
		}
		return name, true, nil
	}
	name, err := p.expectIdent("option name")
	return name, false, err
}

func (p *parser) readLiteral() (Literal, error) {
	tok := p.tok
	switch tok.Kind {
	case StringToken:
		if err := p.advance(); err != nil {
			return Literal{}, err
		}
		return Literal{Kind: StringLiteral, Text: tok.Text}, nil
	case IntToken, FloatToken:
		if err := p.advance(); err != nil {
			return Literal{}, err
		}
		return Literal{Kind: NumberLiteral, Text: tok.Text}, nil
	case IdentToken:
		if err := p.advance(); err != nil {
			return Literal{}, err
		}
		if tok.Text == "true" || tok.Text == "false" {
			return Literal{Kind: BoolLiteral, Text: tok.Text}, nil
		}
		return Literal{Kind: IdentifierLiteral, Text: tok.Text}, nil
	}
	return Literal{}, p.errExpected("an option value")
}

func (p *parser) readMessage(sf *SchemaFile, documentation string, ctx parseCtx) error {
	if err := p.advance(); err != nil {
		return err
	}
	name, err := p.expectIdent("message name")
	if err != nil {
		return err
	}

	me := MessageElement{Name: name, QualifiedName: p.prefix + name, Documentation: documentation}

	// store previous prefix & update while inside the message...
	previousPrefix := p.prefix
	p.prefix = p.prefix + name + "."
	defer func() {
		p.prefix = previousPrefix
	}()

	if err := p.expectSym('{'); err != nil {
		return err
	}
	for {
		if p.tok.Kind == EOFToken {
			return p.errExpected("'}'")
		}
		nestedDocumentation := p.tok.Comment
		if p.isSym('}') {
			if err := p.advance(); err != nil {
				return err
			}
			break
		}
		nested := parseCtx{ctxType: msgCtx, obj: &me}
		if err := p.readDeclaration(sf, nestedDocumentation, nested); err != nil {
			return err
		}
	}

	if err := checkFieldNumbers(&me); err != nil {
		return err
	}

	if ctx.ctxType == msgCtx {
		parent := ctx.obj.(*MessageElement)
		parent.Messages = append(parent.Messages, me)
	} else {
		sf.Messages = append(sf.Messages, me)
	}
	return nil
}

// checkFieldNumbers enforces that field numbers are unique within one
// message, across plain fields and oneof fields.
func checkFieldNumbers(me *MessageElement) error {
	seen := map[int]bool{}
	check := func(fields []FieldElement) error {
		for _, fe := range fields {
			if seen[fe.Tag] {
				return &DuplicateFieldNumberError{Message: me.Name, Field: fe.Name, Number: fe.Tag}
			}
			seen[fe.Tag] = true
		}
		return nil
	}
	if err := check(me.Fields); err != nil {
		return err
	}
	for _, oo := range me.OneOfs {
		if err := check(oo.Fields); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) readField(documentation string, ctx parseCtx) error {
	label := p.tok.Text
	fe := FieldElement{Documentation: documentation}

	var dataTypeStr string
	if label == "required" || label == "optional" || label == "repeated" {
		if ctx.ctxType == oneOfCtx {
			return &ParseError{Pos: p.tok.Pos, Msg: fmt.Sprintf("label '%v' is disallowed in a oneof field", label)}
		}
		fe.Label = label
		if err := p.advance(); err != nil {
			return err
		}
		if p.tok.Kind != IdentToken {
			return p.errExpected("a field type")
		}
		dataTypeStr = p.tok.Text
	} else {
		dataTypeStr = label
	}

	dataType, err := p.readDataType(dataTypeStr)
	if err != nil {
		return err
	}
	fe.Type = dataType

	name, err := p.expectIdent("field name")
	if err != nil {
		return err
	}
	fe.Name = name

	if err := p.expectSym('='); err != nil {
		return err
	}
	tag, err := p.expectInt("field number")
	if err != nil {
		return err
	}
	if tag < 1 {
		return &ParseError{Pos: p.tok.Pos, Msg: fmt.Sprintf("field number %v must be positive", tag)}
	}
	fe.Tag = tag

	// If '[' is next, we must parse the option list for the field
	if p.isSym('[') {
		foptions, err := p.readFieldOptions()
		if err != nil {
			return err
		}
		fe.Options = foptions
	}
	if err := p.expectSym(';'); err != nil {
		return err
	}

	// add field to the proper parent...
	switch ctx.ctxType {
	case msgCtx:
		me := ctx.obj.(*MessageElement)
		me.Fields = append(me.Fields, fe)
	case extendCtx:
		ee := ctx.obj.(*ExtendElement)
		ee.Fields = append(ee.Fields, fe)
	case oneOfCtx:
		oe := ctx.obj.(*OneOfElement)
		oe.Fields = append(oe.Fields, fe)
	}
	return nil
}

// readFieldOptions parses a bracketed option list. Each entry is parsed
// independently and order is preserved; several entries may name the same
// extension, which is only valid for repeated extensions and is checked
// during option resolution, not here.
func (p *parser) readFieldOptions() ([]OptionUsage, error) {
	if err := p.advance(); err != nil { // consume '['
		return nil, err
	}
	var options []OptionUsage
	for {
		usage, err := p.readOptionUsage()
		if err != nil {
			return nil, err
		}
		options = append(options, usage)

		if p.isSym(',') {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		if p.isSym(']') {
			return options, p.advance()
		}
		return nil, p.errExpected("',' or ']'")
	}
}

// readDataType maps a type name onto a DataType, handling the map<k, v>
// form. The current token is the type name; the token stream is left just
// past the complete type.
func (p *parser) readDataType(name string) (DataType, error) {
	if name == "map" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectSym('<'); err != nil {
			return nil, err
		}
		keyName, err := p.expectIdent("map key type")
		if err != nil {
			return nil, err
		}
		keyType, err := simpleDataType(keyName)
		if err != nil {
			return nil, err
		}
		if err := p.expectSym(','); err != nil {
			return nil, err
		}
		valueName, err := p.expectIdent("map value type")
		if err != nil {
			return nil, err
		}
		valueType, err := simpleDataType(valueName)
		if err != nil {
			return nil, err
		}
		if err := p.expectSym('>'); err != nil {
			return nil, err
		}
		return MapDataType{KeyType: keyType, ValueType: valueType}, nil
	}

	dt, err := simpleDataType(name)
	if err != nil {
		return nil, err
	}
	return dt, p.advance()
}

func simpleDataType(name string) (DataType, error) {
	// is it a scalar type?
	if sdt, err := NewScalarDataType(name); err == nil {
		return sdt, nil
	}
	// must be a named type
	return NewNamedDataType(name), nil
}

func (p *parser) readEnum(sf *SchemaFile, documentation string, ctx parseCtx) error {
	if err := p.advance(); err != nil {
		return err
	}
	name, err := p.expectIdent("enum name")
	if err != nil {
		return err
	}
	ee := EnumElement{Name: name, QualifiedName: p.prefix + name, Documentation: documentation}

	if err := p.expectSym('{'); err != nil {
		return err
	}
	for {
		if p.tok.Kind == EOFToken {
			return p.errExpected("'}'")
		}
		valueDocumentation := p.tok.Comment
		if p.isSym('}') {
			if err := p.advance(); err != nil {
				return err
			}
			break
		}
		nested := parseCtx{ctxType: enumCtx, obj: &ee}
		if err := p.readDeclaration(sf, valueDocumentation, nested); err != nil {
			return err
		}
	}

	if ctx.ctxType == msgCtx {
		parent := ctx.obj.(*MessageElement)
		parent.Enums = append(parent.Enums, ee)
	} else {
		sf.Enums = append(sf.Enums, ee)
	}
	return nil
}

// readEnumBody parses one entry inside an enum block: either an option
// statement or an enum constant with its optional inline options.
func (p *parser) readEnumBody(documentation string, ctx parseCtx) error {
	ee := ctx.obj.(*EnumElement)

	if p.tok.Kind != IdentToken {
		return p.errExpected("an enum constant name")
	}
	if p.tok.Text == "option" {
		return p.readOption(nil, ctx)
	}

	name := p.tok.Text
	if err := p.advance(); err != nil {
		return err
	}
	if err := p.expectSym('='); err != nil {
		return err
	}
	tag, err := p.expectInt("enum constant value")
	if err != nil {
		return err
	}

	ec := EnumConstantElement{Name: name, Tag: tag, Documentation: documentation}
	if p.isSym('[') {
		options, err := p.readFieldOptions()
		if err != nil {
			return err
		}
		ec.Options = options
	}
	if err := p.expectSym(';'); err != nil {
		return err
	}
	ee.EnumConstants = append(ee.EnumConstants, ec)
	return nil
}

func (p *parser) readExtend(sf *SchemaFile, documentation string) error {
	if err := p.advance(); err != nil {
		return err
	}
	name, err := p.expectIdent("extend target")
	if err != nil {
		return err
	}
	qualifiedName := name
	if !strings.Contains(name, ".") && p.prefix != "" {
		qualifiedName = p.prefix + name
	}
	ee := ExtendElement{Name: name, QualifiedName: qualifiedName, Documentation: documentation}

	if err := p.expectSym('{'); err != nil {
		return err
	}
	for {
		if p.tok.Kind == EOFToken {
			return p.errExpected("'}'")
		}
		nestedDocumentation := p.tok.Comment
		if p.isSym('}') {
			if err := p.advance(); err != nil {
				return err
			}
			break
		}
		nested := parseCtx{ctxType: extendCtx, obj: &ee}
		if err := p.readDeclaration(sf, nestedDocumentation, nested); err != nil {
			return err
		}
	}

	sf.ExtendDeclarations = append(sf.ExtendDeclarations, ee)
	return nil
}

func (p *parser) readOneOf(sf *SchemaFile, documentation string, ctx parseCtx) error {
	if err := p.advance(); err != nil {
		return err
	}
	name, err := p.expectIdent("oneof name")
	if err != nil {
		return err
	}
	oe := OneOfElement{Name: name, Documentation: documentation}

	if err := p.expectSym('{'); err != nil {
		return err
	}
	for {
		if p.tok.Kind == EOFToken {
			return p.errExpected("'}'")
		}
		nestedDocumentation := p.tok.Comment
		if p.isSym('}') {
			if err := p.advance(); err != nil {
				return err
			}
			break
		}
		nested := parseCtx{ctxType: oneOfCtx, obj: &oe}
		if err := p.readDeclaration(sf, nestedDocumentation, nested); err != nil {
			return err
		}
	}

	me := ctx.obj.(*MessageElement)
	me.OneOfs = append(me.OneOfs, oe)
	return nil
}

func (p *parser) readExtensions(documentation string, ctx parseCtx) error {
	if err := p.advance(); err != nil {
		return err
	}
	start, err := p.expectInt("extensions range start")
	if err != nil {
		return err
	}

	// At this point, make End be same as Start...
	xe := ExtensionsElement{Documentation: documentation, Start: start, End: start}

	if !p.isSym(';') {
		if p.tok.Kind != IdentToken || p.tok.Text != "to" {
			return p.errExpected("'to'")
		}
		if err := p.advance(); err != nil {
			return err
		}
		if p.tok.Kind == IdentToken && p.tok.Text == "max" {
			xe.End = maxFieldNumber
			if err := p.advance(); err != nil {
				return err
			}
		} else {
			end, err := p.expectInt("extensions range end")
			if err != nil {
				return err
			}
			xe.End = end
		}
	}
	if err := p.expectSym(';'); err != nil {
		return err
	}

	me := ctx.obj.(*MessageElement)
	me.Extensions = append(me.Extensions, xe)
	return nil
}

// The highest field number a message can carry, 2^29 - 1.
const maxFieldNumber = 536870911

func (p *parser) readReserved(documentation string, ctx parseCtx) error {
	if err := p.advance(); err != nil {
		return err
	}
	me := ctx.obj.(*MessageElement)
	if p.tok.Kind == StringToken {
		return p.readReservedNames(me)
	}
	return p.readReservedRanges(documentation, me)
}

func (p *parser) readReservedRanges(documentation string, me *MessageElement) error {
	for {
		start, err := p.expectInt("reserved range start")
		if err != nil {
			return err
		}
		rr := ReservedRangeElement{Start: start, End: start, Documentation: documentation}

		if p.tok.Kind == IdentToken && p.tok.Text == "to" {
			if err := p.advance(); err != nil {
				return err
			}
			if p.tok.Kind == IdentToken && p.tok.Text == "max" {
				rr.End = maxFieldNumber
				if err := p.advance(); err != nil {
					return err
				}
			} else {
				end, err := p.expectInt("reserved range end")
				if err != nil {
					return err
				}
				rr.End = end
			}
		}
		me.ReservedRanges = append(me.ReservedRanges, rr)

		if p.isSym(',') {
			if err := p.advance(); err != nil {
				return err
			}
			continue
		}
		return p.expectSym(';')
	}
}

func (p *parser) readReservedNames(me *MessageElement) error {
	for {
		name, err := p.expectString("reserved name")
		if err != nil {
			return err
		}
		me.ReservedNames = append(me.ReservedNames, name)

		if p.isSym(',') {
			if err := p.advance(); err != nil {
				return err
			}
			continue
		}
		return p.expectSym(';')
	}
}

func (p *parser) advance() error {
	tok, err := p.lx.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) isSym(c rune) bool {
	return p.tok.Kind == SymbolToken && p.tok.Sym == c
}

func (p *parser) expectSym(c rune) error {
	if !p.isSym(c) {
		return p.errExpected(fmt.Sprintf("'%c'", c))
	}
	return p.advance()
}

func (p *parser) expectIdent(what string) (string, error) {
	if p.tok.Kind != IdentToken {
		return "", p.errExpected(what)
	}
	text := p.tok.Text
	return text, p.advance()
}

func (p *parser) expectString(what string) (string, error) {
	if p.tok.Kind != StringToken {
		return "", p.errExpected(what)
	}
	text := p.tok.Text
	return text, p.advance()
}

func (p *parser) expectInt(what string) (int, error) {
	if p.tok.Kind != IntToken {
		return 0, p.errExpected(what)
	}
	v, err := strconv.Atoi(p.tok.Text)
	if err != nil {
		return 0, &ParseError{Pos: p.tok.Pos, Msg: fmt.Sprintf("invalid integer '%v'", p.tok.Text)}
	}
	return v, p.advance()
}

func (p *parser) errExpected(expected string) error {
	return &ParseError{Pos: p.tok.Pos, Expected: expected, Found: p.tok.describe()}
}

func (p *parser) errUnexpected(what string, ctx parseCtx) error {
	return &ParseError{Pos: p.tok.Pos, Msg: fmt.Sprintf("unexpected %v in context: %v", what, ctx)}
}
