package pbschema

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const indentation string = "\t"

// Generate writes the schema file back out as source text. The output
// parses back to an equal SchemaFile, which is what the round-trip tests
// rely on; formatting details of the original input are not preserved.
func (sf *SchemaFile) Generate(w io.Writer) error {
	if w == nil {
		return errors.New("writer is mandatory")
	}

	bw := bufio.NewWriter(w)

	if sf.Syntax != "" {
		fmt.Fprintf(bw, "syntax = \"%s\";\n\n", sf.Syntax)
	}
	if sf.PackageName != "" {
		fmt.Fprintf(bw, "package %s;\n\n", sf.PackageName)
	}

	for _, dependency := range sf.PublicDependencies {
		fmt.Fprintf(bw, "import public %s;\n", quoteString(dependency))
	}
	for _, dependency := range sf.Dependencies {
		fmt.Fprintf(bw, "import %s;\n", quoteString(dependency))
	}
	if len(sf.PublicDependencies) > 0 || len(sf.Dependencies) > 0 {
		fmt.Fprint(bw, "\n")
	}

	for _, opt := range sf.Options {
		fmt.Fprintf(bw, "option %s;\n", formatOption(opt))
	}
	if len(sf.Options) > 0 {
		fmt.Fprint(bw, "\n")
	}

	for _, enum := range sf.Enums {
		bw.WriteString(formatEnum(enum, 0))
		bw.WriteRune('\n')
	}
	for _, msg := range sf.Messages {
		bw.WriteString(formatMessage(msg, 0))
		bw.WriteRune('\n')
	}
	for _, ed := range sf.ExtendDeclarations {
		bw.WriteString(formatExtend(ed))
		bw.WriteRune('\n')
	}

	return bw.Flush()
}

func formatOption(opt OptionUsage) string {
	name := opt.Name
	if opt.IsParenthesized {
		name = "(" + name + ")"
	}
	return name + " = " + formatLiteral(opt.Value)
}

func formatLiteral(lit Literal) string {
	if lit.Kind == StringLiteral {
		return quoteString(lit.Text)
	}
	return lit.Text
}

// quoteString wraps the raw text of a string literal in quotes. The text
// still carries its original escape sequences, so the quote character is
// chosen to avoid touching it: raw text with a bare double quote (legal in
// a single-quoted literal) is emitted single-quoted. A literal cannot carry
// both quote characters bare; if a hand-built one does, the double quotes
// get escaped.
func quoteString(s string) string {
	switch {
	case !containsBare(s, '"'):
		return "\"" + s + "\""
	case !containsBare(s, '\''):
		return "'" + s + "'"
	}
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			b.WriteByte(c)
			i++
			b.WriteByte(s[i])
			continue
		}
		if c == '"' {
			b.WriteString("\\\"")
			continue
		}
		b.WriteByte(c)
	}
	b.WriteByte('"')
	return b.String()
}

// containsBare reports whether q occurs in s outside an escape sequence.
func containsBare(s string, q byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' {
			i++
			continue
		}
		if s[i] == q {
			return true
		}
	}
	return false
}

func formatOptionList(options []OptionUsage) string {
	if len(options) == 0 {
		return ""
	}
	parts := make([]string, len(options))
	for i, opt := range options {
		parts[i] = formatOption(opt)
	}
	return " [" + strings.Join(parts, ", ") + "]"
}

func indent(indentLevel int) string {
	return strings.Repeat(indentation, indentLevel)
}

func formatComment(comment string, indentLevel int) string {
	if comment == "" {
		return ""
	}
	s := ""
	for _, line := range strings.Split(comment, "\n") {
		s += indent(indentLevel) + "// " + line + "\n"
	}
	return s
}

func formatEnum(enum EnumElement, indentLevel int) string {
	s := formatComment(enum.Documentation, indentLevel)
	s += indent(indentLevel) + fmt.Sprintf("enum %s {\n", enum.Name)
	for _, opt := range enum.Options {
		s += indent(indentLevel+1) + "option " + formatOption(opt) + ";\n"
	}
	for _, ec := range enum.EnumConstants {
		s += formatComment(ec.Documentation, indentLevel+1)
		s += indent(indentLevel+1) + ec.Name + " = " + strconv.Itoa(ec.Tag) + formatOptionList(ec.Options) + ";\n"
	}
	s += indent(indentLevel) + "}\n"
	return s
}

func formatMessage(msg MessageElement, indentLevel int) string {
	s := formatComment(msg.Documentation, indentLevel)
	s += indent(indentLevel) + fmt.Sprintf("message %s {\n", msg.Name)
	for _, opt := range msg.Options {
		s += indent(indentLevel+1) + "option " + formatOption(opt) + ";\n"
	}
	s += formatReservedRanges(msg.ReservedRanges, indentLevel+1)
	s += formatReservedNames(msg.ReservedNames, indentLevel+1)
	for _, xe := range msg.Extensions {
		s += formatExtensions(xe, indentLevel+1)
	}
	for _, o := range msg.OneOfs {
		s += formatOneOf(o, indentLevel+1)
	}
	for _, f := range msg.Fields {
		s += formatField(f, indentLevel+1)
	}
	for _, child := range msg.Messages {
		s += "\n" + formatMessage(child, indentLevel+1)
	}
	for _, enum := range msg.Enums {
		s += "\n" + formatEnum(enum, indentLevel+1)
	}
	s += indent(indentLevel) + "}\n"
	return s
}

func formatField(f FieldElement, indentLevel int) string {
	s := formatComment(f.Documentation, indentLevel)
	s += indent(indentLevel)
	if f.Label != "" {
		s += f.Label + " "
	}
	s += f.Type.Name() + " " + f.Name + " = " + strconv.Itoa(f.Tag)
	s += formatOptionList(f.Options)
	s += ";\n"
	return s
}

func formatExtend(ed ExtendElement) string {
	s := formatComment(ed.Documentation, 0)
	s += fmt.Sprintf("extend %s {\n", ed.Name)
	for _, f := range ed.Fields {
		s += formatField(f, 1)
	}
	s += "}\n"
	return s
}

func formatExtensions(xe ExtensionsElement, indentLevel int) string {
	s := formatComment(xe.Documentation, indentLevel)
	s += indent(indentLevel) + "extensions " + strconv.Itoa(xe.Start)
	if xe.End != xe.Start {
		if xe.End == maxFieldNumber {
			s += " to max"
		} else {
			s += " to " + strconv.Itoa(xe.End)
		}
	}
	return s + ";\n"
}

func formatReservedRanges(reserved []ReservedRangeElement, indentLevel int) string {
	if len(reserved) == 0 {
		return ""
	}
	out := formatComment(reserved[0].Documentation, indentLevel)
	var parts []string
	for _, r := range reserved {
		if r.Start == r.End {
			parts = append(parts, strconv.Itoa(r.Start))
		} else if r.End == maxFieldNumber {
			parts = append(parts, fmt.Sprintf("%d to max", r.Start))
		} else {
			parts = append(parts, fmt.Sprintf("%d to %d", r.Start, r.End))
		}
	}
	return out + indent(indentLevel) + "reserved " + strings.Join(parts, ", ") + ";\n"
}

func formatReservedNames(names []string, indentLevel int) string {
	if len(names) == 0 {
		return ""
	}
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = "\"" + name + "\""
	}
	return indent(indentLevel) + "reserved " + strings.Join(quoted, ", ") + ";\n"
}

func formatOneOf(o OneOfElement, indentLevel int) string {
	s := formatComment(o.Documentation, indentLevel)
	s += indent(indentLevel) + fmt.Sprintf("oneof %s {\n", o.Name)
	for _, opt := range o.Options {
		s += indent(indentLevel+1) + "option " + formatOption(opt) + ";\n"
	}
	for _, f := range o.Fields {
		s += formatField(f, indentLevel+1)
	}
	s += indent(indentLevel) + "}\n"
	return s
}
