package pbschema

import "sort"

// fieldKey addresses one field of one message. The message part is the
// dotted message path without the package prefix, e.g. "Outer.Inner".
type fieldKey struct {
	message string
	field   string
}

// Schema is the queryable, read-only model produced by a Compiler: the
// parsed file plus the resolved option sequence of every field. All query
// failures are NotFoundError values local to the query; the Schema itself
// never becomes invalid after construction.
type Schema struct {
	// File is the parsed main file, exposed for callers which need the
	// raw declarations.
	File *SchemaFile

	messages map[string]*MessageElement
	options  map[fieldKey][]ResolvedOption
}

func newSchema(sf *SchemaFile, options map[fieldKey][]ResolvedOption) *Schema {
	s := &Schema{
		File:     sf,
		messages: map[string]*MessageElement{},
		options:  options,
	}
	for i := range sf.Messages {
		s.register(&sf.Messages[i], sf.Messages[i].Name)
	}
	return s
}

func (s *Schema) register(me *MessageElement, path string) {
	s.messages[path] = me
	if me.QualifiedName != path {
		s.messages[me.QualifiedName] = me
	}
	for i := range me.Messages {
		child := &me.Messages[i]
		s.register(child, path+"."+child.Name)
	}
}

// MessageNames returns the dotted paths of every message in the schema,
// without the package prefix, in sorted order.
func (s *Schema) MessageNames() []string {
	var names []string
	for name, me := range s.messages {
		if me.QualifiedName == name && s.File.PackageName != "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Message returns the message with the given name. Both the dotted path
// without the package ("Outer.Inner") and the fully-qualified name are
// accepted.
func (s *Schema) Message(name string) (*MessageElement, error) {
	me, ok := s.messages[name]
	if !ok {
		return nil, &NotFoundError{Kind: "message", Name: name}
	}
	return me, nil
}

// Fields returns the fields of the named message in declaration order.
func (s *Schema) Fields(message string) ([]FieldElement, error) {
	me, err := s.Message(message)
	if err != nil {
		return nil, err
	}
	return me.Fields, nil
}

// FieldOptions returns the resolved options of the named field in source
// order. Fields declared without an option list resolve to an empty
// sequence, not an error.
func (s *Schema) FieldOptions(message, field string) ([]ResolvedOption, error) {
	me, err := s.Message(message)
	if err != nil {
		return nil, err
	}
	path := s.messagePath(me, message)
	if ro, ok := s.options[fieldKey{message: path, field: field}]; ok {
		return ro, nil
	}
	return nil, &NotFoundError{Kind: "field", Name: message + "." + field}
}

// FieldOption returns the resolved option with the given fully-qualified
// extension name on the named field.
func (s *Schema) FieldOption(message, field, option string) (ResolvedOption, error) {
	ros, err := s.FieldOptions(message, field)
	if err != nil {
		return ResolvedOption{}, err
	}
	for _, ro := range ros {
		if ro.Name == option {
			return ro, nil
		}
	}
	return ResolvedOption{}, &NotFoundError{Kind: "option", Name: option}
}

// messagePath normalizes a message lookup name onto the dotted path used
// as the resolved-option key.
func (s *Schema) messagePath(me *MessageElement, name string) string {
	if s.File.PackageName != "" && name == me.QualifiedName {
		return name[len(s.File.PackageName)+1:]
	}
	return name
}
