package pbschema

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Compiler runs the full pipeline for a schema file: parse, load and parse
// its imports, extract the extension declarations they carry, and resolve
// every field option against them. A Compiler is safe for concurrent use as
// long as its ImportProvider is.
type Compiler struct {
	provider ImportProvider
	logger   zerolog.Logger
}

// CompilerOption configures a Compiler.
type CompilerOption func(*Compiler)

// WithLogger sets the logger used for pipeline tracing. The default is a
// no-op logger; the library is silent unless asked otherwise.
func WithLogger(logger zerolog.Logger) CompilerOption {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// NewCompiler creates a Compiler which loads imports through the given
// provider. A nil provider is valid for files without imports; any import
// statement will then fail with an ImportNotFoundError.
func NewCompiler(provider ImportProvider, opts ...CompilerOption) *Compiler {
	c := &Compiler{provider: provider, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile parses schema source text from r and resolves its imports and
// field options, returning the queryable Schema. Any lex, parse, import or
// option resolution failure aborts the pass; no partial Schema is returned.
func (c *Compiler) Compile(name string, r io.Reader) (*Schema, error) {
	sf, err := ParseSource(name, r)
	if err != nil {
		return nil, err
	}
	c.logger.Debug().
		Str("file", name).
		Int("messages", len(sf.Messages)).
		Int("imports", len(sf.Dependencies)+len(sf.PublicDependencies)).
		Msg("parsed schema file")

	table := newSymbolTable()
	table.collect(sf)
	loading := []string{name}
	if err := c.loadImports(sf, table, loading); err != nil {
		return nil, err
	}
	c.logger.Debug().
		Str("file", name).
		Int("extensions", len(table.extensions)).
		Msg("resolved imports")

	resolved, err := resolveOptions(sf, table)
	if err != nil {
		return nil, err
	}
	c.logger.Debug().
		Str("file", name).
		Int("fields", len(resolved)).
		Msg("resolved field options")

	return newSchema(sf, resolved), nil
}

// CompileFile parses and resolves the schema file at the given path.
// Imports are resolved relative to the file's directory unless the
// Compiler was created with its own provider.
func (c *Compiler) CompileFile(path string) (*Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	compiler := c
	if c.provider == nil {
		compiler = &Compiler{
			provider: &dirImportProvider{dir: filepath.Dir(path)},
			logger:   c.logger,
		}
	}
	return compiler.Compile(path, strings.NewReader(string(raw)))
}

// CompileFiles parses and resolves several independent schema files
// concurrently. Results are returned in input order. The first failure
// cancels the batch and is returned; per-file passes share no mutable
// state, so concurrency only requires the import provider to tolerate
// concurrent reads.
func (c *Compiler) CompileFiles(paths ...string) ([]*Schema, error) {
	schemas := make([]*Schema, len(paths))
	var eg errgroup.Group
	for i, path := range paths {
		i, path := i, path
		eg.Go(func() error {
			schema, err := c.CompileFile(path)
			if err != nil {
				return err
			}
			schemas[i] = schema
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return schemas, nil
}

// loadImports parses every import of sf through the provider and merges
// the extension and enum declarations of each imported file into the
// table. Imports are followed recursively; loading tracks the chain of
// files currently being loaded so that a cycle fails rather than loops.
func (c *Compiler) loadImports(sf *SchemaFile, table *symbolTable, loading []string) error {
	deps := append(append([]string{}, sf.Dependencies...), sf.PublicDependencies...)
	for _, dep := range deps {
		for _, active := range loading {
			if active == dep {
				return &ImportCycleError{Path: dep, Chain: append(append([]string{}, loading...), dep)}
			}
		}
		if table.loaded[dep] {
			continue
		}
		table.loaded[dep] = true

		if c.provider == nil {
			return &ImportNotFoundError{Path: dep, Err: fmt.Errorf("no import provider configured")}
		}
		r, err := c.provider.Provide(dep)
		if err != nil {
			return &ImportNotFoundError{Path: dep, Err: err}
		}
		imported, err := ParseSource(dep, r)
		if err != nil {
			return err
		}
		table.collect(imported)
		if err := c.loadImports(imported, table, append(loading, dep)); err != nil {
			return err
		}
	}
	return nil
}

// Parse parses schema source text from r, resolving imports through p, and
// returns the resolved Schema. It is the convenience form of
// NewCompiler(p).Compile with a generated file name.
func Parse(r io.Reader, p ImportProvider) (*Schema, error) {
	return NewCompiler(p).Compile("<input>", r)
}

// ParseFile parses and resolves the schema file at the given path, loading
// imports from the directory the file resides in.
func ParseFile(path string) (*Schema, error) {
	return NewCompiler(nil).CompileFile(path)
}

// symbolTable is the flat registry of extension and enum declarations
// merged across the main file and everything it imports. It is an open
// registry: any imported file can add extension declarations without the
// option resolver changing.
type symbolTable struct {
	extensions map[string]*ExtensionDecl
	enums      map[string]*EnumElement
	loaded     map[string]bool
}

func newSymbolTable() *symbolTable {
	return &symbolTable{
		extensions: map[string]*ExtensionDecl{},
		enums:      map[string]*EnumElement{},
		loaded:     map[string]bool{},
	}
}

// collect registers the extension declarations and enums of one parsed
// file under their fully-qualified names.
func (t *symbolTable) collect(sf *SchemaFile) {
	prefix := ""
	if sf.PackageName != "" {
		prefix = sf.PackageName + "."
	}

	for i := range sf.Enums {
		t.enums[sf.Enums[i].QualifiedName] = &sf.Enums[i]
	}
	for i := range sf.Messages {
		t.collectMessage(&sf.Messages[i])
	}
	for _, ed := range sf.ExtendDeclarations {
		for _, fe := range ed.Fields {
			decl := &ExtensionDecl{
				Name:     prefix + fe.Name,
				Target:   ed.QualifiedName,
				Type:     fe.Type,
				Repeated: fe.Label == "repeated",
				Tag:      fe.Tag,
				Package:  sf.PackageName,
			}
			t.extensions[decl.Name] = decl
		}
	}
}

func (t *symbolTable) collectMessage(me *MessageElement) {
	for i := range me.Enums {
		t.enums[me.Enums[i].QualifiedName] = &me.Enums[i]
	}
	for i := range me.Messages {
		t.collectMessage(&me.Messages[i])
	}
}

// lookupEnum finds an enum declaration by reference. Unqualified references
// are tried against the given package first.
func (t *symbolTable) lookupEnum(name string, pkg string) *EnumElement {
	name = strings.TrimPrefix(name, ".")
	if !strings.Contains(name, ".") && pkg != "" {
		if ee, ok := t.enums[pkg+"."+name]; ok {
			return ee
		}
	}
	return t.enums[name]
}
