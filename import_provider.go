package pbschema

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ImportProvider is the interface which given a schema import path returns a
// reader for it.
//
// The imported file could be on disk or elsewhere. In order for the pbschema
// library to not be tied in to a specific method of reading the imports, it
// exposes this interface to the clients. The clients must provide an
// implementation of this interface which knows how to interpret the import
// path & returns a reader for the file. This is needed if the client is
// calling the Parse() function or using a Compiler directly.
//
// If the client knows the imports are on disk, they can instead call the
// ParseFile() function which internally creates a default provider that
// resolves imports relative to the directory of the parsed file.
//
// Implementations must be safe for concurrent use; batch compilation reads
// from the provider from multiple goroutines.
type ImportProvider interface {
	Provide(path string) (io.Reader, error)
}

// dirImportProvider is the default implementation of the ImportProvider
// interface. It resolves import paths against a base directory on disk.
type dirImportProvider struct {
	dir string
}

func (pi *dirImportProvider) Provide(path string) (io.Reader, error) {
	resolved := filepath.Join(pi.dir, filepath.FromSlash(path))

	// read the file contents & create a reader...
	raw, err := os.ReadFile(resolved)
	if err != nil {
		return nil, err
	}
	return strings.NewReader(string(raw)), nil
}
