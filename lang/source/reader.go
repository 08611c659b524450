package source

import (
	"fmt"
	"os"
	"path/filepath"
)

// Reader resolves a logical source file name to its raw text. The core
// depends only on this interface (spec §1): "a source-text provider keyed
// by logical file name". Tests typically supply an in-memory Reader; the
// CLI collaborator in cmd/boolc uses FileReader.
type Reader interface {
	ReadSource(name string) ([]byte, error)
}

// FileReader resolves logical file names against a base directory on disk,
// the default, ambient implementation of Reader.
type FileReader struct {
	Dir string
}

func (r FileReader) ReadSource(name string) ([]byte, error) {
	path := name
	if r.Dir != "" {
		path = filepath.Join(r.Dir, name)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return b, nil
}

// MapReader resolves logical file names against an in-memory map, used by
// tests that exercise #include expansion without touching disk.
type MapReader map[string]string

func (r MapReader) ReadSource(name string) ([]byte, error) {
	src, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("read %s: no such source", name)
	}
	return []byte(src), nil
}
