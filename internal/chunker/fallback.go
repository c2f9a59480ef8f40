package chunker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrBinaryFile marks a file whose bytes are not valid UTF-8 text. Callers
// skip such files and keep going.
var ErrBinaryFile = errors.New("not a text file")

// SimpleExtensions lists extensions that are worth indexing as whole files
// even though no grammar is registered for them: plain-load code, config,
// and docs. Extensions with grammars never reach this table.
var SimpleExtensions = map[string]bool{
	"html": true, "css": true, "json": true,
	"c": true, "cpp": true, "h": true, "java": true, "rs": true,
	"md": true, "txt": true, "rst": true, "yaml": true, "yml": true,
}

// SimpleChunk builds the single whole-file chunk used when AST extraction is
// unavailable or produced nothing. The only metadata is file identity; there
// is no line range and no node kind.
func SimpleChunk(path string, src []byte) (Chunk, error) {
	if !utf8.Valid(src) {
		return Chunk{}, fmt.Errorf("%s: %w", path, ErrBinaryFile)
	}
	header := fmt.Sprintf("// File: %s\n", filepath.Base(path))
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return Chunk{
		Content: header + string(src),
		Meta: Metadata{
			SourcePath: path,
			Filename:   filepath.Base(path),
			Extension:  filepath.Ext(path),
			Language:   ext,
			Method:     MethodSimple,
		},
	}, nil
}

// LoadWholeFile reads a file and returns its whole-file chunk. Unreadable or
// binary files yield an empty slice, never an error — the caller just moves
// on to the next file.
func LoadWholeFile(path string) []Chunk {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	c, err := SimpleChunk(path, src)
	if err != nil {
		return nil
	}
	return []Chunk{c}
}
