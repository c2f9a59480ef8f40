// Package chunker turns source files into retrievable chunks. For languages
// with a registered tree-sitter grammar it extracts semantic units (functions,
// classes, methods) by walking the syntax tree against a per-language
// classification table; everything else falls back to a single whole-file
// chunk.
package chunker

import (
	"fmt"
	"os"
	"unicode/utf8"
)

// ASTChunker parses source files and extracts enriched semantic chunks.
// It is safe for concurrent use: every parse gets its own parser instance.
type ASTChunker struct {
	registry *Registry
}

// NewASTChunker creates a chunker backed by the given registry.
func NewASTChunker(r *Registry) *ASTChunker {
	return &ASTChunker{registry: r}
}

// Load chunks one file. Parse failures and unsupported extensions are not
// errors — they degrade to the whole-file fallback. The only error returned
// is ErrBinaryFile for non-text content, which the caller should skip.
func (c *ASTChunker) Load(path string, src []byte) ([]Chunk, error) {
	if !utf8.Valid(src) {
		return nil, fmt.Errorf("%s: %w", path, ErrBinaryFile)
	}

	spec, lang := c.registry.Lookup(path)
	if spec == nil {
		fc, err := SimpleChunk(path, src)
		if err != nil {
			return nil, err
		}
		return []Chunk{fc}, nil
	}

	root, closeTree, err := parseTree(spec.Language, src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse failed for %s: %v — falling back to whole-file chunk\n", path, err)
		fc, serr := SimpleChunk(path, src)
		if serr != nil {
			return nil, serr
		}
		return []Chunk{fc}, nil
	}
	defer closeTree()

	var chunks []Chunk
	for _, cand := range Collect(root, spec.Kinds) {
		if ch, ok := Build(path, lang, cand); ok {
			chunks = append(chunks, ch)
		}
	}

	// A supported file that produced nothing (all degenerate, or syntax the
	// table doesn't know) still deserves a whole-file chunk.
	if len(chunks) == 0 {
		fc, err := SimpleChunk(path, src)
		if err != nil {
			return nil, err
		}
		return []Chunk{fc}, nil
	}

	return chunks, nil
}
