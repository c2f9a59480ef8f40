package index

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"cortex/internal/chunker"
)

// Window constants for splitting simple-loaded chunks. AST chunks are never
// split here: they are already bounded by syntactic structure.
const (
	windowLines   = 40
	windowOverlap = 10
)

// Document is a chunk ready for gateway upsert, with its content identifier
// computed.
type Document struct {
	ID   string
	Text string
	Meta chunker.Metadata
}

// ContentID derives the deterministic storage identifier for a chunk:
// a truncated hash of (source path, line key, name). Re-indexing unchanged
// source reproduces the same IDs, which is what makes upserts idempotent.
func ContentID(sourcePath string, lineKey int, name string) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s:%d:%s", sourcePath, lineKey, name))
	return hex.EncodeToString(sum[:8])
}

// Assemble prepares one file's chunks for storage. AST chunks pass through
// unchanged; simple chunks are split into fixed-size overlapping line windows
// to bound embedding input size. Every resulting document gets a content
// identifier keyed by its position, so windows of the same file never collide.
func Assemble(chunks []chunker.Chunk) []Document {
	var docs []Document
	for _, c := range chunks {
		if c.Meta.Method == chunker.MethodAST {
			docs = append(docs, Document{
				ID:   ContentID(c.Meta.SourcePath, c.Meta.StartLine, c.Meta.Name),
				Text: c.Content,
				Meta: c.Meta,
			})
			continue
		}
		docs = append(docs, splitSimple(c)...)
	}
	return docs
}

// splitSimple windows a whole-file chunk at line boundaries. Window positions
// feed the content identifier but are not surfaced as line metadata: simple
// chunks carry no source line range.
func splitSimple(c chunker.Chunk) []Document {
	lines := strings.Split(c.Content, "\n")

	var docs []Document
	for i := 0; i < len(lines); {
		end := min(i+windowLines, len(lines))

		docs = append(docs, Document{
			ID:   ContentID(c.Meta.SourcePath, i+1, c.Meta.Name),
			Text: strings.Join(lines[i:end], "\n"),
			Meta: c.Meta,
		})

		if end >= len(lines) {
			break
		}
		i += windowLines - windowOverlap
	}
	return docs
}
