package chunker

import (
	"fmt"
	"path/filepath"
	"strings"
)

// AnonymousName is the sentinel used when no identifier can be found for a
// node. Header enrichment and source annotations skip it.
const AnonymousName = "anonymous"

// minChunkChars is the smallest trimmed source slice worth chunking. Anything
// shorter is a degenerate construct (an empty export, a bare semicolon) and
// gets dropped.
const minChunkChars = 10

// Method records how a chunk was extracted.
type Method string

const (
	MethodAST    Method = "ast"
	MethodSimple Method = "simple"
)

// Metadata is the flat per-chunk metadata stored alongside the content.
// StartLine/EndLine are 1-based and always set for AST chunks; zero means
// absent (simple-loaded chunks carry no line range).
type Metadata struct {
	SourcePath    string `json:"source_path"`
	Filename      string `json:"filename"`
	Extension     string `json:"extension"`
	NodeKind      string `json:"node_kind,omitempty"`
	Name          string `json:"name"`
	EnclosingName string `json:"enclosing_name"`
	StartLine     int    `json:"start_line,omitempty"`
	EndLine       int    `json:"end_line,omitempty"`
	Language      string `json:"language"`
	Method        Method `json:"extraction_method"`
}

// Chunk is the unit of retrieval: enriched text plus metadata. Chunks are
// immutable once built.
type Chunk struct {
	Content string
	Meta    Metadata
}

// identifierKinds are the node kinds that carry a construct's name across the
// supported grammars.
var identifierKinds = map[string]bool{
	"identifier":          true,
	"property_identifier": true,
	"type_identifier":     true,
	"field_identifier":    true,
}

// NodeName extracts the identifier of a function, class, interface, etc.
// It looks for a direct identifier-like child first; for wrapper nodes it
// descends into children whose kind looks like a declaration and retries.
// When nothing is found it returns the anonymous sentinel.
func NodeName(n SyntaxNode) string {
	for i := 0; i < n.ChildCount(); i++ {
		if identifierKinds[n.Child(i).Kind()] {
			return n.Child(i).Text()
		}
	}
	for i := 0; i < n.ChildCount(); i++ {
		kind := n.Child(i).Kind()
		// "declarat" matches both declaration wrappers and declarator nodes
		// (a const binding names its function through variable_declarator);
		// "spec" covers Go's type_spec inside a type_declaration.
		if strings.Contains(kind, "declarat") || strings.Contains(kind, "definition") || strings.Contains(kind, "spec") {
			return NodeName(n.Child(i))
		}
	}
	return AnonymousName
}

// Build converts a candidate into a finished chunk. It returns false when the
// candidate is degenerate (below the minimum content threshold).
//
// The header lines exist so that an isolated chunk still embeds well: a bare
// method body without its class name is a poor similarity target. They are
// comment-style regardless of the chunk's language.
func Build(path, lang string, cand Candidate) (Chunk, bool) {
	text := cand.Node.Text()
	if len(strings.TrimSpace(text)) < minChunkChars {
		return Chunk{}, false
	}

	name := NodeName(cand.Node)

	var header strings.Builder
	fmt.Fprintf(&header, "// File: %s\n", filepath.Base(path))
	if cand.Enclosing != "" && cand.Enclosing != AnonymousName {
		fmt.Fprintf(&header, "// Class: %s\n", cand.Enclosing)
	}
	if name != AnonymousName {
		fmt.Fprintf(&header, "// %s: %s\n", cand.Node.Kind(), name)
	}

	return Chunk{
		Content: header.String() + text,
		Meta: Metadata{
			SourcePath:    path,
			Filename:      filepath.Base(path),
			Extension:     filepath.Ext(path),
			NodeKind:      cand.Node.Kind(),
			Name:          name,
			EnclosingName: cand.Enclosing,
			StartLine:     cand.Node.StartLine(),
			EndLine:       cand.Node.EndLine(),
			Language:      lang,
			Method:        MethodAST,
		},
	}, true
}
