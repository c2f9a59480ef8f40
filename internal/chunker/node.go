package chunker

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// SyntaxNode is the read-only view of a parsed syntax tree node that the
// walker and builder operate on. Keeping this as an interface means the
// extraction logic is independent of any particular parser, and tests can
// drive it with hand-built trees.
type SyntaxNode interface {
	// Kind returns the grammar's node-type name (e.g. "function_definition").
	Kind() string
	ChildCount() int
	Child(i int) SyntaxNode
	// StartLine and EndLine are 1-based and inclusive.
	StartLine() int
	EndLine() int
	// Text returns the exact source slice covered by the node.
	Text() string
}

// sitterNode adapts a tree-sitter node to the SyntaxNode view. The source
// buffer is carried alongside so Text() can slice without copying the tree.
type sitterNode struct {
	n   *sitter.Node
	src []byte
}

func (s sitterNode) Kind() string    { return s.n.Type() }
func (s sitterNode) ChildCount() int { return int(s.n.ChildCount()) }

func (s sitterNode) Child(i int) SyntaxNode {
	return sitterNode{n: s.n.Child(i), src: s.src}
}

func (s sitterNode) StartLine() int { return int(s.n.StartPoint().Row) + 1 }
func (s sitterNode) EndLine() int   { return int(s.n.EndPoint().Row) + 1 }

func (s sitterNode) Text() string {
	return string(s.src[s.n.StartByte():s.n.EndByte()])
}

// parseTree parses source with a fresh tree-sitter parser. Parsers are cheap
// to create and are not safe for concurrent use, so each call gets its own.
// The caller must call the returned closer once it is done with the nodes.
func parseTree(lang *sitter.Language, src []byte) (SyntaxNode, func(), error) {
	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, nil, fmt.Errorf("parse: %w", err)
	}
	return sitterNode{n: tree.RootNode(), src: src}, func() { tree.Close() }, nil
}
