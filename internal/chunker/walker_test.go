package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNode is a hand-built syntax tree node for walker tests.
type fakeNode struct {
	kind      string
	text      string
	startLine int
	endLine   int
	children  []*fakeNode
}

func (f *fakeNode) Kind() string           { return f.kind }
func (f *fakeNode) ChildCount() int        { return len(f.children) }
func (f *fakeNode) Child(i int) SyntaxNode { return f.children[i] }
func (f *fakeNode) StartLine() int         { return f.startLine }
func (f *fakeNode) EndLine() int           { return f.endLine }
func (f *fakeNode) Text() string           { return f.text }

func ident(name string) *fakeNode {
	return &fakeNode{kind: "identifier", text: name}
}

func TestCollectContainerEmitsSelfAndMembers(t *testing.T) {
	method := &fakeNode{
		kind:     "function_definition",
		text:     "def area(self): ...",
		children: []*fakeNode{ident("area")},
	}
	body := &fakeNode{kind: "block", children: []*fakeNode{method}}
	class := &fakeNode{
		kind:     "class_definition",
		text:     "class Circle: ...",
		children: []*fakeNode{ident("Circle"), body},
	}
	root := &fakeNode{kind: "module", children: []*fakeNode{class}}

	table := KindTable{
		Extract:   Kinds("function_definition", "class_definition"),
		Container: Kinds("class_definition"),
	}

	cands := Collect(root, table)
	require.Len(t, cands, 2)

	assert.Equal(t, "class_definition", cands[0].Node.Kind())
	assert.Equal(t, "", cands[0].Enclosing)

	assert.Equal(t, "function_definition", cands[1].Node.Kind())
	assert.Equal(t, "Circle", cands[1].Enclosing, "members inherit the container's name")
}

func TestCollectIgnoredWrapperIsTransparent(t *testing.T) {
	fn := &fakeNode{
		kind:     "function_declaration",
		text:     "function greet() {}",
		children: []*fakeNode{ident("greet")},
	}
	export := &fakeNode{kind: "export_statement", children: []*fakeNode{fn}}
	root := &fakeNode{kind: "program", children: []*fakeNode{export}}

	table := KindTable{Extract: Kinds("function_declaration")}

	cands := Collect(root, table)
	require.Len(t, cands, 1)
	assert.Equal(t, "function_declaration", cands[0].Node.Kind())
	assert.Equal(t, "", cands[0].Enclosing)
	assert.Equal(t, "greet", NodeName(cands[0].Node))
}

func TestCollectDocumentOrder(t *testing.T) {
	first := &fakeNode{kind: "function_definition", text: "def a(): ...", children: []*fakeNode{ident("a")}}
	second := &fakeNode{kind: "function_definition", text: "def b(): ...", children: []*fakeNode{ident("b")}}
	third := &fakeNode{kind: "function_definition", text: "def c(): ...", children: []*fakeNode{ident("c")}}
	root := &fakeNode{kind: "module", children: []*fakeNode{first, second, third}}

	table := KindTable{Extract: Kinds("function_definition")}

	cands := Collect(root, table)
	require.Len(t, cands, 3)

	var names []string
	for _, c := range cands {
		names = append(names, NodeName(c.Node))
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)
}

func TestCollectExtractableDoesNotDescend(t *testing.T) {
	inner := &fakeNode{kind: "function_definition", text: "def inner(): ...", children: []*fakeNode{ident("inner")}}
	outer := &fakeNode{
		kind:     "function_definition",
		text:     "def outer(): ...",
		children: []*fakeNode{ident("outer"), {kind: "block", children: []*fakeNode{inner}}},
	}
	root := &fakeNode{kind: "module", children: []*fakeNode{outer}}

	table := KindTable{Extract: Kinds("function_definition")}

	cands := Collect(root, table)
	require.Len(t, cands, 1)
	assert.Equal(t, "outer", NodeName(cands[0].Node))
}

func TestCollectDeepTree(t *testing.T) {
	// A pathologically deep chain of ignored wrappers must not blow the stack.
	leaf := &fakeNode{kind: "function_definition", text: "def deep(): ...", children: []*fakeNode{ident("deep")}}
	node := leaf
	for range 50000 {
		node = &fakeNode{kind: "parenthesized_expression", children: []*fakeNode{node}}
	}
	root := &fakeNode{kind: "module", children: []*fakeNode{node}}

	table := KindTable{Extract: Kinds("function_definition")}

	cands := Collect(root, table)
	require.Len(t, cands, 1)
	assert.Equal(t, "deep", NodeName(cands[0].Node))
}
