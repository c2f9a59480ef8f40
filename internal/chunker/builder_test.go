package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRejectsTinyCandidates(t *testing.T) {
	cand := Candidate{Node: &fakeNode{kind: "expression_statement", text: "x;"}}
	_, ok := Build("app.js", "javascript", cand)
	assert.False(t, ok)

	// Whitespace padding does not rescue a degenerate slice.
	cand = Candidate{Node: &fakeNode{kind: "expression_statement", text: "   x;   \n\n"}}
	_, ok = Build("app.js", "javascript", cand)
	assert.False(t, ok)
}

func TestBuildHeaderAndMetadata(t *testing.T) {
	fn := &fakeNode{
		kind:      "function_definition",
		text:      "def compute(rows):\n    return len(rows)",
		startLine: 10,
		endLine:   11,
		children:  []*fakeNode{ident("compute")},
	}
	cand := Candidate{Node: fn, Enclosing: "Report"}

	chunk, ok := Build("src/report.py", "python", cand)
	require.True(t, ok)

	lines := strings.Split(chunk.Content, "\n")
	assert.Equal(t, "// File: report.py", lines[0])
	assert.Equal(t, "// Class: Report", lines[1])
	assert.Equal(t, "// function_definition: compute", lines[2])
	assert.Equal(t, "def compute(rows):", lines[3])

	m := chunk.Meta
	assert.Equal(t, "src/report.py", m.SourcePath)
	assert.Equal(t, "report.py", m.Filename)
	assert.Equal(t, ".py", m.Extension)
	assert.Equal(t, "function_definition", m.NodeKind)
	assert.Equal(t, "compute", m.Name)
	assert.Equal(t, "Report", m.EnclosingName)
	assert.Equal(t, 10, m.StartLine)
	assert.Equal(t, 11, m.EndLine)
	assert.Equal(t, "python", m.Language)
	assert.Equal(t, MethodAST, m.Method)
}

func TestBuildAnonymousOmitsNameLine(t *testing.T) {
	fn := &fakeNode{
		kind:      "arrow_function",
		text:      "(a, b) => a + b + someLongEnoughBody",
		startLine: 3,
		endLine:   3,
	}
	chunk, ok := Build("util.js", "javascript", Candidate{Node: fn})
	require.True(t, ok)

	assert.Equal(t, AnonymousName, chunk.Meta.Name)
	assert.NotContains(t, chunk.Content, "// arrow_function:")
	assert.True(t, strings.HasPrefix(chunk.Content, "// File: util.js\n"))
}

func TestBuildAnonymousEnclosingOmitted(t *testing.T) {
	fn := &fakeNode{
		kind:      "function_definition",
		text:      "def helper():\n    return 1",
		startLine: 5,
		endLine:   6,
		children:  []*fakeNode{ident("helper")},
	}
	chunk, ok := Build("lib.py", "python", Candidate{Node: fn, Enclosing: AnonymousName})
	require.True(t, ok)
	assert.NotContains(t, chunk.Content, "// Class:")
}

func TestNodeNameDescendsIntoDeclarations(t *testing.T) {
	// An export wrapper with no identifier of its own takes its name from
	// the declaration inside it.
	fn := &fakeNode{kind: "function_declaration", children: []*fakeNode{ident("handler")}}
	export := &fakeNode{kind: "export_statement", children: []*fakeNode{fn}}
	assert.Equal(t, "handler", NodeName(export))

	// A const binding names its value through the declarator.
	decl := &fakeNode{kind: "variable_declarator", children: []*fakeNode{ident("makeClient")}}
	lexical := &fakeNode{kind: "lexical_declaration", children: []*fakeNode{{kind: "const"}, decl}}
	assert.Equal(t, "makeClient", NodeName(lexical))

	// Python decorated definitions behave the same way.
	def := &fakeNode{kind: "function_definition", children: []*fakeNode{ident("cached_fetch")}}
	decorated := &fakeNode{kind: "decorated_definition", children: []*fakeNode{{kind: "decorator"}, def}}
	assert.Equal(t, "cached_fetch", NodeName(decorated))
}

func TestNodeNameAnonymous(t *testing.T) {
	n := &fakeNode{kind: "arrow_function", children: []*fakeNode{{kind: "formal_parameters"}}}
	assert.Equal(t, AnonymousName, NodeName(n))
}
