package chunker_test

import (
	"testing"

	"cortex/internal/chunker"
	"cortex/internal/chunker/languages"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPythonExtraction(t *testing.T) {
	src := []byte(`def foo():
    x = 1
    return x

class Bar:
    def baz(self):
        return 2
`)

	c := chunker.NewASTChunker(languages.Default())
	chunks, err := c.Load("pkg/sample.py", src)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, "foo", chunks[0].Meta.Name)
	assert.Equal(t, "function_definition", chunks[0].Meta.NodeKind)
	assert.Equal(t, 1, chunks[0].Meta.StartLine)
	assert.Equal(t, 3, chunks[0].Meta.EndLine)
	assert.Empty(t, chunks[0].Meta.EnclosingName)

	assert.Equal(t, "Bar", chunks[1].Meta.Name)
	assert.Equal(t, "class_definition", chunks[1].Meta.NodeKind)

	assert.Equal(t, "baz", chunks[2].Meta.Name)
	assert.Equal(t, "Bar", chunks[2].Meta.EnclosingName)
	assert.Contains(t, chunks[2].Content, "// Class: Bar\n")

	for _, ch := range chunks {
		assert.Equal(t, "python", ch.Meta.Language)
		assert.Equal(t, chunker.MethodAST, ch.Meta.Method)
	}
}

func TestLoadExportedDeclarations(t *testing.T) {
	src := []byte(`export function greet(name) {
    return "hello " + name;
}

export class Store {
    get(key) { return this.data[key]; }
}
`)

	c := chunker.NewASTChunker(languages.Default())
	chunks, err := c.Load("web/store.js", src)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	var names []string
	for _, ch := range chunks {
		names = append(names, ch.Meta.Name)
	}
	assert.Contains(t, names, "greet", "exported function keeps its own name")
	assert.Contains(t, names, "Store")
}

func TestLoadUnsupportedExtensionFallsBack(t *testing.T) {
	src := []byte("key: value\nother: thing\n")

	c := chunker.NewASTChunker(languages.Default())
	chunks, err := c.Load("config.yaml", src)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, chunker.MethodSimple, chunks[0].Meta.Method)
	assert.Contains(t, chunks[0].Content, "// File: config.yaml\n")
}

func TestLoadNothingExtractableFallsBack(t *testing.T) {
	// Valid Python with no extractable construct still yields one chunk.
	src := []byte("x = 1\n")

	c := chunker.NewASTChunker(languages.Default())
	chunks, err := c.Load("tiny.py", src)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, chunker.MethodSimple, chunks[0].Meta.Method)
}

func TestLoadBinaryContent(t *testing.T) {
	c := chunker.NewASTChunker(languages.Default())
	_, err := c.Load("data.py", []byte{0x00, 0xff, 0xfe})
	require.Error(t, err)
	assert.ErrorIs(t, err, chunker.ErrBinaryFile)
}

func TestLoadGoDeclarations(t *testing.T) {
	src := []byte(`package kv

type Store struct {
	data map[string]string
}

func (s *Store) Get(key string) string {
	return s.data[key]
}
`)

	c := chunker.NewASTChunker(languages.Default())
	chunks, err := c.Load("kv/store.go", src)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "Store", chunks[0].Meta.Name)
	assert.Equal(t, "type_declaration", chunks[0].Meta.NodeKind)
	assert.Equal(t, "Get", chunks[1].Meta.Name)
	assert.Equal(t, "method_declaration", chunks[1].Meta.NodeKind)
}
