package index

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"cortex/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func fixtureTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFixture(t, dir, "a.py", "def foo():\n    x = 1\n    return x\n")
	writeFixture(t, dir, "b.py", "class Bar:\n    def baz(self):\n        return 2\n")
	return dir
}

// memHashes is an in-memory FileHashes for pipeline tests.
type memHashes struct {
	mu sync.Mutex
	m  map[string]string
}

func newMemHashes() *memHashes { return &memHashes{m: make(map[string]string)} }

func (h *memHashes) GetFileHash(path string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.m[path], nil
}

func (h *memHashes) SetFileHash(path, hash string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.m[path] = hash
	return nil
}

func TestIndexEndToEnd(t *testing.T) {
	dir := fixtureTree(t)
	gw := store.NewMemoryGateway()

	idx := New(gw, nil, Config{Workers: 2})
	stats, err := idx.Index(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.FilesTotal)
	assert.Equal(t, 2, stats.FilesIndexed)
	assert.Equal(t, 0, stats.FilesFailed)
	assert.Equal(t, 3, stats.ChunksTotal, "foo, Bar, and baz")
	assert.Equal(t, 3, stats.ASTChunks)

	count, err := gw.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	hits, err := gw.Query(context.Background(), "class Bar baz", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "b.py", hits[0].Meta.Filename)
}

func TestIndexIsIdempotent(t *testing.T) {
	dir := fixtureTree(t)
	gw := store.NewMemoryGateway()
	idx := New(gw, nil, Config{Workers: 2})

	_, err := idx.Index(context.Background(), dir)
	require.NoError(t, err)
	_, err = idx.Index(context.Background(), dir)
	require.NoError(t, err)

	count, err := gw.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count, "re-indexing must not duplicate documents")
}

func TestIndexBatchSizeDoesNotChangeState(t *testing.T) {
	dir := fixtureTree(t)

	small := store.NewMemoryGateway()
	_, err := New(small, nil, Config{Workers: 1, BatchSize: 1}).Index(context.Background(), dir)
	require.NoError(t, err)

	large := store.NewMemoryGateway()
	_, err = New(large, nil, Config{Workers: 1, BatchSize: 100}).Index(context.Background(), dir)
	require.NoError(t, err)

	cs, err := small.Count(context.Background())
	require.NoError(t, err)
	cl, err := large.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cl, cs)

	hs, err := small.Query(context.Background(), "def foo", 10)
	require.NoError(t, err)
	hl, err := large.Query(context.Background(), "def foo", 10)
	require.NoError(t, err)
	assert.Equal(t, hl, hs)
}

func TestIndexSkipsUnchangedFiles(t *testing.T) {
	dir := fixtureTree(t)
	gw := store.NewMemoryGateway()
	hashes := newMemHashes()
	idx := New(gw, hashes, Config{Workers: 2})

	stats, err := idx.Index(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.FilesIndexed)
	assert.Equal(t, 0, stats.FilesSkipped)

	stats, err = idx.Index(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.FilesIndexed)
	assert.Equal(t, 2, stats.FilesSkipped)

	// Touching one file re-indexes only that file.
	writeFixture(t, dir, "a.py", "def foo():\n    x = 2\n    return x\n")
	stats, err = idx.Index(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FilesIndexed)
	assert.Equal(t, 1, stats.FilesSkipped)
}

func TestIndexSimpleFileSplits(t *testing.T) {
	dir := t.TempDir()
	content := ""
	for range 50 {
		content += "some documentation line with words\n"
	}
	writeFixture(t, dir, "guide.md", content)

	gw := store.NewMemoryGateway()
	stats, err := New(gw, nil, Config{Workers: 1}).Index(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.FilesIndexed)
	assert.Equal(t, 0, stats.ASTChunks)
	assert.Equal(t, stats.ChunksTotal, stats.SimpleChunks)
	assert.Greater(t, stats.SimpleChunks, 1, "a 50-line file spans multiple windows")
}
