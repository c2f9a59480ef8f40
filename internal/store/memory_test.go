package store

import (
	"context"
	"testing"

	"cortex/internal/chunker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGatewayUpsertIdempotent(t *testing.T) {
	gw := NewMemoryGateway()
	ctx := context.Background()

	ids := []string{"id1", "id2"}
	texts := []string{"def foo(): pass", "class Bar: pass"}
	metas := []chunker.Metadata{{Name: "foo"}, {Name: "Bar"}}

	require.NoError(t, gw.Upsert(ctx, ids, texts, metas))
	require.NoError(t, gw.Upsert(ctx, ids, texts, metas))

	count, err := gw.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMemoryGatewayUpsertMismatchedLengths(t *testing.T) {
	gw := NewMemoryGateway()
	err := gw.Upsert(context.Background(), []string{"a"}, []string{"x", "y"}, []chunker.Metadata{{}})
	require.Error(t, err)
	var ge *GatewayError
	assert.ErrorAs(t, err, &ge)
}

func TestMemoryGatewayQueryRanking(t *testing.T) {
	gw := NewMemoryGateway()
	ctx := context.Background()

	require.NoError(t, gw.Upsert(ctx,
		[]string{"a", "b", "c"},
		[]string{
			"parse the request body into a struct",
			"open the database connection pool",
			"parse the config file and request defaults",
		},
		[]chunker.Metadata{{Name: "parseBody"}, {Name: "openDB"}, {Name: "parseConfig"}},
	))

	hits, err := gw.Query(ctx, "parse request", 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Greater(t, hits[0].Score, 0.0)
	assert.GreaterOrEqual(t, hits[0].Score, hits[1].Score)
	assert.Equal(t, "parseBody", hits[0].Meta.Name)
}

func TestMemoryGatewayQueryTopK(t *testing.T) {
	gw := NewMemoryGateway()
	ctx := context.Background()

	require.NoError(t, gw.Upsert(ctx,
		[]string{"a", "b", "c"},
		[]string{"alpha token", "alpha token", "alpha token"},
		make([]chunker.Metadata, 3),
	))

	hits, err := gw.Query(ctx, "alpha", 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)

	hits, err = gw.Query(ctx, "alpha", 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestMemoryGatewayQueryNoMatch(t *testing.T) {
	gw := NewMemoryGateway()
	ctx := context.Background()

	require.NoError(t, gw.Upsert(ctx, []string{"a"}, []string{"completely unrelated"}, make([]chunker.Metadata, 1)))

	hits, err := gw.Query(ctx, "zebra", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestMemoryGatewayReset(t *testing.T) {
	gw := NewMemoryGateway()
	ctx := context.Background()

	require.NoError(t, gw.Upsert(ctx, []string{"a"}, []string{"text here"}, make([]chunker.Metadata, 1)))
	gw.Reset()

	count, err := gw.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
