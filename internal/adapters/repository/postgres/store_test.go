package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/flowgraph/randgraph/internal/core/archive"
	"github.com/flowgraph/randgraph/internal/core/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("RANDGRAPH_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("Integration test requires PostgreSQL; set RANDGRAPH_TEST_DATABASE_URL")
	}

	ctx := context.Background()
	store, err := Connect(ctx, url, nil)
	require.NoError(t, err)
	defer store.Close()

	r := &archive.Record{
		ID:        "pg-test-1",
		Vertices:  5,
		Edges:     []graph.Edge{{U: 1, V: 2}, {U: 4, V: 5}},
		Seed:      42,
		Output:    "graph.txt",
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, store.Save(ctx, r))
	defer store.Delete(ctx, r.ID)

	loaded, err := store.Load(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.Edges, loaded.Edges)
	assert.Equal(t, r.Seed, loaded.Seed)
	assert.True(t, r.CreatedAt.Equal(loaded.CreatedAt))

	listed, err := store.List(ctx, archive.Filter{Vertices: 5, Limit: 100})
	require.NoError(t, err)
	assert.NotEmpty(t, listed)
}

func TestPostgresStore_Errors(t *testing.T) {
	ctx := context.Background()

	// No pool: every call below must fail before touching the database
	store := NewStore(nil, nil)

	assert.Equal(t, archive.ErrNilRecord, store.Save(ctx, nil))
	assert.ErrorIs(t, store.Save(ctx, &archive.Record{Vertices: 2}), archive.ErrInvalidRecordID)

	_, err := store.Load(ctx, "")
	assert.Equal(t, archive.ErrInvalidRecordID, err)

	assert.Equal(t, archive.ErrInvalidRecordID, store.Delete(ctx, ""))

	_, err = store.List(ctx, archive.Filter{Limit: -1})
	assert.ErrorIs(t, err, archive.ErrInvalidLimit)
}

func TestPostgresStore_BuildListQuery(t *testing.T) {
	store := NewStore(nil, nil)
	since := time.Unix(0, 0)

	query, args := store.buildListQuery(archive.Filter{Vertices: 5, Since: &since, Limit: 10, Offset: 20})
	assert.Contains(t, query, "vertices = $1")
	assert.Contains(t, query, "created_at > $2")
	assert.Contains(t, query, "LIMIT $3")
	assert.Contains(t, query, "OFFSET $4")
	assert.Equal(t, []any{5, since, 10, 20}, args)

	query, args = store.buildListQuery(archive.Filter{})
	assert.NotContains(t, query, "$")
	assert.Empty(t, args)
}
