package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/flowgraph/randgraph/internal/core/archive"
	"github.com/flowgraph/randgraph/internal/core/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(id string, n int, created time.Time) *archive.Record {
	return &archive.Record{
		ID:        id,
		Vertices:  n,
		Edges:     []graph.Edge{{U: 1, V: 2}, {U: 2, V: n}},
		Seed:      7,
		Output:    "graph.txt",
		CreatedAt: created,
	}
}

func TestStore_SaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)

	r := testRecord("run-1", 5, time.Now())
	require.NoError(t, store.Save(ctx, r))
	assert.Equal(t, 1, store.Len())

	loaded, err := store.Load(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, r, loaded)

	// The stored copy is independent of the caller's slice.
	r.Edges[0] = graph.Edge{U: 3, V: 4}
	loaded, err = store.Load(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, graph.Edge{U: 1, V: 2}, loaded.Edges[0])

	require.NoError(t, store.Delete(ctx, "run-1"))
	_, err = store.Load(ctx, "run-1")
	assert.ErrorIs(t, err, archive.ErrRecordNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "run-1"), archive.ErrRecordNotFound)
}

func TestStore_Errors(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)

	assert.ErrorIs(t, store.Save(ctx, nil), archive.ErrNilRecord)
	assert.ErrorIs(t, store.Save(ctx, &archive.Record{Vertices: 2}), archive.ErrInvalidRecordID)

	_, err := store.Load(ctx, "")
	assert.ErrorIs(t, err, archive.ErrInvalidRecordID)
	assert.ErrorIs(t, store.Delete(ctx, ""), archive.ErrInvalidRecordID)

	_, err = store.List(ctx, archive.Filter{Limit: -1})
	assert.ErrorIs(t, err, archive.ErrInvalidLimit)
}

func TestStore_List(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)
	base := time.Now()

	require.NoError(t, store.Save(ctx, testRecord("a", 5, base.Add(-3*time.Minute))))
	require.NoError(t, store.Save(ctx, testRecord("b", 6, base.Add(-2*time.Minute))))
	require.NoError(t, store.Save(ctx, testRecord("c", 5, base.Add(-1*time.Minute))))

	ids := func(rs []*archive.Record) []string {
		out := make([]string, 0, len(rs))
		for _, r := range rs {
			out = append(out, r.ID)
		}
		return out
	}

	all, err := store.List(ctx, archive.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, ids(all))

	five, err := store.List(ctx, archive.Filter{Vertices: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, ids(five))

	since := base.Add(-150 * time.Second)
	recent, err := store.List(ctx, archive.Filter{Since: &since})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b"}, ids(recent))

	page, err := store.List(ctx, archive.Filter{Offset: 1, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids(page))

	empty, err := store.List(ctx, archive.Filter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStore_ConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, store.Save(ctx, testRecord(fmt.Sprintf("run-%d", i), 5, time.Now())))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, store.Len())
}
