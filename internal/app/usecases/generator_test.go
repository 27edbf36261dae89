package usecases

import (
	"bufio"
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/flowgraph/randgraph/internal/adapters/repository/memory"
	"github.com/flowgraph/randgraph/internal/app/dto"
	"github.com/flowgraph/randgraph/internal/core/archive"
	"github.com/flowgraph/randgraph/internal/core/graph"
	"github.com/flowgraph/randgraph/internal/core/sampler"
	"github.com/flowgraph/randgraph/internal/infrastructure/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietGenerator(store archive.Store, opts ...Option) *Generator {
	opts = append([]Option{WithLogger(log.New(io.Discard, "", 0))}, opts...)
	return NewGenerator(store, opts...)
}

// readLines returns the non-empty lines of path.
func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	require.NoError(t, sc.Err())
	return lines
}

func TestGenerator_Generate_Example(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.txt")
	gen := quietGenerator(nil)

	res, err := gen.Generate(context.Background(), &dto.GenerateRequest{
		Vertices: 5, Edges: 5, Output: path, Seed: 11,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Edges)
	assert.Equal(t, uint64(11), res.Seed)
	assert.Equal(t, res.Stats.Draws, 5+res.Stats.SelfLoops+res.Stats.Duplicates)
	assert.Empty(t, res.RecordID)

	lines := readLines(t, path)
	require.Len(t, lines, 6)
	assert.Equal(t, "5 5", lines[0])

	seen := make(map[[2]int]bool)
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		require.Len(t, fields, 2)
		u, err := strconv.Atoi(fields[0])
		require.NoError(t, err)
		v, err := strconv.Atoi(fields[1])
		require.NoError(t, err)

		assert.NotEqual(t, u, v)
		assert.Less(t, u, v)
		assert.True(t, u >= 1 && v <= 5, "edge %d %d out of range", u, v)
		assert.False(t, seen[[2]int{u, v}], "duplicate %d %d", u, v)
		seen[[2]int{u, v}] = true
	}
}

func TestGenerator_SameSeedSameFile(t *testing.T) {
	dir := t.TempDir()
	gen := quietGenerator(nil)

	for _, name := range []string{"a.txt", "b.txt"} {
		_, err := gen.Generate(context.Background(), &dto.GenerateRequest{
			Vertices: 30, Edges: 60, Output: filepath.Join(dir, name), Seed: 2024,
		})
		require.NoError(t, err)
	}

	a, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(dir, "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestGenerator_ZeroSeedIsReported(t *testing.T) {
	gen := quietGenerator(nil)
	res, err := gen.Generate(context.Background(), &dto.GenerateRequest{
		Vertices: 4, Edges: 2, Output: filepath.Join(t.TempDir(), "g.txt"),
	})
	require.NoError(t, err)
	assert.NotZero(t, res.Seed)
}

func TestGenerator_CompleteGraph(t *testing.T) {
	path := filepath.Join(t.TempDir(), "k6.txt")
	gen := quietGenerator(nil)

	res, err := gen.Generate(context.Background(), &dto.GenerateRequest{
		Vertices: 6, Edges: graph.MaxEdges(6), Output: path, Seed: 5,
	})
	require.NoError(t, err)

	for u := 1; u <= 6; u++ {
		for v := u + 1; v <= 6; v++ {
			assert.True(t, res.Graph.HasEdge(u, v), "missing %d %d", u, v)
		}
	}
}

func TestGenerator_Errors(t *testing.T) {
	ctx := context.Background()
	gen := quietGenerator(nil)

	t.Run("nil request", func(t *testing.T) {
		_, err := gen.Generate(ctx, nil)
		assert.ErrorIs(t, err, dto.ErrInvalidRequest)
	})

	t.Run("infeasible edge count", func(t *testing.T) {
		_, err := gen.Generate(ctx, &dto.GenerateRequest{Vertices: 3, Edges: 4, Output: "unused.txt"})
		assert.ErrorIs(t, err, dto.ErrInvalidRequest)
		assert.ErrorIs(t, err, graph.ErrTooManyEdges)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := gen.Generate(cctx, &dto.GenerateRequest{
			Vertices: 5, Edges: 5, Output: filepath.Join(t.TempDir(), "g.txt"),
		})
		assert.ErrorIs(t, err, dto.ErrSampleFailed)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("nil source", func(t *testing.T) {
		g := quietGenerator(nil, WithSourceFactory(func(uint64) sampler.Source { return nil }))
		_, err := g.Generate(ctx, &dto.GenerateRequest{
			Vertices: 5, Edges: 5, Output: filepath.Join(t.TempDir(), "g.txt"),
		})
		assert.ErrorIs(t, err, sampler.ErrNilSource)
	})

	t.Run("unwritable output", func(t *testing.T) {
		_, err := gen.Generate(ctx, &dto.GenerateRequest{
			Vertices: 5, Edges: 5, Output: filepath.Join(t.TempDir(), "no", "such", "dir.txt"),
		})
		assert.ErrorIs(t, err, dto.ErrWriteFailed)
	})
}

func TestGenerator_ArchiveAndRestore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := memory.NewStore(nil)
	gen := quietGenerator(store, WithIDFunc(func() string { return "run-1" }))

	original := filepath.Join(dir, "graph.txt")
	res, err := gen.Generate(ctx, &dto.GenerateRequest{
		Vertices: 10, Edges: 12, Output: original, Seed: 3, Archive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "run-1", res.RecordID)
	assert.Equal(t, 1, store.Len())

	rec, err := store.Load(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), rec.Seed)
	assert.Equal(t, res.Graph.Edges(), rec.Edges)

	restored := filepath.Join(dir, "restored.txt")
	_, err = gen.Restore(ctx, "run-1", restored)
	require.NoError(t, err)
	assert.Equal(t, readLines(t, original), readLines(t, restored))

	_, err = gen.Restore(ctx, "missing", restored)
	assert.ErrorIs(t, err, archive.ErrRecordNotFound)
}

func TestGenerator_RestoreMetrics(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(nil)
	gen := quietGenerator(store, WithIDFunc(func() string { return "run-m" }))

	_, err := gen.Generate(ctx, &dto.GenerateRequest{
		Vertices: 4, Edges: 2, Output: filepath.Join(t.TempDir(), "g.txt"), Seed: 9, Archive: true,
	})
	require.NoError(t, err)

	before := metrics.Snapshot()
	_, err = gen.Restore(ctx, "run-m", filepath.Join(t.TempDir(), "r.txt"))
	require.NoError(t, err)
	_, err = gen.Restore(ctx, "absent", "")
	require.Error(t, err)
	after := metrics.Snapshot()

	assert.Equal(t, before["randgraph_runs_total{restore}"]+2, after["randgraph_runs_total{restore}"])
	assert.Equal(t, before["randgraph_failures_total{restore}"]+1, after["randgraph_failures_total{restore}"])
	assert.Equal(t, before["randgraph_written_total{file}"]+1, after["randgraph_written_total{file}"])
}

func TestGenerator_ArchiveWithoutStore(t *testing.T) {
	gen := quietGenerator(nil)
	res, err := gen.Generate(context.Background(), &dto.GenerateRequest{
		Vertices: 4, Edges: 3, Output: filepath.Join(t.TempDir(), "g.txt"), Seed: 1, Archive: true,
	})
	require.NoError(t, err)
	assert.Empty(t, res.RecordID)

	_, err = gen.Restore(context.Background(), "any", "")
	assert.Error(t, err)
}

func TestGenerator_Verify(t *testing.T) {
	dir := t.TempDir()
	gen := quietGenerator(nil)

	good := filepath.Join(dir, "good.txt")
	_, err := gen.Generate(context.Background(), &dto.GenerateRequest{
		Vertices: 8, Edges: 9, Output: good, Seed: 8,
	})
	require.NoError(t, err)

	g, err := gen.Verify(good)
	require.NoError(t, err)
	assert.Equal(t, 8, g.Vertices())
	assert.Equal(t, 9, g.Size())

	bad := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(bad, []byte("3 2\n1 2\n2 1\n"), 0o644))
	_, err = gen.Verify(bad)
	assert.ErrorIs(t, err, graph.ErrDuplicateEdge)
}
