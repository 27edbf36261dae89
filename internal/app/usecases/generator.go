// Package usecases wires the sampler, the edge-list writer and the record
// store into the generate and verify operations.
package usecases

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/flowgraph/randgraph/internal/app/dto"
	"github.com/flowgraph/randgraph/internal/core/archive"
	"github.com/flowgraph/randgraph/internal/core/edgelist"
	"github.com/flowgraph/randgraph/internal/core/graph"
	"github.com/flowgraph/randgraph/internal/core/sampler"
	"github.com/flowgraph/randgraph/internal/infrastructure/metrics"
)

// Generator implements GraphGenerator
type Generator struct {
	store     archive.Store
	newSource func(seed uint64) sampler.Source
	newID     func() string
	clock     func() time.Time
	logger    *log.Logger
}

// Option customizes a Generator.
type Option func(*Generator)

// WithSourceFactory replaces the PCG source, mainly for tests.
func WithSourceFactory(f func(seed uint64) sampler.Source) Option {
	return func(g *Generator) { g.newSource = f }
}

// WithIDFunc replaces uuid-based record IDs.
func WithIDFunc(f func() string) Option {
	return func(g *Generator) { g.newID = f }
}

// WithLogger sets the logger for run summaries.
func WithLogger(l *log.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// NewGenerator creates a generator. store may be nil, in which case Archive
// requests are ignored.
func NewGenerator(store archive.Store, opts ...Option) *Generator {
	g := &Generator{
		store:     store,
		newSource: func(seed uint64) sampler.Source { return sampler.NewSource(seed) },
		newID:     uuid.NewString,
		clock:     time.Now,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate validates req, samples the graph, writes the file and, if asked,
// archives the run.
func (g *Generator) Generate(ctx context.Context, req *dto.GenerateRequest) (*dto.GenerateResult, error) {
	metrics.IncRuns("generate")

	if req == nil {
		metrics.IncFailures("validate")
		return nil, dto.ErrInvalidRequest
	}
	if err := req.Validate(); err != nil {
		metrics.IncFailures("validate")
		return nil, fmt.Errorf("%w: %w", dto.ErrInvalidRequest, err)
	}

	start := g.clock()
	seed := req.Seed
	if seed == 0 {
		seed = uint64(start.UnixNano())
	}

	s, err := sampler.New(g.newSource(seed))
	if err != nil {
		metrics.IncFailures("sample")
		return nil, fmt.Errorf("%w: %w", dto.ErrSampleFailed, err)
	}
	gr, stats, err := s.Sample(ctx, req.Vertices, req.Edges)
	metrics.AddDraws(stats.Draws)
	metrics.AddSelfLoops(stats.SelfLoops)
	metrics.AddDuplicates(stats.Duplicates)
	if err != nil {
		metrics.IncFailures("sample")
		return nil, fmt.Errorf("%w: %w", dto.ErrSampleFailed, err)
	}
	metrics.AddEdges(gr.Size())

	if err := edgelist.WriteFile(req.Output, gr); err != nil {
		metrics.IncFailures("write")
		return nil, fmt.Errorf("%w: %w", dto.ErrWriteFailed, err)
	}
	metrics.IncWritten("file")

	result := &dto.GenerateResult{
		Output:   req.Output,
		Vertices: gr.Vertices(),
		Edges:    gr.Size(),
		Seed:     seed,
		Stats:    stats,
		Graph:    gr,
	}

	if req.Archive && g.store != nil {
		rec := archive.NewRecord(g.newID(), gr, seed, req.Output)
		if err := g.store.Save(ctx, rec); err != nil {
			metrics.IncFailures("archive")
			return nil, fmt.Errorf("%w: %w", dto.ErrArchiveFailed, err)
		}
		metrics.IncWritten("archive")
		result.RecordID = rec.ID
	}

	result.Duration = g.clock().Sub(start)
	g.logger.Printf("generated %s: n=%d m=%d seed=%d draws=%d self_loops=%d duplicates=%d in %s",
		req.Output, result.Vertices, result.Edges, seed, stats.Draws, stats.SelfLoops, stats.Duplicates, result.Duration)

	return result, nil
}

// Verify reads path and checks it is a simple graph matching its header.
func (g *Generator) Verify(path string) (*graph.Graph, error) {
	metrics.IncRuns("verify")

	gr, err := edgelist.ReadFile(path)
	if err != nil {
		metrics.IncFailures("verify")
		return nil, err
	}
	g.logger.Printf("verified %s: n=%d m=%d", path, gr.Vertices(), gr.Size())
	return gr, nil
}

// Restore rewrites an archived run to its original (or a new) output path.
func (g *Generator) Restore(ctx context.Context, id, output string) (*graph.Graph, error) {
	metrics.IncRuns("restore")

	if g.store == nil {
		metrics.IncFailures("restore")
		return nil, fmt.Errorf("restore %s: no store configured", id)
	}

	rec, err := g.store.Load(ctx, id)
	if err != nil {
		metrics.IncFailures("restore")
		return nil, err
	}
	gr, err := rec.Graph()
	if err != nil {
		metrics.IncFailures("restore")
		return nil, fmt.Errorf("record %s is corrupt: %w", id, err)
	}

	if output == "" {
		output = rec.Output
	}
	if err := edgelist.WriteFile(output, gr); err != nil {
		metrics.IncFailures("write")
		return nil, fmt.Errorf("%w: %w", dto.ErrWriteFailed, err)
	}
	metrics.IncWritten("file")
	g.logger.Printf("restored %s to %s: n=%d m=%d", id, output, gr.Vertices(), gr.Size())
	return gr, nil
}
