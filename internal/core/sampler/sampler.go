// Package sampler draws random undirected simple graphs by rejection
// sampling: pairs of uniform vertices are drawn until enough distinct
// non-loop pairs have been collected.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/flowgraph/randgraph/internal/core/graph"
)

// ErrNilSource is returned when a sampler is built without a random source.
var ErrNilSource = errors.New("random source cannot be nil")

// Source yields uniform integers in [0, n). *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// NewSource returns a PCG-backed source. A zero seed is replaced by the
// current time, so unseeded runs differ.
func NewSource(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed>>1|1))
}

// Stats counts what happened during one Sample call.
type Stats struct {
	Draws      int `json:"draws"`
	SelfLoops  int `json:"self_loops"`
	Duplicates int `json:"duplicates"`
}

// Accepted returns the number of draws that produced a new edge.
func (s Stats) Accepted() int {
	return s.Draws - s.SelfLoops - s.Duplicates
}

// Sampler draws edges from a Source.
type Sampler struct {
	src Source
}

// New creates a sampler over src.
func New(src Source) (*Sampler, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	return &Sampler{src: src}, nil
}

// Sample collects m distinct edges over vertices 1..n.
//
// There is no bound on the number of draws: if m exceeds n(n-1)/2 the loop
// only ends when ctx is cancelled. Callers that need a guarantee should run
// graph.CheckParams first.
func (s *Sampler) Sample(ctx context.Context, n, m int) (*graph.Graph, Stats, error) {
	var stats Stats

	g, err := graph.New(n)
	if err != nil {
		return nil, stats, err
	}

	for g.Size() < m {
		select {
		case <-ctx.Done():
			return nil, stats, fmt.Errorf("sampling stopped after %d draws (%d/%d edges): %w",
				stats.Draws, g.Size(), m, ctx.Err())
		default:
		}

		u := s.src.IntN(n) + 1
		v := s.src.IntN(n) + 1
		stats.Draws++

		if u == v {
			stats.SelfLoops++
			continue
		}
		if g.HasEdge(u, v) {
			stats.Duplicates++
			continue
		}
		if err := g.AddEdge(u, v); err != nil {
			return nil, stats, err
		}
	}

	return g, stats, nil
}
